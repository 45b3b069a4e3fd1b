// Package host declares the services the chart core calls into. The host
// application owns the art tree, per-node dictionaries, styling, hit-testing,
// coordinate transforms, snapping, selection and annotation drawing; the core
// only ever reaches them through these interfaces.
package host

import (
	"errors"

	"github.com/user/charts-go/internal/models"
)

var (
	// ErrBadParameter is returned when an operation is given invalid input,
	// such as chart data that fails validation.
	ErrBadParameter = errors.New("bad parameter")
	// ErrNotFound means an art handle does not refer to a live node.
	ErrNotFound = errors.New("art not found")
	// ErrNoSuchKey means a dictionary has no entry for the key.
	ErrNoSuchKey = errors.New("no such dictionary key")
	// ErrWrongType means a dictionary entry exists with a different type.
	ErrWrongType = errors.New("dictionary entry has a different type")
	// ErrWrongArtType means the operation does not apply to the node's type.
	ErrWrongArtType = errors.New("operation not supported for art type")
)

// DictKey is an opaque key resolved from a name before use.
type DictKey string

// Dictionary is a typed key/value store attached to an art node.
type Dictionary interface {
	Key(name string) DictKey
	Has(key DictKey) bool
	Delete(key DictKey)

	SetInteger(key DictKey, v int32) error
	Integer(key DictKey) (int32, error)
	SetBoolean(key DictKey, v bool) error
	Boolean(key DictKey) (bool, error)
	SetReal(key DictKey, v float64) error
	Real(key DictKey) (float64, error)
	SetString(key DictKey, v string) error
	String(key DictKey) (string, error)
}

// ArtService creates, names, walks and disposes art nodes.
type ArtService interface {
	NewArt(kind models.ArtType, order models.PaintOrder, prep models.ArtHandle) (models.ArtHandle, error)
	DisposeArt(art models.ArtHandle) error
	SetArtName(art models.ArtHandle, name string) error
	ArtName(art models.ArtHandle) (string, error)
	ArtType(art models.ArtHandle) (models.ArtType, error)
	// ArtBounds returns the transform-aware geometric bounds, stroke excluded.
	ArtBounds(art models.ArtHandle) (models.Rect, error)
	// FirstChild and NextSibling return models.NoArt at the end of a list.
	FirstChild(art models.ArtHandle) (models.ArtHandle, error)
	NextSibling(art models.ArtHandle) (models.ArtHandle, error)
	// Dictionary returns the node's metadata store, creating it on first use.
	Dictionary(art models.ArtHandle) (Dictionary, error)
}

// PathService edits path geometry and paint.
type PathService interface {
	SetPathSegments(art models.ArtHandle, segs []models.PathSegment) error
	PathSegments(art models.ArtHandle) ([]models.PathSegment, error)
	SetPathClosed(art models.ArtHandle, closed bool) error
	PathClosed(art models.ArtHandle) (bool, error)
	PathStyle(art models.ArtHandle) (models.PathStyle, error)
	SetPathStyle(art models.ArtHandle, style models.PathStyle) error
}

// TextService creates in-document point text.
type TextService interface {
	NewPointText(parent models.ArtHandle, anchor models.Point, contents string, style models.TextStyle) (models.ArtHandle, error)
	TextContents(art models.ArtHandle) (string, models.Point, models.TextStyle, error)
}

// Selection exposes the host's selection state.
type Selection interface {
	IsSomeArtSelected() bool
	DeselectAll() error
	SelectArt(art models.ArtHandle) error
	IsSelected(art models.ArtHandle) bool
}

// View converts between artwork and view coordinates for the current document view.
type View interface {
	ArtworkPointToViewPoint(p models.Point) (models.ViewPoint, error)
	ViewPointToArtworkPoint(p models.ViewPoint) (models.Point, error)
	// ArtworkRectToViewRect accounts for view rotation.
	ArtworkRectToViewRect(r models.Rect) (models.ViewRect, error)
	// ArtworkRectToViewRectUnrotated ignores view rotation.
	ArtworkRectToViewRectUnrotated(r models.Rect) (models.ViewRect, error)
	// ViewBounds returns the visible document area in artwork coordinates.
	ViewBounds() (models.Rect, error)
}

// Annotator lets the core request annotation redraws.
type Annotator interface {
	InvalidateRect(r models.ViewRect) error
	SetAnnotatorActive(active bool) error
}

// HitTester finds the topmost art under a point.
type HitTester interface {
	HitTest(p models.Point) (models.ArtHandle, bool, error)
}

// Snapper adjusts cursor locations toward nearby reference geometry.
type Snapper interface {
	SnapActive() bool
	// Snap returns p adjusted according to the enabled targets in control.
	Snap(p models.Point, control string) (models.Point, error)
}

// FontPreset selects one of the annotation drawer's preset font sizes.
type FontPreset int

const (
	FontSmall FontPreset = iota
	FontMedium
	FontLarge
)

// HAlign and VAlign place text inside a rectangle.
type HAlign int

const (
	HAlignLeft HAlign = iota
	HAlignCenter
	HAlignRight
)

type VAlign int

const (
	VAlignTop VAlign = iota
	VAlignMiddle
	VAlignBottom
)

// AnnotationDrawer draws transient view-space overlays. Calls are only valid
// during an annotator draw pass.
type AnnotationDrawer interface {
	SetColor(c models.RGB)
	SetLineWidth(w float64)
	SetLineDash(dash []float64)
	DrawRect(r models.ViewRect, fill bool) error
	DrawLine(from, to models.ViewPoint) error
	SetFontPreset(p FontPreset) error
	FontSize() float64
	DrawText(text string, bottomLeft models.ViewPoint) error
	DrawTextAligned(text string, h HAlign, v VAlign, r models.ViewRect) error
	TextBounds(text string, bottomLeft models.ViewPoint) (models.ViewRect, error)
}

// Document bundles every art-side service a chart needs.
type Document interface {
	ArtService
	PathService
	TextService
}
