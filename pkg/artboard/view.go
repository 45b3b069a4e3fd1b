package artboard

import (
	"math"

	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// View maps artwork coordinates (y-up) onto a pixel viewport (y-down).
type View struct {
	// Origin is the artwork point shown at the top-left of the viewport.
	Origin models.Point
	Zoom   float64
	// Rotation in radians, applied about the viewport center.
	Rotation float64
	Width    int
	Height   int

	active      bool
	invalidated []models.ViewRect
}

// NewView returns an unrotated 1:1 view whose top-left shows the top-left of doc's artboard.
func NewView(doc *Document) *View {
	return &View{
		Origin: models.Point{H: doc.Size.Left, V: doc.Size.Top},
		Zoom:   1,
		Width:  int(math.Ceil(doc.Size.Width())),
		Height: int(math.Ceil(doc.Size.Height())),
	}
}

func (v *View) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

func (v *View) toView(p models.Point, rotate bool) (float64, float64) {
	z := v.zoom()
	x := (p.H - v.Origin.H) * z
	y := (v.Origin.V - p.V) * z
	if rotate && v.Rotation != 0 {
		cx, cy := float64(v.Width)/2, float64(v.Height)/2
		s, c := math.Sincos(v.Rotation)
		dx, dy := x-cx, y-cy
		x = cx + dx*c - dy*s
		y = cy + dx*s + dy*c
	}
	return x, y
}

// ArtworkPointToViewPoint converts an artwork point to the nearest view pixel.
func (v *View) ArtworkPointToViewPoint(p models.Point) (models.ViewPoint, error) {
	x, y := v.toView(p, true)
	return models.ViewPoint{X: int(math.Round(x)), Y: int(math.Round(y))}, nil
}

// ViewPointToArtworkPoint is the inverse of ArtworkPointToViewPoint.
func (v *View) ViewPointToArtworkPoint(p models.ViewPoint) (models.Point, error) {
	x, y := float64(p.X), float64(p.Y)
	if v.Rotation != 0 {
		cx, cy := float64(v.Width)/2, float64(v.Height)/2
		s, c := math.Sincos(-v.Rotation)
		dx, dy := x-cx, y-cy
		x = cx + dx*c - dy*s
		y = cy + dx*s + dy*c
	}
	z := v.zoom()
	return models.Point{H: v.Origin.H + x/z, V: v.Origin.V - y/z}, nil
}

func (v *View) rectToView(r models.Rect, rotate bool) models.ViewRect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range r.Corners() {
		x, y := v.toView(c, rotate)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return models.ViewRect{
		Left:   int(math.Floor(minX)),
		Top:    int(math.Floor(minY)),
		Right:  int(math.Ceil(maxX)),
		Bottom: int(math.Ceil(maxY)),
	}
}

// ArtworkRectToViewRect returns the view-space bounding box of r, rotation included.
func (v *View) ArtworkRectToViewRect(r models.Rect) (models.ViewRect, error) {
	return v.rectToView(r, true), nil
}

// ArtworkRectToViewRectUnrotated returns the view-space box of r ignoring rotation.
func (v *View) ArtworkRectToViewRectUnrotated(r models.Rect) (models.ViewRect, error) {
	return v.rectToView(r, false), nil
}

// ViewBounds returns the visible area in artwork coordinates, ignoring rotation.
func (v *View) ViewBounds() (models.Rect, error) {
	z := v.zoom()
	return models.Rect{
		Left:   v.Origin.H,
		Top:    v.Origin.V,
		Right:  v.Origin.H + float64(v.Width)/z,
		Bottom: v.Origin.V - float64(v.Height)/z,
	}, nil
}

// InvalidateRect records a region that needs its annotations redrawn.
func (v *View) InvalidateRect(r models.ViewRect) error {
	v.invalidated = append(v.invalidated, r)
	return nil
}

// SetAnnotatorActive turns annotation drawing on or off.
func (v *View) SetAnnotatorActive(active bool) error {
	v.active = active
	return nil
}

// AnnotatorActive reports whether annotations are drawn.
func (v *View) AnnotatorActive() bool { return v.active }

// Invalidated returns the regions recorded since the last TakeInvalidated call.
func (v *View) Invalidated() []models.ViewRect { return v.invalidated }

// TakeInvalidated returns and clears the recorded regions.
func (v *View) TakeInvalidated() []models.ViewRect {
	out := v.invalidated
	v.invalidated = nil
	return out
}

var (
	_ host.View      = (*View)(nil)
	_ host.Annotator = (*View)(nil)
)
