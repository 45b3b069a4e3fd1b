package models

// ArtHandle is a non-owning reference to a node in the host's art tree.
// The zero value refers to no art.
type ArtHandle uint64

// NoArt is the zero handle.
const NoArt ArtHandle = 0

// ArtType is the kind of an art node.
type ArtType int

const (
	ArtUnknown ArtType = iota
	ArtGroup
	ArtPath
	ArtText
)

func (t ArtType) String() string {
	switch t {
	case ArtGroup:
		return "group"
	case ArtPath:
		return "path"
	case ArtText:
		return "text"
	default:
		return "unknown"
	}
}

// PaintOrder places a new node relative to a prep node.
type PaintOrder int

const (
	// PlaceAboveAll puts the node on top of the document, prep is ignored.
	PlaceAboveAll PaintOrder = iota
	// PlaceInsideOnTop makes the node the topmost child of prep.
	PlaceInsideOnTop
	// PlaceInsideOnBottom makes the node the bottommost child of prep.
	PlaceInsideOnBottom
	// PlaceAbove puts the node directly above its sibling prep.
	PlaceAbove
	// PlaceBelow puts the node directly below its sibling prep.
	PlaceBelow
)

// PathSegment is one anchor of a path. In and Out are the tangent handles;
// a straight corner has both collapsed onto P.
type PathSegment struct {
	P      Point `json:"p"`
	In     Point `json:"in"`
	Out    Point `json:"out"`
	Corner bool  `json:"corner"`
}

// CornerSegment returns a straight-edged corner anchor at p.
func CornerSegment(p Point) PathSegment {
	return PathSegment{P: p, In: p, Out: p, Corner: true}
}

// ColorSpace tells how a Paint's channels are interpreted.
type ColorSpace int

const (
	// GrayColor uses Paint.Gray as ink coverage: 0 is white, 1 is black.
	GrayColor ColorSpace = iota
	// RGBColor uses Paint.RGB.
	RGBColor
)

// Paint is a solid color.
type Paint struct {
	Space ColorSpace `json:"space"`
	Gray  float64    `json:"gray"`
	RGB   RGB        `json:"rgb"`
}

// GrayPaint returns a gray paint with the given ink coverage.
func GrayPaint(ink float64) Paint { return Paint{Space: GrayColor, Gray: ink} }

// RGBPaint returns an RGB paint.
func RGBPaint(c RGB) Paint { return Paint{Space: RGBColor, RGB: c} }

// ToRGB resolves the paint to RGB channels.
func (p Paint) ToRGB() RGB {
	if p.Space == RGBColor {
		return p.RGB
	}
	ink := p.Gray
	if ink < 0 {
		ink = 0
	}
	if ink > 1 {
		ink = 1
	}
	v := uint16((1 - ink) * 65535)
	return RGB{Red: v, Green: v, Blue: v}
}

// Stroke describes how a path outline is painted.
type Stroke struct {
	Paint Paint     `json:"paint"`
	Width float64   `json:"width"`
	Dash  []float64 `json:"dash,omitempty"`
}

// PathStyle is the fill and stroke of a path.
type PathStyle struct {
	FillPaint   bool   `json:"fill_paint"`
	Fill        Paint  `json:"fill"`
	StrokePaint bool   `json:"stroke_paint"`
	Stroke      Stroke `json:"stroke"`
}

// DefaultPathStyle is what a freshly created path carries: no fill, 1pt black stroke.
func DefaultPathStyle() PathStyle {
	return PathStyle{StrokePaint: true, Stroke: Stroke{Paint: GrayPaint(1), Width: 1}}
}

// TextAlign anchors point text horizontally.
type TextAlign int

const (
	AlignLeft TextAlign = iota
	AlignCenter
	AlignRight
)

// TextStyle is the appearance of a point-text node.
type TextStyle struct {
	Size  float64   `json:"size"`
	Align TextAlign `json:"align"`
	Color RGB       `json:"color"`
	Bold  bool      `json:"bold"`
}
