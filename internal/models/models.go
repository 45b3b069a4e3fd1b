package models

import (
	"fmt"
	"math"
	"strings"
)

// Point is a location in artwork (canvas) coordinates. V increases upward.
type Point struct {
	H float64 `json:"h" yaml:"h"`
	V float64 `json:"v" yaml:"v"`
}

// Rect is a rectangle in artwork coordinates. Top is the larger V value.
type Rect struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// RectFromCorners normalizes two arbitrary corner points into a canonical Rect.
func RectFromCorners(a, b Point) Rect {
	return Rect{
		Left:   math.Min(a.H, b.H),
		Right:  math.Max(a.H, b.H),
		Top:    math.Max(a.V, b.V),
		Bottom: math.Min(a.V, b.V),
	}
}

// Width returns the horizontal extent of the rectangle.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent of the rectangle.
func (r Rect) Height() float64 { return r.Top - r.Bottom }

// Inset shrinks the rectangle by d on every side.
func (r Rect) Inset(d float64) Rect {
	return Rect{Left: r.Left + d, Right: r.Right - d, Top: r.Top - d, Bottom: r.Bottom + d}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.H >= r.Left && p.H <= r.Right && p.V >= r.Bottom && p.V <= r.Top
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	return Rect{
		Left:   math.Min(r.Left, o.Left),
		Right:  math.Max(r.Right, o.Right),
		Top:    math.Max(r.Top, o.Top),
		Bottom: math.Min(r.Bottom, o.Bottom),
	}
}

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Corners returns the rectangle corners clockwise starting at top-left.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{H: r.Left, V: r.Top},
		{H: r.Right, V: r.Top},
		{H: r.Right, V: r.Bottom},
		{H: r.Left, V: r.Bottom},
	}
}

// ViewPoint is a location in screen (view) coordinates. Y increases downward.
type ViewPoint struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// ViewRect is a rectangle in view coordinates. Top is the smaller Y value.
type ViewRect struct {
	Left   int `json:"left"`
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
}

// Width returns the horizontal extent of the view rectangle.
func (r ViewRect) Width() int { return r.Right - r.Left }

// Height returns the vertical extent of the view rectangle.
func (r ViewRect) Height() int { return r.Bottom - r.Top }

// IsZero reports whether every edge is zero.
func (r ViewRect) IsZero() bool { return r == ViewRect{} }

// RGB is a color with 16-bit channels, 0..65535.
type RGB struct {
	Red   uint16 `json:"red"`
	Green uint16 `json:"green"`
	Blue  uint16 `json:"blue"`
}

// DefaultGray is the mid-gray used for points and series without an explicit color.
var DefaultGray = RGB{Red: 30000, Green: 30000, Blue: 30000}

// ParseHexRGB parses "#rrggbb" (the leading '#' is optional).
func ParseHexRGB(s string) (RGB, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return RGB{}, fmt.Errorf("invalid color %q: want #rrggbb", s)
	}
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
		return RGB{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	// 0xff -> 0xffff
	return RGB{Red: uint16(r) * 257, Green: uint16(g) * 257, Blue: uint16(b) * 257}, nil
}

// Hex formats the color as "#rrggbb".
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.Red>>8, c.Green>>8, c.Blue>>8)
}

// ChartType identifies the kind of chart. The integer codes are persisted.
type ChartType int32

const (
	ChartBar ChartType = iota
	ChartLine
	ChartPie
	ChartArea
	ChartScatter
	ChartColumn
	ChartDonut
	ChartRadar
	ChartUnknown
)

var chartTypeNames = map[ChartType]string{
	ChartBar:     "Bar Chart",
	ChartLine:    "Line Chart",
	ChartPie:     "Pie Chart",
	ChartArea:    "Area Chart",
	ChartScatter: "Scatter Plot",
	ChartColumn:  "Column Chart",
	ChartDonut:   "Donut Chart",
	ChartRadar:   "Radar Chart",
}

var chartTypeKeys = map[string]ChartType{
	"bar":     ChartBar,
	"line":    ChartLine,
	"pie":     ChartPie,
	"area":    ChartArea,
	"scatter": ChartScatter,
	"column":  ChartColumn,
	"donut":   ChartDonut,
	"radar":   ChartRadar,
}

// String returns the display name of the chart type.
func (t ChartType) String() string {
	if name, ok := chartTypeNames[t]; ok {
		return name
	}
	return "Unknown Chart"
}

// Valid reports whether t is one of the declared chart types (Unknown included).
func (t ChartType) Valid() bool { return t >= ChartBar && t <= ChartUnknown }

// ParseChartType maps a short lowercase name ("bar", "column", ...) to a ChartType.
func ParseChartType(s string) (ChartType, error) {
	if t, ok := chartTypeKeys[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t, nil
	}
	return ChartUnknown, fmt.Errorf("unknown chart type %q", s)
}

// DataPoint is a single labeled value.
type DataPoint struct {
	Value float64 `json:"value" yaml:"value"`
	Label string  `json:"label" yaml:"label"`
	Color RGB     `json:"color" yaml:"-"`
}

// NewDataPoint returns a point with the default gray color.
func NewDataPoint(value float64, label string) DataPoint {
	return DataPoint{Value: value, Label: label, Color: DefaultGray}
}

// DataSeries is a named, ordered collection of points.
type DataSeries struct {
	Name   string      `json:"name"`
	Points []DataPoint `json:"points"`
	Color  RGB         `json:"color"`
}

// NewDataSeries returns an empty series with the default gray color.
func NewDataSeries(name string) DataSeries {
	return DataSeries{Name: name, Color: DefaultGray}
}
