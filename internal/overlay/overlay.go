// Package overlay records annotation drawing into an SVG snapshot. It stands
// in for a host's annotation layer when the tool runs outside a host.
package overlay

import (
	"fmt"
	"io"
	"math"
	"strings"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"

	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

var fonts = font.NewCache(liberation.Collection())

// presetSizes are the point sizes of the drawer's font presets.
var presetSizes = map[host.FontPreset]float64{
	host.FontSmall:  9,
	host.FontMedium: 12,
	host.FontLarge:  16,
}

// Drawer implements host.AnnotationDrawer by recording each call.
type Drawer struct {
	Width  int
	Height int

	color     models.RGB
	lineWidth float64
	dash      []float64
	preset    host.FontPreset
	face      font.Face

	ops []func(*svg.SVG)
}

// New returns a drawer for a width by height view.
func New(width, height int) *Drawer {
	d := &Drawer{Width: width, Height: height, lineWidth: 1}
	_ = d.SetFontPreset(host.FontMedium)
	return d
}

// Len returns the number of recorded drawing operations.
func (d *Drawer) Len() int { return len(d.ops) }

// Reset drops everything recorded so far.
func (d *Drawer) Reset() { d.ops = nil }

func (d *Drawer) SetColor(c models.RGB)  { d.color = c }
func (d *Drawer) SetLineWidth(w float64) { d.lineWidth = w }
func (d *Drawer) SetLineDash(dash []float64) {
	d.dash = append([]float64(nil), dash...)
}

func (d *Drawer) stroke() string {
	s := fmt.Sprintf("fill:none;stroke:%s;stroke-width:%g", d.color.Hex(), d.lineWidth)
	if len(d.dash) > 0 {
		parts := make([]string, len(d.dash))
		for i, v := range d.dash {
			parts[i] = fmt.Sprintf("%g", v)
		}
		s += ";stroke-dasharray:" + strings.Join(parts, ",")
	}
	return s
}

// DrawRect fills or outlines r.
func (d *Drawer) DrawRect(r models.ViewRect, fill bool) error {
	if r.Width() < 0 || r.Height() < 0 {
		return fmt.Errorf("rect %+v: %w", r, host.ErrBadParameter)
	}
	style := d.stroke()
	if fill {
		style = "stroke:none;fill:" + d.color.Hex()
	}
	d.ops = append(d.ops, func(c *svg.SVG) {
		c.Rect(r.Left, r.Top, r.Width(), r.Height(), style)
	})
	return nil
}

func (d *Drawer) DrawLine(from, to models.ViewPoint) error {
	style := d.stroke()
	d.ops = append(d.ops, func(c *svg.SVG) {
		c.Line(from.X, from.Y, to.X, to.Y, style)
	})
	return nil
}

func (d *Drawer) SetFontPreset(p host.FontPreset) error {
	size, ok := presetSizes[p]
	if !ok {
		return fmt.Errorf("font preset %d: %w", p, host.ErrBadParameter)
	}
	d.preset = p
	d.face = fonts.Lookup(font.Font{Typeface: "Liberation", Variant: "Sans"}, font.Length(size))
	return nil
}

func (d *Drawer) FontSize() float64 { return presetSizes[d.preset] }

func (d *Drawer) textStyle(anchor string) string {
	return fmt.Sprintf("font-family:%s;font-size:%gpx;fill:%s;text-anchor:%s",
		"Liberation Sans, sans-serif", d.FontSize(), d.color.Hex(), anchor)
}

// DrawText draws text with its baseline starting at bottomLeft.
func (d *Drawer) DrawText(text string, bottomLeft models.ViewPoint) error {
	style := d.textStyle("start")
	d.ops = append(d.ops, func(c *svg.SVG) {
		c.Text(bottomLeft.X, bottomLeft.Y, text, style)
	})
	return nil
}

// DrawTextAligned places text inside r.
func (d *Drawer) DrawTextAligned(text string, h host.HAlign, v host.VAlign, r models.ViewRect) error {
	ext := d.face.Extents()
	ascent, descent := float64(ext.Ascent), float64(ext.Descent)

	var x int
	anchor := "start"
	switch h {
	case host.HAlignLeft:
		x = r.Left
	case host.HAlignCenter:
		x, anchor = r.Left+r.Width()/2, "middle"
	case host.HAlignRight:
		x, anchor = r.Right, "end"
	}
	var y float64
	switch v {
	case host.VAlignTop:
		y = float64(r.Top) + ascent
	case host.VAlignMiddle:
		y = float64(r.Top) + (float64(r.Height())+ascent-descent)/2
	case host.VAlignBottom:
		y = float64(r.Bottom) - descent
	}

	style := d.textStyle(anchor)
	baseline := int(math.Round(y))
	d.ops = append(d.ops, func(c *svg.SVG) {
		c.Text(x, baseline, text, style)
	})
	return nil
}

// TextBounds measures text drawn with its baseline at bottomLeft.
func (d *Drawer) TextBounds(text string, bottomLeft models.ViewPoint) (models.ViewRect, error) {
	ext := d.face.Extents()
	w := float64(d.face.Width(text))
	return models.ViewRect{
		Left:   bottomLeft.X,
		Top:    bottomLeft.Y - int(math.Ceil(float64(ext.Ascent))),
		Right:  bottomLeft.X + int(math.Ceil(w)),
		Bottom: bottomLeft.Y + int(math.Ceil(float64(ext.Descent))),
	}, nil
}

// WriteTo renders the recorded operations as an SVG document.
func (d *Drawer) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: w}
	c := svg.New(cw)
	c.Start(d.Width, d.Height)
	c.Title("annotations")
	c.Gid("annotations")
	for _, op := range d.ops {
		op(c)
	}
	c.Gend()
	c.End()
	return cw.n, cw.err
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

var _ host.AnnotationDrawer = (*Drawer)(nil)
