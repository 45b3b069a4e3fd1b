// Package export renders art subtrees to SVG, PDF or PNG using gonum's vg canvases.
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	xfont "golang.org/x/image/font"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/font/liberation"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"

	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// Format is an output file format.
type Format string

const (
	SVG Format = "svg"
	PDF Format = "pdf"
	PNG Format = "png"
)

// ParseFormat accepts a format name or a file name with a known extension.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimPrefix(filepath.Ext("x."+s), "."))
	switch f := Format(s); f {
	case SVG, PDF, PNG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

var fonts = font.NewCache(liberation.Collection())

// Renderer draws art onto a vg canvas.
type Renderer struct {
	Doc host.Document
	// Padding is added around the exported bounds, in points.
	Padding float64
	// DefaultFormat is used by WriteFile for paths without an extension.
	DefaultFormat Format
}

// NewCanvas returns a canvas of format f sized w by h points.
func NewCanvas(f Format, w, h vg.Length) (vg.CanvasWriterTo, error) {
	switch f {
	case SVG:
		return vgsvg.New(w, h), nil
	case PDF:
		return vgpdf.New(w, h), nil
	case PNG:
		return vgimg.PngCanvas{Canvas: vgimg.New(w, h)}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", f)
}

// Write renders the subtrees under roots to w. The page covers the union of
// their bounds plus padding.
func (r *Renderer) Write(w io.Writer, f Format, roots ...models.ArtHandle) error {
	bounds, err := r.bounds(roots)
	if err != nil {
		return err
	}
	bounds = bounds.Inset(-r.Padding)
	if bounds.IsEmpty() {
		return fmt.Errorf("nothing to export: %w", host.ErrBadParameter)
	}

	c, err := NewCanvas(f, vg.Length(bounds.Width()), vg.Length(bounds.Height()))
	if err != nil {
		return err
	}
	c.Translate(vg.Point{X: vg.Length(-bounds.Left), Y: vg.Length(-bounds.Bottom)})
	for _, root := range roots {
		if err := r.draw(c, root); err != nil {
			return err
		}
	}
	if _, err := c.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write %s: %w", f, err)
	}
	return nil
}

// WriteFile renders roots to path, choosing the format from its extension
// or DefaultFormat when it has none.
func (r *Renderer) WriteFile(path string, roots ...models.ArtHandle) error {
	f, err := r.formatFor(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()
	if err := r.Write(out, f, roots...); err != nil {
		return err
	}
	return out.Close()
}

func (r *Renderer) formatFor(path string) (Format, error) {
	if filepath.Ext(path) == "" && r.DefaultFormat != "" {
		return ParseFormat(string(r.DefaultFormat))
	}
	return ParseFormat(path)
}

// PNGBase64 renders roots as a base64 encoded PNG, for embedding in HTML.
func (r *Renderer) PNGBase64(roots ...models.ArtHandle) (string, error) {
	var buf bytes.Buffer
	if err := r.Write(&buf, PNG, roots...); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func (r *Renderer) bounds(roots []models.ArtHandle) (models.Rect, error) {
	var out models.Rect
	for i, h := range roots {
		b, err := r.Doc.ArtBounds(h)
		if err != nil {
			return models.Rect{}, fmt.Errorf("failed to get bounds of art %d: %w", h, err)
		}
		if i == 0 {
			out = b
		} else {
			out = out.Union(b)
		}
	}
	return out, nil
}

func (r *Renderer) draw(c vg.Canvas, art models.ArtHandle) error {
	t, err := r.Doc.ArtType(art)
	if err != nil {
		return err
	}
	switch t {
	case models.ArtGroup:
		child, err := r.Doc.FirstChild(art)
		for ; err == nil && child != models.NoArt; child, err = r.Doc.NextSibling(child) {
			if err := r.draw(c, child); err != nil {
				return err
			}
		}
		return err
	case models.ArtPath:
		return r.drawPath(c, art)
	case models.ArtText:
		return r.drawText(c, art)
	}
	return nil
}

func (r *Renderer) drawPath(c vg.Canvas, art models.ArtHandle) error {
	segs, err := r.Doc.PathSegments(art)
	if err != nil {
		return err
	}
	if len(segs) == 0 {
		return nil
	}
	closed, err := r.Doc.PathClosed(art)
	if err != nil {
		return err
	}
	st, err := r.Doc.PathStyle(art)
	if err != nil {
		return err
	}
	p := vgPath(segs, closed)

	if st.FillPaint && closed {
		c.SetColor(rgba(st.Fill.ToRGB()))
		c.Fill(p)
	}
	if st.StrokePaint && st.Stroke.Width > 0 {
		c.SetColor(rgba(st.Stroke.Paint.ToRGB()))
		c.SetLineWidth(vg.Length(st.Stroke.Width))
		dash := make([]vg.Length, len(st.Stroke.Dash))
		for i, d := range st.Stroke.Dash {
			dash[i] = vg.Length(d)
		}
		c.SetLineDash(dash, 0)
		c.Stroke(p)
	}
	return nil
}

// vgPath converts anchors to a vg path, using curves where handles are pulled out.
func vgPath(segs []models.PathSegment, closed bool) vg.Path {
	var p vg.Path
	p.Move(pt(segs[0].P))
	edge := func(a, b models.PathSegment) {
		if a.Out == a.P && b.In == b.P {
			p.Line(pt(b.P))
			return
		}
		p.CubeTo(pt(a.Out), pt(b.In), pt(b.P))
	}
	for i := 1; i < len(segs); i++ {
		edge(segs[i-1], segs[i])
	}
	if closed {
		if len(segs) > 1 {
			edge(segs[len(segs)-1], segs[0])
		}
		p.Close()
	}
	return p
}

func (r *Renderer) drawText(c vg.Canvas, art models.ArtHandle) error {
	s, anchor, st, err := r.Doc.TextContents(art)
	if err != nil {
		return err
	}
	if s == "" || st.Size <= 0 {
		return nil
	}
	f := font.Font{Typeface: "Liberation", Variant: "Sans"}
	if st.Bold {
		f.Weight = xfont.WeightBold
	}
	face := fonts.Lookup(f, font.Length(st.Size))

	at := pt(anchor)
	switch st.Align {
	case models.AlignCenter:
		at.X -= face.Width(s) / 2
	case models.AlignRight:
		at.X -= face.Width(s)
	}
	c.SetColor(rgba(st.Color))
	c.FillString(face, at, s)
	return nil
}

func pt(p models.Point) vg.Point { return vg.Point{X: vg.Length(p.H), Y: vg.Length(p.V)} }

func rgba(c models.RGB) color.Color {
	return color.RGBA64{R: c.Red, G: c.Green, B: c.Blue, A: 0xffff}
}
