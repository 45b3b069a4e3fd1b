package artboard

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

func newPath(t *testing.T, d *Document, order models.PaintOrder, prep models.ArtHandle, r models.Rect) models.ArtHandle {
	t.Helper()
	h, err := d.NewArt(models.ArtPath, order, prep)
	require.NoError(t, err)
	var segs []models.PathSegment
	for _, p := range r.Corners() {
		segs = append(segs, models.CornerSegment(p))
	}
	require.NoError(t, d.SetPathSegments(h, segs))
	return h
}

func TestNewArtPaintOrder(t *testing.T) {
	d := NewDocument(100, 100)
	a, err := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	require.NoError(t, err)
	b, err := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	require.NoError(t, err)
	assert.Equal(t, []models.ArtHandle{a, b}, d.Layer)

	below, err := d.NewArt(models.ArtPath, models.PlaceBelow, b)
	require.NoError(t, err)
	assert.Equal(t, []models.ArtHandle{a, below, b}, d.Layer)

	top, err := d.NewArt(models.ArtPath, models.PlaceInsideOnTop, a)
	require.NoError(t, err)
	bottom, err := d.NewArt(models.ArtPath, models.PlaceInsideOnBottom, a)
	require.NoError(t, err)
	above, err := d.NewArt(models.ArtText, models.PlaceAbove, bottom)
	require.NoError(t, err)
	assert.Equal(t, []models.ArtHandle{bottom, above, top}, d.Node(a).Children)

	parent, err := d.Parent(above)
	require.NoError(t, err)
	assert.Equal(t, a, parent)

	first, _ := d.FirstChild(a)
	assert.Equal(t, bottom, first)
	next, _ := d.NextSibling(above)
	assert.Equal(t, top, next)
	last, _ := d.NextSibling(top)
	assert.Equal(t, models.NoArt, last)
	empty, _ := d.FirstChild(b)
	assert.Equal(t, models.NoArt, empty)
}

func TestNewArtErrors(t *testing.T) {
	d := NewDocument(100, 100)
	_, err := d.NewArt(models.ArtUnknown, models.PlaceAboveAll, models.NoArt)
	assert.ErrorIs(t, err, host.ErrBadParameter)

	path, err := d.NewArt(models.ArtPath, models.PlaceAboveAll, models.NoArt)
	require.NoError(t, err)
	_, err = d.NewArt(models.ArtPath, models.PlaceInsideOnTop, path)
	assert.ErrorIs(t, err, host.ErrWrongArtType)

	_, err = d.NewArt(models.ArtPath, models.PlaceAbove, 999)
	assert.ErrorIs(t, err, host.ErrNotFound)

	g, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	assert.ErrorIs(t, d.SetPathClosed(g, true), host.ErrWrongArtType)
	_, _, _, err = d.TextContents(g)
	assert.ErrorIs(t, err, host.ErrWrongArtType)
}

func TestDisposeArtRemovesSubtree(t *testing.T) {
	d := NewDocument(100, 100)
	g, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	inner, _ := d.NewArt(models.ArtGroup, models.PlaceInsideOnTop, g)
	newPath(t, d, models.PlaceInsideOnTop, inner, models.Rect{Right: 1, Top: 1})
	keep := newPath(t, d, models.PlaceAboveAll, models.NoArt, models.Rect{Right: 1, Top: 1})
	assert.Equal(t, 4, d.Len())
	assert.Equal(t, 3, d.Count(g))

	require.NoError(t, d.DisposeArt(g))
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, []models.ArtHandle{keep}, d.Layer)
	assert.ErrorIs(t, d.DisposeArt(g), host.ErrNotFound)
}

func TestArtBounds(t *testing.T) {
	d := NewDocument(100, 100)
	g, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)

	r, err := d.ArtBounds(g)
	require.NoError(t, err)
	assert.Equal(t, models.Rect{}, r, "empty group")

	newPath(t, d, models.PlaceInsideOnTop, g, models.Rect{Left: 10, Bottom: 10, Right: 20, Top: 30})
	newPath(t, d, models.PlaceInsideOnTop, g, models.Rect{Left: 15, Bottom: 5, Right: 40, Top: 25})
	r, err = d.ArtBounds(g)
	require.NoError(t, err)
	assert.Equal(t, models.Rect{Left: 10, Bottom: 5, Right: 40, Top: 30}, r)

	txt, err := d.NewPointText(g, models.Point{H: 50, V: 0}, "abcd", models.TextStyle{Size: 10, Align: models.AlignCenter})
	require.NoError(t, err)
	tb, err := d.ArtBounds(txt)
	require.NoError(t, err)
	assert.Equal(t, models.Rect{Left: 40, Bottom: 0, Right: 60, Top: 10}, tb)

	s, anchor, _, err := d.TextContents(txt)
	require.NoError(t, err)
	assert.Equal(t, "abcd", s)
	assert.Equal(t, models.Point{H: 50, V: 0}, anchor)
}

func TestPathStyleIsCopied(t *testing.T) {
	d := NewDocument(100, 100)
	p := newPath(t, d, models.PlaceAboveAll, models.NoArt, models.Rect{Right: 1, Top: 1})

	st, err := d.PathStyle(p)
	require.NoError(t, err)
	st.Stroke.Dash = []float64{2, 2}
	require.NoError(t, d.SetPathStyle(p, st))
	st.Stroke.Dash[0] = 9

	got, _ := d.PathStyle(p)
	assert.Equal(t, []float64{2, 2}, got.Stroke.Dash)
}

func TestDictionary(t *testing.T) {
	d := NewDict()
	key := d.Key("Answer")
	assert.False(t, d.Has(key))

	_, err := d.Integer(key)
	assert.ErrorIs(t, err, host.ErrNoSuchKey)

	require.NoError(t, d.SetInteger(key, 42))
	v, err := d.Integer(key)
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	_, err = d.String(key)
	assert.ErrorIs(t, err, host.ErrWrongType)

	require.NoError(t, d.SetReal(d.Key("Pi"), math.Pi))
	require.NoError(t, d.SetBoolean(d.Key("On"), true))
	require.NoError(t, d.SetString(d.Key("Name"), "chart"))
	assert.Equal(t, []string{"Answer", "Name", "On", "Pi"}, d.Keys())
	assert.Equal(t, true, d.Entries["On"].Value())

	d.Delete(key)
	assert.False(t, d.Has(key))
}

func TestDocumentDictionaryIsLazy(t *testing.T) {
	d := NewDocument(100, 100)
	g, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	assert.False(t, d.HasDictionary(g))
	_, err := d.Dictionary(g)
	require.NoError(t, err)
	assert.True(t, d.HasDictionary(g))
	_, err = d.Dictionary(999)
	assert.ErrorIs(t, err, host.ErrNotFound)
}

func TestSelection(t *testing.T) {
	d := NewDocument(100, 100)
	a, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	b, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	assert.False(t, d.IsSomeArtSelected())

	require.NoError(t, d.SelectArt(b))
	require.NoError(t, d.SelectArt(a))
	assert.True(t, d.IsSomeArtSelected())
	assert.Equal(t, []models.ArtHandle{a, b}, d.Selected())

	require.NoError(t, d.DeselectAll())
	assert.Empty(t, d.Selected())
	assert.ErrorIs(t, d.SelectArt(999), host.ErrNotFound)
}

func TestSaveLoad(t *testing.T) {
	d := NewDocument(300, 200)
	g, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	require.NoError(t, d.SetArtName(g, "Chart"))
	dict, _ := d.Dictionary(g)
	require.NoError(t, dict.SetString(dict.Key("Title"), "Sales"))
	require.NoError(t, dict.SetReal(dict.Key("Margin"), 12.5))
	p := newPath(t, d, models.PlaceInsideOnTop, g, models.Rect{Left: 1, Bottom: 2, Right: 3, Top: 4})
	require.NoError(t, d.SetPathClosed(p, true))

	path := filepath.Join(t.TempDir(), "sub", "doc.chartdoc")
	require.NoError(t, d.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Layer, got.Layer)
	assert.Equal(t, d.Size, got.Size)
	assert.Equal(t, d.Next, got.Next)

	name, _ := got.ArtName(g)
	assert.Equal(t, "Chart", name)
	gd, err := got.Dictionary(g)
	require.NoError(t, err)
	title, err := gd.String(gd.Key("Title"))
	require.NoError(t, err)
	assert.Equal(t, "Sales", title)

	closed, _ := got.PathClosed(p)
	assert.True(t, closed)
	b, _ := got.ArtBounds(p)
	assert.Equal(t, models.Rect{Left: 1, Bottom: 2, Right: 3, Top: 4}, b)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.chartdoc"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

type closeFailWriter struct {
	bytes.Buffer
}

var errDiskFull = errors.New("disk full")

func (w *closeFailWriter) Close() error { return errDiskFull }

func TestSaveReportsCloseError(t *testing.T) {
	w := &closeFailWriter{}
	orig := createFile
	createFile = func(string) (io.WriteCloser, error) { return w, nil }
	t.Cleanup(func() { createFile = orig })

	err := NewDocument(10, 10).Save(filepath.Join(t.TempDir(), "doc.chartdoc"))
	require.ErrorIs(t, err, errDiskFull)
	assert.NotZero(t, w.Len(), "archive was written before closing")
}

func TestViewTransforms(t *testing.T) {
	d := NewDocument(200, 100)
	v := NewView(d)
	assert.Equal(t, 200, v.Width)
	assert.Equal(t, 100, v.Height)

	vp, err := v.ArtworkPointToViewPoint(models.Point{H: 10, V: 90})
	require.NoError(t, err)
	assert.Equal(t, models.ViewPoint{X: 10, Y: 10}, vp)

	back, err := v.ViewPointToArtworkPoint(vp)
	require.NoError(t, err)
	assert.Equal(t, models.Point{H: 10, V: 90}, back)

	vr, err := v.ArtworkRectToViewRect(models.Rect{Left: 10, Bottom: 40, Right: 50, Top: 90})
	require.NoError(t, err)
	assert.Equal(t, models.ViewRect{Left: 10, Top: 10, Right: 50, Bottom: 60}, vr)

	bounds, err := v.ViewBounds()
	require.NoError(t, err)
	assert.Equal(t, d.Size, bounds)

	v.Zoom = 2
	vp, _ = v.ArtworkPointToViewPoint(models.Point{H: 10, V: 90})
	assert.Equal(t, models.ViewPoint{X: 20, Y: 20}, vp)
}

func TestViewRotationRoundTrip(t *testing.T) {
	v := NewView(NewDocument(200, 200))
	v.Rotation = math.Pi / 2

	p := models.Point{H: 150, V: 150}
	vp, err := v.ArtworkPointToViewPoint(p)
	require.NoError(t, err)
	back, err := v.ViewPointToArtworkPoint(vp)
	require.NoError(t, err)
	assert.InDelta(t, p.H, back.H, 1)
	assert.InDelta(t, p.V, back.V, 1)

	r := models.Rect{Left: 0, Bottom: 150, Right: 100, Top: 200}
	rotated, _ := v.ArtworkRectToViewRect(r)
	plain, _ := v.ArtworkRectToViewRectUnrotated(r)
	assert.NotEqual(t, rotated, plain)
}

func TestViewInvalidation(t *testing.T) {
	v := NewView(NewDocument(10, 10))
	require.NoError(t, v.InvalidateRect(models.ViewRect{Right: 1, Bottom: 1}))
	require.NoError(t, v.SetAnnotatorActive(true))
	assert.True(t, v.AnnotatorActive())
	assert.Len(t, v.Invalidated(), 1)
	assert.Len(t, v.TakeInvalidated(), 1)
	assert.Empty(t, v.Invalidated())
}

func TestHitTestTopmostLeaf(t *testing.T) {
	d := NewDocument(100, 100)
	g, _ := d.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	low := newPath(t, d, models.PlaceInsideOnTop, g, models.Rect{Left: 0, Bottom: 0, Right: 50, Top: 50})
	high := newPath(t, d, models.PlaceAboveAll, models.NoArt, models.Rect{Left: 20, Bottom: 20, Right: 40, Top: 40})

	h, ok, err := d.HitTest(models.Point{H: 30, V: 30})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, high, h)

	h, ok, _ = d.HitTest(models.Point{H: 5, V: 5})
	assert.True(t, ok)
	assert.Equal(t, low, h)

	_, ok, _ = d.HitTest(models.Point{H: 90, V: 90})
	assert.False(t, ok)
}

func TestSnapper(t *testing.T) {
	d := NewDocument(100, 100)
	newPath(t, d, models.PlaceAboveAll, models.NoArt, models.Rect{Left: 10, Bottom: 10, Right: 30, Top: 30})
	s := NewSnapper(d, 5)

	got, err := s.Snap(models.Point{H: 11, V: 12}, "A")
	require.NoError(t, err)
	assert.Equal(t, models.Point{H: 10, V: 10}, got)

	got, _ = s.Snap(models.Point{H: 51, V: 48}, "AG")
	assert.Equal(t, models.Point{H: 50, V: 50}, got, "grid applies when no anchor is near")

	got, _ = s.Snap(models.Point{H: 51, V: 48}, "A")
	assert.Equal(t, models.Point{H: 51, V: 48}, got)

	s.Enabled = false
	assert.False(t, s.SnapActive())
	got, _ = s.Snap(models.Point{H: 11, V: 12}, "A")
	assert.Equal(t, models.Point{H: 11, V: 12}, got)

	var none *Snapper
	assert.False(t, none.SnapActive())
}
