package tool

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/logging"
	"github.com/user/charts-go/internal/models"
	"github.com/user/charts-go/pkg/artboard"
)

type fixture struct {
	doc     *artboard.Document
	view    *artboard.View
	tool    *Tool
	created []models.Rect
	fail    error
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{doc: artboard.NewDocument(200, 200)}
	f.view = artboard.NewView(f.doc)
	svc := Services{
		Doc:       f.doc,
		Selection: f.doc,
		View:      f.view,
		Annotator: f.view,
		Hit:       f.doc,
	}
	f.tool = New(svc, f.factory, logging.Discard())
	return f
}

func (f *fixture) factory(bounds models.Rect, ct models.ChartType) (models.ArtHandle, error) {
	if f.fail != nil {
		return models.NoArt, f.fail
	}
	f.created = append(f.created, bounds)
	return f.doc.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
}

func (f *fixture) drag(t *testing.T, from, to models.Point) models.ArtHandle {
	t.Helper()
	require.NoError(t, f.tool.MouseDown(from))
	require.NoError(t, f.tool.MouseDrag(to))
	art, err := f.tool.MouseUp(to)
	require.NoError(t, err)
	return art
}

func TestDragCreatesChartWithCanonicalBounds(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, models.ChartColumn, f.tool.ChartType())

	require.NoError(t, f.tool.MouseDown(models.Point{H: 10, V: 10}))
	assert.True(t, f.tool.IsDrawing())
	assert.Equal(t, Dragging, f.tool.State())

	require.NoError(t, f.tool.MouseDrag(models.Point{H: 50, V: 40}))
	assert.NotEmpty(t, f.view.TakeInvalidated(), "drag redraws the preview")

	art, err := f.tool.MouseUp(models.Point{H: 50, V: 40})
	require.NoError(t, err)
	assert.False(t, f.tool.IsDrawing())
	assert.Equal(t, Idle, f.tool.State())

	require.Len(t, f.created, 1)
	assert.Equal(t, models.Rect{Left: 10, Bottom: 10, Right: 50, Top: 40}, f.created[0])
	assert.Equal(t, []models.ArtHandle{art}, f.doc.Selected())
}

func TestDragInAnyDirectionIsNormalized(t *testing.T) {
	f := newFixture(t)
	f.drag(t, models.Point{H: 50, V: 40}, models.Point{H: 10, V: 10})
	require.Len(t, f.created, 1)
	assert.Equal(t, models.Rect{Left: 10, Bottom: 10, Right: 50, Top: 40}, f.created[0])
}

func TestZeroSizeGestureCreatesNothing(t *testing.T) {
	f := newFixture(t)
	art := f.drag(t, models.Point{H: 20, V: 20}, models.Point{H: 20, V: 20})
	assert.Equal(t, models.NoArt, art)
	assert.Empty(t, f.created)
	assert.Equal(t, 0, f.doc.Len())
	assert.False(t, f.tool.IsDrawing())
}

func TestMouseUpWithoutMouseDown(t *testing.T) {
	f := newFixture(t)
	art, err := f.tool.MouseUp(models.Point{H: 5, V: 5})
	require.NoError(t, err)
	assert.Equal(t, models.NoArt, art)
	assert.Empty(t, f.created)
}

func TestMouseDragIgnoredWhenIdle(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tool.MouseDrag(models.Point{H: 5, V: 5}))
	assert.Empty(t, f.view.Invalidated())
	assert.Equal(t, models.Point{}, f.tool.End())
}

func TestFactoryFailureFallsBackToRectangle(t *testing.T) {
	f := newFixture(t)
	f.fail = errors.New("boom")

	art := f.drag(t, models.Point{H: 10, V: 10}, models.Point{H: 50, V: 40})
	require.NotEqual(t, models.NoArt, art)
	assert.False(t, f.tool.IsDrawing())

	typ, _ := f.doc.ArtType(art)
	assert.Equal(t, models.ArtPath, typ)
	closed, _ := f.doc.PathClosed(art)
	assert.True(t, closed)
	st, _ := f.doc.PathStyle(art)
	assert.False(t, st.FillPaint)
	assert.True(t, st.StrokePaint)
	b, _ := f.doc.ArtBounds(art)
	assert.Equal(t, models.Rect{Left: 10, Bottom: 10, Right: 50, Top: 40}, b)
	assert.Equal(t, []models.ArtHandle{art}, f.doc.Selected())
}

func TestNilFactoryFallsBackToRectangle(t *testing.T) {
	doc := artboard.NewDocument(100, 100)
	tl := New(Services{Doc: doc}, nil, logging.Discard())
	require.NoError(t, tl.MouseDown(models.Point{H: 1, V: 1}))
	art, err := tl.MouseUp(models.Point{H: 9, V: 9})
	require.NoError(t, err)
	typ, _ := doc.ArtType(art)
	assert.Equal(t, models.ArtPath, typ)
}

func TestMouseDownClearsSelection(t *testing.T) {
	f := newFixture(t)
	g, _ := f.doc.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	require.NoError(t, f.doc.SelectArt(g))

	require.NoError(t, f.tool.MouseDown(models.Point{H: 1, V: 1}))
	assert.False(t, f.doc.IsSomeArtSelected())
}

func TestSnapping(t *testing.T) {
	f := newFixture(t)
	f.tool.svc.Snap = artboard.NewSnapper(f.doc, 10)
	f.tool.SnapControl = "G"

	f.drag(t, models.Point{H: 12, V: 8}, models.Point{H: 48, V: 41})
	require.Len(t, f.created, 1)
	assert.Equal(t, models.Rect{Left: 10, Bottom: 10, Right: 50, Top: 40}, f.created[0])
}

func TestChartTypeIsPassedToFactory(t *testing.T) {
	f := newFixture(t)
	var got models.ChartType
	f.tool.factory = func(bounds models.Rect, ct models.ChartType) (models.ArtHandle, error) {
		got = ct
		return f.doc.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	}
	f.tool.SetChartType(models.ChartBar)
	f.drag(t, models.Point{H: 0, V: 0}, models.Point{H: 10, V: 10})
	assert.Equal(t, models.ChartBar, got)
}

func hoverTarget(t *testing.T, f *fixture) models.ArtHandle {
	t.Helper()
	p, err := f.doc.NewArt(models.ArtPath, models.PlaceAboveAll, models.NoArt)
	require.NoError(t, err)
	var segs []models.PathSegment
	for _, c := range (models.Rect{Left: 20, Bottom: 20, Right: 60, Top: 80}).Corners() {
		segs = append(segs, models.CornerSegment(c))
	}
	require.NoError(t, f.doc.SetPathSegments(p, segs))
	return p
}

func TestTrackCursorHover(t *testing.T) {
	f := newFixture(t)
	target := hoverTarget(t, f)

	require.NoError(t, f.tool.TrackCursor(models.Point{H: 30, V: 30}))
	assert.Equal(t, target, f.tool.LastHit())
	assert.Equal(t, Tracking, f.tool.State())
	assert.Equal(t, []models.ArtHandle{target}, f.doc.Selected())
	// Top-right (60,80) is view (60,120); the tooltip sits 10px to its right.
	assert.Equal(t, models.ViewRect{Left: 70, Top: 120, Right: 150, Bottom: 190}, f.tool.hover.artRect)

	f.view.TakeInvalidated()
	require.NoError(t, f.tool.TrackCursor(models.Point{H: 31, V: 31}))
	assert.Equal(t, target, f.tool.LastHit())
	assert.Len(t, f.view.TakeInvalidated(), 1, "same art only refreshes the cursor tooltip")

	require.NoError(t, f.tool.TrackCursor(models.Point{H: 150, V: 150}))
	assert.Equal(t, models.NoArt, f.tool.LastHit())
	assert.Equal(t, Idle, f.tool.State())
	assert.False(t, f.doc.IsSomeArtSelected())
}

func TestTrackCursorIgnoredWhileDrawing(t *testing.T) {
	f := newFixture(t)
	hoverTarget(t, f)
	require.NoError(t, f.tool.MouseDown(models.Point{H: 0, V: 0}))
	require.NoError(t, f.tool.TrackCursor(models.Point{H: 30, V: 30}))
	assert.Equal(t, models.NoArt, f.tool.LastHit())
	assert.Equal(t, Dragging, f.tool.State())
}

func TestTrackCursorWithoutHitTester(t *testing.T) {
	tl := New(Services{}, nil, logging.Discard())
	assert.NoError(t, tl.TrackCursor(models.Point{H: 1, V: 1}))
}

// recorder is an AnnotationDrawer that logs each call.
type recorder struct {
	ops   []string
	color models.RGB
	size  float64
}

func (r *recorder) SetColor(c models.RGB)      { r.color = c }
func (r *recorder) SetLineWidth(w float64)     { r.ops = append(r.ops, fmt.Sprintf("width %g", w)) }
func (r *recorder) SetLineDash(dash []float64) {}
func (r *recorder) DrawRect(v models.ViewRect, fill bool) error {
	r.ops = append(r.ops, fmt.Sprintf("rect %v fill=%t color=%v", v, fill, r.color))
	return nil
}
func (r *recorder) DrawLine(from, to models.ViewPoint) error { return nil }
func (r *recorder) SetFontPreset(p host.FontPreset) error {
	r.size = 9
	return nil
}
func (r *recorder) FontSize() float64 { return r.size }
func (r *recorder) DrawText(text string, at models.ViewPoint) error {
	r.ops = append(r.ops, fmt.Sprintf("text %q at %d,%d", text, at.X, at.Y))
	return nil
}
func (r *recorder) DrawTextAligned(text string, h host.HAlign, v host.VAlign, in models.ViewRect) error {
	r.ops = append(r.ops, fmt.Sprintf("aligned %q in %v", text, in))
	return nil
}
func (r *recorder) TextBounds(text string, at models.ViewPoint) (models.ViewRect, error) {
	return models.ViewRect{Left: at.X, Top: at.Y - int(r.size), Right: at.X + 5*len(text), Bottom: at.Y}, nil
}

func TestDrawAnnotationPreview(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.tool.MouseDown(models.Point{H: 10, V: 10}))
	require.NoError(t, f.tool.MouseDrag(models.Point{H: 50, V: 40}))

	r := &recorder{}
	require.NoError(t, f.tool.DrawAnnotation(r))
	require.NotEmpty(t, r.ops)

	// (10,10) and (50,40) are view (10,190) and (50,160).
	assert.Equal(t, "width 2", r.ops[0])
	assert.Equal(t, fmt.Sprintf("rect %v fill=false color=%v", models.ViewRect{Left: 10, Top: 160, Right: 50, Bottom: 190}, previewColor), r.ops[1])
	assert.Contains(t, r.ops[len(r.ops)-1], `aligned "40.00 x 30.00"`)
}

func TestDrawAnnotationTooltips(t *testing.T) {
	f := newFixture(t)
	hoverTarget(t, f)
	require.NoError(t, f.tool.TrackCursor(models.Point{H: 30, V: 30}))

	r := &recorder{}
	require.NoError(t, f.tool.DrawAnnotation(r))

	var texts []string
	for _, op := range r.ops {
		if len(op) > 4 && op[:4] == "text" {
			texts = append(texts, op)
		}
	}
	assert.Equal(t, []string{
		`text "Top: -80.00" at 75,134`,
		`text "Left: 20.00" at 75,148`,
		`text "Bottom: -20.00" at 75,162`,
		`text "Right: 60.00" at 75,176`,
	}, texts)
	assert.Contains(t, r.ops[len(r.ops)-1], `aligned "x: 30.00, y: -30.00"`)
	assert.NotEqual(t, models.ViewRect{}, f.tool.hover.cursorRect)
}

func TestDrawAnnotationIdleDrawsNothing(t *testing.T) {
	f := newFixture(t)
	r := &recorder{}
	require.NoError(t, f.tool.DrawAnnotation(r))
	assert.Empty(t, r.ops)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, [4]string{"Top: -40.00", "Left: 10.00", "Bottom: -10.00", "Right: 50.00"},
		BoundsLines(models.Rect{Left: 10, Bottom: 10, Right: 50, Top: 40}))
	assert.Equal(t, "x: 1.50, y: 2.25", PointString(models.Point{H: 1.5, V: -2.25}))
	assert.Equal(t, "40.00 x 30.00", DimensionString(40, 30))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "state(9)", State(9).String())
}
