// Package tool implements the chart drawing tool: a rectangle drag gesture
// that creates a chart on release, plus hover tooltips when not dragging.
package tool

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// State is the gesture state of the tool.
type State int

const (
	Idle State = iota
	Tracking
	Dragging
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case Dragging:
		return "dragging"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Factory creates chart art for the given canonical bounds.
type Factory func(bounds models.Rect, t models.ChartType) (models.ArtHandle, error)

// Services are the host collaborators the tool calls into. Snap and Hit may
// be nil, which disables snapping and hover respectively.
type Services struct {
	Doc       host.Document
	Selection host.Selection
	View      host.View
	Annotator host.Annotator
	Hit       host.HitTester
	Snap      host.Snapper
}

// Tool is the drag-to-create chart tool.
type Tool struct {
	svc     Services
	factory Factory
	log     *log.Logger

	// SnapControl is passed to the snapper on every cursor location.
	SnapControl string

	chartType models.ChartType
	state     State
	drawing   bool
	start     models.Point
	end       models.Point
	snapped   models.Point

	hover hoverState
}

// New returns an idle tool creating column charts. A nil logger uses log.Default().
func New(svc Services, factory Factory, logger *log.Logger) *Tool {
	if logger == nil {
		logger = log.Default()
	}
	return &Tool{
		svc:         svc,
		factory:     factory,
		log:         logger,
		SnapControl: "A",
		chartType:   models.ChartColumn,
	}
}

// SetChartType selects the type of chart created by the next gesture.
func (t *Tool) SetChartType(ct models.ChartType) { t.chartType = ct }

// ChartType returns the type of chart the next gesture creates.
func (t *Tool) ChartType() models.ChartType { return t.chartType }

// State returns the current gesture state.
func (t *Tool) State() State { return t.state }

// IsDrawing reports whether a drag gesture is in progress.
func (t *Tool) IsDrawing() bool { return t.drawing }

// Start and End return the gesture corners in artwork coordinates.
func (t *Tool) Start() models.Point { return t.start }
func (t *Tool) End() models.Point   { return t.end }

// MouseDown starts a gesture at p.
func (t *Tool) MouseDown(p models.Point) error {
	sp, err := t.snap(p)
	if err != nil {
		return err
	}
	if t.svc.Selection != nil && t.svc.Selection.IsSomeArtSelected() {
		if err := t.svc.Selection.DeselectAll(); err != nil {
			return fmt.Errorf("failed to clear selection: %w", err)
		}
	}
	t.hover.reset()
	t.start, t.end = sp, sp
	t.drawing = true
	t.state = Dragging
	return nil
}

// MouseDrag moves the gesture's end point and redraws the preview.
func (t *Tool) MouseDrag(p models.Point) error {
	if !t.drawing {
		return nil
	}
	sp, err := t.snap(p)
	if err != nil {
		return err
	}
	t.end = sp
	return t.invalidateView()
}

// MouseUp ends the gesture. Drawing stops before anything else happens, so a
// failure below never leaves the tool dragging. A zero-size gesture creates
// nothing. When the chart cannot be made a plain outlined rectangle is made
// instead. The new art is selected and returned.
func (t *Tool) MouseUp(p models.Point) (models.ArtHandle, error) {
	wasDrawing := t.drawing
	t.drawing = false
	t.state = Idle
	if err := t.invalidateView(); err != nil {
		t.log.Warn("failed to invalidate view", "err", err)
	}
	if !wasDrawing {
		return models.NoArt, nil
	}

	if sp, err := t.snap(p); err == nil {
		t.end = sp
	}
	if t.start == t.end {
		return models.NoArt, nil
	}
	bounds := models.RectFromCorners(t.start, t.end)

	art, err := t.create(bounds)
	if err != nil {
		return models.NoArt, err
	}
	if err := t.selectOnly(art); err != nil {
		return art, err
	}
	return art, nil
}

func (t *Tool) create(bounds models.Rect) (models.ArtHandle, error) {
	var chartErr error
	if t.factory != nil {
		art, err := t.factory(bounds, t.chartType)
		if err == nil {
			return art, nil
		}
		chartErr = err
	} else {
		chartErr = errors.New("no chart factory")
	}
	t.log.Warn("chart creation failed, drawing plain rectangle", "type", t.chartType, "err", chartErr)

	art, err := t.fallbackRect(bounds)
	if err != nil {
		return models.NoArt, fmt.Errorf("failed to create rectangle after chart failure (%v): %w", chartErr, err)
	}
	return art, nil
}

// fallbackRect draws an unfilled rectangle with the default stroke.
func (t *Tool) fallbackRect(bounds models.Rect) (models.ArtHandle, error) {
	doc := t.svc.Doc
	art, err := doc.NewArt(models.ArtPath, models.PlaceAboveAll, models.NoArt)
	if err != nil {
		return models.NoArt, err
	}
	c := bounds.Corners()
	segs := make([]models.PathSegment, len(c))
	for i, p := range c {
		segs[i] = models.CornerSegment(p)
	}
	if err := doc.SetPathSegments(art, segs); err != nil {
		return models.NoArt, err
	}
	if err := doc.SetPathClosed(art, true); err != nil {
		return models.NoArt, err
	}
	st := models.DefaultPathStyle()
	st.FillPaint = false
	if err := doc.SetPathStyle(art, st); err != nil {
		return models.NoArt, err
	}
	return art, nil
}

func (t *Tool) selectOnly(art models.ArtHandle) error {
	sel := t.svc.Selection
	if sel == nil {
		return nil
	}
	if sel.IsSomeArtSelected() {
		if err := sel.DeselectAll(); err != nil {
			return fmt.Errorf("failed to clear selection: %w", err)
		}
	}
	if err := sel.SelectArt(art); err != nil {
		return fmt.Errorf("failed to select art %d: %w", art, err)
	}
	return nil
}

func (t *Tool) snap(p models.Point) (models.Point, error) {
	if t.svc.Snap == nil || !t.svc.Snap.SnapActive() {
		t.snapped = p
		return p, nil
	}
	sp, err := t.svc.Snap.Snap(p, t.SnapControl)
	if err != nil {
		return p, fmt.Errorf("failed to snap %v: %w", p, err)
	}
	t.snapped = sp
	return sp, nil
}

// invalidateView asks for the whole visible area to be redrawn.
func (t *Tool) invalidateView() error {
	if t.svc.View == nil || t.svc.Annotator == nil {
		return nil
	}
	bounds, err := t.svc.View.ViewBounds()
	if err != nil {
		return err
	}
	vr, err := t.svc.View.ArtworkRectToViewRect(bounds)
	if err != nil {
		return err
	}
	return t.svc.Annotator.InvalidateRect(vr)
}
