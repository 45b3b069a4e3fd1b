// Package plugin is the host-facing side of the charts tool. A Session owns
// the chart ID sequence, the builder and the draw tool, and routes tool,
// annotator and notifier messages to them.
package plugin

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/user/charts-go/internal/builder"
	"github.com/user/charts-go/internal/chart"
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
	"github.com/user/charts-go/internal/tool"
)

// Selector names a tool message.
type Selector int

const (
	SelectTool Selector = iota
	DeselectTool
	TrackCursor
	MouseDown
	MouseDrag
	MouseUp
)

func (s Selector) String() string {
	switch s {
	case SelectTool:
		return "select"
	case DeselectTool:
		return "deselect"
	case TrackCursor:
		return "track cursor"
	case MouseDown:
		return "mouse down"
	case MouseDrag:
		return "mouse drag"
	case MouseUp:
		return "mouse up"
	}
	return fmt.Sprintf("selector(%d)", int(s))
}

// ErrUnknownSelector is returned by Dispatch for an unrecognized message.
var ErrUnknownSelector = errors.New("unknown tool selector")

// Defaults are applied to every chart the tool creates.
type Defaults struct {
	Type           models.ChartType
	Margin         float64
	ShowLegend     bool
	ShowGrid       bool
	ShowDataLabels bool
	Title          string
	// Series replaces the default empty series when non-empty.
	Series []models.DataSeries
}

// DefaultDefaults matches a freshly constructed chart of column type.
func DefaultDefaults() Defaults {
	return Defaults{
		Type:       models.ChartColumn,
		Margin:     chart.DefaultMargin,
		ShowLegend: true,
		ShowGrid:   true,
	}
}

// Session is one document's chart context.
type Session struct {
	ID       string
	Defaults Defaults

	svc     tool.Services
	seq     *chart.Sequence
	builder *builder.Builder
	tool    *tool.Tool
	log     *log.Logger
}

// NewSession wires a builder and a draw tool to the host services. A nil
// logger uses log.Default().
func NewSession(svc tool.Services, defaults Defaults, logger *log.Logger) *Session {
	if logger == nil {
		logger = log.Default()
	}
	s := &Session{
		ID:       uuid.NewString(),
		Defaults: defaults,
		svc:      svc,
		seq:      chart.NewSequence(),
		log:      logger,
	}
	s.log = logger.With("session", s.ID[:8])
	s.builder = builder.New(svc.Doc, s.log)
	s.tool = tool.New(svc, s.CreateChart, s.log)
	s.tool.SetChartType(defaults.Type)
	return s
}

// Tool returns the session's draw tool.
func (s *Session) Tool() *tool.Tool { return s.tool }

// Builder returns the session's chart builder.
func (s *Session) Builder() *builder.Builder { return s.builder }

// Sequence returns the session's chart ID sequence.
func (s *Session) Sequence() *chart.Sequence { return s.seq }

// NewModel returns a chart model with the session defaults and a fresh ID.
func (s *Session) NewModel(bounds models.Rect, t models.ChartType) *chart.Model {
	m := chart.New(s.seq, bounds, t)
	d := s.Defaults
	if d.Margin >= 0 {
		m.Margin = d.Margin
	}
	m.ShowLegend = d.ShowLegend
	m.ShowGrid = d.ShowGrid
	m.ShowDataLabels = d.ShowDataLabels
	m.Title = d.Title
	if len(d.Series) > 0 {
		m.ClearData()
		for _, series := range d.Series {
			m.AddSeries(series)
		}
	}
	return m
}

// CreateChart builds a new chart in bounds. It is the draw tool's factory.
func (s *Session) CreateChart(bounds models.Rect, t models.ChartType) (models.ArtHandle, error) {
	m := s.NewModel(bounds, t)
	art, err := s.builder.Build(m)
	if err != nil {
		return models.NoArt, fmt.Errorf("failed to create %s: %w", t, err)
	}
	s.log.Info("chart created", "id", m.ID, "type", t, "art", art)
	return art, nil
}

// Dispatch routes a tool message. Only MouseUp returns art.
func (s *Session) Dispatch(sel Selector, p models.Point) (models.ArtHandle, error) {
	var err error
	switch sel {
	case SelectTool:
		err = s.setAnnotator(true)
	case DeselectTool:
		err = s.setAnnotator(false)
	case TrackCursor:
		err = s.tool.TrackCursor(p)
	case MouseDown:
		err = s.tool.MouseDown(p)
	case MouseDrag:
		err = s.tool.MouseDrag(p)
	case MouseUp:
		return s.tool.MouseUp(p)
	default:
		err = fmt.Errorf("%s: %w", sel, ErrUnknownSelector)
	}
	return models.NoArt, err
}

func (s *Session) setAnnotator(active bool) error {
	if s.svc.Annotator == nil {
		return nil
	}
	if err := s.svc.Annotator.SetAnnotatorActive(active); err != nil {
		return fmt.Errorf("failed to set annotator active=%t: %w", active, err)
	}
	return nil
}

// DrawAnnotation is the annotator's draw handler.
func (s *Session) DrawAnnotation(d host.AnnotationDrawer) error {
	return s.tool.DrawAnnotation(d)
}

// SelectionChanged redraws the whole visible document.
func (s *Session) SelectionChanged() error {
	if s.svc.View == nil || s.svc.Annotator == nil {
		return nil
	}
	bounds, err := s.svc.View.ViewBounds()
	if err != nil {
		return err
	}
	vr, err := s.svc.View.ArtworkRectToViewRect(bounds)
	if err != nil {
		return err
	}
	return s.svc.Annotator.InvalidateRect(vr)
}
