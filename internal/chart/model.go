// Package chart holds the chart data model: series, display options, the
// derived plot geometry and value range, and the metadata record persisted
// on a chart's root art.
package chart

import (
	"math"
	"sync/atomic"

	"github.com/user/charts-go/internal/models"
)

const (
	// DefaultMargin is the inset from the chart bounds to the plot area.
	DefaultMargin = 20.0
	// DefaultSeriesName names the series every new chart starts with.
	DefaultSeriesName = "Series 1"
)

// Sequence hands out chart IDs. A session owns one and passes it to New.
type Sequence struct {
	last atomic.Int32
}

// NewSequence returns a sequence whose first ID is 1.
func NewSequence() *Sequence { return &Sequence{} }

// Next returns the next ID.
func (s *Sequence) Next() int32 { return s.last.Add(1) }

// Peek returns the most recently issued ID, or 0.
func (s *Sequence) Peek() int32 { return s.last.Load() }

// Model is one chart: its bounds, type, data and display options.
type Model struct {
	Bounds     models.Rect
	Type       models.ChartType
	Series     []models.DataSeries
	Title      string
	XAxisLabel string
	YAxisLabel string

	ShowLegend     bool
	ShowGrid       bool
	ShowDataLabels bool
	Margin         float64

	ID int32
	// Group is the chart's root art. The model does not own it.
	Group models.ArtHandle
}

// New returns a chart with default options and one empty series. The ID
// comes from seq; a nil seq leaves it at 0.
func New(seq *Sequence, bounds models.Rect, t models.ChartType) *Model {
	m := &Model{
		Bounds:     bounds,
		Type:       t,
		Series:     []models.DataSeries{models.NewDataSeries(DefaultSeriesName)},
		ShowLegend: true,
		ShowGrid:   true,
		Margin:     DefaultMargin,
	}
	if seq != nil {
		m.ID = seq.Next()
	}
	return m
}

// AddSeries appends a series. Nothing is validated here.
func (m *Model) AddSeries(s models.DataSeries) {
	m.Series = append(m.Series, s)
}

// ClearData removes every series.
func (m *Model) ClearData() {
	m.Series = nil
}

// SeriesCount returns the number of series.
func (m *Model) SeriesCount() int { return len(m.Series) }

// SeriesAt returns the i'th series or nil when out of range.
func (m *Model) SeriesAt(i int) *models.DataSeries {
	if i < 0 || i >= len(m.Series) {
		return nil
	}
	return &m.Series[i]
}

// AddPoint appends a default-colored point to the first series, creating
// that series if the chart has none.
func (m *Model) AddPoint(value float64, label string) {
	m.AddDataPoint(models.NewDataPoint(value, label))
}

// AddDataPoint appends p to the first series, creating it if needed.
func (m *Model) AddDataPoint(p models.DataPoint) {
	if len(m.Series) == 0 {
		m.Series = append(m.Series, models.NewDataSeries(DefaultSeriesName))
	}
	m.Series[0].Points = append(m.Series[0].Points, p)
}

// ValidateData reports whether the chart can be rendered: at least one
// series and no empty series.
func (m *Model) ValidateData() bool {
	if len(m.Series) == 0 {
		return false
	}
	for _, s := range m.Series {
		if len(s.Points) == 0 {
			return false
		}
	}
	return true
}

// TypeString returns the display name of the chart type.
func (m *Model) TypeString() string { return m.Type.String() }

// PlotArea is the bounds shrunk by the margin on every side.
func (m *Model) PlotArea() models.Rect { return m.Bounds.Inset(m.Margin) }

// ComputeValueRange scans every point of every series. The raw range is
// padded by 10% of its span on each side, then for bar and column charts
// widened to include zero. No points yields (0, 0).
func (m *Model) ComputeValueRange() (lo, hi float64) {
	first := true
	for _, s := range m.Series {
		for _, p := range s.Points {
			if first {
				lo, hi, first = p.Value, p.Value, false
				continue
			}
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
		}
	}
	if first {
		return 0, 0
	}

	if span := hi - lo; span > 0 {
		lo -= span * 0.1
		hi += span * 0.1
	}

	if m.Type == models.ChartBar || m.Type == models.ChartColumn {
		lo = math.Min(lo, 0)
		hi = math.Max(hi, 0)
	}
	return lo, hi
}

// SeriesMax returns the largest value in series i and whether the series has points.
func (m *Model) SeriesMax(i int) (float64, bool) {
	s := m.SeriesAt(i)
	if s == nil || len(s.Points) == 0 {
		return 0, false
	}
	hi := s.Points[0].Value
	for _, p := range s.Points[1:] {
		hi = math.Max(hi, p.Value)
	}
	return hi, true
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := *m
	c.Series = make([]models.DataSeries, len(m.Series))
	for i, s := range m.Series {
		s.Points = append([]models.DataPoint(nil), s.Points...)
		c.Series[i] = s
	}
	return &c
}
