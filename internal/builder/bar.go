package builder

import (
	"fmt"
	"math"
	"strconv"

	"github.com/user/charts-go/internal/chart"
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// barFill is the solid blue of bar chart bars.
var barFill = models.RGB{Red: 0, Green: 30000, Blue: 65000}

// Bar is the computed placement of one bar in a bar chart.
type Bar struct {
	Rect  models.Rect
	Point models.DataPoint
}

// BarLayout computes the bars of the first series. Bars are width
// plotWidth/(n*1.5) with half a bar of gap, starting half a gap in. Each bar
// rises from the plot bottom by value/max of its plot height, max being the
// series' own largest value.
func BarLayout(m *chart.Model) ([]Bar, error) {
	if !m.ValidateData() {
		return nil, fmt.Errorf("bar chart data is empty: %w", host.ErrBadParameter)
	}
	series := m.SeriesAt(0)

	area := m.PlotArea()
	n := len(series.Points)
	barWidth := area.Width() / (float64(n) * 1.5)
	gap := barWidth * 0.5

	scale := barScale(series.Points)
	bars := make([]Bar, n)
	for i, p := range series.Points {
		x := area.Left + float64(i)*(barWidth+gap) + gap/2
		h := 0.0
		if scale != 0 {
			h = p.Value / scale * area.Height()
		}
		bars[i] = Bar{
			Rect:  models.RectFromCorners(models.Point{H: x, V: area.Bottom}, models.Point{H: x + barWidth, V: area.Bottom + h}),
			Point: p,
		}
	}
	return bars, nil
}

// barScale is the series maximum. When no value is positive the largest
// magnitude is used so negative bars hang below the baseline; all-zero data
// scales to nothing.
func barScale(points []models.DataPoint) float64 {
	hi := math.Inf(-1)
	mag := 0.0
	for _, p := range points {
		hi = math.Max(hi, p.Value)
		mag = math.Max(mag, math.Abs(p.Value))
	}
	if hi > 0 {
		return hi
	}
	return mag
}

// BuildBarChart draws one filled rectangle per point of the first series,
// left to right, directly under root. Invalid data fails before any art is made.
func (b *Builder) BuildBarChart(root models.ArtHandle, m *chart.Model) error {
	bars, err := BarLayout(m)
	if err != nil {
		return err
	}
	for i, bar := range bars {
		art, err := b.path(root, barCorners(bar), true, func(st *models.PathStyle) {
			st.FillPaint = true
			st.Fill = models.RGBPaint(barFill)
			st.StrokePaint = false
		})
		if err != nil {
			return fmt.Errorf("bar %d: %w", i, err)
		}
		if bar.Point.Label != "" {
			if err := b.doc.SetArtName(art, bar.Point.Label); err != nil {
				return fmt.Errorf("bar %d: %w", i, err)
			}
		}
		if m.ShowDataLabels {
			at := models.Point{H: bar.Rect.Left + bar.Rect.Width()/2, V: bar.Rect.Top + 2}
			if err := b.text(root, at, formatValue(bar.Point.Value), dataLabelStyle); err != nil {
				return err
			}
		}
	}
	return nil
}

// barCorners runs bottom-left, top-left, top-right, bottom-right from the baseline.
func barCorners(bar Bar) []models.Point {
	r := bar.Rect
	base, tip := r.Bottom, r.Top
	if bar.Point.Value < 0 {
		base, tip = r.Top, r.Bottom
	}
	return []models.Point{
		{H: r.Left, V: base},
		{H: r.Left, V: tip},
		{H: r.Right, V: tip},
		{H: r.Right, V: base},
	}
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
