package builder

import (
	"fmt"
	"math"

	"github.com/user/charts-go/internal/chart"
	"github.com/user/charts-go/internal/models"
)

// Column chart layer names, bottom to top above the background frame.
const (
	LayerXGrid       = "X-Grid"
	LayerYGrid       = "Y-Grid"
	LayerColumns     = "Columns"
	LayerXAxis       = "X-Axis"
	LayerYAxis       = "Y-Axis"
	LayerXTicks      = "X-Ticks"
	LayerYTicks      = "Y-Ticks"
	LayerXAxisLabels = "X-Axis-Labels"
	LayerYAxisLabels = "Y-Axis-Labels"
	LayerTitle       = "Title"
)

// ColumnLayers lists the column chart layers in z-order.
var ColumnLayers = []string{
	LayerXGrid, LayerYGrid, LayerColumns, LayerXAxis, LayerYAxis,
	LayerXTicks, LayerYTicks, LayerXAxisLabels, LayerYAxisLabels,
}

// YTickFractions are the plot-height fractions that get a y tick, label and gridline.
var YTickFractions = []float64{0, 0.25, 0.5, 0.75, 1}

const (
	tickLength     = 4.0
	labelSize      = 8.0
	titleSize      = 10.0
	categoryFill   = 0.8
	columnInset    = 0.1
	placeholderMax = 100.0
)

var (
	black = models.RGB{}

	axisStroke = models.Stroke{Paint: models.GrayPaint(1), Width: 1}
	tickStroke = models.Stroke{Paint: models.GrayPaint(1), Width: 1}
	gridStroke = models.Stroke{Paint: models.GrayPaint(0.2), Width: 0.5, Dash: []float64{2, 2}}

	xLabelStyle    = models.TextStyle{Size: labelSize, Align: models.AlignCenter, Color: black}
	yLabelStyle    = models.TextStyle{Size: labelSize, Align: models.AlignRight, Color: black}
	dataLabelStyle = models.TextStyle{Size: labelSize, Align: models.AlignCenter, Color: black}
	titleStyle     = models.TextStyle{Size: titleSize, Align: models.AlignCenter, Color: black, Bold: true}
	xTitleStyle    = models.TextStyle{Size: labelSize, Align: models.AlignCenter, Color: black, Bold: true}
	yTitleStyle    = models.TextStyle{Size: labelSize, Align: models.AlignCenter, Color: black, Bold: true}
)

// placeholderCategories and placeholderSeries stand in when a chart has no data.
var (
	placeholderCategories = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	placeholderSeries     = []models.DataSeries{
		{Name: "Series 1", Color: models.DefaultGray, Points: monthPoints(65, 59, 80, 81, 56, 55)},
		{Name: "Series 2", Color: models.DefaultGray, Points: monthPoints(28, 48, 40, 19, 86, 27)},
	}
)

func monthPoints(values ...float64) []models.DataPoint {
	pts := make([]models.DataPoint, len(values))
	for i, v := range values {
		pts[i] = models.NewDataPoint(v, placeholderCategories[i])
	}
	return pts
}

// ColumnData is what the column renderer plots.
type ColumnData struct {
	Categories  []string
	Series      []models.DataSeries
	DomainMin   float64
	DomainMax   float64
	Placeholder bool
}

// ColumnDataFor returns the model's own data, or the placeholder set when
// the model does not validate. Real data is scaled to the padded,
// zero-inclusive value range widened to whole tick steps.
func ColumnDataFor(m *chart.Model) ColumnData {
	if !m.ValidateData() {
		return ColumnData{
			Categories:  placeholderCategories,
			Series:      placeholderSeries,
			DomainMax:   placeholderMax,
			Placeholder: true,
		}
	}

	n := 0
	for _, s := range m.Series {
		n = max(n, len(s.Points))
	}
	cats := make([]string, n)
	for i := range cats {
		cats[i] = fmt.Sprintf("%d", i+1)
	}
	for _, s := range m.Series {
		for i, p := range s.Points {
			if cats[i] == fmt.Sprintf("%d", i+1) && p.Label != "" {
				cats[i] = p.Label
			}
		}
	}

	lo, hi := niceDomain(m.ComputeValueRange())
	return ColumnData{
		Categories: cats,
		Series:     m.Series,
		DomainMin:  lo,
		DomainMax:  hi,
	}
}

var niceSteps = []float64{1, 2, 2.5, 5, 10}

// niceDomain widens [lo, hi] to tick intervals of a nice step, starting at
// zero when lo is not negative.
func niceDomain(lo, hi float64) (float64, float64) {
	intervals := len(YTickFractions) - 1
	if lo >= 0 {
		return 0, niceCeil(hi, intervals)
	}
	if math.IsInf(lo, 0) || math.IsNaN(lo) || math.IsInf(hi, 0) || math.IsNaN(hi) {
		return 0, 1
	}
	n := float64(intervals)
	raw := (hi - lo) / n
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for {
		for _, f := range niceSteps {
			step := f * mag
			if step < raw*(1-1e-12) {
				continue
			}
			start := math.Floor(lo/step+1e-9) * step
			if end := start + n*step; end >= hi-1e-9*step {
				return start, end
			}
		}
		mag *= 10
	}
}

// niceCeil rounds v up to intervals*step where step is 1, 2, 2.5 or 5 times a power of ten.
func niceCeil(v float64, intervals int) float64 {
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 1
	}
	raw := v / float64(intervals)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	for _, f := range niceSteps {
		if step := f * mag; step >= raw*(1-1e-12) {
			return step * float64(intervals)
		}
	}
	return 10 * mag * float64(intervals)
}

// Column is the computed placement of one column.
type Column struct {
	Series   int
	Category int
	Rect     models.Rect
	Value    float64
}

// ColumnLayout places every column. Each category gets plotWidth/N; its
// middle 80% is split evenly among the series, and each column is inset 10%
// of its slot. Columns rise from the zero baseline, or hang below it for
// negative values, scaled so the domain spans the plot height.
func ColumnLayout(area models.Rect, data ColumnData) []Column {
	n := len(data.Categories)
	nSeries := len(data.Series)
	if n == 0 || nSeries == 0 {
		return nil
	}
	catWidth := area.Width() / float64(n)
	groupWidth := catWidth * categoryFill
	slot := groupWidth / float64(nSeries)
	colWidth := slot * (1 - columnInset)
	baseline := ColumnBaseline(area, data)
	span := data.DomainMax - data.DomainMin

	var cols []Column
	for si, s := range data.Series {
		for ci, p := range s.Points {
			if ci >= n {
				break
			}
			left := area.Left + float64(ci)*catWidth + (catWidth-groupWidth)/2 + float64(si)*slot + slot*columnInset/2
			h := p.Value / span * area.Height()
			cols = append(cols, Column{
				Series:   si,
				Category: ci,
				Value:    p.Value,
				Rect: models.RectFromCorners(
					models.Point{H: left, V: baseline},
					models.Point{H: left + colWidth, V: baseline + h},
				),
			})
		}
	}
	return cols
}

// ColumnBaseline returns the vertical position of zero in the plot area.
func ColumnBaseline(area models.Rect, data ColumnData) float64 {
	span := data.DomainMax - data.DomainMin
	if span <= 0 {
		return area.Bottom
	}
	return area.Bottom + -data.DomainMin/span*area.Height()
}

// CategoryCenter returns the horizontal center of category i.
func CategoryCenter(area models.Rect, n, i int) float64 {
	w := area.Width() / float64(n)
	return area.Left + w*(float64(i)+0.5)
}

// BuildColumnChart draws a grouped column chart in named layers under root.
func (b *Builder) BuildColumnChart(root models.ArtHandle, m *chart.Model) error {
	area := m.PlotArea()
	data := ColumnDataFor(m)
	if data.Placeholder {
		b.log.Debug("column chart has no data, drawing placeholder", "id", m.ID)
	}

	layers := make(map[string]models.ArtHandle, len(ColumnLayers))
	for _, name := range ColumnLayers {
		g, err := b.group(root, name)
		if err != nil {
			return err
		}
		layers[name] = g
	}

	n := len(data.Categories)
	if m.ShowGrid {
		for i := 0; i < n; i++ {
			x := CategoryCenter(area, n, i)
			if _, err := b.line(layers[LayerXGrid], models.Point{H: x, V: area.Bottom}, models.Point{H: x, V: area.Top}, gridStroke); err != nil {
				return err
			}
		}
		for _, f := range YTickFractions {
			y := area.Bottom + f*area.Height()
			if _, err := b.line(layers[LayerYGrid], models.Point{H: area.Left, V: y}, models.Point{H: area.Right, V: y}, gridStroke); err != nil {
				return err
			}
		}
	}

	if err := b.columns(layers[LayerColumns], area, data, m.ShowDataLabels); err != nil {
		return err
	}

	// The x axis is the zero line.
	baseline := ColumnBaseline(area, data)
	if _, err := b.line(layers[LayerXAxis], models.Point{H: area.Left, V: baseline}, models.Point{H: area.Right, V: baseline}, axisStroke); err != nil {
		return err
	}
	if _, err := b.line(layers[LayerYAxis], models.Point{H: area.Left, V: area.Bottom}, models.Point{H: area.Left, V: area.Top}, axisStroke); err != nil {
		return err
	}

	for i, label := range data.Categories {
		x := CategoryCenter(area, n, i)
		if _, err := b.line(layers[LayerXTicks], models.Point{H: x, V: area.Bottom}, models.Point{H: x, V: area.Bottom - tickLength}, tickStroke); err != nil {
			return err
		}
		at := models.Point{H: x, V: area.Bottom - tickLength - labelSize - 1}
		if err := b.text(layers[LayerXAxisLabels], at, label, xLabelStyle); err != nil {
			return err
		}
	}
	for _, f := range YTickFractions {
		y := area.Bottom + f*area.Height()
		if _, err := b.line(layers[LayerYTicks], models.Point{H: area.Left, V: y}, models.Point{H: area.Left - tickLength, V: y}, tickStroke); err != nil {
			return err
		}
		at := models.Point{H: area.Left - tickLength - 2, V: y - labelSize/2}
		if err := b.text(layers[LayerYAxisLabels], at, formatValue(data.DomainMin+f*(data.DomainMax-data.DomainMin)), yLabelStyle); err != nil {
			return err
		}
	}

	if m.XAxisLabel != "" {
		at := models.Point{H: area.Left + area.Width()/2, V: area.Bottom - tickLength - 2*labelSize - 4}
		if err := b.text(layers[LayerXAxisLabels], at, m.XAxisLabel, xTitleStyle); err != nil {
			return err
		}
	}
	// Point text does not rotate, so the y title sits above the axis.
	if m.YAxisLabel != "" {
		at := models.Point{H: area.Left, V: area.Top + 4}
		if err := b.text(layers[LayerYAxisLabels], at, m.YAxisLabel, yTitleStyle); err != nil {
			return err
		}
	}

	if m.Title != "" {
		g, err := b.group(root, LayerTitle)
		if err != nil {
			return err
		}
		at := models.Point{H: area.Left + area.Width()/2, V: area.Top + 4}
		if err := b.text(g, at, m.Title, titleStyle); err != nil {
			return err
		}
	}
	return nil
}

// columns adds one named sub-group per series holding that series' columns.
func (b *Builder) columns(parent models.ArtHandle, area models.Rect, data ColumnData, labels bool) error {
	groups := make([]models.ArtHandle, len(data.Series))
	for i, s := range data.Series {
		name := s.Name
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		g, err := b.group(parent, name)
		if err != nil {
			return err
		}
		groups[i] = g
	}

	for _, c := range ColumnLayout(area, data) {
		fill := SeriesColor(c.Series)
		if _, err := b.rect(groups[c.Series], c.Rect, func(st *models.PathStyle) {
			st.FillPaint = true
			st.Fill = models.RGBPaint(fill)
			st.StrokePaint = false
		}); err != nil {
			return fmt.Errorf("column %d/%d: %w", c.Series, c.Category, err)
		}
		if labels {
			at := models.Point{H: c.Rect.Left + c.Rect.Width()/2, V: c.Rect.Top + 2}
			if c.Value < 0 {
				at.V = c.Rect.Bottom - labelSize - 2
			}
			if err := b.text(groups[c.Series], at, formatValue(c.Value), dataLabelStyle); err != nil {
				return err
			}
		}
	}
	return nil
}
