package builder

import (
	"github.com/user/charts-go/internal/chart"
	"github.com/user/charts-go/internal/models"
)

// renderer draws the type-specific geometry of a chart into root.
type renderer func(b *Builder, root models.ArtHandle, m *chart.Model) error

// defaultRenderers has one entry per declared chart type. Types without
// geometry yet succeed without drawing anything.
func defaultRenderers() map[models.ChartType]renderer {
	return map[models.ChartType]renderer{
		models.ChartBar:     (*Builder).BuildBarChart,
		models.ChartColumn:  (*Builder).BuildColumnChart,
		models.ChartLine:    notImplemented,
		models.ChartPie:     notImplemented,
		models.ChartArea:    notImplemented,
		models.ChartScatter: notImplemented,
		models.ChartDonut:   notImplemented,
		models.ChartRadar:   notImplemented,
		models.ChartUnknown: notImplemented,
	}
}

func notImplemented(b *Builder, root models.ArtHandle, m *chart.Model) error {
	b.log.Debug("chart type has no renderer yet, nothing drawn", "type", m.Type)
	return nil
}

// Implemented reports whether t produces geometry.
func Implemented(t models.ChartType) bool {
	return t == models.ChartBar || t == models.ChartColumn
}

// palette assigns series colors by index.
var palette = []models.RGB{
	{Red: 0, Green: 30000, Blue: 65000},
	{Red: 65000, Green: 33000, Blue: 0},
	{Red: 10000, Green: 45000, Blue: 15000},
	{Red: 55000, Green: 8000, Blue: 10000},
	{Red: 38000, Green: 20000, Blue: 52000},
	{Red: 0, Green: 42000, Blue: 42000},
}

// SeriesColor returns the palette color for series index i.
func SeriesColor(i int) models.RGB {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}
