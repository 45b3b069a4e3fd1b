package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/user/charts-go/internal/builder"
	"github.com/user/charts-go/internal/chart"
	"github.com/user/charts-go/internal/export"
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

//go:embed templates/report.html.tmpl
var templates embed.FS

// Summary describes the charts found in a document.
type Summary struct {
	Document  string      `json:"document"`
	Generated time.Time   `json:"generated"`
	Charts    []ChartInfo `json:"charts"`
}

// ChartInfo is one chart's reloaded metadata.
type ChartInfo struct {
	Art         models.ArtHandle    `json:"art"`
	ID          int32               `json:"id"`
	Type        string              `json:"type"`
	Implemented bool                `json:"implemented"`
	Title       string              `json:"title"`
	XAxisLabel  string              `json:"x_axis_label,omitempty"`
	YAxisLabel  string              `json:"y_axis_label,omitempty"`
	Bounds      models.Rect         `json:"bounds"`
	Margin      float64             `json:"margin"`
	Series      []models.DataSeries `json:"series"`
	Points      int                 `json:"points"`
	// Preview is a base64 PNG of the chart art, filled for HTML reports.
	Preview string `json:"-"`
}

// Collect reloads every chart under roots. Charts that fail to load are
// logged and skipped.
func Collect(doc host.Document, docID string, roots []models.ArtHandle, logger *log.Logger) (*Summary, error) {
	if logger == nil {
		logger = log.Default()
	}
	handles, err := chart.FindCharts(doc, roots)
	if err != nil {
		return nil, err
	}
	s := &Summary{Document: docID, Generated: time.Now().UTC()}
	for _, h := range handles {
		m, err := chart.LoadFromArt(doc, h, logger)
		if err != nil {
			logger.Warn("skipping unreadable chart", "art", h, "err", err)
			continue
		}
		info := ChartInfo{
			Art:         h,
			ID:          m.ID,
			Type:        m.TypeString(),
			Implemented: builder.Implemented(m.Type),
			Title:       m.Title,
			XAxisLabel:  m.XAxisLabel,
			YAxisLabel:  m.YAxisLabel,
			Bounds:      m.Bounds,
			Margin:      m.Margin,
			Series:      m.Series,
		}
		for _, series := range m.Series {
			info.Points += len(series.Points)
		}
		s.Charts = append(s.Charts, info)
	}
	return s, nil
}

// ReportAdapter defines the interface for generating different report formats.
type ReportAdapter interface {
	PrepareData(data *Summary) error
	Write(outputFilePath string) error
}

// --- JSON Report Adapter ---

// JSONReportAdapter generates reports in JSON format.
type JSONReportAdapter struct {
	reportData []byte
}

// PrepareData marshals the summary into indented JSON.
func (a *JSONReportAdapter) PrepareData(data *Summary) error {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal data to JSON: %w", err)
	}
	a.reportData = append(b, '\n')
	return nil
}

// Bytes returns the prepared report.
func (a *JSONReportAdapter) Bytes() []byte { return a.reportData }

// Write saves the JSON report to outputFilePath.
func (a *JSONReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, a.reportData)
}

// --- HTML Report Adapter ---

// HTMLReportAdapter renders the summary as a standalone HTML page with a
// PNG preview of each chart.
type HTMLReportAdapter struct {
	// Renderer draws previews. Nil skips them.
	Renderer *export.Renderer
	Logger   *log.Logger

	reportBuf bytes.Buffer
}

var funcMap = template.FuncMap{
	"Join": strings.Join,
	"PNGDataURI": func(b64 string) template.URL {
		return template.URL("data:image/png;base64," + b64)
	},
	"Num": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"SeriesNames": func(series []models.DataSeries) string {
		names := make([]string, len(series))
		for i, s := range series {
			names[i] = s.Name
		}
		return strings.Join(names, ", ")
	},
}

// PrepareData renders previews and executes the template.
func (a *HTMLReportAdapter) PrepareData(data *Summary) error {
	logger := a.Logger
	if logger == nil {
		logger = log.Default()
	}
	if a.Renderer != nil {
		for i := range data.Charts {
			png, err := a.Renderer.PNGBase64(data.Charts[i].Art)
			if err != nil {
				logger.Warn("failed to render chart preview", "art", data.Charts[i].Art, "err", err)
				continue
			}
			data.Charts[i].Preview = png
		}
	}

	tmpl, err := template.New("report.html.tmpl").Funcs(funcMap).ParseFS(templates, "templates/report.html.tmpl")
	if err != nil {
		return fmt.Errorf("failed to parse HTML template: %w", err)
	}
	a.reportBuf.Reset()
	if err := tmpl.Execute(&a.reportBuf, data); err != nil {
		return fmt.Errorf("failed to execute HTML template: %w", err)
	}
	return nil
}

// Bytes returns the prepared page.
func (a *HTMLReportAdapter) Bytes() []byte { return a.reportBuf.Bytes() }

// Write saves the HTML report to outputFilePath.
func (a *HTMLReportAdapter) Write(outputFilePath string) error {
	return writeFile(outputFilePath, a.reportBuf.Bytes())
}

// NewAdapter returns the adapter for format "json" or "html".
func NewAdapter(format string, renderer *export.Renderer, logger *log.Logger) (ReportAdapter, error) {
	switch strings.ToLower(format) {
	case "json":
		return &JSONReportAdapter{}, nil
	case "html":
		return &HTMLReportAdapter{Renderer: renderer, Logger: logger}, nil
	}
	return nil, fmt.Errorf("unsupported report format %q", format)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for report file %s: %w", path, err)
	}
	return os.WriteFile(path, data, 0644)
}
