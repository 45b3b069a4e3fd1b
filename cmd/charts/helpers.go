package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/charts-go/internal/export"
	"github.com/user/charts-go/internal/models"
	"github.com/user/charts-go/internal/overlay"
	"github.com/user/charts-go/internal/plugin"
	"github.com/user/charts-go/internal/tool"
	"github.com/user/charts-go/pkg/artboard"
)

// Letter size, in points.
const (
	pageWidth  = 612
	pageHeight = 792
)

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%q: want %d comma separated numbers", s, n)
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("%q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

func parsePoint(s string) (models.Point, error) {
	v, err := parseFloats(s, 2)
	if err != nil {
		return models.Point{}, err
	}
	return models.Point{H: v[0], V: v[1]}, nil
}

// parseRect reads left,bottom,right,top.
func parseRect(s string) (models.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return models.Rect{}, err
	}
	r := models.RectFromCorners(models.Point{H: v[0], V: v[1]}, models.Point{H: v[2], V: v[3]})
	if r.IsEmpty() {
		return models.Rect{}, fmt.Errorf("bounds %q are empty", s)
	}
	return r, nil
}

// resolveChartType prefers the --type flag, then the data file, then config.
func resolveChartType(cmd *cobra.Command, fromData string) (models.ChartType, error) {
	switch {
	case cmd.Flags().Changed("type"):
		return models.ParseChartType(chartType)
	case fromData != "":
		return models.ParseChartType(fromData)
	}
	return cfg.Chart.Type, nil
}

func openOrCreateDocument(path string, fit models.Rect) (*artboard.Document, error) {
	if path != "" {
		doc, err := artboard.Load(path)
		if err == nil {
			return doc, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	w := math.Max(pageWidth, math.Ceil(fit.Right))
	h := math.Max(pageHeight, math.Ceil(fit.Top))
	return artboard.NewDocument(w, h), nil
}

func saveDocument(doc *artboard.Document) error {
	if docPath == "" {
		return nil
	}
	if err := doc.Save(docPath); err != nil {
		return err
	}
	logger.Info("document saved", "file", docPath, "nodes", doc.Len())
	return nil
}

func sessionDefaults() plugin.Defaults {
	d := plugin.DefaultDefaults()
	d.Type = cfg.Chart.Type
	d.Margin = cfg.Chart.Margin
	d.ShowGrid = cfg.Chart.ShowGrid
	d.ShowLegend = cfg.Chart.ShowLegend
	d.ShowDataLabels = cfg.Chart.ShowDataLabels
	return d
}

func newSession(doc *artboard.Document) *plugin.Session {
	return newSessionWithView(doc, artboard.NewView(doc))
}

func newSessionWithView(doc *artboard.Document, view *artboard.View) *plugin.Session {
	svc := tool.Services{
		Doc:       doc,
		Selection: doc,
		View:      view,
		Annotator: view,
		Hit:       doc,
	}
	if cfg.Tool.Snap {
		svc.Snap = artboard.NewSnapper(doc, cfg.Tool.Grid)
	}
	s := plugin.NewSession(svc, sessionDefaults(), logger)
	s.Tool().SnapControl = cfg.Tool.SnapControl
	return s
}

func exportArt(doc *artboard.Document, art models.ArtHandle) error {
	if outputFilePath == "" {
		return nil
	}
	r := &export.Renderer{Doc: doc, Padding: cfg.Export.Padding, DefaultFormat: cfg.Export.Format}
	if err := r.WriteFile(outputFilePath, art); err != nil {
		return fmt.Errorf("failed to export chart: %w", err)
	}
	logger.Info("chart exported", "file", outputFilePath)
	return nil
}

func writeOverlay(path string, d *overlay.Drawer) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if _, err := d.WriteTo(f); err != nil {
		return fmt.Errorf("failed to write overlay: %w", err)
	}
	return f.Close()
}
