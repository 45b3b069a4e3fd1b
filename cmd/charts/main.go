package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/user/charts-go/internal/config"
	"github.com/user/charts-go/internal/dataload"
	"github.com/user/charts-go/internal/export"
	"github.com/user/charts-go/internal/logging"
	"github.com/user/charts-go/internal/models"
	"github.com/user/charts-go/internal/overlay"
	"github.com/user/charts-go/internal/plugin"
	"github.com/user/charts-go/internal/report"
	"github.com/user/charts-go/pkg/artboard"
)

var (
	// Used for flags.
	cfgFile        string
	logLevel       string
	outputFilePath string
	dataFile       string
	chartType      string
	boundsFlag     string
	docPath        string
	fromFlag       string
	toFlag         string
	overlayPath    string

	cfg    *config.Config
	logger *log.Logger

	rootCmd = &cobra.Command{
		Use:   "charts",
		Short: "Charts draws chart artwork into a document.",
		Long: heredoc.Doc(`
			Charts builds bar and column chart artwork from data, simulates the
			drag-to-create chart tool, and reports on or rebuilds the charts stored
			in a saved document.
		`),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(cfgFile)
			if err != nil {
				return err
			}
			level := cfg.Log.Level
			if logLevel != "" {
				level = logLevel
			}
			logger, err = logging.New(level, os.Stderr)
			if err != nil {
				return err
			}
			if cfg.File != "" {
				logger.Debug("using config", "file", cfg.File)
			}
			return nil
		},
	}

	renderCmd = &cobra.Command{
		Use:   "render",
		Short: "Builds a chart from a data file and exports it.",
		Example: heredoc.Doc(`
			# Column chart from YAML to SVG
			$ charts render -f sales.yaml -o sales.svg

			# Bar chart from a spreadsheet, kept in a document for later edits
			$ charts render -f sales.xlsx --type bar --bounds 0,0,300,200 --doc sales.chartdoc -o sales.png
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := dataload.Load(dataFile)
			if err != nil {
				return fmt.Errorf("failed to load data from %s: %w", dataFile, err)
			}
			ct, err := resolveChartType(cmd, ds.Type)
			if err != nil {
				return err
			}
			bounds, err := parseRect(boundsFlag)
			if err != nil {
				return err
			}

			doc, err := openOrCreateDocument(docPath, bounds)
			if err != nil {
				return err
			}
			session := newSession(doc)
			session.Defaults.Series = ds.Series
			session.Defaults.Title = ds.Title

			m := session.NewModel(bounds, ct)
			m.XAxisLabel, m.YAxisLabel = ds.XAxis, ds.YAxis
			art, err := session.Builder().Build(m)
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", ct, err)
			}
			logger.Info("chart built", "id", m.ID, "type", ct, "series", m.SeriesCount())

			if err := exportArt(doc, art); err != nil {
				return err
			}
			return saveDocument(doc)
		},
	}

	drawCmd = &cobra.Command{
		Use:   "draw",
		Short: "Simulates dragging out a chart with the chart tool.",
		Example: heredoc.Doc(`
			$ charts draw --from 10,10 --to 210,160 --overlay preview.svg -o chart.svg
		`),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, err := parsePoint(fromFlag)
			if err != nil {
				return err
			}
			to, err := parsePoint(toFlag)
			if err != nil {
				return err
			}
			ct, err := resolveChartType(cmd, "")
			if err != nil {
				return err
			}

			doc, err := openOrCreateDocument(docPath, models.RectFromCorners(from, to))
			if err != nil {
				return err
			}
			view := artboard.NewView(doc)
			view.Zoom = cfg.View.Zoom
			view.Rotation = cfg.View.Rotation
			session := newSessionWithView(doc, view)
			session.Tool().SetChartType(ct)

			steps := []struct {
				sel plugin.Selector
				at  models.Point
			}{
				{plugin.SelectTool, from},
				{plugin.MouseDown, from},
				{plugin.MouseDrag, to},
			}
			for _, s := range steps {
				if _, err := session.Dispatch(s.sel, s.at); err != nil {
					return fmt.Errorf("%s: %w", s.sel, err)
				}
			}

			if overlayPath != "" {
				d := overlay.New(view.Width, view.Height)
				if err := session.DrawAnnotation(d); err != nil {
					return fmt.Errorf("failed to draw preview: %w", err)
				}
				if err := writeOverlay(overlayPath, d); err != nil {
					return err
				}
			}

			art, err := session.Dispatch(plugin.MouseUp, to)
			if err != nil {
				return fmt.Errorf("%s: %w", plugin.MouseUp, err)
			}
			if art == models.NoArt {
				logger.Warn("empty gesture, nothing created")
				return nil
			}
			if err := exportArt(doc, art); err != nil {
				return err
			}
			return saveDocument(doc)
		},
	}

	inspectCmd = &cobra.Command{
		Use:   "inspect [DOC] [html|json]",
		Short: "Reports on the charts stored in a document.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := "json"
			if len(args) == 2 {
				format = strings.ToLower(args[1])
			}
			doc, err := artboard.Load(args[0])
			if err != nil {
				return err
			}

			summary, err := report.Collect(doc, doc.ID, doc.Layer, logger)
			if err != nil {
				return fmt.Errorf("failed to collect charts: %w", err)
			}
			renderer := &export.Renderer{Doc: doc, Padding: cfg.Export.Padding, DefaultFormat: cfg.Export.Format}
			adapter, err := report.NewAdapter(format, renderer, logger)
			if err != nil {
				return err
			}
			if err := adapter.PrepareData(summary); err != nil {
				return fmt.Errorf("failed to prepare %s report data: %w", format, err)
			}

			if outputFilePath == "" {
				outputFilePath = fmt.Sprintf("charts-report.%s", format)
			}
			absOutputFilePath, err := filepath.Abs(outputFilePath)
			if err != nil {
				return fmt.Errorf("invalid output file path '%s': %w", outputFilePath, err)
			}
			if err := adapter.Write(absOutputFilePath); err != nil {
				return fmt.Errorf("failed to write %s report to %s: %w", format, absOutputFilePath, err)
			}
			logger.Info("report written", "charts", len(summary.Charts), "file", absOutputFilePath)
			return nil
		},
	}

	rebuildCmd = &cobra.Command{
		Use:   "rebuild [DOC]",
		Short: "Rebuilds every chart in a document from its stored metadata.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := artboard.Load(args[0])
			if err != nil {
				return err
			}
			session := newSession(doc)
			n, err := session.UpdateAll(doc.Layer)
			if err != nil {
				return fmt.Errorf("rebuilt %d charts before failing: %w", n, err)
			}
			if err := doc.Save(args[0]); err != nil {
				return err
			}
			logger.Info("charts rebuilt", "count", n, "doc", args[0])
			return nil
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.charts.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	renderCmd.Flags().StringVarP(&dataFile, "file", "f", "", "Data file (.yaml, .csv or .xlsx)")
	renderCmd.Flags().StringVar(&boundsFlag, "bounds", "0,0,400,300", "Chart bounds as left,bottom,right,top")
	_ = renderCmd.MarkFlagRequired("file")

	drawCmd.Flags().StringVar(&fromFlag, "from", "", "Mouse down location as h,v")
	drawCmd.Flags().StringVar(&toFlag, "to", "", "Mouse up location as h,v")
	drawCmd.Flags().StringVar(&overlayPath, "overlay", "", "Write the drag preview annotation to this SVG file")
	_ = drawCmd.MarkFlagRequired("from")
	_ = drawCmd.MarkFlagRequired("to")

	for _, c := range []*cobra.Command{renderCmd, drawCmd} {
		c.Flags().StringVar(&chartType, "type", "", "Chart type (bar, column, line, ...)")
		c.Flags().StringVar(&docPath, "doc", "", "Document to add the chart to; created when missing")
		c.Flags().StringVarP(&outputFilePath, "output-file-path", "o", "", "Export the chart to this file (.svg, .pdf or .png; export.format without an extension)")
	}
	inspectCmd.Flags().StringVarP(&outputFilePath, "output-file-path", "o", "", "Output file path for the report")

	rootCmd.AddCommand(renderCmd, drawCmd, inspectCmd, rebuildCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
