// Package config loads settings from $HOME/.charts.yaml, CHARTS_* environment
// variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/user/charts-go/internal/export"
	"github.com/user/charts-go/internal/models"
)

// Config keys.
const (
	KeyChartType      = "chart.type"
	KeyChartMargin    = "chart.margin"
	KeyShowGrid       = "chart.show_grid"
	KeyShowLegend     = "chart.show_legend"
	KeyShowDataLabels = "chart.show_data_labels"
	KeySnap           = "tool.snap"
	KeySnapControl    = "tool.snap_control"
	KeyGrid           = "tool.grid"
	KeyZoom           = "view.zoom"
	KeyRotation       = "view.rotation"
	KeyExportFormat   = "export.format"
	KeyExportPadding  = "export.padding"
	KeyLogLevel       = "log.level"
)

// Config is the resolved configuration.
type Config struct {
	Chart  ChartConfig
	Tool   ToolConfig
	View   ViewConfig
	Export ExportConfig
	Log    LogConfig
	// File is the config file that was read, empty when none was found.
	File string
}

type ChartConfig struct {
	Type           models.ChartType
	Margin         float64
	ShowGrid       bool
	ShowLegend     bool
	ShowDataLabels bool
}

type ToolConfig struct {
	Snap        bool
	SnapControl string
	Grid        float64
}

type ViewConfig struct {
	Zoom     float64
	Rotation float64
}

type ExportConfig struct {
	Format  export.Format
	Padding float64
}

type LogConfig struct {
	Level string
}

// SetDefaults registers every key's default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyChartType, "column")
	v.SetDefault(KeyChartMargin, 20.0)
	v.SetDefault(KeyShowGrid, true)
	v.SetDefault(KeyShowLegend, true)
	v.SetDefault(KeyShowDataLabels, false)
	v.SetDefault(KeySnap, false)
	v.SetDefault(KeySnapControl, "A")
	v.SetDefault(KeyGrid, 10.0)
	v.SetDefault(KeyZoom, 1.0)
	v.SetDefault(KeyRotation, 0.0)
	v.SetDefault(KeyExportFormat, "svg")
	v.SetDefault(KeyExportPadding, 0.0)
	v.SetDefault(KeyLogLevel, "info")
}

// New returns a viper instance with defaults and environment binding. When
// cfgFile is empty $HOME/.charts.yaml is used if it exists.
func New(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("CHARTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			return nil, fmt.Errorf("failed to find home directory: %w", err)
		}
		v.AddConfigPath(home)
		v.SetConfigName(".charts")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("can't read config: %w", err)
		}
	}
	return v, nil
}

// Load reads the configuration. See New for file lookup.
func Load(cfgFile string) (*Config, error) {
	v, err := New(cfgFile)
	if err != nil {
		return nil, err
	}
	return FromViper(v)
}

// FromViper resolves a Config from v, validating the enumerated keys.
func FromViper(v *viper.Viper) (*Config, error) {
	ct, err := models.ParseChartType(v.GetString(KeyChartType))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyChartType, err)
	}
	format, err := export.ParseFormat(v.GetString(KeyExportFormat))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", KeyExportFormat, err)
	}
	margin := v.GetFloat64(KeyChartMargin)
	if margin < 0 {
		return nil, fmt.Errorf("%s must not be negative, got %g", KeyChartMargin, margin)
	}
	return &Config{
		Chart: ChartConfig{
			Type:           ct,
			Margin:         margin,
			ShowGrid:       v.GetBool(KeyShowGrid),
			ShowLegend:     v.GetBool(KeyShowLegend),
			ShowDataLabels: v.GetBool(KeyShowDataLabels),
		},
		Tool: ToolConfig{
			Snap:        v.GetBool(KeySnap),
			SnapControl: v.GetString(KeySnapControl),
			Grid:        v.GetFloat64(KeyGrid),
		},
		View: ViewConfig{
			Zoom:     v.GetFloat64(KeyZoom),
			Rotation: v.GetFloat64(KeyRotation),
		},
		Export: ExportConfig{
			Format:  format,
			Padding: v.GetFloat64(KeyExportPadding),
		},
		Log:  LogConfig{Level: v.GetString(KeyLogLevel)},
		File: v.ConfigFileUsed(),
	}, nil
}
