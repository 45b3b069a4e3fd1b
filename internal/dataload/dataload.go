// Package dataload reads chart series from YAML, CSV or XLSX files.
package dataload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/user/charts-go/internal/models"
)

var (
	// ErrNoData is returned when a file holds no usable series.
	ErrNoData = errors.New("no chart data")
	// ErrNotFinite is returned for NaN or infinite values.
	ErrNotFinite = errors.New("value is not finite")
)

func checkFinite(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%v: %w", v, ErrNotFinite)
	}
	return nil
}

// Dataset is chart input read from a file.
type Dataset struct {
	Title  string
	Type   string
	XAxis  string
	YAxis  string
	Series []models.DataSeries
}

type yamlPoint struct {
	Label string  `yaml:"label"`
	Value float64 `yaml:"value"`
	Color string  `yaml:"color"`
}

type yamlSeries struct {
	Name   string      `yaml:"name"`
	Color  string      `yaml:"color"`
	Points []yamlPoint `yaml:"points"`
	// Values is shorthand for unlabeled points.
	Values []float64 `yaml:"values"`
}

type yamlDataset struct {
	Title  string       `yaml:"title"`
	Type   string       `yaml:"type"`
	XAxis  string       `yaml:"x_axis"`
	YAxis  string       `yaml:"y_axis"`
	Labels []string     `yaml:"labels"`
	Series []yamlSeries `yaml:"series"`
}

// Load reads path, picking the reader from its extension.
func Load(path string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ReadYAML(f)
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return LoadXLSX(path)
	}
	return nil, fmt.Errorf("unsupported data file %q", path)
}

// ReadYAML decodes a dataset document.
func ReadYAML(r io.Reader) (*Dataset, error) {
	var doc yamlDataset
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}
	ds := &Dataset{Title: doc.Title, Type: doc.Type, XAxis: doc.XAxis, YAxis: doc.YAxis}
	for i, ys := range doc.Series {
		name := ys.Name
		if name == "" {
			name = fmt.Sprintf("Series %d", i+1)
		}
		s := models.NewDataSeries(name)
		if ys.Color != "" {
			c, err := models.ParseHexRGB(ys.Color)
			if err != nil {
				return nil, fmt.Errorf("series %q: %w", name, err)
			}
			s.Color = c
		}
		for _, p := range ys.Points {
			if err := checkFinite(p.Value); err != nil {
				return nil, fmt.Errorf("series %q point %q: %w", name, p.Label, err)
			}
			dp := models.NewDataPoint(p.Value, p.Label)
			if p.Color != "" {
				c, err := models.ParseHexRGB(p.Color)
				if err != nil {
					return nil, fmt.Errorf("series %q point %q: %w", name, p.Label, err)
				}
				dp.Color = c
			}
			s.Points = append(s.Points, dp)
		}
		for j, v := range ys.Values {
			if err := checkFinite(v); err != nil {
				return nil, fmt.Errorf("series %q value %d: %w", name, j+1, err)
			}
			label := ""
			if j < len(doc.Labels) {
				label = doc.Labels[j]
			}
			s.Points = append(s.Points, models.NewDataPoint(v, label))
		}
		ds.Series = append(ds.Series, s)
	}
	if len(ds.Series) == 0 {
		return nil, ErrNoData
	}
	return ds, nil
}

// ReadCSV reads a table whose header names the series and whose first
// column holds category labels.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	return FromTable(rows)
}

// LoadXLSX reads the first sheet of a workbook as a table.
func LoadXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoData
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	ds, err := FromTable(rows)
	if err != nil {
		return nil, err
	}
	if ds.Title == "" {
		ds.Title = sheets[0]
	}
	return ds, nil
}

// FromTable turns rows into series: row 0 is the header, column 0 the
// labels. Blank cells are skipped; a non-numeric cell is an error.
func FromTable(rows [][]string) (*Dataset, error) {
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, ErrNoData
	}
	header := rows[0]
	ds := &Dataset{XAxis: strings.TrimSpace(header[0])}
	for c := 1; c < len(header); c++ {
		name := strings.TrimSpace(header[c])
		if name == "" {
			name = fmt.Sprintf("Series %d", c)
		}
		ds.Series = append(ds.Series, models.NewDataSeries(name))
	}

	for r, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		label := strings.TrimSpace(row[0])
		for c := 1; c < len(row) && c <= len(ds.Series); c++ {
			cell := strings.TrimSpace(row[c])
			if cell == "" {
				continue
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err == nil {
				err = checkFinite(v)
			}
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", r+2, c+1, err)
			}
			ds.Series[c-1].Points = append(ds.Series[c-1].Points, models.NewDataPoint(v, label))
		}
	}

	kept := ds.Series[:0]
	for _, s := range ds.Series {
		if len(s.Points) > 0 {
			kept = append(kept, s)
		}
	}
	ds.Series = kept
	if len(ds.Series) == 0 {
		return nil, ErrNoData
	}
	return ds, nil
}
