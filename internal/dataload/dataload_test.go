package dataload

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/user/charts-go/internal/models"
)

const salesYAML = `
title: Quarterly Sales
type: bar
x_axis: Quarter
y_axis: Revenue
labels: [Q1, Q2, Q3]
series:
  - name: North
    color: "#0075FD"
    values: [10, 20, 30]
  - points:
      - {label: Q1, value: 4.5}
      - {label: Q2, value: -2, color: "#FF0000"}
`

func TestReadYAML(t *testing.T) {
	ds, err := ReadYAML(strings.NewReader(salesYAML))
	require.NoError(t, err)

	assert.Equal(t, "Quarterly Sales", ds.Title)
	assert.Equal(t, "bar", ds.Type)
	assert.Equal(t, "Quarter", ds.XAxis)
	assert.Equal(t, "Revenue", ds.YAxis)
	require.Len(t, ds.Series, 2)

	north := ds.Series[0]
	assert.Equal(t, "North", north.Name)
	assert.Equal(t, models.RGB{Red: 0x0000, Green: 0x7575, Blue: 0xFDFD}, north.Color)
	require.Len(t, north.Points, 3)
	assert.Equal(t, "Q3", north.Points[2].Label)
	assert.Equal(t, 30.0, north.Points[2].Value)

	second := ds.Series[1]
	assert.Equal(t, "Series 2", second.Name)
	assert.Equal(t, models.DefaultGray, second.Points[0].Color)
	assert.Equal(t, models.RGB{Red: 0xFFFF}, second.Points[1].Color)
}

func TestReadYAMLErrors(t *testing.T) {
	_, err := ReadYAML(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ReadYAML(strings.NewReader("title: nothing\n"))
	assert.ErrorIs(t, err, ErrNoData)

	_, err = ReadYAML(strings.NewReader("series:\n  - color: nope\n    values: [1]\n"))
	assert.Error(t, err)

	_, err = ReadYAML(strings.NewReader("series: [[[\n"))
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	in := "Month, Apples, Pears, Empty\nJan, 1, 2,\nFeb, 3, , \nMar, 5.5, 6,\n"
	ds, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, "Month", ds.XAxis)
	require.Len(t, ds.Series, 2, "the all-blank column is dropped")
	assert.Equal(t, "Apples", ds.Series[0].Name)
	assert.Len(t, ds.Series[0].Points, 3)
	assert.Equal(t, 5.5, ds.Series[0].Points[2].Value)
	assert.Equal(t, "Mar", ds.Series[0].Points[2].Label)
	assert.Len(t, ds.Series[1].Points, 2)
}

func TestFromTableErrors(t *testing.T) {
	_, err := FromTable(nil)
	assert.ErrorIs(t, err, ErrNoData)

	_, err = FromTable([][]string{{"x", "a"}})
	assert.ErrorIs(t, err, ErrNoData)

	_, err = FromTable([][]string{{"x", "a"}, {"one", "1"}, {"two", "lots"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 3 column 2")
}

func TestNonFiniteValuesAreRejected(t *testing.T) {
	for _, cell := range []string{"Inf", "-inf", "NaN"} {
		_, err := FromTable([][]string{{"x", "a"}, {"one", cell}})
		require.ErrorIs(t, err, ErrNotFinite, cell)
		assert.Contains(t, err.Error(), "row 2 column 2")
	}

	_, err := ReadYAML(strings.NewReader("series:\n  - values: [1, .inf]\n"))
	assert.ErrorIs(t, err, ErrNotFinite)

	_, err = ReadYAML(strings.NewReader("series:\n  - points:\n      - {label: a, value: .nan}\n"))
	assert.ErrorIs(t, err, ErrNotFinite)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]any{
		{"Region", "2023", "2024"},
		{"East", 10, 12},
		{"West", 7.5, nil},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}
	path := filepath.Join(t.TempDir(), "regions.xlsx")
	require.NoError(t, f.SaveAs(path))

	ds, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, sheet, ds.Title)
	assert.Equal(t, "Region", ds.XAxis)
	require.Len(t, ds.Series, 2)
	assert.Equal(t, "2023", ds.Series[0].Name)
	assert.Equal(t, 7.5, ds.Series[0].Points[1].Value)
	assert.Len(t, ds.Series[1].Points, 1)
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	yml := filepath.Join(dir, "data.yml")
	require.NoError(t, os.WriteFile(yml, []byte(salesYAML), 0o644))
	ds, err := Load(yml)
	require.NoError(t, err)
	assert.Equal(t, "Quarterly Sales", ds.Title)

	csvPath := filepath.Join(dir, "data.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("k,v\na,1\n"), 0o644))
	ds, err = Load(csvPath)
	require.NoError(t, err)
	assert.Equal(t, "v", ds.Series[0].Name)

	_, err = Load(filepath.Join(dir, "data.json"))
	assert.Error(t, err)
	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
