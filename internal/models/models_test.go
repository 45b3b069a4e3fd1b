package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Point{H: 50, V: 10}, Point{H: 10, V: 40})
	assert.Equal(t, Rect{Left: 10, Top: 40, Right: 50, Bottom: 10}, r)
	assert.Equal(t, 40.0, r.Width())
	assert.Equal(t, 30.0, r.Height())
	assert.True(t, r.Contains(Point{H: 10, V: 40}))
	assert.False(t, r.Contains(Point{H: 9, V: 20}))
	assert.True(t, RectFromCorners(Point{H: 1, V: 1}, Point{H: 1, V: 5}).IsEmpty())
}

func TestRectHelpers(t *testing.T) {
	r := Rect{Left: 0, Bottom: 0, Right: 100, Top: 50}
	assert.Equal(t, Rect{Left: 10, Bottom: 10, Right: 90, Top: 40}, r.Inset(10))
	assert.True(t, r.Inset(30).IsEmpty())
	assert.Equal(t, Rect{Left: -5, Bottom: 0, Right: 100, Top: 70},
		r.Union(Rect{Left: -5, Bottom: 20, Right: 10, Top: 70}))
	assert.Equal(t, [4]Point{{0, 50}, {100, 50}, {100, 0}, {0, 0}}, r.Corners())
}

func TestHexColors(t *testing.T) {
	c, err := ParseHexRGB("#ff8000")
	require.NoError(t, err)
	assert.Equal(t, RGB{Red: 65535, Green: 0x8080, Blue: 0}, c)
	assert.Equal(t, "#ff8000", c.Hex())

	c, err = ParseHexRGB(" 00ff00 ")
	require.NoError(t, err)
	assert.Equal(t, RGB{Green: 65535}, c)

	for _, bad := range []string{"", "#fff", "#gg0000"} {
		_, err := ParseHexRGB(bad)
		assert.Error(t, err, bad)
	}
}

func TestChartTypes(t *testing.T) {
	for key, want := range chartTypeKeys {
		got, err := ParseChartType(key)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		assert.True(t, got.Valid())
	}
	got, err := ParseChartType(" Column ")
	require.NoError(t, err)
	assert.Equal(t, ChartColumn, got)

	_, err = ParseChartType("histogram")
	assert.Error(t, err)

	assert.Equal(t, "Scatter Plot", ChartScatter.String())
	assert.Equal(t, "Unknown Chart", ChartUnknown.String())
	assert.False(t, ChartType(42).Valid())
}

func TestPaintToRGB(t *testing.T) {
	assert.Equal(t, RGB{Red: 65535, Green: 65535, Blue: 65535}, GrayPaint(0).ToRGB())
	assert.Equal(t, RGB{}, GrayPaint(1).ToRGB())
	assert.Equal(t, RGB{}, GrayPaint(3).ToRGB(), "ink is clamped")
	assert.Equal(t, DefaultGray, RGBPaint(DefaultGray).ToRGB())
}

func TestDefaults(t *testing.T) {
	p := NewDataPoint(2, "x")
	assert.Equal(t, DefaultGray, p.Color)
	s := NewDataSeries("s")
	assert.Equal(t, "s", s.Name)
	assert.Empty(t, s.Points)

	st := DefaultPathStyle()
	assert.True(t, st.StrokePaint)
	assert.False(t, st.FillPaint)
	assert.Equal(t, 1.0, st.Stroke.Width)
}
