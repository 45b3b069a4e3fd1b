package chart

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// Dictionary keys on a chart's root art.
const (
	KeyType           = "ChartType"
	KeyTitle          = "ChartTitle"
	KeyXAxisLabel     = "ChartXAxisLabel"
	KeyYAxisLabel     = "ChartYAxisLabel"
	KeyDataSeries     = "ChartDataSeries"
	KeyShowLegend     = "ChartShowLegend"
	KeyShowGrid       = "ChartShowGrid"
	KeyShowDataLabels = "ChartShowDataLabels"
	KeyMargin         = "ChartMargin"
	KeyID             = "ChartID"
	KeyVersion        = "ChartVersion"
)

// FormatVersion is written under KeyVersion. A positive value marks art as chart-owned.
const FormatVersion int32 = 1

// Art names given to a chart's root group and its background frame.
const (
	RootName       = "Chart"
	BackgroundName = "Background"
)

// ErrNotChart is returned by LoadFromArt for art that is not chart-owned.
var ErrNotChart = errors.New("art is not a chart")

// Record is the persisted form of a chart's metadata.
type Record struct {
	Type           models.ChartType `json:"chart_type"`
	ID             int32            `json:"chart_id"`
	Version        int32            `json:"version"`
	Title          string           `json:"title"`
	XAxisLabel     string           `json:"x_axis_label"`
	YAxisLabel     string           `json:"y_axis_label"`
	ShowLegend     bool             `json:"show_legend"`
	ShowGrid       bool             `json:"show_grid"`
	ShowDataLabels bool             `json:"show_data_labels"`
	Margin         float64          `json:"margin"`
	// Series is JSON-encoded series data; empty when the chart carries none.
	Series string `json:"series,omitempty"`
}

// Record returns the model's metadata as a persisted record.
func (m *Model) Record() Record {
	return Record{
		Type:           m.Type,
		ID:             m.ID,
		Version:        FormatVersion,
		Title:          m.Title,
		XAxisLabel:     m.XAxisLabel,
		YAxisLabel:     m.YAxisLabel,
		ShowLegend:     m.ShowLegend,
		ShowGrid:       m.ShowGrid,
		ShowDataLabels: m.ShowDataLabels,
		Margin:         m.Margin,
		Series:         encodeSeries(m.Series),
	}
}

func encodeSeries(series []models.DataSeries) string {
	hasPoints := false
	for _, s := range series {
		if len(s.Points) > 0 {
			hasPoints = true
			break
		}
	}
	if !hasPoints {
		return ""
	}
	b, err := json.Marshal(series)
	if err != nil {
		// NaN and infinite values have no JSON form.
		log.Warn("chart series not persisted", "err", err)
		return ""
	}
	return string(b)
}

// typeFromCode maps a stored type code to a chart type. Undeclared codes
// become ChartUnknown and report false.
func typeFromCode(v int32) (models.ChartType, bool) {
	t := models.ChartType(v)
	if !t.Valid() {
		return models.ChartUnknown, false
	}
	return t, true
}

// Serialize flattens the metadata into a string-keyed map using the dictionary key names.
func (m *Model) Serialize() map[string]any {
	r := m.Record()
	out := map[string]any{
		KeyType:           int32(r.Type),
		KeyID:             r.ID,
		KeyVersion:        r.Version,
		KeyTitle:          r.Title,
		KeyXAxisLabel:     r.XAxisLabel,
		KeyYAxisLabel:     r.YAxisLabel,
		KeyShowLegend:     r.ShowLegend,
		KeyShowGrid:       r.ShowGrid,
		KeyShowDataLabels: r.ShowDataLabels,
		KeyMargin:         r.Margin,
	}
	if r.Series != "" {
		out[KeyDataSeries] = r.Series
	}
	return out
}

// Deserialize reads a map produced by Serialize. Missing or ill-typed
// entries leave the corresponding field unchanged; it never fails.
// Type codes outside the declared range read as ChartUnknown.
func (m *Model) Deserialize(values map[string]any) {
	if v, ok := asInt32(values[KeyType]); ok {
		m.Type, _ = typeFromCode(v)
	}
	if v, ok := asInt32(values[KeyID]); ok {
		m.ID = v
	}
	if v, ok := values[KeyTitle].(string); ok {
		m.Title = v
	}
	if v, ok := values[KeyXAxisLabel].(string); ok {
		m.XAxisLabel = v
	}
	if v, ok := values[KeyYAxisLabel].(string); ok {
		m.YAxisLabel = v
	}
	if v, ok := values[KeyShowLegend].(bool); ok {
		m.ShowLegend = v
	}
	if v, ok := values[KeyShowGrid].(bool); ok {
		m.ShowGrid = v
	}
	if v, ok := values[KeyShowDataLabels].(bool); ok {
		m.ShowDataLabels = v
	}
	if v, ok := asFloat(values[KeyMargin]); ok {
		m.Margin = v
	}
	if v, ok := values[KeyDataSeries].(string); ok {
		if series, err := decodeSeries(v); err == nil {
			m.Series = series
		}
	}
}

func asInt32(v any) (int32, bool) {
	switch n := v.(type) {
	case int32:
		return n, true
	case int:
		return int32(n), true
	case int64:
		return int32(n), true
	case float64:
		return int32(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func decodeSeries(s string) ([]models.DataSeries, error) {
	var series []models.DataSeries
	if err := json.Unmarshal([]byte(s), &series); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", KeyDataSeries, err)
	}
	if len(series) == 0 {
		return nil, fmt.Errorf("%s holds no series", KeyDataSeries)
	}
	return series, nil
}

// WriteDictionary stores the metadata in dict. The first failing write is returned.
func (m *Model) WriteDictionary(dict host.Dictionary) error {
	r := m.Record()
	steps := []struct {
		key string
		set func(host.DictKey) error
	}{
		{KeyType, func(k host.DictKey) error { return dict.SetInteger(k, int32(r.Type)) }},
		{KeyID, func(k host.DictKey) error { return dict.SetInteger(k, r.ID) }},
		{KeyVersion, func(k host.DictKey) error { return dict.SetInteger(k, r.Version) }},
		{KeyTitle, func(k host.DictKey) error { return dict.SetString(k, r.Title) }},
		{KeyXAxisLabel, func(k host.DictKey) error { return dict.SetString(k, r.XAxisLabel) }},
		{KeyYAxisLabel, func(k host.DictKey) error { return dict.SetString(k, r.YAxisLabel) }},
		{KeyShowLegend, func(k host.DictKey) error { return dict.SetBoolean(k, r.ShowLegend) }},
		{KeyShowGrid, func(k host.DictKey) error { return dict.SetBoolean(k, r.ShowGrid) }},
		{KeyShowDataLabels, func(k host.DictKey) error { return dict.SetBoolean(k, r.ShowDataLabels) }},
		{KeyMargin, func(k host.DictKey) error { return dict.SetReal(k, r.Margin) }},
	}
	for _, s := range steps {
		if err := s.set(dict.Key(s.key)); err != nil {
			return fmt.Errorf("failed to write %s: %w", s.key, err)
		}
	}

	seriesKey := dict.Key(KeyDataSeries)
	if r.Series == "" {
		dict.Delete(seriesKey)
		return nil
	}
	if err := dict.SetString(seriesKey, r.Series); err != nil {
		return fmt.Errorf("failed to write %s: %w", KeyDataSeries, err)
	}
	return nil
}

// ReadDictionary loads whatever metadata dict holds. Each entry is read
// independently; missing or unreadable entries keep the current value and
// are logged at debug level. It always succeeds.
func (m *Model) ReadDictionary(dict host.Dictionary, logger *log.Logger) {
	if logger == nil {
		logger = log.Default()
	}
	skip := func(key string, err error) {
		logger.Debug("chart dictionary entry skipped", "key", key, "err", err)
	}

	if v, err := dict.Integer(dict.Key(KeyType)); err == nil {
		var ok bool
		if m.Type, ok = typeFromCode(v); !ok {
			logger.Warn("unknown chart type code", "code", v)
		}
	} else {
		skip(KeyType, err)
	}
	if v, err := dict.Integer(dict.Key(KeyID)); err == nil {
		m.ID = v
	} else {
		skip(KeyID, err)
	}
	readString := func(key string, dst *string) {
		if v, err := dict.String(dict.Key(key)); err == nil {
			*dst = v
		} else {
			skip(key, err)
		}
	}
	readString(KeyTitle, &m.Title)
	readString(KeyXAxisLabel, &m.XAxisLabel)
	readString(KeyYAxisLabel, &m.YAxisLabel)

	readBool := func(key string, dst *bool) {
		if v, err := dict.Boolean(dict.Key(key)); err == nil {
			*dst = v
		} else {
			skip(key, err)
		}
	}
	readBool(KeyShowLegend, &m.ShowLegend)
	readBool(KeyShowGrid, &m.ShowGrid)
	readBool(KeyShowDataLabels, &m.ShowDataLabels)

	if v, err := dict.Real(dict.Key(KeyMargin)); err == nil {
		m.Margin = v
	} else {
		skip(KeyMargin, err)
	}

	raw, err := dict.String(dict.Key(KeyDataSeries))
	if err != nil {
		skip(KeyDataSeries, err)
		return
	}
	series, err := decodeSeries(raw)
	if err != nil {
		skip(KeyDataSeries, err)
		return
	}
	m.Series = series
}

// IsChartOwned reports whether art is a group whose dictionary carries a
// positive format version. Nothing else about the node is consulted.
func IsChartOwned(art host.ArtService, h models.ArtHandle) bool {
	if h == models.NoArt {
		return false
	}
	t, err := art.ArtType(h)
	if err != nil || t != models.ArtGroup {
		return false
	}
	dict, err := art.Dictionary(h)
	if err != nil || dict == nil {
		return false
	}
	v, err := dict.Integer(dict.Key(KeyVersion))
	return err == nil && v > 0
}

// LoadFromArt reconstructs a chart from its root art. The bounds come from
// the art's geometry; the rest from its dictionary.
func LoadFromArt(art host.ArtService, h models.ArtHandle, logger *log.Logger) (*Model, error) {
	if !IsChartOwned(art, h) {
		return nil, fmt.Errorf("art %d: %w", h, ErrNotChart)
	}
	dict, err := art.Dictionary(h)
	if err != nil {
		return nil, fmt.Errorf("failed to get dictionary of art %d: %w", h, err)
	}
	bounds, err := art.ArtBounds(h)
	if err != nil {
		return nil, fmt.Errorf("failed to get bounds of art %d: %w", h, err)
	}
	// Labels may overhang the frame; the background path is the frame itself.
	if bg, err := art.FirstChild(h); err == nil && bg != models.NoArt {
		if name, err := art.ArtName(bg); err == nil && name == BackgroundName {
			if b, err := art.ArtBounds(bg); err == nil && !b.IsEmpty() {
				bounds = b
			}
		}
	}

	m := New(nil, bounds, models.ChartBar)
	m.ReadDictionary(dict, logger)
	m.Group = h
	return m, nil
}

// FindCharts walks the trees under roots and returns the chart-owned groups
// in paint order. Charts are not searched for nested charts.
func FindCharts(art host.ArtService, roots []models.ArtHandle) ([]models.ArtHandle, error) {
	var out []models.ArtHandle
	var visit func(h models.ArtHandle) error
	visit = func(h models.ArtHandle) error {
		if IsChartOwned(art, h) {
			out = append(out, h)
			return nil
		}
		t, err := art.ArtType(h)
		if err != nil {
			return err
		}
		if t != models.ArtGroup {
			return nil
		}
		child, err := art.FirstChild(h)
		for ; err == nil && child != models.NoArt; child, err = art.NextSibling(child) {
			if err := visit(child); err != nil {
				return err
			}
		}
		return err
	}
	for _, r := range roots {
		if err := visit(r); err != nil {
			return nil, fmt.Errorf("failed to walk art %d: %w", r, err)
		}
	}
	return out, nil
}
