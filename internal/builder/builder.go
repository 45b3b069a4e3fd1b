// Package builder turns a chart model into art: a root group carrying the
// chart's metadata, a background frame, the per-type geometry, and the axis
// and legend steps. Rebuild replaces a root's children from the model.
package builder

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/user/charts-go/internal/chart"
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// Stage is a step of the render pipeline.
type Stage int

const (
	StageIdle Stage = iota
	StageBackgroundCreated
	StageTypeDispatched
	StageAxesCreated
	StageAxesSkipped
	StageLegendCreated
	StageLegendSkipped
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageBackgroundCreated:
		return "background-created"
	case StageTypeDispatched:
		return "type-dispatched"
	case StageAxesCreated:
		return "axes-created"
	case StageAxesSkipped:
		return "axes-skipped"
	case StageLegendCreated:
		return "legend-created"
	case StageLegendSkipped:
		return "legend-skipped"
	case StageDone:
		return "done"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// StageError reports the pipeline stage reached before a step failed.
type StageError struct {
	Stage Stage
	Step  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("chart pipeline failed at %s (after %s): %v", e.Step, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Builder emits chart art through the host document services.
type Builder struct {
	doc       host.Document
	log       *log.Logger
	renderers map[models.ChartType]renderer
}

// New returns a builder. A nil logger uses log.Default().
func New(doc host.Document, logger *log.Logger) *Builder {
	if logger == nil {
		logger = log.Default()
	}
	return &Builder{doc: doc, log: logger, renderers: defaultRenderers()}
}

// Build creates the chart's root group above all other art and renders the
// model into it. On failure the root is disposed and nothing is left behind.
func (b *Builder) Build(m *chart.Model) (models.ArtHandle, error) {
	root, err := b.doc.NewArt(models.ArtGroup, models.PlaceAboveAll, models.NoArt)
	if err != nil {
		return models.NoArt, fmt.Errorf("failed to create chart group: %w", err)
	}
	if err := b.populate(root, m); err != nil {
		if derr := b.doc.DisposeArt(root); derr != nil {
			b.log.Warn("failed to dispose partial chart", "art", root, "err", derr)
		}
		return models.NoArt, err
	}
	m.Group = root
	b.log.Debug("chart built", "id", m.ID, "type", m.Type, "art", root)
	return root, nil
}

// Rebuild disposes every child of root and renders the model into it again.
// Rebuilding twice from the same model yields identical art.
func (b *Builder) Rebuild(root models.ArtHandle, m *chart.Model) error {
	if _, ok := b.renderers[m.Type]; !ok {
		return &StageError{Stage: StageIdle, Step: "dispatch", Err: fmt.Errorf("no renderer for chart type %d: %w", m.Type, host.ErrBadParameter)}
	}
	if err := b.clear(root); err != nil {
		return fmt.Errorf("failed to clear chart %d: %w", root, err)
	}
	if err := b.populate(root, m); err != nil {
		return err
	}
	m.Group = root
	b.log.Debug("chart rebuilt", "id", m.ID, "type", m.Type, "art", root)
	return nil
}

func (b *Builder) clear(root models.ArtHandle) error {
	for {
		child, err := b.doc.FirstChild(root)
		if err != nil {
			return err
		}
		if child == models.NoArt {
			return nil
		}
		if err := b.doc.DisposeArt(child); err != nil {
			return err
		}
	}
}

// populate writes metadata and names the root, then runs the render pipeline.
func (b *Builder) populate(root models.ArtHandle, m *chart.Model) error {
	dict, err := b.doc.Dictionary(root)
	if err != nil {
		return fmt.Errorf("failed to get chart dictionary: %w", err)
	}
	if err := m.WriteDictionary(dict); err != nil {
		return fmt.Errorf("failed to write chart metadata: %w", err)
	}
	if err := b.doc.SetArtName(root, chart.RootName); err != nil {
		return fmt.Errorf("failed to name chart group: %w", err)
	}
	return b.render(root, m)
}

func (b *Builder) render(root models.ArtHandle, m *chart.Model) error {
	stage := StageIdle
	fail := func(step string, err error) error {
		b.log.Debug("chart pipeline halted", "id", m.ID, "stage", stage, "step", step, "err", err)
		return &StageError{Stage: stage, Step: step, Err: err}
	}

	if _, err := b.background(root, m.Bounds); err != nil {
		return fail("background", err)
	}
	stage = StageBackgroundCreated

	r, ok := b.renderers[m.Type]
	if !ok {
		return fail("dispatch", fmt.Errorf("no renderer for chart type %d: %w", m.Type, host.ErrBadParameter))
	}
	if err := r(b, root, m); err != nil {
		return fail("render "+m.Type.String(), err)
	}
	stage = StageTypeDispatched

	if m.Type != models.ChartPie && m.Type != models.ChartDonut {
		if err := b.axes(root, m); err != nil {
			return fail("axes", err)
		}
		stage = StageAxesCreated
	} else {
		stage = StageAxesSkipped
	}

	if m.ShowLegend && m.SeriesCount() > 1 {
		if err := b.legend(root, m); err != nil {
			return fail("legend", err)
		}
		stage = StageLegendCreated
	} else {
		stage = StageLegendSkipped
	}

	stage = StageDone
	b.log.Debug("chart pipeline finished", "id", m.ID, "stage", stage)
	return nil
}

// background draws the chart frame: white fill, light-gray 1pt stroke.
func (b *Builder) background(root models.ArtHandle, bounds models.Rect) (models.ArtHandle, error) {
	bg, err := b.rect(root, bounds, func(st *models.PathStyle) {
		st.FillPaint = true
		st.Fill = models.GrayPaint(0)
		st.StrokePaint = true
		st.Stroke = models.Stroke{Paint: models.GrayPaint(0.3), Width: 1}
	})
	if err != nil {
		return models.NoArt, err
	}
	if err := b.doc.SetArtName(bg, chart.BackgroundName); err != nil {
		return models.NoArt, err
	}
	return bg, nil
}

// axes is the generic axis step. Renderers that need axes draw their own.
func (b *Builder) axes(root models.ArtHandle, m *chart.Model) error {
	return nil
}

// legend is the legend step. Legends are not drawn yet.
func (b *Builder) legend(root models.ArtHandle, m *chart.Model) error {
	return nil
}

// IsBadParameter reports whether err stems from invalid chart input.
func IsBadParameter(err error) bool { return errors.Is(err, host.ErrBadParameter) }
