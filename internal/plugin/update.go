package plugin

import (
	"errors"
	"fmt"

	"github.com/user/charts-go/internal/chart"
	"github.com/user/charts-go/internal/models"
)

// UpdateArt is the update notifier: it reloads the chart stored on root and
// rebuilds root's children from it. Non-chart art is ignored.
func (s *Session) UpdateArt(root models.ArtHandle) error {
	if !chart.IsChartOwned(s.svc.Doc, root) {
		return nil
	}
	m, err := chart.LoadFromArt(s.svc.Doc, root, s.log)
	if err != nil {
		return err
	}
	if err := s.builder.Rebuild(root, m); err != nil {
		return fmt.Errorf("failed to rebuild chart %d: %w", m.ID, err)
	}
	return nil
}

// UpdateAll rebuilds every chart found under roots and returns how many were
// rebuilt. A chart that fails is logged and skipped; the failures are joined
// into the returned error.
func (s *Session) UpdateAll(roots []models.ArtHandle) (int, error) {
	charts, err := chart.FindCharts(s.svc.Doc, roots)
	if err != nil {
		return 0, err
	}
	var (
		n    int
		errs []error
	)
	for _, h := range charts {
		if err := s.UpdateArt(h); err != nil {
			s.log.Warn("chart update failed", "art", h, "err", err)
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, errors.Join(errs...)
}
