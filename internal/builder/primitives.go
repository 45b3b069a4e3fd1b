package builder

import (
	"fmt"

	"github.com/user/charts-go/internal/models"
)

// rect adds a closed four-corner path as the topmost child of parent. The
// corners run top-left, top-right, bottom-right, bottom-left.
func (b *Builder) rect(parent models.ArtHandle, r models.Rect, style func(*models.PathStyle)) (models.ArtHandle, error) {
	c := r.Corners()
	return b.path(parent, c[:], true, style)
}

// line adds an open two-point path.
func (b *Builder) line(parent models.ArtHandle, from, to models.Point, stroke models.Stroke) (models.ArtHandle, error) {
	return b.path(parent, []models.Point{from, to}, false, func(st *models.PathStyle) {
		st.FillPaint = false
		st.StrokePaint = true
		st.Stroke = stroke
	})
}

func (b *Builder) path(parent models.ArtHandle, pts []models.Point, closed bool, style func(*models.PathStyle)) (models.ArtHandle, error) {
	art, err := b.doc.NewArt(models.ArtPath, models.PlaceInsideOnTop, parent)
	if err != nil {
		return models.NoArt, fmt.Errorf("failed to create path: %w", err)
	}
	segs := make([]models.PathSegment, len(pts))
	for i, p := range pts {
		segs[i] = models.CornerSegment(p)
	}
	if err := b.doc.SetPathSegments(art, segs); err != nil {
		return models.NoArt, fmt.Errorf("failed to set path segments: %w", err)
	}
	if err := b.doc.SetPathClosed(art, closed); err != nil {
		return models.NoArt, fmt.Errorf("failed to close path: %w", err)
	}
	st, err := b.doc.PathStyle(art)
	if err != nil {
		return models.NoArt, fmt.Errorf("failed to get path style: %w", err)
	}
	style(&st)
	if err := b.doc.SetPathStyle(art, st); err != nil {
		return models.NoArt, fmt.Errorf("failed to set path style: %w", err)
	}
	return art, nil
}

// group adds a named group as the topmost child of parent.
func (b *Builder) group(parent models.ArtHandle, name string) (models.ArtHandle, error) {
	g, err := b.doc.NewArt(models.ArtGroup, models.PlaceInsideOnTop, parent)
	if err != nil {
		return models.NoArt, fmt.Errorf("failed to create group %q: %w", name, err)
	}
	if err := b.doc.SetArtName(g, name); err != nil {
		return models.NoArt, fmt.Errorf("failed to name group %q: %w", name, err)
	}
	return g, nil
}

func (b *Builder) text(parent models.ArtHandle, at models.Point, s string, st models.TextStyle) error {
	if _, err := b.doc.NewPointText(parent, at, s, st); err != nil {
		return fmt.Errorf("failed to create label %q: %w", s, err)
	}
	return nil
}
