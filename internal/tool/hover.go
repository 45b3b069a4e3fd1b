package tool

import (
	"fmt"

	"github.com/user/charts-go/internal/models"
)

type hoverState struct {
	lastHit      models.ArtHandle
	artBounds    models.Rect
	artRect      models.ViewRect
	cursorRect   models.ViewRect
	cursor       models.Point
	cursorView   models.ViewPoint
	artUpdate    bool
	cursorUpdate bool
}

func (h *hoverState) reset() {
	*h = hoverState{}
}

// LastHit returns the art under the cursor at the last track, or NoArt.
func (t *Tool) LastHit() models.ArtHandle { return t.hover.lastHit }

// TrackCursor updates hover state for a cursor move with no button down.
// It does nothing while a drag is in progress.
func (t *Tool) TrackCursor(p models.Point) error {
	if t.drawing || t.svc.Hit == nil || t.svc.View == nil {
		return nil
	}

	vp, err := t.svc.View.ArtworkPointToViewPoint(p)
	if err != nil {
		return fmt.Errorf("failed to convert cursor: %w", err)
	}
	t.hover.cursor = p
	t.hover.cursorView = vp

	art, hit, err := t.svc.Hit.HitTest(p)
	if err != nil {
		return fmt.Errorf("failed to hit test: %w", err)
	}

	switch {
	case hit && art != models.NoArt && art != t.hover.lastHit:
		return t.hoverNew(art)
	case t.hover.lastHit != models.NoArt && art == t.hover.lastHit:
		t.hover.cursorUpdate = true
		if t.svc.Annotator == nil {
			return nil
		}
		return t.svc.Annotator.InvalidateRect(t.hover.cursorRect)
	default:
		t.hover.reset()
		t.state = Idle
		if t.svc.Selection != nil {
			return t.svc.Selection.DeselectAll()
		}
		return nil
	}
}

func (t *Tool) hoverNew(art models.ArtHandle) error {
	t.hover.lastHit = art
	t.hover.artUpdate = true
	t.hover.cursorUpdate = true
	t.state = Tracking

	bounds, err := t.svc.Doc.ArtBounds(art)
	if err != nil {
		return fmt.Errorf("failed to get bounds of art %d: %w", art, err)
	}
	t.hover.artBounds = bounds

	topRight, err := t.svc.View.ArtworkPointToViewPoint(models.Point{H: bounds.Right, V: bounds.Top})
	if err != nil {
		return err
	}
	t.hover.artRect = artTooltipRect(topRight)

	if sel := t.svc.Selection; sel != nil {
		if sel.IsSomeArtSelected() {
			if err := sel.DeselectAll(); err != nil {
				return err
			}
		}
		if err := sel.SelectArt(art); err != nil {
			return err
		}
	}
	return nil
}

// artTooltipRect places the bounds tooltip just right of the art's top-right corner.
func artTooltipRect(topRight models.ViewPoint) models.ViewRect {
	r := models.ViewRect{Left: topRight.X + artTooltipGap, Top: topRight.Y}
	r.Right = r.Left + artTooltipWidth
	r.Bottom = r.Top + artTooltipHeight
	return r
}
