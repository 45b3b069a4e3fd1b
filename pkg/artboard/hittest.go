package artboard

import (
	"math"
	"strings"

	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// HitTest returns the topmost path or text node whose bounds contain p.
func (d *Document) HitTest(p models.Point) (models.ArtHandle, bool, error) {
	for i := len(d.Layer) - 1; i >= 0; i-- {
		if h, ok := d.hit(d.Layer[i], p); ok {
			return h, true, nil
		}
	}
	return models.NoArt, false, nil
}

func (d *Document) hit(art models.ArtHandle, p models.Point) (models.ArtHandle, bool) {
	n := d.Nodes[art]
	if n.Type == models.ArtGroup {
		for i := len(n.Children) - 1; i >= 0; i-- {
			if h, ok := d.hit(n.Children[i], p); ok {
				return h, true
			}
		}
		return models.NoArt, false
	}
	b, err := d.ArtBounds(art)
	if err != nil || !b.Contains(p) {
		return models.NoArt, false
	}
	return art, true
}

// Snap control characters understood by Snapper.
const (
	// SnapAnchors snaps to path anchor points within Tolerance.
	SnapAnchors = 'A'
	// SnapGrid snaps to the nearest grid intersection.
	SnapGrid = 'G'
)

// Snapper adjusts cursor locations toward document anchors and a grid.
type Snapper struct {
	Doc       *Document
	Enabled   bool
	Grid      float64
	Tolerance float64
}

// NewSnapper returns an enabled snapper with a 4pt anchor tolerance.
func NewSnapper(doc *Document, grid float64) *Snapper {
	return &Snapper{Doc: doc, Enabled: true, Grid: grid, Tolerance: 4}
}

// SnapActive reports whether snapping is on for the view.
func (s *Snapper) SnapActive() bool { return s != nil && s.Enabled }

// Snap applies anchor snapping first and grid snapping second. Anchors win
// when one lies within tolerance.
func (s *Snapper) Snap(p models.Point, control string) (models.Point, error) {
	if !s.SnapActive() {
		return p, nil
	}
	if strings.ContainsRune(control, SnapAnchors) {
		if a, ok := s.nearestAnchor(p); ok {
			return a, nil
		}
	}
	if strings.ContainsRune(control, SnapGrid) && s.Grid > 0 {
		return models.Point{
			H: math.Round(p.H/s.Grid) * s.Grid,
			V: math.Round(p.V/s.Grid) * s.Grid,
		}, nil
	}
	return p, nil
}

func (s *Snapper) nearestAnchor(p models.Point) (models.Point, bool) {
	best := s.Tolerance
	var (
		out   models.Point
		found bool
	)
	for _, n := range s.Doc.Nodes {
		if n.Type != models.ArtPath {
			continue
		}
		for _, seg := range n.Segments {
			if dist := math.Hypot(seg.P.H-p.H, seg.P.V-p.V); dist <= best {
				best, out, found = dist, seg.P, true
			}
		}
	}
	return out, found
}

var (
	_ host.HitTester = (*Document)(nil)
	_ host.Snapper   = (*Snapper)(nil)
)
