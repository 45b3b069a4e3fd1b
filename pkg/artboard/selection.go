package artboard

import (
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// IsSomeArtSelected reports whether any node is selected.
func (d *Document) IsSomeArtSelected() bool {
	for _, n := range d.Nodes {
		if n.Selected {
			return true
		}
	}
	return false
}

// DeselectAll clears the selection.
func (d *Document) DeselectAll() error {
	for _, n := range d.Nodes {
		n.Selected = false
	}
	return nil
}

// SelectArt marks a node selected.
func (d *Document) SelectArt(art models.ArtHandle) error {
	n, err := d.node(art)
	if err != nil {
		return err
	}
	n.Selected = true
	return nil
}

// IsSelected reports whether art is selected.
func (d *Document) IsSelected(art models.ArtHandle) bool {
	n, ok := d.Nodes[art]
	return ok && n.Selected
}

// Selected returns the selected handles in ascending order.
func (d *Document) Selected() []models.ArtHandle {
	var out []models.ArtHandle
	for h := models.ArtHandle(1); h < d.Next; h++ {
		if n, ok := d.Nodes[h]; ok && n.Selected {
			out = append(out, h)
		}
	}
	return out
}

var _ host.Selection = (*Document)(nil)
