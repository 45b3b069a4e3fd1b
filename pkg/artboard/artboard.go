// Package artboard is an in-memory document host: an art tree with typed
// per-node dictionaries, path geometry and styling, point text, selection,
// view transforms, hit-testing and snapping. It satisfies the interfaces in
// internal/host so the chart core can run without a host application.
package artboard

import (
	"fmt"
	"math"
	"slices"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

// Node is one art object. Fields are exported for gob encoding.
type Node struct {
	Handle   models.ArtHandle
	Type     models.ArtType
	Name     string
	Parent   models.ArtHandle
	Children []models.ArtHandle

	Segments []models.PathSegment
	Closed   bool
	Style    models.PathStyle

	Text      string
	Anchor    models.Point
	TextStyle models.TextStyle

	Dict     *Dict
	Selected bool
}

// Document is an art tree. The zero value is not usable; call NewDocument.
type Document struct {
	ID string
	// Layer holds the top-level nodes, bottom to top.
	Layer []models.ArtHandle
	Nodes map[models.ArtHandle]*Node
	Next  models.ArtHandle
	// Size is the artboard extent used for the default view and export.
	Size models.Rect
}

// NewDocument returns an empty document with the given artboard size in points.
func NewDocument(width, height float64) *Document {
	return &Document{
		ID:    uuid.NewString(),
		Nodes: make(map[models.ArtHandle]*Node),
		Next:  1,
		Size:  models.Rect{Left: 0, Bottom: 0, Right: width, Top: height},
	}
}

func (d *Document) node(h models.ArtHandle) (*Node, error) {
	n, ok := d.Nodes[h]
	if !ok || h == models.NoArt {
		return nil, fmt.Errorf("art %d: %w", h, host.ErrNotFound)
	}
	return n, nil
}

// siblings returns the child list that contains h's position under parent.
func (d *Document) siblings(parent models.ArtHandle) *[]models.ArtHandle {
	if parent == models.NoArt {
		return &d.Layer
	}
	return &d.Nodes[parent].Children
}

// NewArt creates a node of the given kind placed relative to prep.
func (d *Document) NewArt(kind models.ArtType, order models.PaintOrder, prep models.ArtHandle) (models.ArtHandle, error) {
	if kind != models.ArtGroup && kind != models.ArtPath && kind != models.ArtText {
		return models.NoArt, fmt.Errorf("new art of type %s: %w", kind, host.ErrBadParameter)
	}

	parent := models.NoArt
	var index int
	switch order {
	case models.PlaceAboveAll:
		index = len(d.Layer)
	case models.PlaceInsideOnTop, models.PlaceInsideOnBottom:
		p, err := d.node(prep)
		if err != nil {
			return models.NoArt, err
		}
		if p.Type != models.ArtGroup {
			return models.NoArt, fmt.Errorf("place inside %s art %d: %w", p.Type, prep, host.ErrWrongArtType)
		}
		parent = prep
		if order == models.PlaceInsideOnTop {
			index = len(p.Children)
		}
	case models.PlaceAbove, models.PlaceBelow:
		p, err := d.node(prep)
		if err != nil {
			return models.NoArt, err
		}
		parent = p.Parent
		index = slices.Index(*d.siblings(parent), prep)
		if order == models.PlaceAbove {
			index++
		}
	default:
		return models.NoArt, fmt.Errorf("paint order %d: %w", order, host.ErrBadParameter)
	}

	h := d.Next
	d.Next++
	n := &Node{Handle: h, Type: kind, Parent: parent}
	if kind == models.ArtPath {
		n.Style = models.DefaultPathStyle()
	}
	d.Nodes[h] = n

	list := d.siblings(parent)
	*list = slices.Insert(*list, index, h)
	return h, nil
}

// DisposeArt removes a node and its whole subtree.
func (d *Document) DisposeArt(art models.ArtHandle) error {
	n, err := d.node(art)
	if err != nil {
		return err
	}
	for _, c := range slices.Clone(n.Children) {
		if err := d.DisposeArt(c); err != nil {
			return err
		}
	}
	list := d.siblings(n.Parent)
	if i := slices.Index(*list, art); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
	}
	delete(d.Nodes, art)
	return nil
}

// SetArtName sets the display name shown for the node.
func (d *Document) SetArtName(art models.ArtHandle, name string) error {
	n, err := d.node(art)
	if err != nil {
		return err
	}
	n.Name = name
	return nil
}

// ArtName returns the node's display name.
func (d *Document) ArtName(art models.ArtHandle) (string, error) {
	n, err := d.node(art)
	if err != nil {
		return "", err
	}
	return n.Name, nil
}

// ArtType returns the node's type.
func (d *Document) ArtType(art models.ArtHandle) (models.ArtType, error) {
	n, err := d.node(art)
	if err != nil {
		return models.ArtUnknown, err
	}
	return n.Type, nil
}

// Parent returns the node's parent group, or NoArt for top-level nodes.
func (d *Document) Parent(art models.ArtHandle) (models.ArtHandle, error) {
	n, err := d.node(art)
	if err != nil {
		return models.NoArt, err
	}
	return n.Parent, nil
}

// ArtBounds returns geometric bounds. Groups report the union of their children;
// an empty group reports a zero rectangle.
func (d *Document) ArtBounds(art models.ArtHandle) (models.Rect, error) {
	n, err := d.node(art)
	if err != nil {
		return models.Rect{}, err
	}
	switch n.Type {
	case models.ArtPath:
		return segmentBounds(n.Segments), nil
	case models.ArtText:
		return textBounds(n.Text, n.Anchor, n.TextStyle), nil
	}

	var (
		out   models.Rect
		found bool
	)
	for _, c := range n.Children {
		b, err := d.ArtBounds(c)
		if err != nil {
			return models.Rect{}, err
		}
		if b == (models.Rect{}) {
			continue
		}
		if !found {
			out, found = b, true
			continue
		}
		out = out.Union(b)
	}
	return out, nil
}

func segmentBounds(segs []models.PathSegment) models.Rect {
	if len(segs) == 0 {
		return models.Rect{}
	}
	r := models.Rect{Left: math.Inf(1), Right: math.Inf(-1), Top: math.Inf(-1), Bottom: math.Inf(1)}
	for _, s := range segs {
		r.Left = math.Min(r.Left, s.P.H)
		r.Right = math.Max(r.Right, s.P.H)
		r.Top = math.Max(r.Top, s.P.V)
		r.Bottom = math.Min(r.Bottom, s.P.V)
	}
	return r
}

// textBounds estimates point-text extents with an average glyph advance of half the size.
func textBounds(text string, anchor models.Point, st models.TextStyle) models.Rect {
	w := 0.5 * st.Size * float64(utf8.RuneCountInString(text))
	left := anchor.H
	switch st.Align {
	case models.AlignCenter:
		left -= w / 2
	case models.AlignRight:
		left -= w
	}
	return models.Rect{Left: left, Right: left + w, Bottom: anchor.V, Top: anchor.V + st.Size}
}

// FirstChild returns the bottommost child of a group, or NoArt.
func (d *Document) FirstChild(art models.ArtHandle) (models.ArtHandle, error) {
	n, err := d.node(art)
	if err != nil {
		return models.NoArt, err
	}
	if len(n.Children) == 0 {
		return models.NoArt, nil
	}
	return n.Children[0], nil
}

// NextSibling returns the node directly above art in its parent, or NoArt.
func (d *Document) NextSibling(art models.ArtHandle) (models.ArtHandle, error) {
	n, err := d.node(art)
	if err != nil {
		return models.NoArt, err
	}
	list := *d.siblings(n.Parent)
	i := slices.Index(list, art)
	if i < 0 || i+1 >= len(list) {
		return models.NoArt, nil
	}
	return list[i+1], nil
}

// Dictionary returns the node's dictionary, creating it on first use.
func (d *Document) Dictionary(art models.ArtHandle) (host.Dictionary, error) {
	n, err := d.node(art)
	if err != nil {
		return nil, err
	}
	if n.Dict == nil {
		n.Dict = NewDict()
	}
	return n.Dict, nil
}

// HasDictionary reports whether the node already carries a dictionary.
func (d *Document) HasDictionary(art models.ArtHandle) bool {
	n, err := d.node(art)
	return err == nil && n.Dict != nil
}

func (d *Document) pathNode(art models.ArtHandle) (*Node, error) {
	n, err := d.node(art)
	if err != nil {
		return nil, err
	}
	if n.Type != models.ArtPath {
		return nil, fmt.Errorf("path operation on %s art %d: %w", n.Type, art, host.ErrWrongArtType)
	}
	return n, nil
}

// SetPathSegments replaces the path's anchors.
func (d *Document) SetPathSegments(art models.ArtHandle, segs []models.PathSegment) error {
	n, err := d.pathNode(art)
	if err != nil {
		return err
	}
	n.Segments = slices.Clone(segs)
	return nil
}

// PathSegments returns a copy of the path's anchors.
func (d *Document) PathSegments(art models.ArtHandle) ([]models.PathSegment, error) {
	n, err := d.pathNode(art)
	if err != nil {
		return nil, err
	}
	return slices.Clone(n.Segments), nil
}

// SetPathClosed sets whether the last anchor connects back to the first.
func (d *Document) SetPathClosed(art models.ArtHandle, closed bool) error {
	n, err := d.pathNode(art)
	if err != nil {
		return err
	}
	n.Closed = closed
	return nil
}

// PathClosed reports whether the path is closed.
func (d *Document) PathClosed(art models.ArtHandle) (bool, error) {
	n, err := d.pathNode(art)
	if err != nil {
		return false, err
	}
	return n.Closed, nil
}

// PathStyle returns the path's paint.
func (d *Document) PathStyle(art models.ArtHandle) (models.PathStyle, error) {
	n, err := d.pathNode(art)
	if err != nil {
		return models.PathStyle{}, err
	}
	st := n.Style
	st.Stroke.Dash = slices.Clone(st.Stroke.Dash)
	return st, nil
}

// SetPathStyle replaces the path's paint.
func (d *Document) SetPathStyle(art models.ArtHandle, style models.PathStyle) error {
	n, err := d.pathNode(art)
	if err != nil {
		return err
	}
	style.Stroke.Dash = slices.Clone(style.Stroke.Dash)
	n.Style = style
	return nil
}

// NewPointText creates a text node as the topmost child of parent.
func (d *Document) NewPointText(parent models.ArtHandle, anchor models.Point, contents string, style models.TextStyle) (models.ArtHandle, error) {
	h, err := d.NewArt(models.ArtText, models.PlaceInsideOnTop, parent)
	if err != nil {
		return models.NoArt, err
	}
	n := d.Nodes[h]
	n.Text = contents
	n.Anchor = anchor
	n.TextStyle = style
	return h, nil
}

// TextContents returns a text node's string, anchor and style.
func (d *Document) TextContents(art models.ArtHandle) (string, models.Point, models.TextStyle, error) {
	n, err := d.node(art)
	if err != nil {
		return "", models.Point{}, models.TextStyle{}, err
	}
	if n.Type != models.ArtText {
		return "", models.Point{}, models.TextStyle{}, fmt.Errorf("text operation on %s art %d: %w", n.Type, art, host.ErrWrongArtType)
	}
	return n.Text, n.Anchor, n.TextStyle, nil
}

// Walk visits art and its descendants depth-first, bottom to top. Returning
// false from fn skips the node's children.
func (d *Document) Walk(art models.ArtHandle, fn func(n *Node, depth int) bool) {
	d.walk(art, 0, fn)
}

func (d *Document) walk(art models.ArtHandle, depth int, fn func(n *Node, depth int) bool) {
	n, ok := d.Nodes[art]
	if !ok {
		return
	}
	if !fn(n, depth) {
		return
	}
	for _, c := range n.Children {
		d.walk(c, depth+1, fn)
	}
}

// Count returns the number of nodes in art's subtree, art included.
func (d *Document) Count(art models.ArtHandle) int {
	total := 0
	d.Walk(art, func(*Node, int) bool {
		total++
		return true
	})
	return total
}

// Len returns the number of live nodes in the document.
func (d *Document) Len() int { return len(d.Nodes) }

// Node returns a read-only view of a node, or nil.
func (d *Document) Node(art models.ArtHandle) *Node { return d.Nodes[art] }

var (
	_ host.Document    = (*Document)(nil)
	_ host.ArtService  = (*Document)(nil)
	_ host.PathService = (*Document)(nil)
	_ host.TextService = (*Document)(nil)
)
