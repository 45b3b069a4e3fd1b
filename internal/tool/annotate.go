package tool

import (
	"fmt"
	"math"

	"github.com/user/charts-go/internal/host"
	"github.com/user/charts-go/internal/models"
)

var (
	tooltipBackground = models.RGB{Red: 65000, Green: 65000, Blue: 40000}
	tooltipBorder     = models.RGB{}
	previewColor      = models.RGB{Red: 0, Green: 0, Blue: 65535}
)

const (
	artTooltipGap    = 10
	artTooltipWidth  = 80
	artTooltipHeight = 70

	cursorOffset     = 5
	cursorPadTop     = 5
	cursorPadRight   = 20
	textInset        = 5
	borderWidth      = 0.5
	previewWidth     = 2.0
	dimensionOffset  = 10
	dimensionPadding = 4
)

// DrawAnnotation draws the tool's overlay: the drag preview while drawing,
// otherwise the hover tooltips.
func (t *Tool) DrawAnnotation(d host.AnnotationDrawer) error {
	if t.drawing {
		return t.drawPreview(d)
	}
	if err := t.drawArtTooltip(d); err != nil {
		return err
	}
	return t.drawCursorTooltip(d)
}

func (t *Tool) drawPreview(d host.AnnotationDrawer) error {
	if t.svc.View == nil {
		return nil
	}
	a, err := t.svc.View.ArtworkPointToViewPoint(t.start)
	if err != nil {
		return err
	}
	b, err := t.svc.View.ArtworkPointToViewPoint(t.end)
	if err != nil {
		return err
	}
	outline := models.ViewRect{
		Left:   min(a.X, b.X),
		Top:    min(a.Y, b.Y),
		Right:  max(a.X, b.X),
		Bottom: max(a.Y, b.Y),
	}
	d.SetColor(previewColor)
	d.SetLineWidth(previewWidth)
	d.SetLineDash(nil)
	if err := d.DrawRect(outline, false); err != nil {
		return fmt.Errorf("failed to draw preview: %w", err)
	}

	label := DimensionString(math.Abs(t.end.H-t.start.H), math.Abs(t.end.V-t.start.V))
	if err := d.SetFontPreset(host.FontSmall); err != nil {
		return err
	}
	at := models.ViewPoint{X: b.X + dimensionOffset, Y: b.Y + dimensionOffset + int(d.FontSize())}
	box, err := d.TextBounds(label, at)
	if err != nil {
		return err
	}
	box.Left -= dimensionPadding
	box.Top -= dimensionPadding
	box.Right += dimensionPadding
	box.Bottom += dimensionPadding
	if err := t.drawBox(d, box); err != nil {
		return err
	}
	return d.DrawTextAligned(label, host.HAlignCenter, host.VAlignMiddle, box)
}

func (t *Tool) drawArtTooltip(d host.AnnotationDrawer) error {
	if !t.hover.artUpdate {
		return nil
	}
	if err := t.drawBox(d, t.hover.artRect); err != nil {
		return err
	}
	if err := d.SetFontPreset(host.FontSmall); err != nil {
		return err
	}
	step := int(d.FontSize()) + textInset
	at := models.ViewPoint{X: t.hover.artRect.Left + textInset, Y: t.hover.artRect.Top}
	for _, line := range BoundsLines(t.hover.artBounds) {
		at.Y += step
		if err := d.DrawText(line, at); err != nil {
			return fmt.Errorf("failed to draw bounds text: %w", err)
		}
	}
	return nil
}

func (t *Tool) drawCursorTooltip(d host.AnnotationDrawer) error {
	if !t.hover.cursorUpdate {
		return nil
	}
	label := PointString(t.hover.cursor)
	if err := d.SetFontPreset(host.FontSmall); err != nil {
		return err
	}
	at := models.ViewPoint{X: t.hover.cursorView.X + cursorOffset, Y: t.hover.cursorView.Y - cursorOffset}
	r, err := d.TextBounds(label, at)
	if err != nil {
		return err
	}
	r.Top -= cursorPadTop
	r.Right += cursorPadRight
	t.hover.cursorRect = r

	if err := t.drawBox(d, r); err != nil {
		return err
	}
	return d.DrawTextAligned(label, host.HAlignCenter, host.VAlignMiddle, r)
}

// drawBox fills r with the tooltip background and outlines it.
func (t *Tool) drawBox(d host.AnnotationDrawer, r models.ViewRect) error {
	d.SetColor(tooltipBackground)
	if err := d.DrawRect(r, true); err != nil {
		return err
	}
	d.SetColor(tooltipBorder)
	d.SetLineWidth(borderWidth)
	return d.DrawRect(r, false)
}
