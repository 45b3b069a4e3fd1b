package tool

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/user/charts-go/internal/models"
)

var printer = message.NewPrinter(language.English)

// BoundsLines formats art bounds as the four tooltip lines. Top and bottom
// are negated to read as distances down from the origin.
func BoundsLines(r models.Rect) [4]string {
	return [4]string{
		printer.Sprintf("Top: %.2f", -r.Top),
		printer.Sprintf("Left: %.2f", r.Left),
		printer.Sprintf("Bottom: %.2f", -r.Bottom),
		printer.Sprintf("Right: %.2f", r.Right),
	}
}

// PointString formats a cursor location, y negated.
func PointString(p models.Point) string {
	return printer.Sprintf("x: %.2f, y: %.2f", p.H, -p.V)
}

// DimensionString is the preview readout for a w by h drag.
func DimensionString(w, h float64) string {
	return printer.Sprintf("%.2f x %.2f", w, h)
}
