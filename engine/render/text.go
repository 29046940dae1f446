package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// Face is the bitmap font used for all in-game text
var Face = text.NewGoXFace(basicfont.Face7x13)

// DrawText draws s with its top-left corner at (x, y), or centred on x when
// center is set
func DrawText(dst *ebiten.Image, s string, x, y float64, clr color.Color, center bool) {
	op := &text.DrawOptions{}
	if center {
		op.PrimaryAlign = text.AlignCenter
	}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(dst, s, Face, op)
}

// TextWidth returns the advance of s in pixels
func TextWidth(s string) float64 {
	w, _ := text.Measure(s, Face, 0)
	return w
}
