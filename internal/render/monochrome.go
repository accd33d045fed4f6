package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Palette is the two-entry black/white palette used by every display bitmap.
// Index 0 is black and index 1 is white.
var Palette = color.Palette{color.Black, color.White}

// Monochrome scales src to width×height (stretching, as the device has a
// fixed aspect) and dithers it to Palette.
func Monochrome(src image.Image, width, height int) *image.Paletted {
	rect := image.Rect(0, 0, width, height)
	gray := image.NewGray(rect)
	if b := src.Bounds(); b.Dx() == width && b.Dy() == height {
		draw.Draw(gray, rect, src, b.Min, draw.Src)
	} else {
		draw.CatmullRom.Scale(gray, rect, src, src.Bounds(), draw.Src, nil)
	}
	out := image.NewPaletted(rect, Palette)
	draw.FloydSteinberg.Draw(out, rect, gray, image.Point{})
	return out
}
