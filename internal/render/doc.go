// Package render produces the 1-bit BMP bitmaps a TRMNL display accepts.
//
// Everything converges on the same pipeline: scale to the display size,
// Floyd–Steinberg dither to black and white, encode as a 1 bit-per-pixel BMP,
// and refuse anything over the device byte limit. HTML reaches that pipeline
// through headless Chromium or, when no browser is installed, through a small
// built-in text layout that draws with a bitmap font.
package render
