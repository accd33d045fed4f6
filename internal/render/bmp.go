package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
)

const (
	bmpFileHeaderSize = 14
	bmpInfoHeaderSize = 40
	bmpPaletteSize    = 2 * 4
	bmpPixelOffset    = bmpFileHeaderSize + bmpInfoHeaderSize + bmpPaletteSize
	bmpPixelsPerMeter = 2835 // 72 DPI
)

// EncodedSize returns the byte size of a 1-bit BMP with the given dimensions.
func EncodedSize(width, height int) int {
	return bmpPixelOffset + rowStride(width)*height
}

func rowStride(width int) int {
	return ((width + 31) / 32) * 4
}

// EncodeBMP writes img as an uncompressed 1 bit-per-pixel BMP. The image must
// use a two-colour palette; the palette is written as-is.
func EncodeBMP(w io.Writer, img *image.Paletted) error {
	if img == nil {
		return errors.New("encode bmp: nil image")
	}
	if len(img.Palette) != 2 {
		return fmt.Errorf("encode bmp: palette must have 2 entries, got %d", len(img.Palette))
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("encode bmp: empty image %dx%d", width, height)
	}
	stride := rowStride(width)
	imageSize := stride * height

	header := make([]byte, bmpPixelOffset)
	header[0], header[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(header[2:], uint32(bmpPixelOffset+imageSize))
	binary.LittleEndian.PutUint32(header[10:], bmpPixelOffset)

	info := header[bmpFileHeaderSize:]
	binary.LittleEndian.PutUint32(info[0:], bmpInfoHeaderSize)
	binary.LittleEndian.PutUint32(info[4:], uint32(width))
	binary.LittleEndian.PutUint32(info[8:], uint32(height)) // positive: bottom-up rows
	binary.LittleEndian.PutUint16(info[12:], 1)
	binary.LittleEndian.PutUint16(info[14:], 1)
	binary.LittleEndian.PutUint32(info[20:], uint32(imageSize))
	binary.LittleEndian.PutUint32(info[24:], bmpPixelsPerMeter)
	binary.LittleEndian.PutUint32(info[28:], bmpPixelsPerMeter)
	binary.LittleEndian.PutUint32(info[32:], 2)
	binary.LittleEndian.PutUint32(info[36:], 2)

	palette := header[bmpFileHeaderSize+bmpInfoHeaderSize:]
	for i, c := range img.Palette {
		r, g, bl, _ := color.NRGBAModel.Convert(c).RGBA()
		palette[i*4+0] = byte(bl >> 8)
		palette[i*4+1] = byte(g >> 8)
		palette[i*4+2] = byte(r >> 8)
	}
	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("encode bmp: write header: %w", err)
	}

	row := make([]byte, stride)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		clear(row)
		for x := 0; x < width; x++ {
			if img.ColorIndexAt(b.Min.X+x, y) != 0 {
				row[x/8] |= 0x80 >> (x % 8)
			}
		}
		if _, err := w.Write(row); err != nil {
			return fmt.Errorf("encode bmp: write row: %w", err)
		}
	}
	return nil
}
