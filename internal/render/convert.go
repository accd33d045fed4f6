package render

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Options describes the target display.
type Options struct {
	Width    int
	Height   int
	MaxBytes int
}

// DefaultOptions matches the TRMNL OG panel.
func DefaultOptions() Options {
	return Options{Width: 800, Height: 480, MaxBytes: DefaultMaxBytes}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Width <= 0 {
		o.Width = def.Width
	}
	if o.Height <= 0 {
		o.Height = def.Height
	}
	if o.MaxBytes == 0 {
		o.MaxBytes = def.MaxBytes
	}
	return o
}

// SupportedExtensions lists the source image extensions ConvertFile decodes.
var SupportedExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// IsSupportedImage reports whether path has a decodable image extension.
func IsSupportedImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range SupportedExtensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

// DecodeFile opens and decodes an image in any registered format.
func DecodeFile(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	defer file.Close()
	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", filepath.Base(path), err)
	}
	return img, nil
}

// ConvertFile turns any decodable image into a display bitmap at dest.
func ConvertFile(src, dest string, opts Options) (int, error) {
	opts = opts.withDefaults()
	img, err := DecodeFile(src)
	if err != nil {
		return 0, err
	}
	return WriteBMP(dest, Monochrome(img, opts.Width, opts.Height), opts.MaxBytes)
}
