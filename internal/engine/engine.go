package engine

import (
	"context"
	"path/filepath"
	"strings"
)

// Image is a rendered bitmap in the content cache.
type Image struct {
	Path string
	Name string
}

// NewImage builds an Image whose Name is the file stem of path.
func NewImage(path string) Image {
	base := filepath.Base(path)
	return Image{Path: path, Name: strings.TrimSuffix(base, filepath.Ext(base))}
}

// Engine yields the next image to display.
type Engine interface {
	Next(ctx context.Context) (Image, error)
}

// Renderer turns an HTML fragment into a bitmap at dest.
type Renderer interface {
	Render(ctx context.Context, html, dest string) (string, error)
}
