package carousel

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Image is the bitmap currently held in (or just promoted into) the slot.
type Image struct {
	Path string
	Name string
}

func newImage(path string) Image {
	base := filepath.Base(path)
	return Image{Path: path, Name: strings.TrimSuffix(base, filepath.Ext(base))}
}

// Filename is the base name including extension.
func (i Image) Filename() string {
	return filepath.Base(i.Path)
}

// URLPath is the server path the device fetches the bitmap from.
func (i Image) URLPath() string {
	return "/api/image/" + url.PathEscape(i.Filename())
}

// URL joins base (for example "http://host:8000") with URLPath.
func (i Image) URL(base string) string {
	return strings.TrimRight(base, "/") + i.URLPath()
}
