package render

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"trmnl/internal/services"
)

// DefaultMaxBytes is the largest bitmap a TRMNL device will download.
const DefaultMaxBytes = 90000

// ErrTooLarge reports a bitmap that exceeds the device byte limit.
var ErrTooLarge = fmt.Errorf("%w: bitmap exceeds device byte limit", services.ErrValidation)

// WriteBMP encodes img and atomically replaces path with it. maxBytes <= 0
// disables the size check. It returns the number of bytes written.
func WriteBMP(path string, img *image.Paletted, maxBytes int) (int, error) {
	var buf bytes.Buffer
	if err := EncodeBMP(&buf, img); err != nil {
		return 0, err
	}
	if maxBytes > 0 && buf.Len() > maxBytes {
		return 0, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, filepath.Base(path), buf.Len(), maxBytes)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure output directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".render-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("create temp bitmap: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		return 0, fmt.Errorf("write temp bitmap: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("close temp bitmap: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return 0, fmt.Errorf("chmod temp bitmap: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return 0, fmt.Errorf("rename bitmap: %w", err)
	}
	return buf.Len(), nil
}
