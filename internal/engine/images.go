package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"trmnl/internal/logging"
	"trmnl/internal/render"
	"trmnl/internal/services"
	"trmnl/internal/textutil"
)

// ErrNoSourceImages reports an image directory with nothing decodable in it.
var ErrNoSourceImages = fmt.Errorf("%w: no source images found", services.ErrConfiguration)

// ImageEngine converts pictures from a source directory into display bitmaps.
type ImageEngine struct {
	sourceDir string
	cacheDir  string
	opts      render.Options
	pick      func(n int) int
	logger    *slog.Logger
}

// NewImageEngine wires an image engine. pick may be nil for uniform random choice.
func NewImageEngine(sourceDir, cacheDir string, opts render.Options, pick func(n int) int, logger *slog.Logger) *ImageEngine {
	if pick == nil {
		pick = rand.IntN
	}
	return &ImageEngine{
		sourceDir: sourceDir,
		cacheDir:  cacheDir,
		opts:      opts,
		pick:      pick,
		logger:    logging.NewComponentLogger(logger, "image-engine"),
	}
}

// Sources lists decodable images in the source directory, sorted by name.
func (e *ImageEngine) Sources() ([]string, error) {
	entries, err := os.ReadDir(e.sourceDir)
	if err != nil {
		return nil, fmt.Errorf("read image source dir: %w", err)
	}
	var out []string
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") || !render.IsSupportedImage(entry.Name()) {
			continue
		}
		out = append(out, filepath.Join(e.sourceDir, entry.Name()))
	}
	sort.Strings(out)
	return out, nil
}

// Next picks a source image and returns its converted bitmap. A cached
// conversion is reused unless the source is newer.
func (e *ImageEngine) Next(ctx context.Context) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}
	sources, err := e.Sources()
	if err != nil {
		return Image{}, err
	}
	if len(sources) == 0 {
		return Image{}, ErrNoSourceImages
	}
	src := sources[e.pick(len(sources))]
	stem := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
	dest := filepath.Join(e.cacheDir, "image_"+textutil.LogicalName(stem)+".bmp")

	if fresh(dest, src) {
		return NewImage(dest), nil
	}
	size, err := render.ConvertFile(src, dest, e.opts)
	if err != nil {
		return Image{}, err
	}
	e.logger.Info("image converted",
		logging.String(logging.FieldImage, filepath.Base(dest)),
		logging.String("source", filepath.Base(src)),
		logging.Int("size_bytes", size),
	)
	return NewImage(dest), nil
}

func fresh(dest, src string) bool {
	destInfo, err := os.Stat(dest)
	if err != nil {
		return false
	}
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	return !srcInfo.ModTime().After(destInfo.ModTime())
}
