package engine

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"trmnl/internal/content"
	"trmnl/internal/logging"
	"trmnl/internal/restore"
)

// Selector yields the next content item.
type Selector interface {
	Select(ctx context.Context) (content.Item, error)
}

// Classifier decides the body to display for an item.
type Classifier interface {
	Classify(ctx context.Context, item content.Item) (restore.Result, error)
}

// TextEngine renders poems into the content cache.
type TextEngine struct {
	selector   Selector
	classifier Classifier
	renderer   Renderer
	cacheDir   string
	logger     *slog.Logger
}

// NewTextEngine wires a text engine. classifier may be nil, in which case
// bodies are rendered as selected.
func NewTextEngine(selector Selector, classifier Classifier, renderer Renderer, cacheDir string, logger *slog.Logger) *TextEngine {
	return &TextEngine{
		selector:   selector,
		classifier: classifier,
		renderer:   renderer,
		cacheDir:   cacheDir,
		logger:     logging.NewComponentLogger(logger, "text-engine"),
	}
}

// Next selects an item and returns its bitmap, rendering it on a cache miss.
func (e *TextEngine) Next(ctx context.Context) (Image, error) {
	item, err := e.selector.Select(ctx)
	if err != nil {
		return Image{}, err
	}
	img, _, err := e.Produce(ctx, item)
	return img, err
}

// CachePath is where the bitmap for item lives in the content cache.
func (e *TextEngine) CachePath(item content.Item) string {
	return filepath.Join(e.cacheDir, "poem_"+item.LogicalName()+".bmp")
}

// Produce classifies and renders one item. cached reports whether the bitmap
// already existed, in which case nothing was classified or rendered.
func (e *TextEngine) Produce(ctx context.Context, item content.Item) (img Image, cached bool, err error) {
	dest := e.CachePath(item)
	if _, statErr := os.Stat(dest); statErr == nil {
		e.logger.Debug("content cache hit", logging.String(logging.FieldImage, filepath.Base(dest)))
		return NewImage(dest), true, nil
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return Image{}, false, fmt.Errorf("stat cached bitmap: %w", statErr)
	}

	body := item.Body
	if e.classifier != nil {
		result, err := e.classifier.Classify(ctx, item)
		if err != nil {
			return Image{}, false, err
		}
		body = result.Body
	}

	if err := os.MkdirAll(e.cacheDir, 0o755); err != nil {
		return Image{}, false, fmt.Errorf("ensure content cache: %w", err)
	}
	written, err := e.renderer.Render(ctx, PoemHTML(item.Title, item.Attribution, body), dest)
	if err != nil {
		return Image{}, false, err
	}
	e.logger.Info("poem rendered",
		logging.String(logging.FieldImage, filepath.Base(written)),
		logging.String("title", item.Title),
		logging.String("poet", item.Attribution),
	)
	return NewImage(written), false, nil
}

var titleCaser = cases.Upper(language.Und)

// PoemHTML lays out a poem as the display fragment: the upper-cased title and
// poet in bold, then the body with one <br> per line break.
func PoemHTML(title, poet, body string) string {
	heading := html.EscapeString(titleCaser.String(title))
	if poet = strings.TrimSpace(poet); poet != "" {
		heading += " by " + html.EscapeString(poet)
	}
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = html.EscapeString(line)
	}
	return `<div style="display: flex; justify-content: center; align-items: center; height: 80%; flex-direction: column;">
    <b><p>` + heading + `</p></b>
    <p>` + strings.Join(lines, "<br>") + `</p>
</div>`
}
