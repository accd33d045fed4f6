package render

import (
	"context"
	"log/slog"
	"time"

	"trmnl/internal/config"
)

// HTMLRenderer turns an HTML fragment into a display bitmap at dest and
// returns the written path.
type HTMLRenderer interface {
	Render(ctx context.Context, fragment, dest string) (string, error)
}

// OptionsFromConfig extracts display options from the configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Width:    cfg.Display.Width,
		Height:   cfg.Display.Height,
		MaxBytes: cfg.Display.MaxBytes,
	}.withDefaults()
}

// New returns the renderer selected by render.renderer.
func New(cfg *config.Config, logger *slog.Logger) HTMLRenderer {
	opts := OptionsFromConfig(cfg)
	if cfg.Render.Renderer == config.RendererBuiltin {
		return NewTextRenderer(opts, logger)
	}
	timeout := time.Duration(cfg.Render.TimeoutSeconds) * time.Second
	return NewChromiumRenderer(cfg.Render.ChromiumBinary, opts, timeout, logger)
}
