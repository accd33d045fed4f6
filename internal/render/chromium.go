package render

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"trmnl/internal/logging"
	"trmnl/internal/services"
)

// CommandRunner executes an external program and returns its combined output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ChromiumRenderer screenshots HTML with headless Chromium.
type ChromiumRenderer struct {
	Binary  string
	Options Options
	Timeout time.Duration

	run    CommandRunner
	logger *slog.Logger
}

// NewChromiumRenderer builds a renderer that invokes binary.
func NewChromiumRenderer(binary string, opts Options, timeout time.Duration, logger *slog.Logger) *ChromiumRenderer {
	if strings.TrimSpace(binary) == "" {
		binary = "chromium"
	}
	return &ChromiumRenderer{
		Binary:  binary,
		Options: opts.withDefaults(),
		Timeout: timeout,
		run:     execRunner,
		logger:  logging.NewComponentLogger(logger, "render"),
	}
}

// WithRunner replaces the process runner (useful for tests).
func (r *ChromiumRenderer) WithRunner(run CommandRunner) *ChromiumRenderer {
	if run != nil {
		r.run = run
	}
	return r
}

// Render lays out fragment in a full-size page, screenshots it, and writes the
// dithered bitmap to dest.
func (r *ChromiumRenderer) Render(ctx context.Context, fragment, dest string) (string, error) {
	workDir, err := os.MkdirTemp("", "trmnl-render-*")
	if err != nil {
		return "", fmt.Errorf("create render workspace: %w", err)
	}
	defer os.RemoveAll(workDir)

	pagePath := filepath.Join(workDir, "page.html")
	shotPath := filepath.Join(workDir, "screenshot.png")
	if err := os.WriteFile(pagePath, []byte(Page(fragment, r.Options.Width, r.Options.Height)), 0o644); err != nil {
		return "", fmt.Errorf("write render page: %w", err)
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--hide-scrollbars",
		"--force-device-scale-factor=1",
		fmt.Sprintf("--window-size=%d,%d", r.Options.Width, r.Options.Height),
		"--screenshot=" + shotPath,
		"file://" + pagePath,
	}
	started := time.Now()
	output, err := r.run(ctx, r.Binary, args...)
	if err != nil {
		detail := strings.TrimSpace(string(output))
		if len(detail) > 400 {
			detail = detail[:400] + "..."
		}
		return "", services.Wrap(services.ErrUpstream, "render", "chromium", detail, err)
	}
	if _, err := os.Stat(shotPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", services.Wrap(services.ErrUpstream, "render", "chromium", "no screenshot produced", err)
		}
		return "", fmt.Errorf("stat screenshot: %w", err)
	}

	size, err := ConvertFile(shotPath, dest, r.Options)
	if err != nil {
		return "", err
	}
	r.logger.Info("bitmap rendered",
		logging.String(logging.FieldImage, filepath.Base(dest)),
		logging.Int("size_bytes", size),
		logging.Duration("render_duration", time.Since(started)),
	)
	return dest, nil
}
