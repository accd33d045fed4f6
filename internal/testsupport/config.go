package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"trmnl/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults to the builtin renderer, disables restoration, and binds the
// API to an ephemeral loopback port.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.WorkingDir = filepath.Join(base, "working")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.DatasetPath = filepath.Join(base, "data", "poems.db")
	cfgVal.Paths.APIBind = "127.0.0.1:0"
	cfgVal.Images.SourceDir = filepath.Join(base, "images")
	cfgVal.Render.Renderer = config.RendererBuiltin
	cfgVal.Restoration.Enabled = false

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithEngine selects the content engine on the test config.
func WithEngine(kind string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Engine.Kind = kind
		if kind == config.EngineImages {
			if err := os.MkdirAll(b.cfg.Images.SourceDir, 0o755); err != nil {
				b.t.Fatalf("mkdir images dir: %v", err)
			}
		}
	}
}

// WithAuthors replaces the poet allow-list.
func WithAuthors(authors ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Poems.Authors = authors
	}
}

// WithLengthBounds sets the accepted poem body length range.
func WithLengthBounds(minChars, maxChars int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Poems.MinChars = minChars
		b.cfg.Poems.MaxChars = maxChars
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, chromium is stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"chromium"}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		if err := os.MkdirAll(binDir, 0o755); err != nil {
			b.t.Fatalf("mkdir bin dir: %v", err)
		}
		script := []byte("#!/bin/sh\nexit 0\n")
		for _, name := range names {
			target := filepath.Join(binDir, name)
			if err := os.WriteFile(target, script, 0o755); err != nil {
				b.t.Fatalf("write stub %s: %v", name, err)
			}
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.CacheDir)
}
