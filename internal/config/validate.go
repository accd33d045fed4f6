package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePoems(); err != nil {
		return err
	}
	if err := c.validateDisplay(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateEngine(); err != nil {
		return err
	}
	if err := c.validateLLM(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.WorkingDir == "" {
		return errors.New("paths.working_dir must be set")
	}
	if c.Paths.CacheDir == "" {
		return errors.New("paths.cache_dir must be set")
	}
	working := filepath.Clean(c.Paths.WorkingDir)
	for _, dir := range []string{c.Paths.CacheDir, c.PoemCacheDir(), c.ImageCacheDir()} {
		if filepath.Clean(dir) == working {
			return fmt.Errorf("paths.working_dir must differ from content cache directory %s", dir)
		}
	}
	if c.Images.SourceDir != "" && filepath.Clean(c.Images.SourceDir) == working {
		return errors.New("images.source_dir must differ from paths.working_dir")
	}
	return nil
}

func (c *Config) validatePoems() error {
	if c.Poems.MinChars < 0 {
		return errors.New("poems.min_chars must be >= 0")
	}
	if c.Poems.MaxChars <= 0 {
		return errors.New("poems.max_chars must be positive")
	}
	if c.Poems.MinChars > c.Poems.MaxChars {
		return errors.New("poems.min_chars must not exceed poems.max_chars")
	}
	return nil
}

func (c *Config) validateDisplay() error {
	if err := ensurePositiveMap(map[string]int{
		"display.width":            c.Display.Width,
		"display.height":           c.Display.Height,
		"display.max_bytes":        c.Display.MaxBytes,
		"display.refresh_interval": c.Display.RefreshInterval,
	}); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRender() error {
	switch c.Render.Renderer {
	case RendererChromium, RendererBuiltin:
	default:
		return fmt.Errorf("render.renderer must be %q or %q, got %q", RendererChromium, RendererBuiltin, c.Render.Renderer)
	}
	return nil
}

func (c *Config) validateEngine() error {
	switch c.Engine.Kind {
	case EnginePoems:
	case EngineImages:
		if strings.TrimSpace(c.Images.SourceDir) == "" {
			return errors.New("images.source_dir must be set when engine.kind is \"images\"")
		}
	default:
		return fmt.Errorf("engine.kind must be %q or %q, got %q", EnginePoems, EngineImages, c.Engine.Kind)
	}
	return nil
}

func (c *Config) validateLLM() error {
	if !c.Restoration.Enabled {
		return nil
	}
	if strings.TrimSpace(c.LLM.BaseURL) == "" {
		return errors.New("llm.base_url must be set when restoration.enabled is true")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model must be set when restoration.enabled is true")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
