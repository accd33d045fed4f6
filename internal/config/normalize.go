package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizePoems(); err != nil {
		return err
	}
	if err := c.normalizeImages(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeLLM()
	c.normalizeLogging()
	c.Engine.Kind = strings.ToLower(strings.TrimSpace(c.Engine.Kind))
	if c.Engine.Kind == "" {
		c.Engine.Kind = defaultEngineKind
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheDir) == "" {
		c.Paths.CacheDir = defaultCacheDir()
	}
	if c.Paths.CacheDir, err = expandPath(c.Paths.CacheDir); err != nil {
		return fmt.Errorf("paths.cache_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkingDir) == "" {
		c.Paths.WorkingDir = c.Paths.CacheDir + "/working"
	}
	if c.Paths.WorkingDir, err = expandPath(c.Paths.WorkingDir); err != nil {
		return fmt.Errorf("paths.working_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.DatasetPath) == "" {
		c.Paths.DatasetPath = defaultDatasetPath
	}
	if c.Paths.DatasetPath, err = expandPath(c.Paths.DatasetPath); err != nil {
		return fmt.Errorf("paths.dataset_path: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	c.Paths.ServerURL = strings.TrimRight(strings.TrimSpace(c.Paths.ServerURL), "/")
	if c.Paths.ServerURL == "" {
		c.Paths.ServerURL = defaultServerURL
	}
	c.Paths.APIToken = strings.TrimSpace(c.Paths.APIToken)
	if c.Paths.APIToken == "" {
		if value, ok := c.lookupEnv("TRMNL_API_TOKEN"); ok {
			c.Paths.APIToken = value
		}
	}
	return nil
}

func (c *Config) normalizePoems() error {
	if strings.TrimSpace(c.Poems.CSVPath) != "" {
		expanded, err := expandPath(strings.TrimSpace(c.Poems.CSVPath))
		if err != nil {
			return fmt.Errorf("poems.csv_path: %w", err)
		}
		c.Poems.CSVPath = expanded
	}
	authors := make([]string, 0, len(c.Poems.Authors))
	seen := make(map[string]struct{}, len(c.Poems.Authors))
	for _, author := range c.Poems.Authors {
		trimmed := strings.TrimSpace(author)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		authors = append(authors, trimmed)
	}
	if len(authors) == 0 {
		authors = append(authors, DefaultAuthors...)
	}
	c.Poems.Authors = authors
	return nil
}

func (c *Config) normalizeImages() error {
	if strings.TrimSpace(c.Images.SourceDir) == "" {
		c.Images.SourceDir = ""
		return nil
	}
	expanded, err := expandPath(strings.TrimSpace(c.Images.SourceDir))
	if err != nil {
		return fmt.Errorf("images.source_dir: %w", err)
	}
	c.Images.SourceDir = expanded
	return nil
}

func (c *Config) normalizeRender() {
	c.Render.Renderer = strings.ToLower(strings.TrimSpace(c.Render.Renderer))
	if c.Render.Renderer == "" {
		c.Render.Renderer = defaultRenderer
	}
	c.Render.ChromiumBinary = strings.TrimSpace(c.Render.ChromiumBinary)
	if c.Render.ChromiumBinary == "" {
		c.Render.ChromiumBinary = defaultChromiumBinary
	}
	if c.Render.TimeoutSeconds <= 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeout
	}
}

func (c *Config) normalizeLLM() {
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	if c.LLM.Referer == "" {
		c.LLM.Referer = defaultLLMReferer
	}
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.Title == "" {
		c.LLM.Title = defaultLLMTitle
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
	if c.LLM.RetryAttempts <= 0 {
		c.LLM.RetryAttempts = defaultLLMRetryAttempts
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		for _, key := range []string{"TRMNL_LLM_API_KEY", "OPENROUTER_API_KEY", "OPENAI_API_KEY"} {
			if value, ok := c.lookupEnv(key); ok {
				c.LLM.APIKey = value
				break
			}
		}
	}
	if c.Restoration.MemoTTLMinutes < 0 {
		c.Restoration.MemoTTLMinutes = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.MaxSizeMB <= 0 {
		c.Logging.MaxSizeMB = defaultLogMaxSizeMB
	}
	if c.Logging.MaxBackups < 0 {
		c.Logging.MaxBackups = 0
	}
	if c.Logging.MaxAgeDays < 0 {
		c.Logging.MaxAgeDays = 0
	}
}
