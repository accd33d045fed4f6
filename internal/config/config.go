package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and bind address configuration.
type Paths struct {
	CacheDir    string `toml:"cache_dir"`
	WorkingDir  string `toml:"working_dir"`
	LogDir      string `toml:"log_dir"`
	DatasetPath string `toml:"dataset_path"`
	APIBind     string `toml:"api_bind"`
	APIToken    string `toml:"api_token"`
	ServerURL   string `toml:"server_url"`
}

// Poems contains the dataset filter for the poem engine.
type Poems struct {
	CSVPath  string   `toml:"csv_path"`
	Authors  []string `toml:"authors"`
	MinChars int      `toml:"min_chars"`
	MaxChars int      `toml:"max_chars"`
}

// Display describes the target device screen and refresh cadence.
type Display struct {
	Width           int `toml:"width"`
	Height          int `toml:"height"`
	MaxBytes        int `toml:"max_bytes"`
	RefreshInterval int `toml:"refresh_interval"`
}

// Render selects how HTML is turned into a bitmap.
type Render struct {
	Renderer       string `toml:"renderer"`
	ChromiumBinary string `toml:"chromium_binary"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// LLM contains the connection settings for the remote text-generation model.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	Referer        string `toml:"referer"`
	Title          string `toml:"title"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	RetryAttempts  int    `toml:"retry_attempts"`
}

// Restoration controls the classifier that repairs flattened poems.
type Restoration struct {
	Enabled bool `toml:"enabled"`
	// MemoTTLMinutes keeps generated bodies in memory so a redrawn poem does
	// not pay for a second remote call. Zero disables the memo.
	MemoTTLMinutes int `toml:"memo_ttl_minutes"`
}

// Images contains configuration for the directory-backed image engine.
type Images struct {
	SourceDir string `toml:"source_dir"`
}

// Engine selects which content engine feeds the carousel.
type Engine struct {
	Kind string `toml:"kind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format     string `toml:"format"`
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// Config encapsulates all configuration values for trmnl.
//
// Configuration sections by subsystem:
//   - Paths: content cache, working slot, logs, dataset, API bind address
//   - Poems: dataset allow-list and body length bounds
//   - Display: device resolution, byte limit, refresh interval
//   - Render: HTML renderer selection
//   - LLM: remote model used for routing and restoration
//   - Restoration: classifier toggle and memo
//   - Images: source directory for the image engine
//   - Engine: which content engine feeds the carousel
//   - Logging: log format, level, and rotation
type Config struct {
	Paths       Paths       `toml:"paths"`
	Poems       Poems       `toml:"poems"`
	Display     Display     `toml:"display"`
	Render      Render      `toml:"render"`
	LLM         LLM         `toml:"llm"`
	Restoration Restoration `toml:"restoration"`
	Images      Images      `toml:"images"`
	Engine      Engine      `toml:"engine"`
	Logging     Logging     `toml:"logging"`

	env map[string]string
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	env, err := readDotEnv(filepath.Join(filepath.Dir(resolvedPath), ".env"))
	if err != nil {
		return nil, "", false, err
	}
	cfg.env = env

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trmnl.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// readDotEnv loads secrets from a .env file beside the config. The process
// environment is left untouched; values only serve as fallbacks.
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("stat env file: %w", err)
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("parse env file %s: %w", path, err)
	}
	return values, nil
}

func (c *Config) lookupEnv(key string) (string, bool) {
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	if value, ok := c.env[key]; ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), true
	}
	return "", false
}

// EnsureDirectories creates required directories for daemon operation.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.CacheDir, c.Paths.WorkingDir, c.Paths.LogDir, c.PoemCacheDir(), c.ImageCacheDir()}
	if strings.TrimSpace(c.Paths.DatasetPath) != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.DatasetPath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// PoemCacheDir is where the poem engine keeps rendered bitmaps.
func (c *Config) PoemCacheDir() string {
	return filepath.Join(c.Paths.CacheDir, "poems")
}

// ImageCacheDir is where the image engine keeps converted bitmaps.
func (c *Config) ImageCacheDir() string {
	return filepath.Join(c.Paths.CacheDir, "images")
}

// LockPath returns the daemon single-instance lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "trmnl.lock")
}

// LogPath returns the rotating daemon log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "trmnl.log")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultCacheDir() string {
	if base, ok := os.LookupEnv("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "trmnl")
	}
	return "~/.cache/trmnl"
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// LLMConfig contains the resolved LLM connection settings.
type LLMConfig struct {
	APIKey         string
	BaseURL        string
	Model          string
	Referer        string
	Title          string
	TimeoutSeconds int
	RetryAttempts  int
}

// GetLLM returns the LLM connection settings.
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		APIKey:         strings.TrimSpace(c.LLM.APIKey),
		BaseURL:        strings.TrimSpace(c.LLM.BaseURL),
		Model:          strings.TrimSpace(c.LLM.Model),
		Referer:        strings.TrimSpace(c.LLM.Referer),
		Title:          strings.TrimSpace(c.LLM.Title),
		TimeoutSeconds: c.LLM.TimeoutSeconds,
		RetryAttempts:  c.LLM.RetryAttempts,
	}
}
