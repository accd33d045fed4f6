package config

const (
	defaultConfigPath         = "~/.config/trmnl/config.toml"
	defaultLogDir             = "~/.local/share/trmnl/logs"
	defaultDatasetPath        = "~/.local/share/trmnl/poems.db"
	defaultAPIBind            = "0.0.0.0:8000"
	defaultServerURL          = "http://localhost:8000"
	defaultMinChars           = 100
	defaultMaxChars           = 800
	defaultDisplayWidth       = 800
	defaultDisplayHeight      = 480
	defaultDisplayMaxBytes    = 90000
	defaultRefreshInterval    = 900
	defaultRenderer           = RendererChromium
	defaultChromiumBinary     = "chromium"
	defaultRenderTimeout      = 60
	defaultLLMBaseURL         = "http://localhost:11434/v1/chat/completions"
	defaultLLMModel           = "gpt-oss:latest"
	defaultLLMReferer         = "https://github.com/usetrmnl"
	defaultLLMTitle           = "trmnl poems"
	defaultLLMTimeoutSeconds  = 120
	defaultLLMRetryAttempts   = 1
	defaultRestorationMemoTTL = 24 * 60
	defaultEngineKind         = EnginePoems
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
	defaultLogMaxSizeMB       = 10
	defaultLogMaxBackups      = 5
	defaultLogMaxAgeDays      = 30
)

// Renderer names accepted by render.renderer.
const (
	RendererChromium = "chromium"
	RendererBuiltin  = "builtin"
)

// Engine kinds accepted by engine.kind.
const (
	EnginePoems  = "poems"
	EngineImages = "images"
)

// DefaultAuthors is the poet allow-list used when poems.authors is unset.
var DefaultAuthors = []string{
	"William Carlos Williams",
	"Ezra Pound",
	"T. S. Eliot",
	"Elizabeth Bishop",
	"H.D.",
	"Marianne Moore",
	"Philip Larkin",
	"William Butler Yeats",
	"Wallace Stevens",
	"Dylan Thomas",
	"Ted Hughes",
	"Robert Graves",
	"D.H. Lawrence",
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	cacheDir := defaultCacheDir()
	authors := make([]string, len(DefaultAuthors))
	copy(authors, DefaultAuthors)
	return Config{
		Paths: Paths{
			CacheDir:    cacheDir,
			LogDir:      defaultLogDir,
			DatasetPath: defaultDatasetPath,
			APIBind:     defaultAPIBind,
			ServerURL:   defaultServerURL,
		},
		Poems: Poems{
			Authors:  authors,
			MinChars: defaultMinChars,
			MaxChars: defaultMaxChars,
		},
		Display: Display{
			Width:           defaultDisplayWidth,
			Height:          defaultDisplayHeight,
			MaxBytes:        defaultDisplayMaxBytes,
			RefreshInterval: defaultRefreshInterval,
		},
		Render: Render{
			Renderer:       defaultRenderer,
			ChromiumBinary: defaultChromiumBinary,
			TimeoutSeconds: defaultRenderTimeout,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			Referer:        defaultLLMReferer,
			Title:          defaultLLMTitle,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
			RetryAttempts:  defaultLLMRetryAttempts,
		},
		Restoration: Restoration{
			Enabled:        true,
			MemoTTLMinutes: defaultRestorationMemoTTL,
		},
		Engine: Engine{
			Kind: defaultEngineKind,
		},
		Logging: Logging{
			Format:     defaultLogFormat,
			Level:      defaultLogLevel,
			MaxSizeMB:  defaultLogMaxSizeMB,
			MaxBackups: defaultLogMaxBackups,
			MaxAgeDays: defaultLogMaxAgeDays,
		},
	}
}
