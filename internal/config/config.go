package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"golang.org/x/text/language"
)

type Config struct {
	Port string

	// Auth
	DoctransAPIKey string

	// Languages
	SourceLang string
	TargetLang string

	// Translation backend
	TranslateBackend    string
	TranslateWorkers    int
	TranslateMaxRetries int
	TranslateTimeout    time.Duration
	TranslateMaxChars   int
	GoogleTranslateURL  string

	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	OpenAIAPIKey  string
	OpenAIModel   string
	OpenAIBaseURL string

	GeminiAPIKey string
	GeminiModel  string

	// Translation cache
	CacheBackend string
	CachePath    string
	RedisURL     string
	RedisPrefix  string
	CacheTTL     time.Duration

	// Job pool
	JobWorkers   int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// Files
	InputDir         string
	OutputDir        string
	ImageWidthInches float64

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DoctransAPIKey: os.Getenv("DOCTRANS_API_KEY"),

		SourceLang: envOr("SOURCE_LANG", "en"),
		TargetLang: envOr("TARGET_LANG", "ja"),

		TranslateBackend:    envOr("TRANSLATE_BACKEND", "google"),
		TranslateWorkers:    envInt("TRANSLATE_WORKERS", 4),
		TranslateMaxRetries: envInt("TRANSLATE_MAX_RETRIES", 3),
		TranslateTimeout:    envDuration("TRANSLATE_TIMEOUT", 60*time.Second),
		TranslateMaxChars:   envInt("TRANSLATE_MAX_CHARS", 4500),
		GoogleTranslateURL:  os.Getenv("GOOGLE_TRANSLATE_URL"),

		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.0-flash"),

		CacheBackend: envOr("CACHE_BACKEND", "none"),
		CachePath:    envOr("CACHE_PATH", "./cache/translations.json"),
		RedisURL:     os.Getenv("REDIS_URL"),
		RedisPrefix:  envOr("REDIS_PREFIX", "doctrans:tr:"),
		CacheTTL:     envDuration("CACHE_TTL", 0),

		JobWorkers:   envInt("JOB_WORKERS", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 50),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		InputDir:         envOr("INPUT_DIR", "./in"),
		OutputDir:        envOr("OUTPUT_DIR", "./out"),
		ImageWidthInches: envFloat("OUTPUT_IMAGE_WIDTH_INCHES", 6),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", false),
	}

	if cfg.TranslateWorkers <= 0 {
		cfg.TranslateWorkers = 4
	}
	if cfg.TranslateMaxRetries < 0 {
		cfg.TranslateMaxRetries = 3
	}
	if cfg.TranslateTimeout <= 0 {
		cfg.TranslateTimeout = 60 * time.Second
	}
	if cfg.JobWorkers <= 0 {
		cfg.JobWorkers = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.ImageWidthInches <= 0 {
		cfg.ImageWidthInches = 6
	}

	return cfg
}

// Validate checks the settings shared by the server and the CLI.
func (c Config) Validate() error {
	if _, err := language.Parse(c.SourceLang); err != nil {
		return fmt.Errorf("SOURCE_LANG %q: %w", c.SourceLang, err)
	}
	if _, err := language.Parse(c.TargetLang); err != nil {
		return fmt.Errorf("TARGET_LANG %q: %w", c.TargetLang, err)
	}
	switch c.TranslateBackend {
	case "google":
	case "claude":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for the claude backend")
		}
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for the openai backend")
		}
	case "gemini":
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
	default:
		return fmt.Errorf("unknown TRANSLATE_BACKEND %q", c.TranslateBackend)
	}
	switch c.CacheBackend {
	case "", "none", "memory":
	case "file":
		if c.CachePath == "" {
			return fmt.Errorf("CACHE_PATH is required for the file cache")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("REDIS_URL is required for the redis cache")
		}
	default:
		return fmt.Errorf("unknown CACHE_BACKEND %q", c.CacheBackend)
	}
	return nil
}

// ValidateServer additionally requires the API key the HTTP service
// authenticates with.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DoctransAPIKey == "" {
		return fmt.Errorf("DOCTRANS_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
