package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth (optional; empty disables API key checks)
	APIKey string

	// Translation engines
	Engine         string // "ollama" or "deepl"
	OllamaURL      string
	OllamaModel    string
	DeepLAPIURL    string
	DeepLAPIKey    string
	TargetLang     string // DeepL language code
	TargetLangName string // human name used in prompts

	// Worker pool
	WorkerCount            int
	MaxQueueSize           int
	MaxConcurrentTranslate int

	// Input limits
	MaxUploadBytes int64
	MaxPages       int
	FetchTimeout   time.Duration

	// Pipeline tunables
	ChunkMaxChars   int
	MinSectionChars int
	SummaryMaxChars int

	// Job state
	JobTTL time.Duration

	// Result cache
	CachePath string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("PAPERTRANS_API_KEY"),

		Engine:         envOr("TRANSLATE_ENGINE", "ollama"),
		OllamaURL:      envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:    envOr("OLLAMA_MODEL", "exaone3.5:7.8b"),
		DeepLAPIURL:    os.Getenv("DEEPL_API_URL"),
		DeepLAPIKey:    os.Getenv("DEEPL_API_KEY"),
		TargetLang:     envOr("TARGET_LANG", "KO"),
		TargetLangName: envOr("TARGET_LANG_NAME", "Korean"),

		WorkerCount:            envInt("WORKER_COUNT", 2),
		MaxQueueSize:           envInt("MAX_QUEUE_SIZE", 50),
		MaxConcurrentTranslate: envInt("MAX_CONCURRENT_TRANSLATE", 3),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB
		MaxPages:       envInt("MAX_PAGES", 20),
		FetchTimeout:   envDuration("FETCH_TIMEOUT", 60*time.Second),

		ChunkMaxChars:   envInt("CHUNK_MAX_CHARS", 5000),
		MinSectionChars: envInt("MIN_SECTION_CHARS", 50),
		SummaryMaxChars: envInt("SUMMARY_MAX_CHARS", 15000),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		CachePath: envOr("CACHE_PATH", "data/results_cache.json"),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.MaxConcurrentTranslate <= 0 {
		cfg.MaxConcurrentTranslate = 3
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = 20
	}
	if cfg.ChunkMaxChars <= 0 {
		cfg.ChunkMaxChars = 5000
	}
	if cfg.MinSectionChars < 0 {
		cfg.MinSectionChars = 50
	}
	if cfg.SummaryMaxChars <= 0 {
		cfg.SummaryMaxChars = 15000
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.Engine {
	case "ollama":
		if c.OllamaURL == "" {
			return fmt.Errorf("OLLAMA_URL is required for engine %q", c.Engine)
		}
	case "deepl":
		if c.DeepLAPIKey == "" {
			return fmt.Errorf("DEEPL_API_KEY is required for engine %q", c.Engine)
		}
	default:
		return fmt.Errorf("unknown TRANSLATE_ENGINE %q (want ollama or deepl)", c.Engine)
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

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
