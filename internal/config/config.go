package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"model-studio/internal/directive"
)

type Config struct {
	TelegramToken string
	GeminiAPIKey  string

	Strictness directive.Strictness
	WebAddr    string

	LogLevel string
	Debug    bool

	PreferIPv4 bool

	MaxConcurrent  int
	RequestTimeout time.Duration
	HTTPTimeout    time.Duration

	GeminiBaseURL     string
	GeminiAPIVersion  string
	GeminiImageModel  string
	GeminiAspectRatio string

	GenerationMaxAttempts  int
	GenerationRetryBackoff time.Duration

	MediaGroupDebounce time.Duration
	MaxUploadBytes     int64
	SessionTTL         time.Duration
}

// Load reads the environment. Only GEMINI_API_KEY is mandatory here; the bot
// also calls RequireTelegram.
func Load() (Config, error) {
	cfg := Config{
		Strictness:             directive.StrictnessFromBool(getEnvBool("HARD_STRICT_MODE", false)),
		WebAddr:                webAddr(),
		LogLevel:               strings.ToLower(strings.TrimSpace(getEnv("LOG_LEVEL", "info"))),
		Debug:                  getEnvBool("DEBUG", false),
		PreferIPv4:             getEnvBool("PREFER_IPV4", true),
		MaxConcurrent:          getEnvInt("MAX_CONCURRENT", 4),
		RequestTimeout:         time.Duration(getEnvInt("REQUEST_TIMEOUT_SECONDS", 180)) * time.Second,
		HTTPTimeout:            time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 180)) * time.Second,
		GeminiBaseURL:          strings.TrimSpace(getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")),
		GeminiAPIVersion:       strings.TrimSpace(getEnv("GEMINI_API_VERSION", "v1beta")),
		GeminiImageModel:       getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		GeminiAspectRatio:      getEnv("GEMINI_ASPECT_RATIO", "3:4"),
		GenerationMaxAttempts:  getEnvInt("GENERATION_MAX_ATTEMPTS", 2),
		GenerationRetryBackoff: time.Duration(getEnvInt("GENERATION_RETRY_BACKOFF_MS", 500)) * time.Millisecond,
		MediaGroupDebounce:     time.Duration(getEnvInt("MEDIA_GROUP_DEBOUNCE_MS", 1200)) * time.Millisecond,
		MaxUploadBytes:         int64(getEnvInt("MAX_UPLOAD_MB", 20)) << 20,
		SessionTTL:             time.Duration(getEnvInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
	}

	cfg.TelegramToken = strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))

	if cfg.GeminiAPIKey == "" {
		return Config{}, errors.New("GEMINI_API_KEY is required")
	}

	if cfg.MaxConcurrent < 1 {
		cfg.MaxConcurrent = 1
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 180 * time.Second
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = 180 * time.Second
	}
	if cfg.GenerationMaxAttempts < 1 {
		cfg.GenerationMaxAttempts = 1
	}
	if cfg.GenerationRetryBackoff < 0 {
		cfg.GenerationRetryBackoff = 0
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 20 << 20
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 12 * time.Hour
	}

	return cfg, nil
}

func (c Config) RequireTelegram() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	return nil
}

func webAddr() string {
	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		return ":" + strings.TrimPrefix(port, ":")
	}
	return getEnv("WEB_ADDR", ":8080")
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
