package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is loaded once at startup and passed explicitly to every component.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiAPIURL string `mapstructure:"GEMINI_API_URL"`

	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	FreeMessageLimit      int64         `mapstructure:"FREE_MESSAGE_LIMIT"`
	ProviderTimeout       time.Duration `mapstructure:"PROVIDER_TIMEOUT"`
	RequestTimeout        time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	MaxHistoryTurns       int           `mapstructure:"MAX_HISTORY_TURNS"`
	ImageFetchConcurrency int           `mapstructure:"IMAGE_FETCH_CONCURRENCY"`
	MaxImageBytes         int64         `mapstructure:"MAX_IMAGE_BYTES"`

	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"` // Empty disables the image cache
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	ImageCacheTTL time.Duration `mapstructure:"IMAGE_CACHE_TTL"`

	VerifyLoginPassword bool   `mapstructure:"VERIFY_LOGIN_PASSWORD"`
	FirebaseWebAPIKey   string `mapstructure:"FIREBASE_WEB_API_KEY"`
	IdentityToolkitURL  string `mapstructure:"IDENTITY_TOOLKIT_URL"`
}

var defaults = map[string]interface{}{
	"PORT":                    "8080",
	"GIN_MODE":                "debug",
	"ALLOWED_ORIGINS":         "https://a1dos-creations.com,http://localhost:5173",
	"FREE_MESSAGE_LIMIT":      5,
	"PROVIDER_TIMEOUT":        "55s",
	"REQUEST_TIMEOUT":         "60s",
	"MAX_HISTORY_TURNS":       50,
	"IMAGE_FETCH_CONCURRENCY": 4,
	"MAX_IMAGE_BYTES":         10 << 20,
	"REDIS_DB":                0,
	"IMAGE_CACHE_TTL":         "1h",
	"VERIFY_LOGIN_PASSWORD":   false,
	"IDENTITY_TOOLKIT_URL":    "https://identitytoolkit.googleapis.com/v1",
}

var envKeys = []string{
	"PORT",
	"GIN_MODE",
	"FIREBASE_PROJECT_ID",
	"GOOGLE_APPLICATION_CREDENTIALS",
	"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"GEMINI_API_KEY",
	"GEMINI_API_URL",
	"ALLOWED_ORIGINS",
	"FREE_MESSAGE_LIMIT",
	"PROVIDER_TIMEOUT",
	"REQUEST_TIMEOUT",
	"MAX_HISTORY_TURNS",
	"IMAGE_FETCH_CONCURRENCY",
	"MAX_IMAGE_BYTES",
	"REDIS_ADDRESS",
	"REDIS_PASSWORD",
	"REDIS_DB",
	"IMAGE_CACHE_TTL",
	"VERIFY_LOGIN_PASSWORD",
	"FIREBASE_WEB_API_KEY",
	"IDENTITY_TOOLKIT_URL",
}

// LoadConfig loads configuration from environment variables using Viper
// and validates it. Any error here is fatal for the process.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.New("failed to unmarshal config: " + err.Error())
	}
	cfg.AllowedOrigins = normalizeOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks required fields and cross-field constraints.
func (c *Config) Validate() error {
	if c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required")
	}
	if c.GeminiAPIKey == "" {
		return errors.New("GEMINI_API_KEY is required")
	}
	if c.GeminiAPIURL == "" {
		return errors.New("GEMINI_API_URL is required")
	}
	if len(c.AllowedOrigins) == 0 {
		return errors.New("ALLOWED_ORIGINS must list at least one origin")
	}
	if c.FreeMessageLimit < 0 {
		return errors.New("FREE_MESSAGE_LIMIT cannot be negative")
	}
	if c.ProviderTimeout <= 0 || c.RequestTimeout <= 0 {
		return errors.New("PROVIDER_TIMEOUT and REQUEST_TIMEOUT must be positive")
	}
	if c.ProviderTimeout >= c.RequestTimeout {
		return fmt.Errorf("PROVIDER_TIMEOUT (%s) must be shorter than REQUEST_TIMEOUT (%s)", c.ProviderTimeout, c.RequestTimeout)
	}
	if c.MaxHistoryTurns <= 0 {
		return errors.New("MAX_HISTORY_TURNS must be positive")
	}
	if c.ImageFetchConcurrency <= 0 {
		return errors.New("IMAGE_FETCH_CONCURRENCY must be positive")
	}
	if c.MaxImageBytes <= 0 {
		return errors.New("MAX_IMAGE_BYTES must be positive")
	}
	if c.VerifyLoginPassword && c.FirebaseWebAPIKey == "" {
		return errors.New("FIREBASE_WEB_API_KEY is required when VERIFY_LOGIN_PASSWORD is enabled")
	}
	return nil
}

// IsRelease reports whether gin should run in release mode.
func (c *Config) IsRelease() bool {
	return strings.EqualFold(c.GinMode, "release")
}

func normalizeOrigins(in []string) []string {
	var out []string
	for _, raw := range in {
		for _, origin := range strings.Split(raw, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				out = append(out, origin)
			}
		}
	}
	return out
}
