// Package config loads runtime configuration from the environment, an
// optional .env file and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/teemow/audioinsight/internal/analysis"
	"github.com/teemow/audioinsight/internal/logging"
	"github.com/teemow/audioinsight/internal/settings"
)

// ErrAPIKeyMissing is returned when no credential is available for the
// selected provider.
var ErrAPIKeyMissing = errors.New("API key is not configured")

// ErrClientIDMissing is returned when no Google OAuth client ID is available.
var ErrClientIDMissing = errors.New("Google client ID is not configured")

type Config struct {
	Provider      string `env:"AUDIOINSIGHT_PROVIDER"`
	Model         string `env:"AUDIOINSIGHT_MODEL"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`

	// Timeout bounds one analysis request; zero means no limit.
	Timeout time.Duration `env:"AUDIOINSIGHT_TIMEOUT" envDefault:"0s"`

	SettingsFile string `env:"AUDIOINSIGHT_SETTINGS_FILE"`

	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	OAuthPort          int           `env:"AUDIOINSIGHT_OAUTH_PORT" envDefault:"0"`
	OAuthTimeout       time.Duration `env:"AUDIOINSIGHT_OAUTH_TIMEOUT" envDefault:"5m"`
	DriveEndpoint      string        `env:"DRIVE_ENDPOINT"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// Overrides holds CLI flag values that take priority over env vars.
type Overrides struct {
	EnvFile      string
	Provider     string
	Model        string
	SettingsFile string
	LogLevel     string
	LogFormat    string
	Timeout      time.Duration
}

// Load reads configuration from .env file, environment variables, and CLI overrides.
// Priority: CLI flags > environment variables > .env file > struct defaults.
func Load(overrides Overrides) (*Config, error) {
	envFile := overrides.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if overrides.Provider != "" {
		cfg.Provider = overrides.Provider
	}
	if overrides.Model != "" {
		cfg.Model = overrides.Model
	}
	if overrides.SettingsFile != "" {
		cfg.SettingsFile = overrides.SettingsFile
	}
	if overrides.LogLevel != "" {
		cfg.LogLevel = overrides.LogLevel
	}
	if overrides.LogFormat != "" {
		cfg.LogFormat = overrides.LogFormat
	}
	if overrides.Timeout > 0 {
		cfg.Timeout = overrides.Timeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that env parsing cannot.
func (c *Config) Validate() error {
	if c.Provider != "" {
		if err := validateProvider(c.Provider); err != nil {
			return err
		}
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.OAuthPort < 0 || c.OAuthPort > 65535 {
		return fmt.Errorf("invalid OAuth port %d", c.OAuthPort)
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative, got %s", c.Timeout)
	}
	return nil
}

func validateProvider(p string) error {
	switch p {
	case analysis.ProviderGemini, analysis.ProviderOpenAI:
		return nil
	default:
		return fmt.Errorf("unknown AI provider %q, must be one of: %s, %s", p, analysis.ProviderGemini, analysis.ProviderOpenAI)
	}
}

// SettingsPath returns the configured settings file or the per-user default.
func (c *Config) SettingsPath() (string, error) {
	if c.SettingsFile != "" {
		return c.SettingsFile, nil
	}
	return settings.DefaultPath()
}

// ResolveProvider returns the provider from configuration, then the stored
// preference, then gemini.
func (c *Config) ResolveProvider(store settings.Store) (string, error) {
	if c.Provider != "" {
		return c.Provider, nil
	}
	if p, ok := store.Get(settings.KeyAIProvider); ok {
		p = strings.TrimSpace(p)
		return p, validateProvider(p)
	}
	return analysis.ProviderGemini, nil
}

// APIKey returns the credential for provider. Environment values win over the
// stored key; the stored key is the one entered for Gemini.
func (c *Config) APIKey(provider string, store settings.Store) (string, error) {
	switch provider {
	case analysis.ProviderOpenAI:
		if c.OpenAIAPIKey != "" {
			return c.OpenAIAPIKey, nil
		}
		return "", fmt.Errorf("%w: set OPENAI_API_KEY", ErrAPIKeyMissing)
	default:
		if c.GeminiAPIKey != "" {
			return c.GeminiAPIKey, nil
		}
		if k, ok := store.Get(settings.KeyGeminiAPIKey); ok {
			return k, nil
		}
		return "", fmt.Errorf("%w: run 'audioinsight config set-key' or set GEMINI_API_KEY", ErrAPIKeyMissing)
	}
}

// OAuthClient returns the Google OAuth client ID and secret, preferring the
// environment over stored values.
func (c *Config) OAuthClient(store settings.Store) (id, secret string, err error) {
	id = c.GoogleClientID
	if id == "" {
		id, _ = store.Get(settings.KeyGoogleClientID)
	}
	if id == "" {
		return "", "", fmt.Errorf("%w: run 'audioinsight config set-client' or set GOOGLE_CLIENT_ID", ErrClientIDMissing)
	}

	secret = c.GoogleClientSecret
	if secret == "" {
		secret, _ = store.Get(settings.KeyGoogleClientSecret)
	}
	return id, secret, nil
}

// Generator builds the AI backend for provider.
func (c *Config) Generator(provider string) (analysis.Generator, error) {
	switch provider {
	case analysis.ProviderGemini:
		var opts []analysis.GeminiOption
		if c.GeminiBaseURL != "" {
			opts = append(opts, analysis.WithGeminiBaseURL(c.GeminiBaseURL))
		}
		return analysis.NewGeminiGenerator(c.Model, opts...), nil
	case analysis.ProviderOpenAI:
		var opts []analysis.OpenAIOption
		if c.OpenAIBaseURL != "" {
			opts = append(opts, analysis.WithOpenAIBaseURL(c.OpenAIBaseURL))
		}
		return analysis.NewOpenAIGenerator(c.Model, opts...), nil
	default:
		return nil, validateProvider(provider)
	}
}
