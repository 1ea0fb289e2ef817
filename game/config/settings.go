package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings holds process-level options read from the environment. CLI flags
// use these values as their defaults.
type Settings struct {
	Host            string        `env:"GAME2048_HOST"             envDefault:"localhost"`
	Port            int           `env:"GAME2048_PORT"             envDefault:"8080"`
	ConfigDir       string        `env:"CONFIG_DIR"                envDefault:"configs"`
	SessionTTL      time.Duration `env:"GAME2048_SESSION_TTL"      envDefault:"24h"`
	CleanupInterval time.Duration `env:"GAME2048_CLEANUP_INTERVAL" envDefault:"1h"`
	Debug           bool          `env:"GAME2048_DEBUG"`

	// DefaultPreset names the preset used when a session asks for none.
	// Empty keeps classic, or the first valid preset.
	DefaultPreset string `env:"GAME2048_DEFAULT_PRESET"`

	// AllowedOrigins limits WebSocket upgrades by Origin header; empty allows any
	AllowedOrigins []string `env:"GAME2048_ALLOWED_ORIGINS" envSeparator:","`

	NgrokEnabled   bool   `env:"NGROK_ENABLED"`
	NgrokAuthToken string `env:"NGROK_AUTHTOKEN"`
	NgrokDomain    string `env:"NGROK_DOMAIN"`
}

// DefaultSettings returns the settings used when nothing is set
func DefaultSettings() Settings {
	return Settings{
		Host:            "localhost",
		Port:            8080,
		ConfigDir:       "configs",
		SessionTTL:      24 * time.Hour,
		CleanupInterval: time.Hour,
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadSettingsFromEnv reads Settings from the environment
func LoadSettingsFromEnv() (Settings, error) {
	var s Settings
	if err := ParseEnv(&s); err != nil {
		return DefaultSettings(), err
	}
	if s.SessionTTL <= 0 {
		return s, fmt.Errorf("parse env: GAME2048_SESSION_TTL must be positive, got %s", s.SessionTTL)
	}
	if s.CleanupInterval <= 0 {
		return s, fmt.Errorf("parse env: GAME2048_CLEANUP_INTERVAL must be positive, got %s", s.CleanupInterval)
	}
	return s, nil
}

// Addr returns host:port for the HTTP listener
func (s Settings) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}
