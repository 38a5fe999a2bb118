package config

import (
	"fmt"
	"strings"

	"github.com/Veraticus/fintrack/internal/common"
	"github.com/spf13/viper"
)

// Viper keys.
const (
	KeyDatabasePath   = "database.path"
	KeyOwner          = "owner"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
	KeyServerPort     = "server.port"
	KeyAllowedOrigins = "server.allowed_origins"
)

// DefaultDatabasePath is where the database lives unless configured otherwise.
const DefaultDatabasePath = "$HOME/.local/share/fintrack/fintrack.db"

// Config is the resolved application configuration.
type Config struct {
	DatabasePath   string
	OwnerID        string
	LogLevel       string
	LogFormat      string
	AllowedOrigins []string
	ServerPort     int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
	v.SetDefault(KeyServerPort, 8080)
	v.SetDefault(KeyAllowedOrigins, []string{"http://localhost:3000", "http://localhost:5173"})
}

// Load resolves configuration from v (config file, FINTRACK_ env vars, bound
// flags) with paths expanded.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		DatabasePath:   ExpandPath(v.GetString(KeyDatabasePath)),
		OwnerID:        strings.TrimSpace(v.GetString(KeyOwner)),
		LogLevel:       v.GetString(KeyLogLevel),
		LogFormat:      v.GetString(KeyLogFormat),
		ServerPort:     v.GetInt(KeyServerPort),
		AllowedOrigins: v.GetStringSlice(KeyAllowedOrigins),
	}

	if cfg.DatabasePath == "" {
		cfg.DatabasePath = ExpandPath(DefaultDatabasePath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail later and less clearly.
func (c *Config) Validate() error {
	if c.ServerPort < 0 || c.ServerPort > 65535 {
		return fmt.Errorf("%w: server port %d out of range", common.ErrInvalidConfig, c.ServerPort)
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("%w: log format %q", common.ErrInvalidConfig, c.LogFormat)
	}
	return nil
}

// RequireOwner returns the configured owner or an error telling the user how to set one.
func (c *Config) RequireOwner() (string, error) {
	if c.OwnerID == "" {
		return "", fmt.Errorf("%w: set --owner, FINTRACK_OWNER, or owner in the config file", common.ErrMissingConfig)
	}
	return c.OwnerID, nil
}
