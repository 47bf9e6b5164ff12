// Package config loads mustermeister settings from a YAML file and
// MUSTERMEISTER_* environment variables.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete application configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	User     UserConfig     `mapstructure:"user"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
}

type DatabaseConfig struct {
	// Path of the SQLite file. Empty means the XDG data directory.
	Path string `mapstructure:"path"`
}

type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"` // requests per second per client
	Burst     int     `mapstructure:"burst"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// UserConfig is the identity the CLI and TUI act as
type UserConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

type ArchiveConfig struct {
	// MaxAge is how long completed tasks stay before bulk archiving
	// picks them up
	MaxAge time.Duration `mapstructure:"max_age"`
}

// EnvPrefix is prepended to environment overrides, e.g.
// MUSTERMEISTER_SERVER_ADDR
const EnvPrefix = "MUSTERMEISTER"

func setDefaults(v *viper.Viper) {
	user := os.Getenv("USER")
	if user == "" {
		user = "me"
	}

	v.SetDefault("database.path", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.burst", 20)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("user.name", user)
	v.SetDefault("user.email", user+"@localhost")
	v.SetDefault("archive.max_age", 4380*time.Hour)
}

// Default returns the configuration used when nothing is set
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	cfg := &Config{}
	_ = v.Unmarshal(cfg)
	return cfg
}

// Load reads the configuration. An explicit path must exist; without one
// the file at DefaultPath is used when present. Environment variables
// override both.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path == "" {
		if p, err := DefaultPath(); err == nil {
			if _, err := os.Stat(p); err == nil {
				path = p
			}
		}
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with
func (c *Config) Validate() error {
	var errs []error
	if c.Server.RateLimit <= 0 {
		errs = append(errs, errors.New("server.rate_limit must be positive"))
	}
	if c.Server.Burst <= 0 {
		errs = append(errs, errors.New("server.burst must be positive"))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, errors.New("log.format must be text or json"))
	}
	if c.Archive.MaxAge <= 0 {
		errs = append(errs, errors.New("archive.max_age must be positive"))
	}
	if strings.TrimSpace(c.User.Email) == "" {
		errs = append(errs, errors.New("user.email is required"))
	}
	return errors.Join(errs...)
}

// DefaultPath returns the config file location under the XDG config
// directory
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mustermeister", "config.yaml"), nil
}
