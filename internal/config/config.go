package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/jstrick/ritual/internal/constants"
)

// Backend names accepted by Config.Backend. An empty backend is inferred
// from the path: postgres:// connection strings select postgres, anything
// else selects sqlite.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	// Path is the SQLite file path or a PostgreSQL connection string.
	Path    string `yaml:"path" env:"RITUAL_DB" env-default:"~/.config/ritual/ritual.db"`
	Backend string `yaml:"backend" env:"RITUAL_BACKEND" env-default:""`
	// User overrides the keyring-resolved identity scoping the store namespace.
	User  string `yaml:"user" env:"RITUAL_USER" env-default:""`
	Debug bool   `yaml:"debug" env:"RITUAL_DEBUG" env-default:"false"`
}

// Load reads configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults. The file path comes from RITUAL_CONFIG;
// when unset, a missing default file is not an error and configuration is
// loaded from ENV + defaults only.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("RITUAL_CONFIG")
	explicitPath := path != ""
	if !explicitPath {
		path = filepath.Join(defaultConfigDir(), "config.yaml")
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicitPath {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	cfg.Path = ExpandPath(cfg.Path)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Backend {
	case "", BackendSQLite, BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Path == "" && c.Backend != BackendMemory {
		return fmt.Errorf("path must not be empty")
	}
	return nil
}

// ResolveBackend returns the effective backend for this configuration.
func (c *Config) ResolveBackend() string {
	if c.Backend != "" {
		return c.Backend
	}
	if strings.HasPrefix(c.Path, "postgres://") || strings.HasPrefix(c.Path, "postgresql://") {
		return BackendPostgres
	}
	return BackendSQLite
}

// DataDir returns the directory holding the database file and logs.
func (c *Config) DataDir() string {
	if c.ResolveBackend() == BackendSQLite {
		return filepath.Dir(c.Path)
	}
	return defaultConfigDir()
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", constants.AppName)
}
