// Package config handles configuration loading and database setup.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultHTTPAddr   = ":8080"
	DefaultDriver     = "mysql"
	DefaultAPIBaseURL = "http://localhost:8080"
	DefaultLogLevel   = "info"
)

// Config holds the full configuration for taskboard.
type Config struct {
	// HTTPAddr is the listen address in serve mode.
	HTTPAddr string `toml:"http_addr"`

	// Driver selects the database driver: mysql or sqlite.
	Driver string `toml:"driver"`

	// DSN is the database connection string. When empty and the driver is
	// mysql, it is assembled from the MYSQL_* environment variables.
	DSN string `toml:"dsn"`

	// APIBaseURL is the server origin the board client talks to.
	APIBaseURL string `toml:"api_base_url"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`
}

// Load reads configuration from an optional TOML file, then applies
// environment overrides and defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	applyEnv(cfg)
	applyDefaults(cfg)

	switch cfg.Driver {
	case "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unknown driver %q (want mysql or sqlite)", cfg.Driver)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TASKBOARD_HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("TASKBOARD_DRIVER"); v != "" {
		cfg.Driver = v
	}
	if v := os.Getenv("TASKBOARD_DSN"); v != "" {
		cfg.DSN = v
	}
	if v := os.Getenv("TASKBOARD_API_URL"); v != "" {
		cfg.APIBaseURL = v
	}
	if v := os.Getenv("TASKBOARD_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = DefaultHTTPAddr
	}
	if cfg.Driver == "" {
		cfg.Driver = DefaultDriver
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultAPIBaseURL
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.DSN == "" && cfg.Driver == "mysql" {
		cfg.DSN = mysqlDSNFromEnv()
	}
}

// mysqlDSNFromEnv assembles a MySQL DSN from the environment, with defaults
// that work against a local development database.
func mysqlDSNFromEnv() string {
	user := envOr("MYSQL_USER", "todo")
	pass := envOr("MYSQL_PASSWORD", "todo")
	host := envOr("MYSQL_HOST", "127.0.0.1")
	port := envOr("MYSQL_PORT", "3306")
	name := envOr("MYSQL_DATABASE", "todo_db")
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4", user, pass, host, port, name)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
