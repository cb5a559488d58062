// Package config reads flightdesk settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

const (
	DefaultBackendURL  = "http://localhost:8080"
	DefaultLogLevel    = "info"
	DefaultMinLoading  = 1500 * time.Millisecond
	DefaultHTTPTimeout = 15 * time.Second
	DefaultStubPort    = "8080"
)

// Config holds client settings. CLI flags override the fields after Load.
type Config struct {
	BackendURL  string
	DBPath      string
	LogLevel    string
	MinLoading  time.Duration
	HTTPTimeout time.Duration
}

// StubConfig holds settings for the development backend.
type StubConfig struct {
	Port     string
	Secret   string
	LogLevel string
}

// Load reads the client configuration from the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom reads the client configuration through getenv.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Config{
		BackendURL: envOr(getenv, "FLIGHTDESK_BACKEND_URL", DefaultBackendURL),
		DBPath:     getenv("FLIGHTDESK_DB_PATH"),
		LogLevel:   envOr(getenv, "FLIGHTDESK_LOG_LEVEL", DefaultLogLevel),
	}
	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath(getenv)
	}

	var err error
	if cfg.MinLoading, err = duration(getenv, "FLIGHTDESK_MIN_LOADING", DefaultMinLoading); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = duration(getenv, "FLIGHTDESK_HTTP_TIMEOUT", DefaultHTTPTimeout); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadStub reads the development backend configuration.
func LoadStub(getenv func(string) string) StubConfig {
	return StubConfig{
		Port:     envOr(getenv, "STUBAPI_PORT", DefaultStubPort),
		Secret:   getenv("STUBAPI_SECRET"),
		LogLevel: envOr(getenv, "STUBAPI_LOG_LEVEL", DefaultLogLevel),
	}
}

func envOr(getenv func(string) string, key, fallback string) string {
	if v := getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(getenv func(string) string, key string, fallback time.Duration) (time.Duration, error) {
	raw := getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 1500ms: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}

// defaultDBPath follows the XDG base directory layout, falling back to
// ~/.local/share and finally the working directory.
func defaultDBPath(getenv func(string) string) string {
	dir := getenv("XDG_DATA_HOME")
	if dir == "" {
		if home := getenv("HOME"); home != "" {
			dir = filepath.Join(home, ".local", "share")
		}
	}
	if dir == "" {
		return "flightdesk.db"
	}
	return filepath.Join(dir, "flightdesk", "flightdesk.db")
}
