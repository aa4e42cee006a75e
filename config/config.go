// Package config provides centralized configuration for the sqlitedesk server.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration values.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Pagination PaginationConfig `yaml:"pagination"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Host            string   `yaml:"host"`             // listen address, empty binds all interfaces
	Port            int      `yaml:"port"`             // HTTP server port
	RequestTimeout  int      `yaml:"request_timeout"`  // per-request timeout in seconds
	ShutdownTimeout int      `yaml:"shutdown_timeout"` // graceful shutdown drain in seconds
	MaxRequestBody  int64    `yaml:"max_request_body"` // maximum request body size in bytes
	MaxUploadBody   int64    `yaml:"max_upload_body"`  // maximum database upload size in bytes
	CORSOrigins     []string `yaml:"cors_origins"`     // allowed CORS origins (empty allows none, "*" allows all)
}

// StorageConfig controls where database files live.
type StorageConfig struct {
	DataDir string `yaml:"data_dir"` // directory holding one file per logical database
}

// PaginationConfig bounds page sizes for table browsing.
type PaginationConfig struct {
	DefaultLimit int `yaml:"default_limit"` // rows per page when the caller names none
	MaxLimit     int `yaml:"max_limit"`     // hard ceiling on rows per page
}

// LoggingConfig controls the structured logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json or text
}

// Default returns the configuration used when no file or environment
// overrides are present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "",
			Port:            8080,
			RequestTimeout:  30,
			ShutdownTimeout: 10,
			MaxRequestBody:  1 << 20,   // 1MB
			MaxUploadBody:   512 << 20, // 512MB
		},
		Storage: StorageConfig{
			DataDir: "deskdata",
		},
		Pagination: PaginationConfig{
			DefaultLimit: 100,
			MaxLimit:     1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (when non-empty), then SQLITEDESK_* environment overrides, then
// validation.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Addr returns the host:port pair the server listens on.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) applyEnvOverrides() {
	if val := os.Getenv("SQLITEDESK_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SQLITEDESK_PORT"); val != "" {
		if p, err := strconv.Atoi(val); err == nil {
			c.Server.Port = p
		}
	}
	if val := os.Getenv("SQLITEDESK_REQUEST_TIMEOUT"); val != "" {
		if t, err := strconv.Atoi(val); err == nil && t > 0 {
			c.Server.RequestTimeout = t
		}
	}
	if val := os.Getenv("SQLITEDESK_CORS_ORIGINS"); val != "" {
		origins := strings.Split(val, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		c.Server.CORSOrigins = origins
	}
	if val := os.Getenv("SQLITEDESK_DATA_DIR"); val != "" {
		c.Storage.DataDir = val
	}
	if val := os.Getenv("SQLITEDESK_DEFAULT_LIMIT"); val != "" {
		if l, err := strconv.Atoi(val); err == nil && l > 0 {
			c.Pagination.DefaultLimit = l
		}
	}
	if val := os.Getenv("SQLITEDESK_MAX_LIMIT"); val != "" {
		if l, err := strconv.Atoi(val); err == nil && l > 0 {
			c.Pagination.MaxLimit = l
		}
	}
	if val := os.Getenv("SQLITEDESK_LOG_LEVEL"); val != "" {
		c.Logging.Level = val
	}
	if val := os.Getenv("SQLITEDESK_LOG_FORMAT"); val != "" {
		c.Logging.Format = val
	}
}

// Validate rejects configurations the server cannot run with.
func (c Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Server.RequestTimeout < 1 {
		return fmt.Errorf("request timeout must be positive, got %d", c.Server.RequestTimeout)
	}
	if c.Server.MaxRequestBody < 1 {
		return fmt.Errorf("max request body must be positive, got %d", c.Server.MaxRequestBody)
	}
	if c.Server.MaxUploadBody < 1 {
		return fmt.Errorf("max upload body must be positive, got %d", c.Server.MaxUploadBody)
	}
	if c.Storage.DataDir == "" {
		return fmt.Errorf("storage data_dir must not be empty")
	}
	if c.Pagination.DefaultLimit < 1 {
		return fmt.Errorf("default page limit must be positive, got %d", c.Pagination.DefaultLimit)
	}
	if c.Pagination.MaxLimit < c.Pagination.DefaultLimit {
		return fmt.Errorf("max page limit %d below default %d", c.Pagination.MaxLimit, c.Pagination.DefaultLimit)
	}
	return nil
}
