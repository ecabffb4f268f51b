// Package config provides layered configuration for the Casetrail service.
// Values resolve from a base config.toml, an optional environment overlay,
// and CASETRAIL_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/casetrail/casetrail/internal/ocr"
	"github.com/casetrail/casetrail/pkg/database"
	"github.com/casetrail/casetrail/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvCasetrailEnv             = "CASETRAIL_ENV"
	EnvCasetrailShutdownTimeout = "CASETRAIL_SHUTDOWN_TIMEOUT"
	EnvCasetrailVersion         = "CASETRAIL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "CASETRAIL_DB_HOST",
	Port:            "CASETRAIL_DB_PORT",
	Name:            "CASETRAIL_DB_NAME",
	User:            "CASETRAIL_DB_USER",
	Password:        "CASETRAIL_DB_PASSWORD",
	SSLMode:         "CASETRAIL_DB_SSL_MODE",
	MaxOpenConns:    "CASETRAIL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "CASETRAIL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "CASETRAIL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "CASETRAIL_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "CASETRAIL_STORAGE_CONTAINER_NAME",
	ConnectionString: "CASETRAIL_STORAGE_CONNECTION_STRING",
	AccountURL:       "CASETRAIL_STORAGE_ACCOUNT_URL",
}

var ocrEnv = &ocr.Env{
	Endpoint:     "CASETRAIL_OCR_ENDPOINT",
	Key:          "CASETRAIL_OCR_KEY",
	APIVersion:   "CASETRAIL_OCR_API_VERSION",
	ModelID:      "CASETRAIL_OCR_MODEL_ID",
	PollInterval: "CASETRAIL_OCR_POLL_INTERVAL",
	Workers:      "CASETRAIL_OCR_WORKERS",
}

// Config is the root configuration for the Casetrail service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	OCR             ocr.Config      `toml:"ocr"`
	LLM             LLMConfig       `toml:"llm"`
	API             APIConfig       `toml:"api"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env returns the CASETRAIL_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvCasetrailEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads the base config if present, applies any environment overlay,
// and finalizes every section. With no config.toml, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := readTOML(cfg, BaseConfigFile); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	if path := overlayPath(); path != "" {
		overlay := &Config{}
		if err := readTOML(overlay, path); err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sections.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)

	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.OCR.Merge(&overlay.OCR)
	c.LLM.Merge(&overlay.LLM)
	c.API.Merge(&overlay.API)
}

func (c *Config) finalize() error {
	defaultString(&c.ShutdownTimeout, "30s")
	defaultString(&c.Version, "0.1.0")
	envString(EnvCasetrailShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvCasetrailVersion, &c.Version)

	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"ocr", func() error { return c.OCR.Finalize(ocrEnv) }},
		{"llm", c.LLM.Finalize},
		{"api", c.API.Finalize},
	}
	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func readTOML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func overlayPath() string {
	env := os.Getenv(EnvCasetrailEnv)
	if env == "" {
		return ""
	}

	path := fmt.Sprintf(OverlayConfigPattern, env)
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}
