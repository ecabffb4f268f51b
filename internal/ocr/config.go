package ocr

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds Document Intelligence connection and fan-out parameters.
type Config struct {
	Endpoint     string `toml:"endpoint"`
	Key          string `toml:"key"`
	APIVersion   string `toml:"api_version"`
	ModelID      string `toml:"model_id"`
	PollInterval string `toml:"poll_interval"`
	Workers      int    `toml:"workers"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoint     string
	Key          string
	APIVersion   string
	ModelID      string
	PollInterval string
	Workers      string
}

// PollIntervalDuration returns PollInterval as a time.Duration.
func (c *Config) PollIntervalDuration() time.Duration {
	d, _ := time.ParseDuration(c.PollInterval)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Endpoint != "" {
		c.Endpoint = overlay.Endpoint
	}
	if overlay.Key != "" {
		c.Key = overlay.Key
	}
	if overlay.APIVersion != "" {
		c.APIVersion = overlay.APIVersion
	}
	if overlay.ModelID != "" {
		c.ModelID = overlay.ModelID
	}
	if overlay.PollInterval != "" {
		c.PollInterval = overlay.PollInterval
	}
	if overlay.Workers != 0 {
		c.Workers = overlay.Workers
	}
}

func (c *Config) loadDefaults() {
	if c.APIVersion == "" {
		c.APIVersion = "2024-11-30"
	}
	if c.ModelID == "" {
		c.ModelID = "prebuilt-layout"
	}
	if c.PollInterval == "" {
		c.PollInterval = "2s"
	}
	if c.Workers == 0 {
		c.Workers = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Endpoint != "" {
		if v := os.Getenv(env.Endpoint); v != "" {
			c.Endpoint = v
		}
	}
	if env.Key != "" {
		if v := os.Getenv(env.Key); v != "" {
			c.Key = v
		}
	}
	if env.APIVersion != "" {
		if v := os.Getenv(env.APIVersion); v != "" {
			c.APIVersion = v
		}
	}
	if env.ModelID != "" {
		if v := os.Getenv(env.ModelID); v != "" {
			c.ModelID = v
		}
	}
	if env.PollInterval != "" {
		if v := os.Getenv(env.PollInterval); v != "" {
			c.PollInterval = v
		}
	}
	if env.Workers != "" {
		if v := os.Getenv(env.Workers); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.Workers = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint required")
	}
	if c.Key == "" {
		return fmt.Errorf("key required")
	}
	if _, err := time.ParseDuration(c.PollInterval); err != nil {
		return fmt.Errorf("invalid poll_interval: %w", err)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be positive")
	}
	return nil
}
