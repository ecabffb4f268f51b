package storage

import (
	"fmt"
	"os"
)

// Config holds Azure Blob Storage connection settings. Either a full
// connection string or an account URL (resolved with ambient credentials)
// must be provided.
type Config struct {
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	ContainerName    string
	ConnectionString string
	AccountURL       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	if c.ContainerName == "" {
		c.ContainerName = "attachments"
	}

	if env != nil {
		override(env.ContainerName, &c.ContainerName)
		override(env.ConnectionString, &c.ConnectionString)
		override(env.AccountURL, &c.AccountURL)
	}

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	take(&c.ContainerName, overlay.ContainerName)
	take(&c.ConnectionString, overlay.ConnectionString)
	take(&c.AccountURL, overlay.AccountURL)
}

func (c *Config) validate() error {
	if c.ContainerName == "" {
		return fmt.Errorf("container_name required")
	}
	if c.ConnectionString == "" && c.AccountURL == "" {
		return fmt.Errorf("connection_string or account_url required")
	}
	return nil
}

func override(key string, dst *string) {
	if key == "" {
		return
	}
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func take(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
