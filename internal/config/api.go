package config

import (
	"fmt"

	"github.com/casetrail/casetrail/pkg/formatting"
	"github.com/casetrail/casetrail/pkg/middleware"
)

const (
	EnvAPIBasePath      = "CASETRAIL_API_BASE_PATH"
	EnvAPIMaxUploadSize = "CASETRAIL_API_MAX_UPLOAD_SIZE"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "CASETRAIL_CORS_ENABLED",
	Origins:          "CASETRAIL_CORS_ORIGINS",
	AllowedMethods:   "CASETRAIL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "CASETRAIL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "CASETRAIL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "CASETRAIL_CORS_MAX_AGE",
}

// APIConfig holds API routing, upload limit, and CORS settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
}

// MaxUploadSizeBytes returns the upload limit in bytes, falling back to
// 50MB when the configured value does not parse.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return 50 << 20
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested CORS config.
func (c *APIConfig) Finalize() error {
	defaultString(&c.BasePath, "/api")
	defaultString(&c.MaxUploadSize, "50MB")
	envString(EnvAPIBasePath, &c.BasePath)
	envString(EnvAPIMaxUploadSize, &c.MaxUploadSize)

	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	return nil
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)
	c.CORS.Merge(&overlay.CORS)
}
