package config

import (
	"fmt"

	"github.com/sashabaranov/go-openai"
)

const (
	EnvLLMProvider   = "CASETRAIL_LLM_PROVIDER"
	EnvLLMEndpoint   = "CASETRAIL_LLM_ENDPOINT"
	EnvLLMKey        = "CASETRAIL_LLM_KEY"
	EnvLLMAPIVersion = "CASETRAIL_LLM_API_VERSION"
	EnvLLMModel      = "CASETRAIL_LLM_MODEL"
)

// LLMConfig holds chat completion provider settings. Provider selects between
// an Azure OpenAI deployment and the OpenAI API; Model names the deployment
// or model passed on every completion request.
type LLMConfig struct {
	Provider   string `toml:"provider"`
	Endpoint   string `toml:"endpoint"`
	Key        string `toml:"key"`
	APIVersion string `toml:"api_version"`
	Model      string `toml:"model"`
}

// Client builds an OpenAI-compatible chat client from the finalized config.
func (c *LLMConfig) Client() *openai.Client {
	switch c.Provider {
	case "azure":
		cfg := openai.DefaultAzureConfig(c.Key, c.Endpoint)
		if c.APIVersion != "" {
			cfg.APIVersion = c.APIVersion
		}
		return openai.NewClientWithConfig(cfg)
	default:
		cfg := openai.DefaultConfig(c.Key)
		if c.Endpoint != "" {
			cfg.BaseURL = c.Endpoint
		}
		return openai.NewClientWithConfig(cfg)
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *LLMConfig) Finalize() error {
	defaultString(&c.Provider, "azure")
	defaultString(&c.Model, "gpt-4o")

	envString(EnvLLMProvider, &c.Provider)
	envString(EnvLLMEndpoint, &c.Endpoint)
	envString(EnvLLMKey, &c.Key)
	envString(EnvLLMAPIVersion, &c.APIVersion)
	envString(EnvLLMModel, &c.Model)

	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *LLMConfig) Merge(overlay *LLMConfig) {
	mergeString(&c.Provider, overlay.Provider)
	mergeString(&c.Endpoint, overlay.Endpoint)
	mergeString(&c.Key, overlay.Key)
	mergeString(&c.APIVersion, overlay.APIVersion)
	mergeString(&c.Model, overlay.Model)
}

func (c *LLMConfig) validate() error {
	switch c.Provider {
	case "azure":
		if c.Endpoint == "" {
			return fmt.Errorf("endpoint required for azure provider")
		}
	case "openai":
	default:
		return fmt.Errorf("unknown provider: %s", c.Provider)
	}
	if c.Key == "" {
		return fmt.Errorf("key required")
	}
	return nil
}
