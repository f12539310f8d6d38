package upstream

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config holds the configuration for the upstream chat-completions client.
type Config struct {
	// BaseURL is the API root, e.g. "https://router.huggingface.co/v1".
	BaseURL string `yaml:"base_url"`

	// APIKey is the bearer token. APIKeyEnv names an environment variable
	// to read it from instead; the env var wins when both are set.
	APIKey    string `yaml:"api_key"`
	APIKeyEnv string `yaml:"api_key_env"`

	// Model is the default model identifier for requests that omit one.
	Model string `yaml:"model"`

	// Timeout bounds each completion request.
	Timeout time.Duration `yaml:"timeout"`
}

// defaults sets default values for unset fields.
func (c *Config) defaults() {
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
	if c.BaseURL != "" {
		c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	}
	if c.Model == "" {
		c.Model = "google/gemma-2-2b-it"
	}
}

// validate returns an error if required fields are missing or malformed.
func (c *Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("upstream: base_url is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("upstream: base_url is not a valid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("upstream: base_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.APIKey == "" && c.APIKeyEnv == "" {
		return fmt.Errorf("upstream: one of api_key or api_key_env is required")
	}
	return nil
}

// resolveKey returns the effective API key.
func (c *Config) resolveKey() string {
	if c.APIKeyEnv != "" {
		if v := os.Getenv(c.APIKeyEnv); v != "" {
			return v
		}
	}
	return c.APIKey
}
