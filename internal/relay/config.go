package relay

import "time"

// Config holds relay server configuration.
type Config struct {
	// Bind is the listen address.
	Bind string `yaml:"bind"`

	// AllowedOrigin restricts CORS. "*" (the default) echoes the caller's
	// origin, matching a public demo deployment.
	AllowedOrigin string `yaml:"allowed_origin"`

	// RequestTimeout bounds each upstream forward.
	RequestTimeout time.Duration `yaml:"request_timeout"`

	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// defaults fills zero values with sensible defaults.
func (c *Config) defaults() {
	if c.Bind == "" {
		c.Bind = "127.0.0.1:8080"
	}
	if c.AllowedOrigin == "" {
		c.AllowedOrigin = "*"
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = 60 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 10 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 90 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}
