package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// varPattern matches ${VAR} and ${VAR:-default} placeholders in the raw
// YAML text.
var varPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(?::-((?:[^}\\]|\\.)*))?\}`)

// Load reads the YAML file at path, substitutes environment placeholders,
// and decodes the result. Secrets like the upstream API key are expected
// to arrive through placeholders rather than being written into the file.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	interpolated, err := interpolate(raw)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(interpolated, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return &cfg, nil
}

// interpolate substitutes every ${VAR} and ${VAR:-default} placeholder
// with the environment value or the inline default. Substitution happens
// on the raw bytes before YAML decoding, so a placeholder can sit inside
// any scalar. Placeholders with neither an env value nor a default are
// collected into a single error naming each one.
func interpolate(raw []byte) ([]byte, error) {
	var missing []error

	out := varPattern.ReplaceAllFunc(raw, func(placeholder []byte) []byte {
		groups := varPattern.FindSubmatch(placeholder)
		name := string(groups[1])

		if value, ok := os.LookupEnv(name); ok {
			return []byte(value)
		}
		if groups[2] != nil {
			return groups[2]
		}

		missing = append(missing, fmt.Errorf("${%s} is not set and has no default", name))
		return placeholder
	})

	return out, errors.Join(missing...)
}
