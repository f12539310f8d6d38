package config

import (
	"errors"
	"fmt"
)

// Validate checks the structural validity of a Config. It verifies the
// version field and checks that persona levels, when set, are in range.
// Section-specific validation (upstream URL, bind address) happens when
// the section's client or server is constructed.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Version == "" {
		errs = append(errs, errors.New("config: version field is required"))
	} else if cfg.Version != "1" {
		errs = append(errs, fmt.Errorf("config: unsupported version %q (supported: \"1\")", cfg.Version))
	}

	errs = append(errs, validatePersona(cfg.Persona)...)

	if cfg.Session.MaxNewTokens < 0 {
		errs = append(errs, fmt.Errorf("config: session.max_new_tokens must not be negative, got %d", cfg.Session.MaxNewTokens))
	}
	if cfg.Session.Temperature < 0 || cfg.Session.Temperature > 2 {
		errs = append(errs, fmt.Errorf("config: session.temperature must be in [0, 2], got %g", cfg.Session.Temperature))
	}

	return errors.Join(errs...)
}

func validatePersona(p PersonaConfig) []error {
	var errs []error
	if p.Truthfulness != nil && (*p.Truthfulness < 0 || *p.Truthfulness > 100) {
		errs = append(errs, fmt.Errorf("config: persona.truthfulness must be in [0, 100], got %d", *p.Truthfulness))
	}
	if p.Levity != nil && (*p.Levity < 0 || *p.Levity > 100) {
		errs = append(errs, fmt.Errorf("config: persona.levity must be in [0, 100], got %d", *p.Levity))
	}
	return errs
}
