package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration against the requirements of the
// given environment. Development and test tolerate missing credentials so a
// bare checkout still boots; CI and production do not.
func ValidateConfig(cfg *Config, env Environment) error {
	var errs []ValidationError

	if cfg.SessionSecret == "" {
		errs = append(errs, ValidationError{Field: "SESSION_SECRET", Message: "session signing secret is required"})
	}

	switch env {
	case CI, Production:
		if cfg.DBPassword == "" {
			errs = append(errs, ValidationError{Field: "DB_PASSWORD", Message: "database password is required"})
		}
		if cfg.SpoonacularAPIKey == "" {
			errs = append(errs, ValidationError{Field: "SPOONACULAR_API_KEY", Message: "external recipe API key is required"})
		}
	}

	if env == Production {
		if len(cfg.SessionSecret) < 32 {
			errs = append(errs, ValidationError{Field: "SESSION_SECRET", Message: "must be at least 32 bytes in production"})
		}
		if !cfg.RedisEnabled() {
			errs = append(errs, ValidationError{Field: "REDIS_HOST", Message: "a Redis endpoint is required in production"})
		}
		if cfg.DBSSLMode == "" {
			errs = append(errs, ValidationError{Field: "DB_SSL_MODE", Message: "must be set in production"})
		}
	}

	if len(errs) > 0 {
		messages := make([]string, len(errs))
		for i, e := range errs {
			messages[i] = e.Error()
		}
		return fmt.Errorf("%s", strings.Join(messages, "\n"))
	}

	return nil
}
