package config

import (
	"fmt"
	"strconv"
	"strings"
)

const minProductionSecretLength = 32

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig applies the rules for cfg.Env. Production and CI must supply real secrets;
// development only needs something to sign tokens with.
func ValidateConfig(cfg *Config) error {
	var problems []string
	add := func(field, msg string) {
		problems = append(problems, ValidationError{Field: field, Message: msg}.Error())
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port <= 0 || port > 65535 {
		add("SERVER_PORT", "must be a port number")
	}
	if cfg.DBHost == "" {
		add("DB_HOST", "is required")
	}
	if cfg.DBName == "" {
		add("DB_NAME", "is required")
	}
	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "is required")
	}
	if cfg.RateLimitPerMinute < 0 {
		add("RATE_LIMIT_PER_MINUTE", "must not be negative")
	}

	switch cfg.Env {
	case CI:
		if cfg.DBPassword == "" {
			add("DB_PASSWORD", "environment variable is required in CI environment")
		}
	case Production:
		if cfg.DBPassword == "" {
			add("db_password", "secret is required")
		}
		if len(cfg.JWTSecret) < minProductionSecretLength {
			add("jwt_secret", fmt.Sprintf("must be at least %d characters", minProductionSecretLength))
		}
		if cfg.DBSSLMode == "disable" {
			add("DB_SSL_MODE", "must not be disable in production")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
