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

// requirements lists the settings each environment cannot run without
var requirements = map[Environment][]string{
	Development: {"SERVER_PORT", "DB_HOST", "DB_NAME", "JWT_SECRET"},
	Test:        {"SERVER_PORT", "DB_HOST", "DB_NAME", "JWT_SECRET"},
	CI:          {"SERVER_PORT", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET"},
	Production:  {"SERVER_PORT", "DB_HOST", "DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET", "REDIS_HOST"},
}

func (c *Config) value(field string) string {
	switch field {
	case "SERVER_PORT":
		return c.ServerPort
	case "DB_HOST":
		return c.DBHost
	case "DB_USER":
		return c.DBUser
	case "DB_PASSWORD":
		return c.DBPassword
	case "DB_NAME":
		return c.DBName
	case "JWT_SECRET":
		return c.JWTSecret
	case "REDIS_HOST":
		return c.RedisHost
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for the given environment
func ValidateConfig(env Environment, cfg *Config) error {
	var errs []string
	for _, field := range requirements[env] {
		if cfg.value(field) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"}.Error())
		}
	}

	if env == Production && cfg.S3Bucket == "" && cfg.MediaRoot == "" {
		errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "or MEDIA_ROOT is required"}.Error())
	}
	if env == Production && len(cfg.JWTSecret) < 32 && cfg.JWTSecret != "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "must be at least 32 characters"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
