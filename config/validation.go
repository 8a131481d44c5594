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

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks the configuration for the environment it was loaded in.
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	add := func(field, format string, args ...any) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if cfg.Server.Port == "" {
		add("server.port", "is required")
	}

	switch cfg.Database.Driver {
	case "postgres":
		if cfg.Database.Host == "" {
			add("database.host", "is required for postgres")
		}
		if cfg.Database.Name == "" {
			add("database.name", "is required for postgres")
		}
		if cfg.IsProduction() && cfg.Database.Password == "" {
			add("database.password", "db_password secret is required in production")
		}
	case "sqlite":
		if cfg.Database.Path == "" {
			add("database.path", "is required for sqlite")
		}
	default:
		add("database.driver", "must be postgres or sqlite, got %q", cfg.Database.Driver)
	}

	if cfg.Auth.JWTSecret == "" {
		add("auth.jwt_secret", "is required")
	} else if cfg.IsProduction() && cfg.Auth.JWTSecret == DefaultJWTSecret {
		add("auth.jwt_secret", "the development secret cannot be used in production")
	}
	if cfg.Auth.TokenTTL <= 0 {
		add("auth.token_ttl", "must be positive")
	}

	r := cfg.Recipes
	if r.MinCookingTime < 1 || r.MinCookingTime > r.MaxCookingTime {
		add("recipes.min_cooking_time", "must be >= 1 and <= max_cooking_time")
	}
	if r.MinAmount < 1 || r.MinAmount > r.MaxAmount {
		add("recipes.min_amount", "must be >= 1 and <= max_amount")
	}

	if cfg.Pagination.PageSize < 1 {
		add("pagination.page_size", "must be positive")
	}
	if cfg.Pagination.MaxLimit < cfg.Pagination.PageSize {
		add("pagination.max_limit", "must be >= page_size")
	}

	switch cfg.Storage.Driver {
	case "local":
		if cfg.Storage.MediaDir == "" {
			add("storage.media_dir", "is required for local storage")
		}
	case "s3":
		if cfg.Storage.S3Bucket == "" {
			add("storage.s3_bucket", "is required for s3 storage")
		}
	default:
		add("storage.driver", "must be local or s3, got %q", cfg.Storage.Driver)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
