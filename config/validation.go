package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the loaded values for combinations the server cannot run with.
func ValidateConfig(cfg *Config) error {
	var errs []error

	switch cfg.DBDriver {
	case DriverPostgres:
		for field, value := range map[string]string{
			"DB_HOST": cfg.DBHost,
			"DB_NAME": cfg.DBName,
			"DB_USER": cfg.DBUser,
		} {
			if value == "" {
				errs = append(errs, ValidationError{Field: field, Message: "required for the postgres driver"})
			}
		}
	case DriverSQLite:
		if cfg.DBPath == "" {
			errs = append(errs, ValidationError{Field: "DB_PATH", Message: "required for the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unknown driver %q", cfg.DBDriver)})
	}

	switch cfg.StorageBackend {
	case StorageLocal:
	case StorageS3:
		if cfg.S3BucketName == "" {
			errs = append(errs, ValidationError{Field: "S3_BUCKET_NAME", Message: "required for the s3 backend"})
		}
	default:
		errs = append(errs, ValidationError{Field: "STORAGE_BACKEND", Message: fmt.Sprintf("unknown backend %q", cfg.StorageBackend)})
	}

	if cfg.Environment == Production && cfg.JWTSecret == "" {
		errs = append(errs, ValidationError{Field: "JWT_SECRET", Message: "jwt_secret secret is required in production"})
	}
	if cfg.JWTTTL <= 0 {
		errs = append(errs, ValidationError{Field: "JWT_TTL", Message: "must be positive"})
	}
	if cfg.RateLimitWritesPerHour < 0 {
		errs = append(errs, ValidationError{Field: "RATE_LIMIT_WRITES_PER_HOUR", Message: "must not be negative"})
	}

	return errors.Join(errs...)
}
