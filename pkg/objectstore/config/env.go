package config

import (
	"fmt"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
)

// envConfig is the flat environment mapping read by cleanenv.
//
//	PORT                 - Server port (default: "8080")
//	ENVIRONMENT          - Runtime environment (default: "development")
//	DATABASE_URL         - "memory" or a postgres:// connection string
//	STORAGE_URL          - "memory://", "file:///path/to/data" or "s3://bucket"
//	ENABLE_EVENT_LOGGING - Log lifecycle events (default: true)
//
// S3 credentials come from the usual AWS_* variables.
type envConfig struct {
	Port               string `env:"PORT" env-default:""`
	Environment        string `env:"ENVIRONMENT" env-default:""`
	DatabaseURL        string `env:"DATABASE_URL" env-default:""`
	StorageURL         string `env:"STORAGE_URL" env-default:""`
	EnableEventLogging bool   `env:"ENABLE_EVENT_LOGGING" env-default:"true"`

	AWSRegion       string `env:"AWS_REGION" env-default:"us-east-1"`
	AWSAccessKey    string `env:"AWS_ACCESS_KEY_ID" env-default:""`
	AWSSecretKey    string `env:"AWS_SECRET_ACCESS_KEY" env-default:""`
	AWSS3Endpoint   string `env:"AWS_S3_ENDPOINT" env-default:""`
	AWSS3PathStyle  bool   `env:"AWS_S3_USE_PATH_STYLE" env-default:"false"`
	AWSCreateBucket bool   `env:"AWS_S3_CREATE_BUCKET" env-default:"false"`
}

// WithEnv applies environment variable overrides.
func WithEnv() Option {
	return func(c *ServerConfig) error {
		var env envConfig
		if err := cleanenv.ReadEnv(&env); err != nil {
			return fmt.Errorf("failed to read environment: %w", err)
		}

		if env.Port != "" {
			c.Port = env.Port
		}
		if env.Environment != "" {
			c.Environment = env.Environment
		}
		c.EnableEventLogging = env.EnableEventLogging

		if err := applyDatabaseEnv(env, c); err != nil {
			return err
		}
		return applyStorageEnv(env, c)
	}
}

func applyDatabaseEnv(env envConfig, c *ServerConfig) error {
	switch {
	case env.DatabaseURL == "" || env.DatabaseURL == "memory":
		c.MetadataType = "memory"
		c.DatabaseURL = ""
	case strings.HasPrefix(env.DatabaseURL, "postgres://"),
		strings.HasPrefix(env.DatabaseURL, "postgresql://"):
		c.MetadataType = "postgres"
		c.DatabaseURL = env.DatabaseURL
	default:
		return fmt.Errorf("unsupported DATABASE_URL format: %s (use 'memory' or 'postgresql://...')", env.DatabaseURL)
	}
	return nil
}

func applyStorageEnv(env envConfig, c *ServerConfig) error {
	url := env.StorageURL
	switch {
	case url == "" || url == "memory" || url == "memory://":
		c.StorageType = "memory"
	case strings.HasPrefix(url, "file://"):
		path := strings.TrimPrefix(url, "file://")
		if path == "" {
			return fmt.Errorf("filesystem path cannot be empty in STORAGE_URL")
		}
		c.StorageType = "fs"
		c.FSBaseDir = path
	case strings.HasPrefix(url, "s3://"):
		bucket := strings.TrimPrefix(url, "s3://")
		if i := strings.IndexByte(bucket, '?'); i >= 0 {
			bucket = bucket[:i]
		}
		if bucket == "" {
			return fmt.Errorf("S3 bucket name cannot be empty in STORAGE_URL")
		}
		c.StorageType = "s3"
		c.S3 = S3Config{
			Region:                 env.AWSRegion,
			Bucket:                 bucket,
			AccessKeyID:            env.AWSAccessKey,
			SecretAccessKey:        env.AWSSecretKey,
			Endpoint:               env.AWSS3Endpoint,
			UsePathStyle:           env.AWSS3PathStyle,
			CreateBucketIfNotExist: env.AWSCreateBucket,
		}
	default:
		return fmt.Errorf("unsupported STORAGE_URL format: %s (use 'memory://', 'file://...', or 's3://...')", url)
	}
	return nil
}
