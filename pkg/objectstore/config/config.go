// Package config assembles a fully wired objectstore.Store from
// declarative configuration.
package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quartzlabs/objectstore/pkg/objectstore"
	memoryrepo "github.com/quartzlabs/objectstore/pkg/objectstore/repo/memory"
	postgresrepo "github.com/quartzlabs/objectstore/pkg/objectstore/repo/postgres"
	fsstorage "github.com/quartzlabs/objectstore/pkg/objectstore/storage/fs"
	memorystorage "github.com/quartzlabs/objectstore/pkg/objectstore/storage/memory"
	s3storage "github.com/quartzlabs/objectstore/pkg/objectstore/storage/s3"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on
// top of defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:               "8080",
		Environment:        "development",
		MetadataType:       "memory",
		StorageType:        "memory",
		EnableEventLogging: true,
	}
}

// ServerConfig represents server configuration for the objectstore
// service.
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Metadata driver configuration
	MetadataType string // "memory", "postgres"
	DatabaseURL  string

	// Store driver configuration
	StorageType string // "memory", "fs", "s3"
	FSBaseDir   string
	S3          S3Config

	// Server options
	EnableEventLogging bool
}

// S3Config holds S3 driver settings.
type S3Config struct {
	Region                 string
	Bucket                 string
	AccessKeyID            string
	SecretAccessKey        string
	Endpoint               string
	UsePathStyle           bool
	CreateBucketIfNotExist bool
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	switch c.MetadataType {
	case "memory":
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("database_url is required when using postgres")
		}
	default:
		return fmt.Errorf("unsupported metadata type: %s", c.MetadataType)
	}

	switch c.StorageType {
	case "memory":
	case "fs":
		if c.FSBaseDir == "" {
			return errors.New("fs base directory is required")
		}
	case "s3":
		if c.S3.Bucket == "" {
			return errors.New("s3 bucket is required")
		}
	default:
		return fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}

	return nil
}

// BuildStore creates a Store instance from the configuration. Extra
// options are applied last, so callers can override the dispatcher.
func (c *ServerConfig) BuildStore(extra ...objectstore.Option) (objectstore.Store, error) {
	driver, err := c.buildStoreDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to build store driver: %w", err)
	}

	md, err := c.buildMetadataDriver()
	if err != nil {
		return nil, fmt.Errorf("failed to build metadata driver: %w", err)
	}

	options := []objectstore.Option{
		objectstore.WithStoreDriver(driver),
		objectstore.WithMetadataDriver(md),
	}
	if c.EnableEventLogging {
		options = append(options, objectstore.WithEventDispatcher(
			objectstore.NewLoggingDispatcher(slog.Default())))
	}
	options = append(options, extra...)

	return objectstore.New(options...)
}

func (c *ServerConfig) buildStoreDriver() (objectstore.StoreDriver, error) {
	switch c.StorageType {
	case "memory":
		return memorystorage.New(), nil
	case "fs":
		return fsstorage.New(fsstorage.Config{BaseDir: c.FSBaseDir})
	case "s3":
		return s3storage.New(s3storage.Config{
			Region:                 c.S3.Region,
			Bucket:                 c.S3.Bucket,
			AccessKeyID:            c.S3.AccessKeyID,
			SecretAccessKey:        c.S3.SecretAccessKey,
			Endpoint:               c.S3.Endpoint,
			UsePathStyle:           c.S3.UsePathStyle,
			CreateBucketIfNotExist: c.S3.CreateBucketIfNotExist,
		})
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", c.StorageType)
	}
}

func (c *ServerConfig) buildMetadataDriver() (objectstore.MetadataDriver, error) {
	switch c.MetadataType {
	case "memory":
		return memoryrepo.New(), nil
	case "postgres":
		pool, err := pgxpool.New(context.Background(), c.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to create pgx pool: %w", err)
		}
		return postgresrepo.NewWithPool(pool), nil
	default:
		return nil, fmt.Errorf("unsupported metadata type: %s", c.MetadataType)
	}
}
