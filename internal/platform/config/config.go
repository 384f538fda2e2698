// Copyright (c) 2026 ITVE. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (store, token service) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported document store backends.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the donor API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreDriver selects the document store backend ("mongo" or "postgres").
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`

	// Document Database (MongoDB)
	MongoURL     string `env:"MONGO_URL"`
	DatabaseName string `env:"DB_NAME" envDefault:"ITVE_Database"`

	// Relational Database (PostgreSQL backend)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Token signing
	JWTSecretKey             string `env:"JWT_SECRET_KEY,required"`
	JWTAlgorithm             string `env:"JWT_ALGORITHM" envDefault:"HS256"`
	AccessTokenExpireMinutes int    `env:"ACCESS_TOKEN_EXPIRE_MINUTES" envDefault:"60"`
	RefreshTokenExpireDays   int    `env:"REFRESH_TOKEN_EXPIRE_DAYS" envDefault:"7"`

	// AdminSecretCode is the administrative bootstrap code.
	AdminSecretCode string `env:"ADMIN_SECRET_CODE,required"`

	// Profile image uploads
	UploadDir         string   `env:"UPLOAD_DIR" envDefault:"uploads"`
	AllowedExtensions []string `env:"ALLOWED_EXTENSIONS" envDefault:".jpg,.jpeg,.png" envSeparator:","`
	MaxUploadBytes    int64    `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`

	// Object Storage (S3-compatible). Uploads go to disk when S3Bucket is empty.
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`

	// Cross-Origin Resource Sharing
	CORSAllowedSuffix string `env:"CORS_ALLOWED_SUFFIX" envDefault:"itve.org"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given key/value map instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environment})
}

func parse(options env.Options) (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.normalizeExtensions()

	return cfg, nil
}

// validate enforces cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURL == "" {
			return errors.New("MONGO_URL is required when STORE_DRIVER=mongo")
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.JWTAlgorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q (HMAC only)", c.JWTAlgorithm)
	}

	if c.AccessTokenExpireMinutes <= 0 || c.RefreshTokenExpireDays <= 0 {
		return errors.New("token lifetimes must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

// normalizeExtensions lower-cases the whitelist and guarantees a leading dot.
func (c *Config) normalizeExtensions() {
	normalized := make([]string, 0, len(c.AllowedExtensions))
	for _, extension := range c.AllowedExtensions {
		extension = strings.ToLower(strings.TrimSpace(extension))
		if extension == "" {
			continue
		}
		if !strings.HasPrefix(extension, ".") {
			extension = "." + extension
		}
		normalized = append(normalized, extension)
	}
	c.AllowedExtensions = normalized
}

// AccessTokenTTL returns the default lifetime of access tokens.
func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.AccessTokenExpireMinutes) * time.Minute
}

// RefreshTokenTTL returns the default lifetime of refresh tokens.
func (c *Config) RefreshTokenTTL() time.Duration {
	return time.Duration(c.RefreshTokenExpireDays) * 24 * time.Hour
}

// UsesS3 reports whether profile images are stored in object storage.
func (c *Config) UsesS3() bool {
	return c.S3Bucket != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOriginSuffix returns the origin suffix accepted outside development.
func (c *Config) AllowedOriginSuffix() string {
	return c.CORSAllowedSuffix
}
