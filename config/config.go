// Package config provides the runtime configuration for the uploader: an
// explicit struct built once at process start from the environment, and the
// dataset manifest naming the files to convert and publish. Nothing in this
// package reads the environment after startup; the resulting Config is
// passed by reference and treated as read-only for the rest of the run.
package config

import (
	"errors"
	"fmt"
	"os"
)

// Environment keys read by FromEnv.
const (
	// EnvAccessKey is the object store credential identity
	EnvAccessKey = "ACCESS_KEY"

	// EnvSecretKey is the object store credential secret
	EnvSecretKey = "SECRET_KEY"

	// EnvRegion is the object store region selector
	EnvRegion = "REGION"

	// EnvBucket is the destination bucket name
	EnvBucket = "BUCKET"

	// EnvPrefix overrides the key prefix datasets are written under
	EnvPrefix = "PREFIX"

	// EnvFallbackEncoding overrides the charset used when detection is
	// inconclusive
	EnvFallbackEncoding = "FALLBACK_ENCODING"
)

// Defaults applied when the optional keys are unset.
const (
	// DefaultPrefix places datasets under raw/<name>/
	DefaultPrefix = "raw"

	// DefaultFallbackEncoding decodes any byte sequence, so the fallback
	// path can never fail mid-file
	DefaultFallbackEncoding = "ISO-8859-1"
)

// Config holds everything the uploader needs for one run.
type Config struct {
	// AccessKey is the object store credential identity
	AccessKey string

	// SecretKey is the object store credential secret
	SecretKey string

	// Region is the object store region
	Region string

	// Bucket is the destination bucket
	Bucket string

	// Prefix is the key prefix datasets are written under
	Prefix string

	// FallbackEncoding is the charset used when detection is inconclusive
	FallbackEncoding string
}

// FromEnv builds a Config from the process environment. The credential,
// region, and bucket keys are required; prefix and fallback encoding have
// defaults.
func FromEnv() (*Config, error) {
	cfg := &Config{
		AccessKey:        os.Getenv(EnvAccessKey),
		SecretKey:        os.Getenv(EnvSecretKey),
		Region:           os.Getenv(EnvRegion),
		Bucket:           os.Getenv(EnvBucket),
		Prefix:           os.Getenv(EnvPrefix),
		FallbackEncoding: os.Getenv(EnvFallbackEncoding),
	}

	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.FallbackEncoding == "" {
		cfg.FallbackEncoding = DefaultFallbackEncoding
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that all required fields are present.
func (c *Config) Validate() error {
	var missing []string
	if c.AccessKey == "" {
		missing = append(missing, EnvAccessKey)
	}
	if c.SecretKey == "" {
		missing = append(missing, EnvSecretKey)
	}
	if c.Region == "" {
		missing = append(missing, EnvRegion)
	}
	if c.Bucket == "" {
		missing = append(missing, EnvBucket)
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment keys: %v", missing)
	}
	return nil
}

// ErrNoDatasets indicates the manifest declared no datasets.
var ErrNoDatasets = errors.New("config: manifest declares no datasets")
