package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// Reader reads resource objects from a bucket.
type Reader interface {
	// Open streams the object stored under key.
	// The caller is responsible for closing the returned reader.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Stat returns object metadata without downloading it.
	Stat(ctx context.Context, key string) (*Object, error)
}

// Config holds S3-compatible bucket configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"BUCKET"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"ACCESS_KEY"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"SECRET_KEY"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `env:"ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"REGION"`

	// Prefix is prepended to every key, e.g. "awesome/v2".
	Prefix string `env:"PREFIX"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"PATH_STYLE"`

	// MaxObjectSize caps the bytes ReadAll accepts (default: 10MB).
	MaxObjectSize int64 `env:"MAX_OBJECT_SIZE"`
}

// Object describes a stored resource.
type Object struct {
	Key         string
	ContentType string
	ETag        string
	Size        int64
}

// Default configuration values.
const (
	DefaultRegion        = "us-east-1"
	DefaultMaxObjectSize = 10 << 20
)

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.MaxObjectSize == 0 {
		c.MaxObjectSize = DefaultMaxObjectSize
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" {
		return ErrInvalidConfig
	}
	if c.AccessKey == "" {
		return ErrInvalidConfig
	}
	if c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}

// objectKey joins prefix and key, rejecting traversal outside the prefix.
func objectKey(prefix, key string) (string, error) {
	key = strings.TrimLeft(key, "/")
	if key == "" {
		return "", ErrInvalidKey
	}
	for seg := range strings.SplitSeq(key, "/") {
		if seg == ".." {
			return "", ErrInvalidKey
		}
	}
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return path.Clean(key), nil
	}
	return path.Join(prefix, key), nil
}
