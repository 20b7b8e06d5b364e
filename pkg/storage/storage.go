package storage

import (
	"context"
	"io"
)

// Storage defines the interface for report archive operations.
type Storage interface {
	// Put uploads data from a reader to storage.
	// The size parameter is used for content-length header; a negative size
	// makes Put buffer the reader to learn it.
	// Options set the key prefix, object name, partition date and content type.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)

	// Get retrieves a stored object.
	// The caller is responsible for closing the returned reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes an object from storage.
	Delete(ctx context.Context, key string) error
}

// Config holds S3-compatible storage configuration.
type Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string `env:"LOG_S3_BUCKET"`

	// AccessKey is the AWS access key ID (required).
	AccessKey string `env:"LOG_S3_ACCESS_KEY"`

	// SecretKey is the AWS secret access key (required).
	SecretKey string `env:"LOG_S3_SECRET_KEY"`

	// Endpoint is the custom S3 endpoint URL (optional, for MinIO or other S3-compatible services).
	Endpoint string `env:"LOG_S3_ENDPOINT"`

	// Region is the AWS region (default: us-east-1).
	Region string `env:"LOG_S3_REGION" envDefault:"us-east-1"`

	// DefaultACL is the default ACL for uploaded objects (default: private).
	DefaultACL ACL `env:"LOG_S3_ACL" envDefault:"private"`

	// PathStyle enables path-style URLs (required for MinIO).
	PathStyle bool `env:"LOG_S3_PATH_STYLE"`
}

// FileInfo contains metadata about an uploaded object.
type FileInfo struct {
	// Key is the storage key (path) for the object.
	Key string

	// ContentType is the content type sent with the object.
	ContentType string

	// ACL is the access control setting.
	ACL ACL

	// Size is the object size in bytes.
	Size int64
}

// ACL represents access control levels for stored objects.
type ACL string

const (
	// ACLPrivate makes the object accessible only with credentials.
	ACLPrivate ACL = "private"

	// ACLPublicRead makes the object publicly readable.
	ACLPublicRead ACL = "public-read"
)

// Default configuration values.
const (
	DefaultRegion      = "us-east-1"
	DefaultContentType = "text/html; charset=utf-8"
	DefaultExtension   = ".html"
)

// applyDefaults fills in default values for empty config fields.
func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
}

// validate checks that required configuration fields are set.
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
	switch c.DefaultACL {
	case ACLPrivate, ACLPublicRead:
	default:
		return ErrInvalidConfig
	}
	return nil
}
