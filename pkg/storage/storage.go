package storage

import (
	"context"
	"io"
	"time"
)

// Storage keeps uploaded media files.
type Storage interface {
	// Put stores r under a generated or given key. size is the exact length.
	Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error)
	// Get returns the file body; the caller closes it.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL returns a public or pre-signed URL for key.
	URL(ctx context.Context, key string, opts ...URLOption) (string, error)
}

// Config describes an S3-compatible bucket.
type Config struct {
	Bucket    string `env:"S3_BUCKET"`
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
	// Endpoint is set for MinIO and other S3-compatible services.
	Endpoint string `env:"S3_ENDPOINT"`
	Region   string `env:"S3_REGION" envDefault:"us-east-1"`
	// PublicURL is a CDN prefix used for public files.
	PublicURL  string `env:"S3_PUBLIC_URL"`
	DefaultACL ACL    `env:"S3_DEFAULT_ACL" envDefault:"public-read"`
	PathStyle  bool   `env:"S3_PATH_STYLE" envDefault:"false"`
}

// Enabled reports whether a bucket is configured.
func (c Config) Enabled() bool { return c.Bucket != "" }

func (c *Config) applyDefaults() {
	if c.Region == "" {
		c.Region = DefaultRegion
	}
	if c.DefaultACL == "" {
		c.DefaultACL = ACLPrivate
	}
}

func (c *Config) validate() error {
	if c.Bucket == "" || c.AccessKey == "" || c.SecretKey == "" {
		return ErrInvalidConfig
	}
	return nil
}

// FileInfo describes a stored file.
type FileInfo struct {
	Key         string
	ContentType string
	ACL         ACL
	Size        int64
}

// ACL is the canned access level of a stored object.
type ACL string

const (
	ACLPrivate    ACL = "private"
	ACLPublicRead ACL = "public-read"
)

const (
	DefaultRegion    = "us-east-1"
	DefaultURLExpiry = 15 * time.Minute
)
