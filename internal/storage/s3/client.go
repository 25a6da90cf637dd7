// Package s3 implements the ObjectStore contract against any S3-compatible
// endpoint via the minio client.
package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ternarybob/arbor"
)

// Config carries the object-store connection settings.
type Config struct {
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	Region    string `toml:"region"`
	UseSSL    bool   `toml:"use_ssl"`
}

// Client is the S3-backed object store.
type Client struct {
	api    *minio.Client
	logger arbor.ILogger
}

// NewClient connects to the configured endpoint. Static credentials are
// used when provided, IAM/env resolution otherwise.
func NewClient(cfg Config, logger arbor.ILogger) (*Client, error) {
	var creds *credentials.Credentials
	if cfg.AccessKey != "" {
		creds = credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, "")
	} else {
		creds = credentials.NewIAM("")
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("object store connect: %w", err)
	}

	return &Client{api: api, logger: logger}, nil
}

// Read opens bucket/key for streaming.
func (c *Client) Read(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	obj, err := c.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("object store read %s/%s: %w", bucket, key, err)
	}
	// GetObject is lazy; force the first stat so missing objects surface
	// here instead of mid-stream.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, fmt.Errorf("object store read %s/%s: %w", bucket, key, err)
	}
	return obj, nil
}

// WriteJSON marshals v and uploads it to bucket/key.
func (c *Client) WriteJSON(ctx context.Context, bucket, key string, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("object store marshal %s/%s: %w", bucket, key, err)
	}

	_, err = c.api.PutObject(ctx, bucket, key, bytes.NewReader(payload), int64(len(payload)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("object store write %s/%s: %w", bucket, key, err)
	}

	if c.logger != nil {
		c.logger.Debug().
			Str("bucket", bucket).
			Str("key", key).
			Int("bytes", len(payload)).
			Msg("Artifact written")
	}
	return nil
}

// ParsePath splits an "s3://bucket/key" path. The scheme check is the
// submit-time validation for S3-sourced bulk jobs.
func ParsePath(path string) (bucket, key string, err error) {
	const scheme = "s3://"
	if !strings.HasPrefix(path, scheme) {
		return "", "", fmt.Errorf("path %q: must begin with %s", path, scheme)
	}
	rest := strings.TrimPrefix(path, scheme)
	slash := strings.IndexByte(rest, '/')
	if slash <= 0 || slash == len(rest)-1 {
		return "", "", fmt.Errorf("path %q: expected s3://<bucket>/<key>", path)
	}
	return rest[:slash], rest[slash+1:], nil
}

// BuildPath joins a bucket and key back into an s3:// path.
func BuildPath(bucket, key string) string {
	return "s3://" + bucket + "/" + key
}
