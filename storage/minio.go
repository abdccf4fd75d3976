// Package storage provides the object-storage client holding attachment,
// cover and avatar bytes. Records reference objects by name only.
package storage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Client struct {
	minioClient *minio.Client
	bucket      string
}

func New(cfg Config) (*Client, error) {
	log.Info().Str("endpoint", cfg.Endpoint).Msg("connecting to object storage")

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &Client{
		minioClient: client,
		bucket:      cfg.Bucket,
	}, nil
}

// EnsureBucket creates the configured bucket if it does not exist yet
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.minioClient.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.minioClient.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
}

func (c *Client) Put(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	_, err := c.minioClient.PutObject(ctx, c.bucket, name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (c *Client) Remove(ctx context.Context, name string) error {
	return c.minioClient.RemoveObject(ctx, c.bucket, name, minio.RemoveObjectOptions{})
}
