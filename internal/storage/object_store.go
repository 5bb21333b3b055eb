package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/romanbrito/onlineStorePrisma/internal/config"
)

const publicReadPolicy = `{
  "Version": "2012-10-17",
  "Statement": [{
    "Effect": "Allow",
    "Principal": {"AWS": ["*"]},
    "Action": ["s3:GetObject"],
    "Resource": ["arn:aws:s3:::%s/*"]
  }]
}`

type ObjectStore struct {
	client *minio.Client
	cfg    config.StorageConfig
}

func NewObjectStore(cfg config.StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

// EnsureBucket creates the item image bucket if needed and makes its
// objects publicly readable.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.Bucket, err)
		}
	}
	if err := s.client.SetBucketPolicy(ctx, s.cfg.Bucket, fmt.Sprintf(publicReadPolicy, s.cfg.Bucket)); err != nil {
		return fmt.Errorf("set bucket policy %s: %w", s.cfg.Bucket, err)
	}
	return nil
}

// Put uploads an object and returns its public URL.
func (s *ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	if _, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	}); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return PublicURL(s.cfg, key), nil
}

// PublicURL builds the browser-facing URL of key. storage.publicurl wins
// over the API endpoint when set.
func PublicURL(cfg config.StorageConfig, key string) string {
	base := cfg.PublicURL
	if base == "" {
		base = cfg.Endpoint + "/" + cfg.Bucket
	}
	base = strings.TrimSuffix(base, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}
	return base + "/" + strings.TrimPrefix(key, "/")
}
