package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/postboard/postboard/internal/post"
)

// ImageStore keeps post images in a MinIO bucket and hands out presigned URLs.
type ImageStore struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
}

// NewImageStore creates a MinIO client and ensures the bucket exists.
func NewImageStore(ctx context.Context, cfg Config) (*ImageStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}
	s := &ImageStore{client: mc, bucket: cfg.Bucket, presignTTL: ttl}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// Upload stores an image and returns its id with a presigned GET URL.
func (s *ImageStore) Upload(ctx context.Context, r io.Reader, size int64, contentType string) (post.Image, error) {
	if size > MaxImageSize {
		return post.Image{}, ErrTooLarge
	}
	id, key, err := objectKey(contentType)
	if err != nil {
		return post.Image{}, err
	}
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType}); err != nil {
		return post.Image{}, fmt.Errorf("minio put %s: %w", key, err)
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignTTL, url.Values{})
	if err != nil {
		return post.Image{}, fmt.Errorf("minio presign %s: %w", key, err)
	}
	return post.Image{ID: id, URL: u.String()}, nil
}

// Ping reports whether the bucket is reachable.
func (s *ImageStore) Ping(ctx context.Context) error {
	ok, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("bucket %s missing", s.bucket)
	}
	return nil
}
