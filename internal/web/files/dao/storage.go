package dao

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/Laisky/errors/v2"
	minioLib "github.com/minio/minio-go/v7"
)

// Storage wraps the object storage bucket holding file binaries.
type Storage struct {
	cli    *minioLib.Client
	bucket string
}

// NewStorage create new Storage
func NewStorage(cli *minioLib.Client, bucket string) *Storage {
	return &Storage{
		cli:    cli,
		bucket: bucket,
	}
}

// Put uploads one object.
func (s *Storage) Put(ctx context.Context,
	key string, reader io.Reader, size int64, contentType string) error {
	_, err := s.cli.PutObject(ctx, s.bucket, key, reader, size,
		minioLib.PutObjectOptions{
			ContentType: contentType,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "put object %q", key)
	}

	return nil
}

// Download fetches the raw object bytes.
func (s *Storage) Download(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.cli.GetObject(ctx, s.bucket, key, minioLib.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "get object %q", key)
	}
	defer func() {
		_ = obj.Close()
	}()

	cnt, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrapf(err, "read object %q", key)
	}

	return cnt, nil
}

// Remove deletes one object.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.cli.RemoveObject(ctx, s.bucket, key,
		minioLib.RemoveObjectOptions{}); err != nil {
		return errors.Wrapf(err, "remove object %q", key)
	}

	return nil
}

// PresignedGet constructs a short-lived download URL for one object.
func (s *Storage) PresignedGet(ctx context.Context,
	key, filename string, expiry time.Duration) (*url.URL, error) {
	params := url.Values{}
	params.Set("response-content-disposition", `attachment; filename="`+filename+`"`)

	u, err := s.cli.PresignedGetObject(ctx, s.bucket, key, expiry, params)
	if err != nil {
		return nil, errors.Wrapf(err, "presign object %q", key)
	}

	return u, nil
}
