// Package minio builds the object storage client.
package minio

import (
	"context"

	"github.com/Laisky/errors/v2"
	minioLib "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// DialInfo defines the object storage connection information.
type DialInfo struct {
	Endpoint,
	AccessKey,
	SecretKey string
	UseSSL bool
}

// NewClient creates an object storage client and verifies the endpoint is reachable.
func NewClient(ctx context.Context, dialInfo DialInfo) (*minioLib.Client, error) {
	cli, err := minioLib.New(dialInfo.Endpoint, &minioLib.Options{
		Creds:  credentials.NewStaticV4(dialInfo.AccessKey, dialInfo.SecretKey, ""),
		Secure: dialInfo.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create minio client")
	}

	if _, err = cli.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, "list buckets")
	}

	return cli, nil
}
