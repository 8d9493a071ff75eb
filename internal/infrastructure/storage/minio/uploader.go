// Package minio uploads exported model documents to S3-compatible object
// storage.
package minio

import (
	"bytes"
	"context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/mmundy42/cobrababel/internal/config"
	"github.com/mmundy42/cobrababel/internal/infrastructure/monitoring/logging"
	"github.com/mmundy42/cobrababel/pkg/errors"
)

// Uploader stores exported model JSON in one bucket.
type Uploader struct {
	client *minio.Client
	bucket string
	logger logging.Logger
}

// NewUploader connects to the object store and makes sure the configured
// bucket exists.
func NewUploader(ctx context.Context, cfg config.MinIOConfig, logger logging.Logger) (*Uploader, error) {
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "creating object storage client")
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "checking bucket "+cfg.Bucket)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "creating bucket "+cfg.Bucket)
		}
		logger.Info("created bucket", logging.String("bucket", cfg.Bucket))
	}

	return &Uploader{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// UploadModel stores a model document under objectName and returns its size.
func (u *Uploader) UploadModel(ctx context.Context, objectName string, document []byte) (int64, error) {
	info, err := u.client.PutObject(ctx, u.bucket, objectName,
		bytes.NewReader(document), int64(len(document)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return 0, errors.Wrap(err, errors.ErrCodeInternal, "uploading "+objectName)
	}
	u.logger.Info("model uploaded",
		logging.String("bucket", u.bucket),
		logging.String("object", objectName),
		logging.Int("bytes", int(info.Size)),
	)
	return info.Size, nil
}

// DownloadModel fetches a stored model document.
func (u *Uploader) DownloadModel(ctx context.Context, objectName string) ([]byte, error) {
	obj, err := u.client.GetObject(ctx, u.bucket, objectName, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "fetching "+objectName)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "reading "+objectName)
	}
	return buf.Bytes(), nil
}
