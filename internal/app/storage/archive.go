// Package storage archives persisted record directories to object storage.
package storage

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"github.com/aken1023/care-sch/internal/app/model"
)

// Archiver copies a saved record somewhere durable.
type Archiver interface {
	Archive(ctx context.Context, rec *model.PipelineRecord, paths *model.RecordPaths) ([]string, error)
}

// NopArchiver is used when archiving is disabled.
type NopArchiver struct{}

func (NopArchiver) Archive(context.Context, *model.PipelineRecord, *model.RecordPaths) ([]string, error) {
	return nil, nil
}

// MinioConfig describes the target bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// objectPutter is the subset of *minio.Client used for uploads.
type objectPutter interface {
	FPutObject(ctx context.Context, bucketName, objectName, filePath string, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

// MinioArchiver uploads each record file to <bucket>/<YYYYMMDD>/<HHMMSS>/<name>.
type MinioArchiver struct {
	client objectPutter
	bucket string
	logger *zap.Logger
}

// NewMinioArchiver connects to the endpoint and creates the bucket if needed.
func NewMinioArchiver(ctx context.Context, cfg MinioConfig, logger *zap.Logger) (*MinioArchiver, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
		logger.Info("created archive bucket", zap.String("bucket", cfg.Bucket))
	}

	return &MinioArchiver{client: client, bucket: cfg.Bucket, logger: logger}, nil
}

// ObjectKey is YYYYMMDD/HHMMSS/<file name>.
func ObjectKey(timestamp, localPath string) string {
	if len(timestamp) != len(model.TimestampLayout) {
		return path.Join("unknown", filepath.Base(localPath))
	}
	return path.Join(timestamp[:8], timestamp[9:], filepath.Base(localPath))
}

// Archive uploads the four record files and returns the object keys written.
// It stops at the first failed upload.
func (a *MinioArchiver) Archive(ctx context.Context, rec *model.PipelineRecord, paths *model.RecordPaths) ([]string, error) {
	logger := a.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	keys := make([]string, 0, 4)
	for _, local := range paths.All() {
		key := ObjectKey(rec.Timestamp, local)

		contentType := mime.TypeByExtension(filepath.Ext(local))
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		info, err := a.client.FPutObject(ctx, a.bucket, key, local, minio.PutObjectOptions{
			ContentType: contentType,
			UserMetadata: map[string]string{
				"record-timestamp": rec.Timestamp,
				"line-user-id":     rec.LineUserID,
			},
		})
		if err != nil {
			return keys, fmt.Errorf("failed to upload %s: %w", key, err)
		}
		logger.Debug("archived object", zap.String("key", key), zap.Int64("size", info.Size))
		keys = append(keys, key)
	}
	return keys, nil
}
