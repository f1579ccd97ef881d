package checks

import (
	"context"
	"fmt"
	"time"

	"inventory-manager/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// SnapshotReport describes the snapshot object in the storage bucket.
type SnapshotReport struct {
	Bucket       string    `json:"bucket"`
	BucketExists bool      `json:"bucket_exists"`
	Object       string    `json:"object"`
	Present      bool      `json:"present"`
	Size         int64     `json:"size,omitempty"`
	LastModified time.Time `json:"last_modified,omitempty"`
}

// CheckSnapshot reports whether the bucket and the snapshot object exist.
func CheckSnapshot(ctx context.Context, client storage.Client, bucket, object string) (*SnapshotReport, error) {
	if client == nil {
		return nil, fmt.Errorf("storage client is nil")
	}
	report := &SnapshotReport{Bucket: bucket, Object: object}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		return report, nil
	}

	opts := minio.ListObjectsOptions{
		Prefix:    object,
		Recursive: false,
		MaxKeys:   1,
	}
	for info := range client.ListObjects(ctx, bucket, opts) {
		if info.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", object, info.Err)
		}
		if info.Key != object {
			continue
		}
		report.Present = true
		report.Size = info.Size
		report.LastModified = info.LastModified
		break
	}

	return report, nil
}

// FixBucket creates the snapshot bucket.
func FixBucket(ctx context.Context, client storage.Client, bucket string, logger *zap.Logger) error {
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
