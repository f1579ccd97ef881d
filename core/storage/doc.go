// Package storage provides an abstraction layer for object storage services.
//
// It wraps the MinIO Go client to provide a simplified interface for the
// operations the inventory snapshot needs. This abstraction supports both AWS
// S3 and self-hosted MinIO instances.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - MakeBucket: Creates a new bucket if needed.
//   - PutObject: Uploads content (with size and options).
//   - GetObject: Retrieves content as a stream.
//   - ListObjects: Lists objects in a bucket (supports prefix/recursive).
//
// ReadJSON and WriteJSON move JSON documents such as the inventory snapshot
// in and out of a bucket.
//
// # Usage
//
//	client, err := storage.NewClient(config)
//	var snap inventory.Snapshot
//	err = storage.ReadJSON(ctx, client, cfg.Bucket, cfg.SnapshotObject, &snap)
package storage
