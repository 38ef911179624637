package store

import (
	"context"
	"fmt"
)

// Store is the interface of the imagery object store
type Store interface {
	// GetObject returns the full content of bucket/key.
	// Returns ErrObjectNotFound when the object does not exist.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)

	// DownloadToFile downloads bucket/key to localPath
	DownloadToFile(ctx context.Context, bucket, key, localPath string) error

	// ListKeys returns every key under prefix, keeping only those ending with
	// one of the given suffixes (all keys when no suffix is given)
	ListKeys(ctx context.Context, bucket, prefix string, suffixes ...string) ([]string, error)
}

// ErrObjectNotFound is returned by GetObject when the object does not exist
type ErrObjectNotFound struct {
	Bucket string
	Key    string
}

func (e ErrObjectNotFound) Error() string {
	return fmt.Sprintf("object not found: s3://%s/%s", e.Bucket, e.Key)
}
