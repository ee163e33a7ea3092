package client

import (
	"context"
	"time"
)

// UploadResult describes an object stored in the object store
type UploadResult struct {
	URL      string
	MimeType string
	Size     int64
}

// ObjectStore is the external media storage. Objects are addressed by the
// id that forms the last segment of their URL.
type ObjectStore interface {
	Upload(ctx context.Context, localPath string) (*UploadResult, error)
	Delete(ctx context.Context, objectID string) error
}

// CallRecorder records calls made to the object store
type CallRecorder interface {
	RecordObjectStoreCall(operation string, statusCode int, duration time.Duration, err error)
}
