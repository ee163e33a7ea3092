package client

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
)

// MockObjectStore implements ObjectStore for tests without AWS credentials
type MockObjectStore struct {
	BaseURL string

	// Optional function overrides for custom test behavior
	UploadFunc func(ctx context.Context, localPath string) (*UploadResult, error)
	DeleteFunc func(ctx context.Context, objectID string) error

	mu       sync.Mutex
	uploaded []string
	deleted  []string
}

// NewMockObjectStore creates a mock that accepts every call
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{BaseURL: "https://cdn.test/media"}
}

func (m *MockObjectStore) Upload(ctx context.Context, localPath string) (*UploadResult, error) {
	if m.UploadFunc != nil {
		res, err := m.UploadFunc(ctx, localPath)
		if err == nil && res != nil {
			m.mu.Lock()
			m.uploaded = append(m.uploaded, res.URL)
			m.mu.Unlock()
		}
		return res, err
	}

	var size int64
	if info, err := os.Stat(localPath); err == nil {
		size = info.Size()
	}
	url := fmt.Sprintf("%s/%s", m.BaseURL, uuid.New().String())

	m.mu.Lock()
	m.uploaded = append(m.uploaded, url)
	m.mu.Unlock()
	return &UploadResult{URL: url, MimeType: "application/octet-stream", Size: size}, nil
}

func (m *MockObjectStore) Delete(ctx context.Context, objectID string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, objectID)
	m.mu.Unlock()

	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, objectID)
	}
	return nil
}

// Uploaded returns the URLs of successful uploads
func (m *MockObjectStore) Uploaded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploaded...)
}

// Deleted returns every object id a delete was attempted for
func (m *MockObjectStore) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}
