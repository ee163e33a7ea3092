package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barangay-projects-api/internal/config"
	"barangay-projects-api/internal/domain"
)

type recordedCall struct {
	operation string
	status    int
	err       error
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) RecordObjectStoreCall(operation string, statusCode int, duration time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{operation: operation, status: statusCode, err: err})
}

type fakeS3 struct {
	mu       sync.Mutex
	requests []string
	bodies   map[string]string
	status   int
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	if r.Method == http.MethodPut {
		f.bodies[r.URL.Path] = string(body)
	}
	status := f.status
	f.mu.Unlock()

	if status != 0 {
		w.WriteHeader(status)
		return
	}
	if r.Method == http.MethodDelete {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("ETag", `"etag"`)
	w.WriteHeader(http.StatusOK)
}

func newTestS3Client(t *testing.T, handler http.Handler, recorder CallRecorder) (*S3Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewS3Client(context.Background(), config.S3Config{
		Bucket:    "media-bucket",
		Region:    "ap-southeast-1",
		Endpoint:  server.URL,
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
		KeyPrefix: "media",
	}, recorder)
	require.NoError(t, err)
	return c, server
}

func TestNewS3Client_ValidationErrors(t *testing.T) {
	tests := []struct {
		name        string
		cfg         config.S3Config
		errContains string
	}{
		{"missing bucket", config.S3Config{Region: "ap-southeast-1"}, "bucket"},
		{"missing region", config.S3Config{Bucket: "b"}, "region"},
		{"endpoint without credentials", config.S3Config{Bucket: "b", Region: "r", Endpoint: "http://minio:9000"}, "access key"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3Client(context.Background(), tt.cfg, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestS3Client_UploadAndDelete(t *testing.T) {
	fake := &fakeS3{bodies: map[string]string{}}
	recorder := &fakeRecorder{}
	c, server := newTestS3Client(t, fake, recorder)

	local := filepath.Join(t.TempDir(), "report.txt")
	require.NoError(t, os.WriteFile(local, []byte("progress report"), 0o644))

	res, err := c.Upload(context.Background(), local)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, server.URL+"/media-bucket/media/"))
	assert.Equal(t, int64(len("progress report")), res.Size)
	assert.Contains(t, res.MimeType, "text/plain")

	objectID := domain.ObjectIDFromURL(res.URL)
	require.NotEmpty(t, objectID)
	require.NoError(t, c.Delete(context.Background(), objectID))

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Len(t, fake.requests, 2)
	assert.Equal(t, "PUT /media-bucket/media/"+objectID, fake.requests[0])
	assert.Equal(t, "DELETE /media-bucket/media/"+objectID, fake.requests[1])

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.Len(t, recorder.calls, 2)
	assert.Equal(t, "upload", recorder.calls[0].operation)
	assert.Equal(t, 200, recorder.calls[0].status)
}

func TestS3Client_DeleteFailureRecordsStatus(t *testing.T) {
	fake := &fakeS3{bodies: map[string]string{}, status: http.StatusForbidden}
	recorder := &fakeRecorder{}
	c, _ := newTestS3Client(t, fake, recorder)

	err := c.Delete(context.Background(), "abc")
	require.Error(t, err)

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	require.NotEmpty(t, recorder.calls)
	assert.Equal(t, http.StatusForbidden, recorder.calls[len(recorder.calls)-1].status)
}

func TestS3Client_DeleteRequiresID(t *testing.T) {
	c, _ := newTestS3Client(t, &fakeS3{bodies: map[string]string{}}, nil)
	assert.Error(t, c.Delete(context.Background(), ""))
}

func TestS3Client_UploadMissingFile(t *testing.T) {
	c, _ := newTestS3Client(t, &fakeS3{bodies: map[string]string{}}, nil)
	_, err := c.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}

func TestGetFileURL(t *testing.T) {
	c := &S3Client{bucket: "b", region: "ap-southeast-1"}
	assert.Equal(t, "https://b.s3.ap-southeast-1.amazonaws.com/media/x", c.GetFileURL("media/x"))

	c.endpoint = "http://localhost:9000/"
	assert.Equal(t, "http://localhost:9000/b/media/x", c.GetFileURL("media/x"))

	c.publicBaseURL = "https://cdn.example"
	assert.Equal(t, "https://cdn.example/media/x", c.GetFileURL("media/x"))
}
