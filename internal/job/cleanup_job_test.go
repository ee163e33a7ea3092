package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/metrics"
)

// MockURLFinder is a mock implementation of ReferencedURLFinder
type MockURLFinder struct {
	mock.Mock
}

func (m *MockURLFinder) FindReferencedURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	args := m.Called(ctx, urls)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

type sweepFixture struct {
	storage *client.LocalStorage
	finder  *MockURLFinder
	metrics *metrics.Metrics
	job     *StagingSweepJob
}

func newSweepFixture(t *testing.T) *sweepFixture {
	t.Helper()
	storage, err := client.NewLocalStorage(t.TempDir(), 0)
	require.NoError(t, err)
	m := metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop())
	finder := new(MockURLFinder)
	return &sweepFixture{
		storage: storage,
		finder:  finder,
		metrics: m,
		job:     NewStagingSweepJob(storage, finder, time.Hour, m, zap.NewNop()),
	}
}

func (f *sweepFixture) file(t *testing.T, name string, age time.Duration) string {
	t.Helper()
	path := filepath.Join(f.storage.Dir(), name)
	require.NoError(t, os.WriteFile(path, []byte(name), 0o644))
	mtime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(path, mtime, mtime))
	return path
}

func TestSweep_RemovesOnlyStaleUnreferencedFiles(t *testing.T) {
	f := newSweepFixture(t)
	orphan := f.file(t, "orphan.jpg", 2*time.Hour)
	attached := f.file(t, "attached.jpg", 3*time.Hour)
	fresh := f.file(t, "fresh.jpg", time.Minute)

	f.finder.On("FindReferencedURLs", mock.Anything, mock.MatchedBy(func(urls []string) bool {
		return assert.ElementsMatch(t, []string{orphan, attached}, urls)
	})).Return(map[string]bool{attached: true}, nil)

	removed, err := f.job.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, orphan)
	assert.FileExists(t, attached)
	assert.FileExists(t, fresh)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.StagedFilesSweptTotal))
	f.finder.AssertExpectations(t)
}

func TestSweep_NothingStale(t *testing.T) {
	f := newSweepFixture(t)
	f.file(t, "fresh.jpg", time.Minute)

	removed, err := f.job.Sweep(context.Background())

	require.NoError(t, err)
	assert.Zero(t, removed)
	f.finder.AssertNotCalled(t, "FindReferencedURLs", mock.Anything, mock.Anything)
}

func TestSweep_LookupFailureKeepsFiles(t *testing.T) {
	f := newSweepFixture(t)
	orphan := f.file(t, "orphan.jpg", 2*time.Hour)
	f.finder.On("FindReferencedURLs", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	removed, err := f.job.Sweep(context.Background())

	assert.Error(t, err)
	assert.Zero(t, removed)
	assert.FileExists(t, orphan)
}

func TestSweep_UsesInjectedClock(t *testing.T) {
	f := newSweepFixture(t)
	recent := f.file(t, "recent.jpg", 10*time.Minute)
	f.job.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	f.finder.On("FindReferencedURLs", mock.Anything, []string{recent}).Return(map[string]bool{}, nil)

	removed, err := f.job.Sweep(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	assert.NoFileExists(t, recent)
}

func TestSchedule_RejectsBadSpec(t *testing.T) {
	f := newSweepFixture(t)

	_, err := f.job.Schedule("not a schedule")
	assert.Error(t, err)

	c, err := f.job.Schedule("@every 1h")
	require.NoError(t, err)
	c.Stop()
}
