package job

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/metrics"
)

// ReferencedURLFinder reports which stored URLs are still attached to media rows
type ReferencedURLFinder interface {
	FindReferencedURLs(ctx context.Context, urls []string) (map[string]bool, error)
}

// StagingSweepJob removes staged upload files that no media row references.
// Files are left behind when a process dies between staging and commit.
type StagingSweepJob struct {
	storage    *client.LocalStorage
	media      ReferencedURLFinder
	staleAfter time.Duration
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// NewStagingSweepJob creates a new StagingSweepJob. Only files older than
// staleAfter are considered, so uploads still in flight are never touched.
func NewStagingSweepJob(
	storage *client.LocalStorage,
	media ReferencedURLFinder,
	staleAfter time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *StagingSweepJob {
	return &StagingSweepJob{
		storage:    storage,
		media:      media,
		staleAfter: staleAfter,
		metrics:    m,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one sweep
func (j *StagingSweepJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	removed, err := j.Sweep(ctx)
	if err != nil {
		j.logger.Error("Staging sweep failed", zap.Error(err))
		return
	}
	j.logger.Info("Staging sweep completed", zap.Int("removed", removed))
}

// Sweep removes unreferenced stale files and returns how many were removed
func (j *StagingSweepJob) Sweep(ctx context.Context) (int, error) {
	stale, err := j.storage.StaleFiles(j.now().Add(-j.staleAfter))
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	referenced, err := j.media.FindReferencedURLs(ctx, stale)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, path := range stale {
		if referenced[path] {
			continue
		}
		if err := j.storage.Remove(path); err != nil {
			j.logger.Warn("Failed to remove stale staged file",
				zap.String("path", path),
				zap.Error(err),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		j.metrics.AddStagedFilesSwept(removed)
	}
	return removed, nil
}

// Schedule registers the job on a new cron scheduler and starts it.
// The caller stops the returned scheduler on shutdown.
func (j *StagingSweepJob) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New()
	if _, err := c.AddJob(spec, j); err != nil {
		return nil, err
	}
	c.Start()
	j.logger.Info("Staging sweep scheduled", zap.String("schedule", spec))
	return c, nil
}
