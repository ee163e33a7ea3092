package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/metrics"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/txn"
)

const (
	backendObjectStore = "s3"
	backendLocal       = "local"

	uploadConcurrency = 4
	deleteConcurrency = 8
)

// MediaRef is a stored file that has no media row yet
type MediaRef struct {
	URL      string
	MimeType string
	Size     int64
}

// MediaSynchronizer keeps media rows and the files they point at in step.
// Files are stored before the transaction that references them opens; rows
// are deleted inside a transaction and their files removed after commit.
type MediaSynchronizer struct {
	objects client.ObjectStore
	local   *client.LocalStorage
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewMediaSynchronizer creates a synchronizer. A nil objects store keeps
// uploads on local disk and records their staged path as the URL.
func NewMediaSynchronizer(objects client.ObjectStore, local *client.LocalStorage, m *metrics.Metrics, logger *zap.Logger) *MediaSynchronizer {
	return &MediaSynchronizer{
		objects: objects,
		local:   local,
		metrics: m,
		logger:  logger,
	}
}

func (s *MediaSynchronizer) backend() string {
	if s.objects == nil {
		return backendLocal
	}
	return backendObjectStore
}

// Prepare stores staged files and returns their references. Staged copies are
// removed once uploaded. If any upload fails, the objects already uploaded and
// every staged file are removed before the error is returned.
func (s *MediaSynchronizer) Prepare(ctx context.Context, files []client.StagedFile) ([]MediaRef, error) {
	if len(files) == 0 {
		return nil, nil
	}

	if s.objects == nil {
		refs := make([]MediaRef, len(files))
		for i, f := range files {
			refs[i] = MediaRef{URL: f.Path, MimeType: f.MimeType, Size: f.Size}
		}
		s.metrics.RecordMediaStored(backendLocal, len(refs))
		return refs, nil
	}

	results := make([]*client.UploadResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			res, err := s.objects.Upload(gctx, f.Path)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.OriginalName, err)
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()

	refs := make([]MediaRef, 0, len(files))
	for i, res := range results {
		if res == nil {
			continue
		}
		mimeType := res.MimeType
		if mimeType == "" {
			mimeType = files[i].MimeType
		}
		refs = append(refs, MediaRef{URL: res.URL, MimeType: mimeType, Size: res.Size})
	}

	s.DeleteUploadedFiles(ctx, files)

	if err != nil {
		s.logger.Warn("Media upload failed, discarding uploaded objects",
			zap.Int("uploaded", len(refs)),
			zap.Int("requested", len(files)),
			zap.Error(err))
		s.DiscardRefs(ctx, refs)
		return nil, err
	}

	s.metrics.RecordMediaStored(backendObjectStore, len(refs))
	return refs, nil
}

// CreateMediaRecords inserts one media row per reference
func (s *MediaSynchronizer) CreateMediaRecords(ctx context.Context, tx repository.Store, refs []MediaRef, projectID uuid.UUID, updateID *uuid.UUID) ([]*domain.Media, error) {
	if len(refs) == 0 {
		return nil, nil
	}
	media := make([]*domain.Media, len(refs))
	for i, ref := range refs {
		pid := projectID
		media[i] = &domain.Media{
			URL:       ref.URL,
			MimeType:  ref.MimeType,
			Size:      ref.Size,
			ProjectID: &pid,
			UpdateID:  updateID,
		}
	}
	if err := tx.Media().CreateBatch(ctx, media); err != nil {
		return nil, err
	}
	return media, nil
}

// ReplaceMedia removes the owner's current files and rows and inserts rows for refs.
// The external deletes run inside the caller's transaction and are not undone
// if it later rolls back.
func (s *MediaSynchronizer) ReplaceMedia(ctx context.Context, tx repository.Store, owner repository.MediaOwner, refs []MediaRef) ([]*domain.Media, error) {
	existing, err := tx.Media().FindByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if failed := s.Discard(ctx, existing); failed > 0 {
		s.logger.Warn("Some replaced media files were not removed",
			zap.String("project_id", owner.ProjectID.String()),
			zap.Int("failed", failed))
	}
	if _, err := tx.Media().DeleteByIDs(ctx, mediaIDs(existing)); err != nil {
		return nil, err
	}
	return s.CreateMediaRecords(ctx, tx, refs, owner.ProjectID, owner.UpdateID)
}

// DeleteMediaFiles deletes the rows of media inside tx and schedules removal
// of their files for after commit.
func (s *MediaSynchronizer) DeleteMediaFiles(ctx context.Context, tx repository.Store, media []*domain.Media, w *txn.Work) error {
	if len(media) == 0 {
		return nil
	}
	if _, err := tx.Media().DeleteByIDs(ctx, mediaIDs(media)); err != nil {
		return err
	}
	w.AfterCommit("discard_media", func(ctx context.Context) error {
		if failed := s.Discard(ctx, media); failed > 0 {
			return fmt.Errorf("%d of %d media files were not removed", failed, len(media))
		}
		return nil
	})
	return nil
}

// DeleteUploadedFiles removes staged files, logging any that could not be removed
func (s *MediaSynchronizer) DeleteUploadedFiles(ctx context.Context, files []client.StagedFile) {
	for _, f := range files {
		if err := s.local.Remove(f.Path); err != nil {
			s.logger.Warn("Failed to remove staged file",
				zap.String("path", f.Path),
				zap.Error(err))
		}
	}
}

// DiscardRefs removes stored files that never got a media row
func (s *MediaSynchronizer) DiscardRefs(ctx context.Context, refs []MediaRef) {
	urls := make([]string, len(refs))
	for i, ref := range refs {
		urls[i] = ref.URL
	}
	if failed := s.discardURLs(ctx, urls); failed > 0 {
		s.logger.Warn("Some orphaned media files were not removed", zap.Int("failed", failed))
	}
}

// Discard removes the files behind media and returns how many removals failed.
// Every file is attempted regardless of earlier failures.
func (s *MediaSynchronizer) Discard(ctx context.Context, media []*domain.Media) int {
	urls := make([]string, len(media))
	for i, m := range media {
		urls[i] = m.URL
	}
	return s.discardURLs(ctx, urls)
}

func (s *MediaSynchronizer) discardURLs(ctx context.Context, urls []string) int {
	var failed int64
	var g errgroup.Group
	g.SetLimit(deleteConcurrency)
	for _, u := range urls {
		u := u
		g.Go(func() error {
			backend, err := s.removeFile(ctx, u)
			if err != nil {
				atomic.AddInt64(&failed, 1)
				s.metrics.RecordMediaCleanupFailure(backend)
				s.logger.Warn("Failed to remove media file",
					zap.String("url", u),
					zap.String("backend", backend),
					zap.Error(err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return int(failed)
}

func (s *MediaSynchronizer) removeFile(ctx context.Context, u string) (string, error) {
	if !domain.IsRemoteURL(u) {
		return backendLocal, s.local.Remove(u)
	}
	if s.objects == nil {
		return backendObjectStore, fmt.Errorf("no object store configured for %s", u)
	}
	id := domain.ObjectIDFromURL(u)
	if id == "" {
		return backendObjectStore, fmt.Errorf("cannot derive object id from %s", u)
	}
	return backendObjectStore, s.objects.Delete(ctx, id)
}

func mediaIDs(media []*domain.Media) []uuid.UUID {
	ids := make([]uuid.UUID, len(media))
	for i, m := range media {
		ids[i] = m.ID
	}
	return ids
}
