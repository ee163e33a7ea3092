package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"barangay-projects-api/internal/authz"
	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/query"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/txn"
)

// MediaService manages the media of a project or of one of its updates
type MediaService interface {
	AddMedia(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error)
	ListMedia(ctx context.Context, owner repository.MediaOwner, page, limit string) (*dto.PaginatedMediaResponse, error)
	ReplaceMedia(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error)
	DeleteMedia(ctx context.Context, projectID, mediaID uuid.UUID, actor domain.Identity) error
	DeleteAllMedia(ctx context.Context, owner repository.MediaOwner, actor domain.Identity) (int64, error)
}

type mediaServiceImpl struct {
	coord  *txn.Coordinator
	store  repository.Store
	media  *MediaSynchronizer
	logger *zap.Logger
}

// NewMediaService creates a new instance of MediaService
func NewMediaService(coord *txn.Coordinator, media *MediaSynchronizer, logger *zap.Logger) MediaService {
	return &mediaServiceImpl{
		coord:  coord,
		store:  coord.Store(),
		media:  media,
		logger: logger,
	}
}

// resolveOwner checks the owner exists and returns its project
func (s *mediaServiceImpl) resolveOwner(ctx context.Context, owner repository.MediaOwner) (*domain.Project, error) {
	project, err := s.store.Projects().FindByID(ctx, owner.ProjectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}
	if owner.IsUpdate() {
		if _, err := s.store.Updates().FindByID(ctx, owner.ProjectID, *owner.UpdateID); err != nil {
			return nil, lookupError(err, "Update")
		}
	}
	return project, nil
}

func (s *mediaServiceImpl) managedOwner(ctx context.Context, owner repository.MediaOwner, actor domain.Identity) error {
	project, err := s.resolveOwner(ctx, owner)
	if err != nil {
		return err
	}
	return authz.CheckPermissions(actor, project.CreatedBy)
}

func (s *mediaServiceImpl) currentMedia(ctx context.Context, owner repository.MediaOwner) ([]dto.MediaResponse, error) {
	media, err := s.store.Media().FindByOwner(ctx, owner)
	if err != nil {
		return nil, response.NewInternalError("Failed to load media", err)
	}
	return toMediaResponses(media), nil
}

// AddMedia appends files to the owner's media and returns the full set.
// With no files it only returns the current set.
func (s *mediaServiceImpl) AddMedia(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error) {
	if err := s.managedOwner(ctx, owner, actor); err != nil {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, err
	}
	if len(files) == 0 {
		return s.currentMedia(ctx, owner)
	}

	refs, err := s.media.Prepare(ctx, files)
	if err != nil {
		return nil, response.NewInternalError("Failed to store media", err)
	}

	err = s.coord.Run(ctx, "add_media", func(tx repository.Store, w *txn.Work) error {
		w.OnRollback("discard_media", func(ctx context.Context) error {
			s.media.DiscardRefs(ctx, refs)
			return nil
		})
		_, err := s.media.CreateMediaRecords(ctx, tx, refs, owner.ProjectID, owner.UpdateID)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to add media", zap.String("project_id", owner.ProjectID.String()), zap.Error(err))
		return nil, asAppError(err, "Failed to add media")
	}
	return s.currentMedia(ctx, owner)
}

// ListMedia returns one page of the owner's media
func (s *mediaServiceImpl) ListMedia(ctx context.Context, owner repository.MediaOwner, page, limit string) (*dto.PaginatedMediaResponse, error) {
	p, err := query.ParsePage(page, limit)
	if err != nil {
		return nil, queryError(err)
	}
	if _, err := s.resolveOwner(ctx, owner); err != nil {
		return nil, err
	}

	media, total, err := s.store.Media().FindPageByOwner(ctx, owner, p)
	if err != nil {
		return nil, response.NewInternalError("Failed to list media", err)
	}
	return &dto.PaginatedMediaResponse{
		Media:      toMediaResponses(media),
		TotalCount: total,
		Page:       p.Number,
		Limit:      p.Limit,
	}, nil
}

// ReplaceMedia swaps the owner's media for the uploaded files. With no files
// nothing changes.
func (s *mediaServiceImpl) ReplaceMedia(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error) {
	if err := s.managedOwner(ctx, owner, actor); err != nil {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, err
	}
	if len(files) == 0 {
		return s.currentMedia(ctx, owner)
	}

	refs, err := s.media.Prepare(ctx, files)
	if err != nil {
		return nil, response.NewInternalError("Failed to store media", err)
	}

	err = s.coord.Run(ctx, "replace_media", func(tx repository.Store, w *txn.Work) error {
		w.OnRollback("discard_media", func(ctx context.Context) error {
			s.media.DiscardRefs(ctx, refs)
			return nil
		})
		_, err := s.media.ReplaceMedia(ctx, tx, owner, refs)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to replace media", zap.String("project_id", owner.ProjectID.String()), zap.Error(err))
		return nil, asAppError(err, "Failed to replace media")
	}
	return s.currentMedia(ctx, owner)
}

// DeleteMedia removes one media item of a project
func (s *mediaServiceImpl) DeleteMedia(ctx context.Context, projectID, mediaID uuid.UUID, actor domain.Identity) error {
	if err := s.managedOwner(ctx, repository.MediaOwner{ProjectID: projectID}, actor); err != nil {
		return err
	}
	m, err := s.store.Media().FindByID(ctx, mediaID)
	if err != nil {
		return lookupError(err, "Media")
	}
	if m.ProjectID == nil || *m.ProjectID != projectID {
		return response.NewNotFoundError("Media not found", "")
	}

	err = s.coord.Run(ctx, "delete_media", func(tx repository.Store, w *txn.Work) error {
		return s.media.DeleteMediaFiles(ctx, tx, []*domain.Media{m}, w)
	})
	if err != nil {
		return asAppError(err, "Failed to delete media")
	}
	return nil
}

// DeleteAllMedia removes every media item of the owner
func (s *mediaServiceImpl) DeleteAllMedia(ctx context.Context, owner repository.MediaOwner, actor domain.Identity) (int64, error) {
	if err := s.managedOwner(ctx, owner, actor); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.coord.Run(ctx, "delete_all_media", func(tx repository.Store, w *txn.Work) error {
		media, err := tx.Media().FindByOwner(ctx, owner)
		if err != nil {
			return err
		}
		deleted = int64(len(media))
		return s.media.DeleteMediaFiles(ctx, tx, media, w)
	})
	if err != nil {
		s.logger.Error("Failed to delete media", zap.String("project_id", owner.ProjectID.String()), zap.Error(err))
		return 0, asAppError(err, "Failed to delete media")
	}
	return deleted, nil
}
