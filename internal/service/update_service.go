package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"barangay-projects-api/internal/authz"
	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/metrics"
	"barangay-projects-api/internal/query"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/txn"
)

// UpdateService defines the interface for progress update business logic
type UpdateService interface {
	CreateUpdate(ctx context.Context, projectID uuid.UUID, req *dto.CreateUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error)
	ListUpdates(ctx context.Context, projectID uuid.UUID, page, limit string) (*dto.PaginatedUpdatesResponse, error)
	GetUpdate(ctx context.Context, projectID, updateID uuid.UUID) (*dto.UpdateResponse, error)
	EditUpdate(ctx context.Context, projectID, updateID uuid.UUID, req *dto.EditUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error)
	DeleteUpdate(ctx context.Context, projectID, updateID uuid.UUID, actor domain.Identity) error
	DeleteAllUpdates(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (int64, error)
}

type updateServiceImpl struct {
	coord   *txn.Coordinator
	store   repository.Store
	media   *MediaSynchronizer
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewUpdateService creates a new instance of UpdateService
func NewUpdateService(coord *txn.Coordinator, media *MediaSynchronizer, m *metrics.Metrics, logger *zap.Logger) UpdateService {
	return &updateServiceImpl{
		coord:   coord,
		store:   coord.Store(),
		media:   media,
		metrics: m,
		logger:  logger,
	}
}

// managedProject loads a project and checks the actor may modify it
func (s *updateServiceImpl) managedProject(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (*domain.Project, error) {
	project, err := s.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}
	if err := authz.CheckPermissions(actor, project.CreatedBy); err != nil {
		return nil, err
	}
	return project, nil
}

// applyProgress moves the project to the status and progress implied by an
// update and appends a history entry.
func applyProgress(ctx context.Context, tx repository.Store, project *domain.Project, updateID uuid.UUID, progress int, remarks string, actor domain.Identity) error {
	status, progress := domain.DeriveFromUpdateProgress(progress)
	fields := map[string]interface{}{
		"status":   status,
		"progress": progress,
	}
	if status == domain.ProjectStatusCompleted && project.CompletionDate == nil {
		now := time.Now().UTC()
		fields["completion_date"] = &now
	}
	if err := tx.Projects().Update(ctx, project, fields); err != nil {
		return err
	}
	project.Status, project.Progress = status, progress
	uid := updateID
	return tx.History().Create(ctx, newHistory(project, &uid, actor, remarks))
}

// CreateUpdate records a progress update with its media and advances the project
func (s *updateServiceImpl) CreateUpdate(ctx context.Context, projectID uuid.UUID, req *dto.CreateUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error) {
	project, err := s.managedProject(ctx, projectID, actor)
	if err != nil {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, err
	}
	if req.Progress == nil || !domain.ValidProgress(*req.Progress) {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, response.NewValidationError("Progress must be between 0 and 100", "")
	}
	if strings.TrimSpace(req.Remarks) == "" {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, response.NewValidationError("Remarks are required", "")
	}

	refs, err := s.media.Prepare(ctx, files)
	if err != nil {
		return nil, response.NewInternalError("Failed to store media", err)
	}

	update := &domain.Update{
		ProjectID: projectID,
		Remarks:   req.Remarks,
		Progress:  *req.Progress,
	}
	err = s.coord.Run(ctx, "create_update", func(tx repository.Store, w *txn.Work) error {
		w.OnRollback("discard_media", func(ctx context.Context) error {
			s.media.DiscardRefs(ctx, refs)
			return nil
		})
		if err := tx.Updates().Create(ctx, update); err != nil {
			return err
		}
		if _, err := s.media.CreateMediaRecords(ctx, tx, refs, projectID, &update.ID); err != nil {
			return err
		}
		return applyProgress(ctx, tx, project, update.ID, update.Progress, update.Remarks, actor)
	})
	if err != nil {
		s.logger.Error("Failed to create update", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, asAppError(err, "Failed to create update")
	}

	s.metrics.IncrementUpdateCreated()
	s.logger.Info("Update created",
		zap.String("project_id", projectID.String()),
		zap.String("update_id", update.ID.String()),
		zap.Int("progress", update.Progress))

	return s.GetUpdate(ctx, projectID, update.ID)
}

// ListUpdates returns one page of a project's updates, oldest first
func (s *updateServiceImpl) ListUpdates(ctx context.Context, projectID uuid.UUID, page, limit string) (*dto.PaginatedUpdatesResponse, error) {
	p, err := query.ParsePage(page, limit)
	if err != nil {
		return nil, queryError(err)
	}
	if _, err := s.store.Projects().FindByID(ctx, projectID); err != nil {
		return nil, lookupError(err, "Project")
	}

	updates, total, err := s.store.Updates().FindByProject(ctx, projectID, p)
	if err != nil {
		return nil, response.NewInternalError("Failed to list updates", err)
	}
	out := make([]*dto.UpdateResponse, len(updates))
	for i, u := range updates {
		out[i] = toUpdateResponse(u)
	}
	return &dto.PaginatedUpdatesResponse{
		Updates:    out,
		TotalCount: total,
		Page:       p.Number,
		Limit:      p.Limit,
	}, nil
}

// GetUpdate returns one update of a project
func (s *updateServiceImpl) GetUpdate(ctx context.Context, projectID, updateID uuid.UUID) (*dto.UpdateResponse, error) {
	update, err := s.store.Updates().FindByID(ctx, projectID, updateID)
	if err != nil {
		return nil, lookupError(err, "Update")
	}
	return toUpdateResponse(update), nil
}

// EditUpdate overwrites the supplied fields and appends any new media.
// A new progress value moves the project the same way a new update does.
func (s *updateServiceImpl) EditUpdate(ctx context.Context, projectID, updateID uuid.UUID, req *dto.EditUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error) {
	project, err := s.managedProject(ctx, projectID, actor)
	if err != nil {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, err
	}
	update, err := s.store.Updates().FindByID(ctx, projectID, updateID)
	if err != nil {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, lookupError(err, "Update")
	}
	if req.Progress != nil && !domain.ValidProgress(*req.Progress) {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, response.NewValidationError("Progress must be between 0 and 100", "")
	}

	fields := make(map[string]interface{})
	if req.Remarks != nil && *req.Remarks != update.Remarks {
		fields["remarks"] = *req.Remarks
	}
	if req.Progress != nil && *req.Progress != update.Progress {
		fields["progress"] = *req.Progress
	}
	// A submitted progress always re-derives the project state, even when the
	// update already holds that value.
	if len(fields) == 0 && len(files) == 0 && req.Progress == nil {
		return toUpdateResponse(update), nil
	}

	refs, err := s.media.Prepare(ctx, files)
	if err != nil {
		return nil, response.NewInternalError("Failed to store media", err)
	}

	err = s.coord.Run(ctx, "edit_update", func(tx repository.Store, w *txn.Work) error {
		w.OnRollback("discard_media", func(ctx context.Context) error {
			s.media.DiscardRefs(ctx, refs)
			return nil
		})
		if len(fields) > 0 {
			if err := tx.Updates().Update(ctx, update, fields); err != nil {
				return err
			}
		}
		if _, err := s.media.CreateMediaRecords(ctx, tx, refs, projectID, &update.ID); err != nil {
			return err
		}
		if req.Progress != nil {
			remarks := update.Remarks
			if req.Remarks != nil {
				remarks = *req.Remarks
			}
			return applyProgress(ctx, tx, project, update.ID, *req.Progress, remarks, actor)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to edit update", zap.String("update_id", updateID.String()), zap.Error(err))
		return nil, asAppError(err, "Failed to edit update")
	}

	return s.GetUpdate(ctx, projectID, updateID)
}

// DeleteUpdate removes an update and its media. The project's status and
// progress are left as they are.
func (s *updateServiceImpl) DeleteUpdate(ctx context.Context, projectID, updateID uuid.UUID, actor domain.Identity) error {
	if _, err := s.managedProject(ctx, projectID, actor); err != nil {
		return err
	}
	update, err := s.store.Updates().FindByID(ctx, projectID, updateID)
	if err != nil {
		return lookupError(err, "Update")
	}

	media := make([]*domain.Media, len(update.Media))
	for i := range update.Media {
		media[i] = &update.Media[i]
	}

	err = s.coord.Run(ctx, "delete_update", func(tx repository.Store, w *txn.Work) error {
		if err := s.media.DeleteMediaFiles(ctx, tx, media, w); err != nil {
			return err
		}
		return tx.Updates().Delete(ctx, updateID)
	})
	if err != nil {
		s.logger.Error("Failed to delete update", zap.String("update_id", updateID.String()), zap.Error(err))
		return asAppError(err, "Failed to delete update")
	}
	return nil
}

// DeleteAllUpdates removes every update of a project with their media
func (s *updateServiceImpl) DeleteAllUpdates(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (int64, error) {
	if _, err := s.managedProject(ctx, projectID, actor); err != nil {
		return 0, err
	}

	var deleted int64
	err := s.coord.Run(ctx, "delete_all_updates", func(tx repository.Store, w *txn.Work) error {
		ids, err := tx.Updates().FindIDsByProject(ctx, projectID)
		if err != nil || len(ids) == 0 {
			return err
		}
		media, err := tx.Media().FindByUpdates(ctx, ids)
		if err != nil {
			return err
		}
		if err := s.media.DeleteMediaFiles(ctx, tx, media, w); err != nil {
			return err
		}
		deleted, err = tx.Updates().DeleteByProject(ctx, projectID)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to delete updates", zap.String("project_id", projectID.String()), zap.Error(err))
		return 0, asAppError(err, "Failed to delete updates")
	}
	return deleted, nil
}
