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

// ProjectService defines the interface for project business logic
type ProjectService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest, files []client.StagedFile, actor domain.Identity) (*dto.ProjectResponse, error)
	ListProjects(ctx context.Context, params query.Params) (*dto.PaginatedProjectsResponse, error)
	GetProject(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (*dto.ProjectResponse, error)
	UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest, actor domain.Identity) (*dto.ProjectResponse, error)
	DeleteProject(ctx context.Context, projectID uuid.UUID, actor domain.Identity) error
	DeleteAllProjects(ctx context.Context, actor domain.Identity) (int64, error)
	GetProgressHistory(ctx context.Context, projectID uuid.UUID) ([]*dto.ProgressHistoryResponse, error)
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	coord   *txn.Coordinator
	store   repository.Store
	media   *MediaSynchronizer
	views   repository.ViewCache
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewProjectService creates a new instance of ProjectService. A nil views cache disables caching.
func NewProjectService(coord *txn.Coordinator, media *MediaSynchronizer, views repository.ViewCache, m *metrics.Metrics, logger *zap.Logger) ProjectService {
	if views == nil {
		views = repository.NoopViewCache()
	}
	return &projectServiceImpl{
		coord:   coord,
		store:   coord.Store(),
		media:   media,
		views:   views,
		metrics: m,
		logger:  logger,
	}
}

// resolveStatus applies the completion rules to a requested status and progress
func resolveStatus(status domain.ProjectStatus, progress int, statusGiven bool) (domain.ProjectStatus, int, error) {
	if status == domain.ProjectStatusCompleted {
		return status, domain.MaxProgress, nil
	}
	if progress == domain.MaxProgress {
		if statusGiven {
			return "", 0, response.NewValidationError("Progress 100 requires status completed",
				"status "+string(status)+" cannot have full progress")
		}
		return domain.ProjectStatusCompleted, domain.MaxProgress, nil
	}
	return status, progress, nil
}

// CreateProject stores the uploaded media and creates the project with its
// tags, barangays and media rows in one transaction. Staged files are removed
// on every path.
func (s *projectServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, files []client.StagedFile, actor domain.Identity) (*dto.ProjectResponse, error) {
	fail := func(err error) (*dto.ProjectResponse, error) {
		s.media.DeleteUploadedFiles(ctx, files)
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return fail(response.NewValidationError("Title is required", ""))
	}

	project := &domain.Project{
		Title:       title,
		Description: req.Description,
		Objectives:  req.Objectives,
		Status:      domain.ProjectStatusPending,
		CreatedBy:   actor.UserID,
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return fail(response.NewValidationError("Budget cannot be negative", ""))
		}
		project.Budget = *req.Budget
	}

	var err error
	if project.StartDate, err = parseDate("startDate", req.StartDate); err != nil {
		return fail(err)
	}
	if project.DueDate, err = parseDate("dueDate", req.DueDate); err != nil {
		return fail(err)
	}
	if project.CompletionDate, err = parseDate("completionDate", req.CompletionDate); err != nil {
		return fail(err)
	}
	if project.StartDate != nil && project.DueDate != nil && project.DueDate.Before(*project.StartDate) {
		return fail(response.NewValidationError("Due date cannot be before start date", ""))
	}

	statusGiven := req.Status != ""
	if statusGiven {
		st, ok := domain.ParseProjectStatus(req.Status)
		if !ok {
			return fail(response.NewValidationError("Invalid status", req.Status))
		}
		project.Status = st
	}
	if req.Progress != nil {
		if !domain.ValidProgress(*req.Progress) {
			return fail(response.NewValidationError("Progress must be between 0 and 100", ""))
		}
		project.Progress = *req.Progress
	}
	if project.Status, project.Progress, err = resolveStatus(project.Status, project.Progress, statusGiven); err != nil {
		return fail(err)
	}
	if project.Status == domain.ProjectStatusCompleted && project.CompletionDate == nil {
		now := time.Now().UTC()
		project.CompletionDate = &now
	}

	tagIDs, err := parseIDList("tag ids", req.TagIDs)
	if err != nil {
		return fail(err)
	}
	barangayIDs, err := parseIDList("barangay ids", req.BarangayIDs)
	if err != nil {
		return fail(err)
	}
	if barangayIDs, err = withActorBarangay(actor, barangayIDs); err != nil {
		return fail(err)
	}
	if project.Tags, project.Barangays, err = resolveReferences(ctx, s.store.References(), tagIDs, barangayIDs); err != nil {
		return fail(err)
	}

	refs, err := s.media.Prepare(ctx, files)
	if err != nil {
		return nil, response.NewInternalError("Failed to store media", err)
	}

	err = s.coord.Run(ctx, "create_project", func(tx repository.Store, w *txn.Work) error {
		w.OnRollback("discard_media", func(ctx context.Context) error {
			s.media.DiscardRefs(ctx, refs)
			return nil
		})
		if err := tx.Projects().Create(ctx, project); err != nil {
			return err
		}
		if _, err := s.media.CreateMediaRecords(ctx, tx, refs, project.ID, nil); err != nil {
			return err
		}
		return tx.History().Create(ctx, newHistory(project, nil, actor, ""))
	})
	if err != nil {
		s.logger.Error("Failed to create project", zap.Error(err))
		return nil, asAppError(err, "Failed to create project")
	}

	s.metrics.IncrementProjectCreated()
	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("created_by", actor.UserID.String()),
		zap.Int("media", len(refs)))

	return s.loadProject(ctx, project.ID)
}

func (s *projectServiceImpl) loadProject(ctx context.Context, projectID uuid.UUID) (*dto.ProjectResponse, error) {
	project, err := s.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}
	if err := s.attachCounts(ctx, []*domain.Project{project}); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectServiceImpl) attachCounts(ctx context.Context, projects []*domain.Project) error {
	ids := make([]uuid.UUID, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	counts, err := s.store.Engagement().Counts(ctx, ids)
	if err != nil {
		return response.NewInternalError("Failed to count engagement", err)
	}
	for _, p := range projects {
		c := counts[p.ID]
		p.ReactionCount = c.Reactions
		p.ReportCount = c.Reports
		p.CommentCount = c.Comments
	}
	return nil
}

// ListProjects returns one page of projects matching params
func (s *projectServiceImpl) ListProjects(ctx context.Context, params query.Params) (*dto.PaginatedProjectsResponse, error) {
	spec, err := query.Build(params)
	if err != nil {
		return nil, queryError(err)
	}

	projects, total, err := s.store.Projects().FindAll(ctx, spec)
	if err != nil {
		s.logger.Error("Failed to list projects", zap.Error(err))
		return nil, response.NewInternalError("Failed to list projects", err)
	}
	if err := s.attachCounts(ctx, projects); err != nil {
		return nil, err
	}

	out := make([]*dto.ProjectResponse, len(projects))
	for i, p := range projects {
		out[i] = toProjectResponse(p)
	}
	page := spec.Page()
	return &dto.PaginatedProjectsResponse{
		Projects:   out,
		TotalCount: total,
		Page:       page.Number,
		Limit:      page.Limit,
	}, nil
}

// GetProject returns a project and records the actor's first view of it
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (*dto.ProjectResponse, error) {
	project, err := s.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}

	if actor.UserID != uuid.Nil && !actor.Role.Has(domain.CapabilitySkipViewTracking) {
		counted, err := s.recordView(ctx, actor.UserID, projectID)
		if err != nil {
			return nil, err
		}
		if counted {
			project.Views++
		}
	}

	if err := s.attachCounts(ctx, []*domain.Project{project}); err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectServiceImpl) recordView(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	seen, err := s.views.Seen(ctx, userID, projectID)
	if err != nil {
		s.logger.Warn("View cache lookup failed", zap.Error(err))
		seen = false
	}
	if seen {
		return false, nil
	}

	var counted bool
	err = s.coord.Run(ctx, "record_view", func(tx repository.Store, w *txn.Work) error {
		created, err := tx.Views().Record(ctx, userID, projectID)
		if err != nil {
			return err
		}
		if created {
			if err := tx.Projects().IncrementViews(ctx, projectID); err != nil {
				return err
			}
		}
		counted = created
		w.AfterCommit("cache_view", func(ctx context.Context) error {
			return s.views.Mark(ctx, userID, projectID)
		})
		return nil
	})
	if err != nil {
		return false, response.NewInternalError("Failed to record view", err)
	}
	return counted, nil
}

// UpdateProject applies the supplied fields. A request that changes nothing is a conflict.
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest, actor domain.Identity) (*dto.ProjectResponse, error) {
	project, err := s.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return nil, lookupError(err, "Project")
	}
	if err := authz.CheckPermissions(actor, project.CreatedBy); err != nil {
		return nil, err
	}

	fields := make(map[string]interface{})

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, response.NewValidationError("Title cannot be empty", "")
		}
		if title != project.Title {
			fields["title"] = title
		}
	}
	if req.Description != nil && *req.Description != project.Description {
		fields["description"] = *req.Description
	}
	if req.Objectives != nil && *req.Objectives != project.Objectives {
		fields["objectives"] = *req.Objectives
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return nil, response.NewValidationError("Budget cannot be negative", "")
		}
		if *req.Budget != project.Budget {
			fields["budget"] = *req.Budget
		}
	}

	startDate, dueDate := project.StartDate, project.DueDate
	dates := []struct {
		field  string
		column string
		value  *string
		target **time.Time
		cur    *time.Time
	}{
		{"startDate", "start_date", req.StartDate, &startDate, project.StartDate},
		{"dueDate", "due_date", req.DueDate, &dueDate, project.DueDate},
		{"completionDate", "completion_date", req.CompletionDate, nil, project.CompletionDate},
	}
	for _, d := range dates {
		if d.value == nil {
			continue
		}
		t, err := parseDate(d.field, *d.value)
		if err != nil {
			return nil, err
		}
		if !sameDate(t, d.cur) {
			fields[d.column] = t
		}
		if d.target != nil {
			*d.target = t
		}
	}
	if startDate != nil && dueDate != nil && dueDate.Before(*startDate) {
		return nil, response.NewValidationError("Due date cannot be before start date", "")
	}

	var status domain.ProjectStatus
	if req.Status != nil {
		st, ok := domain.ParseProjectStatus(*req.Status)
		if !ok {
			return nil, response.NewValidationError("Invalid status", *req.Status)
		}
		status = st
		if st != project.Status {
			fields["status"] = st
		}
	}
	if req.Progress != nil {
		if !domain.ValidProgress(*req.Progress) {
			return nil, response.NewValidationError("Progress must be between 0 and 100", "")
		}
		if *req.Progress != project.Progress {
			fields["progress"] = *req.Progress
		}
	}

	var tags []domain.Tag
	var barangays []domain.Barangay
	tagsChanged, barangaysChanged := false, false
	if req.TagIDs != nil {
		ids, err := parseIDList("tag ids", *req.TagIDs)
		if err != nil {
			return nil, err
		}
		if tags, _, err = resolveReferences(ctx, s.store.References(), ids, nil); err != nil {
			return nil, err
		}
		tagsChanged = !sameIDs(ids, project.TagIDs())
	}
	if req.BarangayIDs != nil {
		ids, err := parseIDList("barangay ids", *req.BarangayIDs)
		if err != nil {
			return nil, err
		}
		if ids, err = withActorBarangay(actor, ids); err != nil {
			return nil, err
		}
		if _, barangays, err = resolveReferences(ctx, s.store.References(), nil, ids); err != nil {
			return nil, err
		}
		barangaysChanged = !sameIDs(ids, project.BarangayIDs())
	}

	if len(fields) == 0 && !tagsChanged && !barangaysChanged {
		return nil, response.NewConflictError("No changes detected", "every supplied field matches the stored project")
	}

	newStatus, newProgress := project.Status, project.Progress
	if req.Status != nil {
		newStatus = status
	}
	if req.Progress != nil {
		newProgress = *req.Progress
	}
	if req.Status == nil && req.Progress != nil && newProgress < domain.MaxProgress && newStatus == domain.ProjectStatusCompleted {
		newStatus = domain.ProjectStatusOngoing
	}
	if newStatus, newProgress, err = resolveStatus(newStatus, newProgress, req.Status != nil); err != nil {
		return nil, err
	}
	progressChanged := newStatus != project.Status || newProgress != project.Progress
	delete(fields, "status")
	delete(fields, "progress")
	if newStatus != project.Status {
		fields["status"] = newStatus
	}
	if newProgress != project.Progress {
		fields["progress"] = newProgress
	}
	if newStatus == domain.ProjectStatusCompleted && newStatus != project.Status &&
		project.CompletionDate == nil && req.CompletionDate == nil {
		now := time.Now().UTC()
		fields["completion_date"] = &now
	}

	err = s.coord.Run(ctx, "update_project", func(tx repository.Store, w *txn.Work) error {
		if len(fields) > 0 {
			if err := tx.Projects().Update(ctx, project, fields); err != nil {
				return err
			}
		}
		if tagsChanged {
			if err := tx.Projects().ReplaceTags(ctx, project.ID, tagIDsOf(tags)); err != nil {
				return err
			}
			project.Tags = tags
		}
		if barangaysChanged {
			if err := tx.Projects().ReplaceBarangays(ctx, project.ID, barangayIDsOf(barangays)); err != nil {
				return err
			}
			project.Barangays = barangays
		}
		if progressChanged {
			project.Status, project.Progress = newStatus, newProgress
			return tx.History().Create(ctx, newHistory(project, nil, actor, ""))
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Failed to update project", zap.String("project_id", projectID.String()), zap.Error(err))
		return nil, asAppError(err, "Failed to update project")
	}

	return s.loadProject(ctx, projectID)
}

// DeleteProject removes a project with everything that belongs to it. Media
// files are removed after the rows are gone.
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID uuid.UUID, actor domain.Identity) error {
	project, err := s.store.Projects().FindByID(ctx, projectID)
	if err != nil {
		return lookupError(err, "Project")
	}
	if err := authz.CheckPermissions(actor, project.CreatedBy); err != nil {
		return err
	}

	err = s.coord.Run(ctx, "delete_project", func(tx repository.Store, w *txn.Work) error {
		media, err := tx.Media().FindByProjects(ctx, []uuid.UUID{projectID})
		if err != nil {
			return err
		}
		if err := s.media.DeleteMediaFiles(ctx, tx, media, w); err != nil {
			return err
		}
		_, err = tx.Projects().DeleteCascade(ctx, []uuid.UUID{projectID})
		return err
	})
	if err != nil {
		s.logger.Error("Failed to delete project", zap.String("project_id", projectID.String()), zap.Error(err))
		return asAppError(err, "Failed to delete project")
	}

	s.logger.Info("Project deleted", zap.String("project_id", projectID.String()))
	return nil
}

// DeleteAllProjects removes every project the actor may manage: all of them
// for an admin, otherwise only the actor's own.
func (s *projectServiceImpl) DeleteAllProjects(ctx context.Context, actor domain.Identity) (int64, error) {
	var owner *uuid.UUID
	if !actor.Role.Has(domain.CapabilityManageAny) {
		id := actor.UserID
		owner = &id
	}

	var deleted int64
	err := s.coord.Run(ctx, "delete_all_projects", func(tx repository.Store, w *txn.Work) error {
		ids, err := tx.Projects().FindIDs(ctx, owner)
		if err != nil || len(ids) == 0 {
			return err
		}
		media, err := tx.Media().FindByProjects(ctx, ids)
		if err != nil {
			return err
		}
		if err := s.media.DeleteMediaFiles(ctx, tx, media, w); err != nil {
			return err
		}
		deleted, err = tx.Projects().DeleteCascade(ctx, ids)
		return err
	})
	if err != nil {
		s.logger.Error("Failed to delete projects", zap.Error(err))
		return 0, asAppError(err, "Failed to delete projects")
	}

	s.logger.Info("Projects deleted",
		zap.String("actor", actor.UserID.String()),
		zap.Int64("deleted", deleted))
	return deleted, nil
}

// GetProgressHistory lists a project's status/progress changes, oldest first
func (s *projectServiceImpl) GetProgressHistory(ctx context.Context, projectID uuid.UUID) ([]*dto.ProgressHistoryResponse, error) {
	if _, err := s.store.Projects().FindByID(ctx, projectID); err != nil {
		return nil, lookupError(err, "Project")
	}
	entries, err := s.store.History().FindByProject(ctx, projectID)
	if err != nil {
		return nil, response.NewInternalError("Failed to load progress history", err)
	}
	out := make([]*dto.ProgressHistoryResponse, len(entries))
	for i, e := range entries {
		out[i] = toHistoryResponse(e)
	}
	return out, nil
}
