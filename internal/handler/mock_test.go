package handler

import (
	"context"

	"github.com/google/uuid"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/query"
	"barangay-projects-api/internal/repository"
)

// MockProjectService is a mock implementation of service.ProjectService
type MockProjectService struct {
	CreateProjectFunc      func(ctx context.Context, req *dto.CreateProjectRequest, files []client.StagedFile, actor domain.Identity) (*dto.ProjectResponse, error)
	ListProjectsFunc       func(ctx context.Context, params query.Params) (*dto.PaginatedProjectsResponse, error)
	GetProjectFunc         func(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (*dto.ProjectResponse, error)
	UpdateProjectFunc      func(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest, actor domain.Identity) (*dto.ProjectResponse, error)
	DeleteProjectFunc      func(ctx context.Context, projectID uuid.UUID, actor domain.Identity) error
	DeleteAllProjectsFunc  func(ctx context.Context, actor domain.Identity) (int64, error)
	GetProgressHistoryFunc func(ctx context.Context, projectID uuid.UUID) ([]*dto.ProgressHistoryResponse, error)
}

func (m *MockProjectService) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, files []client.StagedFile, actor domain.Identity) (*dto.ProjectResponse, error) {
	if m.CreateProjectFunc != nil {
		return m.CreateProjectFunc(ctx, req, files, actor)
	}
	return &dto.ProjectResponse{}, nil
}

func (m *MockProjectService) ListProjects(ctx context.Context, params query.Params) (*dto.PaginatedProjectsResponse, error) {
	if m.ListProjectsFunc != nil {
		return m.ListProjectsFunc(ctx, params)
	}
	return &dto.PaginatedProjectsResponse{}, nil
}

func (m *MockProjectService) GetProject(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (*dto.ProjectResponse, error) {
	if m.GetProjectFunc != nil {
		return m.GetProjectFunc(ctx, projectID, actor)
	}
	return &dto.ProjectResponse{ID: projectID}, nil
}

func (m *MockProjectService) UpdateProject(ctx context.Context, projectID uuid.UUID, req *dto.UpdateProjectRequest, actor domain.Identity) (*dto.ProjectResponse, error) {
	if m.UpdateProjectFunc != nil {
		return m.UpdateProjectFunc(ctx, projectID, req, actor)
	}
	return &dto.ProjectResponse{ID: projectID}, nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, projectID uuid.UUID, actor domain.Identity) error {
	if m.DeleteProjectFunc != nil {
		return m.DeleteProjectFunc(ctx, projectID, actor)
	}
	return nil
}

func (m *MockProjectService) DeleteAllProjects(ctx context.Context, actor domain.Identity) (int64, error) {
	if m.DeleteAllProjectsFunc != nil {
		return m.DeleteAllProjectsFunc(ctx, actor)
	}
	return 0, nil
}

func (m *MockProjectService) GetProgressHistory(ctx context.Context, projectID uuid.UUID) ([]*dto.ProgressHistoryResponse, error) {
	if m.GetProgressHistoryFunc != nil {
		return m.GetProgressHistoryFunc(ctx, projectID)
	}
	return nil, nil
}

// MockUpdateService is a mock implementation of service.UpdateService
type MockUpdateService struct {
	CreateUpdateFunc     func(ctx context.Context, projectID uuid.UUID, req *dto.CreateUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error)
	ListUpdatesFunc      func(ctx context.Context, projectID uuid.UUID, page, limit string) (*dto.PaginatedUpdatesResponse, error)
	GetUpdateFunc        func(ctx context.Context, projectID, updateID uuid.UUID) (*dto.UpdateResponse, error)
	EditUpdateFunc       func(ctx context.Context, projectID, updateID uuid.UUID, req *dto.EditUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error)
	DeleteUpdateFunc     func(ctx context.Context, projectID, updateID uuid.UUID, actor domain.Identity) error
	DeleteAllUpdatesFunc func(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (int64, error)
}

func (m *MockUpdateService) CreateUpdate(ctx context.Context, projectID uuid.UUID, req *dto.CreateUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error) {
	if m.CreateUpdateFunc != nil {
		return m.CreateUpdateFunc(ctx, projectID, req, files, actor)
	}
	return &dto.UpdateResponse{ProjectID: projectID}, nil
}

func (m *MockUpdateService) ListUpdates(ctx context.Context, projectID uuid.UUID, page, limit string) (*dto.PaginatedUpdatesResponse, error) {
	if m.ListUpdatesFunc != nil {
		return m.ListUpdatesFunc(ctx, projectID, page, limit)
	}
	return &dto.PaginatedUpdatesResponse{}, nil
}

func (m *MockUpdateService) GetUpdate(ctx context.Context, projectID, updateID uuid.UUID) (*dto.UpdateResponse, error) {
	if m.GetUpdateFunc != nil {
		return m.GetUpdateFunc(ctx, projectID, updateID)
	}
	return &dto.UpdateResponse{ID: updateID, ProjectID: projectID}, nil
}

func (m *MockUpdateService) EditUpdate(ctx context.Context, projectID, updateID uuid.UUID, req *dto.EditUpdateRequest, files []client.StagedFile, actor domain.Identity) (*dto.UpdateResponse, error) {
	if m.EditUpdateFunc != nil {
		return m.EditUpdateFunc(ctx, projectID, updateID, req, files, actor)
	}
	return &dto.UpdateResponse{ID: updateID, ProjectID: projectID}, nil
}

func (m *MockUpdateService) DeleteUpdate(ctx context.Context, projectID, updateID uuid.UUID, actor domain.Identity) error {
	if m.DeleteUpdateFunc != nil {
		return m.DeleteUpdateFunc(ctx, projectID, updateID, actor)
	}
	return nil
}

func (m *MockUpdateService) DeleteAllUpdates(ctx context.Context, projectID uuid.UUID, actor domain.Identity) (int64, error) {
	if m.DeleteAllUpdatesFunc != nil {
		return m.DeleteAllUpdatesFunc(ctx, projectID, actor)
	}
	return 0, nil
}

// MockMediaService is a mock implementation of service.MediaService
type MockMediaService struct {
	AddMediaFunc       func(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error)
	ListMediaFunc      func(ctx context.Context, owner repository.MediaOwner, page, limit string) (*dto.PaginatedMediaResponse, error)
	ReplaceMediaFunc   func(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error)
	DeleteMediaFunc    func(ctx context.Context, projectID, mediaID uuid.UUID, actor domain.Identity) error
	DeleteAllMediaFunc func(ctx context.Context, owner repository.MediaOwner, actor domain.Identity) (int64, error)
}

func (m *MockMediaService) AddMedia(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error) {
	if m.AddMediaFunc != nil {
		return m.AddMediaFunc(ctx, owner, files, actor)
	}
	return nil, nil
}

func (m *MockMediaService) ListMedia(ctx context.Context, owner repository.MediaOwner, page, limit string) (*dto.PaginatedMediaResponse, error) {
	if m.ListMediaFunc != nil {
		return m.ListMediaFunc(ctx, owner, page, limit)
	}
	return &dto.PaginatedMediaResponse{}, nil
}

func (m *MockMediaService) ReplaceMedia(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error) {
	if m.ReplaceMediaFunc != nil {
		return m.ReplaceMediaFunc(ctx, owner, files, actor)
	}
	return nil, nil
}

func (m *MockMediaService) DeleteMedia(ctx context.Context, projectID, mediaID uuid.UUID, actor domain.Identity) error {
	if m.DeleteMediaFunc != nil {
		return m.DeleteMediaFunc(ctx, projectID, mediaID, actor)
	}
	return nil
}

func (m *MockMediaService) DeleteAllMedia(ctx context.Context, owner repository.MediaOwner, actor domain.Identity) (int64, error) {
	if m.DeleteAllMediaFunc != nil {
		return m.DeleteAllMediaFunc(ctx, owner, actor)
	}
	return 0, nil
}

// MockReferenceService is a mock implementation of service.ReferenceService
type MockReferenceService struct {
	Tags      []dto.TagResponse
	Barangays []dto.BarangayResponse
	Err       error
}

func (m *MockReferenceService) ListTags(ctx context.Context) ([]dto.TagResponse, error) {
	return m.Tags, m.Err
}

func (m *MockReferenceService) ListBarangays(ctx context.Context) ([]dto.BarangayResponse, error) {
	return m.Barangays, m.Err
}
