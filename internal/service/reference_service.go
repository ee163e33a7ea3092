package service

import (
	"context"

	"go.uber.org/zap"

	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/response"
)

// ReferenceService lists the tags and barangays projects can reference
type ReferenceService interface {
	ListTags(ctx context.Context) ([]dto.TagResponse, error)
	ListBarangays(ctx context.Context) ([]dto.BarangayResponse, error)
}

type referenceServiceImpl struct {
	refs   repository.ReferenceRepository
	logger *zap.Logger
}

// NewReferenceService creates a new instance of ReferenceService
func NewReferenceService(refs repository.ReferenceRepository, logger *zap.Logger) ReferenceService {
	return &referenceServiceImpl{refs: refs, logger: logger}
}

func (s *referenceServiceImpl) ListTags(ctx context.Context) ([]dto.TagResponse, error) {
	tags, err := s.refs.ListTags(ctx)
	if err != nil {
		s.logger.Error("Failed to list tags", zap.Error(err))
		return nil, response.NewInternalError("Failed to list tags", err)
	}
	out := make([]dto.TagResponse, len(tags))
	for i, t := range tags {
		out[i] = dto.TagResponse{ID: t.ID, Name: t.Name}
	}
	return out, nil
}

func (s *referenceServiceImpl) ListBarangays(ctx context.Context) ([]dto.BarangayResponse, error) {
	barangays, err := s.refs.ListBarangays(ctx)
	if err != nil {
		s.logger.Error("Failed to list barangays", zap.Error(err))
		return nil, response.NewInternalError("Failed to list barangays", err)
	}
	out := make([]dto.BarangayResponse, len(barangays))
	for i, b := range barangays {
		out[i] = dto.BarangayResponse{ID: b.ID, Name: b.Name}
	}
	return out, nil
}
