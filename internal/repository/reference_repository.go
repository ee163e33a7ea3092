package repository

import (
	"context"

	"gorm.io/gorm"

	"barangay-projects-api/internal/domain"
)

// ReferenceRepository gives access to tags and barangays
type ReferenceRepository interface {
	FindTagsByIDs(ctx context.Context, ids []uint) ([]domain.Tag, error)
	FindBarangaysByIDs(ctx context.Context, ids []uint) ([]domain.Barangay, error)
	ListTags(ctx context.Context) ([]domain.Tag, error)
	ListBarangays(ctx context.Context) ([]domain.Barangay, error)
}

type referenceRepositoryImpl struct {
	db *gorm.DB
}

// NewReferenceRepository creates a new instance of ReferenceRepository
func NewReferenceRepository(db *gorm.DB) ReferenceRepository {
	return &referenceRepositoryImpl{db: db}
}

func (r *referenceRepositoryImpl) FindTagsByIDs(ctx context.Context, ids []uint) ([]domain.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []domain.Tag
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&tags).Error
	return tags, err
}

func (r *referenceRepositoryImpl) FindBarangaysByIDs(ctx context.Context, ids []uint) ([]domain.Barangay, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var barangays []domain.Barangay
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id ASC").Find(&barangays).Error
	return barangays, err
}

func (r *referenceRepositoryImpl) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	err := r.db.WithContext(ctx).Order("name ASC").Find(&tags).Error
	return tags, err
}

func (r *referenceRepositoryImpl) ListBarangays(ctx context.Context) ([]domain.Barangay, error) {
	var barangays []domain.Barangay
	err := r.db.WithContext(ctx).Order("name ASC").Find(&barangays).Error
	return barangays, err
}
