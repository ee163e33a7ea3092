package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/query"
)

// UpdateRepository defines the interface for update data access
type UpdateRepository interface {
	Create(ctx context.Context, update *domain.Update) error
	FindByID(ctx context.Context, projectID, updateID uuid.UUID) (*domain.Update, error)
	FindByProject(ctx context.Context, projectID uuid.UUID, page query.Page) ([]*domain.Update, int64, error)
	FindIDsByProject(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error)
	Update(ctx context.Context, update *domain.Update, fields map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// updateRepositoryImpl is the GORM implementation of UpdateRepository
type updateRepositoryImpl struct {
	db *gorm.DB
}

// NewUpdateRepository creates a new instance of UpdateRepository
func NewUpdateRepository(db *gorm.DB) UpdateRepository {
	return &updateRepositoryImpl{db: db}
}

func (r *updateRepositoryImpl) Create(ctx context.Context, update *domain.Update) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(update).Error
}

// FindByID finds an update scoped to its project, with media
func (r *updateRepositoryImpl) FindByID(ctx context.Context, projectID, updateID uuid.UUID) (*domain.Update, error) {
	var update domain.Update
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("project_id = ?", projectID).
		First(&update, "id = ?", updateID).Error
	if err != nil {
		return nil, err
	}
	return &update, nil
}

// FindByProject returns a page of updates in creation order and the total count
func (r *updateRepositoryImpl) FindByProject(ctx context.Context, projectID uuid.UUID, page query.Page) ([]*domain.Update, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&domain.Update{}).Where("project_id = ?", projectID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var updates []*domain.Update
	err := r.db.WithContext(ctx).
		Preload("Media", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&updates).Error
	if err != nil {
		return nil, 0, err
	}
	return updates, total, nil
}

func (r *updateRepositoryImpl) FindIDsByProject(ctx context.Context, projectID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Update{}).Where("project_id = ?", projectID).Pluck("id", &ids).Error
	return ids, err
}

func (r *updateRepositoryImpl) Update(ctx context.Context, update *domain.Update, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(update).Omit(clause.Associations).Updates(fields).Error
}

// Delete removes an update and its media rows
func (r *updateRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("update_id = ?", id).Delete(&domain.Media{}).Error; err != nil {
		return err
	}
	if err := db.Model(&domain.ProgressHistory{}).Where("update_id = ?", id).Update("update_id", nil).Error; err != nil {
		return err
	}
	return db.Delete(&domain.Update{}, "id = ?", id).Error
}

// DeleteByProject removes every update of a project and their media rows
func (r *updateRepositoryImpl) DeleteByProject(ctx context.Context, projectID uuid.UUID) (int64, error) {
	db := r.db.WithContext(ctx)
	updateIDs := db.Model(&domain.Update{}).Select("id").Where("project_id = ?", projectID)
	if err := db.Where("update_id IN (?)", updateIDs).Delete(&domain.Media{}).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&domain.ProgressHistory{}).Where("project_id = ? AND update_id IS NOT NULL", projectID).Update("update_id", nil).Error; err != nil {
		return 0, err
	}
	result := db.Where("project_id = ?", projectID).Delete(&domain.Update{})
	return result.RowsAffected, result.Error
}

func (r *updateRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Update{}).Count(&count).Error
	return count, err
}
