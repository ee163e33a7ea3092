package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/query"
)

// MediaOwner identifies the project, or the update within a project, that media belongs to
type MediaOwner struct {
	ProjectID uuid.UUID
	UpdateID  *uuid.UUID
}

// IsUpdate reports whether the owner is an update
func (o MediaOwner) IsUpdate() bool {
	return o.UpdateID != nil
}

func (o MediaOwner) scope(db *gorm.DB) *gorm.DB {
	if o.UpdateID != nil {
		return db.Where("update_id = ?", *o.UpdateID)
	}
	return db.Where("project_id = ? AND update_id IS NULL", o.ProjectID)
}

// MediaRepository defines the interface for media data access
type MediaRepository interface {
	CreateBatch(ctx context.Context, media []*domain.Media) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Media, error)
	FindByOwner(ctx context.Context, owner MediaOwner) ([]*domain.Media, error)
	FindPageByOwner(ctx context.Context, owner MediaOwner, page query.Page) ([]*domain.Media, int64, error)
	FindByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Media, error)
	FindByUpdates(ctx context.Context, updateIDs []uuid.UUID) ([]*domain.Media, error)
	FindReferencedURLs(ctx context.Context, urls []string) (map[string]bool, error)
	DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// mediaRepositoryImpl is the GORM implementation of MediaRepository
type mediaRepositoryImpl struct {
	db *gorm.DB
}

// NewMediaRepository creates a new instance of MediaRepository
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepositoryImpl{db: db}
}

func (r *mediaRepositoryImpl) CreateBatch(ctx context.Context, media []*domain.Media) error {
	if len(media) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&media).Error
}

func (r *mediaRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	var m domain.Media
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *mediaRepositoryImpl) FindByOwner(ctx context.Context, owner MediaOwner) ([]*domain.Media, error) {
	var media []*domain.Media
	err := owner.scope(r.db.WithContext(ctx)).Order("created_at ASC").Find(&media).Error
	return media, err
}

func (r *mediaRepositoryImpl) FindPageByOwner(ctx context.Context, owner MediaOwner, page query.Page) ([]*domain.Media, int64, error) {
	var total int64
	if err := owner.scope(r.db.WithContext(ctx).Model(&domain.Media{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var media []*domain.Media
	err := owner.scope(r.db.WithContext(ctx)).
		Order("created_at ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&media).Error
	if err != nil {
		return nil, 0, err
	}
	return media, total, nil
}

// FindByProjects returns all media of the projects, including update media
func (r *mediaRepositoryImpl) FindByProjects(ctx context.Context, projectIDs []uuid.UUID) ([]*domain.Media, error) {
	if len(projectIDs) == 0 {
		return nil, nil
	}
	db := r.db.WithContext(ctx)
	updateIDs := db.Model(&domain.Update{}).Select("id").Where("project_id IN ?", projectIDs)
	var media []*domain.Media
	err := db.Where("project_id IN ? OR update_id IN (?)", projectIDs, updateIDs).Find(&media).Error
	return media, err
}

func (r *mediaRepositoryImpl) FindByUpdates(ctx context.Context, updateIDs []uuid.UUID) ([]*domain.Media, error) {
	if len(updateIDs) == 0 {
		return nil, nil
	}
	var media []*domain.Media
	err := r.db.WithContext(ctx).Where("update_id IN ?", updateIDs).Find(&media).Error
	return media, err
}

// FindReferencedURLs reports which of urls are stored on some media row
func (r *mediaRepositoryImpl) FindReferencedURLs(ctx context.Context, urls []string) (map[string]bool, error) {
	found := make(map[string]bool)
	if len(urls) == 0 {
		return found, nil
	}
	var stored []string
	if err := r.db.WithContext(ctx).Model(&domain.Media{}).Where("url IN ?", urls).Pluck("url", &stored).Error; err != nil {
		return nil, err
	}
	for _, u := range stored {
		found[u] = true
	}
	return found, nil
}

func (r *mediaRepositoryImpl) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&domain.Media{})
	return result.RowsAffected, result.Error
}
