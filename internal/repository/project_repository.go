package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/query"
)

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)
	FindAll(ctx context.Context, spec query.Spec) ([]*domain.Project, int64, error)
	Update(ctx context.Context, project *domain.Project, fields map[string]interface{}) error
	ReplaceTags(ctx context.Context, projectID uuid.UUID, tagIDs []uint) error
	ReplaceBarangays(ctx context.Context, projectID uuid.UUID, barangayIDs []uint) error
	IncrementViews(ctx context.Context, id uuid.UUID) error
	FindIDs(ctx context.Context, ownerID *uuid.UUID) ([]uuid.UUID, error)
	DeleteCascade(ctx context.Context, ids []uuid.UUID) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type projectTag struct {
	ProjectID uuid.UUID `gorm:"type:uuid;primaryKey"`
	TagID     uint      `gorm:"primaryKey"`
}

func (projectTag) TableName() string { return "project_tags" }

type projectBarangay struct {
	ProjectID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	BarangayID uint      `gorm:"primaryKey"`
}

func (projectBarangay) TableName() string { return "project_barangays" }

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Create inserts the project row and its tag/barangay join rows.
// Tags and Barangays on the project only need their IDs set.
func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(project).Error; err != nil {
		return err
	}
	if err := r.ReplaceTags(ctx, project.ID, project.TagIDs()); err != nil {
		return err
	}
	return r.ReplaceBarangays(ctx, project.ID, project.BarangayIDs())
}

// FindByID loads a project with its tags, barangays and project-level media
func (r *projectRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	err := r.db.WithContext(ctx).
		Preload("Tags", orderByID).
		Preload("Barangays", orderByID).
		Preload("Media", projectLevelMedia).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindAll returns one page of projects matching spec and the total match count
func (r *projectRepositoryImpl) FindAll(ctx context.Context, spec query.Spec) ([]*domain.Project, int64, error) {
	var total int64
	if err := spec.Filter(r.db.WithContext(ctx).Model(&domain.Project{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := spec.Apply(r.db.WithContext(ctx).Model(&domain.Project{}))
	for _, inc := range spec.Includes() {
		switch inc {
		case query.IncludeTags:
			q = q.Preload("Tags", orderByID)
		case query.IncludeBarangays:
			q = q.Preload("Barangays", orderByID)
		case query.IncludeMedia:
			q = q.Preload("Media", projectLevelMedia)
		}
	}

	var projects []*domain.Project
	if err := q.Find(&projects).Error; err != nil {
		return nil, 0, err
	}
	return projects, total, nil
}

// Update writes the given columns; keys are column names
func (r *projectRepositoryImpl) Update(ctx context.Context, project *domain.Project, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(project).Omit(clause.Associations).Updates(fields).Error
}

// ReplaceTags replaces the project's tag set
func (r *projectRepositoryImpl) ReplaceTags(ctx context.Context, projectID uuid.UUID, tagIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("project_id = ?", projectID).Delete(&projectTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]projectTag, len(tagIDs))
	for i, id := range tagIDs {
		rows[i] = projectTag{ProjectID: projectID, TagID: id}
	}
	return db.Create(&rows).Error
}

// ReplaceBarangays replaces the project's barangay set
func (r *projectRepositoryImpl) ReplaceBarangays(ctx context.Context, projectID uuid.UUID, barangayIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("project_id = ?", projectID).Delete(&projectBarangay{}).Error; err != nil {
		return err
	}
	if len(barangayIDs) == 0 {
		return nil
	}
	rows := make([]projectBarangay, len(barangayIDs))
	for i, id := range barangayIDs {
		rows[i] = projectBarangay{ProjectID: projectID, BarangayID: id}
	}
	return db.Create(&rows).Error
}

// IncrementViews atomically bumps the view counter
func (r *projectRepositoryImpl) IncrementViews(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&domain.Project{}).
		Where("id = ?", id).
		UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
}

// FindIDs returns the ids of every project, or only those created by ownerID when set
func (r *projectRepositoryImpl) FindIDs(ctx context.Context, ownerID *uuid.UUID) ([]uuid.UUID, error) {
	q := r.db.WithContext(ctx).Model(&domain.Project{})
	if ownerID != nil {
		q = q.Where("created_by = ?", *ownerID)
	}
	var ids []uuid.UUID
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteCascade removes the projects and every row that belongs to them.
// Callers are expected to run it inside a transaction.
func (r *projectRepositoryImpl) DeleteCascade(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	db := r.db.WithContext(ctx)

	children := []interface{}{
		&projectTag{},
		&projectBarangay{},
		&domain.View{},
		&domain.Comment{},
		&domain.Reaction{},
		&domain.Report{},
		&domain.ProgressHistory{},
	}
	for _, model := range children {
		if err := db.Where("project_id IN ?", ids).Delete(model).Error; err != nil {
			return 0, err
		}
	}

	updateIDs := db.Model(&domain.Update{}).Select("id").Where("project_id IN ?", ids)
	if err := db.Where("project_id IN ? OR update_id IN (?)", ids, updateIDs).Delete(&domain.Media{}).Error; err != nil {
		return 0, err
	}
	if err := db.Where("project_id IN ?", ids).Delete(&domain.Update{}).Error; err != nil {
		return 0, err
	}

	result := db.Where("id IN ?", ids).Delete(&domain.Project{})
	return result.RowsAffected, result.Error
}

// Count returns the number of projects
func (r *projectRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error
	return count, err
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

func projectLevelMedia(db *gorm.DB) *gorm.DB {
	return db.Where("update_id IS NULL").Order("created_at ASC")
}
