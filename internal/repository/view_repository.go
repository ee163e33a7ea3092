package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"barangay-projects-api/internal/domain"
)

// ViewRepository records project views
type ViewRepository interface {
	// Record inserts the (user, project) view if absent and reports whether it was new
	Record(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
	Exists(ctx context.Context, userID, projectID uuid.UUID) (bool, error)
}

type viewRepositoryImpl struct {
	db *gorm.DB
}

// NewViewRepository creates a new instance of ViewRepository
func NewViewRepository(db *gorm.DB) ViewRepository {
	return &viewRepositoryImpl{db: db}
}

func (r *viewRepositoryImpl) Record(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	view := &domain.View{UserID: userID, ProjectID: projectID}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "project_id"}},
			DoNothing: true,
		}).
		Create(view)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *viewRepositoryImpl) Exists(ctx context.Context, userID, projectID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.View{}).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Count(&count).Error
	return count > 0, err
}
