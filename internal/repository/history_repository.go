package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"barangay-projects-api/internal/domain"
)

// HistoryRepository stores project progress history
type HistoryRepository interface {
	Create(ctx context.Context, entry *domain.ProgressHistory) error
	FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProgressHistory, error)
}

type historyRepositoryImpl struct {
	db *gorm.DB
}

// NewHistoryRepository creates a new instance of HistoryRepository
func NewHistoryRepository(db *gorm.DB) HistoryRepository {
	return &historyRepositoryImpl{db: db}
}

func (r *historyRepositoryImpl) Create(ctx context.Context, entry *domain.ProgressHistory) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *historyRepositoryImpl) FindByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProgressHistory, error) {
	var entries []*domain.ProgressHistory
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}
