package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// EngagementCounts are read-time counters attached to a project
type EngagementCounts struct {
	Reactions int64
	Reports   int64
	Comments  int64
}

// EngagementRepository counts reactions, reports and comments per project
type EngagementRepository interface {
	Counts(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID]EngagementCounts, error)
}

type engagementRepositoryImpl struct {
	db *gorm.DB
}

// NewEngagementRepository creates a new instance of EngagementRepository
func NewEngagementRepository(db *gorm.DB) EngagementRepository {
	return &engagementRepositoryImpl{db: db}
}

type projectCount struct {
	ProjectID uuid.UUID
	Total     int64
}

func (r *engagementRepositoryImpl) Counts(ctx context.Context, projectIDs []uuid.UUID) (map[uuid.UUID]EngagementCounts, error) {
	counts := make(map[uuid.UUID]EngagementCounts, len(projectIDs))
	if len(projectIDs) == 0 {
		return counts, nil
	}

	for _, table := range []string{"reactions", "reports", "comments"} {
		var rows []projectCount
		err := r.db.WithContext(ctx).
			Table(table).
			Select("project_id, COUNT(*) AS total").
			Where("project_id IN ?", projectIDs).
			Group("project_id").
			Scan(&rows).Error
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			c := counts[row.ProjectID]
			switch table {
			case "reactions":
				c.Reactions = row.Total
			case "reports":
				c.Reports = row.Total
			case "comments":
				c.Comments = row.Total
			}
			counts[row.ProjectID] = c
		}
	}
	return counts, nil
}
