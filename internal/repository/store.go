package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the repositories that share one database session. A Store
// obtained inside Transaction is bound to that transaction.
type Store interface {
	Projects() ProjectRepository
	Updates() UpdateRepository
	Media() MediaRepository
	References() ReferenceRepository
	Views() ViewRepository
	Engagement() EngagementRepository
	History() HistoryRepository

	// Transaction runs fn in a database transaction; returning an error rolls it back
	Transaction(ctx context.Context, fn func(tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a Store backed by db
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Projects() ProjectRepository     { return NewProjectRepository(s.db) }
func (s *gormStore) Updates() UpdateRepository       { return NewUpdateRepository(s.db) }
func (s *gormStore) Media() MediaRepository          { return NewMediaRepository(s.db) }
func (s *gormStore) References() ReferenceRepository { return NewReferenceRepository(s.db) }
func (s *gormStore) Views() ViewRepository           { return NewViewRepository(s.db) }
func (s *gormStore) Engagement() EngagementRepository {
	return NewEngagementRepository(s.db)
}
func (s *gormStore) History() HistoryRepository { return NewHistoryRepository(s.db) }

func (s *gormStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
