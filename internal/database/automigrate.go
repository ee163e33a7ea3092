package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"barangay-projects-api/internal/domain"
)

// modelInfo holds a domain model and its table name
type modelInfo struct {
	model     interface{}
	tableName string
}

// models is ordered so referenced tables are created first
var models = []modelInfo{
	{&domain.Tag{}, "tags"},
	{&domain.Barangay{}, "barangays"},
	{&domain.Project{}, "projects"},
	{&domain.Update{}, "updates"},
	{&domain.Media{}, "media"},
	{&domain.Comment{}, "comments"},
	{&domain.Reaction{}, "reactions"},
	{&domain.Report{}, "reports"},
	{&domain.View{}, "views"},
	{&domain.ProgressHistory{}, "progress_histories"},
}

// AutoMigrate creates or updates every table
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()

	for _, m := range models {
		existed := migrator.HasTable(m.model)
		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}
		logger.Debug("Migrated table",
			zap.String("table", m.tableName),
			zap.Bool("was_existing", existed),
		)
	}

	logger.Info("Auto-migration completed", zap.Int("tables_migrated", len(models)))
	return nil
}

// AutoMigrateWithRetry runs AutoMigrate with linear backoff
func AutoMigrateWithRetry(db *gorm.DB, logger *zap.Logger, maxRetries int) error {
	var err error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err = AutoMigrate(db, logger)
		if err == nil {
			return nil
		}
		if attempt < maxRetries {
			backoff := time.Duration(attempt) * time.Second
			logger.Warn("Migration attempt failed, retrying...",
				zap.Int("attempt", attempt),
				zap.Int("max_retries", maxRetries),
				zap.Duration("backoff", backoff),
				zap.Error(err),
			)
			time.Sleep(backoff)
		}
	}
	return fmt.Errorf("migration failed after %d attempts: %w", maxRetries, err)
}

// SeedReferences inserts tags and barangays by name, skipping existing ones
func SeedReferences(db *gorm.DB, tags, barangays []string) error {
	if len(tags) > 0 {
		rows := make([]domain.Tag, len(tags))
		for i, name := range tags {
			rows[i] = domain.Tag{Name: name}
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to seed tags: %w", err)
		}
	}
	if len(barangays) > 0 {
		rows := make([]domain.Barangay, len(barangays))
		for i, name := range barangays {
			rows[i] = domain.Barangay{Name: name}
		}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return fmt.Errorf("failed to seed barangays: %w", err)
		}
	}
	return nil
}
