package domain

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProgressHistory is an append-only record of project status/progress changes
type ProgressHistory struct {
	BaseModel
	ProjectID uuid.UUID      `gorm:"type:uuid;not null;index:idx_progress_histories_project_id" json:"projectId"`
	UpdateID  *uuid.UUID     `gorm:"type:uuid" json:"updateId,omitempty"`
	ChangedBy uuid.UUID      `gorm:"type:uuid;not null" json:"changedBy"`
	Status    ProjectStatus  `gorm:"type:varchar(20);not null" json:"status"`
	Progress  int            `gorm:"not null" json:"progress"`
	Snapshot  datatypes.JSON `json:"snapshot"`
}

// TableName specifies the table name for ProgressHistory
func (ProgressHistory) TableName() string {
	return "progress_histories"
}
