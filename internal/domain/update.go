package domain

import "github.com/google/uuid"

// Update is a dated progress report nested under a project
type Update struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_updates_project_created,priority:1" json:"projectId"`
	Remarks   string    `gorm:"type:text" json:"remarks"`
	Progress  int       `gorm:"not null;default:0" json:"progress"`
	Media     []Media   `gorm:"foreignKey:UpdateID;constraint:OnDelete:CASCADE" json:"media,omitempty"`
}

// TableName specifies the table name for Update
func (Update) TableName() string {
	return "updates"
}
