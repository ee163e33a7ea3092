package domain

import "github.com/google/uuid"

// Comment is a user comment on a project
type Comment struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_project_id" json:"projectId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_user_id" json:"userId"`
	Content   string    `gorm:"type:text;not null" json:"content"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "comments"
}

// Reaction is a user's reaction to a project
type Reaction struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reactions_project_user" json:"projectId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reactions_project_user" json:"userId"`
	Type      string    `gorm:"type:varchar(20);not null;default:'like'" json:"type"`
}

// TableName specifies the table name for Reaction
func (Reaction) TableName() string {
	return "reactions"
}

// Report flags a project for moderation
type Report struct {
	BaseModel
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_reports_project_id" json:"projectId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null" json:"userId"`
	Reason    string    `gorm:"type:text" json:"reason"`
}

// TableName specifies the table name for Report
func (Report) TableName() string {
	return "reports"
}

// View records that a user has opened a project. One row per (user, project).
type View struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_views_user_project,priority:1" json:"userId"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_views_user_project,priority:2;index:idx_views_project_id" json:"projectId"`
}

// TableName specifies the table name for View
func (View) TableName() string {
	return "views"
}
