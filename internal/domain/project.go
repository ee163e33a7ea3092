package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectStatusPending   ProjectStatus = "pending"
	ProjectStatusOngoing   ProjectStatus = "ongoing"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// MaxProgress is the progress value that corresponds to a completed project
const MaxProgress = 100

// ParseProjectStatus validates a status value
func ParseProjectStatus(s string) (ProjectStatus, bool) {
	switch ProjectStatus(s) {
	case ProjectStatusPending, ProjectStatusOngoing, ProjectStatusCompleted:
		return ProjectStatus(s), true
	}
	return "", false
}

// Project is the root aggregate; updates and media cannot outlive it
type Project struct {
	BaseModel
	Title          string        `gorm:"type:varchar(255);not null;index:idx_projects_title" json:"title"`
	Description    string        `gorm:"type:text" json:"description"`
	Objectives     string        `gorm:"type:text" json:"objectives"`
	Budget         float64       `gorm:"not null;default:0" json:"budget"`
	StartDate      *time.Time    `json:"startDate,omitempty"`
	DueDate        *time.Time    `json:"dueDate,omitempty"`
	CompletionDate *time.Time    `json:"completionDate,omitempty"`
	Status         ProjectStatus `gorm:"type:varchar(20);not null;default:'pending';index:idx_projects_status" json:"status"`
	Progress       int           `gorm:"not null;default:0" json:"progress"`
	Views          int64         `gorm:"not null;default:0" json:"views"`
	CreatedBy      uuid.UUID     `gorm:"type:uuid;not null;index:idx_projects_created_by" json:"createdBy"`
	Tags           []Tag         `gorm:"many2many:project_tags;constraint:OnDelete:CASCADE" json:"tags,omitempty"`
	Barangays      []Barangay    `gorm:"many2many:project_barangays;constraint:OnDelete:CASCADE" json:"barangays,omitempty"`
	Updates        []Update      `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"updates,omitempty"`
	Media          []Media       `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"media,omitempty"`

	ReactionCount int64 `gorm:"-" json:"reactionCount"`
	ReportCount   int64 `gorm:"-" json:"reportCount"`
	CommentCount  int64 `gorm:"-" json:"commentCount"`
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// TagIDs returns the ids of the associated tags
func (p *Project) TagIDs() []uint {
	ids := make([]uint, len(p.Tags))
	for i, t := range p.Tags {
		ids[i] = t.ID
	}
	return ids
}

// BarangayIDs returns the ids of the associated barangays
func (p *Project) BarangayIDs() []uint {
	ids := make([]uint, len(p.Barangays))
	for i, b := range p.Barangays {
		ids[i] = b.ID
	}
	return ids
}

// DeriveFromUpdateProgress returns the project status and progress implied by an
// update submitted with the given progress.
func DeriveFromUpdateProgress(progress int) (ProjectStatus, int) {
	if progress >= MaxProgress {
		return ProjectStatusCompleted, MaxProgress
	}
	return ProjectStatusOngoing, progress
}

// ValidProgress reports whether p lies in [0, 100]
func ValidProgress(p int) bool {
	return p >= 0 && p <= MaxProgress
}
