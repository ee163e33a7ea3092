package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateProjectRequest is the multipart form for creating a project
// @Description Project fields sent as multipart/form-data alongside the "media" files.
// @Description tagIds and barangayIds are comma separated id lists, e.g. "1,2".
// @Description Dates accept YYYY-MM-DD or RFC3339.
type CreateProjectRequest struct {
	Title          string   `form:"title" json:"title" binding:"required,max=255" example:"Farm-to-market road"`
	Description    string   `form:"description" json:"description" example:"Concrete road connecting sitios"`
	Objectives     string   `form:"objectives" json:"objectives" example:"Reduce travel time to the market"`
	Budget         *float64 `form:"budget" json:"budget" binding:"omitempty,gte=0" example:"1500000"`
	StartDate      string   `form:"startDate" json:"startDate" example:"2024-01-15"`
	DueDate        string   `form:"dueDate" json:"dueDate" example:"2024-06-30"`
	CompletionDate string   `form:"completionDate" json:"completionDate"`
	Status         string   `form:"status" json:"status" binding:"omitempty,oneof=pending ongoing completed" example:"pending"`
	Progress       *int     `form:"progress" json:"progress" binding:"omitempty,gte=0,lte=100"`
	TagIDs         string   `form:"tagIds" json:"tagIds" example:"1,2"`
	BarangayIDs    string   `form:"barangayIds" json:"barangayIds" example:"1,2"`
}

// UpdateProjectRequest is a partial update; omitted fields are left unchanged
// @Description Every field is optional. A request in which no supplied field differs
// @Description from the stored project is rejected with 409.
type UpdateProjectRequest struct {
	Title          *string  `json:"title" binding:"omitempty,max=255"`
	Description    *string  `json:"description"`
	Objectives     *string  `json:"objectives"`
	Budget         *float64 `json:"budget" binding:"omitempty,gte=0"`
	StartDate      *string  `json:"startDate"`
	DueDate        *string  `json:"dueDate"`
	CompletionDate *string  `json:"completionDate"`
	Status         *string  `json:"status" binding:"omitempty,oneof=pending ongoing completed"`
	Progress       *int     `json:"progress" binding:"omitempty,gte=0,lte=100"`
	TagIDs         *string  `json:"tagIds" example:"1,3"`
	BarangayIDs    *string  `json:"barangayIds" example:"2"`
}

// TagResponse is a tag reference
type TagResponse struct {
	ID   uint   `json:"id" example:"1"`
	Name string `json:"name" example:"Infrastructure"`
}

// BarangayResponse is a barangay reference
type BarangayResponse struct {
	ID   uint   `json:"id" example:"3"`
	Name string `json:"name" example:"Poblacion"`
}

// ProjectResponse is a project with its associations and read-time counts
type ProjectResponse struct {
	ID             uuid.UUID          `json:"id" example:"539167fb-b599-41ba-9ead-344a6d0b3a2f"`
	Title          string             `json:"title"`
	Description    string             `json:"description"`
	Objectives     string             `json:"objectives"`
	Budget         float64            `json:"budget"`
	StartDate      *time.Time         `json:"startDate,omitempty"`
	DueDate        *time.Time         `json:"dueDate,omitempty"`
	CompletionDate *time.Time         `json:"completionDate,omitempty"`
	Status         string             `json:"status" example:"ongoing"`
	Progress       int                `json:"progress" example:"40"`
	Views          int64              `json:"views"`
	CreatedBy      uuid.UUID          `json:"createdBy"`
	Tags           []TagResponse      `json:"tags"`
	Barangays      []BarangayResponse `json:"barangays"`
	Media          []MediaResponse    `json:"media"`
	ReactionCount  int64              `json:"reactionCount"`
	ReportCount    int64              `json:"reportCount"`
	CommentCount   int64              `json:"commentCount"`
	CreatedAt      time.Time          `json:"createdAt"`
	UpdatedAt      time.Time          `json:"updatedAt"`
}

// PaginatedProjectsResponse is one page of projects
type PaginatedProjectsResponse struct {
	Projects   []*ProjectResponse `json:"projects"`
	TotalCount int64              `json:"totalCount"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
}

// DeleteAllResponse reports how many rows a bulk delete removed
type DeleteAllResponse struct {
	Deleted int64 `json:"deleted" example:"3"`
}

// ProgressHistoryResponse is one status/progress change of a project
type ProgressHistoryResponse struct {
	ID        uuid.UUID  `json:"id"`
	UpdateID  *uuid.UUID `json:"updateId,omitempty"`
	ChangedBy uuid.UUID  `json:"changedBy"`
	Status    string     `json:"status"`
	Progress  int        `json:"progress"`
	ChangedAt time.Time  `json:"changedAt"`
}
