package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreateUpdateRequest is the multipart form for posting a progress update
type CreateUpdateRequest struct {
	Remarks  string `form:"remarks" json:"remarks" binding:"required" example:"Base course laid"`
	Progress *int   `form:"progress" json:"progress" binding:"required,gte=0,lte=100" example:"40"`
}

// EditUpdateRequest overwrites only the supplied fields; new media is appended
type EditUpdateRequest struct {
	Remarks  *string `form:"remarks" json:"remarks"`
	Progress *int    `form:"progress" json:"progress" binding:"omitempty,gte=0,lte=100"`
}

// UpdateResponse is a progress update with its media
type UpdateResponse struct {
	ID        uuid.UUID       `json:"id"`
	ProjectID uuid.UUID       `json:"projectId"`
	Remarks   string          `json:"remarks"`
	Progress  int             `json:"progress"`
	Media     []MediaResponse `json:"media"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// PaginatedUpdatesResponse is one page of a project's updates, oldest first
type PaginatedUpdatesResponse struct {
	Updates    []*UpdateResponse `json:"updates"`
	TotalCount int64             `json:"totalCount"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}
