package dto

import (
	"time"

	"github.com/google/uuid"
)

// MediaResponse is a stored media file
type MediaResponse struct {
	ID        uuid.UUID  `json:"id"`
	URL       string     `json:"url" example:"https://cdn.example/media/6f1c2a9e"`
	MimeType  string     `json:"mimeType" example:"image/jpeg"`
	Size      int64      `json:"size"`
	ProjectID *uuid.UUID `json:"projectId,omitempty"`
	UpdateID  *uuid.UUID `json:"updateId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// PaginatedMediaResponse is one page of an owner's media
type PaginatedMediaResponse struct {
	Media      []MediaResponse `json:"media"`
	TotalCount int64           `json:"totalCount"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
}
