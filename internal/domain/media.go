package domain

import (
	"path"
	"strings"

	"github.com/google/uuid"
)

// Media is a file attached to a project or to one of its updates.
// Update media also carries the project id so project-wide queries find it.
type Media struct {
	BaseModel
	URL       string     `gorm:"type:text;not null;index:idx_media_url" json:"url"`
	MimeType  string     `gorm:"type:varchar(100)" json:"mimeType"`
	Size      int64      `gorm:"not null;default:0" json:"size"`
	ProjectID *uuid.UUID `gorm:"type:uuid;index:idx_media_project_id" json:"projectId,omitempty"`
	UpdateID  *uuid.UUID `gorm:"type:uuid;index:idx_media_update_id" json:"updateId,omitempty"`
}

// TableName specifies the table name for Media
func (Media) TableName() string {
	return "media"
}

// IsRemote reports whether the media lives in the object store rather than on local disk
func (m *Media) IsRemote() bool {
	return IsRemoteURL(m.URL)
}

// IsRemoteURL reports whether u points at the object store
func IsRemoteURL(u string) bool {
	return strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://")
}

// ObjectIDFromURL derives the object-store id from the tail segment of a stored URL,
// e.g. https://cdn.example/media/abc123.jpg -> abc123
func ObjectIDFromURL(u string) string {
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	base := path.Base(strings.TrimRight(u, "/"))
	if base == "." || base == "/" {
		return ""
	}
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base
}
