package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/query"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/response"
)

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts YYYY-MM-DD or RFC3339. An empty string yields nil.
func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, response.NewValidationError(fmt.Sprintf("Invalid %s", field), "expected YYYY-MM-DD or RFC3339")
}

func sameDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func sameIDs(a, b []uint) bool {
	if len(a) != len(b) {
		return false
	}
	x := append([]uint(nil), a...)
	y := append([]uint(nil), b...)
	sort.Slice(x, func(i, j int) bool { return x[i] < x[j] })
	sort.Slice(y, func(i, j int) bool { return y[i] < y[j] })
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}

func parseIDList(field, s string) ([]uint, error) {
	ids, err := query.ParseIDs(s)
	if err != nil {
		return nil, response.NewValidationError(fmt.Sprintf("Invalid %s", field), err.Error())
	}
	return ids, nil
}

// withActorBarangay adds the actor's own barangay to a requested set.
// Requesting it explicitly is a conflict.
func withActorBarangay(actor domain.Identity, ids []uint) ([]uint, error) {
	if actor.Role.Has(domain.CapabilitySkipBarangayInjection) || actor.BarangayID == nil {
		return ids, nil
	}
	own := *actor.BarangayID
	for _, id := range ids {
		if id == own {
			return nil, response.NewConflictError("Your barangay is already assigned to this project",
				fmt.Sprintf("barangay %d is added automatically", own))
		}
	}
	return append(ids, own), nil
}

// resolveReferences loads every requested tag and barangay, failing with
// NOT_FOUND when any id is unknown.
func resolveReferences(ctx context.Context, refs repository.ReferenceRepository, tagIDs, barangayIDs []uint) ([]domain.Tag, []domain.Barangay, error) {
	tags, err := refs.FindTagsByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, response.NewInternalError("Failed to load tags", err)
	}
	if len(tags) != len(tagIDs) {
		return nil, nil, response.NewNotFoundError("Tag not found", missingIDs(tagIDs, tagIDsOf(tags)))
	}

	barangays, err := refs.FindBarangaysByIDs(ctx, barangayIDs)
	if err != nil {
		return nil, nil, response.NewInternalError("Failed to load barangays", err)
	}
	if len(barangays) != len(barangayIDs) {
		return nil, nil, response.NewNotFoundError("Barangay not found", missingIDs(barangayIDs, barangayIDsOf(barangays)))
	}
	return tags, barangays, nil
}

func tagIDsOf(tags []domain.Tag) []uint {
	ids := make([]uint, len(tags))
	for i, t := range tags {
		ids[i] = t.ID
	}
	return ids
}

func barangayIDsOf(barangays []domain.Barangay) []uint {
	ids := make([]uint, len(barangays))
	for i, b := range barangays {
		ids[i] = b.ID
	}
	return ids
}

func missingIDs(requested, found []uint) string {
	have := make(map[uint]bool, len(found))
	for _, id := range found {
		have[id] = true
	}
	var missing []string
	for _, id := range requested {
		if !have[id] {
			missing = append(missing, fmt.Sprint(id))
		}
	}
	return "unknown ids: " + strings.Join(missing, ",")
}

// lookupError maps a repository lookup failure to an AppError
func lookupError(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewNotFoundError(what+" not found", "")
	}
	return response.NewInternalError("Failed to load "+strings.ToLower(what), err)
}

// asAppError passes AppErrors through and wraps anything else as INTERNAL_ERROR
func asAppError(err error, message string) error {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return response.NewInternalError(message, err)
}

func queryError(err error) error {
	if errors.Is(err, query.ErrInvalidQuery) {
		return response.NewValidationError("Invalid query", err.Error())
	}
	return response.NewInternalError("Failed to build query", err)
}

type historySnapshot struct {
	Title       string `json:"title"`
	TagIDs      []uint `json:"tagIds"`
	BarangayIDs []uint `json:"barangayIds"`
	Remarks     string `json:"remarks,omitempty"`
}

func newHistory(project *domain.Project, updateID *uuid.UUID, actor domain.Identity, remarks string) *domain.ProgressHistory {
	snap, _ := json.Marshal(historySnapshot{
		Title:       project.Title,
		TagIDs:      project.TagIDs(),
		BarangayIDs: project.BarangayIDs(),
		Remarks:     remarks,
	})
	return &domain.ProgressHistory{
		ProjectID: project.ID,
		UpdateID:  updateID,
		ChangedBy: actor.UserID,
		Status:    project.Status,
		Progress:  project.Progress,
		Snapshot:  datatypes.JSON(snap),
	}
}

func toMediaResponse(m *domain.Media) dto.MediaResponse {
	return dto.MediaResponse{
		ID:        m.ID,
		URL:       m.URL,
		MimeType:  m.MimeType,
		Size:      m.Size,
		ProjectID: m.ProjectID,
		UpdateID:  m.UpdateID,
		CreatedAt: m.CreatedAt,
	}
}

func toMediaResponses(media []*domain.Media) []dto.MediaResponse {
	out := make([]dto.MediaResponse, len(media))
	for i, m := range media {
		out[i] = toMediaResponse(m)
	}
	return out
}

func toProjectResponse(p *domain.Project) *dto.ProjectResponse {
	tags := make([]dto.TagResponse, len(p.Tags))
	for i, t := range p.Tags {
		tags[i] = dto.TagResponse{ID: t.ID, Name: t.Name}
	}
	barangays := make([]dto.BarangayResponse, len(p.Barangays))
	for i, b := range p.Barangays {
		barangays[i] = dto.BarangayResponse{ID: b.ID, Name: b.Name}
	}
	media := make([]dto.MediaResponse, len(p.Media))
	for i := range p.Media {
		media[i] = toMediaResponse(&p.Media[i])
	}

	return &dto.ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Objectives:     p.Objectives,
		Budget:         p.Budget,
		StartDate:      p.StartDate,
		DueDate:        p.DueDate,
		CompletionDate: p.CompletionDate,
		Status:         string(p.Status),
		Progress:       p.Progress,
		Views:          p.Views,
		CreatedBy:      p.CreatedBy,
		Tags:           tags,
		Barangays:      barangays,
		Media:          media,
		ReactionCount:  p.ReactionCount,
		ReportCount:    p.ReportCount,
		CommentCount:   p.CommentCount,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func toUpdateResponse(u *domain.Update) *dto.UpdateResponse {
	media := make([]dto.MediaResponse, len(u.Media))
	for i := range u.Media {
		media[i] = toMediaResponse(&u.Media[i])
	}
	return &dto.UpdateResponse{
		ID:        u.ID,
		ProjectID: u.ProjectID,
		Remarks:   u.Remarks,
		Progress:  u.Progress,
		Media:     media,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toHistoryResponse(h *domain.ProgressHistory) *dto.ProgressHistoryResponse {
	return &dto.ProgressHistoryResponse{
		ID:        h.ID,
		UpdateID:  h.UpdateID,
		ChangedBy: h.ChangedBy,
		Status:    string(h.Status),
		Progress:  h.Progress,
		ChangedAt: h.CreatedAt,
	}
}
