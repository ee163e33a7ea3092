package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/domain"
	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/repository"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/service"
	"barangay-projects-api/internal/util"
)

// MediaHandler serves the media of a project and of its updates. Routes with
// an updateId parameter address the update's media.
type MediaHandler struct {
	mediaService service.MediaService
	uploader     *Uploader
	logger       *zap.Logger
}

// NewMediaHandler creates a new MediaHandler
func NewMediaHandler(mediaService service.MediaService, uploader *Uploader, logger *zap.Logger) *MediaHandler {
	return &MediaHandler{
		mediaService: mediaService,
		uploader:     uploader,
		logger:       logger,
	}
}

func (h *MediaHandler) owner(c *gin.Context) (repository.MediaOwner, bool) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return repository.MediaOwner{}, false
	}
	owner := repository.MediaOwner{ProjectID: projectID}
	if c.Param("updateId") != "" {
		updateID, ok := util.ParseUUIDParam(c, "updateId", "update")
		if !ok {
			return repository.MediaOwner{}, false
		}
		owner.UpdateID = &updateID
	}
	return owner, true
}

// ListMedia godoc
// @Summary      List media
// @Tags         media
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size"
// @Success      200 {object} response.SuccessResponse{data=dto.PaginatedMediaResponse}
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/media [get]
// @Router       /projects/{projectId}/updates/{updateId}/media [get]
func (h *MediaHandler) ListMedia(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}

	page, err := h.mediaService.ListMedia(c.Request.Context(), owner, c.Query("page"), c.Query("limit"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// AddMedia godoc
// @Summary      Add media
// @Description  Appends the uploaded files and returns the full set.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        media formData file true "Media files"
// @Success      201 {object} response.SuccessResponse{data=[]dto.MediaResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/media [post]
// @Router       /projects/{projectId}/updates/{updateId}/media [post]
func (h *MediaHandler) AddMedia(c *gin.Context) {
	h.upload(c, http.StatusCreated, h.mediaService.AddMedia)
}

// ReplaceMedia godoc
// @Summary      Replace media
// @Description  Swaps the current media for the uploaded files. Without files nothing changes.
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        media formData file false "Media files"
// @Success      200 {object} response.SuccessResponse{data=[]dto.MediaResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/media [put]
// @Router       /projects/{projectId}/updates/{updateId}/media [put]
func (h *MediaHandler) ReplaceMedia(c *gin.Context) {
	h.upload(c, http.StatusOK, h.mediaService.ReplaceMedia)
}

type mediaUpload func(ctx context.Context, owner repository.MediaOwner, files []client.StagedFile, actor domain.Identity) ([]dto.MediaResponse, error)

func (h *MediaHandler) upload(c *gin.Context, status int, op mediaUpload) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	h.uploader.Limit(c)
	files, err := h.uploader.Stage(c)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	media, err := op(c.Request.Context(), owner, files, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, status, media)
}

// DeleteMedia godoc
// @Summary      Delete one media item
// @Tags         media
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        mediaId path string true "Media ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=map[string]string}
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/media/{mediaId} [delete]
func (h *MediaHandler) DeleteMedia(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	mediaID, ok := util.ParseUUIDParam(c, "mediaId", "media")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	if err := h.mediaService.DeleteMedia(c.Request.Context(), projectID, mediaID, actor); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Media deleted successfully"})
}

// DeleteAllMedia godoc
// @Summary      Delete all media
// @Tags         media
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DeleteAllResponse}
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/media [delete]
// @Router       /projects/{projectId}/updates/{updateId}/media [delete]
func (h *MediaHandler) DeleteAllMedia(c *gin.Context) {
	owner, ok := h.owner(c)
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	n, err := h.mediaService.DeleteAllMedia(c.Request.Context(), owner, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.DeleteAllResponse{Deleted: n})
}
