package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/service"
	"barangay-projects-api/internal/util"
)

// UpdateHandler handles progress update HTTP requests
type UpdateHandler struct {
	updateService service.UpdateService
	uploader      *Uploader
	logger        *zap.Logger
}

// NewUpdateHandler creates a new UpdateHandler
func NewUpdateHandler(updateService service.UpdateService, uploader *Uploader, logger *zap.Logger) *UpdateHandler {
	return &UpdateHandler{
		updateService: updateService,
		uploader:      uploader,
		logger:        logger,
	}
}

// CreateUpdate godoc
// @Summary      Post a progress update
// @Description  Progress 100 completes the project; anything lower marks it ongoing.
// @Tags         updates
// @Accept       multipart/form-data
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        remarks formData string true "Remarks"
// @Param        progress formData int true "Progress 0-100"
// @Param        media formData file false "Media files"
// @Success      201 {object} response.SuccessResponse{data=dto.UpdateResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/updates [post]
func (h *UpdateHandler) CreateUpdate(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	h.uploader.Limit(c)
	var req dto.CreateUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	files, err := h.uploader.Stage(c)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	update, err := h.updateService.CreateUpdate(c.Request.Context(), projectID, &req, files, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, update)
}

// ListUpdates godoc
// @Summary      List a project's updates
// @Description  Oldest first.
// @Tags         updates
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size"
// @Success      200 {object} response.SuccessResponse{data=dto.PaginatedUpdatesResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/updates [get]
func (h *UpdateHandler) ListUpdates(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}

	page, err := h.updateService.ListUpdates(c.Request.Context(), projectID, c.Query("page"), c.Query("limit"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetUpdate godoc
// @Summary      Get an update
// @Tags         updates
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        updateId path string true "Update ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.UpdateResponse}
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/updates/{updateId} [get]
func (h *UpdateHandler) GetUpdate(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	updateID, ok := util.ParseUUIDParam(c, "updateId", "update")
	if !ok {
		return
	}

	update, err := h.updateService.GetUpdate(c.Request.Context(), projectID, updateID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, update)
}

// EditUpdate godoc
// @Summary      Edit an update
// @Description  Supplied fields are overwritten and uploaded files appended.
// @Tags         updates
// @Accept       multipart/form-data
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        updateId path string true "Update ID (UUID)"
// @Param        remarks formData string false "Remarks"
// @Param        progress formData int false "Progress 0-100"
// @Param        media formData file false "Media files"
// @Success      200 {object} response.SuccessResponse{data=dto.UpdateResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/updates/{updateId} [patch]
func (h *UpdateHandler) EditUpdate(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	updateID, ok := util.ParseUUIDParam(c, "updateId", "update")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	h.uploader.Limit(c)
	var req dto.EditUpdateRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}
	files, err := h.uploader.Stage(c)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	update, err := h.updateService.EditUpdate(c.Request.Context(), projectID, updateID, &req, files, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, update)
}

// DeleteUpdate godoc
// @Summary      Delete an update
// @Description  The project's status and progress are not changed.
// @Tags         updates
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        updateId path string true "Update ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=map[string]string}
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/updates/{updateId} [delete]
func (h *UpdateHandler) DeleteUpdate(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	updateID, ok := util.ParseUUIDParam(c, "updateId", "update")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	if err := h.updateService.DeleteUpdate(c.Request.Context(), projectID, updateID, actor); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Update deleted successfully"})
}

// DeleteAllUpdates godoc
// @Summary      Delete all updates of a project
// @Tags         updates
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.DeleteAllResponse}
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/updates [delete]
func (h *UpdateHandler) DeleteAllUpdates(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	n, err := h.updateService.DeleteAllUpdates(c.Request.Context(), projectID, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.DeleteAllResponse{Deleted: n})
}
