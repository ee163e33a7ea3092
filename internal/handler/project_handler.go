package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-projects-api/internal/dto"
	"barangay-projects-api/internal/query"
	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/service"
	"barangay-projects-api/internal/util"
)

// ProjectHandler handles project HTTP requests
type ProjectHandler struct {
	projectService service.ProjectService
	uploader       *Uploader
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(projectService service.ProjectService, uploader *Uploader, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		uploader:       uploader,
		logger:         logger,
	}
}

// CreateProject godoc
// @Summary      Create a project
// @Description  Creates a project with its tags, barangays and media files.
// @Description  A non-admin user's own barangay is added automatically; listing it explicitly is a conflict.
// @Tags         projects
// @Accept       multipart/form-data
// @Produce      json
// @Param        title formData string true "Title"
// @Param        description formData string false "Description"
// @Param        objectives formData string false "Objectives"
// @Param        budget formData number false "Budget"
// @Param        startDate formData string false "Start date (YYYY-MM-DD)"
// @Param        dueDate formData string false "Due date (YYYY-MM-DD)"
// @Param        status formData string false "pending | ongoing | completed"
// @Param        progress formData int false "Progress 0-100"
// @Param        tagIds formData string false "Comma separated tag ids"
// @Param        barangayIds formData string false "Comma separated barangay ids"
// @Param        media formData file false "Media files"
// @Success      201 {object} response.SuccessResponse{data=dto.ProjectResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse "Unknown tag or barangay"
// @Failure      409 {object} response.ErrorResponse "Own barangay listed explicitly"
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	h.uploader.Limit(c)
	var req dto.CreateProjectRequest
	if err := c.ShouldBind(&req); err != nil {
		bindFailed(c, err)
		return
	}

	files, err := h.uploader.Stage(c)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), &req, files, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusCreated, project)
}

// ListProjects godoc
// @Summary      List projects
// @Description  Filters combine; range values are "<N", ">N" or "N-M".
// @Tags         projects
// @Produce      json
// @Param        search query string false "Matches title, description or objectives"
// @Param        tags query string false "Comma separated tag ids"
// @Param        barangays query string false "Comma separated barangay ids"
// @Param        status query string false "pending | ongoing | completed"
// @Param        sort query string false "e.g. -createdAt,title"
// @Param        progressRange query string false "e.g. 10-50"
// @Param        viewsRange query string false "e.g. >100"
// @Param        budgetRange query string false "e.g. <500000"
// @Param        page query int false "Page (1-based)"
// @Param        limit query int false "Page size"
// @Success      200 {object} response.SuccessResponse{data=dto.PaginatedProjectsResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	var params query.Params
	if err := c.ShouldBindQuery(&params); err != nil {
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid query parameters")
		return
	}

	page, err := h.projectService.ListProjects(c.Request.Context(), params)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, page)
}

// GetProject godoc
// @Summary      Get a project
// @Description  The first view by each non-admin user increments the view counter.
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), projectID, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// UpdateProject godoc
// @Summary      Update a project
// @Description  Only supplied fields are applied. A request that changes nothing returns 409.
// @Tags         projects
// @Accept       json
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Param        request body dto.UpdateProjectRequest true "Fields to change"
// @Success      200 {object} response.SuccessResponse{data=dto.ProjectResponse}
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse "Not the owner"
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse "No changes"
// @Security     BearerAuth
// @Router       /projects/{projectId} [patch]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindFailed(c, err)
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), projectID, &req, actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, project)
}

// DeleteProject godoc
// @Summary      Delete a project
// @Description  Removes the project with its updates, media, views and engagement rows.
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=map[string]string}
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), projectID, actor); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// DeleteAllProjects godoc
// @Summary      Delete all projects
// @Description  Admins delete every project; other users delete their own.
// @Tags         projects
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=dto.DeleteAllResponse}
// @Failure      401 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects [delete]
func (h *ProjectHandler) DeleteAllProjects(c *gin.Context) {
	actor, ok := util.ExtractIdentity(c)
	if !ok {
		return
	}

	n, err := h.projectService.DeleteAllProjects(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, dto.DeleteAllResponse{Deleted: n})
}

// GetProgressHistory godoc
// @Summary      Progress history
// @Tags         projects
// @Produce      json
// @Param        projectId path string true "Project ID (UUID)"
// @Success      200 {object} response.SuccessResponse{data=[]dto.ProgressHistoryResponse}
// @Failure      404 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /projects/{projectId}/history [get]
func (h *ProjectHandler) GetProgressHistory(c *gin.Context) {
	projectID, ok := util.ParseUUIDParam(c, "projectId", "project")
	if !ok {
		return
	}

	history, err := h.projectService.GetProgressHistory(c.Request.Context(), projectID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	response.SendSuccess(c, http.StatusOK, history)
}
