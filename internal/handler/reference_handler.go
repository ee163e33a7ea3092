package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-projects-api/internal/response"
	"barangay-projects-api/internal/service"
)

// ReferenceHandler serves tags and barangays
type ReferenceHandler struct {
	referenceService service.ReferenceService
	logger           *zap.Logger
}

// NewReferenceHandler creates a new ReferenceHandler
func NewReferenceHandler(referenceService service.ReferenceService, logger *zap.Logger) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService, logger: logger}
}

// ListTags godoc
// @Summary      List tags
// @Tags         references
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.TagResponse}
// @Security     BearerAuth
// @Router       /tags [get]
func (h *ReferenceHandler) ListTags(c *gin.Context) {
	tags, err := h.referenceService.ListTags(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, tags)
}

// ListBarangays godoc
// @Summary      List barangays
// @Tags         references
// @Produce      json
// @Success      200 {object} response.SuccessResponse{data=[]dto.BarangayResponse}
// @Security     BearerAuth
// @Router       /barangays [get]
func (h *ReferenceHandler) ListBarangays(c *gin.Context) {
	barangays, err := h.referenceService.ListBarangays(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, barangays)
}
