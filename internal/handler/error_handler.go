package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"barangay-projects-api/internal/response"
)

// statusByCode lists the codes that do not map to a 500
var statusByCode = map[string]int{
	response.ErrCodeValidation:    http.StatusBadRequest,
	response.ErrCodeUnauthorized:  http.StatusUnauthorized,
	response.ErrCodeForbidden:     http.StatusForbidden,
	response.ErrCodeNotFound:      http.StatusNotFound,
	response.ErrCodeConflict:      http.StatusConflict,
	response.ErrCodeAlreadyExists: http.StatusConflict,
}

// handleServiceError writes the error envelope for an error returned by a
// service. Only server-side failures are logged.
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		err = response.NewNotFoundError("Resource not found", "")
	}

	var appErr *response.AppError
	if !errors.As(err, &appErr) {
		logger.Error("Unhandled service error", zap.String("route", c.FullPath()), zap.Error(err))
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
		return
	}

	status, ok := statusByCode[appErr.Code]
	if !ok {
		status = http.StatusInternalServerError
		logger.Error("Service failure",
			zap.String("route", c.FullPath()),
			zap.String("code", appErr.Code),
			zap.String("details", appErr.Details),
			zap.Error(errors.Unwrap(appErr)))
	}
	response.SendError(c, status, appErr.Code, appErr.Message)
}
