package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"barangay-projects-api/internal/client"
	"barangay-projects-api/internal/response"
)

// MediaField is the multipart field carrying uploaded files
const MediaField = "media"

// Uploader stages multipart files on local disk before a service sees them
type Uploader struct {
	storage  *client.LocalStorage
	maxFiles int
	maxBody  int64
	logger   *zap.Logger
}

// NewUploader creates an Uploader. maxBody <= 0 disables the request size limit.
func NewUploader(storage *client.LocalStorage, maxFiles int, maxBody int64, logger *zap.Logger) *Uploader {
	return &Uploader{storage: storage, maxFiles: maxFiles, maxBody: maxBody, logger: logger}
}

// Limit caps the request body; call it before binding a multipart form
func (u *Uploader) Limit(c *gin.Context) {
	if u.maxBody > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, u.maxBody)
	}
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/")
}

// Stage writes every file of the media field to the staging directory.
// Non-multipart requests stage nothing. On error nothing stays staged.
func (u *Uploader) Stage(c *gin.Context) ([]client.StagedFile, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil, response.NewValidationError("Invalid multipart form", err.Error())
	}
	headers := form.File[MediaField]
	if u.maxFiles > 0 && len(headers) > u.maxFiles {
		return nil, response.NewValidationError("Too many files",
			fmt.Sprintf("at most %d files per request", u.maxFiles))
	}

	staged := make([]client.StagedFile, 0, len(headers))
	for _, fh := range headers {
		src, err := fh.Open()
		if err != nil {
			u.Discard(staged)
			return nil, response.NewValidationError("Failed to read uploaded file", err.Error())
		}
		f, err := u.storage.Save(c.Request.Context(), fh.Filename, src)
		_ = src.Close()
		if err != nil {
			u.Discard(staged)
			if errors.Is(err, client.ErrFileTooLarge) {
				return nil, response.NewValidationError("File too large", fh.Filename)
			}
			return nil, response.NewInternalError("Failed to stage upload", err)
		}
		staged = append(staged, f)
	}
	return staged, nil
}

// Discard removes staged files that never reached a service
func (u *Uploader) Discard(files []client.StagedFile) {
	for _, f := range files {
		if err := u.storage.Remove(f.Path); err != nil {
			u.logger.Warn("Failed to remove staged file", zap.String("path", f.Path), zap.Error(err))
		}
	}
}

// bindFailed reports a binding error, distinguishing an oversized body
func bindFailed(c *gin.Context, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		response.SendError(c, http.StatusRequestEntityTooLarge, response.ErrCodeValidation, "Request body too large")
		return
	}
	response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body")
}
