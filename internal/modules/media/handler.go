package media

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"vidshare/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for media uploads. Any authenticated user
// can upload; ownership is tracked by user_id.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterProtectedRoutes(protected *gin.RouterGroup) {
	group := protected.Group("/media")
	{
		group.POST("", h.Upload)
		group.GET("", h.ListMy)
		group.GET("/:id", h.GetByID)
		group.DELETE("/:id", h.Delete)
	}
}

func (h *Handler) Upload(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No file provided")
		return
	}

	// Spool to a temp path first; the service works on local file paths.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload_%s_%s", uuid.New().String(), filepath.Base(fileHeader.Filename)))
	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to receive file")
		return
	}
	defer os.Remove(tmpPath)

	upload, err := h.service.SaveFromPath(c.Request.Context(), userID, tmpPath)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMimeType):
			response.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrFileTooLarge):
			response.Error(c, http.StatusRequestEntityTooLarge, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "Upload failed")
		}
		return
	}

	response.Success(c, http.StatusCreated, upload, "File uploaded successfully")
}

func (h *Handler) GetByID(c *gin.Context) {
	upload, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "Upload not found")
		return
	}
	response.Success(c, http.StatusOK, upload, "")
}

func (h *Handler) Delete(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, ErrUploadNotFound):
			response.Error(c, http.StatusNotFound, "Upload not found")
		case errors.Is(err, ErrNotOwner):
			response.Error(c, http.StatusForbidden, "You do not own this upload")
		default:
			response.Error(c, http.StatusInternalServerError, "Delete failed")
		}
		return
	}

	response.Success(c, http.StatusOK, nil, "Upload deleted")
}

func (h *Handler) ListMy(c *gin.Context) {
	userID := c.GetInt64("user_id")
	if userID == 0 {
		response.Error(c, http.StatusUnauthorized, "Unauthorized request")
		return
	}

	uploads, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to list uploads")
		return
	}
	response.Success(c, http.StatusOK, uploads, "")
}
