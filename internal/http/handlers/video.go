package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/courseforge/courseforge-backend/internal/http/response"
	"github.com/courseforge/courseforge-backend/internal/platform/ctxutil"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
	"github.com/courseforge/courseforge-backend/internal/services"
)

type VideoHandler struct {
	log          *logger.Logger
	videoService services.VideoLibraryService
}

func NewVideoHandler(log *logger.Logger, videoService services.VideoLibraryService) *VideoHandler {
	return &VideoHandler{
		log:          log.With("handler", "VideoHandler"),
		videoService: videoService,
	}
}

func (h *VideoHandler) ListLibrary(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	videos, err := h.videoService.ListLibrary(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("ListLibrary failed", "error", err, "user_id", rd.UserID)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"videos": videos})
}

type registerUploadRequest struct {
	Title      string `json:"title" binding:"required"`
	StorageKey string `json:"storage_key"`
}

func (h *VideoHandler) RegisterUpload(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var body registerUploadRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	v, err := h.videoService.RegisterUpload(c.Request.Context(), rd.UserID, body.Title, body.StorageKey)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"video": v})
}

// GetVideoStatus is the polling endpoint the editor uses while the
// processing pipeline runs.
func (h *VideoHandler) GetVideoStatus(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	v, err := h.videoService.GetVideo(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"id":               v.ID,
		"status":           v.Status,
		"duration_seconds": v.DurationSeconds,
		"error_message":    v.ErrorMessage,
	})
}

func (h *VideoHandler) GetVideo(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	v, err := h.videoService.GetVideo(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"video": v})
}
