package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/courseforge/courseforge-backend/internal/http/response"
	"github.com/courseforge/courseforge-backend/internal/platform/ctxutil"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
	"github.com/courseforge/courseforge-backend/internal/services"

	types "github.com/courseforge/courseforge-backend/internal/domain/course"
)

type CourseHandler struct {
	log           *logger.Logger
	courseService services.CourseService
}

func NewCourseHandler(log *logger.Logger, courseService services.CourseService) *CourseHandler {
	return &CourseHandler{
		log:           log.With("handler", "CourseHandler"),
		courseService: courseService,
	}
}

func (h *CourseHandler) ListCourses(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courses, err := h.courseService.ListCourses(c.Request.Context(), rd.UserID)
	if err != nil {
		h.log.Error("ListCourses failed", "error", err, "user_id", rd.UserID)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	course, err := h.courseService.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

func (h *CourseHandler) CreateCourse(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var body types.Course
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	body.OwnerID = rd.UserID
	created, err := h.courseService.CreateCourse(c.Request.Context(), &body)
	if err != nil {
		h.log.Error("CreateCourse failed", "error", err, "user_id", rd.UserID)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": created})
}

func (h *CourseHandler) UpdateCourse(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var body types.Course
	if err := c.ShouldBindJSON(&body); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	updated, err := h.courseService.UpdateCourse(c.Request.Context(), id, &body)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": updated})
}

func (h *CourseHandler) PublishCourse(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.courseService.PublishCourse(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"published": true})
}

func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.courseService.DeleteCourse(c.Request.Context(), id); err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"deleted": true})
}

func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return uuid.Nil, false
	}
	return id, true
}
