package server

import (
	"github.com/gin-gonic/gin"

	httpH "github.com/courseforge/courseforge-backend/internal/http/handlers"
	httpMW "github.com/courseforge/courseforge-backend/internal/http/middleware"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler *httpH.HealthHandler
	CourseHandler *httpH.CourseHandler
	VideoHandler  *httpH.VideoHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.CourseHandler != nil {
			protected.GET("/courses", cfg.CourseHandler.ListCourses)
			protected.POST("/courses", cfg.CourseHandler.CreateCourse)
			protected.GET("/courses/:id", cfg.CourseHandler.GetCourse)
			protected.PUT("/courses/:id", cfg.CourseHandler.UpdateCourse)
			protected.POST("/courses/:id/publish", cfg.CourseHandler.PublishCourse)
			protected.DELETE("/courses/:id", cfg.CourseHandler.DeleteCourse)
		}

		if cfg.VideoHandler != nil {
			protected.GET("/videos", cfg.VideoHandler.ListLibrary)
			protected.POST("/videos", cfg.VideoHandler.RegisterUpload)
			protected.GET("/videos/:id", cfg.VideoHandler.GetVideo)
			protected.GET("/videos/:id/status", cfg.VideoHandler.GetVideoStatus)
		}
	}

	return r
}
