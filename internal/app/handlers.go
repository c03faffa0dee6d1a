package app

import (
	httpH "github.com/courseforge/courseforge-backend/internal/http/handlers"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Course *httpH.CourseHandler
	Video  *httpH.VideoHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(),
		Course: httpH.NewCourseHandler(log, services.Course),
		Video:  httpH.NewVideoHandler(log, services.Video),
	}
}
