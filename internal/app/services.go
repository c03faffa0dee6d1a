package app

import (
	"gorm.io/gorm"

	redisclient "github.com/courseforge/courseforge-backend/internal/clients/redis"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
	"github.com/courseforge/courseforge-backend/internal/services"
)

type Services struct {
	Course services.CourseService
	Video  services.VideoLibraryService
	Events redisclient.CourseEventBus
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, repos Repos) (Services, error) {
	log.Info("Wiring services...")

	var events redisclient.CourseEventBus
	if cfg.EventsOn {
		bus, err := redisclient.NewCourseEventBus(log)
		if err != nil {
			return Services{}, err
		}
		events = bus
	}

	var publisher services.CourseEventPublisher
	if events != nil {
		publisher = events
	}

	course := services.NewCourseService(
		db, log,
		repos.Course, repos.Module, repos.Lesson, repos.Quiz, repos.Question,
		publisher,
	)
	video := services.NewVideoLibraryService(db, log, repos.VideoAsset)

	return Services{
		Course: course,
		Video:  video,
		Events: events,
	}, nil
}
