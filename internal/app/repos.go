package app

import (
	"gorm.io/gorm"

	courserepos "github.com/courseforge/courseforge-backend/internal/data/repos/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type Repos struct {
	Course     courserepos.CourseRepo
	Module     courserepos.ModuleRepo
	Lesson     courserepos.LessonRepo
	Quiz       courserepos.QuizRepo
	Question   courserepos.QuestionRepo
	VideoAsset courserepos.VideoAssetRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Course:     courserepos.NewCourseRepo(db, log),
		Module:     courserepos.NewModuleRepo(db, log),
		Lesson:     courserepos.NewLessonRepo(db, log),
		Quiz:       courserepos.NewQuizRepo(db, log),
		Question:   courserepos.NewQuestionRepo(db, log),
		VideoAsset: courserepos.NewVideoAssetRepo(db, log),
	}
}
