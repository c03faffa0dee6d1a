package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/courseforge/courseforge-backend/internal/domain/course"
)

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Title:        "course",
		Status:       types.StatusDraft,
		Visibility:   types.VisibilityOrganization,
		PassingScore: 70,
		Metadata:     datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, sortOrder int) *types.Module {
	tb.Helper()
	m := &types.Module{
		ID:        uuid.New(),
		CourseID:  courseID,
		Title:     "module",
		SortOrder: sortOrder,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedLesson(tb testing.TB, ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, sortOrder int) *types.Lesson {
	tb.Helper()
	l := &types.Lesson{
		ID:         uuid.New(),
		ModuleID:   moduleID,
		Title:      "lesson",
		SortOrder:  sortOrder,
		IsRequired: true,
	}
	if err := tx.WithContext(ctx).Create(l).Error; err != nil {
		tb.Fatalf("seed lesson: %v", err)
	}
	return l
}

func SeedQuiz(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, moduleID *uuid.UUID, sortOrder int) *types.Quiz {
	tb.Helper()
	q := &types.Quiz{
		ID:        uuid.New(),
		CourseID:  courseID,
		ModuleID:  moduleID,
		Title:     "quiz",
		SortOrder: sortOrder,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz: %v", err)
	}
	return q
}

func SeedQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, quizID uuid.UUID, sortOrder int) *types.Question {
	tb.Helper()
	qq := &types.Question{
		ID:            uuid.New(),
		QuizID:        quizID,
		Text:          "question",
		Type:          types.QuestionTypeMultipleChoice,
		CorrectAnswer: "a",
		AnswerOptions: datatypes.NewJSONSlice([]string{"a", "b"}),
		Points:        1,
		SortOrder:     sortOrder,
	}
	if err := tx.WithContext(ctx).Create(qq).Error; err != nil {
		tb.Fatalf("seed question: %v", err)
	}
	return qq
}

func SeedVideoAsset(tb testing.TB, ctx context.Context, tx *gorm.DB, ownerID uuid.UUID, status string) *types.VideoAsset {
	tb.Helper()
	v := &types.VideoAsset{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           "video",
		DurationSeconds: 300,
		Status:          status,
		Metadata:        datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed video asset: %v", err)
	}
	return v
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
