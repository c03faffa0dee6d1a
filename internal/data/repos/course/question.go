package course

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type QuestionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Question) ([]*types.Question, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Question, error)
	ListByQuizIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) ([]*types.Question, error)
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteByQuizIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) error
}

type questionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuestionRepo {
	return &questionRepo{db: db, log: baseLog.With("repo", "QuestionRepo")}
}

func (r *questionRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Question) ([]*types.Question, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Question{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *questionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Question, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Question
	if len(ids) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) ListByQuizIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) ([]*types.Question, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Question
	if len(quizIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("quiz_id IN ?", quizIDs).
		Order("quiz_id, sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *questionRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Unscoped().
		Where("id IN ?", ids).
		Delete(&types.Question{}).Error
}

func (r *questionRepo) FullDeleteByQuizIDs(ctx context.Context, tx *gorm.DB, quizIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(quizIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Unscoped().
		Where("quiz_id IN ?", quizIDs).
		Delete(&types.Question{}).Error
}
