package course

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lesson, error)
	ListByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Lesson) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Lesson) ([]*types.Lesson, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lesson, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Lesson
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

func (r *lessonRepo) ListByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) ([]*types.Lesson, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Lesson
	if len(moduleIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("module_id IN ?", moduleIDs).
		Order("module_id, sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *lessonRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Lesson) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"title":            row.Title,
			"description":      row.Description,
			"sort_order":       row.SortOrder,
			"is_required":      row.IsRequired,
			"duration_seconds": row.DurationSeconds,
			"video_id":         row.VideoID,
		}).Error
}

func (r *lessonRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.Lesson{}).Error
}

func (r *lessonRepo) FullDeleteByModuleIDs(ctx context.Context, tx *gorm.DB, moduleIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(moduleIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Unscoped().
		Where("module_id IN ?", moduleIDs).
		Delete(&types.Lesson{}).Error
}
