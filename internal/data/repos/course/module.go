package course

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type ModuleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Module) ([]*types.Module, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Module, error)
	ListByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Module, error)
	CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Module) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Module) ([]*types.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Module{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *moduleRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Module
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

func (r *moduleRepo) ListByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) ([]*types.Module, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Module
	if len(courseIDs) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("course_id IN ?", courseIDs).
		Order("course_id, sort_order ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *moduleRepo) CountByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int64, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if courseID == uuid.Nil {
		return 0, nil
	}
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.Module{}).
		Where("course_id = ?", courseID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *moduleRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Module) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Module{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"title":       row.Title,
			"description": row.Description,
			"sort_order":  row.SortOrder,
		}).Error
}

func (r *moduleRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.Module{}).Error
}

func (r *moduleRepo) FullDeleteByCourseIDs(ctx context.Context, tx *gorm.DB, courseIDs []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(courseIDs) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Unscoped().
		Where("course_id IN ?", courseIDs).
		Delete(&types.Module{}).Error
}
