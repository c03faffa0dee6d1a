package course

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type CourseRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Course) ([]*types.Course, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Course, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, statuses []string) ([]*types.Course, error)
	Update(ctx context.Context, tx *gorm.DB, row *types.Course) error
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	// UpdateStatusGuarded flips status only when the current status is in
	// allowedFrom; reports whether a row changed.
	UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uuid.UUID, allowedFrom []string, to string) (bool, error)
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Course) ([]*types.Course, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.Course{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *courseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	rows, err := r.GetByIDs(ctx, tx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *courseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Course
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

func (r *courseRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Course, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Course
	if ownerID == uuid.Nil {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) ListByStatus(ctx context.Context, tx *gorm.DB, statuses []string) ([]*types.Course, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.Course
	if len(statuses) == 0 {
		return out, nil
	}
	if err := t.WithContext(ctx).
		Where("status IN ?", statuses).
		Order("created_at DESC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *courseRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Course) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", row.ID).
		Updates(map[string]interface{}{
			"title":         row.Title,
			"description":   row.Description,
			"status":        row.Status,
			"visibility":    row.Visibility,
			"passing_score": row.PassingScore,
			"metadata":      row.Metadata,
		}).Error
}

func (r *courseRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *courseRepo) UpdateStatusGuarded(ctx context.Context, tx *gorm.DB, id uuid.UUID, allowedFrom []string, to string) (bool, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(allowedFrom) == 0 {
		return false, nil
	}
	res := t.WithContext(ctx).
		Model(&types.Course{}).
		Where("id = ? AND status IN ?", id, allowedFrom).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *courseRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Course{}).Error
}

func (r *courseRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
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
		Delete(&types.Course{}).Error
}
