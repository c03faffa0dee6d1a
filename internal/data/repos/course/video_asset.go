package course

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type VideoAssetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.VideoAsset) ([]*types.VideoAsset, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VideoAsset, error)
	ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.VideoAsset, error)
	ListByStatus(ctx context.Context, tx *gorm.DB, statuses []string) ([]*types.VideoAsset, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type videoAssetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewVideoAssetRepo(db *gorm.DB, baseLog *logger.Logger) VideoAssetRepo {
	return &videoAssetRepo{db: db, log: baseLog.With("repo", "VideoAssetRepo")}
}

func (r *videoAssetRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.VideoAsset) ([]*types.VideoAsset, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(rows) == 0 {
		return []*types.VideoAsset{}, nil
	}
	if err := t.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *videoAssetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.VideoAsset, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var out []*types.VideoAsset
	if err := t.WithContext(ctx).
		Where("id = ?", id).
		Limit(1).
		Find(&out).Error; err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out[0], nil
}

func (r *videoAssetRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.VideoAsset, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.VideoAsset
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

func (r *videoAssetRepo) ListByStatus(ctx context.Context, tx *gorm.DB, statuses []string) ([]*types.VideoAsset, error) {
	t := tx
	if t == nil {
		t = r.db
	}
	var out []*types.VideoAsset
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

func (r *videoAssetRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Model(&types.VideoAsset{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *videoAssetRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	t := tx
	if t == nil {
		t = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return t.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.VideoAsset{}).Error
}
