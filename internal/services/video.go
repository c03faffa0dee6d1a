package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	courserepos "github.com/courseforge/courseforge-backend/internal/data/repos/course"
	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

// VideoLibraryService fronts the video asset table. Upload and transcoding
// happen in a separate pipeline; this service registers assets, tracks their
// status and hands out the slim refs the course builder attaches to lessons.
type VideoLibraryService interface {
	RegisterUpload(ctx context.Context, ownerID uuid.UUID, title, storageKey string) (*types.VideoAsset, error)
	GetVideo(ctx context.Context, id uuid.UUID) (*types.VideoAsset, error)
	GetVideoRef(ctx context.Context, id uuid.UUID) (*types.VideoRef, error)
	ListLibrary(ctx context.Context, ownerID uuid.UUID) ([]*types.VideoAsset, error)
	MarkProcessing(ctx context.Context, id uuid.UUID) error
	MarkReady(ctx context.Context, id uuid.UUID, durationSeconds int) error
	MarkFailed(ctx context.Context, id uuid.UUID, reason string) error
}

type videoLibraryService struct {
	db        *gorm.DB
	log       *logger.Logger
	videoRepo courserepos.VideoAssetRepo
}

func NewVideoLibraryService(db *gorm.DB, baseLog *logger.Logger, videoRepo courserepos.VideoAssetRepo) VideoLibraryService {
	return &videoLibraryService{
		db:        db,
		log:       baseLog.With("service", "VideoLibraryService"),
		videoRepo: videoRepo,
	}
}

func (vs *videoLibraryService) RegisterUpload(ctx context.Context, ownerID uuid.UUID, title, storageKey string) (*types.VideoAsset, error) {
	const op = "video.register"
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, builderdom.NewError(builderdom.CodeValidation, op, "title is required", nil)
	}
	if ownerID == uuid.Nil {
		return nil, builderdom.NewError(builderdom.CodeValidation, op, "owner is required", nil)
	}

	v := &types.VideoAsset{
		ID:         uuid.New(),
		OwnerID:    ownerID,
		Title:      title,
		Status:     types.VideoStatusUploaded,
		StorageKey: storageKey,
		Metadata:   datatypes.JSON([]byte("{}")),
	}
	if _, err := vs.videoRepo.Create(ctx, nil, []*types.VideoAsset{v}); err != nil {
		vs.log.Error("register upload failed", "error", err)
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	vs.log.Info("video registered", "video_id", v.ID, "owner_id", ownerID)
	return v, nil
}

func (vs *videoLibraryService) GetVideo(ctx context.Context, id uuid.UUID) (*types.VideoAsset, error) {
	const op = "video.get"
	v, err := vs.videoRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if v == nil {
		return nil, builderdom.NotFoundError(op, "video", id)
	}
	return v, nil
}

// GetVideoRef returns the attachable shape of a video. Only ready videos can
// be attached to lessons.
func (vs *videoLibraryService) GetVideoRef(ctx context.Context, id uuid.UUID) (*types.VideoRef, error) {
	const op = "video.ref"
	v, err := vs.GetVideo(ctx, id)
	if err != nil {
		return nil, err
	}
	if v.Status != types.VideoStatusReady {
		return nil, builderdom.NewError(builderdom.CodePreconditionFailed, op, "video is not ready", nil)
	}
	ref := v.Ref()
	return &ref, nil
}

func (vs *videoLibraryService) ListLibrary(ctx context.Context, ownerID uuid.UUID) ([]*types.VideoAsset, error) {
	const op = "video.list"
	rows, err := vs.videoRepo.ListByOwner(ctx, nil, ownerID)
	if err != nil {
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	return rows, nil
}

func (vs *videoLibraryService) MarkProcessing(ctx context.Context, id uuid.UUID) error {
	return vs.setStatus(ctx, "video.mark_processing", id, map[string]interface{}{
		"status": types.VideoStatusProcessing,
	})
}

func (vs *videoLibraryService) MarkReady(ctx context.Context, id uuid.UUID, durationSeconds int) error {
	if durationSeconds < 0 {
		durationSeconds = 0
	}
	return vs.setStatus(ctx, "video.mark_ready", id, map[string]interface{}{
		"status":           types.VideoStatusReady,
		"duration_seconds": durationSeconds,
		"error_message":    "",
	})
}

func (vs *videoLibraryService) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	return vs.setStatus(ctx, "video.mark_failed", id, map[string]interface{}{
		"status":        types.VideoStatusFailed,
		"error_message": reason,
	})
}

func (vs *videoLibraryService) setStatus(ctx context.Context, op string, id uuid.UUID, updates map[string]interface{}) error {
	v, err := vs.videoRepo.GetByID(ctx, nil, id)
	if err != nil {
		return builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if v == nil {
		return builderdom.NotFoundError(op, "video", id)
	}
	if err := vs.videoRepo.UpdateFields(ctx, nil, id, updates); err != nil {
		vs.log.Error("video status update failed", "video_id", id, "error", err)
		return builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	vs.log.Info("video status updated", "video_id", id, "status", updates["status"])
	return nil
}
