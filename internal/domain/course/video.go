package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	VideoStatusUploaded   = "uploaded"
	VideoStatusProcessing = "processing"
	VideoStatusReady      = "ready"
	VideoStatusFailed     = "failed"
)

// VideoAsset is the library record behind a lesson video. The transcoding
// pipeline itself lives outside this service; consumers only poll status.
type VideoAsset struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID         uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Title           string    `gorm:"column:title;not null" json:"title"`
	DurationSeconds int       `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	Status          string    `gorm:"column:status;not null;default:'uploaded';index" json:"status"`
	StorageKey      string    `gorm:"column:storage_key" json:"storage_key,omitempty"`
	ErrorMessage    string    `gorm:"column:error_message;type:text" json:"error_message,omitempty"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (VideoAsset) TableName() string { return "video_asset" }

// VideoRef is the slim shape the course builder consumes when it defaults
// lesson fields from an attached video.
type VideoRef struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	DurationSeconds int       `json:"duration_seconds"`
}

func (v *VideoAsset) Ref() VideoRef {
	return VideoRef{ID: v.ID, Title: v.Title, DurationSeconds: v.DurationSeconds}
}
