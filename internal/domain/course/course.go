package course

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

const (
	VisibilityPublic       = "public"
	VisibilityOrganization = "organization"
	VisibilityPrivate      = "private"
)

const (
	QuestionTypeMultipleChoice = "multiple_choice"
	QuestionTypeTrueFalse      = "true_false"
	QuestionTypeShortAnswer    = "short_answer"
)

type Course struct {
	ID           uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerID      uuid.UUID `gorm:"type:uuid;index" json:"owner_id"`
	Title        string    `gorm:"column:title;not null" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	Status       string    `gorm:"column:status;not null;default:'draft';index" json:"status"`
	Visibility   string    `gorm:"column:visibility;not null;default:'organization'" json:"visibility"`
	PassingScore int       `gorm:"column:passing_score;not null;default:70" json:"passing_score"`

	Metadata datatypes.JSON `gorm:"column:metadata;type:jsonb" json:"metadata,omitempty"`

	// Children are assembled by the service layer, not loaded by gorm.
	Modules []*Module `gorm:"-" json:"modules"`
	// Quizzes not attached to any module float at course level.
	Quizzes []*Quiz `gorm:"-" json:"quizzes"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

type Module struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	Title       string    `gorm:"column:title;not null" json:"title"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	SortOrder   int       `gorm:"column:sort_order;not null" json:"sort_order"`

	Lessons []*Lesson `gorm:"-" json:"lessons"`
	Quizzes []*Quiz   `gorm:"-" json:"quizzes"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Module) TableName() string { return "course_module" }

type Lesson struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ModuleID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"module_id"`
	VideoID         *uuid.UUID `gorm:"type:uuid;index" json:"video_id,omitempty"`
	Title           string     `gorm:"column:title;not null" json:"title"`
	Description     string     `gorm:"column:description;type:text" json:"description"`
	SortOrder       int        `gorm:"column:sort_order;not null" json:"sort_order"`
	IsRequired      bool       `gorm:"column:is_required;not null;default:true" json:"is_required"`
	DurationSeconds int        `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }

type Quiz struct {
	ID       uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	// ModuleID is nil for quizzes floating at course level.
	ModuleID         *uuid.UUID `gorm:"type:uuid;index" json:"module_id,omitempty"`
	Title            string     `gorm:"column:title;not null" json:"title"`
	Description      string     `gorm:"column:description;type:text" json:"description"`
	TimeLimitMinutes *int       `gorm:"column:time_limit_minutes" json:"time_limit_minutes,omitempty"`
	SortOrder        int        `gorm:"column:sort_order;not null" json:"sort_order"`

	Questions []*Question `gorm:"-" json:"questions"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Quiz) TableName() string { return "quiz" }

type Question struct {
	ID            uuid.UUID                  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuizID        uuid.UUID                  `gorm:"type:uuid;not null;index" json:"quiz_id"`
	Text          string                     `gorm:"column:text;not null" json:"text"`
	Type          string                     `gorm:"column:type;not null" json:"type"`
	CorrectAnswer string                     `gorm:"column:correct_answer;not null" json:"correct_answer"`
	AnswerOptions datatypes.JSONSlice[string] `gorm:"column:answer_options;type:jsonb" json:"answer_options"`
	Points        int                        `gorm:"column:points;not null;default:1" json:"points"`
	SortOrder     int                        `gorm:"column:sort_order;not null" json:"sort_order"`
	Explanation   string                     `gorm:"column:explanation;type:text" json:"explanation,omitempty"`

	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "quiz_question" }
