package builder

import (
	"context"
	"time"

	"github.com/google/uuid"

	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	coursedom "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

// CourseRepository is the persistence collaborator a session saves through.
// Create assigns server ids; Update and Publish are keyed by an existing id
// and are safe to retry, Create is not.
type CourseRepository interface {
	CreateCourse(ctx context.Context, c *coursedom.Course) (*coursedom.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, c *coursedom.Course) (*coursedom.Course, error)
	PublishCourse(ctx context.Context, id uuid.UUID) error
	GetCourse(ctx context.Context, id uuid.UUID) (*coursedom.Course, error)
}

const defaultSaveTimeout = 30 * time.Second

// Session wraps a Store with persistence orchestration. Save and Publish are
// the only operations that cross the process boundary; on failure the tree
// is left untouched so the user never loses in-progress edits.
type Session struct {
	store   *Store
	repo    CourseRepository
	log     *logger.Logger
	timeout time.Duration
}

func NewSession(store *Store, repo CourseRepository, log *logger.Logger) *Session {
	if log != nil {
		log = log.With("component", "builder.Session")
	}
	return &Session{
		store:   store,
		repo:    repo,
		log:     log,
		timeout: defaultSaveTimeout,
	}
}

// WithTimeout overrides the per-call save/publish timeout.
func (s *Session) WithTimeout(d time.Duration) *Session {
	if d > 0 {
		s.timeout = d
	}
	return s
}

func (s *Session) Store() *Store { return s.store }

// HydrateFrom fetches a course and replaces the tree with it. The store
// comes out clean.
func (s *Session) HydrateFrom(ctx context.Context, id uuid.UUID) error {
	const op = "builder.hydrate"
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	c, err := s.repo.GetCourse(ctx, id)
	if err != nil {
		return builderdom.Wrap(builderdom.CodeOf(err).OrInternal(), op, err)
	}
	s.store.SetCourse(c)
	return nil
}

// Save persists the current snapshot: create when the course has never been
// saved, update otherwise. On success the server-returned tree (including
// any server-assigned ids) is adopted and the dirty flag clears. On failure
// the local state is untouched and the error is surfaced to the caller;
// retry stays a user decision because create is not idempotent.
func (s *Session) Save(ctx context.Context) error {
	const op = "builder.save"
	if err := s.store.beginSave(op); err != nil {
		return err
	}
	defer s.store.endSave()

	snapshot := s.store.Course()
	creating := s.store.IsUnsaved()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		saved *coursedom.Course
		err   error
	)
	if creating {
		saved, err = s.repo.CreateCourse(ctx, snapshot)
	} else {
		saved, err = s.repo.UpdateCourse(ctx, snapshot.ID, snapshot)
	}
	if err != nil {
		if s.log != nil {
			s.log.Warn("course save failed", "creating", creating, "course_id", snapshot.ID, "error", err)
		}
		return builderdom.Wrap(builderdom.CodeOf(err).OrInternal(), op, err)
	}
	s.store.adoptSaved(saved)
	if s.log != nil {
		s.log.Info("course saved", "creating", creating, "course_id", saved.ID)
	}
	return nil
}

// Publish asks the server to publish the course. Preconditions are checked
// locally and fail fast: the course must have been saved and must contain at
// least one module. Publish does not flip the local status; callers refetch
// to observe the server-side transition.
func (s *Session) Publish(ctx context.Context) error {
	const op = "builder.publish"
	snapshot := s.store.Course()
	if s.store.IsUnsaved() {
		return builderdom.NewError(builderdom.CodePreconditionFailed, op, "course has no server id; save before publishing", nil)
	}
	if len(snapshot.Modules) == 0 {
		return builderdom.NewError(builderdom.CodePreconditionFailed, op, "course has no modules", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.repo.PublishCourse(ctx, snapshot.ID); err != nil {
		if s.log != nil {
			s.log.Warn("course publish failed", "course_id", snapshot.ID, "error", err)
		}
		return builderdom.Wrap(builderdom.CodeOf(err).OrInternal(), op, err)
	}
	if s.log != nil {
		s.log.Info("course published", "course_id", snapshot.ID)
	}
	return nil
}
