package builder

import (
	"sync"

	"github.com/google/uuid"

	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	coursedom "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

// Store owns the canonical in-memory course tree for one editing session,
// plus the editor cursor (selection), preview flag and dirty flag. Each
// editor session constructs its own Store; nothing here is process-global,
// so tests and multiple open editors never collide.
//
// All structural commands are synchronous tree transforms guarded by a
// mutex. Accessors hand out deep copies; the canonical tree never escapes.
type Store struct {
	mu  sync.Mutex
	log *logger.Logger
	ids *idAllocator

	course *coursedom.Course

	selectedModuleID uuid.UUID
	selectedLessonID uuid.UUID
	selectedQuizID   uuid.UUID

	previewMode bool
	dirty       bool
	pendingSave bool
}

// Selection is the editor cursor. uuid.Nil means nothing of that kind is
// selected.
type Selection struct {
	ModuleID uuid.UUID
	LessonID uuid.UUID
	QuizID   uuid.UUID
}

func NewStore(log *logger.Logger) *Store {
	if log != nil {
		log = log.With("component", "builder.Store")
	}
	s := &Store{log: log, ids: newIDAllocator()}
	s.resetLocked()
	return s
}

// SetCourse replaces the tree wholesale with a clone of the given course.
// Used for hydration from the server; it clears the dirty flag and the
// selection, and never marks the store dirty itself.
func (s *Store) SetCourse(c *coursedom.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c == nil {
		s.resetLocked()
		return
	}
	s.course = c.Clone()
	s.clearSelectionLocked()
	s.previewMode = false
	s.dirty = false
	s.ids.forgetAll()
}

// Reset returns the store to its initial empty shape: a fresh unsaved draft
// course with a local id.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Store) resetLocked() {
	s.course = &coursedom.Course{
		ID:           s.ids.next(),
		Status:       coursedom.StatusDraft,
		Visibility:   coursedom.VisibilityOrganization,
		PassingScore: 70,
		Modules:      []*coursedom.Module{},
		Quizzes:      []*coursedom.Quiz{},
	}
	s.clearSelectionLocked()
	s.previewMode = false
	s.dirty = false
}

func (s *Store) clearSelectionLocked() {
	s.selectedModuleID = uuid.Nil
	s.selectedLessonID = uuid.Nil
	s.selectedQuizID = uuid.Nil
}

// Course returns a deep copy of the current tree.
func (s *Store) Course() *coursedom.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.course.Clone()
}

func (s *Store) Selection() Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Selection{
		ModuleID: s.selectedModuleID,
		LessonID: s.selectedLessonID,
		QuizID:   s.selectedQuizID,
	}
}

func (s *Store) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

func (s *Store) IsPreviewMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.previewMode
}

func (s *Store) IsPendingSave() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pendingSave
}

// IsUnsaved reports whether the course has never been persisted, i.e. its id
// is still a client-minted local id.
func (s *Store) IsUnsaved() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.course.ID == uuid.Nil || s.ids.isLocal(s.course.ID)
}

// beginSave flips the pending-save guard. While a save is in flight,
// structural commands are rejected with CodeConflict instead of silently
// racing the server-assigned ids.
func (s *Store) beginSave(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingSave {
		return builderdom.NewError(builderdom.CodeConflict, op, "a save is already in flight", nil)
	}
	s.pendingSave = true
	return nil
}

func (s *Store) endSave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingSave = false
}

// adoptSaved replaces the tree with the server-returned course after a
// successful save and marks the store clean. Selection is cleared because
// the server may have re-keyed every node.
func (s *Store) adoptSaved(c *coursedom.Course) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c != nil {
		s.course = c.Clone()
	}
	s.clearSelectionLocked()
	s.dirty = false
	s.ids.forgetAll()
}

// guardStructural is the common entry check for every structural command.
func (s *Store) guardStructural(op string) error {
	if s.pendingSave {
		return builderdom.NewError(builderdom.CodeConflict, op, "edit rejected: a save is in flight", nil)
	}
	return nil
}
