package builder

import (
	"github.com/google/uuid"

	coursedom "github.com/courseforge/courseforge-backend/internal/domain/course"
)

// Derived read helpers. All return snapshots; none touch the dirty flag.

// SelectedModule returns a copy of the currently selected module, or nil.
func (s *Store) SelectedModule() *coursedom.Module {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.findModuleLocked(s.selectedModuleID)
	return m.Clone()
}

// SelectedLesson returns a copy of the currently selected lesson, or nil.
func (s *Store) SelectedLesson() *coursedom.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedLessonID == uuid.Nil {
		return nil
	}
	for _, m := range s.course.Modules {
		for _, l := range m.Lessons {
			if l.ID == s.selectedLessonID {
				return l.Clone()
			}
		}
	}
	return nil
}

// SelectedQuiz returns a copy of the currently selected quiz, or nil.
func (s *Store) SelectedQuiz() *coursedom.Quiz {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.findQuizLocked(s.selectedQuizID)
	return q.Clone()
}

// ModuleCount reports the number of modules in the tree.
func (s *Store) ModuleCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.course.Modules)
}

// TotalDurationSeconds sums the duration of every lesson in the course.
func (s *Store) TotalDurationSeconds() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, m := range s.course.Modules {
		for _, l := range m.Lessons {
			total += l.DurationSeconds
		}
	}
	return total
}

// QuizTotalPoints sums question points for a quiz; 0 when the quiz is not
// in the tree.
func (s *Store) QuizTotalPoints(quizID uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.findQuizLocked(quizID)
	if q == nil {
		return 0
	}
	total := 0
	for _, qs := range q.Questions {
		total += qs.Points
	}
	return total
}
