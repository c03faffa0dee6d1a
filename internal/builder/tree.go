package builder

import (
	"github.com/google/uuid"

	coursedom "github.com/courseforge/courseforge-backend/internal/domain/course"
)

// Tree lookup and sibling re-pack helpers. All of these assume the store
// mutex is held by the calling command.

func (s *Store) findModuleLocked(id uuid.UUID) *coursedom.Module {
	if id == uuid.Nil {
		return nil
	}
	for _, m := range s.course.Modules {
		if m.ID == id {
			return m
		}
	}
	return nil
}

func (s *Store) findLessonLocked(moduleID, lessonID uuid.UUID) (*coursedom.Module, *coursedom.Lesson) {
	m := s.findModuleLocked(moduleID)
	if m == nil {
		return nil, nil
	}
	for _, l := range m.Lessons {
		if l.ID == lessonID {
			return m, l
		}
	}
	return m, nil
}

// findQuizLocked searches the module-owned quizzes and the course-level
// floating quizzes.
func (s *Store) findQuizLocked(id uuid.UUID) *coursedom.Quiz {
	if id == uuid.Nil {
		return nil
	}
	for _, q := range s.course.Quizzes {
		if q.ID == id {
			return q
		}
	}
	for _, m := range s.course.Modules {
		for _, q := range m.Quizzes {
			if q.ID == id {
				return q
			}
		}
	}
	return nil
}

// quizSiblingsLocked returns the sibling collection a quiz lives in, so a
// delete can re-pack the right slice.
func (s *Store) quizSiblingsLocked(id uuid.UUID) *[]*coursedom.Quiz {
	for _, q := range s.course.Quizzes {
		if q.ID == id {
			return &s.course.Quizzes
		}
	}
	for _, m := range s.course.Modules {
		for _, q := range m.Quizzes {
			if q.ID == id {
				return &m.Quizzes
			}
		}
	}
	return nil
}

// Re-pack helpers rewrite sort_order as a dense 0..n-1 sequence in the
// current slice order. Every add, delete and reorder funnels through one of
// these so a sibling collection can never carry gaps or duplicates.

func repackModules(mods []*coursedom.Module) {
	for i, m := range mods {
		m.SortOrder = i
	}
}

func repackLessons(lessons []*coursedom.Lesson) {
	for i, l := range lessons {
		l.SortOrder = i
	}
}

func repackQuizzes(quizzes []*coursedom.Quiz) {
	for i, q := range quizzes {
		q.SortOrder = i
	}
}

func repackQuestions(questions []*coursedom.Question) {
	for i, q := range questions {
		q.SortOrder = i
	}
}

// clearSelectionWithinLocked drops any selection pointing into the given
// subtree ids after a cascade delete.
func (s *Store) clearSelectionWithinLocked(ids map[uuid.UUID]struct{}) {
	if _, ok := ids[s.selectedModuleID]; ok {
		s.selectedModuleID = uuid.Nil
	}
	if _, ok := ids[s.selectedLessonID]; ok {
		s.selectedLessonID = uuid.Nil
	}
	if _, ok := ids[s.selectedQuizID]; ok {
		s.selectedQuizID = uuid.Nil
	}
}

// subtreeIDs collects the module id and every descendant lesson/quiz id.
func subtreeIDs(m *coursedom.Module) map[uuid.UUID]struct{} {
	ids := map[uuid.UUID]struct{}{m.ID: {}}
	for _, l := range m.Lessons {
		ids[l.ID] = struct{}{}
	}
	for _, q := range m.Quizzes {
		ids[q.ID] = struct{}{}
	}
	return ids
}

// reorderByIDs rebuilds a sibling slice to match the supplied id order.
// Ids absent from the supplied list are dropped, so the caller must pass the
// complete surviving set. Unknown ids are ignored.
func reorderLessonsByIDs(current []*coursedom.Lesson, ordered []uuid.UUID) []*coursedom.Lesson {
	byID := make(map[uuid.UUID]*coursedom.Lesson, len(current))
	for _, l := range current {
		byID[l.ID] = l
	}
	out := make([]*coursedom.Lesson, 0, len(current))
	for _, id := range ordered {
		if l, ok := byID[id]; ok {
			out = append(out, l)
			delete(byID, id)
		}
	}
	return out
}

func reorderModulesByIDs(current []*coursedom.Module, ordered []uuid.UUID) []*coursedom.Module {
	byID := make(map[uuid.UUID]*coursedom.Module, len(current))
	for _, m := range current {
		byID[m.ID] = m
	}
	out := make([]*coursedom.Module, 0, len(current))
	for _, id := range ordered {
		if m, ok := byID[id]; ok {
			out = append(out, m)
			delete(byID, id)
		}
	}
	return out
}

func reorderQuizzesByIDs(current []*coursedom.Quiz, ordered []uuid.UUID) []*coursedom.Quiz {
	byID := make(map[uuid.UUID]*coursedom.Quiz, len(current))
	for _, q := range current {
		byID[q.ID] = q
	}
	out := make([]*coursedom.Quiz, 0, len(current))
	for _, id := range ordered {
		if q, ok := byID[id]; ok {
			out = append(out, q)
			delete(byID, id)
		}
	}
	return out
}

func reorderQuestionsByIDs(current []*coursedom.Question, ordered []uuid.UUID) []*coursedom.Question {
	byID := make(map[uuid.UUID]*coursedom.Question, len(current))
	for _, q := range current {
		byID[q.ID] = q
	}
	out := make([]*coursedom.Question, 0, len(current))
	for _, id := range ordered {
		if q, ok := byID[id]; ok {
			out = append(out, q)
			delete(byID, id)
		}
	}
	return out
}
