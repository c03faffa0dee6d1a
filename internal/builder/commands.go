package builder

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"

	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	coursedom "github.com/courseforge/courseforge-backend/internal/domain/course"
)

// Structural commands. Each one applies atomically under the store mutex,
// re-packs the affected sibling sort_order collection, and marks the store
// dirty on success. Commands aimed at an entity that is not in the tree fail
// with CodeNotFound instead of silently dropping data.

const (
	defaultModuleTitle = "New Module"
	defaultLessonTitle = "New Lesson"
	defaultQuizTitle   = "New Quiz"
)

// CoursePatch is a shallow merge into the course root. Nil fields are left
// untouched. Field values are not validated here; that belongs to the edge.
type CoursePatch struct {
	Title        *string
	Description  *string
	Status       *string
	Visibility   *string
	PassingScore *int
}

type ModulePatch struct {
	Title       *string
	Description *string
}

type LessonPatch struct {
	Title           *string
	Description     *string
	IsRequired      *bool
	DurationSeconds *int
	VideoID         *uuid.UUID
}

type QuizPatch struct {
	Title            *string
	Description      *string
	TimeLimitMinutes *int
}

type QuestionPatch struct {
	Text          *string
	Type          *string
	CorrectAnswer *string
	AnswerOptions []string
	Points        *int
	Explanation   *string
}

// QuestionDraft carries the fields for a freshly added question.
type QuestionDraft struct {
	Text          string
	Type          string
	CorrectAnswer string
	AnswerOptions []string
	Points        int
	Explanation   string
}

func (s *Store) UpdateCourse(patch CoursePatch) error {
	const op = "builder.update_course"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	c := s.course
	if patch.Title != nil {
		c.Title = *patch.Title
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.Status != nil {
		c.Status = *patch.Status
	}
	if patch.Visibility != nil {
		c.Visibility = *patch.Visibility
	}
	if patch.PassingScore != nil {
		c.PassingScore = *patch.PassingScore
	}
	s.dirty = true
	return nil
}

// AddModule appends a new empty module at the end of the course and selects
// it. The returned value is a snapshot of the new module.
func (s *Store) AddModule() (*coursedom.Module, error) {
	const op = "builder.add_module"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return nil, err
	}
	m := &coursedom.Module{
		ID:        s.ids.next(),
		CourseID:  s.course.ID,
		Title:     defaultModuleTitle,
		SortOrder: len(s.course.Modules),
		Lessons:   []*coursedom.Lesson{},
		Quizzes:   []*coursedom.Quiz{},
	}
	s.course.Modules = append(s.course.Modules, m)
	repackModules(s.course.Modules)
	s.selectedModuleID = m.ID
	s.selectedLessonID = uuid.Nil
	s.selectedQuizID = uuid.Nil
	s.dirty = true
	return m.Clone(), nil
}

func (s *Store) UpdateModule(moduleID uuid.UUID, patch ModulePatch) error {
	const op = "builder.update_module"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	m := s.findModuleLocked(moduleID)
	if m == nil {
		return builderdom.NotFoundError(op, "module", moduleID)
	}
	if patch.Title != nil {
		m.Title = *patch.Title
	}
	if patch.Description != nil {
		m.Description = *patch.Description
	}
	s.dirty = true
	return nil
}

// DeleteModule removes the module and cascades to its lessons and quizzes
// (and their questions). Sibling sort_order is re-packed and any selection
// pointing into the deleted subtree is cleared.
func (s *Store) DeleteModule(moduleID uuid.UUID) error {
	const op = "builder.delete_module"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	idx := -1
	for i, m := range s.course.Modules {
		if m.ID == moduleID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return builderdom.NotFoundError(op, "module", moduleID)
	}
	doomed := s.course.Modules[idx]
	s.course.Modules = append(s.course.Modules[:idx], s.course.Modules[idx+1:]...)
	repackModules(s.course.Modules)
	s.clearSelectionWithinLocked(subtreeIDs(doomed))
	s.dirty = true
	return nil
}

func (s *Store) ReorderModules(orderedIDs []uuid.UUID) error {
	const op = "builder.reorder_modules"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	s.course.Modules = reorderModulesByIDs(s.course.Modules, orderedIDs)
	repackModules(s.course.Modules)
	s.dirty = true
	return nil
}

// AddLesson appends a lesson to the module. When a video reference is given,
// the lesson title and duration default from it; otherwise the lesson starts
// as an empty placeholder. The new lesson is selected.
func (s *Store) AddLesson(moduleID uuid.UUID, video *coursedom.VideoRef) (*coursedom.Lesson, error) {
	const op = "builder.add_lesson"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return nil, err
	}
	m := s.findModuleLocked(moduleID)
	if m == nil {
		return nil, builderdom.NotFoundError(op, "module", moduleID)
	}
	l := &coursedom.Lesson{
		ID:         s.ids.next(),
		ModuleID:   m.ID,
		Title:      defaultLessonTitle,
		SortOrder:  len(m.Lessons),
		IsRequired: true,
	}
	if video != nil {
		if video.Title != "" {
			l.Title = video.Title
		}
		l.VideoID = coursedom.PtrUUID(video.ID)
		l.DurationSeconds = video.DurationSeconds
	}
	m.Lessons = append(m.Lessons, l)
	repackLessons(m.Lessons)
	s.selectedModuleID = m.ID
	s.selectedLessonID = l.ID
	s.selectedQuizID = uuid.Nil
	s.dirty = true
	return l.Clone(), nil
}

func (s *Store) UpdateLesson(moduleID, lessonID uuid.UUID, patch LessonPatch) error {
	const op = "builder.update_lesson"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	m, l := s.findLessonLocked(moduleID, lessonID)
	if m == nil {
		return builderdom.NotFoundError(op, "module", moduleID)
	}
	if l == nil {
		return builderdom.NotFoundError(op, "lesson", lessonID)
	}
	if patch.Title != nil {
		l.Title = *patch.Title
	}
	if patch.Description != nil {
		l.Description = *patch.Description
	}
	if patch.IsRequired != nil {
		l.IsRequired = *patch.IsRequired
	}
	if patch.DurationSeconds != nil {
		l.DurationSeconds = *patch.DurationSeconds
	}
	if patch.VideoID != nil {
		l.VideoID = coursedom.PtrUUID(*patch.VideoID)
	}
	s.dirty = true
	return nil
}

func (s *Store) DeleteLesson(moduleID, lessonID uuid.UUID) error {
	const op = "builder.delete_lesson"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	m := s.findModuleLocked(moduleID)
	if m == nil {
		return builderdom.NotFoundError(op, "module", moduleID)
	}
	idx := -1
	for i, l := range m.Lessons {
		if l.ID == lessonID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return builderdom.NotFoundError(op, "lesson", lessonID)
	}
	m.Lessons = append(m.Lessons[:idx], m.Lessons[idx+1:]...)
	repackLessons(m.Lessons)
	if s.selectedLessonID == lessonID {
		s.selectedLessonID = uuid.Nil
	}
	s.dirty = true
	return nil
}

// ReorderLessons re-maps each lesson's sort_order to its index in the given
// list. Lessons whose id is absent from the list are dropped, so callers
// must supply the complete surviving set.
func (s *Store) ReorderLessons(moduleID uuid.UUID, orderedIDs []uuid.UUID) error {
	const op = "builder.reorder_lessons"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	m := s.findModuleLocked(moduleID)
	if m == nil {
		return builderdom.NotFoundError(op, "module", moduleID)
	}
	m.Lessons = reorderLessonsByIDs(m.Lessons, orderedIDs)
	repackLessons(m.Lessons)
	s.dirty = true
	return nil
}

// AddQuiz appends an empty quiz. With a Nil moduleID the quiz floats at
// course level; otherwise it is owned by the named module. The new quiz is
// selected.
func (s *Store) AddQuiz(moduleID uuid.UUID) (*coursedom.Quiz, error) {
	const op = "builder.add_quiz"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return nil, err
	}
	q := &coursedom.Quiz{
		ID:        s.ids.next(),
		CourseID:  s.course.ID,
		Title:     defaultQuizTitle,
		Questions: []*coursedom.Question{},
	}
	if moduleID == uuid.Nil {
		q.SortOrder = len(s.course.Quizzes)
		s.course.Quizzes = append(s.course.Quizzes, q)
		repackQuizzes(s.course.Quizzes)
	} else {
		m := s.findModuleLocked(moduleID)
		if m == nil {
			return nil, builderdom.NotFoundError(op, "module", moduleID)
		}
		q.ModuleID = coursedom.PtrUUID(m.ID)
		q.SortOrder = len(m.Quizzes)
		m.Quizzes = append(m.Quizzes, q)
		repackQuizzes(m.Quizzes)
		s.selectedModuleID = m.ID
	}
	s.selectedLessonID = uuid.Nil
	s.selectedQuizID = q.ID
	s.dirty = true
	return q.Clone(), nil
}

func (s *Store) UpdateQuiz(quizID uuid.UUID, patch QuizPatch) error {
	const op = "builder.update_quiz"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	q := s.findQuizLocked(quizID)
	if q == nil {
		return builderdom.NotFoundError(op, "quiz", quizID)
	}
	if patch.Title != nil {
		q.Title = *patch.Title
	}
	if patch.Description != nil {
		q.Description = *patch.Description
	}
	if patch.TimeLimitMinutes != nil {
		v := *patch.TimeLimitMinutes
		q.TimeLimitMinutes = &v
	}
	s.dirty = true
	return nil
}

// DeleteQuiz removes the quiz and its questions and re-packs whichever
// sibling collection owned it.
func (s *Store) DeleteQuiz(quizID uuid.UUID) error {
	const op = "builder.delete_quiz"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	siblings := s.quizSiblingsLocked(quizID)
	if siblings == nil {
		return builderdom.NotFoundError(op, "quiz", quizID)
	}
	out := (*siblings)[:0]
	for _, q := range *siblings {
		if q.ID != quizID {
			out = append(out, q)
		}
	}
	*siblings = out
	repackQuizzes(*siblings)
	if s.selectedQuizID == quizID {
		s.selectedQuizID = uuid.Nil
	}
	s.dirty = true
	return nil
}

// ReorderQuizzes reorders the sibling collection named by moduleID; a Nil
// moduleID targets the course-level floating quizzes.
func (s *Store) ReorderQuizzes(moduleID uuid.UUID, orderedIDs []uuid.UUID) error {
	const op = "builder.reorder_quizzes"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	if moduleID == uuid.Nil {
		s.course.Quizzes = reorderQuizzesByIDs(s.course.Quizzes, orderedIDs)
		repackQuizzes(s.course.Quizzes)
	} else {
		m := s.findModuleLocked(moduleID)
		if m == nil {
			return builderdom.NotFoundError(op, "module", moduleID)
		}
		m.Quizzes = reorderQuizzesByIDs(m.Quizzes, orderedIDs)
		repackQuizzes(m.Quizzes)
	}
	s.dirty = true
	return nil
}

// AddQuestion appends a question to the named quiz. The quiz lookup is
// global across course-level and module-owned quizzes.
func (s *Store) AddQuestion(quizID uuid.UUID, draft QuestionDraft) (*coursedom.Question, error) {
	const op = "builder.add_question"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return nil, err
	}
	q := s.findQuizLocked(quizID)
	if q == nil {
		return nil, builderdom.NotFoundError(op, "quiz", quizID)
	}
	points := draft.Points
	if points < 1 {
		points = 1
	}
	qt := draft.Type
	if qt == "" {
		qt = coursedom.QuestionTypeMultipleChoice
	}
	question := &coursedom.Question{
		ID:            s.ids.next(),
		QuizID:        q.ID,
		Text:          draft.Text,
		Type:          qt,
		CorrectAnswer: draft.CorrectAnswer,
		AnswerOptions: datatypes.NewJSONSlice(append([]string(nil), draft.AnswerOptions...)),
		Points:        points,
		SortOrder:     len(q.Questions),
		Explanation:   draft.Explanation,
	}
	q.Questions = append(q.Questions, question)
	repackQuestions(q.Questions)
	s.dirty = true
	return question.Clone(), nil
}

func (s *Store) UpdateQuestion(quizID, questionID uuid.UUID, patch QuestionPatch) error {
	const op = "builder.update_question"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	q := s.findQuizLocked(quizID)
	if q == nil {
		return builderdom.NotFoundError(op, "quiz", quizID)
	}
	var question *coursedom.Question
	for _, qs := range q.Questions {
		if qs.ID == questionID {
			question = qs
			break
		}
	}
	if question == nil {
		return builderdom.NotFoundError(op, "question", questionID)
	}
	if patch.Text != nil {
		question.Text = *patch.Text
	}
	if patch.Type != nil {
		question.Type = *patch.Type
	}
	if patch.CorrectAnswer != nil {
		question.CorrectAnswer = *patch.CorrectAnswer
	}
	if patch.AnswerOptions != nil {
		question.AnswerOptions = datatypes.NewJSONSlice(append([]string(nil), patch.AnswerOptions...))
	}
	if patch.Points != nil && *patch.Points >= 1 {
		question.Points = *patch.Points
	}
	if patch.Explanation != nil {
		question.Explanation = *patch.Explanation
	}
	s.dirty = true
	return nil
}

func (s *Store) DeleteQuestion(quizID, questionID uuid.UUID) error {
	const op = "builder.delete_question"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	q := s.findQuizLocked(quizID)
	if q == nil {
		return builderdom.NotFoundError(op, "quiz", quizID)
	}
	idx := -1
	for i, qs := range q.Questions {
		if qs.ID == questionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return builderdom.NotFoundError(op, "question", questionID)
	}
	q.Questions = append(q.Questions[:idx], q.Questions[idx+1:]...)
	repackQuestions(q.Questions)
	s.dirty = true
	return nil
}

func (s *Store) ReorderQuestions(quizID uuid.UUID, orderedIDs []uuid.UUID) error {
	const op = "builder.reorder_questions"
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.guardStructural(op); err != nil {
		return err
	}
	q := s.findQuizLocked(quizID)
	if q == nil {
		return builderdom.NotFoundError(op, "quiz", quizID)
	}
	q.Questions = reorderQuestionsByIDs(q.Questions, orderedIDs)
	repackQuestions(q.Questions)
	s.dirty = true
	return nil
}

// SetSelected replaces all three selection fields atomically. uuid.Nil
// clears a field; passing all Nil clears the selection entirely. Selecting
// never touches the dirty flag.
func (s *Store) SetSelected(moduleID, lessonID, quizID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedModuleID = moduleID
	s.selectedLessonID = lessonID
	s.selectedQuizID = quizID
}

// SetPreviewMode toggles the preview/edit display mode. Display-only; it
// has no structural effect and does not mark the store dirty.
func (s *Store) SetPreviewMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previewMode = on
}
