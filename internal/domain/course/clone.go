package course

import "github.com/google/uuid"

// Clone returns a deep copy of the course tree. The editing store hands out
// clones so callers can never reach into its canonical state.
func (c *Course) Clone() *Course {
	if c == nil {
		return nil
	}
	out := *c
	out.Metadata = append([]byte(nil), c.Metadata...)
	out.Modules = make([]*Module, 0, len(c.Modules))
	for _, m := range c.Modules {
		out.Modules = append(out.Modules, m.Clone())
	}
	out.Quizzes = make([]*Quiz, 0, len(c.Quizzes))
	for _, q := range c.Quizzes {
		out.Quizzes = append(out.Quizzes, q.Clone())
	}
	return &out
}

func (m *Module) Clone() *Module {
	if m == nil {
		return nil
	}
	out := *m
	out.Lessons = make([]*Lesson, 0, len(m.Lessons))
	for _, l := range m.Lessons {
		out.Lessons = append(out.Lessons, l.Clone())
	}
	out.Quizzes = make([]*Quiz, 0, len(m.Quizzes))
	for _, q := range m.Quizzes {
		out.Quizzes = append(out.Quizzes, q.Clone())
	}
	return &out
}

func (l *Lesson) Clone() *Lesson {
	if l == nil {
		return nil
	}
	out := *l
	if l.VideoID != nil {
		id := *l.VideoID
		out.VideoID = &id
	}
	return &out
}

func (q *Quiz) Clone() *Quiz {
	if q == nil {
		return nil
	}
	out := *q
	if q.ModuleID != nil {
		id := *q.ModuleID
		out.ModuleID = &id
	}
	if q.TimeLimitMinutes != nil {
		v := *q.TimeLimitMinutes
		out.TimeLimitMinutes = &v
	}
	out.Questions = make([]*Question, 0, len(q.Questions))
	for _, qs := range q.Questions {
		out.Questions = append(out.Questions, qs.Clone())
	}
	return &out
}

func (q *Question) Clone() *Question {
	if q == nil {
		return nil
	}
	out := *q
	out.AnswerOptions = append(out.AnswerOptions[:0:0], q.AnswerOptions...)
	return &out
}

// PtrUUID copies an id into a fresh pointer, useful when wiring optional
// parent references.
func PtrUUID(id uuid.UUID) *uuid.UUID { return &id }
