package builder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	coursedom "github.com/courseforge/courseforge-backend/internal/domain/course"
)

// fakeCourseRepo is an in-memory CourseRepository. Create assigns fresh ids
// the way the real service does; a non-nil err makes every call fail.
type fakeCourseRepo struct {
	stored  *coursedom.Course
	err     error
	creates int
	updates int

	// gate, when non-nil, blocks CreateCourse until released. Used to hold a
	// save in flight deterministically.
	gate chan struct{}
}

func (f *fakeCourseRepo) CreateCourse(_ context.Context, c *coursedom.Course) (*coursedom.Course, error) {
	if f.gate != nil {
		<-f.gate
	}
	f.creates++
	if f.err != nil {
		return nil, f.err
	}
	saved := c.Clone()
	saved.ID = uuid.New()
	for _, m := range saved.Modules {
		m.ID = uuid.New()
		m.CourseID = saved.ID
		for _, l := range m.Lessons {
			l.ID = uuid.New()
			l.ModuleID = m.ID
		}
		for _, q := range m.Quizzes {
			q.ID = uuid.New()
			q.CourseID = saved.ID
			q.ModuleID = coursedom.PtrUUID(m.ID)
			for _, qs := range q.Questions {
				qs.ID = uuid.New()
				qs.QuizID = q.ID
			}
		}
	}
	for _, q := range saved.Quizzes {
		q.ID = uuid.New()
		q.CourseID = saved.ID
		for _, qs := range q.Questions {
			qs.ID = uuid.New()
			qs.QuizID = q.ID
		}
	}
	f.stored = saved.Clone()
	return saved, nil
}

func (f *fakeCourseRepo) UpdateCourse(_ context.Context, id uuid.UUID, c *coursedom.Course) (*coursedom.Course, error) {
	f.updates++
	if f.err != nil {
		return nil, f.err
	}
	if f.stored == nil || f.stored.ID != id {
		return nil, builderdom.NewError(builderdom.CodeNotFound, "fake.update", "course not found", nil)
	}
	f.stored = c.Clone()
	return c.Clone(), nil
}

func (f *fakeCourseRepo) PublishCourse(_ context.Context, id uuid.UUID) error {
	if f.err != nil {
		return f.err
	}
	if f.stored == nil || f.stored.ID != id {
		return builderdom.NewError(builderdom.CodeNotFound, "fake.publish", "course not found", nil)
	}
	f.stored.Status = coursedom.StatusPublished
	return nil
}

func (f *fakeCourseRepo) GetCourse(_ context.Context, id uuid.UUID) (*coursedom.Course, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.stored == nil || f.stored.ID != id {
		return nil, builderdom.NewError(builderdom.CodeNotFound, "fake.get", "course not found", nil)
	}
	return f.stored.Clone(), nil
}

func newTestSession(repo CourseRepository) *Session {
	return NewSession(NewStore(nil), repo, nil)
}

func TestSaveCreatesThenUpdates(t *testing.T) {
	repo := &fakeCourseRepo{}
	sess := newTestSession(repo)
	s := sess.Store()

	m, _ := s.AddModule()
	_, _ = s.AddLesson(m.ID, nil)

	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	if repo.creates != 1 || repo.updates != 0 {
		t.Fatalf("first save must create: creates=%d updates=%d", repo.creates, repo.updates)
	}
	if s.IsDirty() {
		t.Fatalf("successful save must clear dirty")
	}
	if s.IsUnsaved() {
		t.Fatalf("store must adopt server id after create")
	}
	serverID := s.Course().ID
	if serverID != repo.stored.ID {
		t.Fatalf("adopted id mismatch: got=%s want=%s", serverID, repo.stored.ID)
	}

	if err := s.UpdateCourse(CoursePatch{Title: strPtr("Onboarding 101")}); err != nil {
		t.Fatalf("UpdateCourse: %v", err)
	}
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("second Save: %v", err)
	}
	if repo.creates != 1 || repo.updates != 1 {
		t.Fatalf("second save must update: creates=%d updates=%d", repo.creates, repo.updates)
	}
	if s.Course().ID != serverID {
		t.Fatalf("update must not re-key the course")
	}
}

func TestSaveFailureLeavesStateUntouched(t *testing.T) {
	repo := &fakeCourseRepo{err: errors.New("network down")}
	sess := newTestSession(repo)
	s := sess.Store()

	m, _ := s.AddModule()
	before := s.Course()

	err := sess.Save(context.Background())
	if err == nil {
		t.Fatalf("expected save failure")
	}
	if !s.IsDirty() {
		t.Fatalf("failed save must keep dirty flag")
	}
	if !s.IsUnsaved() {
		t.Fatalf("failed create must not adopt an id")
	}
	after := s.Course()
	if after.ID != before.ID || len(after.Modules) != 1 || after.Modules[0].ID != m.ID {
		t.Fatalf("failed save mutated local tree")
	}
	if s.IsPendingSave() {
		t.Fatalf("pending-save guard must release after failure")
	}
}

func TestEditDuringInFlightSaveIsRejected(t *testing.T) {
	repo := &fakeCourseRepo{gate: make(chan struct{})}
	sess := newTestSession(repo)
	s := sess.Store()
	_, _ = s.AddModule()

	done := make(chan error, 1)
	go func() { done <- sess.Save(context.Background()) }()

	// Wait until the save has entered the repository call.
	for !s.IsPendingSave() {
		time.Sleep(time.Millisecond)
	}

	if _, err := s.AddModule(); !builderdom.IsCode(err, builderdom.CodeConflict) {
		t.Fatalf("edit during in-flight save: expected conflict, got=%v", err)
	}
	// Cursor movement stays allowed while a save is in flight.
	s.SetSelected(uuid.Nil, uuid.Nil, uuid.Nil)

	close(repo.gate)
	if err := <-done; err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := s.AddModule(); err != nil {
		t.Fatalf("edit after save resolved: %v", err)
	}
}

func TestConcurrentSaveIsRejected(t *testing.T) {
	repo := &fakeCourseRepo{gate: make(chan struct{})}
	sess := newTestSession(repo)
	_, _ = sess.Store().AddModule()

	done := make(chan error, 1)
	go func() { done <- sess.Save(context.Background()) }()
	for !sess.Store().IsPendingSave() {
		time.Sleep(time.Millisecond)
	}

	if err := sess.Save(context.Background()); !builderdom.IsCode(err, builderdom.CodeConflict) {
		t.Fatalf("second save while in flight: expected conflict, got=%v", err)
	}

	close(repo.gate)
	if err := <-done; err != nil {
		t.Fatalf("Save: %v", err)
	}
}

func TestPublishRequiresServerID(t *testing.T) {
	repo := &fakeCourseRepo{}
	sess := newTestSession(repo)
	_, _ = sess.Store().AddModule()

	err := sess.Publish(context.Background())
	if !builderdom.IsCode(err, builderdom.CodePreconditionFailed) {
		t.Fatalf("publish without save: expected precondition_failed, got=%v", err)
	}
}

func TestPublishRequiresModules(t *testing.T) {
	repo := &fakeCourseRepo{}
	sess := newTestSession(repo)
	s := sess.Store()

	m, _ := s.AddModule()
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Remove the only module after saving; publish must now refuse locally.
	saved := s.Course()
	if err := s.DeleteModule(saved.Modules[0].ID); err != nil {
		t.Fatalf("DeleteModule: %v", err)
	}
	_ = m

	err := sess.Publish(context.Background())
	if !builderdom.IsCode(err, builderdom.CodePreconditionFailed) {
		t.Fatalf("publish with no modules: expected precondition_failed, got=%v", err)
	}
}

func TestPublishDoesNotFlipLocalStatus(t *testing.T) {
	repo := &fakeCourseRepo{}
	sess := newTestSession(repo)
	s := sess.Store()

	_, _ = s.AddModule()
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := sess.Publish(context.Background()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if got := s.Course().Status; got != coursedom.StatusDraft {
		t.Fatalf("publish flipped local status: got=%s", got)
	}
	if repo.stored.Status != coursedom.StatusPublished {
		t.Fatalf("server status not published: got=%s", repo.stored.Status)
	}

	// Refetch observes the server transition.
	if err := sess.HydrateFrom(context.Background(), s.Course().ID); err != nil {
		t.Fatalf("HydrateFrom: %v", err)
	}
	if got := s.Course().Status; got != coursedom.StatusPublished {
		t.Fatalf("hydrated status: got=%s want=%s", got, coursedom.StatusPublished)
	}
}

func TestHydrateThenSaveRoundTripIsClean(t *testing.T) {
	repo := &fakeCourseRepo{}
	seed := newTestSession(repo)
	m, _ := seed.Store().AddModule()
	_, _ = seed.Store().AddLesson(m.ID, &coursedom.VideoRef{ID: uuid.New(), Title: "Intro", DurationSeconds: 60})
	if err := seed.Save(context.Background()); err != nil {
		t.Fatalf("seed Save: %v", err)
	}
	id := repo.stored.ID

	sess := newTestSession(repo)
	if err := sess.HydrateFrom(context.Background(), id); err != nil {
		t.Fatalf("HydrateFrom: %v", err)
	}
	if sess.Store().IsDirty() {
		t.Fatalf("hydration must not mark dirty")
	}

	before := repo.stored.Clone()
	if err := sess.Save(context.Background()); err != nil {
		t.Fatalf("round-trip Save: %v", err)
	}
	if sess.Store().IsDirty() {
		t.Fatalf("round-trip save must leave store clean")
	}
	after := repo.stored
	if before.ID != after.ID || before.Title != after.Title || len(before.Modules) != len(after.Modules) {
		t.Fatalf("no-edit round trip changed server state")
	}
	for i := range before.Modules {
		if before.Modules[i].ID != after.Modules[i].ID || before.Modules[i].SortOrder != after.Modules[i].SortOrder {
			t.Fatalf("no-edit round trip changed module %d", i)
		}
	}
}

func TestHydrateNotFoundSurfacesTypedError(t *testing.T) {
	repo := &fakeCourseRepo{}
	sess := newTestSession(repo)
	err := sess.HydrateFrom(context.Background(), uuid.New())
	if !builderdom.IsCode(err, builderdom.CodeNotFound) {
		t.Fatalf("expected not_found, got=%v", err)
	}
}
