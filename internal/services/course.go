package services

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	courserepos "github.com/courseforge/courseforge-backend/internal/data/repos/course"
	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

// CourseService persists whole course trees. It satisfies the builder's
// CourseRepository collaborator: the builder edits in memory and hands the
// full snapshot over here on save.
type CourseService interface {
	CreateCourse(ctx context.Context, c *types.Course) (*types.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, c *types.Course) (*types.Course, error)
	PublishCourse(ctx context.Context, id uuid.UUID) error
	GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error)
	ListCourses(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
}

type courseService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   courserepos.CourseRepo
	moduleRepo   courserepos.ModuleRepo
	lessonRepo   courserepos.LessonRepo
	quizRepo     courserepos.QuizRepo
	questionRepo courserepos.QuestionRepo
	events       CourseEventPublisher
}

// CourseEventPublisher receives course lifecycle notifications. A nil
// publisher disables them.
type CourseEventPublisher interface {
	CoursePublished(ctx context.Context, courseID uuid.UUID)
	CourseSaved(ctx context.Context, courseID uuid.UUID, created bool)
}

func NewCourseService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo courserepos.CourseRepo,
	moduleRepo courserepos.ModuleRepo,
	lessonRepo courserepos.LessonRepo,
	quizRepo courserepos.QuizRepo,
	questionRepo courserepos.QuestionRepo,
	events CourseEventPublisher,
) CourseService {
	return &courseService{
		db:           db,
		log:          baseLog.With("service", "CourseService"),
		courseRepo:   courseRepo,
		moduleRepo:   moduleRepo,
		lessonRepo:   lessonRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		events:       events,
	}
}

// CreateCourse inserts the full tree under fresh server ids. Client-minted
// ids are discarded; parent references are remapped as ids are reassigned.
func (cs *courseService) CreateCourse(ctx context.Context, c *types.Course) (*types.Course, error) {
	const op = "course.create"
	if c == nil {
		return nil, builderdom.NewError(builderdom.CodeValidation, op, "nil course", nil)
	}

	saved := c.Clone()
	rekeyTree(saved)

	err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return cs.insertTree(ctx, tx, saved)
	})
	if err != nil {
		cs.log.Error("create course failed", "error", err)
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}

	cs.log.Info("course created", "course_id", saved.ID, "modules", len(saved.Modules))
	if cs.events != nil {
		cs.events.CourseSaved(ctx, saved.ID, true)
	}
	return saved, nil
}

// UpdateCourse replaces the stored tree with the given snapshot: the course
// row is updated in place and every child row is deleted and re-inserted.
// Child ids from the snapshot are kept, so they stay stable across saves.
func (cs *courseService) UpdateCourse(ctx context.Context, id uuid.UUID, c *types.Course) (*types.Course, error) {
	const op = "course.update"
	if c == nil {
		return nil, builderdom.NewError(builderdom.CodeValidation, op, "nil course", nil)
	}

	existing, err := cs.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if existing == nil {
		return nil, builderdom.NotFoundError(op, "course", id)
	}

	saved := c.Clone()
	saved.ID = id
	saved.OwnerID = existing.OwnerID
	saved.Status = existing.Status
	normalizeTree(saved)

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.courseRepo.Update(ctx, tx, saved); err != nil {
			return err
		}
		if err := cs.deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		return cs.insertChildren(ctx, tx, saved)
	})
	if err != nil {
		cs.log.Error("update course failed", "course_id", id, "error", err)
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}

	cs.log.Info("course updated", "course_id", id, "modules", len(saved.Modules))
	if cs.events != nil {
		cs.events.CourseSaved(ctx, id, false)
	}
	return saved, nil
}

// PublishCourse transitions draft -> published. The status flip is a guarded
// compare-and-set so two racing publishes cannot both win.
func (cs *courseService) PublishCourse(ctx context.Context, id uuid.UUID) error {
	const op = "course.publish"

	existing, err := cs.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if existing == nil {
		return builderdom.NotFoundError(op, "course", id)
	}

	n, err := cs.moduleRepo.CountByCourseID(ctx, nil, id)
	if err != nil {
		return builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if n == 0 {
		return builderdom.NewError(builderdom.CodePreconditionFailed, op, "course has no modules", nil)
	}

	ok, err := cs.courseRepo.UpdateStatusGuarded(ctx, nil, id, []string{types.StatusDraft}, types.StatusPublished)
	if err != nil {
		return builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if !ok {
		return builderdom.NewError(builderdom.CodePreconditionFailed, op, "course is not in draft status", nil)
	}

	cs.log.Info("course published", "course_id", id)
	if cs.events != nil {
		cs.events.CoursePublished(ctx, id)
	}
	return nil
}

// GetCourse loads and assembles the full tree. Modules and quizzes are
// fetched concurrently, then lessons and questions; children arrive ordered
// by sort_order from the repos so assembly preserves order.
func (cs *courseService) GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	const op = "course.get"

	c, err := cs.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if c == nil {
		return nil, builderdom.NotFoundError(op, "course", id)
	}

	var (
		modules []*types.Module
		quizzes []*types.Quiz
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		modules, err = cs.moduleRepo.ListByCourseIDs(gctx, nil, []uuid.UUID{id})
		return err
	})
	g.Go(func() error {
		var err error
		quizzes, err = cs.quizRepo.ListByCourseIDs(gctx, nil, []uuid.UUID{id})
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}

	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	quizIDs := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		quizIDs = append(quizIDs, q.ID)
	}

	var (
		lessons   []*types.Lesson
		questions []*types.Question
	)
	g, gctx = errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		lessons, err = cs.lessonRepo.ListByModuleIDs(gctx, nil, moduleIDs)
		return err
	})
	g.Go(func() error {
		var err error
		questions, err = cs.questionRepo.ListByQuizIDs(gctx, nil, quizIDs)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}

	assembleTree(c, modules, quizzes, lessons, questions)
	return c, nil
}

func (cs *courseService) ListCourses(ctx context.Context, ownerID uuid.UUID) ([]*types.Course, error) {
	const op = "course.list"
	rows, err := cs.courseRepo.ListByOwner(ctx, nil, ownerID)
	if err != nil {
		return nil, builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	return rows, nil
}

// DeleteCourse soft-deletes the course row and hard-deletes the child rows.
func (cs *courseService) DeleteCourse(ctx context.Context, id uuid.UUID) error {
	const op = "course.delete"

	existing, err := cs.courseRepo.GetByID(ctx, nil, id)
	if err != nil {
		return builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	if existing == nil {
		return builderdom.NotFoundError(op, "course", id)
	}

	err = cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := cs.deleteChildren(ctx, tx, id); err != nil {
			return err
		}
		return cs.courseRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{id})
	})
	if err != nil {
		cs.log.Error("delete course failed", "course_id", id, "error", err)
		return builderdom.Wrap(builderdom.CodeInternal, op, err)
	}
	cs.log.Info("course deleted", "course_id", id)
	return nil
}

func (cs *courseService) insertTree(ctx context.Context, tx *gorm.DB, c *types.Course) error {
	row := c.Clone()
	row.Modules = nil
	row.Quizzes = nil
	if _, err := cs.courseRepo.Create(ctx, tx, []*types.Course{row}); err != nil {
		return err
	}
	return cs.insertChildren(ctx, tx, c)
}

func (cs *courseService) insertChildren(ctx context.Context, tx *gorm.DB, c *types.Course) error {
	var (
		modules   []*types.Module
		lessons   []*types.Lesson
		quizzes   []*types.Quiz
		questions []*types.Question
	)
	collect := func(q *types.Quiz) {
		row := q.Clone()
		row.Questions = nil
		quizzes = append(quizzes, row)
		for _, qq := range q.Questions {
			questions = append(questions, qq.Clone())
		}
	}
	for _, m := range c.Modules {
		row := m.Clone()
		row.Lessons = nil
		row.Quizzes = nil
		modules = append(modules, row)
		for _, l := range m.Lessons {
			lessons = append(lessons, l.Clone())
		}
		for _, q := range m.Quizzes {
			collect(q)
		}
	}
	for _, q := range c.Quizzes {
		collect(q)
	}

	if _, err := cs.moduleRepo.Create(ctx, tx, modules); err != nil {
		return err
	}
	if _, err := cs.lessonRepo.Create(ctx, tx, lessons); err != nil {
		return err
	}
	if _, err := cs.quizRepo.Create(ctx, tx, quizzes); err != nil {
		return err
	}
	if _, err := cs.questionRepo.Create(ctx, tx, questions); err != nil {
		return err
	}
	return nil
}

func (cs *courseService) deleteChildren(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) error {
	modules, err := cs.moduleRepo.ListByCourseIDs(ctx, tx, []uuid.UUID{courseID})
	if err != nil {
		return err
	}
	moduleIDs := make([]uuid.UUID, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	quizzes, err := cs.quizRepo.ListByCourseIDs(ctx, tx, []uuid.UUID{courseID})
	if err != nil {
		return err
	}
	quizIDs := make([]uuid.UUID, 0, len(quizzes))
	for _, q := range quizzes {
		quizIDs = append(quizIDs, q.ID)
	}

	if err := cs.questionRepo.FullDeleteByQuizIDs(ctx, tx, quizIDs); err != nil {
		return err
	}
	if err := cs.quizRepo.FullDeleteByCourseIDs(ctx, tx, []uuid.UUID{courseID}); err != nil {
		return err
	}
	if err := cs.lessonRepo.FullDeleteByModuleIDs(ctx, tx, moduleIDs); err != nil {
		return err
	}
	return cs.moduleRepo.FullDeleteByCourseIDs(ctx, tx, []uuid.UUID{courseID})
}

// rekeyTree assigns fresh ids to every node and fixes parent references.
func rekeyTree(c *types.Course) {
	c.ID = uuid.New()
	normalizeTree(c)
	for _, m := range c.Modules {
		m.ID = uuid.New()
		for _, l := range m.Lessons {
			l.ID = uuid.New()
			l.ModuleID = m.ID
		}
		for _, q := range m.Quizzes {
			rekeyQuiz(q)
			q.ModuleID = types.PtrUUID(m.ID)
		}
	}
	for _, q := range c.Quizzes {
		rekeyQuiz(q)
	}
	normalizeTree(c)
}

func rekeyQuiz(q *types.Quiz) {
	q.ID = uuid.New()
	for _, qq := range q.Questions {
		qq.ID = uuid.New()
		qq.QuizID = q.ID
	}
}

// normalizeTree repairs parent references so the stored rows always agree
// with the tree shape, whatever the client sent.
func normalizeTree(c *types.Course) {
	for _, m := range c.Modules {
		m.CourseID = c.ID
		for _, l := range m.Lessons {
			l.ModuleID = m.ID
		}
		for _, q := range m.Quizzes {
			q.CourseID = c.ID
			q.ModuleID = types.PtrUUID(m.ID)
			for _, qq := range q.Questions {
				qq.QuizID = q.ID
			}
		}
	}
	for _, q := range c.Quizzes {
		q.CourseID = c.ID
		q.ModuleID = nil
		for _, qq := range q.Questions {
			qq.QuizID = q.ID
		}
	}
}

// assembleTree attaches ordered children to the course in place.
func assembleTree(c *types.Course, modules []*types.Module, quizzes []*types.Quiz, lessons []*types.Lesson, questions []*types.Question) {
	questionsByQuiz := map[uuid.UUID][]*types.Question{}
	for _, qq := range questions {
		questionsByQuiz[qq.QuizID] = append(questionsByQuiz[qq.QuizID], qq)
	}
	lessonsByModule := map[uuid.UUID][]*types.Lesson{}
	for _, l := range lessons {
		lessonsByModule[l.ModuleID] = append(lessonsByModule[l.ModuleID], l)
	}
	quizzesByModule := map[uuid.UUID][]*types.Quiz{}
	var floating []*types.Quiz
	for _, q := range quizzes {
		q.Questions = questionsByQuiz[q.ID]
		if q.Questions == nil {
			q.Questions = []*types.Question{}
		}
		if q.ModuleID == nil {
			floating = append(floating, q)
			continue
		}
		quizzesByModule[*q.ModuleID] = append(quizzesByModule[*q.ModuleID], q)
	}

	c.Modules = modules
	if c.Modules == nil {
		c.Modules = []*types.Module{}
	}
	for _, m := range c.Modules {
		m.Lessons = lessonsByModule[m.ID]
		if m.Lessons == nil {
			m.Lessons = []*types.Lesson{}
		}
		m.Quizzes = quizzesByModule[m.ID]
		if m.Quizzes == nil {
			m.Quizzes = []*types.Quiz{}
		}
	}
	c.Quizzes = floating
	if c.Quizzes == nil {
		c.Quizzes = []*types.Quiz{}
	}
}
