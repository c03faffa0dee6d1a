package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	types "github.com/courseforge/courseforge-backend/internal/domain/course"
	"github.com/courseforge/courseforge-backend/internal/platform/ctxutil"
	"github.com/courseforge/courseforge-backend/internal/platform/logger"
)

type stubCourseService struct {
	courses map[uuid.UUID]*types.Course
}

func newStubCourseService() *stubCourseService {
	return &stubCourseService{courses: map[uuid.UUID]*types.Course{}}
}

func (s *stubCourseService) CreateCourse(_ context.Context, c *types.Course) (*types.Course, error) {
	saved := c.Clone()
	saved.ID = uuid.New()
	s.courses[saved.ID] = saved
	return saved, nil
}

func (s *stubCourseService) UpdateCourse(_ context.Context, id uuid.UUID, c *types.Course) (*types.Course, error) {
	if _, ok := s.courses[id]; !ok {
		return nil, builderdom.NotFoundError("course.update", "course", id)
	}
	saved := c.Clone()
	saved.ID = id
	s.courses[id] = saved
	return saved, nil
}

func (s *stubCourseService) PublishCourse(_ context.Context, id uuid.UUID) error {
	c, ok := s.courses[id]
	if !ok {
		return builderdom.NotFoundError("course.publish", "course", id)
	}
	if len(c.Modules) == 0 {
		return builderdom.NewError(builderdom.CodePreconditionFailed, "course.publish", "course has no modules", nil)
	}
	c.Status = types.StatusPublished
	return nil
}

func (s *stubCourseService) GetCourse(_ context.Context, id uuid.UUID) (*types.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, builderdom.NotFoundError("course.get", "course", id)
	}
	return c.Clone(), nil
}

func (s *stubCourseService) ListCourses(_ context.Context, ownerID uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	for _, c := range s.courses {
		if c.OwnerID == ownerID {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *stubCourseService) DeleteCourse(_ context.Context, id uuid.UUID) error {
	if _, ok := s.courses[id]; !ok {
		return builderdom.NotFoundError("course.delete", "course", id)
	}
	delete(s.courses, id)
	return nil
}

func courseTestRouter(t *testing.T, svc *stubCourseService, userID uuid.UUID) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	h := NewCourseHandler(log, svc)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: userID})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.GET("/courses", h.ListCourses)
	r.POST("/courses", h.CreateCourse)
	r.GET("/courses/:id", h.GetCourse)
	r.PUT("/courses/:id", h.UpdateCourse)
	r.POST("/courses/:id/publish", h.PublishCourse)
	r.DELETE("/courses/:id", h.DeleteCourse)
	return r
}

func TestCourseHandlerCreateAndGet(t *testing.T) {
	svc := newStubCourseService()
	userID := uuid.New()
	r := courseTestRouter(t, svc, userID)

	body, _ := json.Marshal(gin.H{
		"title": "Handler Course",
		"modules": []gin.H{
			{"title": "M0", "sort_order": 0},
		},
	})
	req := httptest.NewRequest(http.MethodPost, "/courses", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: want %d got %d body=%s", http.StatusCreated, rec.Code, rec.Body.String())
	}
	var created struct {
		Course types.Course `json:"course"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.Course.OwnerID != userID {
		t.Fatalf("owner must come from the token, got %s", created.Course.OwnerID)
	}

	req = httptest.NewRequest(http.MethodGet, "/courses/"+created.Course.ID.String(), nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status: want %d got %d", http.StatusOK, rec.Code)
	}
}

func TestCourseHandlerGetMissingIs404(t *testing.T) {
	r := courseTestRouter(t, newStubCourseService(), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/courses/"+uuid.New().String(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status: want %d got %d", http.StatusNotFound, rec.Code)
	}
	var envelope struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if envelope.Error.Code != string(builderdom.CodeNotFound) {
		t.Fatalf("error code: want %q got %q", builderdom.CodeNotFound, envelope.Error.Code)
	}
}

func TestCourseHandlerBadIDIs400(t *testing.T) {
	r := courseTestRouter(t, newStubCourseService(), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/courses/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: want %d got %d", http.StatusBadRequest, rec.Code)
	}
}

func TestCourseHandlerPublishEmptyCourseIs422(t *testing.T) {
	svc := newStubCourseService()
	userID := uuid.New()
	r := courseTestRouter(t, svc, userID)

	empty := &types.Course{OwnerID: userID, Title: "Empty", Status: types.StatusDraft}
	created, err := svc.CreateCourse(context.Background(), empty)
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/courses/"+created.ID.String()+"/publish", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: want %d got %d", http.StatusUnprocessableEntity, rec.Code)
	}
}

func TestCourseHandlerListScopedToOwner(t *testing.T) {
	svc := newStubCourseService()
	userID := uuid.New()
	r := courseTestRouter(t, svc, userID)

	_, _ = svc.CreateCourse(context.Background(), &types.Course{OwnerID: userID, Title: "Mine"})
	_, _ = svc.CreateCourse(context.Background(), &types.Course{OwnerID: uuid.New(), Title: "Theirs"})

	req := httptest.NewRequest(http.MethodGet, "/courses", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status: want %d got %d", http.StatusOK, rec.Code)
	}
	var listed struct {
		Courses []*types.Course `json:"courses"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &listed); err != nil {
		t.Fatalf("decode list response: %v", err)
	}
	if len(listed.Courses) != 1 || listed.Courses[0].Title != "Mine" {
		t.Fatalf("listed courses: %+v", listed.Courses)
	}
}
