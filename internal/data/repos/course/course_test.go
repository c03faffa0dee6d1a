package course

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/courseforge/courseforge-backend/internal/data/repos/testutil"
	types "github.com/courseforge/courseforge-backend/internal/domain/course"
)

func TestCourseRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	repo := NewCourseRepo(db, testutil.Logger(t))

	owner := uuid.New()
	c1 := &types.Course{
		ID:           uuid.New(),
		OwnerID:      owner,
		Title:        "c1",
		Status:       types.StatusDraft,
		Visibility:   types.VisibilityOrganization,
		PassingScore: 70,
		Metadata:     datatypes.JSON([]byte("{}")),
	}
	if _, err := repo.Create(ctx, tx, []*types.Course{c1}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, c1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if got.Title != "c1" {
		t.Fatalf("GetByID title: want c1 got %q", got.Title)
	}
	if rows, err := repo.ListByOwner(ctx, tx, owner); err != nil || len(rows) != 1 {
		t.Fatalf("ListByOwner: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.ListByStatus(ctx, tx, []string{types.StatusDraft}); err != nil || len(rows) == 0 {
		t.Fatalf("ListByStatus: err=%v len=%d", err, len(rows))
	}

	c1.Title = "c1-renamed"
	c1.PassingScore = 85
	if err := repo.Update(ctx, tx, c1); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err = repo.GetByID(ctx, tx, c1.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID after Update: err=%v got=%v", err, got)
	}
	if got.Title != "c1-renamed" || got.PassingScore != 85 {
		t.Fatalf("after Update: title=%q passing=%d", got.Title, got.PassingScore)
	}

	if err := repo.UpdateFields(ctx, tx, c1.ID, map[string]interface{}{"description": "d"}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	ok, err := repo.UpdateStatusGuarded(ctx, tx, c1.ID, []string{types.StatusDraft}, types.StatusPublished)
	if err != nil || !ok {
		t.Fatalf("UpdateStatusGuarded draft->published: err=%v ok=%v", err, ok)
	}
	ok, err = repo.UpdateStatusGuarded(ctx, tx, c1.ID, []string{types.StatusDraft}, types.StatusPublished)
	if err != nil || ok {
		t.Fatalf("UpdateStatusGuarded should not match published row: err=%v ok=%v", err, ok)
	}

	if err := repo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{c1.ID}); err != nil {
		t.Fatalf("SoftDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{c1.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after SoftDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}

	c2 := testutil.SeedCourse(t, ctx, tx, owner)
	if err := repo.FullDeleteByIDs(ctx, tx, []uuid.UUID{c2.ID}); err != nil {
		t.Fatalf("FullDeleteByIDs: %v", err)
	}
	if rows, err := repo.GetByIDs(ctx, tx, []uuid.UUID{c2.ID}); err != nil || len(rows) != 0 {
		t.Fatalf("after FullDeleteByIDs GetByIDs: err=%v len=%d", err, len(rows))
	}
}
