package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	courserepos "github.com/courseforge/courseforge-backend/internal/data/repos/course"
	"github.com/courseforge/courseforge-backend/internal/data/repos/testutil"
	builderdom "github.com/courseforge/courseforge-backend/internal/domain/builder"
	types "github.com/courseforge/courseforge-backend/internal/domain/course"
)

func newVideoService(t *testing.T) (VideoLibraryService, courserepos.VideoAssetRepo) {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	repo := courserepos.NewVideoAssetRepo(db, log)
	return NewVideoLibraryService(db, log, repo), repo
}

func TestVideoLibraryLifecycle(t *testing.T) {
	svc, repo := newVideoService(t)
	ctx := context.Background()
	owner := uuid.New()

	v, err := svc.RegisterUpload(ctx, owner, "Kubernetes Intro", "videos/k8s-intro.mp4")
	if err != nil {
		t.Fatalf("RegisterUpload: %v", err)
	}
	t.Cleanup(func() { _ = repo.SoftDeleteByIDs(context.Background(), nil, []uuid.UUID{v.ID}) })

	if v.Status != types.VideoStatusUploaded {
		t.Fatalf("status after register: %q", v.Status)
	}

	// Not ready yet, so no attachable ref.
	if _, err := svc.GetVideoRef(ctx, v.ID); !builderdom.IsCode(err, builderdom.CodePreconditionFailed) {
		t.Fatalf("ref before ready: want precondition_failed got %v", err)
	}

	if err := svc.MarkProcessing(ctx, v.ID); err != nil {
		t.Fatalf("MarkProcessing: %v", err)
	}
	if err := svc.MarkReady(ctx, v.ID, 540); err != nil {
		t.Fatalf("MarkReady: %v", err)
	}

	ref, err := svc.GetVideoRef(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVideoRef: %v", err)
	}
	if ref.ID != v.ID || ref.Title != "Kubernetes Intro" || ref.DurationSeconds != 540 {
		t.Fatalf("ref: %+v", ref)
	}

	rows, err := svc.ListLibrary(ctx, owner)
	if err != nil || len(rows) != 1 {
		t.Fatalf("ListLibrary: err=%v len=%d", err, len(rows))
	}

	if err := svc.MarkFailed(ctx, v.ID, "transcode timeout"); err != nil {
		t.Fatalf("MarkFailed: %v", err)
	}
	got, err := svc.GetVideo(ctx, v.ID)
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if got.Status != types.VideoStatusFailed || got.ErrorMessage != "transcode timeout" {
		t.Fatalf("after MarkFailed: status=%q msg=%q", got.Status, got.ErrorMessage)
	}
}

func TestVideoLibraryValidation(t *testing.T) {
	svc, _ := newVideoService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUpload(ctx, uuid.New(), "  ", "k"); !builderdom.IsCode(err, builderdom.CodeValidation) {
		t.Fatalf("blank title: want validation got %v", err)
	}
	if _, err := svc.RegisterUpload(ctx, uuid.Nil, "t", "k"); !builderdom.IsCode(err, builderdom.CodeValidation) {
		t.Fatalf("nil owner: want validation got %v", err)
	}
	if _, err := svc.GetVideo(ctx, uuid.New()); !builderdom.IsCode(err, builderdom.CodeNotFound) {
		t.Fatalf("missing video: want not_found got %v", err)
	}
	if err := svc.MarkReady(ctx, uuid.New(), 10); !builderdom.IsCode(err, builderdom.CodeNotFound) {
		t.Fatalf("mark missing video: want not_found got %v", err)
	}
}
