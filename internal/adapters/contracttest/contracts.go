package contracttest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Overland-East-Bay/job-tracker-api/internal/domain"
	idempotencyport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/idempotency"
	jobrepoport "github.com/Overland-East-Bay/job-tracker-api/internal/ports/out/jobrepo"
)

type CleanupFunc = func()

type JobRepoFactory func(t *testing.T) (jobrepoport.Repository, CleanupFunc)
type IdemStoreFactory func(t *testing.T) (idempotencyport.Store, CleanupFunc)

func RunIdempotencyStore(t *testing.T, newStore IdemStoreFactory) {
	t.Helper()
	ctx := context.Background()

	store, cleanup := newStore(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Keys are namespaced per test run so shared databases don't collide.
	key := idempotencyport.Key("k-" + uuid.NewString())
	fp := idempotencyport.Fingerprint{
		Key:      key,
		UserID:   domain.UserID("user-1"),
		Method:   "POST",
		Route:    "/jobs",
		BodyHash: "",
	}
	if _, ok, err := store.Get(ctx, fp); err != nil || ok {
		t.Fatalf("expected miss before Put, got ok=%v err=%v", ok, err)
	}

	rec := idempotencyport.Record{
		StatusCode:  0,
		ContentType: "text/plain",
		Body:        []byte("hash-abc"),
		CreatedAt:   time.Now().UTC(),
	}
	if err := store.Put(ctx, fp, rec); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := store.Get(ctx, fp)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true")
	}
	if string(got.Body) != "hash-abc" || got.ContentType != "text/plain" || got.StatusCode != 0 {
		t.Fatalf("unexpected record: %+v", got)
	}

	// Overwrite semantics.
	rec2 := rec
	rec2.Body = []byte("hash-def")
	if err := store.Put(ctx, fp, rec2); err != nil {
		t.Fatalf("Put overwrite: %v", err)
	}
	got, ok, err = store.Get(ctx, fp)
	if err != nil || !ok || string(got.Body) != "hash-def" {
		t.Fatalf("expected overwritten record, got ok=%v err=%v body=%q", ok, err, string(got.Body))
	}

	// The caller is part of the fingerprint.
	other := fp
	other.UserID = domain.UserID("user-2")
	if _, ok, err := store.Get(ctx, other); err != nil || ok {
		t.Fatalf("expected miss for other user, got ok=%v err=%v", ok, err)
	}
}

// RunJobRepo exercises the ownership, validation and ordering rules every job store must honor.
func RunJobRepo(t *testing.T, newRepo JobRepoFactory) {
	t.Helper()
	ctx := context.Background()

	repo, cleanup := newRepo(t)
	if cleanup != nil {
		t.Cleanup(cleanup)
	}

	// Owners are unique per run so shared databases don't leak rows between runs.
	alice := domain.UserID("alice-" + uuid.NewString())
	bob := domain.UserID("bob-" + uuid.NewString())
	now := time.Unix(1000, 0).UTC()

	newJob := func(owner domain.UserID, company string, at time.Time) jobrepoport.Job {
		return jobrepoport.Job{
			ID:        domain.JobID(uuid.NewString()),
			Company:   company,
			Position:  "Engineer",
			Status:    domain.DefaultJobStatus,
			CreatedBy: owner,
			CreatedAt: at,
			UpdatedAt: at,
		}
	}

	// Empty owner list is non-nil and empty.
	empty, err := repo.ListByOwner(ctx, alice)
	if err != nil {
		t.Fatalf("ListByOwner empty: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected no jobs, got %#v", empty)
	}

	a1 := newJob(alice, "Acme", now)
	created, err := repo.Create(ctx, a1)
	if err != nil {
		t.Fatalf("Create a1: %v", err)
	}
	if created.ID != a1.ID || created.CreatedBy != alice || created.Status != domain.JobStatusPending {
		t.Fatalf("unexpected created job: %#v", created)
	}
	if !created.CreatedAt.Equal(now) {
		t.Fatalf("CreatedAt=%v, want %v", created.CreatedAt, now)
	}

	a2 := newJob(alice, "Globex", now.Add(time.Minute))
	if _, err := repo.Create(ctx, a2); err != nil {
		t.Fatalf("Create a2: %v", err)
	}
	b1 := newJob(bob, "Initech", now)
	if _, err := repo.Create(ctx, b1); err != nil {
		t.Fatalf("Create b1: %v", err)
	}

	// Validation runs in the store as well as in the service.
	bad := newJob(alice, "", now)
	if _, err := repo.Create(ctx, bad); err == nil {
		t.Fatalf("expected validation error for empty company")
	} else {
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected *domain.ValidationError, got %T %v", err, err)
		}
	}
	badStatus := newJob(alice, "Acme", now)
	badStatus.Status = domain.JobStatus("hired")
	if _, err := repo.Create(ctx, badStatus); err == nil {
		t.Fatalf("expected validation error for status")
	}

	// Listing is scoped and ordered.
	list, err := repo.ListByOwner(ctx, alice)
	if err != nil {
		t.Fatalf("ListByOwner alice: %v", err)
	}
	if len(list) != 2 || list[0].ID != a1.ID || list[1].ID != a2.ID {
		t.Fatalf("unexpected alice jobs: %#v", list)
	}
	for _, j := range list {
		if j.CreatedBy != alice {
			t.Fatalf("list leaked job of %q", j.CreatedBy)
		}
	}

	// Cross-owner access is indistinguishable from absence.
	if _, err := repo.GetByIDAndOwner(ctx, b1.ID, alice); !errors.Is(err, jobrepoport.ErrNotFound) {
		t.Fatalf("Get cross-owner: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByIDAndOwner(ctx, domain.JobID(uuid.NewString()), alice); !errors.Is(err, jobrepoport.ErrNotFound) {
		t.Fatalf("Get missing: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByIDAndOwner(ctx, domain.JobID("not-a-uuid"), alice); !errors.Is(err, jobrepoport.ErrNotFound) {
		t.Fatalf("Get malformed id: expected ErrNotFound, got %v", err)
	}
	got, err := repo.GetByIDAndOwner(ctx, a1.ID, alice)
	if err != nil {
		t.Fatalf("Get a1: %v", err)
	}
	if got.Company != "Acme" || got.Position != "Engineer" {
		t.Fatalf("unexpected a1: %#v", got)
	}

	// Partial update leaves unspecified fields untouched.
	later := now.Add(time.Hour)
	interview := domain.JobStatusInterview
	updated, err := repo.UpdateByIDAndOwner(ctx, a1.ID, alice, jobrepoport.Patch{Status: &interview, UpdatedAt: later})
	if err != nil {
		t.Fatalf("Update a1: %v", err)
	}
	if updated.Status != domain.JobStatusInterview || updated.Company != "Acme" || updated.Position != "Engineer" {
		t.Fatalf("unexpected updated job: %#v", updated)
	}
	if !updated.UpdatedAt.Equal(later) || !updated.CreatedAt.Equal(now) {
		t.Fatalf("unexpected timestamps: created=%v updated=%v", updated.CreatedAt, updated.UpdatedAt)
	}

	// Update validation rejects the merged record and leaves the stored one intact.
	tooLong := "this company name is definitely longer than fifty characters"
	if _, err := repo.UpdateByIDAndOwner(ctx, a1.ID, alice, jobrepoport.Patch{Company: &tooLong, UpdatedAt: later}); err == nil {
		t.Fatalf("expected validation error for long company")
	}
	got, err = repo.GetByIDAndOwner(ctx, a1.ID, alice)
	if err != nil || got.Company != "Acme" {
		t.Fatalf("expected unchanged a1 after failed update, got %#v err=%v", got, err)
	}

	// Cross-owner update never mutates.
	hijack := "Hijacked"
	if _, err := repo.UpdateByIDAndOwner(ctx, b1.ID, alice, jobrepoport.Patch{Company: &hijack, UpdatedAt: later}); !errors.Is(err, jobrepoport.ErrNotFound) {
		t.Fatalf("Update cross-owner: expected ErrNotFound, got %v", err)
	}
	gotB, err := repo.GetByIDAndOwner(ctx, b1.ID, bob)
	if err != nil || gotB.Company != "Initech" {
		t.Fatalf("expected bob's job unchanged, got %#v err=%v", gotB, err)
	}

	// Cross-owner delete never removes.
	if _, err := repo.DeleteByIDAndOwner(ctx, b1.ID, alice); !errors.Is(err, jobrepoport.ErrNotFound) {
		t.Fatalf("Delete cross-owner: expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByIDAndOwner(ctx, b1.ID, bob); err != nil {
		t.Fatalf("expected bob's job to survive, got %v", err)
	}

	// Delete returns the removed record; a second delete is not found.
	deleted, err := repo.DeleteByIDAndOwner(ctx, a2.ID, alice)
	if err != nil {
		t.Fatalf("Delete a2: %v", err)
	}
	if deleted.ID != a2.ID || deleted.Company != "Globex" {
		t.Fatalf("unexpected deleted job: %#v", deleted)
	}
	if _, err := repo.DeleteByIDAndOwner(ctx, a2.ID, alice); !errors.Is(err, jobrepoport.ErrNotFound) {
		t.Fatalf("second Delete: expected ErrNotFound, got %v", err)
	}
	list, err = repo.ListByOwner(ctx, alice)
	if err != nil {
		t.Fatalf("ListByOwner after delete: %v", err)
	}
	if len(list) != 1 || list[0].ID != a1.ID {
		t.Fatalf("unexpected alice jobs after delete: %#v", list)
	}
}
