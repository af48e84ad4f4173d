package audit

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/middleware"
)

type captureAuditRepo struct {
	Repository
	entries []Entry
	fail    bool
}

func (r *captureAuditRepo) Create(ctx context.Context, entry *Entry) error {
	if r.fail {
		return errors.New("write failed")
	}
	r.entries = append(r.entries, *entry)
	return nil
}

type namedFinder struct {
	name  string
	email string
}

func (f *namedFinder) LookupActor(ctx context.Context, id string) (string, string, error) {
	return f.name, f.email, nil
}

func newAuditFixture() (*ServiceImpl, *captureAuditRepo) {
	repo := &captureAuditRepo{}
	service := &ServiceImpl{
		Repo:   repo,
		Users:  &namedFinder{name: "Resident", email: "resident@example.com"},
		Staff:  &namedFinder{name: "Field Officer", email: "officer@example.com"},
		Admins: &namedFinder{name: "City Admin", email: "admin@example.com"},
		Logger: zap.NewNop(),
	}
	return service, repo
}

func TestRecordFillsDefaults(t *testing.T) {
	service, repo := newAuditFixture()

	service.Record(context.Background(), Entry{Action: ActionComplaintUpdate})

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.Timestamp.IsZero() {
		t.Error("timestamp not defaulted")
	}
	if entry.Severity != SeverityLow || entry.Status != StatusSuccess {
		t.Errorf("defaults = %s/%s, want low/success", entry.Severity, entry.Status)
	}
	if entry.ActorName != "System" || entry.ActorRole != "system" {
		t.Errorf("anonymous entry snapshots as %q/%q, want System/system", entry.ActorName, entry.ActorRole)
	}
}

func TestRecordBackfillsActorFromContext(t *testing.T) {
	service, repo := newAuditFixture()

	ctx := common_models.WithActor(context.Background(), &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorStaff, ID: "s1"},
		Role: "staff",
	})
	service.Record(ctx, Entry{Action: ActionComplaintAssign})

	entry := repo.entries[0]
	if entry.Actor.ID != "s1" || entry.ActorRole != "staff" {
		t.Errorf("actor = %+v role = %q", entry.Actor, entry.ActorRole)
	}
	if entry.ActorName != "Field Officer" || entry.ActorEmail != "officer@example.com" {
		t.Errorf("snapshot = %q/%q", entry.ActorName, entry.ActorEmail)
	}
}

func TestRecordNeverPanicsOnWriteFailure(t *testing.T) {
	service, repo := newAuditFixture()
	repo.fail = true

	// Must not panic or surface the error.
	service.Record(context.Background(), Entry{Action: ActionComplaintUpdate})
}

func TestRecordHTTPMapsEvent(t *testing.T) {
	service, repo := newAuditFixture()

	service.RecordHTTP(context.Background(), middleware.AuditEvent{
		Actor: &common_models.Actor{
			Ref:  common_models.ActorRef{Kind: common_models.ActorUser, ID: "u1"},
			Role: "user",
		},
		Action:     "LOGIN",
		Category:   "auth",
		Severity:   "medium",
		Success:    false,
		StatusCode: 401,
		Endpoint:   "/api/auth/login",
		Method:     "POST",
	})

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.Action != "LOGIN" || entry.Status != StatusFailure {
		t.Errorf("entry = %+v, want failed LOGIN", entry)
	}
	if entry.Metadata.StatusCode != 401 || entry.Metadata.Method != "POST" {
		t.Errorf("metadata = %+v", entry.Metadata)
	}
	if entry.ActorName != "Resident" {
		t.Errorf("actor snapshot = %q, want Resident", entry.ActorName)
	}
}

func TestListClampsPagination(t *testing.T) {
	service, _ := newAuditFixture()
	called := false

	service.Repo = &pagingRepo{onList: func(page, limit int64) {
		called = true
		if page != 1 || limit != 50 {
			t.Errorf("page/limit = %d/%d, want 1/50", page, limit)
		}
	}}

	if _, _, err := service.List(context.Background(), Filter{}, 0, 100000); err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if !called {
		t.Fatal("repository not called")
	}
}

type pagingRepo struct {
	Repository
	onList func(page, limit int64)
}

func (r *pagingRepo) List(ctx context.Context, filter Filter, page, limit int64) ([]Entry, int64, error) {
	r.onList(page, limit)
	return nil, 0, nil
}
