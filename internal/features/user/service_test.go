package user

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"resolvex/internal/features/audit"
)

type stubUserRepo struct {
	Repository
	deleted bool
}

func (s *stubUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	return &User{ID: id, Name: "Asha Verma", Email: "asha@example.com"}, nil
}

func (s *stubUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.deleted = true
	return nil
}

type fixedCounter struct {
	owned int64
}

func (c *fixedCounter) CountByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return c.owned, nil
}

type captureAudit struct {
	audit.Service
	entries []audit.Entry
}

func (a *captureAudit) Record(ctx context.Context, entry audit.Entry) {
	a.entries = append(a.entries, entry)
}

func TestDeleteBlockedWhileComplaintsLinked(t *testing.T) {
	repo := &stubUserRepo{}
	recorder := &captureAudit{}
	service := &ServiceImpl{
		Repo:         repo,
		Complaints:   &fixedCounter{owned: 3},
		AuditService: recorder,
	}

	err := service.Delete(context.Background(), primitive.NewObjectID().Hex())
	if err == nil || err.Error() != "cannot delete user with linked complaints" {
		t.Fatalf("Delete() error = %v, want linked-complaint guard", err)
	}
	if repo.deleted {
		t.Error("account was removed despite linked complaints")
	}
	if len(recorder.entries) != 0 {
		t.Errorf("blocked delete should not be audited, got %+v", recorder.entries)
	}
}

func TestDeleteRemovesUnlinkedAccount(t *testing.T) {
	repo := &stubUserRepo{}
	recorder := &captureAudit{}
	service := &ServiceImpl{
		Repo:         repo,
		Complaints:   &fixedCounter{},
		AuditService: recorder,
	}

	if err := service.Delete(context.Background(), primitive.NewObjectID().Hex()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !repo.deleted {
		t.Error("account should have been removed")
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionUserDelete {
		t.Errorf("audit entries = %+v, want one USER_DELETE entry", recorder.entries)
	}
}

func TestDeleteRejectsMalformedID(t *testing.T) {
	service := &ServiceImpl{}
	if err := service.Delete(context.Background(), "nope"); err == nil {
		t.Error("malformed id should be rejected")
	}
}
