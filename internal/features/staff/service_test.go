package staff

import (
	"context"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"resolvex/internal/features/audit"
)

func TestResolutionRate(t *testing.T) {
	tests := []struct {
		name     string
		resolved int64
		total    int64
		want     int
	}{
		{"Nothing Assigned", 0, 0, 0},
		{"None Resolved", 0, 10, 0},
		{"All Resolved", 10, 10, 100},
		{"Half", 5, 10, 50},
		{"Rounds Up", 2, 3, 67},
		{"Rounds Down", 1, 3, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolutionRate(tt.resolved, tt.total); got != tt.want {
				t.Errorf("ResolutionRate(%d, %d) = %d, want %d", tt.resolved, tt.total, got, tt.want)
			}
		})
	}
}

type stubRepo struct {
	Repository
	deleted bool
}

func (s *stubRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*Staff, error) {
	return &Staff{ID: id, Name: "Field Officer"}, nil
}

func (s *stubRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	s.deleted = true
	return nil
}

type captureAudit struct {
	audit.Service
	entries []audit.Entry
}

func (a *captureAudit) Record(ctx context.Context, entry audit.Entry) {
	a.entries = append(a.entries, entry)
}

type stubCounter struct {
	assigned int64
	resolved int64
	avgDays  float64
}

func (c *stubCounter) CountByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error) {
	return c.assigned, nil
}

func (c *stubCounter) CountResolvedByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error) {
	return c.resolved, nil
}

func (c *stubCounter) AvgResolutionDays(ctx context.Context, staffID primitive.ObjectID) (float64, error) {
	return c.avgDays, nil
}

func TestGetStats(t *testing.T) {
	service := &ServiceImpl{
		Repo:        &stubRepo{},
		Assignments: &stubCounter{assigned: 8, resolved: 6, avgDays: 2.3456},
	}

	stats, err := service.GetStats(context.Background(), primitive.NewObjectID().Hex())
	if err != nil {
		t.Fatalf("GetStats() error = %v", err)
	}

	if stats.Assigned != 8 || stats.Resolved != 6 {
		t.Errorf("counts = %d/%d, want 8/6", stats.Assigned, stats.Resolved)
	}
	if stats.ResolutionRate != 75 {
		t.Errorf("ResolutionRate = %d, want 75", stats.ResolutionRate)
	}
	if stats.AvgResolutionDays != 2.3 {
		t.Errorf("AvgResolutionDays = %v, want 2.3", stats.AvgResolutionDays)
	}
}

func TestGetStatsInvalidID(t *testing.T) {
	service := &ServiceImpl{}
	if _, err := service.GetStats(context.Background(), "nope"); err == nil {
		t.Error("malformed id should be rejected")
	}
}

func TestDeleteBlockedWhileAssigned(t *testing.T) {
	repo := &stubRepo{}
	recorder := &captureAudit{}
	service := &ServiceImpl{
		Repo:         repo,
		Assignments:  &stubCounter{assigned: 4},
		AuditService: recorder,
	}

	err := service.Delete(context.Background(), primitive.NewObjectID().Hex())
	if err == nil || err.Error() != "cannot delete staff member with assigned complaints" {
		t.Fatalf("Delete() error = %v, want linked-assignment guard", err)
	}
	if repo.deleted {
		t.Error("account was removed despite open assignments")
	}
	if len(recorder.entries) != 0 {
		t.Errorf("blocked delete should not be audited, got %+v", recorder.entries)
	}
}

func TestDeleteRemovesUnassignedAccount(t *testing.T) {
	repo := &stubRepo{}
	recorder := &captureAudit{}
	service := &ServiceImpl{
		Repo:         repo,
		Assignments:  &stubCounter{},
		AuditService: recorder,
	}

	if err := service.Delete(context.Background(), primitive.NewObjectID().Hex()); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if !repo.deleted {
		t.Error("account should have been removed")
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionStaffDelete {
		t.Errorf("audit entries = %+v, want one STAFF_DELETE entry", recorder.entries)
	}
}
