package complaint

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/features/audit"
	"resolvex/internal/features/staff"
)

// fakeComplaintRepo serves a single stored complaint and captures the update
// it is asked to apply. Unimplemented methods panic via the embedded nil.
type fakeComplaintRepo struct {
	Repository
	stored  *Complaint
	set     bson.M
	unset   bson.M
	pushed  []Comment
	updated bool

	voteErr error
	votedBy *primitive.ObjectID

	assignedIDs   []primitive.ObjectID
	assignedStaff primitive.ObjectID
	assignComment Comment
	assignMatched int64
}

func (f *fakeComplaintRepo) FindByID(ctx context.Context, id string) (*Complaint, error) {
	c := *f.stored
	return &c, nil
}

func (f *fakeComplaintRepo) UpdateFields(ctx context.Context, id string, set, unset bson.M, comments []Comment) (*Complaint, error) {
	f.set, f.unset, f.pushed = set, unset, comments
	f.updated = true
	after := *f.stored
	if status, ok := set["status"].(Status); ok {
		after.Status = status
	}
	return &after, nil
}

func (f *fakeComplaintRepo) Vote(ctx context.Context, id string, voter primitive.ObjectID) (*Complaint, error) {
	if f.voteErr != nil {
		return nil, f.voteErr
	}
	f.votedBy = &voter
	c := *f.stored
	return &c, nil
}

func (f *fakeComplaintRepo) AssignMany(ctx context.Context, ids []primitive.ObjectID, staffID primitive.ObjectID, statusSet bool, comment Comment) (int64, error) {
	f.assignedIDs, f.assignedStaff, f.assignComment = ids, staffID, comment
	return f.assignMatched, nil
}

type fakeStaffRepo struct {
	staff.Repository
}

func (f *fakeStaffRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*staff.Staff, error) {
	return &staff.Staff{ID: id, Name: "Field Officer"}, nil
}

type captureAudit struct {
	audit.Service
	entries []audit.Entry
}

func (a *captureAudit) Record(ctx context.Context, entry audit.Entry) {
	a.entries = append(a.entries, entry)
}

func strPtr(v string) *string { return &v }

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func newUpdateFixture(before *Complaint) (*ServiceImpl, *fakeComplaintRepo, *captureAudit) {
	repo := &fakeComplaintRepo{stored: before}
	recorder := &captureAudit{}
	service := &ServiceImpl{
		Repo:         repo,
		Staff:        &fakeStaffRepo{},
		AuditService: recorder,
		Logger:       zap.NewNop(),
	}
	return service, repo, recorder
}

func adminActor() *common_models.Actor {
	return &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorAdmin, ID: primitive.NewObjectID().Hex()},
		Name: "City Admin",
		Role: "admin",
	}
}

func TestUpdateAssignmentAutoTransitions(t *testing.T) {
	before := &Complaint{Status: StatusPending, Priority: PriorityMedium, Title: "Pothole"}
	service, repo, recorder := newUpdateFixture(before)

	staffID := primitive.NewObjectID().Hex()
	result, err := service.Update(context.Background(), adminActor(), "id",
		UpdateRequest{AssignedTo: strPtr(staffID)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := repo.set["status"]; got != StatusInProgress {
		t.Errorf("status = %v, want %v", got, StatusInProgress)
	}
	if !contains(result.Activity, "Auto-changed status to in-progress") {
		t.Errorf("activity missing auto-transition line: %v", result.Activity)
	}
	if result.Updates["assigned_to"] != staffID {
		t.Errorf("updates[assigned_to] = %v, want %v", result.Updates["assigned_to"], staffID)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionComplaintAssign {
		t.Errorf("recorded entries = %+v, want one COMPLAINT_ASSIGN", recorder.entries)
	}
}

func TestUpdateExplicitResolveSkipsAutoTransition(t *testing.T) {
	before := &Complaint{Status: StatusPending, Priority: PriorityMedium, Title: "Pothole"}
	service, repo, _ := newUpdateFixture(before)

	result, err := service.Update(context.Background(), adminActor(), "id", UpdateRequest{
		Status:     strPtr("resolved"),
		AssignedTo: strPtr(primitive.NewObjectID().Hex()),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if got := repo.set["status"]; got != StatusResolved {
		t.Errorf("status = %v, want %v", got, StatusResolved)
	}
	if contains(result.Activity, "Auto-changed status to in-progress") {
		t.Errorf("resolve should suppress the auto-transition: %v", result.Activity)
	}
	if !contains(result.Activity, "Status changed from pending to resolved") {
		t.Errorf("activity missing status line: %v", result.Activity)
	}
}

func TestUpdateExplicitInProgressWithAssignment(t *testing.T) {
	before := &Complaint{Status: StatusPending, Priority: PriorityMedium}
	service, _, _ := newUpdateFixture(before)

	result, err := service.Update(context.Background(), adminActor(), "id", UpdateRequest{
		Status:     strPtr("in-progress"),
		AssignedTo: strPtr(primitive.NewObjectID().Hex()),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !contains(result.Activity, "Status changed from pending to in-progress") ||
		!contains(result.Activity, "Auto-changed status to in-progress") {
		t.Errorf("expected both status lines, got %v", result.Activity)
	}
}

func TestUpdateRejectionRecordsReason(t *testing.T) {
	before := &Complaint{Status: StatusPending, Priority: PriorityMedium, Title: "Duplicate report"}
	service, repo, recorder := newUpdateFixture(before)

	_, err := service.Update(context.Background(), adminActor(), "id", UpdateRequest{
		Status:          strPtr("rejected"),
		RejectionReason: "duplicate of an open complaint",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if len(repo.pushed) != 1 || repo.pushed[0].Message != "[REJECTED]: duplicate of an open complaint" {
		t.Errorf("pushed comments = %+v, want one [REJECTED] comment", repo.pushed)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionComplaintReject {
		t.Errorf("recorded entries = %+v, want one COMPLAINT_REJECT", recorder.entries)
	}
	if recorder.entries[0].Severity != audit.SeverityHigh {
		t.Errorf("severity = %v, want high", recorder.entries[0].Severity)
	}
}

func TestUpdateNoopSkipsWriteAndAudit(t *testing.T) {
	before := &Complaint{Status: StatusInProgress, Priority: PriorityHigh}
	service, repo, recorder := newUpdateFixture(before)

	result, err := service.Update(context.Background(), adminActor(), "id", UpdateRequest{
		Status:   strPtr("in-progress"),
		Priority: strPtr("high"),
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if repo.updated {
		t.Error("no-op update should not hit the repository")
	}
	if len(result.Activity) != 0 {
		t.Errorf("activity = %v, want empty", result.Activity)
	}
	if len(recorder.entries) != 0 {
		t.Errorf("no-op update should not be audited, got %+v", recorder.entries)
	}
}

func TestUpdateAcceptsStatusLabels(t *testing.T) {
	before := &Complaint{Status: StatusPending, Priority: PriorityMedium}
	service, repo, _ := newUpdateFixture(before)

	_, err := service.Update(context.Background(), adminActor(), "id",
		UpdateRequest{Status: strPtr("In Progress")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got := repo.set["status"]; got != StatusInProgress {
		t.Errorf("status = %v, want %v", got, StatusInProgress)
	}
}

func TestUpdateInvalidValuesRejected(t *testing.T) {
	before := &Complaint{Status: StatusPending, Priority: PriorityMedium}
	service, _, _ := newUpdateFixture(before)

	if _, err := service.Update(context.Background(), adminActor(), "id",
		UpdateRequest{Status: strPtr("escalated")}); err == nil {
		t.Error("unknown status should be rejected")
	}
	if _, err := service.Update(context.Background(), adminActor(), "id",
		UpdateRequest{Priority: strPtr("urgent")}); err == nil {
		t.Error("unknown priority should be rejected")
	}
	if _, err := service.Update(context.Background(), adminActor(), "id",
		UpdateRequest{AssignedTo: strPtr("not-an-id")}); err == nil {
		t.Error("malformed staff id should be rejected")
	}
}

func TestUpdateUnassignClearsField(t *testing.T) {
	assignee := primitive.NewObjectID()
	before := &Complaint{Status: StatusInProgress, Priority: PriorityMedium, AssignedTo: &assignee}
	service, repo, _ := newUpdateFixture(before)

	result, err := service.Update(context.Background(), adminActor(), "id",
		UpdateRequest{AssignedTo: strPtr("")})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if _, ok := repo.unset["assigned_to"]; !ok {
		t.Errorf("unset = %v, want assigned_to cleared", repo.unset)
	}
	if !contains(result.Activity, "Assignment removed") {
		t.Errorf("activity = %v, want assignment removal line", result.Activity)
	}
}

func citizenActor() *common_models.Actor {
	return &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorUser, ID: primitive.NewObjectID().Hex()},
		Name: "Asha Verma",
		Role: "user",
	}
}

func TestVoteRecordsAudit(t *testing.T) {
	before := &Complaint{Status: StatusPending, Title: "Pothole"}
	service, repo, recorder := newUpdateFixture(before)

	voter := citizenActor()
	result, err := service.Vote(context.Background(), voter, "id")
	if err != nil {
		t.Fatalf("Vote() error = %v", err)
	}
	if result == nil {
		t.Fatal("Vote() returned no complaint")
	}

	if repo.votedBy == nil || repo.votedBy.Hex() != voter.Ref.ID {
		t.Errorf("votedBy = %v, want %s", repo.votedBy, voter.Ref.ID)
	}
	if len(recorder.entries) != 1 || recorder.entries[0].Action != audit.ActionComplaintVote {
		t.Errorf("audit entries = %+v, want one vote entry", recorder.entries)
	}
}

func TestVoteConflictSurfacesAsConflict(t *testing.T) {
	before := &Complaint{Status: StatusPending, Title: "Pothole"}
	service, repo, recorder := newUpdateFixture(before)
	repo.voteErr = ErrAlreadyVoted

	_, err := service.Vote(context.Background(), citizenActor(), "id")
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("Vote() error = %v, want ErrAlreadyVoted", err)
	}

	if got := statusFor(err); got != fiber.StatusConflict {
		t.Errorf("statusFor(ErrAlreadyVoted) = %d, want %d", got, fiber.StatusConflict)
	}
	if len(recorder.entries) != 0 {
		t.Errorf("a failed vote should not be audited, got %+v", recorder.entries)
	}
}

func TestBulkAssignReportsSkipped(t *testing.T) {
	before := &Complaint{Status: StatusPending}
	service, repo, recorder := newUpdateFixture(before)
	repo.assignMatched = 2

	ids := []string{
		primitive.NewObjectID().Hex(),
		primitive.NewObjectID().Hex(),
		primitive.NewObjectID().Hex(),
	}
	staffID := primitive.NewObjectID().Hex()

	assigned, skipped, err := service.BulkAssign(context.Background(), adminActor(), ids, staffID)
	if err != nil {
		t.Fatalf("BulkAssign() error = %v", err)
	}

	if assigned != 2 || skipped != 1 {
		t.Errorf("assigned/skipped = %d/%d, want 2/1", assigned, skipped)
	}
	if len(repo.assignedIDs) != 3 {
		t.Errorf("assignedIDs = %v, want all three forwarded", repo.assignedIDs)
	}
	if repo.assignedStaff.Hex() != staffID {
		t.Errorf("assignedStaff = %s, want %s", repo.assignedStaff.Hex(), staffID)
	}
	if repo.assignComment.Message != "[BULK ASSIGNED] Assigned to Field Officer" {
		t.Errorf("comment = %q, want bulk-assign line", repo.assignComment.Message)
	}

	if len(recorder.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(recorder.entries))
	}
	entry := recorder.entries[0]
	if entry.Action != audit.ActionBulkAssign {
		t.Errorf("action = %v, want %v", entry.Action, audit.ActionBulkAssign)
	}
	if want := fmt.Sprintf("Bulk assigned %d of %d complaints", 2, 3); entry.Description != want {
		t.Errorf("description = %q, want %q", entry.Description, want)
	}
}

func TestBulkAssignValidation(t *testing.T) {
	before := &Complaint{Status: StatusPending}
	service, _, recorder := newUpdateFixture(before)

	if _, _, err := service.BulkAssign(context.Background(), adminActor(), nil,
		primitive.NewObjectID().Hex()); err == nil {
		t.Error("empty id list should be rejected")
	}
	if _, _, err := service.BulkAssign(context.Background(), adminActor(),
		[]string{primitive.NewObjectID().Hex()}, "nope"); err == nil {
		t.Error("malformed staff id should be rejected")
	}
	if len(recorder.entries) != 0 {
		t.Errorf("rejected calls should not be audited, got %+v", recorder.entries)
	}
}
