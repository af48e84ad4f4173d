package chat

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/features/audit"
	"resolvex/internal/features/complaint"
)

type fakeMessageRepo struct {
	created []Message
	fail    bool
}

func (f *fakeMessageRepo) Create(ctx context.Context, msg *Message) error {
	if f.fail {
		return errors.New("insert failed")
	}
	f.created = append(f.created, *msg)
	return nil
}

func (f *fakeMessageRepo) ListByComplaint(ctx context.Context, complaintID string) ([]Message, error) {
	return f.created, nil
}

func (f *fakeMessageRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakeComplaintFinder struct {
	complaint.Repository
	owner primitive.ObjectID
}

func (f *fakeComplaintFinder) FindByID(ctx context.Context, id string) (*complaint.Complaint, error) {
	return &complaint.Complaint{ID: primitive.NewObjectID(), User: f.owner, Title: "Pothole"}, nil
}

type fakeBroadcaster struct {
	rooms    []string
	payloads []interface{}
}

func (f *fakeBroadcaster) Broadcast(room string, payload interface{}) {
	f.rooms = append(f.rooms, room)
	f.payloads = append(f.payloads, payload)
}

type nopAudit struct {
	audit.Service
}

func (nopAudit) Record(ctx context.Context, entry audit.Entry) {}

func newChatFixture(owner primitive.ObjectID) (*ServiceImpl, *fakeMessageRepo, *fakeBroadcaster) {
	repo := &fakeMessageRepo{}
	hub := &fakeBroadcaster{}
	service := &ServiceImpl{
		Repo:         repo,
		Complaints:   &fakeComplaintFinder{owner: owner},
		Broadcaster:  hub,
		AuditService: nopAudit{},
	}
	return service, repo, hub
}

func TestSendPersistsThenBroadcasts(t *testing.T) {
	owner := primitive.NewObjectID()
	service, repo, hub := newChatFixture(owner)

	actor := &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorUser, ID: owner.Hex()},
		Name: "Resident",
		Role: "user",
	}
	msg, err := service.Send(context.Background(), actor, "abc123", "  Any update?  ")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if msg.Body != "Any update?" {
		t.Errorf("body = %q, want trimmed", msg.Body)
	}
	if msg.ConversationID != ConversationID("abc123") {
		t.Errorf("conversation id = %q", msg.ConversationID)
	}
	if len(repo.created) != 1 {
		t.Fatalf("persisted %d messages, want 1", len(repo.created))
	}
	if len(hub.rooms) != 1 || hub.rooms[0] != RoomName("abc123") {
		t.Errorf("broadcast rooms = %v", hub.rooms)
	}
	frame, ok := hub.payloads[0].(Frame)
	if !ok || frame.Event != "new_message" {
		t.Errorf("payload = %+v, want new_message frame", hub.payloads[0])
	}
}

func TestSendFailedInsertSkipsBroadcast(t *testing.T) {
	owner := primitive.NewObjectID()
	service, repo, hub := newChatFixture(owner)
	repo.fail = true

	actor := &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorUser, ID: owner.Hex()},
		Role: "user",
	}
	if _, err := service.Send(context.Background(), actor, "abc123", "hello"); err == nil {
		t.Fatal("expected insert failure to surface")
	}
	if len(hub.rooms) != 0 {
		t.Error("a message that was not stored must not be broadcast")
	}
}

func TestSendForeignUserForbidden(t *testing.T) {
	service, _, _ := newChatFixture(primitive.NewObjectID())

	actor := &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorUser, ID: primitive.NewObjectID().Hex()},
		Role: "user",
	}
	if _, err := service.Send(context.Background(), actor, "abc123", "hello"); !errors.Is(err, ErrForbidden) {
		t.Errorf("Send() = %v, want ErrForbidden", err)
	}
}

func TestStaffCanAccessAnyThread(t *testing.T) {
	service, _, _ := newChatFixture(primitive.NewObjectID())

	actor := &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorStaff, ID: primitive.NewObjectID().Hex()},
		Role: "staff",
	}
	if err := service.CanAccess(context.Background(), actor, "abc123"); err != nil {
		t.Errorf("CanAccess() = %v, want nil for staff", err)
	}
}

func TestSendEmptyMessageRejected(t *testing.T) {
	service, _, _ := newChatFixture(primitive.NewObjectID())

	actor := &common_models.Actor{
		Ref:  common_models.ActorRef{Kind: common_models.ActorStaff, ID: primitive.NewObjectID().Hex()},
		Role: "staff",
	}
	if _, err := service.Send(context.Background(), actor, "abc123", "   "); err == nil {
		t.Error("blank message accepted")
	}
}
