package chat

import (
	"context"
	"errors"
	"strings"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/features/audit"
	"resolvex/internal/features/complaint"
)

// ErrForbidden is returned when an actor reads or writes a thread for a
// complaint they have no part in.
var ErrForbidden = errors.New("not allowed to access this conversation")

// Broadcaster pushes a payload to every subscriber of a room. Implemented by
// Hub; injected so the service never touches socket state directly.
type Broadcaster interface {
	Broadcast(room string, payload interface{})
}

type Service interface {
	// CanAccess reports whether the actor may join the complaint's thread.
	CanAccess(ctx context.Context, actor *common_models.Actor, complaintID string) error
	Send(ctx context.Context, actor *common_models.Actor, complaintID, body string) (*Message, error)
	History(ctx context.Context, actor *common_models.Actor, complaintID string) ([]Message, error)
}

type ServiceImpl struct {
	Repo         Repository
	Complaints   complaint.Repository
	Broadcaster  Broadcaster
	AuditService audit.Service
}

func NewService(repo Repository, complaints complaint.Repository, broadcaster Broadcaster,
	auditService audit.Service) Service {
	return &ServiceImpl{
		Repo:         repo,
		Complaints:   complaints,
		Broadcaster:  broadcaster,
		AuditService: auditService,
	}
}

func (s *ServiceImpl) CanAccess(ctx context.Context, actor *common_models.Actor, complaintID string) error {
	c, err := s.Complaints.FindByID(ctx, complaintID)
	if err != nil {
		return err
	}
	if actor.Ref.Kind == common_models.ActorUser && c.User.Hex() != actor.Ref.ID {
		return ErrForbidden
	}
	return nil
}

// Send persists the message and then broadcasts it. Persistence comes first:
// the stored thread is the durable order, the live push is best effort.
func (s *ServiceImpl) Send(ctx context.Context, actor *common_models.Actor, complaintID, body string) (*Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, errors.New("message is required")
	}
	c, err := s.Complaints.FindByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	if actor.Ref.Kind == common_models.ActorUser && c.User.Hex() != actor.Ref.ID {
		return nil, ErrForbidden
	}

	msg := &Message{
		ComplaintID:    c.ID,
		ConversationID: ConversationID(complaintID),
		Sender:         actor.Ref,
		SenderName:     actor.Name,
		Body:           body,
	}
	if msg.SenderName == "" {
		msg.SenderName = string(actor.Ref.Kind)
	}
	if err := s.Repo.Create(ctx, msg); err != nil {
		return nil, err
	}

	s.Broadcaster.Broadcast(RoomName(complaintID), Frame{
		Event:       "new_message",
		ComplaintID: complaintID,
		Data:        msg,
	})

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionChatMessage,
		Category:    "chat",
		Severity:    audit.SeverityLow,
		TargetModel: "Complaint",
		TargetID:    complaintID,
		TargetName:  c.Title,
	})
	return msg, nil
}

func (s *ServiceImpl) History(ctx context.Context, actor *common_models.Actor, complaintID string) ([]Message, error) {
	if err := s.CanAccess(ctx, actor, complaintID); err != nil {
		return nil, err
	}
	return s.Repo.ListByComplaint(ctx, complaintID)
}
