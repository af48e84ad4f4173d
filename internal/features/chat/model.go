package chat

import (
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	common_models "resolvex/internal/common/models"
)

// Message is one persisted chat line on a complaint thread. Sender name is
// snapshotted at write time.
type Message struct {
	ID             primitive.ObjectID     `json:"id" bson:"_id,omitempty"`
	ComplaintID    primitive.ObjectID     `json:"complaint_id" bson:"complaint_id"`
	ConversationID string                 `json:"conversation_id" bson:"conversation_id"`
	Sender         common_models.ActorRef `json:"sender" bson:"sender"`
	SenderName     string                 `json:"sender_name" bson:"sender_name"`
	Body           string                 `json:"message" bson:"message"`
	CreatedAt      time.Time              `json:"created_at" bson:"created_at"`
}

// RoomName keys the broadcast room for one complaint.
func RoomName(complaintID string) string {
	return "complaint_" + complaintID
}

// ConversationID derives a stable uuid for a complaint's thread, so messages
// group without a lookup.
func ConversationID(complaintID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(RoomName(complaintID))).String()
}

// Frame is one websocket message in either direction.
type Frame struct {
	Event       string      `json:"event"`
	ComplaintID string      `json:"complaint_id,omitempty"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	Error       string      `json:"error,omitempty"`
}
