package email

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DeliveryStatus string

const (
	StatusQueued DeliveryStatus = "queued"
	StatusSent   DeliveryStatus = "sent"
	StatusFailed DeliveryStatus = "failed"
)

// Message is one outbound email, logged to the emails collection so delivery
// failures are visible after the fact.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	From      string             `bson:"from" json:"from"`
	To        []string           `bson:"to" json:"to"`
	Subject   string             `bson:"subject" json:"subject"`
	Body      string             `bson:"body,omitempty" json:"body,omitempty"`
	Purpose   string             `bson:"purpose,omitempty" json:"purpose,omitempty"`
	Status    DeliveryStatus     `bson:"status" json:"status"`
	ErrorMsg  string             `bson:"error_message,omitempty" json:"error_message,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	SentAt    *time.Time         `bson:"sent_at,omitempty" json:"sent_at,omitempty"`
}
