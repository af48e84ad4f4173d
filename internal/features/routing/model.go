package routing

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"resolvex/internal/features/complaint"
)

// Rule auto-routes new complaints. Script is a tengo snippet that sees the
// complaint's category, priority, title and address as string globals and
// must assign a boolean to `match`. Rules run in Order; the first match wins.
type Rule struct {
	ID         primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name       string              `json:"name" bson:"name"`
	Script     string              `json:"script" bson:"script"`
	Department *primitive.ObjectID `json:"department,omitempty" bson:"department,omitempty"`
	Priority   complaint.Priority  `json:"priority,omitempty" bson:"priority,omitempty"`
	Order      int                 `json:"order" bson:"order"`
	IsActive   bool                `json:"is_active" bson:"is_active"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at" bson:"updated_at"`
}
