package admin

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is a platform administrator account. Created by seeding only; there is
// no self-service admin signup.
type Admin struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Password  string             `json:"-" bson:"password"`
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
}
