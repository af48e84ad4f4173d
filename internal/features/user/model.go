package user

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is the citizen's registered address.
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	Pincode string `json:"pincode,omitempty" bson:"pincode,omitempty"`
}

// User is a citizen account. Accounts with linked complaints are never
// hard-deleted.
type User struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"-" bson:"password"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address      Address            `json:"address,omitempty" bson:"address,omitempty"`
	Role         string             `json:"role" bson:"role"`
	ProfileImage string             `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	IsVerified   bool               `json:"is_verified" bson:"is_verified"`
	CreatedAt    time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at" bson:"updated_at"`
}
