package otp

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Purpose says what a verified code unlocks.
type Purpose string

const (
	PurposeSignup        Purpose = "signup"
	PurposeLogin         Purpose = "login"
	PurposePasswordReset Purpose = "password-reset"
)

// ValidPurpose reports whether v is a known purpose.
func ValidPurpose(v Purpose) bool {
	switch v {
	case PurposeSignup, PurposeLogin, PurposePasswordReset:
		return true
	}
	return false
}

// MaxAttempts is the verification budget per issued code.
const MaxAttempts = 5

// Code is one issued one-time password. Only the bcrypt hash is stored.
type Code struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Identifier string             `bson:"identifier"`
	Purpose    Purpose            `bson:"purpose"`
	CodeHash   string             `bson:"code_hash"`
	Attempts   int                `bson:"attempts"`
	ExpiresAt  time.Time          `bson:"expires_at"`
	CreatedAt  time.Time          `bson:"created_at"`
}
