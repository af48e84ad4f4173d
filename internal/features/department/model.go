package department

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Category buckets departments by municipal function.
type Category string

const (
	CategoryInfrastructure Category = "infrastructure"
	CategoryUtilities      Category = "utilities"
	CategoryPublicSafety   Category = "public-safety"
	CategoryAdministrative Category = "administrative"
	CategoryHealth         Category = "health"
	CategoryEducation      Category = "education"
	CategoryOther          Category = "other"
)

// ValidCategory reports whether v is a known category.
func ValidCategory(v Category) bool {
	switch v {
	case CategoryInfrastructure, CategoryUtilities, CategoryPublicSafety,
		CategoryAdministrative, CategoryHealth, CategoryEducation, CategoryOther:
		return true
	}
	return false
}

// Department is static reference data, rarely mutated after seeding.
type Department struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Category     Category            `json:"category" bson:"category"`
	Description  string              `json:"description,omitempty" bson:"description,omitempty"`
	ContactEmail string              `json:"contact_email,omitempty" bson:"contact_email,omitempty"`
	ContactPhone string              `json:"contact_phone,omitempty" bson:"contact_phone,omitempty"`
	Head         *primitive.ObjectID `json:"head,omitempty" bson:"head,omitempty"`
	IsActive     bool                `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}
