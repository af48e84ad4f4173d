package staff

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Staff is a municipal worker account. Department is a weak reference: staff
// lookups resolve it but never manage the department lifecycle.
type Staff struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id,omitempty"`
	Name         string              `json:"name" bson:"name"`
	Email        string              `json:"email" bson:"email"`
	StaffID      string              `json:"staff_id" bson:"staff_id"`
	Phone        string              `json:"phone,omitempty" bson:"phone,omitempty"`
	Password     string              `json:"-" bson:"password"`
	Department   *primitive.ObjectID `json:"department,omitempty" bson:"department,omitempty"`
	ProfileImage string              `json:"profile_image,omitempty" bson:"profile_image,omitempty"`
	IsActive     bool                `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at" bson:"updated_at"`
}

// Stats summarises a staff member's assignment performance.
type Stats struct {
	Assigned          int64   `json:"assigned"`
	Resolved          int64   `json:"resolved"`
	ResolutionRate    int     `json:"resolution_rate"`     // whole percent, 0 when nothing assigned
	AvgResolutionDays float64 `json:"avg_resolution_days"` // one decimal, resolved complaints only
}
