package complaint

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the complaint lifecycle state. resolved, rejected and closed are
// terminal.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
	StatusClosed     Status = "closed"
)

// ValidStatus reports whether v is a known status.
func ValidStatus(v Status) bool {
	switch v {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether v ends the lifecycle.
func (v Status) IsTerminal() bool {
	return v == StatusResolved || v == StatusRejected || v == StatusClosed
}

// statusLabels maps the UI-facing filter labels onto internal values. The
// admin dashboard sends these labels verbatim.
var statusLabels = map[string]Status{
	"New (Triage)": StatusPending,
	"In Progress":  StatusInProgress,
	"Resolved":     StatusResolved,
	"Rejected":     StatusRejected,
	"Closed":       StatusClosed,
}

// TranslateStatusLabel resolves a status filter value that may be either a UI
// label or a raw internal value.
func TranslateStatusLabel(v string) (Status, bool) {
	if status, ok := statusLabels[v]; ok {
		return status, true
	}
	if ValidStatus(Status(v)) {
		return Status(v), true
	}
	return "", false
}

// Priority orders triage urgency.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// ValidPriority reports whether v is a known priority.
func ValidPriority(v Priority) bool {
	switch v {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// PriorityRank gives the numeric sort weight used for priority-descending
// listings.
func PriorityRank(v Priority) int {
	switch v {
	case PriorityCritical:
		return 4
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	}
	return 0
}

// Category classifies the civic issue.
type Category string

const (
	CategoryRoad        Category = "road"
	CategorySanitation  Category = "sanitation"
	CategoryWater       Category = "water"
	CategoryElectricity Category = "electricity"
	CategorySecurity    Category = "security"
	CategoryTransport   Category = "transport"
	CategoryOther       Category = "other"
)

// ValidCategory reports whether v is a known category.
func ValidCategory(v Category) bool {
	switch v {
	case CategoryRoad, CategorySanitation, CategoryWater, CategoryElectricity,
		CategorySecurity, CategoryTransport, CategoryOther:
		return true
	}
	return false
}

// Location pins the issue on the map.
type Location struct {
	Address string  `json:"address" bson:"address"`
	Lat     float64 `json:"lat,omitempty" bson:"lat,omitempty"`
	Lng     float64 `json:"lng,omitempty" bson:"lng,omitempty"`
}

// Comment is one note on a complaint. Author name is snapshotted at write
// time; system comments have no author id.
type Comment struct {
	AuthorID   *primitive.ObjectID `json:"author_id,omitempty" bson:"author_id,omitempty"`
	AuthorRole string              `json:"author_role" bson:"author_role"`
	AuthorName string              `json:"author_name" bson:"author_name"`
	Message    string              `json:"message" bson:"message"`
	CreatedAt  time.Time           `json:"created_at" bson:"created_at"`
}

// Complaint is one citizen-filed issue.
type Complaint struct {
	ID          primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	User        primitive.ObjectID   `json:"user" bson:"user"`
	Title       string               `json:"title" bson:"title"`
	Description string               `json:"description" bson:"description"`
	Category    Category             `json:"category" bson:"category"`
	Location    Location             `json:"location" bson:"location"`
	Priority    Priority             `json:"priority" bson:"priority"`
	Status      Status               `json:"status" bson:"status"`
	AssignedTo  *primitive.ObjectID  `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Department  *primitive.ObjectID  `json:"department,omitempty" bson:"department,omitempty"`
	VoteCount   int64                `json:"vote_count" bson:"vote_count"`
	Voters      []primitive.ObjectID `json:"-" bson:"voters,omitempty"`
	Comments    []Comment            `json:"comments" bson:"comments"`
	Images      []string             `json:"images,omitempty" bson:"images,omitempty"`
	LegacyID    int64                `json:"legacy_id,omitempty" bson:"legacy_id,omitempty"`
	CreatedAt   time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at" bson:"updated_at"`
}

// ListFilter narrows admin listings. AssignedTo accepts a staff id hex or the
// sentinel "unassigned".
type ListFilter struct {
	Status     string
	Priority   string
	Category   string
	AssignedTo string
	Owner      string
}

// CreateRequest is the citizen-facing submission payload.
type CreateRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Location    Location `json:"location"`
	Priority    Priority `json:"priority"`
	Images      []string `json:"images"`
}

// UpdateRequest is the partial admin/staff lifecycle update. Pointer fields
// distinguish "absent" from "explicitly cleared".
type UpdateRequest struct {
	Status          *string `json:"status"`
	Priority        *string `json:"priority"`
	AssignedTo      *string `json:"assignedTo"`
	Department      *string `json:"department"`
	Category        *string `json:"category"`
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	RejectionReason string  `json:"rejectionReason"`
	Comments        string  `json:"comments"`
}

// UpdateResult reports what a lifecycle update changed, with a
// human-readable activity trail for the admin UI.
type UpdateResult struct {
	Complaint *Complaint             `json:"complaint"`
	Updates   map[string]interface{} `json:"updates"`
	Activity  []string               `json:"activity"`
}

// Populated decorates a complaint with resolved display names.
type Populated struct {
	Complaint      `bson:",inline"`
	UserName       string `json:"user_name,omitempty"`
	AssigneeName   string `json:"assignee_name,omitempty"`
	DepartmentName string `json:"department_name,omitempty"`
}
