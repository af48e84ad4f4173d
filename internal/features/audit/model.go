package audit

import (
	"time"

	common_models "resolvex/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is the closed set of auditable actions.
type Action string

const (
	ActionUserSignup         Action = "USER_SIGNUP"
	ActionUserLogin          Action = "USER_LOGIN"
	ActionUserUpdate         Action = "USER_UPDATE"
	ActionUserDelete         Action = "USER_DELETE"
	ActionStaffRegister      Action = "STAFF_REGISTER"
	ActionStaffLogin         Action = "STAFF_LOGIN"
	ActionStaffUpdate        Action = "STAFF_UPDATE"
	ActionStaffDelete        Action = "STAFF_DELETE"
	ActionAdminLogin         Action = "ADMIN_LOGIN"
	ActionTokenRefresh       Action = "TOKEN_REFRESH"
	ActionComplaintCreate    Action = "COMPLAINT_CREATE"
	ActionComplaintUpdate    Action = "COMPLAINT_UPDATE"
	ActionComplaintVote      Action = "COMPLAINT_VOTE"
	ActionComplaintComment   Action = "COMPLAINT_COMMENT"
	ActionComplaintAssign    Action = "COMPLAINT_ASSIGN"
	ActionComplaintReject    Action = "COMPLAINT_REJECT"
	ActionComplaintDelete    Action = "COMPLAINT_DELETE"
	ActionBulkAssign         Action = "COMPLAINT_BULK_ASSIGN"
	ActionDepartmentCreate   Action = "DEPARTMENT_CREATE"
	ActionDepartmentUpdate   Action = "DEPARTMENT_UPDATE"
	ActionDepartmentDelete   Action = "DEPARTMENT_DELETE"
	ActionRoutingRuleChange  Action = "ROUTING_RULE_CHANGE"
	ActionAnalyticsExport    Action = "ANALYTICS_EXPORT"
	ActionAuditExport        Action = "AUDIT_EXPORT"
	ActionRetentionPrune     Action = "RETENTION_PRUNE"
	ActionLegacyImport       Action = "LEGACY_IMPORT"
	ActionChatMessage        Action = "CHAT_MESSAGE"
	ActionOTPRequest         Action = "OTP_REQUEST"
	ActionOTPVerifyFailure   Action = "OTP_VERIFY_FAILURE"
	ActionOTPAttemptsExhaust Action = "OTP_ATTEMPTS_EXHAUSTED"
)

// Severity grades how sensitive an action is.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Status records the outcome of the audited action.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailure Status = "FAILURE"
	StatusWarning Status = "WARNING"
)

// ChangeSet holds opaque before/after snapshots of the target.
type ChangeSet struct {
	Before interface{} `bson:"before,omitempty" json:"before,omitempty"`
	After  interface{} `bson:"after,omitempty" json:"after,omitempty"`
}

// Metadata captures request-level context for an entry.
type Metadata struct {
	IP         string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent  string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	Endpoint   string `bson:"endpoint,omitempty" json:"endpoint,omitempty"`
	Method     string `bson:"method,omitempty" json:"method,omitempty"`
	StatusCode int    `bson:"status_code,omitempty" json:"status_code,omitempty"`
	DurationMS int64  `bson:"duration_ms,omitempty" json:"duration_ms,omitempty"`
}

// Entry is one append-only audit record. Actor name/email/role are snapshotted
// at write time so the entry stays meaningful if the account changes later.
// Only IsDeleted is ever mutated after insert (retention pruning).
type Entry struct {
	ID          primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	Actor       common_models.ActorRef  `bson:"actor" json:"actor"`
	ActorName   string                  `bson:"actor_name" json:"actor_name"`
	ActorEmail  string                  `bson:"actor_email,omitempty" json:"actor_email,omitempty"`
	ActorRole   string                  `bson:"actor_role" json:"actor_role"`
	Action      Action                  `bson:"action" json:"action"`
	Category    string                  `bson:"category" json:"category"`
	Severity    Severity                `bson:"severity" json:"severity"`
	Status      Status                  `bson:"status" json:"status"`
	Description string                  `bson:"description,omitempty" json:"description,omitempty"`
	TargetModel string                  `bson:"target_model,omitempty" json:"target_model,omitempty"`
	TargetID    string                  `bson:"target_id,omitempty" json:"target_id,omitempty"`
	TargetName  string                  `bson:"target_name,omitempty" json:"target_name,omitempty"`
	Changes     *ChangeSet              `bson:"changes,omitempty" json:"changes,omitempty"`
	Metadata    Metadata                `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Timestamp   time.Time               `bson:"timestamp" json:"timestamp"`
	IsDeleted   bool                    `bson:"is_deleted" json:"-"`
}

// Filter narrows audit log queries.
type Filter struct {
	ActorID     string
	ActorKind   string
	Action      string
	Category    string
	Severity    string
	Status      string
	TargetModel string
	TargetID    string
	Search      string
	From        *time.Time
	To          *time.Time
}

// Summary is the faceted activity breakdown.
type Summary struct {
	Total      int64            `json:"total"`
	ByCategory map[string]int64 `json:"by_category"`
	ByAction   map[string]int64 `json:"by_action"`
	BySeverity map[string]int64 `json:"by_severity"`
	ByStatus   map[string]int64 `json:"by_status"`
	ByHour     map[string]int64 `json:"by_hour"`
}
