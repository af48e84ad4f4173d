package audit

import (
	"context"
	"encoding/json"
	"time"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/middleware"
	"resolvex/pkg/export"

	"go.uber.org/zap"
)

// ActorFinder resolves an account id to its display name and email. Each
// account repository satisfies this; the three are wired in main.
type ActorFinder interface {
	LookupActor(ctx context.Context, id string) (name, email string, err error)
}

// UserFinder, StaffFinder and AdminFinder are distinct types so fx can
// tell the three directory lookups apart.
type (
	UserFinder  ActorFinder
	StaffFinder ActorFinder
	AdminFinder ActorFinder
)

type Service interface {
	// Record appends an entry. Best effort: a failed write is logged
	// operationally and never returned to the caller.
	Record(ctx context.Context, entry Entry)
	RecordHTTP(ctx context.Context, ev middleware.AuditEvent)

	List(ctx context.Context, filter Filter, page, limit int64) ([]Entry, int64, error)
	Summarize(ctx context.Context, filter Filter) (*Summary, error)
	Trail(ctx context.Context, targetModel, targetID string) ([]Entry, error)
	Export(ctx context.Context, filter Filter, format string) ([]byte, string, error)
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

type ServiceImpl struct {
	Repo   Repository
	Users  UserFinder
	Staff  StaffFinder
	Admins AdminFinder
	Logger *zap.Logger
	CSV    *export.CSVExporter
}

func NewService(repo Repository, users UserFinder, staff StaffFinder, admins AdminFinder, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:   repo,
		Users:  users,
		Staff:  staff,
		Admins: admins,
		Logger: logger,
		CSV:    export.NewCSVExporter(),
	}
}

func (s *ServiceImpl) Record(ctx context.Context, entry Entry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if entry.Severity == "" {
		entry.Severity = SeverityLow
	}
	if entry.Status == "" {
		entry.Status = StatusSuccess
	}
	if entry.Actor.ID == "" {
		if actor, ok := common_models.ActorFromContext(ctx); ok {
			entry.Actor = actor.Ref
			entry.ActorRole = actor.Role
		}
	}
	s.snapshotActor(ctx, &entry)

	if err := s.Repo.Create(ctx, &entry); err != nil {
		// Logging must never fail the operation being logged.
		s.Logger.Error("audit write failed",
			zap.String("action", string(entry.Action)),
			zap.String("target", entry.TargetID),
			zap.Error(err))
	}
}

// RecordHTTP is the wrapper-mode entry point used by the audit middleware.
func (s *ServiceImpl) RecordHTTP(ctx context.Context, ev middleware.AuditEvent) {
	entry := Entry{
		Action:      Action(ev.Action),
		Category:    ev.Category,
		Severity:    Severity(ev.Severity),
		Status:      StatusSuccess,
		TargetModel: ev.TargetModel,
		TargetID:    ev.TargetID,
		Metadata: Metadata{
			IP:         ev.IP,
			UserAgent:  ev.UserAgent,
			Endpoint:   ev.Endpoint,
			Method:     ev.Method,
			StatusCode: ev.StatusCode,
			DurationMS: ev.Duration.Milliseconds(),
		},
	}
	if !ev.Success {
		entry.Status = StatusFailure
	}
	if ev.Actor != nil {
		entry.Actor = ev.Actor.Ref
		entry.ActorRole = ev.Actor.Role
	}
	s.Record(ctx, entry)
}

// snapshotActor denormalises the actor's current name/email into the entry so
// it survives account changes.
func (s *ServiceImpl) snapshotActor(ctx context.Context, entry *Entry) {
	if entry.ActorName != "" || entry.Actor.ID == "" {
		if entry.ActorName == "" {
			entry.ActorName = "System"
			entry.ActorRole = "system"
		}
		return
	}

	var finder ActorFinder
	switch entry.Actor.Kind {
	case common_models.ActorUser:
		finder = s.Users
	case common_models.ActorStaff:
		finder = s.Staff
	case common_models.ActorAdmin:
		finder = s.Admins
	}
	if finder == nil {
		entry.ActorName = "Unknown"
		return
	}

	name, email, err := finder.LookupActor(ctx, entry.Actor.ID)
	if err != nil {
		entry.ActorName = "Unknown"
		return
	}
	entry.ActorName = name
	entry.ActorEmail = email
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter, page, limit int64) ([]Entry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}
	return s.Repo.List(ctx, filter, page, limit)
}

func (s *ServiceImpl) Summarize(ctx context.Context, filter Filter) (*Summary, error) {
	return s.Repo.Summarize(ctx, filter)
}

func (s *ServiceImpl) Trail(ctx context.Context, targetModel, targetID string) ([]Entry, error) {
	return s.Repo.Trail(ctx, targetModel, targetID)
}

// Export renders matching entries (capped in the repository) as CSV or JSON.
// Returns payload and content type.
func (s *ServiceImpl) Export(ctx context.Context, filter Filter, format string) ([]byte, string, error) {
	entries, err := s.Repo.Export(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	if format == "json" {
		payload, err := marshalEntries(entries)
		if err != nil {
			return nil, "", err
		}
		return payload, "application/json", nil
	}

	dataset := export.Dataset{
		Headers: []string{"Timestamp", "Actor", "Role", "Action", "Category", "Severity", "Status", "Target", "Description"},
	}
	for _, e := range entries {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Timestamp":   e.Timestamp.Format(time.RFC3339),
			"Actor":       e.ActorName,
			"Role":        e.ActorRole,
			"Action":      string(e.Action),
			"Category":    e.Category,
			"Severity":    string(e.Severity),
			"Status":      string(e.Status),
			"Target":      e.TargetModel + "/" + e.TargetID,
			"Description": e.Description,
		})
	}
	payload, err := s.CSV.Render(dataset)
	if err != nil {
		return nil, "", err
	}
	return payload, "text/csv", nil
}

func marshalEntries(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

func (s *ServiceImpl) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	pruned, err := s.Repo.Prune(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if pruned > 0 {
		s.Record(ctx, Entry{
			Action:      ActionRetentionPrune,
			Category:    "maintenance",
			Severity:    SeverityMedium,
			Description: "audit retention pruning",
			Changes:     &ChangeSet{After: map[string]int64{"pruned": pruned}},
		})
	}
	return pruned, nil
}
