package complaint

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	common_models "resolvex/internal/common/models"
	"resolvex/internal/features/audit"
	"resolvex/internal/features/department"
	"resolvex/internal/features/staff"
	"resolvex/internal/features/user"
)

// ErrForbidden is returned when an actor touches a complaint they do not own.
var ErrForbidden = errors.New("not allowed to access this complaint")

// RouteDecision is what an auto-routing rule wants applied to a new
// complaint. Nil fields leave the submission untouched.
type RouteDecision struct {
	Department *primitive.ObjectID
	Priority   Priority
	AssignTo   *primitive.ObjectID
}

// Router evaluates auto-routing rules against a new complaint. Implemented by
// the routing feature; wired in main.
type Router interface {
	Route(ctx context.Context, c *Complaint) (*RouteDecision, error)
}

type Service interface {
	Create(ctx context.Context, actor *common_models.Actor, req CreateRequest) (*Complaint, error)
	Get(ctx context.Context, actor *common_models.Actor, id string) (*Populated, error)
	ListAll(ctx context.Context, filter ListFilter, page, limit int64) ([]Populated, int64, error)
	ListMine(ctx context.Context, actor *common_models.Actor) ([]Populated, error)
	ListAssigned(ctx context.Context, staffID string) ([]Populated, error)
	Update(ctx context.Context, actor *common_models.Actor, id string, req UpdateRequest) (*UpdateResult, error)
	AddComment(ctx context.Context, actor *common_models.Actor, id, message string) (*Complaint, error)
	Vote(ctx context.Context, actor *common_models.Actor, id string) (*Complaint, error)
	BulkAssign(ctx context.Context, actor *common_models.Actor, ids []string, staffID string) (int64, int, error)
	Delete(ctx context.Context, actor *common_models.Actor, id string) error
}

type ServiceImpl struct {
	Repo         Repository
	Users        user.Repository
	Staff        staff.Repository
	Departments  department.Repository
	AuditService audit.Service
	Router       Router
	Logger       *zap.Logger
}

func NewService(repo Repository, users user.Repository, staffRepo staff.Repository,
	departments department.Repository, auditService audit.Service, router Router,
	logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:         repo,
		Users:        users,
		Staff:        staffRepo,
		Departments:  departments,
		AuditService: auditService,
		Router:       router,
		Logger:       logger,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, actor *common_models.Actor, req CreateRequest) (*Complaint, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("title is required")
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, errors.New("description is required")
	}
	if !ValidCategory(req.Category) {
		return nil, errors.New("invalid category")
	}
	if req.Priority != "" && !ValidPriority(req.Priority) {
		return nil, errors.New("invalid priority")
	}
	if strings.TrimSpace(req.Location.Address) == "" {
		return nil, errors.New("location address is required")
	}

	ownerID, err := primitive.ObjectIDFromHex(actor.Ref.ID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	c := &Complaint{
		User:        ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Category:    req.Category,
		Location:    req.Location,
		Priority:    req.Priority,
		Status:      StatusPending,
		Images:      req.Images,
	}
	if c.Priority == "" {
		c.Priority = PriorityMedium
	}

	// Routing rules are best effort: a broken rule never blocks a citizen
	// from filing.
	if s.Router != nil {
		decision, routeErr := s.Router.Route(ctx, c)
		if routeErr != nil {
			s.Logger.Warn("routing rules failed", zap.Error(routeErr))
		} else if decision != nil {
			if decision.Department != nil {
				c.Department = decision.Department
			}
			if decision.Priority != "" {
				c.Priority = decision.Priority
			}
			if decision.AssignTo != nil {
				c.AssignedTo = decision.AssignTo
				c.Status = StatusInProgress
			}
		}
	}

	created, err := s.Repo.Create(ctx, c)
	if err != nil {
		return nil, err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionComplaintCreate,
		Category:    "complaint",
		Severity:    audit.SeverityLow,
		TargetModel: "Complaint",
		TargetID:    created.ID.Hex(),
		TargetName:  created.Title,
		Changes:     &audit.ChangeSet{After: created},
	})
	return created, nil
}

func (s *ServiceImpl) Get(ctx context.Context, actor *common_models.Actor, id string) (*Populated, error) {
	c, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Ref.Kind == common_models.ActorUser && c.User.Hex() != actor.Ref.ID {
		return nil, ErrForbidden
	}
	populated, err := s.populate(ctx, []Complaint{*c})
	if err != nil {
		return nil, err
	}
	return &populated[0], nil
}

func (s *ServiceImpl) ListAll(ctx context.Context, filter ListFilter, page, limit int64) ([]Populated, int64, error) {
	complaints, total, err := s.Repo.FindAll(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, err
	}
	populated, err := s.populate(ctx, complaints)
	if err != nil {
		return nil, 0, err
	}
	return populated, total, nil
}

func (s *ServiceImpl) ListMine(ctx context.Context, actor *common_models.Actor) ([]Populated, error) {
	complaints, err := s.Repo.FindByOwner(ctx, actor.Ref.ID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, complaints)
}

func (s *ServiceImpl) ListAssigned(ctx context.Context, staffID string) ([]Populated, error) {
	complaints, err := s.Repo.FindByAssignee(ctx, staffID)
	if err != nil {
		return nil, err
	}
	return s.populate(ctx, complaints)
}

// Update applies a partial lifecycle update. Every rule is evaluated against
// the document as it was read, changes are recorded only when a field
// actually differs, and re-sending the same payload is a no-op.
func (s *ServiceImpl) Update(ctx context.Context, actor *common_models.Actor, id string, req UpdateRequest) (*UpdateResult, error) {
	before, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	unset := bson.M{}
	var comments []Comment
	updates := map[string]interface{}{}
	var activity []string

	effectiveStatus := before.Status
	rejected := false

	if req.Status != nil {
		status, ok := TranslateStatusLabel(*req.Status)
		if !ok {
			return nil, errors.New("invalid status")
		}
		if status != before.Status {
			effectiveStatus = status
			activity = append(activity, fmt.Sprintf("Status changed from %s to %s", before.Status, status))
			if status == StatusRejected {
				rejected = true
				if req.RejectionReason != "" {
					comments = append(comments, s.systemComment(ctx, actor, "[REJECTED]: "+req.RejectionReason))
					activity = append(activity, "Rejection reason recorded")
				}
			}
		}
	}

	if req.Priority != nil {
		priority := Priority(*req.Priority)
		if !ValidPriority(priority) {
			return nil, errors.New("invalid priority")
		}
		if priority != before.Priority {
			set["priority"] = priority
			updates["priority"] = priority
			activity = append(activity, fmt.Sprintf("Priority changed from %s to %s", before.Priority, priority))
		}
	}

	if req.AssignedTo != nil {
		if *req.AssignedTo == "" {
			if before.AssignedTo != nil {
				unset["assigned_to"] = ""
				updates["assigned_to"] = nil
				activity = append(activity, "Assignment removed")
			}
		} else {
			staffOID, err := primitive.ObjectIDFromHex(*req.AssignedTo)
			if err != nil {
				return nil, errors.New("invalid staff id")
			}
			if _, err := s.Staff.FindByID(ctx, staffOID); err != nil {
				return nil, errors.New("assigned staff member not found")
			}
			if before.AssignedTo == nil || *before.AssignedTo != staffOID {
				set["assigned_to"] = staffOID
				updates["assigned_to"] = staffOID.Hex()
				activity = append(activity, "Assigned to staff member")
				// A fresh assignment pulls an untriaged complaint into
				// progress, unless the same request already moved it to a
				// terminal state.
				if before.Status == StatusPending &&
					(effectiveStatus == StatusPending || effectiveStatus == StatusInProgress) {
					effectiveStatus = StatusInProgress
					activity = append(activity, "Auto-changed status to in-progress")
				}
			}
		}
	}

	if effectiveStatus != before.Status {
		set["status"] = effectiveStatus
		updates["status"] = effectiveStatus
	}

	if req.Department != nil {
		if *req.Department == "" {
			if before.Department != nil {
				unset["department"] = ""
				updates["department"] = nil
				activity = append(activity, "Department cleared")
			}
		} else {
			deptOID, err := primitive.ObjectIDFromHex(*req.Department)
			if err != nil {
				return nil, errors.New("invalid department id")
			}
			if _, err := s.Departments.FindByID(ctx, deptOID); err != nil {
				return nil, errors.New("department not found")
			}
			if before.Department == nil || *before.Department != deptOID {
				set["department"] = deptOID
				updates["department"] = deptOID.Hex()
				activity = append(activity, "Department changed")
			}
		}
	}

	if req.Category != nil {
		category := Category(*req.Category)
		if !ValidCategory(category) {
			return nil, errors.New("invalid category")
		}
		if category != before.Category {
			set["category"] = category
			updates["category"] = category
			activity = append(activity, fmt.Sprintf("Category changed from %s to %s", before.Category, category))
		}
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) != "" && *req.Title != before.Title {
		set["title"] = strings.TrimSpace(*req.Title)
		updates["title"] = set["title"]
		activity = append(activity, "Title updated")
	}

	if req.Description != nil && strings.TrimSpace(*req.Description) != "" && *req.Description != before.Description {
		set["description"] = strings.TrimSpace(*req.Description)
		updates["description"] = set["description"]
		activity = append(activity, "Description updated")
	}

	if strings.TrimSpace(req.Comments) != "" {
		comments = append(comments, s.systemComment(ctx, actor, "[ADMIN NOTE]: "+strings.TrimSpace(req.Comments)))
		activity = append(activity, "Note added")
	}

	if len(set) == 0 && len(unset) == 0 && len(comments) == 0 {
		return &UpdateResult{Complaint: before, Updates: updates, Activity: []string{}}, nil
	}

	after, err := s.Repo.UpdateFields(ctx, id, set, unset, comments)
	if err != nil {
		return nil, err
	}

	action := audit.ActionComplaintUpdate
	severity := audit.SeverityMedium
	if rejected {
		action = audit.ActionComplaintReject
		severity = audit.SeverityHigh
	} else if _, ok := updates["assigned_to"]; ok {
		action = audit.ActionComplaintAssign
	}
	s.AuditService.Record(ctx, audit.Entry{
		Action:      action,
		Category:    "complaint",
		Severity:    severity,
		TargetModel: "Complaint",
		TargetID:    id,
		TargetName:  before.Title,
		Description: strings.Join(activity, "; "),
		Changes:     &audit.ChangeSet{Before: before, After: after},
	})

	return &UpdateResult{Complaint: after, Updates: updates, Activity: activity}, nil
}

func (s *ServiceImpl) AddComment(ctx context.Context, actor *common_models.Actor, id, message string) (*Complaint, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, errors.New("message is required")
	}

	c, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Ref.Kind == common_models.ActorUser && c.User.Hex() != actor.Ref.ID {
		return nil, ErrForbidden
	}

	updated, err := s.Repo.PushComment(ctx, id, s.authorComment(ctx, actor, message))
	if err != nil {
		return nil, err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionComplaintComment,
		Category:    "complaint",
		Severity:    audit.SeverityLow,
		TargetModel: "Complaint",
		TargetID:    id,
		TargetName:  c.Title,
	})
	return updated, nil
}

func (s *ServiceImpl) Vote(ctx context.Context, actor *common_models.Actor, id string) (*Complaint, error) {
	voterOID, err := primitive.ObjectIDFromHex(actor.Ref.ID)
	if err != nil {
		return nil, errors.New("invalid user id")
	}

	updated, err := s.Repo.Vote(ctx, id, voterOID)
	if err != nil {
		return nil, err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionComplaintVote,
		Category:    "complaint",
		Severity:    audit.SeverityLow,
		TargetModel: "Complaint",
		TargetID:    id,
		TargetName:  updated.Title,
	})
	return updated, nil
}

// BulkAssign assigns one staff member to many complaints in a single write.
// Complaints already in a terminal state are skipped, never reopened.
func (s *ServiceImpl) BulkAssign(ctx context.Context, actor *common_models.Actor, ids []string, staffID string) (int64, int, error) {
	if len(ids) == 0 {
		return 0, 0, errors.New("no complaint ids supplied")
	}

	staffOID, err := primitive.ObjectIDFromHex(staffID)
	if err != nil {
		return 0, 0, errors.New("invalid staff id")
	}
	member, err := s.Staff.FindByID(ctx, staffOID)
	if err != nil {
		return 0, 0, errors.New("staff member not found")
	}

	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid complaint id: %s", id)
		}
		oids = append(oids, oid)
	}

	comment := s.systemComment(ctx, actor, "[BULK ASSIGNED] Assigned to "+member.Name)
	assigned, err := s.Repo.AssignMany(ctx, oids, staffOID, true, comment)
	if err != nil {
		return 0, 0, err
	}
	skipped := len(ids) - int(assigned)

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionBulkAssign,
		Category:    "complaint",
		Severity:    audit.SeverityMedium,
		TargetModel: "Staff",
		TargetID:    staffID,
		TargetName:  member.Name,
		Description: fmt.Sprintf("Bulk assigned %d of %d complaints", assigned, len(ids)),
	})
	return assigned, skipped, nil
}

func (s *ServiceImpl) Delete(ctx context.Context, actor *common_models.Actor, id string) error {
	c, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionComplaintDelete,
		Category:    "complaint",
		Severity:    audit.SeverityHigh,
		TargetModel: "Complaint",
		TargetID:    id,
		TargetName:  c.Title,
		Changes:     &audit.ChangeSet{Before: c},
	})
	return nil
}

// authorComment builds a comment attributed to the acting account, with the
// display name snapshotted at write time.
func (s *ServiceImpl) authorComment(ctx context.Context, actor *common_models.Actor, message string) Comment {
	comment := Comment{
		AuthorRole: actor.Role,
		AuthorName: s.actorName(ctx, actor),
		Message:    message,
		CreatedAt:  time.Now(),
	}
	if oid, err := primitive.ObjectIDFromHex(actor.Ref.ID); err == nil {
		comment.AuthorID = &oid
	}
	return comment
}

// systemComment builds a bracket-tagged lifecycle comment. It still carries
// the acting account so the trail shows who triggered it.
func (s *ServiceImpl) systemComment(ctx context.Context, actor *common_models.Actor, message string) Comment {
	return s.authorComment(ctx, actor, message)
}

func (s *ServiceImpl) actorName(ctx context.Context, actor *common_models.Actor) string {
	if actor.Name != "" {
		return actor.Name
	}
	var name string
	var err error
	switch actor.Ref.Kind {
	case common_models.ActorUser:
		name, _, err = s.Users.LookupActor(ctx, actor.Ref.ID)
	case common_models.ActorStaff:
		name, _, err = s.Staff.LookupActor(ctx, actor.Ref.ID)
	default:
		return "Admin"
	}
	if err != nil || name == "" {
		return "Unknown"
	}
	return name
}

// populate resolves owner, assignee and department display names in three
// batched lookups.
func (s *ServiceImpl) populate(ctx context.Context, complaints []Complaint) ([]Populated, error) {
	userIDs := make([]primitive.ObjectID, 0, len(complaints))
	staffIDs := make([]primitive.ObjectID, 0)
	deptIDs := make([]primitive.ObjectID, 0)
	for _, c := range complaints {
		userIDs = append(userIDs, c.User)
		if c.AssignedTo != nil {
			staffIDs = append(staffIDs, *c.AssignedTo)
		}
		if c.Department != nil {
			deptIDs = append(deptIDs, *c.Department)
		}
	}

	userNames, err := s.Users.NamesByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	staffNames, err := s.Staff.NamesByIDs(ctx, staffIDs)
	if err != nil {
		return nil, err
	}
	departments, err := s.Departments.FindByIDs(ctx, deptIDs)
	if err != nil {
		return nil, err
	}

	populated := make([]Populated, 0, len(complaints))
	for _, c := range complaints {
		p := Populated{Complaint: c, UserName: userNames[c.User]}
		if c.AssignedTo != nil {
			p.AssigneeName = staffNames[*c.AssignedTo]
		}
		if c.Department != nil {
			p.DepartmentName = departments[*c.Department].Name
		}
		populated = append(populated, p)
	}
	return populated, nil
}
