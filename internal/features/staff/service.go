package staff

import (
	"context"
	"errors"
	"math"

	"resolvex/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AssignmentCounter exposes the complaint-side numbers the stats endpoint
// needs. Implemented by the complaint repository; wired in main.
type AssignmentCounter interface {
	CountByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error)
	CountResolvedByAssignee(ctx context.Context, staffID primitive.ObjectID) (int64, error)
	AvgResolutionDays(ctx context.Context, staffID primitive.ObjectID) (float64, error)
}

type Service interface {
	Get(ctx context.Context, id string) (*Staff, error)
	List(ctx context.Context, search, departmentID string, activeOnly bool, page, limit int64) ([]Staff, int64, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
	GetStats(ctx context.Context, id string) (*Stats, error)
}

type ServiceImpl struct {
	Repo         Repository
	Assignments  AssignmentCounter
	AuditService audit.Service
}

func NewService(repo Repository, assignments AssignmentCounter, auditService audit.Service) Service {
	return &ServiceImpl{
		Repo:         repo,
		Assignments:  assignments,
		AuditService: auditService,
	}
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*Staff, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid staff ID")
	}
	return s.Repo.FindByID(ctx, objID)
}

func (s *ServiceImpl) List(ctx context.Context, search, departmentID string, activeOnly bool, page, limit int64) ([]Staff, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := bson.M{}
	if search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": search, "$options": "i"}},
			{"email": bson.M{"$regex": search, "$options": "i"}},
			{"staff_id": bson.M{"$regex": search, "$options": "i"}},
		}
	}
	if departmentID != "" {
		if objID, err := primitive.ObjectIDFromHex(departmentID); err == nil {
			filter["department"] = objID
		}
	}
	if activeOnly {
		filter["is_active"] = true
	}

	return s.Repo.List(ctx, filter, page, limit)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid staff ID")
	}

	before, err := s.Repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	allowed := map[string]bool{
		"name": true, "phone": true, "profile_image": true, "is_active": true,
	}
	bsonUpdates := bson.M{}
	for k, v := range updates {
		if allowed[k] {
			bsonUpdates[k] = v
		}
	}
	if dept, ok := updates["department"].(string); ok {
		deptID, err := primitive.ObjectIDFromHex(dept)
		if err != nil {
			return errors.New("invalid department ID")
		}
		bsonUpdates["department"] = deptID
	}
	if len(bsonUpdates) == 0 {
		return errors.New("no updatable fields supplied")
	}

	if err := s.Repo.Update(ctx, objID, bsonUpdates); err != nil {
		return err
	}

	after, _ := s.Repo.FindByID(ctx, objID)
	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionStaffUpdate,
		Category:    "account",
		Severity:    audit.SeverityMedium,
		TargetModel: "Staff",
		TargetID:    id,
		TargetName:  before.Name,
		Changes:     &audit.ChangeSet{Before: before, After: after},
	})
	return nil
}

// Delete removes a staff account unless complaints are still assigned to it.
func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid staff ID")
	}

	member, err := s.Repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	linked, err := s.Assignments.CountByAssignee(ctx, objID)
	if err != nil {
		return err
	}
	if linked > 0 {
		return errors.New("cannot delete staff member with assigned complaints")
	}

	if err := s.Repo.Delete(ctx, objID); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionStaffDelete,
		Category:    "account",
		Severity:    audit.SeverityHigh,
		TargetModel: "Staff",
		TargetID:    id,
		TargetName:  member.Name,
		Changes:     &audit.ChangeSet{Before: member},
	})
	return nil
}

func (s *ServiceImpl) GetStats(ctx context.Context, id string) (*Stats, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid staff ID")
	}
	if _, err := s.Repo.FindByID(ctx, objID); err != nil {
		return nil, err
	}

	assigned, err := s.Assignments.CountByAssignee(ctx, objID)
	if err != nil {
		return nil, err
	}
	resolved, err := s.Assignments.CountResolvedByAssignee(ctx, objID)
	if err != nil {
		return nil, err
	}
	avgDays, err := s.Assignments.AvgResolutionDays(ctx, objID)
	if err != nil {
		return nil, err
	}

	return &Stats{
		Assigned:          assigned,
		Resolved:          resolved,
		ResolutionRate:    ResolutionRate(resolved, assigned),
		AvgResolutionDays: math.Round(avgDays*10) / 10,
	}, nil
}

// ResolutionRate is resolved/total as a whole percent; 0 when nothing is
// assigned.
func ResolutionRate(resolved, total int64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(resolved) / float64(total) * 100))
}
