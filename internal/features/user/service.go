package user

import (
	"context"
	"errors"
	"regexp"

	"resolvex/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ComplaintCounter reports how many complaints a citizen owns. Implemented by
// the complaint repository; wired in main.
type ComplaintCounter interface {
	CountByOwner(ctx context.Context, userID primitive.ObjectID) (int64, error)
}

type Service interface {
	Get(ctx context.Context, id string) (*User, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error
	List(ctx context.Context, search string, verified *bool, page, limit int64) ([]User, int64, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	Repo         Repository
	Complaints   ComplaintCounter
	AuditService audit.Service
}

func NewService(repo Repository, complaints ComplaintCounter, auditService audit.Service) Service {
	return &ServiceImpl{
		Repo:         repo,
		Complaints:   complaints,
		AuditService: auditService,
	}
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid user ID")
	}
	return s.Repo.FindByID(ctx, objID)
}

func (s *ServiceImpl) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	before, err := s.Repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	if phone, ok := updates["phone"].(string); ok && phone != "" && !phonePattern.MatchString(phone) {
		return errors.New("phone must be a 10-digit number")
	}

	allowed := map[string]bool{
		"name": true, "phone": true, "address": true, "profile_image": true,
	}
	bsonUpdates := bson.M{}
	for k, v := range updates {
		if allowed[k] {
			bsonUpdates[k] = v
		}
	}
	if len(bsonUpdates) == 0 {
		return errors.New("no updatable fields supplied")
	}

	if err := s.Repo.Update(ctx, objID, bsonUpdates); err != nil {
		return err
	}

	after, _ := s.Repo.FindByID(ctx, objID)
	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionUserUpdate,
		Category:    "account",
		Severity:    audit.SeverityLow,
		TargetModel: "User",
		TargetID:    id,
		TargetName:  before.Name,
		Changes:     &audit.ChangeSet{Before: before, After: after},
	})
	return nil
}

func (s *ServiceImpl) List(ctx context.Context, search string, verified *bool, page, limit int64) ([]User, int64, error) {
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
		}
	}
	if verified != nil {
		filter["is_verified"] = *verified
	}

	return s.Repo.List(ctx, filter, page, limit)
}

// Delete removes an account unless complaints reference it. The linked-records
// guard forces explicit complaint reassignment first.
func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid user ID")
	}

	user, err := s.Repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	linked, err := s.Complaints.CountByOwner(ctx, objID)
	if err != nil {
		return err
	}
	if linked > 0 {
		return errors.New("cannot delete user with linked complaints")
	}

	if err := s.Repo.Delete(ctx, objID); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionUserDelete,
		Category:    "account",
		Severity:    audit.SeverityHigh,
		TargetModel: "User",
		TargetID:    id,
		TargetName:  user.Name,
		Changes:     &audit.ChangeSet{Before: user},
	})
	return nil
}
