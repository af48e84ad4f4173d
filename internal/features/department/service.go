package department

import (
	"context"
	"errors"

	"resolvex/internal/features/audit"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Service interface {
	Create(ctx context.Context, dept *Department) error
	Get(ctx context.Context, id string) (*Department, error)
	List(ctx context.Context, onlyActive bool) ([]Department, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	Repo         Repository
	AuditService audit.Service
}

func NewService(repo Repository, auditService audit.Service) Service {
	return &ServiceImpl{
		Repo:         repo,
		AuditService: auditService,
	}
}

func (s *ServiceImpl) Create(ctx context.Context, dept *Department) error {
	if dept.Name == "" {
		return errors.New("department name is required")
	}
	if !ValidCategory(dept.Category) {
		return errors.New("invalid department category")
	}
	dept.IsActive = true

	if _, err := s.Repo.FindByName(ctx, dept.Name); err == nil {
		return errors.New("department already exists")
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	if err := s.Repo.Create(ctx, dept); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionDepartmentCreate,
		Category:    "department",
		Severity:    audit.SeverityMedium,
		TargetModel: "Department",
		TargetID:    dept.ID.Hex(),
		TargetName:  dept.Name,
		Changes:     &audit.ChangeSet{After: dept},
	})
	return nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*Department, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errors.New("invalid department ID")
	}
	return s.Repo.FindByID(ctx, objID)
}

func (s *ServiceImpl) List(ctx context.Context, onlyActive bool) ([]Department, error) {
	return s.Repo.List(ctx, onlyActive)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid department ID")
	}

	before, err := s.Repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	if cat, ok := updates["category"].(string); ok && !ValidCategory(Category(cat)) {
		return errors.New("invalid department category")
	}

	allowed := map[string]bool{
		"name": true, "category": true, "description": true,
		"contact_email": true, "contact_phone": true, "head": true, "is_active": true,
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
		Action:      audit.ActionDepartmentUpdate,
		Category:    "department",
		Severity:    audit.SeverityMedium,
		TargetModel: "Department",
		TargetID:    id,
		TargetName:  before.Name,
		Changes:     &audit.ChangeSet{Before: before, After: after},
	})
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return errors.New("invalid department ID")
	}

	dept, err := s.Repo.FindByID(ctx, objID)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(ctx, objID); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionDepartmentDelete,
		Category:    "department",
		Severity:    audit.SeverityHigh,
		TargetModel: "Department",
		TargetID:    id,
		TargetName:  dept.Name,
		Changes:     &audit.ChangeSet{Before: dept},
	})
	return nil
}
