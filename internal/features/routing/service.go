package routing

import (
	"context"
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"resolvex/internal/features/audit"
	"resolvex/internal/features/complaint"
	"resolvex/internal/features/department"
)

type Service interface {
	Create(ctx context.Context, rule *Rule) error
	Get(ctx context.Context, id string) (*Rule, error)
	List(ctx context.Context) ([]Rule, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) error
	Delete(ctx context.Context, id string) error

	// Route implements complaint.Router.
	Route(ctx context.Context, c *complaint.Complaint) (*complaint.RouteDecision, error)
}

type ServiceImpl struct {
	Repo         Repository
	Departments  department.Repository
	AuditService audit.Service
	Logger       *zap.Logger
}

func NewService(repo Repository, departments department.Repository, auditService audit.Service,
	logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:         repo,
		Departments:  departments,
		AuditService: auditService,
		Logger:       logger,
	}
}

// evaluate compiles and runs one rule script against a complaint. The script
// must assign a boolean to `match`.
func evaluate(rule *Rule, c *complaint.Complaint) (bool, error) {
	script := tengo.NewScript([]byte(rule.Script))
	script.SetImports(stdlib.GetModuleMap("text", "math", "times"))

	_ = script.Add("category", string(c.Category))
	_ = script.Add("priority", string(c.Priority))
	_ = script.Add("title", c.Title)
	_ = script.Add("address", c.Location.Address)
	_ = script.Add("match", false)

	compiled, err := script.Compile()
	if err != nil {
		return false, fmt.Errorf("failed to compile rule %q: %w", rule.Name, err)
	}
	if err := compiled.Run(); err != nil {
		return false, fmt.Errorf("failed to run rule %q: %w", rule.Name, err)
	}
	return compiled.Get("match").Bool(), nil
}

// validateScript compiles the script against a representative complaint so a
// broken rule is rejected at save time, not at submission time.
func validateScript(rule *Rule) error {
	_, err := evaluate(rule, &complaint.Complaint{
		Title:    "sample",
		Category: complaint.CategoryOther,
		Priority: complaint.PriorityMedium,
		Location: complaint.Location{Address: "sample"},
	})
	return err
}

func (s *ServiceImpl) Create(ctx context.Context, rule *Rule) error {
	if rule.Name == "" {
		return errors.New("rule name is required")
	}
	if rule.Script == "" {
		return errors.New("rule script is required")
	}
	if rule.Priority != "" && !complaint.ValidPriority(rule.Priority) {
		return errors.New("invalid priority")
	}
	if rule.Department == nil && rule.Priority == "" {
		return errors.New("rule must set a department or a priority")
	}
	if rule.Department != nil {
		if _, err := s.Departments.FindByID(ctx, *rule.Department); err != nil {
			return errors.New("department not found")
		}
	}
	if err := validateScript(rule); err != nil {
		return err
	}

	if err := s.Repo.Create(ctx, rule); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionRoutingRuleChange,
		Category:    "routing",
		Severity:    audit.SeverityMedium,
		TargetModel: "RoutingRule",
		TargetID:    rule.ID.Hex(),
		TargetName:  rule.Name,
		Changes:     &audit.ChangeSet{After: rule},
	})
	return nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (*Rule, error) {
	return s.Repo.FindByID(ctx, id)
}

func (s *ServiceImpl) List(ctx context.Context) ([]Rule, error) {
	return s.Repo.List(ctx)
}

func (s *ServiceImpl) Update(ctx context.Context, id string, updates map[string]interface{}) error {
	before, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	allowed := map[string]bool{
		"name": true, "script": true, "department": true,
		"priority": true, "order": true, "is_active": true,
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

	if script, ok := bsonUpdates["script"].(string); ok {
		probe := *before
		probe.Script = script
		if err := validateScript(&probe); err != nil {
			return err
		}
	}
	if priority, ok := bsonUpdates["priority"].(string); ok && priority != "" &&
		!complaint.ValidPriority(complaint.Priority(priority)) {
		return errors.New("invalid priority")
	}

	if err := s.Repo.Update(ctx, id, bsonUpdates); err != nil {
		return err
	}

	after, _ := s.Repo.FindByID(ctx, id)
	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionRoutingRuleChange,
		Category:    "routing",
		Severity:    audit.SeverityMedium,
		TargetModel: "RoutingRule",
		TargetID:    id,
		TargetName:  before.Name,
		Changes:     &audit.ChangeSet{Before: before, After: after},
	})
	return nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	rule, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionRoutingRuleChange,
		Category:    "routing",
		Severity:    audit.SeverityMedium,
		TargetModel: "RoutingRule",
		TargetID:    id,
		TargetName:  rule.Name,
		Changes:     &audit.ChangeSet{Before: rule},
	})
	return nil
}

// Route runs the active rules in order and returns the first match. A rule
// that fails to run is skipped so one bad script cannot stall intake.
func (s *ServiceImpl) Route(ctx context.Context, c *complaint.Complaint) (*complaint.RouteDecision, error) {
	rules, err := s.Repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	for i := range rules {
		rule := &rules[i]
		matched, err := evaluate(rule, c)
		if err != nil {
			s.Logger.Warn("routing rule skipped", zap.String("rule", rule.Name), zap.Error(err))
			continue
		}
		if !matched {
			continue
		}

		decision := &complaint.RouteDecision{}
		if rule.Department != nil {
			dept := *rule.Department
			decision.Department = &dept
		}
		if rule.Priority != "" {
			decision.Priority = rule.Priority
		}
		return decision, nil
	}
	return nil, nil
}
