package complaint

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"resolvex/internal/connectors"
	"resolvex/internal/features/user"
	"resolvex/pkg/utils"
)

// legacyStatuses translates the retired system's status vocabulary.
var legacyStatuses = map[string]Status{
	"open":     StatusPending,
	"new":      StatusPending,
	"wip":      StatusInProgress,
	"working":  StatusInProgress,
	"done":     StatusResolved,
	"fixed":    StatusResolved,
	"invalid":  StatusRejected,
	"rejected": StatusRejected,
	"archived": StatusClosed,
	"closed":   StatusClosed,
}

// legacyCategories translates the retired system's category vocabulary.
// Anything unknown lands in "other".
var legacyCategories = map[string]Category{
	"roads":       CategoryRoad,
	"road":        CategoryRoad,
	"garbage":     CategorySanitation,
	"sanitation":  CategorySanitation,
	"water":       CategoryWater,
	"sewage":      CategoryWater,
	"power":       CategoryElectricity,
	"electricity": CategoryElectricity,
	"streetlight": CategoryElectricity,
	"safety":      CategorySecurity,
	"police":      CategorySecurity,
	"transport":   CategoryTransport,
	"bus":         CategoryTransport,
}

// ImportStats summarises one legacy import run.
type ImportStats struct {
	Seen         int
	Inserted     int
	Skipped      int
	UsersCreated int
}

// Importer migrates complaints out of the retired municipal system. Rows are
// keyed by legacy id so the import is safe to re-run.
type Importer struct {
	Repo   Repository
	Users  user.Repository
	Logger *zap.Logger
}

func NewImporter(repo Repository, users user.Repository, logger *zap.Logger) *Importer {
	return &Importer{Repo: repo, Users: users, Logger: logger}
}

// Run streams the legacy table and upserts each row.
func (im *Importer) Run(ctx context.Context, conn *connectors.LegacyConnector) (*ImportStats, error) {
	stats := &ImportStats{}
	owners := make(map[string]user.User)

	err := conn.StreamComplaints(ctx, func(row *connectors.LegacyComplaint) error {
		stats.Seen++

		owner, err := im.resolveOwner(ctx, row, owners, stats)
		if err != nil {
			return err
		}

		c := &Complaint{
			User:        owner.ID,
			Title:       strings.TrimSpace(row.Title),
			Description: strings.TrimSpace(row.Description),
			Category:    translateCategory(row.Category),
			Status:      translateStatus(row.Status),
			Priority:    PriorityMedium,
			Location:    Location{Address: row.Address},
			LegacyID:    row.LegacyID,
			CreatedAt:   row.CreatedAt,
		}
		if c.Title == "" {
			c.Title = fmt.Sprintf("Legacy complaint #%d", row.LegacyID)
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = time.Now()
		}

		inserted, err := im.Repo.UpsertByLegacyID(ctx, c)
		if err != nil {
			return fmt.Errorf("failed to import legacy complaint %d: %w", row.LegacyID, err)
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Skipped++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}
	return stats, nil
}

// resolveOwner finds the citizen account for a legacy row, creating an
// unverified stub when the email is unknown.
func (im *Importer) resolveOwner(ctx context.Context, row *connectors.LegacyComplaint,
	cache map[string]user.User, stats *ImportStats) (*user.User, error) {
	email := strings.ToLower(strings.TrimSpace(row.CitizenEmail))
	if email == "" {
		email = fmt.Sprintf("legacy-%d@import.invalid", row.LegacyID)
	}

	if cached, ok := cache[email]; ok {
		return &cached, nil
	}

	existing, err := im.Users.FindByEmail(ctx, email)
	if err == nil {
		cache[email] = *existing
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// Stub accounts get a random password; the citizen signs in by resetting
	// it through the OTP flow.
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(hex.EncodeToString(raw))
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(row.CitizenName)
	if name == "" {
		name = "Legacy citizen"
	}
	account := &user.User{
		Name:       name,
		Email:      email,
		Password:   hash,
		Role:       "user",
		IsVerified: false,
	}
	if err := im.Users.Create(ctx, account); err != nil {
		return nil, err
	}
	stats.UsersCreated++
	im.Logger.Info("created stub account for legacy citizen", zap.String("email", email))

	cache[email] = *account
	return account, nil
}

func translateStatus(v string) Status {
	if status, ok := legacyStatuses[strings.ToLower(strings.TrimSpace(v))]; ok {
		return status
	}
	return StatusPending
}

func translateCategory(v string) Category {
	key := strings.ToLower(strings.TrimSpace(v))
	if category, ok := legacyCategories[key]; ok {
		return category
	}
	if ValidCategory(Category(key)) {
		return Category(key)
	}
	return CategoryOther
}
