package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"resolvex/internal/config"
	"resolvex/internal/features/audit"
	"resolvex/internal/features/email"
	"resolvex/pkg/utils"
)

var (
	// ErrInvalidCode covers a wrong code with budget remaining.
	ErrInvalidCode = errors.New("invalid verification code")
	// ErrExpired covers a missing or timed-out code.
	ErrExpired = errors.New("verification code expired or not found")
	// ErrExhausted is returned once the attempt budget is spent. The code is
	// deleted and a fresh one must be requested.
	ErrExhausted = errors.New("too many attempts, request a new code")
)

type Service interface {
	Request(ctx context.Context, identifier string, purpose Purpose) error
	Verify(ctx context.Context, identifier string, purpose Purpose, code string) error
}

type ServiceImpl struct {
	Repo         Repository
	Email        email.Service
	AuditService audit.Service
	Config       *config.Config
	Logger       *zap.Logger
}

func NewService(repo Repository, emailService email.Service, auditService audit.Service,
	cfg *config.Config, logger *zap.Logger) Service {
	return &ServiceImpl{
		Repo:         repo,
		Email:        emailService,
		AuditService: auditService,
		Config:       cfg,
		Logger:       logger,
	}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// Request issues a six-digit code, stores its hash and emails the plaintext.
// A repeat request replaces the outstanding code.
func (s *ServiceImpl) Request(ctx context.Context, identifier string, purpose Purpose) error {
	if identifier == "" {
		return errors.New("email is required")
	}
	if !ValidPurpose(purpose) {
		return errors.New("invalid otp purpose")
	}

	plain, err := generateCode()
	if err != nil {
		return err
	}
	hash, err := utils.HashPassword(plain)
	if err != nil {
		return err
	}

	if err := s.Repo.Upsert(ctx, &Code{
		Identifier: identifier,
		Purpose:    purpose,
		CodeHash:   hash,
		ExpiresAt:  time.Now().Add(s.Config.OTPTTL),
	}); err != nil {
		return err
	}

	subject := "Your ResolveX verification code"
	body := fmt.Sprintf("Your verification code is %s. It expires in %d minutes.",
		plain, int(s.Config.OTPTTL.Minutes()))
	if err := s.Email.Send(ctx, []string{identifier}, subject, body, "otp"); err != nil {
		return err
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionOTPRequest,
		Category:    "auth",
		Severity:    audit.SeverityLow,
		TargetModel: "OTP",
		TargetID:    identifier,
		Description: string(purpose),
	})
	return nil
}

// Verify checks the code against the stored hash. Success consumes the code;
// the fifth failure deletes it.
func (s *ServiceImpl) Verify(ctx context.Context, identifier string, purpose Purpose, code string) error {
	stored, err := s.Repo.Find(ctx, identifier, purpose)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrExpired
		}
		return err
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.Repo.Delete(ctx, identifier, purpose)
		return ErrExpired
	}
	if stored.Attempts >= MaxAttempts {
		_ = s.Repo.Delete(ctx, identifier, purpose)
		return ErrExhausted
	}

	if utils.CheckPassword(stored.CodeHash, code) {
		return s.Repo.Delete(ctx, identifier, purpose)
	}

	attempts, err := s.Repo.IncrementAttempts(ctx, identifier, purpose)
	if err != nil {
		return err
	}
	if attempts >= MaxAttempts {
		_ = s.Repo.Delete(ctx, identifier, purpose)
		s.AuditService.Record(ctx, audit.Entry{
			Action:      audit.ActionOTPAttemptsExhaust,
			Category:    "auth",
			Severity:    audit.SeverityHigh,
			Status:      audit.StatusWarning,
			TargetModel: "OTP",
			TargetID:    identifier,
		})
		return ErrExhausted
	}

	s.AuditService.Record(ctx, audit.Entry{
		Action:      audit.ActionOTPVerifyFailure,
		Category:    "auth",
		Severity:    audit.SeverityMedium,
		Status:      audit.StatusFailure,
		TargetModel: "OTP",
		TargetID:    identifier,
	})
	return ErrInvalidCode
}
