package email

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"resolvex/internal/config"
)

type Service interface {
	Send(ctx context.Context, to []string, subject, body, purpose string) error
}

type ServiceImpl struct {
	Config *config.Config
	Repo   *Repository
	Logger *zap.Logger
}

func NewService(cfg *config.Config, repo *Repository, logger *zap.Logger) Service {
	return &ServiceImpl{Config: cfg, Repo: repo, Logger: logger}
}

// Send delivers a plain-text email over SMTP and records the attempt in the
// emails collection.
func (s *ServiceImpl) Send(ctx context.Context, to []string, subject, body, purpose string) error {
	if len(to) == 0 {
		return errors.New("no recipients")
	}
	if s.Config.SMTPHost == "" || s.Config.SMTPPort == 0 {
		return errors.New("smtp is not configured")
	}

	from := s.Config.SMTPFrom
	if from == "" {
		from = s.Config.SMTPUser
	}

	record := &Message{
		ID:      primitive.NewObjectID(),
		From:    from,
		To:      to,
		Subject: subject,
		Body:    body,
		Purpose: purpose,
		Status:  StatusQueued,
	}
	if s.Repo != nil {
		if err := s.Repo.Create(ctx, record); err != nil {
			s.Logger.Warn("email log write failed", zap.Error(err))
		}
	}

	addr := fmt.Sprintf("%s:%d", s.Config.SMTPHost, s.Config.SMTPPort)
	var auth smtp.Auth
	if s.Config.SMTPUser != "" {
		auth = smtp.PlainAuth("", s.Config.SMTPUser, s.Config.SMTPPass, s.Config.SMTPHost)
	}

	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		from, to[0], subject, body))

	err := smtp.SendMail(addr, auth, from, to, msg)

	status := StatusSent
	errMsg := ""
	if err != nil {
		status = StatusFailed
		errMsg = err.Error()
	}
	if s.Repo != nil {
		_ = s.Repo.UpdateStatus(ctx, record.ID, status, errMsg)
	}

	if err != nil {
		s.Logger.Error("email delivery failed", zap.Strings("to", to), zap.Error(err))
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
