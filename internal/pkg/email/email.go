package email

import (
	"context"
	"fmt"
	"net/smtp"

	"github.com/devansh/fms/internal/config"
	"github.com/devansh/fms/internal/pkg/logger"
)

// Service sends account lifecycle notifications
type Service interface {
	SendApprovalNotification(ctx context.Context, to, name string) error
	SendRejectionNotification(ctx context.Context, to, name string) error
}

// SMTPService sends mail through a plain SMTP relay. Synthetic portal
// addresses are not routable, so callers only pass real teacher/admin
// addresses here.
type SMTPService struct {
	cfg *config.SMTPConfig
}

// NewSMTPService creates a new SMTP-backed email service
func NewSMTPService(cfg *config.SMTPConfig) *SMTPService {
	return &SMTPService{cfg: cfg}
}

func (s *SMTPService) send(to, subject, body string) error {
	if !s.cfg.Enabled {
		logger.Info().Str("to", to).Str("subject", subject).Msg("Email disabled, skipping send")
		return nil
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		s.cfg.From, to, subject, body)

	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)
	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}

	if err := smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// SendApprovalNotification tells an account holder their account is live
func (s *SMTPService) SendApprovalNotification(_ context.Context, to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour account has been approved. You can now sign in to the feedback portal.\n", name)
	return s.send(to, "Account approved", body)
}

// SendRejectionNotification tells an applicant their registration was declined
func (s *SMTPService) SendRejectionNotification(_ context.Context, to, name string) error {
	body := fmt.Sprintf("Hello %s,\n\nYour registration request was declined. Contact your department office for details.\n", name)
	return s.send(to, "Registration declined", body)
}
