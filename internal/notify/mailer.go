// Package notify delivers confirmation codes out of band.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"reviewhub/internal/config"
)

// Mailer sends a plain-text message to one recipient. Delivery failures are
// returned, never swallowed.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// New returns the SMTP mailer when SMTP_HOST is set and the logging mailer
// otherwise.
func New(cfg *config.Config, logger *slog.Logger) Mailer {
	if cfg.SMTPHost == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(SMTPConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		UseTLS:   cfg.SMTPUseTLS,
		From:     cfg.MailFrom,
	})
}

// ConfirmationMessage renders the signup mail.
func ConfirmationMessage(username, code string) (subject, body string) {
	subject = "Your confirmation code"
	body = fmt.Sprintf("Hello %s,\n\nYour confirmation code is %s\n\nExchange it for an access token at /api/v1/auth/token.\n", username, code)
	return subject, body
}

// LogMailer writes messages to the log instead of sending them. It is meant
// for development.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "mail not sent, SMTP disabled", "to", to, "subject", subject, "body", body)
	return nil
}
