package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/jordan-wright/email"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	UseTLS   bool
	From     string
}

type SMTPMailer struct {
	cfg SMTPConfig
	// send is swapped in tests
	send func(e *email.Email) error
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	m := &SMTPMailer{cfg: cfg}
	m.send = m.deliver
	return m
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = m.cfg.From
	e.To = []string{to}
	e.Subject = subject
	e.Text = []byte(body)

	if err := m.send(e); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// deliver picks the transport from the port: 465 is implicit TLS, 587 is
// STARTTLS, anything else is plain SMTP.
func (m *SMTPMailer) deliver(e *email.Email) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	if !m.cfg.UseTLS {
		return e.Send(addr, auth)
	}

	tlsConfig := &tls.Config{
		ServerName: m.cfg.Host,
		MinVersion: tls.VersionTLS12,
	}
	switch m.cfg.Port {
	case 465:
		return e.SendWithTLS(addr, auth, tlsConfig)
	default:
		return e.SendWithStartTLS(addr, auth, tlsConfig)
	}
}
