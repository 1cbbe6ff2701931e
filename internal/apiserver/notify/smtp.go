package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/sanigest/sanigest/internal/common/config"
)

// SMTPMailer delivers mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg *config.SMTPConfig
}

var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates a new SMTP mailer
func NewSMTPMailer(cfg *config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendVerification sends the email verification link
func (m *SMTPMailer) SendVerification(ctx context.Context, to, name, link string) error {
	subject := "Verify your email address"
	body := fmt.Sprintf("Hello %s,\r\n\r\nPlease verify your email address by opening the link below within 24 hours:\r\n\r\n%s\r\n", name, link)
	return m.send(to, subject, body)
}

// SendPasswordReset sends the password reset link
func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	subject := "Reset your password"
	body := fmt.Sprintf("Hello %s,\r\n\r\nA password reset was requested for your account. The link below is valid for 1 hour:\r\n\r\n%s\r\n\r\nIf you did not request this, you can ignore this message.\r\n", name, link)
	return m.send(to, subject, body)
}

func (m *SMTPMailer) send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	msg := strings.Join([]string{
		"From: " + m.cfg.From,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, []byte(msg))
}
