package notify

import (
	"context"

	"go.uber.org/zap"
)

// LogMailer writes mails to the log instead of delivering them. Used when no
// SMTP host is configured.
type LogMailer struct {
	logger *zap.Logger
}

var _ Mailer = (*LogMailer)(nil)

// NewLogMailer creates a new logging mailer
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger.Named("mailer")}
}

// SendVerification logs the verification link
func (m *LogMailer) SendVerification(ctx context.Context, to, name, link string) error {
	m.logger.Info("verification mail",
		zap.String("to", to),
		zap.String("link", link))
	return nil
}

// SendPasswordReset logs the reset link
func (m *LogMailer) SendPasswordReset(ctx context.Context, to, name, link string) error {
	m.logger.Info("password reset mail",
		zap.String("to", to),
		zap.String("link", link))
	return nil
}
