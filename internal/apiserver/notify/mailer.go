package notify

import (
	"context"

	"github.com/sanigest/sanigest/internal/common/config"
	"go.uber.org/zap"
)

// Mailer delivers the identity-proof emails of the auth flows. The provider
// behind it is an external collaborator; implementations only format and
// hand off.
type Mailer interface {
	SendVerification(ctx context.Context, to, name, link string) error
	SendPasswordReset(ctx context.Context, to, name, link string) error
}

// NewMailer returns the SMTP mailer when a host is configured, otherwise a
// logging mailer so development setups work without a provider.
func NewMailer(cfg *config.SMTPConfig, logger *zap.Logger) Mailer {
	if cfg.Host == "" {
		return NewLogMailer(logger)
	}
	return NewSMTPMailer(cfg)
}
