package notifications

import (
	"context"
	"time"

	"hallbook/internal/shared/config"
)

// Dispatcher hands an e-mail off for delivery.
type Dispatcher interface {
	Dispatch(ctx context.Context, email *EmailNotification) error
}

// DirectDispatcher sends synchronously, bounded by timeout.
type DirectDispatcher struct {
	sender  EmailService
	timeout time.Duration
}

func NewDirectDispatcher(sender EmailService, timeout time.Duration) *DirectDispatcher {
	return &DirectDispatcher{sender: sender, timeout: timeout}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, email *EmailNotification) error {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	email.Status = EmailStatusSending
	if err := d.sender.Send(ctx, email); err != nil {
		email.MarkFailed(err)
		return err
	}
	email.MarkSent()
	return nil
}

// NewEmailSender picks the SMTP sender when a relay is configured and the
// log-only sender otherwise.
func NewEmailSender(cfg config.EmailConfig, renderer *Renderer) (EmailService, error) {
	if !cfg.Configured() {
		return NewLogEmailService(renderer), nil
	}
	return NewSMTPEmailService(cfg, renderer)
}
