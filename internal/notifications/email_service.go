package notifications

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"hallbook/internal/shared/config"
	"hallbook/pkg/logger"
)

// EmailService delivers a single e-mail.
type EmailService interface {
	Send(ctx context.Context, email *EmailNotification) error
}

// SMTPEmailService sends mail through an SMTP relay using STARTTLS.
type SMTPEmailService struct {
	config   config.EmailConfig
	renderer *Renderer
}

func NewSMTPEmailService(cfg config.EmailConfig, renderer *Renderer) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, err
	}
	return &SMTPEmailService{config: cfg, renderer: renderer}, nil
}

func validateSMTPConfig(cfg config.EmailConfig) error {
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (s *SMTPEmailService) Send(ctx context.Context, email *EmailNotification) error {
	htmlBody, textBody, err := s.renderer.Render(email)
	if err != nil {
		return fmt.Errorf("failed to render email: %w", err)
	}

	message := s.buildMessage(email.RecipientEmail, email.Subject, htmlBody, textBody)
	if err := s.deliver(ctx, email.RecipientEmail, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.GetDefault().InfoWithContext(ctx, "Email sent", map[string]interface{}{
		"email_id": email.ID.String(),
		"type":     string(email.Type),
		"to":       email.RecipientEmail,
	})
	return nil
}

func (s *SMTPEmailService) deliver(ctx context.Context, to string, message []byte) error {
	addr := net.JoinHostPort(s.config.SMTPHost, strconv.Itoa(s.config.SMTPPort))

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		conn.SetDeadline(deadline)
	}

	client, err := smtp.NewClient(conn, s.config.SMTPHost)
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to start SMTP session: %w", err)
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err = client.StartTLS(&tls.Config{ServerName: s.config.SMTPHost}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}

	if s.config.SMTPUsername != "" {
		auth := smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err = w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// buildMessage creates a multipart/alternative message with a fixed header order.
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(textBody + "\r\n")
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\n", boundary)
		b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
		b.WriteString(htmlBody + "\r\n")
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// LogEmailService only logs; used when no SMTP relay is configured.
type LogEmailService struct {
	renderer *Renderer
}

func NewLogEmailService(renderer *Renderer) *LogEmailService {
	return &LogEmailService{renderer: renderer}
}

func (s *LogEmailService) Send(ctx context.Context, email *EmailNotification) error {
	if s.renderer != nil {
		if _, _, err := s.renderer.Render(email); err != nil {
			return err
		}
	}
	logger.GetDefault().InfoWithContext(ctx, "Email not sent: SMTP not configured", map[string]interface{}{
		"email_id": email.ID.String(),
		"type":     string(email.Type),
		"to":       email.RecipientEmail,
		"subject":  email.Subject,
	})
	return nil
}
