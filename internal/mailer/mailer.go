// Package mailer delivers transactional email over SMTP. Every send is
// best-effort from the caller's point of view: handlers log failures and keep
// going, except the admin respond flows which surface delivery errors.
package mailer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

// Message is a single outbound email. FromName selects the display name shown
// to the recipient; the envelope address always comes from server config.
type Message struct {
	FromName string
	To       string
	Subject  string
	HTML     string
}

// Notifier sends email. Ready reports whether the underlying transport is
// configured; callers that must deliver (admin responses) check it and return
// 503 when it is false.
type Notifier interface {
	Send(ctx context.Context, m Message) error
	Ready() bool
}

// SMTP delivers mail through a single SMTP account.
type SMTP struct {
	client *mail.Client
	from   string
	logger *slog.Logger
}

// Config carries the SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
}

// NewSMTP builds an SMTP notifier. Port 465 uses implicit TLS; everything
// else negotiates STARTTLS opportunistically.
func NewSMTP(cfg Config, logger *slog.Logger) (*SMTP, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}

	return &SMTP{client: client, from: cfg.Username, logger: logger}, nil
}

func (s *SMTP) Ready() bool { return true }

func (s *SMTP) Send(ctx context.Context, m Message) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.FromName, s.from); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextHTML, m.HTML)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", m.To, err)
	}
	s.logger.Info("email sent", "to", m.To, "subject", m.Subject)
	return nil
}

// Disabled stands in when SMTP settings are missing. It fails every send so
// callers follow their degraded paths instead of silently dropping mail.
type Disabled struct{}

func (Disabled) Ready() bool { return false }

func (Disabled) Send(ctx context.Context, m Message) error {
	return fmt.Errorf("email service is not configured")
}
