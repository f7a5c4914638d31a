// Package mailer wraps the SMTP transport behind a small interface so the
// intake service can be tested without a mail server.
package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/invenzia/disclosure-api/config"
	"github.com/invenzia/disclosure-api/internal/models"
)

// ErrNotConfigured marks a transport construction failure caused by
// missing SMTP settings. The handler maps it to a server error.
var ErrNotConfigured = errors.New("smtp transport not configured")

// Message is the composed outbound email for one submission.
type Message struct {
	From        string
	To          string
	ReplyTo     string
	Subject     string
	Body        string
	Attachments []models.Attachment
}

// Sender delivers a composed message.
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// SMTPSender sends messages through the configured SMTP server. The client
// is built per request so configuration problems surface as request
// failures rather than startup failures.
type SMTPSender struct {
	cfg config.MailConfig
}

func NewSMTPSender(cfg config.MailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

var _ Sender = (*SMTPSender)(nil)

func (s *SMTPSender) Send(ctx context.Context, m *Message) error {
	client, err := s.newClient()
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(m.From); err != nil {
		return fmt.Errorf("%w: invalid sender address %q", ErrNotConfigured, m.From)
	}
	if err := msg.To(m.To); err != nil {
		return fmt.Errorf("%w: invalid recipient address %q", ErrNotConfigured, m.To)
	}
	if m.ReplyTo != "" {
		if err := msg.ReplyTo(m.ReplyTo); err != nil {
			return fmt.Errorf("set reply-to: %w", err)
		}
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Body)

	for _, att := range m.Attachments {
		if err := msg.AttachReader(att.Filename, bytes.NewReader(att.Data),
			mail.WithFileContentType(mail.ContentType(att.ContentType))); err != nil {
			return fmt.Errorf("attach %s: %w", att.Filename, err)
		}
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *SMTPSender) newClient() (*mail.Client, error) {
	if s.cfg.Host == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return nil, ErrNotConfigured
	}

	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.Username),
		mail.WithPassword(s.cfg.Password),
	}
	if s.cfg.Secure {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSOpportunistic))
	}

	client, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}
	return client, nil
}
