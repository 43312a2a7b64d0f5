// Package mail sends pre-alert messages over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/fms/backend/internal/infrastructure/config"
)

// ErrNotConfigured is returned when no SMTP host is set
var ErrNotConfigured = errors.New("mail transport is not configured")

// Message is one outgoing mail
type Message struct {
	From    string
	To      []string
	Cc      []string
	Bcc     []string
	Subject string
	Body    string
}

// Sender delivers messages
type Sender interface {
	Send(ctx context.Context, msg Message) error
	Configured() bool
}

// SMTPMailer sends through a gomail dialer. The dialer opens one
// connection per message.
type SMTPMailer struct {
	from    string
	timeout time.Duration
	send    func(msgs ...*gomail.Message) error
	logger  *zap.Logger
}

var _ Sender = (*SMTPMailer)(nil)

// NewSMTPMailer creates a mailer from the mail configuration. A mailer with
// no host reports Configured() == false and refuses to send.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	m := &SMTPMailer{
		from:    cfg.From,
		timeout: cfg.Timeout,
		logger:  logger.Named("mail"),
	}
	if cfg.Configured() {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		m.send = d.DialAndSend
	}
	return m
}

// NewMailerWithSender routes messages to s, typically a gomail.SendFunc
func NewMailerWithSender(from string, s gomail.Sender, logger *zap.Logger) *SMTPMailer {
	return &SMTPMailer{
		from:   from,
		send:   func(msgs ...*gomail.Message) error { return gomail.Send(s, msgs...) },
		logger: logger.Named("mail"),
	}
}

// Configured reports whether the mailer can send
func (m *SMTPMailer) Configured() bool {
	return m.send != nil
}

// DefaultFrom is the configured sender address
func (m *SMTPMailer) DefaultFrom() string {
	return m.from
}

// Send delivers msg. The SMTP exchange is abandoned when ctx is done or the
// configured timeout passes; gomail itself has no deadline support.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	if len(msg.To) == 0 {
		return fmt.Errorf("mail has no recipients")
	}

	gm := gomail.NewMessage()
	from := msg.From
	if from == "" {
		from = m.from
	}
	gm.SetHeader("From", from)
	gm.SetHeader("To", msg.To...)
	if len(msg.Cc) > 0 {
		gm.SetHeader("Cc", msg.Cc...)
	}
	if len(msg.Bcc) > 0 {
		gm.SetHeader("Bcc", msg.Bcc...)
	}
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody(contentType(msg.Body), msg.Body)

	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	done := make(chan error, 1)
	go func() { done <- m.send(gm) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send mail: %w", err)
		}
		m.logger.Debug("mail sent", zap.Strings("to", msg.To), zap.String("subject", msg.Subject))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send mail: %w", ctx.Err())
	}
}

func contentType(body string) string {
	if strings.Contains(body, "</") || strings.Contains(body, "<br") {
		return "text/html"
	}
	return "text/plain"
}

// SplitAddresses splits a comma or semicolon separated address list
func SplitAddresses(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
