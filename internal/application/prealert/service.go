// Package prealert sends pre-alert mails to overseas agents and records
// every attempt in the pre-alert mail log.
package prealert

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/fms/backend/internal/application/gateway"
	"github.com/fms/backend/internal/domain/freight"
	"github.com/fms/backend/internal/domain/resource"
	"github.com/fms/backend/internal/domain/shared"
	"github.com/fms/backend/internal/infrastructure/logger"
	"github.com/fms/backend/internal/infrastructure/mail"
	"github.com/fms/backend/internal/infrastructure/telemetry"
)

// SendRequest is the body of a pre-alert send
type SendRequest struct {
	SettingID   int64  `json:"settingId"`
	DocType     string `json:"docType"`
	DocNo       string `json:"docNo"`
	MawbID      int64  `json:"mawbId"`
	HawbID      int64  `json:"hawbId"`
	MailFrom    string `json:"mailFrom"`
	MailTo      string `json:"mailTo" binding:"required"`
	MailCc      string `json:"mailCc"`
	MailBcc     string `json:"mailBcc"`
	MailSubject string `json:"mailSubject" binding:"required"`
	MailBody    string `json:"mailBody"`
}

// SendResult reports the logged outcome of a send
type SendResult struct {
	LogID  int64  `json:"logId"`
	Status string `json:"status"`
}

// Recorder writes the mail log
type Recorder interface {
	Create(ctx context.Context, def *resource.Definition, actor shared.Actor, payload resource.Payload) (*gateway.CreateResult, error)
}

// Service dispatches pre-alert mails
type Service struct {
	mailer      mail.Sender
	recorder    Recorder
	defaultFrom string
	metrics     *telemetry.DocumentMetrics
	now         func() time.Time
	validate    *validator.Validate
}

// Option configures a Service
type Option func(*Service)

// WithDefaultFrom sets the sender used when a request has none
func WithDefaultFrom(from string) Option {
	return func(s *Service) { s.defaultFrom = from }
}

// WithMetrics records send outcomes on dm
func WithMetrics(dm *telemetry.DocumentMetrics) Option {
	return func(s *Service) { s.metrics = dm }
}

// WithClock overrides the clock used for sendDt
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a new Service
func NewService(mailer mail.Sender, recorder Recorder, opts ...Option) *Service {
	s := &Service{
		mailer:   mailer,
		recorder: recorder,
		now:      time.Now,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Send delivers the mail and logs the attempt. A delivery failure is logged
// with status FAILED and returned as MAIL_DELIVERY_FAILED together with the
// result naming the log row.
func (s *Service) Send(ctx context.Context, actor shared.Actor, req SendRequest) (*SendResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "prealert", "send",
		telemetry.SpanAttrActor, actor.String(),
		"fms.doc_no", req.DocNo)
	defer span.End()

	if !s.mailer.Configured() {
		return nil, shared.ErrMailNotConfigured
	}

	msg, err := s.message(req)
	if err != nil {
		return nil, err
	}

	sendErr := s.mailer.Send(ctx, msg)

	payload := resource.Payload{
		"docType":     req.DocType,
		"docNo":       req.DocNo,
		"mailFrom":    msg.From,
		"mailTo":      strings.Join(msg.To, ", "),
		"mailCc":      strings.Join(msg.Cc, ", "),
		"mailBcc":     strings.Join(msg.Bcc, ", "),
		"mailSubject": msg.Subject,
		"mailBody":    msg.Body,
	}
	if req.SettingID > 0 {
		payload["settingId"] = req.SettingID
	}
	if req.MawbID > 0 {
		payload["mawbId"] = req.MawbID
	}
	if req.HawbID > 0 {
		payload["hawbId"] = req.HawbID
	}

	status := freight.MailSent
	if sendErr != nil {
		status = freight.MailFailed
		payload["responseMsg"] = sendErr.Error()
		telemetry.RecordError(span, sendErr)
	} else {
		payload["sendDt"] = s.now().Format(resource.DateTimeLayout)
	}
	payload["status"] = status
	s.metrics.RecordPreAlert(ctx, status)

	created, logErr := s.recorder.Create(ctx, freight.PreAlertMailLog, actor, payload)
	if logErr != nil {
		logger.L(ctx).Error("failed to write pre-alert mail log",
			zap.String("status", status),
			zap.Strings("to", msg.To),
			zap.Error(logErr))
		if sendErr == nil {
			return nil, logErr
		}
	}

	result := &SendResult{Status: status}
	if created != nil {
		result.LogID = created.ID
	}

	if sendErr != nil {
		logger.L(ctx).Warn("pre-alert delivery failed",
			zap.Strings("to", msg.To),
			zap.String("doc_no", req.DocNo),
			zap.Error(sendErr))
		return result, &shared.DomainError{
			Code:    shared.CodeMailDeliveryFailed,
			Message: "pre-alert mail could not be delivered",
			Kind:    shared.KindStore,
			Err:     sendErr,
		}
	}

	logger.L(ctx).Info("pre-alert sent",
		zap.Int64("log_id", result.LogID),
		zap.Strings("to", msg.To),
		zap.String("doc_no", req.DocNo))
	return result, nil
}

func (s *Service) message(req SendRequest) (mail.Message, error) {
	msg := mail.Message{
		From:    strings.TrimSpace(req.MailFrom),
		To:      mail.SplitAddresses(req.MailTo),
		Cc:      mail.SplitAddresses(req.MailCc),
		Bcc:     mail.SplitAddresses(req.MailBcc),
		Subject: strings.TrimSpace(req.MailSubject),
		Body:    req.MailBody,
	}
	if msg.From == "" {
		msg.From = s.defaultFrom
	}

	var problems []string
	if len(msg.To) == 0 {
		problems = append(problems, "mailTo is required")
	}
	if msg.Subject == "" {
		problems = append(problems, "mailSubject is required")
	}
	if msg.From != "" && s.validate.Var(msg.From, "email") != nil {
		problems = append(problems, "mailFrom must be a valid email address")
	}
	for _, group := range []struct {
		name  string
		addrs []string
	}{{"mailTo", msg.To}, {"mailCc", msg.Cc}, {"mailBcc", msg.Bcc}} {
		for _, addr := range group.addrs {
			if s.validate.Var(addr, "email") != nil {
				problems = append(problems, group.name+" contains an invalid address: "+addr)
			}
		}
	}

	if len(problems) > 0 {
		return mail.Message{}, shared.NewValidationError(strings.Join(problems, "; "))
	}
	return msg, nil
}
