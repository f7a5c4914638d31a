package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/invenzia/disclosure-api/config"
	"github.com/invenzia/disclosure-api/internal/mailer"
	"github.com/invenzia/disclosure-api/internal/models"
	"github.com/invenzia/disclosure-api/internal/report"
	"github.com/invenzia/disclosure-api/pkg/logger"
	"github.com/invenzia/disclosure-api/pkg/metrics"
)

// IntakeService validates a disclosure submission, renders the report and
// dispatches it by mail. There is no state beyond one request: nothing is
// persisted and nothing is retried.
type IntakeService struct {
	config     *config.Config
	sender     mailer.Sender
	emailCheck *validator.Validate
	now        func() time.Time
}

// NewIntakeService creates a new intake service instance
func NewIntakeService(cfg *config.Config, sender mailer.Sender) *IntakeService {
	return &IntakeService{
		config:     cfg,
		sender:     sender,
		emailCheck: validator.New(),
		now:        time.Now,
	}
}

// SubmitDisclosure runs the full pipeline for one submission. A nil return
// means the report was delivered. Failures come back as *IntakeError with
// the canonical message and status.
func (s *IntakeService) SubmitDisclosure(ctx context.Context, sub *models.Submission, attachments []models.Attachment) error {
	if ierr := s.validate(sub, attachments); ierr != nil {
		status := "validation_failed"
		if ierr.Status >= http.StatusInternalServerError {
			status = "misconfigured"
		}
		metrics.SubmissionsTotal.WithLabelValues(status).Inc()
		return ierr
	}

	body := report.Render(sub, s.now())
	msg := s.composeMessage(sub, body, attachments)

	start := time.Now()
	if err := s.sender.Send(ctx, msg); err != nil {
		metrics.MailDispatchDuration.WithLabelValues("error").Observe(metrics.MeasureDuration(start))
		metrics.SubmissionsTotal.WithLabelValues("mail_failed").Inc()
		if errors.Is(err, mailer.ErrNotConfigured) {
			logger.Error("Mail transport not configured", zap.Error(err))
			return &IntakeError{Status: http.StatusInternalServerError, Message: msgMailTransport, Err: err}
		}
		logger.Error("Failed to send disclosure report", zap.Error(err))
		return &IntakeError{Status: http.StatusInternalServerError, Message: msgMailSendFailed, Err: err}
	}
	metrics.MailDispatchDuration.WithLabelValues("success").Observe(metrics.MeasureDuration(start))
	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()

	logger.Info("Disclosure submitted",
		zap.String("applicant_type", sub.ApplicantType),
		zap.Int("attachments", len(attachments)),
		zap.Int64("attachment_bytes", models.TotalSize(attachments)),
	)
	return nil
}

// composeMessage builds the outbound mail: fixed recipient, configured
// sender (falling back to the SMTP identity), the applicant's declared
// address as reply-to when present and well-formed, subject combining
// title and applicant label, and the attachments passed through untouched.
func (s *IntakeService) composeMessage(sub *models.Submission, body string, attachments []models.Attachment) *mailer.Message {
	label := sub.ApplicantLabel()
	if label == "" {
		label = "Richiedente"
	}

	replyTo := sub.ContactEmail()
	if replyTo != "" {
		if err := s.emailCheck.Var(replyTo, "email"); err != nil {
			logger.Warn("Ignoring malformed applicant email", zap.String("email", replyTo))
			replyTo = ""
		}
	}

	return &mailer.Message{
		From:        s.config.Mail.SenderAddress(),
		To:          s.config.Mail.Recipient,
		ReplyTo:     replyTo,
		Subject:     fmt.Sprintf("Nuova divulgazione: %s - %s", sub.InventionTitle, label),
		Body:        body,
		Attachments: attachments,
	}
}
