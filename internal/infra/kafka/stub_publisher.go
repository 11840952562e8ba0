package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs account.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"username":      event.Username,
		"role":          event.Role,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent(EventTypeAccountRegistered, event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishReportSubmitted logs report.submitted events.
func (p *StubPublisher) PublishReportSubmitted(_ context.Context, event domain.ReportSubmittedEvent) error {
	payload := map[string]any{
		"report_id":        event.ReportID,
		"program_id":       event.ProgramID,
		"reporter_id":      event.ReporterID,
		"severity":         event.Severity,
		"attachment_count": event.AttachmentCount,
		"submitted_at":     event.SubmittedAt,
		"metadata":         event.Metadata,
	}
	p.logEvent(EventTypeReportSubmitted, event.ReporterID, event.SubmittedAt, payload)
	return nil
}

// PublishReportStatusChanged logs report.status_changed events.
func (p *StubPublisher) PublishReportStatusChanged(_ context.Context, event domain.ReportStatusChangedEvent) error {
	payload := map[string]any{
		"report_id":       event.ReportID,
		"program_id":      event.ProgramID,
		"reporter_id":     event.ReporterID,
		"previous_status": event.PreviousStatus,
		"new_status":      event.NewStatus,
		"changed_by":      event.ChangedBy,
		"changed_at":      event.ChangedAt,
		"metadata":        event.Metadata,
	}
	p.logEvent(EventTypeReportStatusChanged, event.ChangedBy, event.ChangedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
