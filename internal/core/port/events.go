package port

import (
	"context"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

// EventPublisher publishes platform events to the message bus.
type EventPublisher interface {
	PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error
	PublishReportSubmitted(ctx context.Context, event domain.ReportSubmittedEvent) error
	PublishReportStatusChanged(ctx context.Context, event domain.ReportStatusChangedEvent) error
}
