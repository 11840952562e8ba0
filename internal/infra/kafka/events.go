package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/infra/config"
)

const schemaVersion = "1.0"

// Event types emitted by the platform.
const (
	EventTypeAccountRegistered   = "account.registered"
	EventTypeReportSubmitted     = "report.submitted"
	EventTypeReportStatusChanged = "report.status_changed"
)

// EventPublisher implements port.EventPublisher using Kafka.
type EventPublisher struct {
	producer *Producer
	logger   *zap.Logger
	appCfg   config.AppSettings
}

// NewEventPublisher constructs a Kafka-backed event publisher.
func NewEventPublisher(producer *Producer, appCfg config.AppSettings, logger *zap.Logger) *EventPublisher {
	return &EventPublisher{producer: producer, appCfg: appCfg, logger: logger}
}

type envelopeMetadata map[string]string

type eventEnvelope struct {
	EventID   string           `json:"event_id"`
	EventType string           `json:"event_type"`
	AccountID string           `json:"account_id,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
	Version   string           `json:"version"`
	Payload   any              `json:"payload"`
	Metadata  envelopeMetadata `json:"metadata,omitempty"`
}

func (p *EventPublisher) publish(ctx context.Context, eventID, eventType, accountID string, ts time.Time, payload any) error {
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	id := eventID
	if id == "" {
		id = uuid.NewString()
	}

	envelope := eventEnvelope{
		EventID:   id,
		EventType: eventType,
		AccountID: accountID,
		Timestamp: ts.UTC(),
		Version:   schemaVersion,
		Payload:   payload,
		Metadata: envelopeMetadata{
			"service":     p.appCfg.Name,
			"environment": p.appCfg.Env,
		},
	}

	bytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic: p.producer.TopicName(eventType),
		Value: sarama.ByteEncoder(bytes),
	}

	select {
	case p.producer.Producer().Input() <- message:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PublishAccountRegistered publishes account.registered events.
func (p *EventPublisher) PublishAccountRegistered(ctx context.Context, event domain.AccountRegisteredEvent) error {
	payload := struct {
		AccountID    string         `json:"account_id"`
		Username     string         `json:"username"`
		Role         string         `json:"role"`
		RegisteredAt time.Time      `json:"registered_at"`
		Metadata     map[string]any `json:"metadata,omitempty"`
	}{
		AccountID:    event.AccountID,
		Username:     event.Username,
		Role:         string(event.Role),
		RegisteredAt: event.RegisteredAt.UTC(),
		Metadata:     event.Metadata,
	}

	return p.publish(ctx, event.EventID, EventTypeAccountRegistered, event.AccountID, event.RegisteredAt, payload)
}

// PublishReportSubmitted publishes report.submitted events.
func (p *EventPublisher) PublishReportSubmitted(ctx context.Context, event domain.ReportSubmittedEvent) error {
	payload := struct {
		ReportID        string         `json:"report_id"`
		ProgramID       string         `json:"program_id"`
		ReporterID      string         `json:"reporter_id"`
		Severity        string         `json:"severity"`
		AttachmentCount int            `json:"attachment_count"`
		SubmittedAt     time.Time      `json:"submitted_at"`
		Metadata        map[string]any `json:"metadata,omitempty"`
	}{
		ReportID:        event.ReportID,
		ProgramID:       event.ProgramID,
		ReporterID:      event.ReporterID,
		Severity:        event.Severity,
		AttachmentCount: event.AttachmentCount,
		SubmittedAt:     event.SubmittedAt.UTC(),
		Metadata:        event.Metadata,
	}

	return p.publish(ctx, event.EventID, EventTypeReportSubmitted, event.ReporterID, event.SubmittedAt, payload)
}

// PublishReportStatusChanged publishes report.status_changed events.
func (p *EventPublisher) PublishReportStatusChanged(ctx context.Context, event domain.ReportStatusChangedEvent) error {
	payload := struct {
		ReportID       string         `json:"report_id"`
		ProgramID      string         `json:"program_id"`
		ReporterID     string         `json:"reporter_id"`
		PreviousStatus string         `json:"previous_status"`
		NewStatus      string         `json:"new_status"`
		ChangedBy      string         `json:"changed_by"`
		ChangedAt      time.Time      `json:"changed_at"`
		Metadata       map[string]any `json:"metadata,omitempty"`
	}{
		ReportID:       event.ReportID,
		ProgramID:      event.ProgramID,
		ReporterID:     event.ReporterID,
		PreviousStatus: string(event.PreviousStatus),
		NewStatus:      string(event.NewStatus),
		ChangedBy:      event.ChangedBy,
		ChangedAt:      event.ChangedAt.UTC(),
		Metadata:       event.Metadata,
	}

	return p.publish(ctx, event.EventID, EventTypeReportStatusChanged, event.ChangedBy, event.ChangedAt, payload)
}

var _ port.EventPublisher = (*EventPublisher)(nil)
