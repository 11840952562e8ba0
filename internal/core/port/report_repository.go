package port

import (
	"context"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

// ReportRepository persists vulnerability reports and their attachments.
type ReportRepository interface {
	// CreateWithAttachments writes the report row first, then every attachment
	// row, inside a single transaction. If any write fails nothing is visible
	// to subsequent readers.
	CreateWithAttachments(ctx context.Context, report domain.Report, attachments []domain.ReportAttachment) error
	GetByID(ctx context.Context, id string) (*domain.Report, error)
	GetWithAttachments(ctx context.Context, id string) (*domain.ReportDetail, error)
	ListByReporter(ctx context.Context, reporterID string) ([]domain.Report, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]domain.Report, error)
	UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error
	CountByReporter(ctx context.Context, reporterID string) (int, error)
	CountByReporterAndStatus(ctx context.Context, reporterID string, status domain.ReportStatus) (int, error)
	// SumMinBountyForAccepted approximates total earnings as the sum of program
	// minimum bounties over the reporter's accepted reports.
	SumMinBountyForAccepted(ctx context.Context, reporterID string) (int, error)
}

// NotificationRepository records and retrieves notifications.
type NotificationRepository interface {
	Create(ctx context.Context, notification domain.Notification) error
	ListByAccount(ctx context.Context, accountID string) ([]domain.Notification, error)
}
