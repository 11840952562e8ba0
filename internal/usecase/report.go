package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/infra/logger"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

var (
	// ErrReportNotFound indicates the report does not exist.
	ErrReportNotFound = errors.New("report not found")
	// ErrProgramNotFound indicates the target program does not exist.
	ErrProgramNotFound = errors.New("program not found")
	// ErrInvalidReportStatus indicates a status outside the recognized set.
	ErrInvalidReportStatus = errors.New("invalid report status")
)

// AttachmentInput describes one already-uploaded file to bind to a report.
type AttachmentInput struct {
	FileURL  string
	FileName string
	FileType string
}

// SubmitReportInput carries the fields of a new vulnerability report.
type SubmitReportInput struct {
	ProgramID        string
	Title            string
	Severity         string
	Description      string
	StepsToReproduce string
	Impact           string
	Attachments      []AttachmentInput
}

// ReportService coordinates the report submission and triage workflow.
type ReportService struct {
	reports       port.ReportRepository
	programs      port.ProgramRepository
	notifications port.NotificationRepository
	events        port.EventPublisher
}

// NewReportService constructs a ReportService instance.
func NewReportService(
	reports port.ReportRepository,
	programs port.ProgramRepository,
	notifications port.NotificationRepository,
	events port.EventPublisher,
) (*ReportService, error) {
	if reports == nil {
		return nil, errors.New("report repository is required")
	}
	if programs == nil {
		return nil, errors.New("program repository is required")
	}
	return &ReportService{
		reports:       reports,
		programs:      programs,
		notifications: notifications,
		events:        events,
	}, nil
}

// Submit files a new report against a program. The report and all its
// attachments persist atomically; notification and event delivery are
// best-effort side effects that never fail the submission.
func (s *ReportService) Submit(ctx context.Context, principal *domain.Principal, input SubmitReportInput) (*domain.ReportDetail, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}
	if principal.Role != domain.RoleHacker {
		return nil, ErrForbidden
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if strings.TrimSpace(input.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}

	program, err := s.programs.GetByID(ctx, input.ProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgramNotFound
		}
		return nil, fmt.Errorf("lookup program: %w", err)
	}

	now := time.Now().UTC()
	report := domain.Report{
		ID:               uuid.NewString(),
		ProgramID:        program.ID,
		ReporterID:       principal.AccountID,
		Title:            strings.TrimSpace(input.Title),
		Severity:         input.Severity,
		Status:           domain.ReportStatusSubmitted,
		Description:      input.Description,
		StepsToReproduce: input.StepsToReproduce,
		Impact:           input.Impact,
		CreatedAt:        now,
	}

	attachments := make([]domain.ReportAttachment, 0, len(input.Attachments))
	for _, a := range input.Attachments {
		attachments = append(attachments, domain.ReportAttachment{
			ID:         uuid.NewString(),
			ReportID:   report.ID,
			FileURL:    a.FileURL,
			FileName:   a.FileName,
			FileType:   a.FileType,
			UploadedAt: now,
		})
	}

	if err := s.reports.CreateWithAttachments(ctx, report, attachments); err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	s.notifyNewReport(ctx, report, program)
	s.publishSubmitted(ctx, report, len(attachments))

	return &domain.ReportDetail{Report: report, Attachments: attachments}, nil
}

func (s *ReportService) notifyNewReport(ctx context.Context, report domain.Report, program *domain.Program) {
	if s.notifications == nil {
		return
	}

	ownerID, err := s.programs.GetOwnerAccountID(ctx, program.ID)
	if err != nil {
		logger.WithContext(ctx).Warn("resolve program owner failed",
			zap.String("program_id", program.ID),
			zap.Error(err),
		)
		return
	}

	notification := domain.Notification{
		ID:        uuid.NewString(),
		AccountID: ownerID,
		Type:      domain.NotificationTypeNewReport,
		Message:   fmt.Sprintf("New report %q submitted to %s", report.Title, program.Title),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		logger.WithContext(ctx).Warn("record new report notification failed",
			zap.String("report_id", report.ID),
			zap.Error(err),
		)
	}
}

func (s *ReportService) publishSubmitted(ctx context.Context, report domain.Report, attachmentCount int) {
	if s.events == nil {
		return
	}

	event := domain.ReportSubmittedEvent{
		ReportID:        report.ID,
		ProgramID:       report.ProgramID,
		ReporterID:      report.ReporterID,
		Severity:        report.Severity,
		AttachmentCount: attachmentCount,
		SubmittedAt:     report.CreatedAt,
	}
	if err := s.events.PublishReportSubmitted(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("publish report submitted event failed",
			zap.String("report_id", report.ID),
			zap.Error(err),
		)
	}
}

// GetOwnReports lists the principal's submitted reports, newest first.
func (s *ReportService) GetOwnReports(ctx context.Context, principal *domain.Principal) ([]domain.Report, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	reports, err := s.reports.ListByReporter(ctx, principal.AccountID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

// GetReportDetail returns a report with attachments, visible only to the
// reporter and the owner of the program's organization.
func (s *ReportService) GetReportDetail(ctx context.Context, principal *domain.Principal, reportID string) (*domain.ReportDetail, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}

	detail, err := s.reports.GetWithAttachments(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("load report: %w", err)
	}

	if detail.ReporterID == principal.AccountID {
		return detail, nil
	}

	ownerID, err := s.programs.GetOwnerAccountID(ctx, detail.ProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("resolve program owner: %w", err)
	}
	if ownerID != principal.AccountID {
		return nil, ErrForbidden
	}

	return detail, nil
}

// UpdateStatus moves a report into a new workflow status. Only the owner of
// the program's organization may do this.
func (s *ReportService) UpdateStatus(ctx context.Context, principal *domain.Principal, reportID, status string) (*domain.Report, error) {
	if principal == nil {
		return nil, ErrUnauthorized
	}
	if principal.Role != domain.RoleOrganization {
		return nil, ErrForbidden
	}

	newStatus := domain.ReportStatus(status)
	if !domain.ValidReportStatus(newStatus) {
		return nil, ErrInvalidReportStatus
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("load report: %w", err)
	}

	ownerID, err := s.programs.GetOwnerAccountID(ctx, report.ProgramID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrForbidden
		}
		return nil, fmt.Errorf("resolve program owner: %w", err)
	}
	if ownerID != principal.AccountID {
		return nil, ErrForbidden
	}

	previous := report.Status
	if err := s.reports.UpdateStatus(ctx, report.ID, newStatus); err != nil {
		return nil, fmt.Errorf("update report status: %w", err)
	}
	report.Status = newStatus

	s.notifyStatusChange(ctx, *report, previous)
	s.publishStatusChange(ctx, *report, previous, principal.AccountID)

	return report, nil
}

func (s *ReportService) notifyStatusChange(ctx context.Context, report domain.Report, previous domain.ReportStatus) {
	if s.notifications == nil {
		return
	}

	notification := domain.Notification{
		ID:        uuid.NewString(),
		AccountID: report.ReporterID,
		Type:      domain.NotificationTypeReportUpdate,
		Message:   fmt.Sprintf("Report %q moved from %s to %s", report.Title, previous, report.Status),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		logger.WithContext(ctx).Warn("record status notification failed",
			zap.String("report_id", report.ID),
			zap.Error(err),
		)
	}
}

func (s *ReportService) publishStatusChange(ctx context.Context, report domain.Report, previous domain.ReportStatus, changedBy string) {
	if s.events == nil {
		return
	}

	event := domain.ReportStatusChangedEvent{
		ReportID:       report.ID,
		ProgramID:      report.ProgramID,
		ReporterID:     report.ReporterID,
		PreviousStatus: previous,
		NewStatus:      report.Status,
		ChangedBy:      changedBy,
		ChangedAt:      time.Now().UTC(),
	}
	if err := s.events.PublishReportStatusChanged(ctx, event); err != nil {
		logger.WithContext(ctx).Warn("publish status changed event failed",
			zap.String("report_id", report.ID),
			zap.Error(err),
		)
	}
}
