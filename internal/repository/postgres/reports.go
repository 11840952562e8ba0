package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/repository"
)

// ReportRepository implements port.ReportRepository using PostgreSQL.
type ReportRepository struct {
	db      pgPool
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewReportRepository constructs a repository backed by any pool that
// satisfies pgPool.
func NewReportRepository(db pgPool) *ReportRepository {
	return &ReportRepository{
		db:      db,
		exec:    db,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// WithTx returns a repository instance operating within the supplied transaction.
func (r *ReportRepository) WithTx(tx pgx.Tx) *ReportRepository {
	if tx == nil {
		return r
	}
	return &ReportRepository{
		db:      r.db,
		exec:    tx,
		builder: r.builder,
	}
}

var reportColumns = []string{
	"id",
	"program_id",
	"reporter_id",
	"title",
	"severity",
	"status",
	"description",
	"steps_to_reproduce",
	"impact",
	"created_at",
}

var attachmentColumns = []string{
	"id",
	"report_id",
	"file_url",
	"file_name",
	"file_type",
	"uploaded_at",
}

// CreateWithAttachments persists the report row first and then every
// attachment row inside one transaction.
func (r *ReportRepository) CreateWithAttachments(ctx context.Context, report domain.Report, attachments []domain.ReportAttachment) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	sql, args, err := r.builder.Insert("recon.reports").
		Columns(reportColumns...).
		Values(
			report.ID,
			report.ProgramID,
			report.ReporterID,
			report.Title,
			report.Severity,
			report.Status,
			report.Description,
			report.StepsToReproduce,
			report.Impact,
			report.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert report sql: %w", err)
	}

	if _, err := tx.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert report: %w", err)
	}

	for _, attachment := range attachments {
		sql, args, err := r.builder.Insert("recon.report_attachments").
			Columns(attachmentColumns...).
			Values(
				attachment.ID,
				report.ID,
				attachment.FileURL,
				attachment.FileName,
				attachment.FileType,
				attachment.UploadedAt,
			).
			ToSql()
		if err != nil {
			return fmt.Errorf("build insert attachment sql: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("insert attachment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}

	return nil
}

// GetByID retrieves a report without its attachments.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*domain.Report, error) {
	stmt, args, err := r.builder.
		Select(reportColumns...).
		From("recon.reports").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select report sql: %w", err)
	}

	report, err := scanReport(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan report: %w", err)
	}

	return report, nil
}

// GetWithAttachments retrieves a report together with its attachments,
// ordered by upload time.
func (r *ReportRepository) GetWithAttachments(ctx context.Context, id string) (*domain.ReportDetail, error) {
	report, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	stmt, args, err := r.builder.
		Select(attachmentColumns...).
		From("recon.report_attachments").
		Where(squirrel.Eq{"report_id": id}).
		OrderBy("uploaded_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select attachments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query attachments: %w", err)
	}
	defer rows.Close()

	var attachments []domain.ReportAttachment
	for rows.Next() {
		var attachment domain.ReportAttachment
		if err := rows.Scan(
			&attachment.ID,
			&attachment.ReportID,
			&attachment.FileURL,
			&attachment.FileName,
			&attachment.FileType,
			&attachment.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attachment: %w", err)
		}
		attachments = append(attachments, attachment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attachments: %w", err)
	}

	return &domain.ReportDetail{Report: *report, Attachments: attachments}, nil
}

// ListByReporter returns reports submitted by the given account, newest first.
func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]domain.Report, error) {
	return r.list(ctx, squirrel.Eq{"reporter_id": reporterID})
}

// ListByOrganization returns reports filed against any program of the
// organization, newest first.
func (r *ReportRepository) ListByOrganization(ctx context.Context, organizationID string) ([]domain.Report, error) {
	stmt, args, err := r.builder.
		Select(prefixColumns("r", reportColumns)...).
		From("recon.reports r").
		Join("recon.programs p ON p.id = r.program_id").
		Where(squirrel.Eq{"p.organization_id": organizationID}).
		OrderBy("r.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list org reports sql: %w", err)
	}

	return r.queryReports(ctx, stmt, args)
}

func (r *ReportRepository) list(ctx context.Context, pred squirrel.Eq) ([]domain.Report, error) {
	stmt, args, err := r.builder.
		Select(reportColumns...).
		From("recon.reports").
		Where(pred).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list reports sql: %w", err)
	}

	return r.queryReports(ctx, stmt, args)
}

func (r *ReportRepository) queryReports(ctx context.Context, stmt string, args []any) ([]domain.Report, error) {
	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		reports = append(reports, *report)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate reports: %w", err)
	}

	return reports, nil
}

// UpdateStatus replaces the workflow status of a report.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id string, status domain.ReportStatus) error {
	sql, args, err := r.builder.Update("recon.reports").
		Set("status", status).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update report status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// CountByReporter counts all reports submitted by the account.
func (r *ReportRepository) CountByReporter(ctx context.Context, reporterID string) (int, error) {
	return r.count(ctx, squirrel.Eq{"reporter_id": reporterID})
}

// CountByReporterAndStatus counts the account's reports in the given status.
func (r *ReportRepository) CountByReporterAndStatus(ctx context.Context, reporterID string, status domain.ReportStatus) (int, error) {
	return r.count(ctx, squirrel.Eq{"reporter_id": reporterID, "status": status})
}

func (r *ReportRepository) count(ctx context.Context, pred squirrel.Eq) (int, error) {
	stmt, args, err := r.builder.
		Select("COUNT(*)").
		From("recon.reports").
		Where(pred).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count reports sql: %w", err)
	}

	var count int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}

	return count, nil
}

// SumMinBountyForAccepted sums program minimum bounties over the reporter's
// accepted reports.
func (r *ReportRepository) SumMinBountyForAccepted(ctx context.Context, reporterID string) (int, error) {
	stmt, args, err := r.builder.
		Select("COALESCE(SUM(p.min_bounty), 0)").
		From("recon.reports r").
		Join("recon.programs p ON p.id = r.program_id").
		Where(squirrel.Eq{"r.reporter_id": reporterID, "r.status": domain.ReportStatusAccepted}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build sum bounty sql: %w", err)
	}

	var total int
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum bounty: %w", err)
	}

	return total, nil
}

func scanReport(row pgx.Row) (*domain.Report, error) {
	var report domain.Report
	if err := row.Scan(
		&report.ID,
		&report.ProgramID,
		&report.ReporterID,
		&report.Title,
		&report.Severity,
		&report.Status,
		&report.Description,
		&report.StepsToReproduce,
		&report.Impact,
		&report.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &report, nil
}

func prefixColumns(alias string, columns []string) []string {
	prefixed := make([]string, len(columns))
	for i, col := range columns {
		prefixed[i] = alias + "." + col
	}
	return prefixed
}

var _ port.ReportRepository = (*ReportRepository)(nil)
