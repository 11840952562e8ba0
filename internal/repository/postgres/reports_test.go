package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

func reportForTest(createdAt time.Time) (domain.Report, []domain.ReportAttachment) {
	report := domain.Report{
		ID:               "rep-1",
		ProgramID:        "prog-1",
		ReporterID:       "acc-1",
		Title:            "Stored XSS in report comments",
		Severity:         "high",
		Status:           domain.ReportStatusSubmitted,
		Description:      "Unescaped markdown rendering",
		StepsToReproduce: "1. Comment with a script tag",
		Impact:           "Session takeover",
		CreatedAt:        createdAt,
	}
	attachments := []domain.ReportAttachment{
		{ID: "att-1", ReportID: report.ID, FileURL: "https://cdn/poc-1.png", FileName: "poc-1.png", FileType: "image/png", UploadedAt: createdAt},
		{ID: "att-2", ReportID: report.ID, FileURL: "https://cdn/poc-2.png", FileName: "poc-2.png", FileType: "image/png", UploadedAt: createdAt},
	}
	return report, attachments
}

func expectReportInsert(mock pgxmock.PgxPoolIface, report domain.Report) *pgxmock.ExpectedExec {
	return mock.ExpectExec(`INSERT INTO recon\.reports`).
		WithArgs(
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
		)
}

func expectAttachmentInsert(mock pgxmock.PgxPoolIface, report domain.Report, attachment domain.ReportAttachment) *pgxmock.ExpectedExec {
	return mock.ExpectExec(`INSERT INTO recon\.report_attachments`).
		WithArgs(
			attachment.ID,
			report.ID,
			attachment.FileURL,
			attachment.FileName,
			attachment.FileType,
			attachment.UploadedAt,
		)
}

func TestReportRepository_CreateWithAttachments(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReportRepository(mock)
	report, attachments := reportForTest(time.Now().UTC())

	mock.ExpectBegin()
	expectReportInsert(mock, report).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	for _, attachment := range attachments {
		expectAttachmentInsert(mock, report, attachment).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	}
	mock.ExpectCommit()

	if err := repo.CreateWithAttachments(context.Background(), report, attachments); err != nil {
		t.Fatalf("CreateWithAttachments: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestReportRepository_CreateWithAttachmentsRollsBackOnAttachmentFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReportRepository(mock)
	report, attachments := reportForTest(time.Now().UTC())

	mock.ExpectBegin()
	expectReportInsert(mock, report).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectAttachmentInsert(mock, report, attachments[0]).WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectAttachmentInsert(mock, report, attachments[1]).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err = repo.CreateWithAttachments(context.Background(), report, attachments)
	if err == nil {
		t.Fatal("expected error when an attachment insert fails")
	}
	if !strings.Contains(err.Error(), "insert attachment") {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction not rolled back: %v", err)
	}
}

func TestReportRepository_CreateWithAttachmentsRollsBackOnReportFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewReportRepository(mock)
	report, attachments := reportForTest(time.Now().UTC())

	mock.ExpectBegin()
	expectReportInsert(mock, report).WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	if err := repo.CreateWithAttachments(context.Background(), report, attachments); err == nil {
		t.Fatal("expected error when the report insert fails")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("transaction not rolled back: %v", err)
	}
}
