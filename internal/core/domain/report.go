package domain

import "time"

// ReportStatus enumerates the workflow states an organization may assign to a report.
type ReportStatus string

const (
	ReportStatusSubmitted ReportStatus = "Submitted"
	ReportStatusTriaging  ReportStatus = "Triaging"
	ReportStatusAccepted  ReportStatus = "Accepted"
	ReportStatusRejected  ReportStatus = "Rejected"
	ReportStatusResolved  ReportStatus = "Resolved"
)

// ValidReportStatus reports whether the value belongs to the recognized status set.
// Transitions between members are organization-defined and not constrained here.
func ValidReportStatus(value ReportStatus) bool {
	switch value {
	case ReportStatusSubmitted, ReportStatusTriaging, ReportStatusAccepted, ReportStatusRejected, ReportStatusResolved:
		return true
	default:
		return false
	}
}

// Conventional severity values. The set is open: programs may use their own scale.
const (
	SeverityLow      = "Low"
	SeverityMedium   = "Medium"
	SeverityHigh     = "High"
	SeverityCritical = "Critical"
)

// Report is a vulnerability report bound to one program and one reporting account.
// ProgramID and ReporterID are immutable after creation.
type Report struct {
	ID               string
	ProgramID        string
	ReporterID       string
	Title            string
	Severity         string
	Status           ReportStatus
	Description      string
	StepsToReproduce string
	Impact           string
	CreatedAt        time.Time
}

// ReportAttachment belongs to exactly one report and is persisted in
// the same transaction as the report itself.
type ReportAttachment struct {
	ID         string
	ReportID   string
	FileURL    string
	FileName   string
	FileType   string
	UploadedAt time.Time
}

// ReportDetail is a report together with its ordered attachments,
// loaded explicitly rather than through relation traversal.
type ReportDetail struct {
	Report
	Attachments []ReportAttachment
}
