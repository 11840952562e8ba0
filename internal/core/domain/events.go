package domain

import "time"

// AccountRegisteredEvent represents the payload for platform.account.registered messages.
type AccountRegisteredEvent struct {
	EventID      string
	AccountID    string
	Username     string
	Role         Role
	RegisteredAt time.Time
	Metadata     map[string]any
}

// ReportSubmittedEvent represents the payload for platform.report.submitted messages.
type ReportSubmittedEvent struct {
	EventID         string
	ReportID        string
	ProgramID       string
	ReporterID      string
	Severity        string
	AttachmentCount int
	SubmittedAt     time.Time
	Metadata        map[string]any
}

// ReportStatusChangedEvent represents the payload for platform.report.status_changed messages.
type ReportStatusChangedEvent struct {
	EventID        string
	ReportID       string
	ProgramID      string
	ReporterID     string
	PreviousStatus ReportStatus
	NewStatus      ReportStatus
	ChangedBy      string
	ChangedAt      time.Time
	Metadata       map[string]any
}
