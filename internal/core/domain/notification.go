package domain

import "time"

// Well-known notification types.
const (
	NotificationTypeReportUpdate = "report_update"
	NotificationTypeNewReport    = "new_report"
)

// Notification is an out-of-band side effect recorded for later retrieval.
type Notification struct {
	ID        string
	AccountID string
	Type      string
	Message   string
	Read      bool
	CreatedAt time.Time
}
