package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
)

// ErrorResponse represents a generic error payload with trace ID for debugging.
type ErrorResponse struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

// NewErrorResponse creates an error response with trace ID from context.
func NewErrorResponse(c *gin.Context, errorMsg string) ErrorResponse {
	traceID, _ := c.Get("trace_id")
	traceIDStr, _ := traceID.(string)

	return ErrorResponse{
		Error:   errorMsg,
		TraceID: traceIDStr,
	}
}

// MessageResponse represents a simple message payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status    string    `json:"status"`
	StartedAt time.Time `json:"started_at"`
}

// ReadinessResponse reports per-dependency readiness.
type ReadinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// RegisterRequest defines the payload for the registration endpoint.
type RegisterRequest struct {
	Email            string `json:"email" binding:"required"`
	Username         string `json:"username" binding:"required"`
	Password         string `json:"password" binding:"required"`
	Role             string `json:"role" binding:"required"`
	OrganizationName string `json:"organizationName"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AccountSummary describes the public view of an account. The email address
// and password hash never appear here.
type AccountSummary struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	Role             string    `json:"role"`
	DisplayName      string    `json:"displayName,omitempty"`
	Bio              string    `json:"bio,omitempty"`
	AvatarURL        string    `json:"avatarUrl,omitempty"`
	ReputationPoints int       `json:"reputationPoints"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toAccountSummary(account domain.Account) AccountSummary {
	return AccountSummary{
		ID:               account.ID,
		Username:         account.Username,
		Role:             string(account.Role),
		DisplayName:      account.DisplayName,
		Bio:              account.Bio,
		AvatarURL:        account.AvatarURL,
		ReputationPoints: account.ReputationPoints,
		CreatedAt:        account.CreatedAt,
	}
}

// AuthResponse carries the session token and account after login or signup.
type AuthResponse struct {
	Token   string         `json:"token"`
	Account AccountSummary `json:"account"`
}

// UpdateProfileRequest defines the payload for profile updates.
type UpdateProfileRequest struct {
	DisplayName string `json:"displayName"`
	Bio         string `json:"bio"`
}

// StatsResponse aggregates a reporter's track record.
type StatsResponse struct {
	TotalReports     int `json:"totalReports"`
	AcceptedReports  int `json:"acceptedReports"`
	ResolvedReports  int `json:"resolvedReports"`
	TotalEarnings    int `json:"totalEarnings"`
	ReputationPoints int `json:"reputationPoints"`
}

// OrganizationView describes an organization in API responses.
type OrganizationView struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	WebsiteURL string `json:"websiteUrl,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

func toOrganizationView(org domain.Organization) OrganizationView {
	return OrganizationView{
		ID:         org.ID,
		Name:       org.Name,
		WebsiteURL: org.WebsiteURL,
		LogoURL:    org.LogoURL,
	}
}

// ProgramView describes a bounty program in API responses.
type ProgramView struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organizationId"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Policy         string   `json:"policy,omitempty"`
	Scope          string   `json:"scope,omitempty"`
	OutOfScope     string   `json:"outOfScope,omitempty"`
	MinBounty      int      `json:"minBounty"`
	MaxBounty      int      `json:"maxBounty"`
	Tags           []string `json:"tags,omitempty"`
}

func toProgramView(program domain.Program) ProgramView {
	return ProgramView{
		ID:             program.ID,
		OrganizationID: program.OrganizationID,
		Title:          program.Title,
		Description:    program.Description,
		Policy:         program.Policy,
		Scope:          program.Scope,
		OutOfScope:     program.OutOfScope,
		MinBounty:      program.MinBounty,
		MaxBounty:      program.MaxBounty,
		Tags:           program.Tags,
	}
}

// ProgramDetailResponse joins a program with its publishing organization.
type ProgramDetailResponse struct {
	Program      ProgramView      `json:"program"`
	Organization OrganizationView `json:"organization"`
}

// CreateProgramRequest defines the payload for program publication.
type CreateProgramRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Policy      string   `json:"policy"`
	Scope       string   `json:"scope"`
	OutOfScope  string   `json:"outOfScope"`
	MinBounty   int      `json:"minBounty"`
	MaxBounty   int      `json:"maxBounty"`
	Tags        []string `json:"tags"`
}

// AttachmentRequest describes one uploaded file to bind to a report.
type AttachmentRequest struct {
	FileURL  string `json:"fileUrl" binding:"required"`
	FileName string `json:"fileName"`
	FileType string `json:"fileType"`
}

// SubmitReportRequest defines the payload for report submission.
type SubmitReportRequest struct {
	ProgramID        string              `json:"programId" binding:"required"`
	Title            string              `json:"title" binding:"required"`
	Severity         string              `json:"severity"`
	Description      string              `json:"description" binding:"required"`
	StepsToReproduce string              `json:"stepsToReproduce"`
	Impact           string              `json:"impact"`
	Attachments      []AttachmentRequest `json:"attachments"`
}

// UpdateReportStatusRequest defines the payload for status transitions.
type UpdateReportStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ReportView describes a report in API responses.
type ReportView struct {
	ID               string    `json:"id"`
	ProgramID        string    `json:"programId"`
	ReporterID       string    `json:"reporterId"`
	Title            string    `json:"title"`
	Severity         string    `json:"severity,omitempty"`
	Status           string    `json:"status"`
	Description      string    `json:"description,omitempty"`
	StepsToReproduce string    `json:"stepsToReproduce,omitempty"`
	Impact           string    `json:"impact,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

func toReportView(report domain.Report) ReportView {
	return ReportView{
		ID:               report.ID,
		ProgramID:        report.ProgramID,
		ReporterID:       report.ReporterID,
		Title:            report.Title,
		Severity:         report.Severity,
		Status:           string(report.Status),
		Description:      report.Description,
		StepsToReproduce: report.StepsToReproduce,
		Impact:           report.Impact,
		CreatedAt:        report.CreatedAt,
	}
}

func toReportViews(reports []domain.Report) []ReportView {
	views := make([]ReportView, 0, len(reports))
	for _, report := range reports {
		views = append(views, toReportView(report))
	}
	return views
}

// AttachmentView describes a report attachment in API responses.
type AttachmentView struct {
	ID         string    `json:"id"`
	FileURL    string    `json:"fileUrl"`
	FileName   string    `json:"fileName,omitempty"`
	FileType   string    `json:"fileType,omitempty"`
	UploadedAt time.Time `json:"uploadedAt"`
}

// ReportDetailResponse joins a report with its attachments.
type ReportDetailResponse struct {
	ReportView
	Attachments []AttachmentView `json:"attachments"`
}

func toReportDetailResponse(detail domain.ReportDetail) ReportDetailResponse {
	attachments := make([]AttachmentView, 0, len(detail.Attachments))
	for _, a := range detail.Attachments {
		attachments = append(attachments, AttachmentView{
			ID:         a.ID,
			FileURL:    a.FileURL,
			FileName:   a.FileName,
			FileType:   a.FileType,
			UploadedAt: a.UploadedAt,
		})
	}
	return ReportDetailResponse{
		ReportView:  toReportView(detail.Report),
		Attachments: attachments,
	}
}

// DashboardResponse aggregates the organization triage overview.
type DashboardResponse struct {
	Organization  OrganizationView `json:"organization"`
	ProgramCount  int              `json:"programCount"`
	TotalReports  int              `json:"totalReports"`
	StatusCounts  map[string]int   `json:"statusCounts"`
	RecentReports []ReportView     `json:"recentReports"`
}

// NotificationView describes a notification in API responses.
type NotificationView struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadResponse returns the hosted URL of an uploaded file.
type UploadResponse struct {
	URL string `json:"url"`
}

// LeaderboardEntry describes one ranked account.
type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	AccountID        string `json:"accountId"`
	Username         string `json:"username"`
	DisplayName      string `json:"displayName,omitempty"`
	AvatarURL        string `json:"avatarUrl,omitempty"`
	ReputationPoints int    `json:"reputationPoints"`
}
