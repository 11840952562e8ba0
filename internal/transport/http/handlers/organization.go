package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/transport/http/middleware"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// OrganizationHandler exposes the organization-side surface: program
// publication, triage listing, and status transitions.
type OrganizationHandler struct {
	organizations *usecase.OrganizationService
	reports       *usecase.ReportService
}

// NewOrganizationHandler constructs OrganizationHandler.
func NewOrganizationHandler(organizations *usecase.OrganizationService, reports *usecase.ReportService) *OrganizationHandler {
	return &OrganizationHandler{organizations: organizations, reports: reports}
}

// RegisterRoutes binds organization routes. Callers must already be
// authenticated with the organization role.
func (h *OrganizationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/dashboard", h.dashboard)
	r.GET("/programs", h.listPrograms)
	r.POST("/programs", h.createProgram)
	r.GET("/reports", h.listReports)
	r.PUT("/reports/:id/status", h.updateReportStatus)
}

var organizationErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed"},
	{Err: usecase.ErrUnauthorized, Status: http.StatusUnauthorized, Message: "authentication required"},
	{Err: usecase.ErrOrganizationNotFound, Status: http.StatusNotFound, Message: "organization not found"},
	{Err: usecase.ErrInvalidBountyRange, Status: http.StatusBadRequest, Message: "invalid bounty range"},
	{Err: usecase.ErrReportNotFound, Status: http.StatusNotFound, Message: "report not found"},
	{Err: usecase.ErrInvalidReportStatus, Status: http.StatusBadRequest, Message: "invalid report status"},
}

func (h *OrganizationHandler) dashboard(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	dashboard, err := h.organizations.GetDashboard(c.Request.Context(), principal)
	if err != nil {
		RespondWithMappedError(c, err, organizationErrorCases, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	statusCounts := make(map[string]int, len(dashboard.StatusCounts))
	for status, count := range dashboard.StatusCounts {
		statusCounts[string(status)] = count
	}

	c.JSON(http.StatusOK, DashboardResponse{
		Organization:  toOrganizationView(dashboard.Organization),
		ProgramCount:  dashboard.ProgramCount,
		TotalReports:  dashboard.TotalReports,
		StatusCounts:  statusCounts,
		RecentReports: toReportViews(dashboard.RecentReports),
	})
}

func (h *OrganizationHandler) listPrograms(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	programs, err := h.organizations.GetMyPrograms(c.Request.Context(), principal)
	if err != nil {
		RespondWithMappedError(c, err, organizationErrorCases, http.StatusInternalServerError, "failed to list programs")
		return
	}

	views := make([]ProgramView, 0, len(programs))
	for _, program := range programs {
		views = append(views, toProgramView(program))
	}

	c.JSON(http.StatusOK, views)
}

func (h *OrganizationHandler) createProgram(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	program, err := h.organizations.CreateProgram(c.Request.Context(), principal, usecase.CreateProgramInput{
		Title:       req.Title,
		Description: req.Description,
		Policy:      req.Policy,
		Scope:       req.Scope,
		OutOfScope:  req.OutOfScope,
		MinBounty:   req.MinBounty,
		MaxBounty:   req.MaxBounty,
		Tags:        req.Tags,
	})
	if err != nil {
		RespondWithMappedError(c, err, organizationErrorCases, http.StatusInternalServerError, "failed to create program")
		return
	}

	c.JSON(http.StatusCreated, toProgramView(*program))
}

func (h *OrganizationHandler) listReports(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	reports, err := h.organizations.GetOrgReports(c.Request.Context(), principal)
	if err != nil {
		RespondWithMappedError(c, err, organizationErrorCases, http.StatusInternalServerError, "failed to list reports")
		return
	}

	c.JSON(http.StatusOK, toReportViews(reports))
}

func (h *OrganizationHandler) updateReportStatus(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateReportStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), principal, c.Param("id"), req.Status)
	if err != nil {
		RespondWithMappedError(c, err, organizationErrorCases, http.StatusInternalServerError, "failed to update report status")
		return
	}

	c.JSON(http.StatusOK, toReportView(*report))
}
