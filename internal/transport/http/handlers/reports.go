package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/transport/http/middleware"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// ReportHandler exposes the hacker-side report workflow.
type ReportHandler struct {
	reports *usecase.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *usecase.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes binds report routes. All require authentication.
func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/reports", h.submit)
	r.GET("/reports", h.listOwn)
	r.GET("/reports/:id", h.get)
}

var reportErrorCases = []ErrorCase{
	{Err: usecase.ErrForbidden, Status: http.StatusForbidden, Message: "not allowed"},
	{Err: usecase.ErrUnauthorized, Status: http.StatusUnauthorized, Message: "authentication required"},
	{Err: usecase.ErrReportNotFound, Status: http.StatusNotFound, Message: "report not found"},
	{Err: usecase.ErrProgramNotFound, Status: http.StatusNotFound, Message: "program not found"},
	{Err: usecase.ErrInvalidReportStatus, Status: http.StatusBadRequest, Message: "invalid report status"},
}

func (h *ReportHandler) submit(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	attachments := make([]usecase.AttachmentInput, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		attachments = append(attachments, usecase.AttachmentInput{
			FileURL:  a.FileURL,
			FileName: a.FileName,
			FileType: a.FileType,
		})
	}

	detail, err := h.reports.Submit(c.Request.Context(), principal, usecase.SubmitReportInput{
		ProgramID:        req.ProgramID,
		Title:            req.Title,
		Severity:         req.Severity,
		Description:      req.Description,
		StepsToReproduce: req.StepsToReproduce,
		Impact:           req.Impact,
		Attachments:      attachments,
	})
	if err != nil {
		RespondWithMappedError(c, err, reportErrorCases, http.StatusInternalServerError, "failed to submit report")
		return
	}

	c.JSON(http.StatusCreated, toReportDetailResponse(*detail))
}

func (h *ReportHandler) listOwn(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	reports, err := h.reports.GetOwnReports(c.Request.Context(), principal)
	if err != nil {
		RespondWithMappedError(c, err, reportErrorCases, http.StatusInternalServerError, "failed to list reports")
		return
	}

	c.JSON(http.StatusOK, toReportViews(reports))
}

func (h *ReportHandler) get(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	detail, err := h.reports.GetReportDetail(c.Request.Context(), principal, c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, reportErrorCases, http.StatusInternalServerError, "failed to load report")
		return
	}

	c.JSON(http.StatusOK, toReportDetailResponse(*detail))
}
