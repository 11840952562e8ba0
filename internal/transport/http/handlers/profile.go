package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/transport/http/middleware"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// ProfileHandler exposes public profiles, self-service updates, stats, and the leaderboard.
type ProfileHandler struct {
	profiles *usecase.ProfileService
}

// NewProfileHandler constructs ProfileHandler.
func NewProfileHandler(profiles *usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// RegisterPublicRoutes binds routes that require no session.
func (h *ProfileHandler) RegisterPublicRoutes(r *gin.RouterGroup) {
	r.GET("/leaderboard", h.leaderboard)
	r.GET("/profiles/:id", h.getProfile)
}

// RegisterRoutes binds authenticated profile routes.
func (h *ProfileHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/profile", h.getOwnProfile)
	r.PUT("/profile", h.updateProfile)
	r.GET("/profile/stats", h.getStats)
}

func (h *ProfileHandler) getProfile(c *gin.Context) {
	account, err := h.profiles.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, toAccountSummary(*account))
}

func (h *ProfileHandler) getOwnProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	account, err := h.profiles.GetProfile(c.Request.Context(), principal.AccountID)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to load profile")
		return
	}

	c.JSON(http.StatusOK, toAccountSummary(*account))
}

func (h *ProfileHandler) updateProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "invalid request payload"))
		return
	}

	account, err := h.profiles.UpdateProfile(c.Request.Context(), principal, usecase.UpdateProfileInput{
		DisplayName: req.DisplayName,
		Bio:         req.Bio,
	})
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to update profile")
		return
	}

	c.JSON(http.StatusOK, toAccountSummary(*account))
}

func (h *ProfileHandler) getStats(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	stats, err := h.profiles.GetStats(c.Request.Context(), principal)
	if err != nil {
		RespondWithMappedError(c, err, []ErrorCase{
			{Err: usecase.ErrAccountNotFound, Status: http.StatusNotFound, Message: "account not found"},
		}, http.StatusInternalServerError, "failed to load stats")
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		TotalReports:     stats.TotalReports,
		AcceptedReports:  stats.AcceptedReports,
		ResolvedReports:  stats.ResolvedReports,
		TotalEarnings:    stats.TotalEarnings,
		ReputationPoints: stats.ReputationPoints,
	})
}

func (h *ProfileHandler) leaderboard(c *gin.Context) {
	accounts, err := h.profiles.GetLeaderboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to load leaderboard"))
		return
	}

	entries := make([]LeaderboardEntry, 0, len(accounts))
	for i, account := range accounts {
		entries = append(entries, LeaderboardEntry{
			Rank:             i + 1,
			AccountID:        account.ID,
			Username:         account.Username,
			DisplayName:      account.DisplayName,
			AvatarURL:        account.AvatarURL,
			ReputationPoints: account.ReputationPoints,
		})
	}

	c.JSON(http.StatusOK, entries)
}
