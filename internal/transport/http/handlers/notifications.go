package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/transport/http/middleware"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// NotificationHandler exposes the account notification feed.
type NotificationHandler struct {
	notifications *usecase.NotificationService
}

// NewNotificationHandler constructs NotificationHandler.
func NewNotificationHandler(notifications *usecase.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// RegisterRoutes binds notification routes. All require authentication.
func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notifications", h.list)
}

func (h *NotificationHandler) list(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "authentication required"))
		return
	}

	notifications, err := h.notifications.ListForAccount(c.Request.Context(), principal)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "failed to list notifications"))
		return
	}

	views := make([]NotificationView, 0, len(notifications))
	for _, notification := range notifications {
		views = append(views, NotificationView{
			ID:        notification.ID,
			Type:      notification.Type,
			Message:   notification.Message,
			Read:      notification.Read,
			CreatedAt: notification.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, views)
}
