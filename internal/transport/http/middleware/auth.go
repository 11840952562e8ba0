package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// PrincipalKey is the gin context key holding the resolved principal.
const PrincipalKey = "principal"

// authError mirrors the handler error envelope. Defined here instead of
// importing the handlers package, which itself imports middleware.
type authError struct {
	Error   string `json:"error"`
	TraceID string `json:"trace_id,omitempty"`
}

func abortUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, authError{
		Error:   message,
		TraceID: GetTraceID(c),
	})
}

// RequireAuth resolves the bearer token into a live principal and stores it
// on the request. Requests without a valid session never reach the handler.
func RequireAuth(access *usecase.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthenticated(c, "missing authorization header")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			abortUnauthenticated(c, "invalid authorization header")
			return
		}

		principal, err := access.ResolvePrincipal(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			abortUnauthenticated(c, "invalid or expired session")
			return
		}

		c.Set(PrincipalKey, principal)
		c.Set(UserIDKey, principal.AccountID)
		if reqCtx := GetRequestContext(c); reqCtx != nil {
			reqCtx.UserID = principal.AccountID
		}

		c.Next()
	}
}

// RequireRole gates a route group on the principal's stored role. It must be
// chained after RequireAuth.
func RequireRole(role domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			abortUnauthenticated(c, "authentication required")
			return
		}
		if principal.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, authError{
				Error:   "insufficient permissions",
				TraceID: GetTraceID(c),
			})
			return
		}
		c.Next()
	}
}

// PrincipalFromContext returns the principal stored by RequireAuth.
func PrincipalFromContext(c *gin.Context) (*domain.Principal, bool) {
	v, exists := c.Get(PrincipalKey)
	if !exists {
		return nil, false
	}
	principal, ok := v.(*domain.Principal)
	return principal, ok && principal != nil
}
