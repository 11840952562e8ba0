package routes

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/core/domain"
	"github.com/outer-user-333/recon-0-lite/internal/infra/config"
	"github.com/outer-user-333/recon-0-lite/internal/transport/http/handlers"
	"github.com/outer-user-333/recon-0-lite/internal/transport/http/middleware"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

// DatabaseChecker is the readiness probe surface of the postgres pool.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker is the readiness probe surface of the redis client.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// ServiceSet carries the usecase services the router wires up. Nil entries
// leave their routes unregistered, which keeps partial wiring (tests,
// disabled uploads) working.
type ServiceSet struct {
	Auth          *usecase.AuthService
	Access        *usecase.AccessService
	Profiles      *usecase.ProfileService
	Programs      *usecase.ProgramService
	Reports       *usecase.ReportService
	Organizations *usecase.OrganizationService
	Notifications *usecase.NotificationService
	Uploads       *usecase.UploadService
}

// Dependencies bundles everything Register needs to build the engine.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	Metrics     *middleware.HTTPMetrics
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register builds the gin engine and mounts all routes.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config != nil && deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))
	if deps.Config != nil {
		r.Use(middleware.CORS(deps.Config.App.AllowedOrigins))
	}
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Handler())
	}

	health := handlers.NewHealthHandler(readinessChecks(deps))
	r.GET("/healthz", health.Status)
	r.GET("/readyz", health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	if deps.Services.Auth != nil {
		authGroup := v1.Group("/auth")
		handlers.NewAuthHandler(deps.Services.Auth).RegisterRoutes(authGroup, authRateLimits(deps)...)
	}

	if deps.Services.Profiles != nil {
		handlers.NewProfileHandler(deps.Services.Profiles).RegisterPublicRoutes(v1)
	}
	if deps.Services.Programs != nil {
		handlers.NewProgramHandler(deps.Services.Programs).RegisterRoutes(v1)
	}

	// Everything past this point needs a session.
	if deps.Services.Access == nil {
		return r
	}
	requireAuth := middleware.RequireAuth(deps.Services.Access)

	authed := v1.Group("")
	authed.Use(requireAuth)

	if deps.Services.Profiles != nil {
		handlers.NewProfileHandler(deps.Services.Profiles).RegisterRoutes(authed)
	}
	if deps.Services.Reports != nil {
		handlers.NewReportHandler(deps.Services.Reports).RegisterRoutes(authed)
	}
	if deps.Services.Notifications != nil {
		handlers.NewNotificationHandler(deps.Services.Notifications).RegisterRoutes(authed)
	}
	if deps.Services.Uploads != nil {
		handlers.NewUploadHandler(deps.Services.Uploads).RegisterRoutes(authed)
	}

	if deps.Services.Organizations != nil && deps.Services.Reports != nil {
		org := v1.Group("/organization")
		org.Use(requireAuth, middleware.RequireRole(domain.RoleOrganization))
		handlers.NewOrganizationHandler(deps.Services.Organizations, deps.Services.Reports).RegisterRoutes(org)
	}

	return r
}

// authRateLimits builds the sliding-window rules applied to register and
// login. Without a rate limiter (no Redis) the auth routes run unguarded.
func authRateLimits(deps Dependencies) []gin.HandlerFunc {
	if deps.RateLimiter == nil || deps.Config == nil {
		return nil
	}

	rl := deps.Config.RateLimit
	return []gin.HandlerFunc{deps.RateLimiter.RateLimit(
		middleware.RateLimitRule{
			Name:       "login_ip",
			Limit:      rl.LoginMaxAttempts,
			Window:     rl.WindowDuration,
			Identifier: pathScopedIP("/login"),
		},
		middleware.RateLimitRule{
			Name:       "register_ip",
			Limit:      rl.RegisterMaxAttempts,
			Window:     rl.WindowDuration,
			Identifier: pathScopedIP("/register"),
		},
	)}
}

// pathScopedIP limits by client IP but only on the route whose pattern ends
// with the given suffix, so login and register keep separate budgets.
func pathScopedIP(suffix string) middleware.IdentifierFunc {
	return func(c *gin.Context) (string, bool) {
		if !strings.HasSuffix(c.FullPath(), suffix) {
			return "", false
		}
		ip := c.ClientIP()
		return ip, ip != ""
	}
}

func readinessChecks(deps Dependencies) map[string]handlers.ReadinessCheck {
	checks := make(map[string]handlers.ReadinessCheck)
	if deps.Database != nil {
		checks["postgres"] = deps.Database.Ping
	}
	if deps.Cache != nil {
		checks["redis"] = deps.Cache.HealthCheck
	}
	return checks
}
