package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/outer-user-333/recon-0-lite/internal/core/port"
	"github.com/outer-user-333/recon-0-lite/internal/infra/config"
	"github.com/outer-user-333/recon-0-lite/internal/infra/database"
	kafkainfra "github.com/outer-user-333/recon-0-lite/internal/infra/kafka"
	"github.com/outer-user-333/recon-0-lite/internal/infra/logger"
	redisinfra "github.com/outer-user-333/recon-0-lite/internal/infra/redis"
	"github.com/outer-user-333/recon-0-lite/internal/infra/security"
	"github.com/outer-user-333/recon-0-lite/internal/infra/upload"
	postgresrepo "github.com/outer-user-333/recon-0-lite/internal/repository/postgres"
	redisrepo "github.com/outer-user-333/recon-0-lite/internal/repository/redis"
	"github.com/outer-user-333/recon-0-lite/internal/transport/http/middleware"
	"github.com/outer-user-333/recon-0-lite/internal/transport/http/routes"
	"github.com/outer-user-333/recon-0-lite/internal/usecase"
)

type Application struct {
	cfg    *config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
	pool   *pgxpool.Pool
	redis  *redisinfra.Client
	kafka  *kafkainfra.Producer
}

func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	argonCfg := security.Argon2Config{
		Memory:      cfg.Argon2.Memory,
		Iterations:  cfg.Argon2.Iterations,
		Parallelism: cfg.Argon2.Parallelism,
		SaltLength:  cfg.Argon2.SaltLength,
		KeyLength:   cfg.Argon2.KeyLength,
	}
	if err := security.ConfigureArgon2(argonCfg); err != nil {
		return nil, fmt.Errorf("configure argon2: %w", err)
	}

	tokenIssuer, err := security.NewTokenIssuer(cfg.JWT.Secret, cfg.JWT.TokenTTL, cfg.App.Name)
	if err != nil {
		return nil, fmt.Errorf("init token issuer: %w", err)
	}
	log.Info("token issuer ready",
		zap.String("secret", logger.MaskString(cfg.JWT.Secret)),
		zap.Duration("ttl", tokenIssuer.TTL()),
	)

	repos := postgresrepo.NewRepositories(pool)

	// Redis is optional. Without it the rate limiter is simply not applied.
	var redisClient *redisinfra.Client
	var rateLimiter *middleware.RateLimiter
	if cfg.Redis.Host != "" {
		redisClient, err = redisinfra.NewClient(cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("init redis: %w", err)
		}

		rateLimitWindow := cfg.RateLimit.WindowDuration
		if rateLimitWindow <= 0 {
			rateLimitWindow = time.Minute
		}
		rateLimitStore := redisrepo.NewAttemptStore(redisClient.Client(), redisrepo.AttemptStoreConfig{
			KeyPrefix: "recon:rate-limit",
			TTL:       rateLimitWindow * 2,
		})
		rateLimiter = middleware.NewRateLimiter(rateLimitStore, log)
	} else {
		log.Info("redis host not configured, rate limiting disabled")
	}

	var kafkaProducer *kafkainfra.Producer
	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer, err = kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			kafkaProducer = nil
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(kafkaProducer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	authService, err := usecase.NewAuthService(repos.Accounts, security.DefaultPasswordValidator(), tokenIssuer, eventPublisher)
	if err != nil {
		return nil, fmt.Errorf("init auth service: %w", err)
	}

	accessService, err := usecase.NewAccessService(tokenIssuer, repos.Accounts)
	if err != nil {
		return nil, fmt.Errorf("init access service: %w", err)
	}

	profileService, err := usecase.NewProfileService(repos.Accounts, repos.Reports)
	if err != nil {
		return nil, fmt.Errorf("init profile service: %w", err)
	}

	programService, err := usecase.NewProgramService(repos.Programs, repos.Organizations)
	if err != nil {
		return nil, fmt.Errorf("init program service: %w", err)
	}

	reportService, err := usecase.NewReportService(repos.Reports, repos.Programs, repos.Notifications, eventPublisher)
	if err != nil {
		return nil, fmt.Errorf("init report service: %w", err)
	}

	organizationService, err := usecase.NewOrganizationService(repos.Organizations, repos.Programs, repos.Reports)
	if err != nil {
		return nil, fmt.Errorf("init organization service: %w", err)
	}

	notificationService, err := usecase.NewNotificationService(repos.Notifications)
	if err != nil {
		return nil, fmt.Errorf("init notification service: %w", err)
	}

	// Uploads are optional. Without a configured cloud the endpoints are not registered.
	var uploadService *usecase.UploadService
	if cfg.Upload.CloudName != "" {
		sink, err := upload.NewCloudinaryClient(cfg.Upload, log)
		if err != nil {
			return nil, fmt.Errorf("init upload client: %w", err)
		}
		uploadService, err = usecase.NewUploadService(sink, repos.Accounts, repos.Organizations)
		if err != nil {
			return nil, fmt.Errorf("init upload service: %w", err)
		}
	} else {
		log.Info("upload cloud not configured, upload endpoints disabled")
	}

	metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{})
	if err != nil {
		return nil, fmt.Errorf("init http metrics: %w", err)
	}

	deps := routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		Metrics:     metrics,
		Database:    pool,
		Services: routes.ServiceSet{
			Auth:          authService,
			Access:        accessService,
			Profiles:      profileService,
			Programs:      programService,
			Reports:       reportService,
			Organizations: organizationService,
			Notifications: notificationService,
			Uploads:       uploadService,
		},
	}
	if redisClient != nil {
		deps.Cache = redisClient
	}

	engine := routes.Register(deps)

	return &Application{
		cfg:    cfg,
		engine: engine,
		logger: log,
		pool:   pool,
		redis:  redisClient,
		kafka:  kafkaProducer,
	}, nil
}

func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()
	defer func() {
		if a.kafka != nil {
			_ = a.kafka.Close()
		}
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting platform API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
