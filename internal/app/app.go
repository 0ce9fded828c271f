package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/loki1512/MS-Fitness-Gym/database"
	"github.com/loki1512/MS-Fitness-Gym/internal/auth"
	"github.com/loki1512/MS-Fitness-Gym/internal/config"
	"github.com/loki1512/MS-Fitness-Gym/internal/email"
	"github.com/loki1512/MS-Fitness-Gym/internal/handlers"
	"github.com/loki1512/MS-Fitness-Gym/internal/logger"
	"github.com/loki1512/MS-Fitness-Gym/internal/metrics"
	"github.com/loki1512/MS-Fitness-Gym/internal/middleware"
	"github.com/loki1512/MS-Fitness-Gym/internal/routes"
	"github.com/loki1512/MS-Fitness-Gym/internal/services"
	"github.com/loki1512/MS-Fitness-Gym/internal/services/dto"
	"github.com/loki1512/MS-Fitness-Gym/internal/telemetry"
	"github.com/loki1512/MS-Fitness-Gym/internal/validator"
	"github.com/loki1512/MS-Fitness-Gym/internal/workers"
	"github.com/loki1512/MS-Fitness-Gym/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	idleTimeout            = 120 * time.Second
	rateLimiterSweepPeriod = time.Minute
)

// Run serves the API until SIGINT or SIGTERM, then drains in-flight requests.
func Run() {
	cfg := config.GetConfig()
	Configure(cfg)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", "error", err)
	}

	logger.Info("Connecting to database...", "driver", cfg.Database.Driver)
	gormDB, err := OpenDatabase(ctx, cfg)
	if err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	emailProvider, err := NewEmailProvider(cfg)
	if err != nil {
		logger.Fatal("Failed to initialize email provider", "error", err)
	}
	defer emailProvider.Close()

	container := services.NewServiceContainer(emailProvider, nil)

	if err := seedFirstAdmin(ctx, gormDB, cfg, container.AuthService); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	go limiter.Cleanup(ctx, rateLimiterSweepPeriod)

	workers.NewStatusWorker(gormDB, container.MembershipService, cfg.Workers.StatusRefreshInterval).Start(ctx)

	ginRouter := newRouter(cfg, gormDB, container, limiter)

	srv := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middleware.CORS(cfg.Server.AllowedOrigins)(ginRouter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  idleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info(fmt.Sprintf("Server starting on %s", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal("Server startup error", "error", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("Tracer shutdown error", "error", err)
	}
	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}
	logger.Info("Server stopped")
}

// Configure applies the process-wide settings derived from cfg: logging,
// error verbosity, token signing and metric registration.
func Configure(cfg *config.Config) {
	logger.Init(cfg.Server.Env)
	apperrors.SetDebug(!cfg.IsProduction())
	auth.Configure(cfg.JWT.Secret, time.Duration(cfg.JWT.TTL)*time.Minute)
	metrics.Register(nil)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
}

// OpenDatabase connects, checks reachability and prepares the schema. Without
// auto_migrate only the fixed role rows are ensured.
func OpenDatabase(ctx context.Context, cfg *config.Config) (*gorm.DB, error) {
	gormDB, err := database.Open(cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get *sql.DB from GORM: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("database ping: %w", err)
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(gormDB); err != nil {
			return nil, err
		}
		logger.Info("Database schema migrated")
	} else if err := database.SeedRoles(gormDB); err != nil {
		return nil, err
	}
	return gormDB, nil
}

// NewEmailProvider returns the SMTP provider when email is enabled and the
// logging provider otherwise.
func NewEmailProvider(cfg *config.Config) (email.Provider, error) {
	templates, err := email.NewDefaultTemplateManager(cfg.Email.TemplatesDir)
	if err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}
	logger.Debug("Email templates loaded", "templates", templates.TemplateNames())

	if !cfg.Email.Enabled {
		logger.Warn("Email delivery disabled, messages are only logged")
		return NewLogEmailProvider(templates), nil
	}

	provider := email.NewSMTPProvider(email.ConfigFrom(cfg), templates)
	if err := provider.Validate(); err != nil {
		return nil, err
	}
	return provider, nil
}

// SetupRouter builds the complete gin engine over gormDB. The integration
// tests serve it through httptest.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB, emailProvider email.Provider) *gin.Engine {
	container := services.NewServiceContainer(emailProvider, nil)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	return newRouter(cfg, gormDB, container, limiter)
}

func newRouter(cfg *config.Config, gormDB *gorm.DB, container *services.ServiceContainer, limiter *middleware.RateLimiter) *gin.Engine {
	appHandlers := initializeHandlers(container, limiter)
	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, cfg)
	return ginRouter
}

func initializeHandlers(container *services.ServiceContainer, limiter *middleware.RateLimiter) *handlers.AppHandlers {
	baseHandler := handlers.NewBaseHandler(validator.New())

	return &handlers.AppHandlers{
		SystemHandler:  handlers.NewSystemHandler(baseHandler, container.ReportService),
		AuthHandler:    handlers.NewAuthHandler(baseHandler, container.AuthService, limiter.Middleware()),
		ProfileHandler: handlers.NewProfileHandler(baseHandler, container.UserService),
		UserHandler:    handlers.NewUserHandler(baseHandler, container.UserService),
		PlanHandler:    handlers.NewPlanHandler(baseHandler, container.PlanService),
		PaymentHandler: handlers.NewPaymentHandler(baseHandler, container.PaymentService),
		MembershipHandler: handlers.NewMembershipHandler(
			baseHandler,
			container.MembershipService,
			container.ReportService,
			container.NotificationService,
		),
		ReportHandler: handlers.NewReportHandler(baseHandler, container.ReportService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin creates the configured admin when no admin exists yet.
func seedFirstAdmin(ctx context.Context, db *gorm.DB, cfg *config.Config, authService services.AuthService) error {
	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		logger.Warn("FIRST_ADMIN_EMAIL or FIRST_ADMIN_PASSWORD is not set. Skipping admin seeding.")
		return nil
	}

	created, err := authService.EnsureAdmin(ctx, db, &dto.RegisterRequest{
		Name:     cfg.Admin.Name,
		Phone:    cfg.Admin.Phone,
		Email:    cfg.Admin.Email,
		Password: cfg.Admin.Password,
	})
	if err != nil {
		return err
	}
	if created {
		logger.Info("Created first admin user", "email", cfg.Admin.Email)
	} else {
		logger.Info("Admin user already exists. Skipping creation.")
	}
	return nil
}
