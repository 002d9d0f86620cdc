package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/bantus/rental-backend/internal/config"      // Environment config
	"github.com/bantus/rental-backend/internal/database"    // MySQL connection and schema
	"github.com/bantus/rental-backend/internal/handler"     // HTTP handlers
	"github.com/bantus/rental-backend/internal/idempotency" // Bill-generation lock
	"github.com/bantus/rental-backend/internal/logger"      // zap construction
	"github.com/bantus/rental-backend/internal/middleware"  // Auth, limits, cache, validation
	"github.com/bantus/rental-backend/internal/queue"       // RabbitMQ publisher and consumer
	"github.com/bantus/rental-backend/internal/repository"  // SQL stores
	"github.com/bantus/rental-backend/internal/router"      // Route registration
	"github.com/bantus/rental-backend/internal/service"     // Use cases
)

func main() {
	_ = godotenv.Load() // A missing .env is fine outside development

	cfg, err := config.Load() // Load environment config
	if err != nil {
		zap.NewExample().Fatal("config", zap.Error(err))
	}
	log := logger.New(config.LoadLogConfig(cfg.Env))
	defer func() { _ = log.Sync() }()

	db, err := database.Open(cfg) // Connect to MySQL
	if err != nil {
		log.Fatal("database open", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := database.EnsureSchema(ctx, db)
		cancel()
		if err != nil {
			log.Fatal("ensure schema", zap.Error(err))
		}
	}

	rdb := config.NewRedisClient(config.LoadRedisConfig()) // nil when Redis is down
	if rdb == nil {
		log.Warn("redis unavailable; rate limiting, caching and billing lock disabled")
	} else {
		defer rdb.Close()
	}

	billing := config.LoadBillingConfig()
	svc := service.New(service.Deps{
		Users:    repository.NewUserRepo(db),
		Tokens:   repository.NewTokenRepo(db),
		Props:    repository.NewPropertyRepo(db),
		Readings: repository.NewReadingRepo(db),
		Sessions: repository.NewSessionRepo(db),
		Bills:    repository.NewBillRepo(db),
		Payments: repository.NewPaymentRepo(db),
		Issues:   repository.NewIssueRepo(db),
		Guard:    idempotency.NewRedisGuard(rdb, billing.LockPrefix, billing.LockTTL),
		Auth: service.AuthConfig{
			JWTSecret:      cfg.JWTSecret,
			AccessTTLMin:   cfg.AccessTTLMin,
			RefreshTTLDays: cfg.RefreshTTLDays,
			BcryptCost:     cfg.BcryptCost,
		},
		Log: log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	qcfg := config.LoadQueueConfig()
	pub := queue.NewPublisher(qcfg, log)
	if qcfg.Enabled {
		go func() {
			if err := queue.StartNotificationConsumer(ctx, qcfg, log); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("notification consumer stopped", zap.Error(err))
			}
		}()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Validator = middleware.NewValidator()
	e.Use(middleware.RequestID(), middleware.RequestLogger(log), echomw.Recover())

	router.Register(e, router.Deps{ // Register application routes
		JWTSecret: cfg.JWTSecret,
		Redis:     rdb,
		RateLimit: config.LoadRateLimitConfig(),
		Cache:     config.LoadCacheConfig(),
		Log:       log,
		Health:    &handler.HealthHandler{DB: db, Redis: rdb},
		Auth:      handler.NewAuthHandler(svc.Auth),
		Landlord:  handler.NewLandlordHandler(svc, pub),
		Tenant:    handler.NewTenantHandler(svc, pub),
	})

	addr := ":" + cfg.Port
	go func() {
		log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
	log.Info("stopped")
}
