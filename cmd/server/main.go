package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"cordoba/internal/config"
	"cordoba/internal/domain"
	"cordoba/internal/handler"
	"cordoba/internal/importer"
	"cordoba/internal/logger"
	"cordoba/internal/middleware"
	"cordoba/internal/port"
	"cordoba/internal/preview"
	"cordoba/internal/repository/postgres"
	"cordoba/internal/router"
	"cordoba/internal/service"
	"cordoba/internal/storage/noop"
	s3storage "cordoba/internal/storage/s3"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(cfg.Log)
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	var redisClient redis.UniversalClient
	if cfg.Preview.Store == "redis" || (cfg.RateLimit.Enabled && cfg.RateLimit.Store == "redis") {
		redisClient = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs:    []string{cfg.Redis.Addr},
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
	}

	// Initialize preview cache
	var previews port.PreviewStore
	switch cfg.Preview.Store {
	case "redis":
		previews = preview.NewRedisStore(redisClient, cfg.Preview.TTL)
	default:
		previews = preview.NewMemoryStore(cfg.Preview.TTL, cfg.Preview.MaxEntries)
	}

	// Initialize storage
	var storage port.ObjectStorage = noop.NewStorage()
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewArchive(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize repositories
	tenantRepo := postgres.NewTenantRepo(db)
	userRepo := postgres.NewUserRepo(db)
	debtorRepo := postgres.NewDebtorRepo(db)
	contractRepo := postgres.NewContractRepo(db)
	runRepo := postgres.NewImportRunRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Import pipeline
	classifier := importer.NewClassifier(debtorRepo, domain.ParseDuplicatePrecedence(cfg.Import.DuplicatePrecedence))
	executor := importer.NewExecutor(postgres.NewTransactor(db), runRepo, log)

	// Initialize services
	authSvc := service.NewAuthService(userRepo, tenantRepo, cfg.JWT)
	importSvc := service.NewImportService(
		classifier, executor, previews, runRepo, debtorRepo, statsRepo,
		storage, cfg.S3.Bucket, cfg.Import, log,
	)
	debtorSvc := service.NewDebtorService(debtorRepo, contractRepo)
	contractSvc := service.NewContractService(contractRepo, debtorRepo)
	dashboardSvc := service.NewDashboardService(statsRepo, tenantRepo)
	userSvc := service.NewUserService(userRepo, tenantRepo)

	checks := map[string]handler.Pinger{"database": db}
	if redisClient != nil {
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
	}

	opts := router.Options{Log: log, CORS: middleware.CORS(cfg.CORS)}
	if cfg.RateLimit.Enabled {
		store, err := middleware.NewRateLimitStore(cfg.RateLimit, redisClient)
		if err != nil {
			return fmt.Errorf("failed to initialize rate limiter: %w", err)
		}
		opts.RateLimit = middleware.RateLimit(store, cfg.RateLimit.PerMinute, log)
	}

	// Setup router
	r := router.Setup(authSvc, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Import:    handler.NewImportHandler(importSvc, cfg.Import.MaxUploadBytes()),
		Debtor:    handler.NewDebtorHandler(debtorSvc),
		Contract:  handler.NewContractHandler(contractSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Health:    handler.NewHealthHandler(cfg.Server.AppName, cfg.Server.Version, checks),
		User:      handler.NewUserHandler(userSvc),
	}, opts)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		preview.NewSweeper(previews, cfg.Preview.SweepInterval, log).Start(gctx)
		return nil
	})
	if cfg.S3.Bucket != "" && cfg.Import.ArchiveUploads {
		g.Go(func() error {
			service.NewArchiveJanitor(storage, runRepo, cfg.S3.Bucket, cfg.Import, log).Start(gctx)
			return nil
		})
	}
	g.Go(func() error {
		log.WithFields(logrus.Fields{
			"addr":          cfg.Server.Port,
			"environment":   cfg.Server.Environment,
			"preview_store": cfg.Preview.Store,
			"archive":       cfg.S3.Bucket != "",
		}).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
