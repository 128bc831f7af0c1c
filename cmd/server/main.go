package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"mari-gunting.backend/internal/config"
	"mari-gunting.backend/internal/infrastructure/gateway"
	"mari-gunting.backend/internal/infrastructure/jobs"
	"mari-gunting.backend/internal/infrastructure/repositories"
	"mari-gunting.backend/internal/interfaces/http/handlers"
	"mari-gunting.backend/internal/interfaces/http/middleware"
	"mari-gunting.backend/internal/usecases"
	"mari-gunting.backend/pkg/logger"
	"mari-gunting.backend/pkg/redis"
)

var (
	loadDotenv = godotenv.Load
	loadCfg    = config.Load
	initLog    = logger.Init
	initRedis  = redis.Init
	openDB     = func(dsn string) (*gorm.DB, error) {
		return gorm.Open(postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		}), &gorm.Config{
			PrepareStmt: false,
		})
	}
	runServer = func(r *gin.Engine, port string) error { return r.Run(":" + port) }
	getStdDB  = func(db *gorm.DB) (*sql.DB, error) { return db.DB() }
)

func main() {
	if err := runMainProcess(); err != nil {
		log.Fatal(err)
	}
}

func runMainProcess() error {
	// Load .env file
	if err := loadDotenv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := loadCfg()

	// Initialize Logger
	initLog(cfg.Server.Env)
	logger.Info(context.Background(), "Logger initialized", zap.String("env", cfg.Server.Env))

	// Initialize Redis
	if err := initRedis(cfg.Redis.URL, cfg.Redis.PASSWORD); err != nil {
		logger.Error(context.Background(), "Failed to initialize Redis", zap.Error(err))
		return fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Info(context.Background(), "Redis initialized")

	// Set Gin mode
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database using GORM
	dsn := cfg.Database.URL()
	db, err := openDB(dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := getStdDB(db)
	if err != nil {
		return fmt.Errorf("failed to get generic database object: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Printf("⚠️ Database not available: %v (endpoints will return errors)", err)
	} else {
		log.Println("✅ Connected to PostgreSQL via GORM")
	}

	// Initialize repositories
	bookingRepo := repositories.NewBookingRepository(db)
	recordRepo := repositories.NewPaymentRecordRepository(db)
	queueRepo := repositories.NewCaptureQueueRepository(db)
	eventRepo := repositories.NewWebhookEventRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Initialize gateway client
	curlecClient := gateway.NewClient(cfg.Curlec)

	// Initialize usecases
	bookingUsecase := usecases.NewBookingUsecase(bookingRepo, recordRepo, queueRepo, uow)
	paymentUsecase := usecases.NewPaymentUsecase(recordRepo, bookingRepo, eventRepo, curlecClient, uow, cfg.Curlec)
	webhookUsecase := usecases.NewWebhookUsecase(recordRepo, bookingRepo, eventRepo, uow, cfg.Curlec.WebhookSecret)

	// Initialize handlers
	bookingHandler := handlers.NewBookingHandler(bookingUsecase)
	paymentHandler := handlers.NewPaymentHandler(paymentUsecase)
	webhookHandler := handlers.NewWebhookHandler(webhookUsecase)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	captureJob := jobs.NewCaptureQueueJob(queueRepo, recordRepo, bookingRepo, curlecClient, cfg.Queue)
	go captureJob.Start(ctx)

	queueHandler := handlers.NewQueueHandler(captureJob)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		bookingHandler: bookingHandler,
		paymentHandler: paymentHandler,
		webhookHandler: webhookHandler,
		queueHandler:   queueHandler,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		captureJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Mari Gunting Payments starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
