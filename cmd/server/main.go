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

	"sats-chat.backend/internal/config"
	"sats-chat.backend/internal/infrastructure/jobs"
	"sats-chat.backend/internal/infrastructure/models"
	"sats-chat.backend/internal/infrastructure/notify"
	"sats-chat.backend/internal/infrastructure/repositories"
	"sats-chat.backend/internal/interfaces/http/handlers"
	"sats-chat.backend/internal/interfaces/http/middleware"
	"sats-chat.backend/internal/usecases"
	"sats-chat.backend/pkg/logger"
	"sats-chat.backend/pkg/redis"
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
	if err := initRedis(cfg.Redis.URL, cfg.Redis.Password); err != nil {
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
		if err := db.AutoMigrate(
			&models.User{},
			&models.Account{},
			&models.Wallet{},
			&models.TransferTransaction{},
			&models.Transaction{},
			&models.Conversation{},
			&models.Participant{},
			&models.Message{},
			&models.Notification{},
			&models.PaymentRequest{},
		); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	accountRepo := repositories.NewAccountRepository(db)
	walletRepo := repositories.NewWalletRepository(db)
	transferRepo := repositories.NewTransferRepository(db)
	ledgerRepo := repositories.NewLedgerRepository(db)
	conversationRepo := repositories.NewConversationRepository(db)
	messageRepo := repositories.NewMessageRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	paymentRequestRepo := repositories.NewPaymentRequestRepository(db)
	uow := repositories.NewUnitOfWork(db)

	// Notification fan-out over Redis pub/sub
	publisher := notify.NewPublisher()

	// Initialize usecases
	walletUsecase := usecases.NewWalletUsecase(walletRepo, accountRepo, userRepo)
	transferUsecase := usecases.NewTransferUsecase(
		walletUsecase,
		walletRepo,
		accountRepo,
		userRepo,
		transferRepo,
		ledgerRepo,
		conversationRepo,
		messageRepo,
		notificationRepo,
		uow,
		publisher,
	)
	paymentRequestUsecase := usecases.NewPaymentRequestUsecase(
		paymentRequestRepo,
		messageRepo,
		notificationRepo,
		conversationRepo,
		walletUsecase,
		transferUsecase,
		uow,
		publisher,
		cfg.Transfer.RequestTTL,
		cfg.Transfer.EditWindow,
		cfg.Transfer.SweepBatchSize,
	)

	// Initialize handlers
	walletHandler := handlers.NewWalletHandler(walletUsecase, transferUsecase)
	transferHandler := handlers.NewTransferHandler(transferUsecase, walletUsecase)
	paymentRequestHandler := handlers.NewPaymentRequestHandler(paymentRequestUsecase)

	authMiddleware := middleware.AuthMiddleware(cfg.Auth.JWTSecret)

	// Start background jobs
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	expiryJob := jobs.NewPaymentRequestExpiryJob(paymentRequestUsecase, cfg.Transfer.SweepInterval)
	go expiryJob.Start(ctx)

	// Initialize router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	applyCORSMiddleware(r)
	registerHealthRoute(r)
	registerMetricsRoute(r)
	registerAPIV1Routes(r, routeDeps{
		walletHandler:         walletHandler,
		transferHandler:       transferHandler,
		paymentRequestHandler: paymentRequestHandler,
		authMiddleware:        authMiddleware,
	})

	// Graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("🛑 Shutting down server...")
		expiryJob.Stop()
		cancel()
	}()

	// Start server
	log.Printf("🚀 Sats-Chat Backend starting on port %s", cfg.Server.Port)
	log.Printf("📚 API: http://localhost:%s/api/v1", cfg.Server.Port)
	log.Printf("❤️ Health: http://localhost:%s/health", cfg.Server.Port)

	if err := runServer(r, cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}
