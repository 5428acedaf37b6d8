package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IshratJahanEkra/BodyId/config"
	deliveryHttp "github.com/IshratJahanEkra/BodyId/internal/delivery/http"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/handler"
	"github.com/IshratJahanEkra/BodyId/internal/delivery/http/middleware"
	"github.com/IshratJahanEkra/BodyId/internal/infrastructure/cache"
	"github.com/IshratJahanEkra/BodyId/internal/infrastructure/database"
	"github.com/IshratJahanEkra/BodyId/internal/repository"
	"github.com/IshratJahanEkra/BodyId/internal/service"
	"github.com/IshratJahanEkra/BodyId/internal/usecase"
	"github.com/IshratJahanEkra/BodyId/pkg/jwt"
	"github.com/IshratJahanEkra/BodyId/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	app.Config = cfg
	logrus.Info("Configuration loaded successfully")

	// The demo payment shortcut must never be live in production.
	if cfg.App.FakePaymentEnabled && cfg.App.Env == "production" {
		return nil, errors.New("FAKE_PAYMENT_ENABLED must be off in production")
	}

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	app.DB = db

	if err := database.RunMigrations(cfg.DB); err != nil {
		return nil, err
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	app.RedisClient = redisClient

	// Initialize all layers
	server, err := initializeServer(cfg, db, redisClient)
	if err != nil {
		return nil, err
	}
	app.Server = server

	return app, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*http.Server, error) {
	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	ratingRepo := repository.NewRatingRepository()
	recordRepo := repository.NewRecordRepository()
	historyRepo := repository.NewHistoryRepository()
	paymentRepo := repository.NewPaymentRepository()
	auditLogRepo := repository.NewAuditLogRepository()

	// Initialize external services. The payment gateway is required;
	// storage, OCR and the analyzer degrade to explicit errors at the
	// endpoints that need them.
	gateway, err := service.NewStripeGateway(cfg.Stripe)
	if err != nil {
		return nil, err
	}

	storage, err := service.NewCloudinaryStorage(cfg.Cloudinary)
	if err != nil {
		logrus.Warnf("File storage disabled: %v", err)
		storage = nil
	}

	extractor, err := service.NewVisionExtractor(context.Background(), cfg.Vision)
	if err != nil {
		logrus.Warnf("OCR disabled: %v", err)
		extractor = nil
	}

	analyzer, err := service.NewOpenAIAnalyzer(cfg.OpenAI)
	if err != nil {
		logrus.Warnf("AI analysis disabled: %v", err)
		analyzer = nil
	}

	auditService := service.NewAuditService(log, auditLogRepo)

	// Initialize usecases
	authUsecase := usecase.NewAuthUsecase(db, log, userRepo, auditService, jwtService, redisClient)
	appointmentUsecase := usecase.NewAppointmentUsecase(db, log, appointmentRepo, userRepo, recordRepo, historyRepo, auditService)
	paymentUsecase := usecase.NewPaymentUsecase(cfg.App, db, log, appointmentRepo, paymentRepo, gateway, auditService)
	ratingUsecase := usecase.NewRatingUsecase(db, log, ratingRepo, appointmentRepo, userRepo, auditService)
	recordUsecase := usecase.NewRecordUsecase(db, log, recordRepo, userRepo, storage, auditService)
	historyUsecase := usecase.NewHistoryUsecase(db, log, historyRepo, userRepo, storage)
	analysisUsecase := usecase.NewAnalysisUsecase(db, log, userRepo, recordRepo, historyRepo, extractor, analyzer, storage, auditService)
	doctorUsecase := usecase.NewDoctorUsecase(db, log, userRepo, recordRepo, historyRepo, appointmentRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authUsecase, jwtService, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(appointmentUsecase, customValidator)
	paymentHandler := handler.NewPaymentHandler(paymentUsecase, customValidator)
	ratingHandler := handler.NewRatingHandler(ratingUsecase, customValidator)
	recordHandler := handler.NewRecordHandler(recordUsecase, customValidator)
	historyHandler := handler.NewHistoryHandler(historyUsecase, customValidator)
	analysisHandler := handler.NewAnalysisHandler(analysisUsecase)
	doctorHandler := handler.NewDoctorHandler(doctorUsecase)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService, redisClient)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		appointmentHandler,
		paymentHandler,
		ratingHandler,
		recordHandler,
		historyHandler,
		analysisHandler,
		doctorHandler,
		authMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:    serverAddr,
		Handler: httpRouter,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
