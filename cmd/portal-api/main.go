package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"contract-portal/contract-portal-backend/internal/auth"
	"contract-portal/contract-portal-backend/internal/config"
	"contract-portal/contract-portal-backend/internal/contracts"
	"contract-portal/contract-portal-backend/internal/exports"
	"contract-portal/contract-portal-backend/internal/generation"
	"contract-portal/contract-portal-backend/internal/generator"
	"contract-portal/contract-portal-backend/internal/generator/googledocs"
	"contract-portal/contract-portal-backend/internal/generator/htmlpdf"
	"contract-portal/contract-portal-backend/internal/generator/rawpdf"
	"contract-portal/contract-portal-backend/internal/notifications"
	"contract-portal/contract-portal-backend/internal/notifications/websocket"
	"contract-portal/contract-portal-backend/pkg/storage"
)

func main() {
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)
	defer logger.Sync()

	ctx := context.Background()

	// Database
	logger.Info("Connecting to database", zap.String("host", cfg.Database.Host))
	db, err := sqlx.Connect("postgres", cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// Notifications persist through gorm on the same connection.
	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to open gorm connection", zap.Error(err))
	}

	// Artifact storage
	s3Client, err := storage.NewS3Client(ctx, storage.Config{
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
	if err != nil {
		logger.Fatal("Failed to initialize S3 client", zap.Error(err))
	}
	artifactStore := contracts.NewArtifactStore(s3Client, cfg.Storage.Bucket, cfg.Storage.URLTTL)

	// Contracts
	repo := contracts.NewRepository(db)
	contractsService := contracts.NewService(repo, logger)
	contractsHandler := contracts.NewHandler(contractsService)
	exportsHandler := exports.NewHandler(contractsService)

	// Generation backends, most capable first
	var generators []generator.Generator
	if cfg.GoogleDocs.TemplateID != "" {
		key, err := os.ReadFile(cfg.GoogleDocs.ServiceAccountKeyPath)
		if err != nil {
			logger.Fatal("Failed to read Google service account key", zap.Error(err))
		}
		gd, err := googledocs.New(ctx, googledocs.Config{
			TemplateID:        cfg.GoogleDocs.TemplateID,
			ServiceAccountKey: string(key),
			OutputFolderID:    cfg.GoogleDocs.OutputFolderID,
		}, repo, logger)
		if err != nil {
			logger.Fatal("Failed to initialize Google Docs backend", zap.Error(err))
		}
		generators = append(generators, gd)
	} else {
		logger.Info("Google Docs backend disabled, no template configured")
	}
	if !cfg.Renderer.Disabled {
		renderer, err := htmlpdf.NewChromeRenderer(logger, cfg.Renderer.BrowserPath)
		if err != nil {
			logger.Warn("Headless browser unavailable, HTML backend disabled", zap.Error(err))
		} else {
			defer renderer.Close()
			generators = append(generators, htmlpdf.New(renderer, artifactStore, logger))
		}
	}
	generators = append(generators, rawpdf.New(rawpdf.DefaultOptions(), artifactStore, logger))
	chain := generator.NewChain(logger, generators...)

	// Auth
	authRepo := auth.NewRepository(db)
	authService := auth.NewService(authRepo, cfg.Security.JWTSecret, cfg.Security.TokenTTL, logger)
	authHandler := auth.NewHandler(authService)

	// Notifications
	wsManager := websocket.NewManager(logger)
	defer wsManager.Close()

	var emailChannel *notifications.EmailChannel
	if cfg.Notifications.EmailSender != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Storage.Region))
		if err != nil {
			logger.Fatal("Failed to load AWS config for SES", zap.Error(err))
		}
		emailChannel = notifications.NewEmailChannel(sesv2.NewFromConfig(awsCfg), cfg.Notifications.EmailSender)
	}
	var webhookChannel *notifications.WebhookChannel
	if cfg.Notifications.WebhookURL != "" {
		webhookChannel = notifications.NewWebhookChannel(cfg.Notifications.WebhookURL)
	}
	notificationsService, err := notifications.NewService(gormDB, wsManager, emailChannel, webhookChannel, userEmails{authService}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize notifications", zap.Error(err))
	}
	notificationsHandler := notifications.NewHandler(notificationsService, wsManager)

	// Generation orchestration
	generationService := generation.NewService(contractsService, repo, chain, notificationsService, logger)
	generationHandler := generation.NewHandler(generationService)

	// Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.Default()

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	{
		authHandler.RegisterRoutes(api)

		protected := api.Group("", auth.Middleware(authService))
		contractsHandler.RegisterRoutes(protected)
		exportsHandler.RegisterRoutes(protected)
		generationHandler.RegisterRoutes(protected)
		notificationsHandler.RegisterRoutes(protected)
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"backends":  chain.Kinds(),
			"timestamp": time.Now(),
		})
	})

	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

// userEmails resolves notification recipients through the auth service.
type userEmails struct {
	service auth.Service
}

func (u userEmails) EmailFor(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := u.service.GetUser(ctx, userID)
	if err != nil || user == nil {
		return "", err
	}
	return user.Email, nil
}

func newLogger(level string) *zap.Logger {
	if level == "debug" {
		logger, _ := zap.NewDevelopment()
		return logger
	}
	logger, _ := zap.NewProduction()
	return logger
}
