package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/winwire/hr-onboarding-backend/internal/chatbot"
	"github.com/winwire/hr-onboarding-backend/internal/config"
	"github.com/winwire/hr-onboarding-backend/internal/database"
	"github.com/winwire/hr-onboarding-backend/internal/handlers"
	"github.com/winwire/hr-onboarding-backend/internal/learning"
	"github.com/winwire/hr-onboarding-backend/internal/middleware"
	"github.com/winwire/hr-onboarding-backend/internal/models"
	"github.com/winwire/hr-onboarding-backend/internal/query"
	"github.com/winwire/hr-onboarding-backend/internal/services"
	"github.com/winwire/hr-onboarding-backend/pkg/jwt"
	"github.com/winwire/hr-onboarding-backend/pkg/mail"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting WinWire HR Onboarding Backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Test database connection
	if err := db.Ping(); err != nil {
		logger.Fatalf("Failed to ping database: %v", err)
	}

	// Initialize repositories
	userRepository := database.NewUserRepository(db)
	candidateRepository := database.NewCandidateRepository(db)
	submissionRepository := database.NewSubmissionRepository(db)
	employeeRepository := database.NewEmployeeRepository(db)
	documentRepository := database.NewDocumentRepository(db)

	// Seed the bootstrap HR account so a fresh deployment can log in
	if err := services.SeedAdminUser(userRepository, cfg.Admin, cfg.Security.BcryptCost, logger); err != nil {
		logger.Fatalf("Failed to seed admin account: %v", err)
	}

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)

	// Outbound email: dev mode logs instead of sending
	var mailer mail.Mailer
	if cfg.SMTP.Mode == "production" {
		logger.Info("Initializing SMTP mailer in production mode...")
		mailer = mail.NewSMTPMailer(mail.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		logger.Info("Email in development mode (no actual email will be sent)")
		mailer = mail.NewLogMailer(logger)
	}

	taskQueue := services.NewTaskQueue(64, logger)
	notificationService := services.NewNotificationService(mailer, taskQueue, cfg.Onboarding, logger)
	auditService := services.NewAuditService(db, logger)

	candidateService := services.NewCandidateService(
		candidateRepository,
		userRepository,
		documentRepository,
		notificationService,
		cfg.Onboarding,
		cfg.Security.BcryptCost,
		logger,
	)
	onboardingService := services.NewOnboardingService(
		submissionRepository,
		candidateRepository,
		employeeRepository,
		documentRepository,
		notificationService,
		cfg.Onboarding,
		cfg.Security.BcryptCost,
		logger,
	)

	// Chatbot: guarded query pipeline plus the company info document
	var queryAudit query.AuditLogger
	if cfg.Security.EnableAuditLog {
		queryAudit = auditService
	}
	queryService := query.NewService(
		query.NewTranslator(),
		query.NewExecutor(db, queryAudit, logger),
	)

	companyInfo, err := chatbot.LoadCompanyInfo(cfg.Chatbot.CompanyInfoPath)
	if err != nil {
		logger.Fatalf("Failed to load company info: %v", err)
	}
	llmClient := chatbot.NewLLMClient(cfg.Chatbot, logger)
	if llmClient.Enabled() {
		logger.Infof("LLM rephrasing enabled (provider: %s)", cfg.Chatbot.LLMProvider)
	} else {
		logger.Info("LLM rephrasing disabled, using canned answers")
	}
	chatbotService := chatbot.NewService(queryService, companyInfo, llmClient, logger)

	learningMaterials, err := learning.LoadMaterials(cfg.Learning.MaterialsPath)
	if err != nil {
		logger.Fatalf("Failed to load learning materials: %v", err)
	}
	logger.Infof("Loaded %d learning material catalogues", len(learningMaterials))

	logger.Info("Services initialized")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(jwtService, userRepository, logger)
	candidateHandler := handlers.NewCandidateHandler(candidateService, logger)
	onboardingHandler := handlers.NewOnboardingHandler(onboardingService, logger)
	adminHandler := handlers.NewAdminHandler(onboardingService, auditService, logger)
	chatbotHandler := handlers.NewChatbotHandler(chatbotService, queryService, logger)
	learningHandler := handlers.NewLearningHandler(learningMaterials, logger)

	// Initialize Gin router
	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db))

	api := router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.Refresh)
			auth.GET("/me", middleware.AuthMiddleware(jwtService), authHandler.Me)
		}

		candidates := api.Group("/candidates")
		{
			// Offer acceptance is reached from an email link, no login yet
			candidates.POST("/accept-offer/:token", candidateHandler.AcceptOffer)

			hr := candidates.Group("")
			hr.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole(models.RoleHR))
			{
				hr.POST("", candidateHandler.Create)
				hr.GET("", candidateHandler.List)
				hr.GET("/:id", candidateHandler.Get)
				hr.POST("/:id/trigger-joining", candidateHandler.TriggerJoining)
				hr.GET("/:id/offer-letter", candidateHandler.DownloadOfferLetter)
			}
		}

		onboarding := api.Group("/onboarding")
		onboarding.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole(models.RoleEmployee))
		{
			onboarding.POST("/submit", onboardingHandler.Submit)
			onboarding.GET("/my-submission", onboardingHandler.MySubmission)
			onboarding.POST("/:id/resubmit", onboardingHandler.Resubmit)
		}

		admin := api.Group("/admin")
		{
			// The onboarding pass is opened from an email link by the candidate
			admin.GET("/onboarding-pass/:token", adminHandler.PassPreview)
			admin.POST("/accept-onboarding-pass/:token", adminHandler.AcceptPass)

			hr := admin.Group("")
			hr.Use(middleware.AuthMiddleware(jwtService), middleware.RequireRole(models.RoleHR))
			{
				hr.GET("/submissions", adminHandler.ListSubmissions)
				hr.GET("/submissions/:id", adminHandler.GetSubmission)
				hr.GET("/submissions/:id/document/:ref", adminHandler.DownloadDocument)
				hr.POST("/submissions/:id/approve", adminHandler.Approve)
				hr.POST("/submissions/:id/reject", adminHandler.Reject)
				hr.POST("/submissions/:id/request-revision", adminHandler.RequestRevision)
				hr.GET("/dashboard/stats", adminHandler.DashboardStats)
				hr.GET("/query-audit", adminHandler.QueryAuditLog)
			}
		}

		learningGroup := api.Group("/learning")
		learningGroup.Use(middleware.AuthMiddleware(jwtService))
		{
			learningGroup.GET("/materials", learningHandler.ListMaterials)
		}

		bot := api.Group("/chatbot")
		bot.Use(middleware.AuthMiddleware(jwtService))
		{
			bot.POST("/message", chatbotHandler.Message)
			bot.GET("/templates", chatbotHandler.ListTemplates)
			bot.POST("/templates/:id", middleware.RequireRole(models.RoleHR), chatbotHandler.ExecuteTemplate)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Drain queued notification emails before the process exits
	logger.Info("Stopping task queue...")
	taskQueue.Stop()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
		}

		// Record authorization presence, never the token itself
		fields["has_auth"] = c.GetHeader("Authorization") != ""

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.UserID
			fields["role"] = userCtx.Role
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
		} else {
			status := c.Writer.Status()
			switch {
			case status >= 500:
				entry.Error("Request completed with server error")
			case status >= 400:
				entry.Warn("Request completed with client error")
			default:
				entry.Info("Request completed successfully")
			}
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}
