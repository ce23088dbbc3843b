package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rpe/internal/auth"
	"rpe/internal/config"
	"rpe/internal/crypto"
	"rpe/internal/database"
	"rpe/internal/email"
	"rpe/internal/handlers"
	"rpe/internal/logger"
	"rpe/internal/middleware"
	"rpe/internal/models"
	"rpe/internal/repository"
	"rpe/internal/service"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "rpe/docs" // This is for Swagger
)

// @title RPE API
// @version 1.0
// @description Backend API for the performance evaluation and committee equalization platform

// @contact.name API Support
// @contact.email suporte@rpe.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logger
	logger.Setup(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("Starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"env", cfg.App.Env,
		"log_level", cfg.Log.Level,
	)

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func(db *database.Database) {
		err := db.Close()
		if err != nil {
			slog.Error("Failed to close database connection", "error", err)
		}
	}(db)

	slog.Info("Database connection established")

	// Run database migrations
	migrator := database.NewMigrationExecutor(db.DB)
	if err := migrator.RunMigrations("./migrations"); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Database migrations completed")

	// Initialize field encryption
	cryptoService, err := crypto.NewService(cfg.Crypto.SecretKey)
	if err != nil {
		slog.Error("Failed to initialize field encryption", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.DB)
	cycleRepo := repository.NewCycleRepository(db.DB)
	projectRepo := repository.NewProjectRepository(db.DB)
	selfEvalRepo := repository.NewSelfEvaluationRepository(db.DB, cryptoService)
	peerEvalRepo := repository.NewPeerEvaluationRepository(db.DB, cryptoService)
	leaderEvalRepo := repository.NewLeaderEvaluationRepository(db.DB, cryptoService)
	directReportRepo := repository.NewDirectReportEvaluationRepository(db.DB)
	finalizedRepo := repository.NewFinalizedEvaluationRepository(db.DB)
	equalizationLogRepo := repository.NewEqualizationLogRepository(db.DB, cryptoService)
	aiSummaryRepo := repository.NewAISummaryRepository(db.DB, cryptoService)

	// Initialize services
	authService := auth.NewService(&cfg.JWT)
	emailService := email.NewService(&cfg.Email)
	genAIService := service.NewGenAIService(cfg.GenAI.BaseURL, cfg.GenAI.Model, cfg.GenAI.Enabled)
	equalizationService := service.NewEqualizationService(userRepo, cycleRepo, selfEvalRepo, peerEvalRepo, leaderEvalRepo, finalizedRepo)
	committeeService := service.NewCommitteeService(
		db.DB,
		userRepo, cycleRepo, projectRepo,
		selfEvalRepo, peerEvalRepo, leaderEvalRepo, directReportRepo,
		finalizedRepo, equalizationLogRepo, aiSummaryRepo,
		equalizationService, genAIService, emailService,
	)
	exportService := service.NewExportService(cycleRepo, selfEvalRepo, peerEvalRepo, leaderEvalRepo)

	// Initialize middleware
	authMw := middleware.NewAuthMiddleware(authService)
	rbacMw := middleware.NewRBACMiddleware()
	corsMw := middleware.NewCORSMiddleware(&cfg.CORS)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, userRepo)
	committeeHandler := handlers.NewCommitteeHandler(committeeService, exportService, userRepo)

	// Setup router
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)

	// Committee routes
	committeeOnly := rbacMw.RequireUserType(models.UserTypeCommittee)
	committeeOrAdmin := rbacMw.RequireUserType(models.UserTypeCommittee, models.UserTypeAdmin)
	dashboardUsers := rbacMw.RequireUserType(models.UserTypeCommittee, models.UserTypeAdmin, models.UserTypeHR)
	hrOrAdmin := rbacMw.RequireUserType(models.UserTypeHR, models.UserTypeAdmin)

	mux.Handle("GET /api/v1/committee/panel",
		authMw.Authenticate(
			committeeOrAdmin(
				http.HandlerFunc(committeeHandler.GetPanel),
			),
		),
	)
	mux.Handle("PATCH /api/v1/committee/evaluations/{id}",
		authMw.Authenticate(
			committeeOnly(
				http.HandlerFunc(committeeHandler.UpdateEvaluation),
			),
		),
	)
	mux.Handle("GET /api/v1/committee/summary",
		authMw.Authenticate(
			dashboardUsers(
				http.HandlerFunc(committeeHandler.GetSummary),
			),
		),
	)
	mux.Handle("GET /api/v1/committee/insights",
		authMw.Authenticate(
			dashboardUsers(
				http.HandlerFunc(committeeHandler.GetInsights),
			),
		),
	)
	mux.Handle("GET /api/v1/committee/evaluations/{id}/summary",
		authMw.Authenticate(
			committeeOrAdmin(
				http.HandlerFunc(committeeHandler.GetEvaluationSummary),
			),
		),
	)
	mux.Handle("PATCH /api/v1/committee/users/{id}/mentor",
		authMw.Authenticate(
			committeeOrAdmin(
				http.HandlerFunc(committeeHandler.SetMentor),
			),
		),
	)
	mux.Handle("DELETE /api/v1/committee/users/{id}/mentor",
		authMw.Authenticate(
			committeeOrAdmin(
				http.HandlerFunc(committeeHandler.RemoveMentor),
			),
		),
	)
	mux.Handle("GET /api/v1/committee/mentors/{id}/mentees",
		authMw.Authenticate(
			committeeOrAdmin(
				http.HandlerFunc(committeeHandler.GetMentees),
			),
		),
	)
	mux.Handle("GET /api/v1/committee/export",
		authMw.Authenticate(
			hrOrAdmin(
				http.HandlerFunc(committeeHandler.ExportCycle),
			),
		),
	)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, err := w.Write([]byte(`{"status":"unhealthy","database":"error"}`))
			if err != nil {
				slog.Error("Failed to write health check response", "error", err)
				return
			}
			return
		}
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(`{"status":"healthy","version":"` + cfg.App.Version + `"}`))
		if err != nil {
			slog.Error("Failed to write health check response", "error", err)
			return
		}
	})

	// Swagger documentation
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Apply global middleware
	handler := middleware.LoggingMiddleware(
		corsMw.Handler(mux),
	)

	// Create server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.TimeoutRead,
		WriteTimeout: cfg.Server.TimeoutWrite,
		IdleTimeout:  cfg.Server.TimeoutIdle,
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Server starting", "address", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Server shutting down...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server stopped")
}
