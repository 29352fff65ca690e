package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	_ "github.com/go-sql-driver/mysql"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	_ "github.com/innerdreams/admin-backend/docs"
	"github.com/innerdreams/admin-backend/internal/auth"
	"github.com/innerdreams/admin-backend/internal/config"
	"github.com/innerdreams/admin-backend/internal/handlers"
	"github.com/innerdreams/admin-backend/internal/logger"
	"github.com/innerdreams/admin-backend/internal/middlewares"
	"github.com/innerdreams/admin-backend/internal/repositories"
	"github.com/innerdreams/admin-backend/internal/services"
	"github.com/innerdreams/admin-backend/internal/storage"
)

// @title Inner Dreams Admin API
// @version 1.0
// @description Administrative API for the Inner Dreams platform

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v\n", err)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatalf("Failed to initialize logger: %v\n", err)
	}
	defer logger.Sync()

	logger.Logger.Info("Starting Inner Dreams Admin Backend")

	// Connect to database
	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	// Run migrations
	if err := runMigrations(db); err != nil {
		logger.Logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Initialize upload storage
	store, err := storage.NewStore(cfg.Uploads.BasePath, cfg.Uploads.BaseURL)
	if err != nil {
		logger.Logger.Fatal("Failed to initialize upload storage", zap.Error(err))
	}

	// Initialize JWT token generator
	tokenGenerator := auth.NewTokenGenerator(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)

	// Initialize repositories
	adminRepo := repositories.NewAdminRepository(db, logger.Logger)
	userRepo := repositories.NewUserRepository(db, logger.Logger)
	dreamRepo := repositories.NewDreamRepository(db)
	authorRepo := repositories.NewAuthorRepository(db, logger.Logger)
	expertRepo := repositories.NewExpertRepository(db, logger.Logger)
	educationRepo := repositories.NewEducationRepository(db, logger.Logger)
	sessionRepo := repositories.NewSessionRepository(db, logger.Logger)
	appointmentRepo := repositories.NewAppointmentRepository(db, logger.Logger)
	bookRepo := repositories.NewBookRepository(db, logger.Logger)
	contentRepo := repositories.NewContentRepository(db, logger.Logger)
	paymentRepo := repositories.NewPaymentRepository(db, logger.Logger)

	// Initialize services
	authService := services.NewAuthService(adminRepo, tokenGenerator, logger.Logger)
	adminService := services.NewAdminService(adminRepo, logger.Logger)
	userService := services.NewUserService(userRepo, dreamRepo, logger.Logger)
	authorService := services.NewAuthorService(authorRepo, logger.Logger)
	expertService := services.NewExpertService(expertRepo, logger.Logger)
	educationService := services.NewEducationService(educationRepo, authorRepo, logger.Logger)
	sessionService := services.NewSessionService(sessionRepo, logger.Logger)
	appointmentService := services.NewAppointmentService(appointmentRepo, logger.Logger)
	bookService := services.NewBookService(bookRepo, logger.Logger)
	contentService := services.NewContentService(contentRepo, logger.Logger)
	paymentService := services.NewPaymentService(paymentRepo, logger.Logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, logger.Logger)
	adminHandler := handlers.NewAdminHandler(adminService, logger.Logger)
	userHandler := handlers.NewUserHandler(userService, logger.Logger)
	authorHandler := handlers.NewAuthorHandler(authorService, store, logger.Logger)
	expertHandler := handlers.NewExpertHandler(expertService, store, logger.Logger)
	educationHandler := handlers.NewEducationHandler(educationService, store, logger.Logger)
	sessionHandler := handlers.NewSessionHandler(sessionService, logger.Logger)
	appointmentHandler := handlers.NewAppointmentHandler(appointmentService, logger.Logger)
	bookHandler := handlers.NewBookHandler(bookService, store, logger.Logger)
	contentHandler := handlers.NewContentHandler(contentService, store, logger.Logger)
	paymentHandler := handlers.NewPaymentHandler(paymentService, logger.Logger)
	uploadHandler := handlers.NewUploadHandler(store, logger.Logger)

	// Initialize auth middleware
	authMiddleware := auth.AdminAuthMiddleware(tokenGenerator, adminRepo)

	// Setup router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(middlewares.RequestIDMiddleware)
	r.Use(middlewares.LoggerMiddleware(logger.Logger))
	r.Use(middlewares.RecoveryMiddleware(logger.Logger))
	r.Use(middlewares.CORSMiddleware(cfg.CORS.AllowedOrigins))
	r.Use(httprate.LimitByIP(100, time.Minute))
	r.Use(middlewares.RequestSizeLimitMiddleware(25 * 1024 * 1024)) // 25MB, covers multipart uploads

	// Health check
	environment := os.Getenv("APP_ENV")
	if environment == "" {
		environment = "development"
	}
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"OK","timestamp":%q,"environment":%q}`,
			time.Now().UTC().Format(time.RFC3339), environment)
	})

	// Static serving of uploaded files
	r.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(cfg.Uploads.BasePath))))

	// Swagger documentation
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL(fmt.Sprintf("http://localhost:%d/swagger/doc.json", cfg.Server.Port)),
	))

	// Scope router to /api
	r.Route("/api", func(r chi.Router) {
		// Login is the only route reachable without a token
		authHandler.RegisterPublicRoutes(r)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			authHandler.RegisterRoutes(r)
			adminHandler.RegisterRoutes(r)
			userHandler.RegisterRoutes(r)
			authorHandler.RegisterRoutes(r)
			expertHandler.RegisterRoutes(r)
			educationHandler.RegisterRoutes(r)
			sessionHandler.RegisterRoutes(r)
			appointmentHandler.RegisterRoutes(r)
			bookHandler.RegisterRoutes(r)
			contentHandler.RegisterRoutes(r)
			paymentHandler.RegisterRoutes(r)
			uploadHandler.RegisterRoutes(r)
		})
	})

	// Start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Logger.Info("Server exited")
}

// connectDB connects to the database
func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// runMigrations runs database migrations
func runMigrations(db *sql.DB) error {
	driver, err := mysql.WithInstance(db, &mysql.Config{
		MigrationsTable: "admin_schema_migrations",
	})
	if err != nil {
		return fmt.Errorf("failed to create migration driver: %w", err)
	}

	// Try the migrations folder relative to the binary first
	migrationPath := "file://migrations"
	if _, err := os.Stat("migrations"); os.IsNotExist(err) {
		if _, err := os.Stat("../migrations"); err == nil {
			migrationPath = "file://../migrations"
		}
	}

	m, err := migrate.NewWithDatabaseInstance(migrationPath, "mysql", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}
