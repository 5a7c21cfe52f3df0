package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mentraiq/internal/config"
	"mentraiq/internal/database"
	"mentraiq/internal/handlers"
	"mentraiq/internal/repository"
	"mentraiq/internal/security"
	"mentraiq/internal/service"
	"mentraiq/internal/tutor"
)

func main() {
	// Load configuration
	cfg := config.Load()

	if cfg.Debug {
		log.Printf("Debug mode enabled (db=%s, session=%s, token=%s, tutor=%q)",
			cfg.DatabaseType, cfg.SessionDuration, cfg.TokenDuration, cfg.TutorProviderURL)
	}

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	log.Printf("Database connection established (type: %s)", cfg.DatabaseType)

	// Run migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Migrations completed successfully")

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(db)
	cardRepo := repository.NewCardRepository(db)

	// Initialize services
	authService := service.NewAuthService(accountRepo, cfg.SessionDuration)
	deckService := service.NewDeckService(cardRepo, accountRepo)
	studyService := service.NewStudyService(accountRepo)

	emailService, err := service.NewEmailService(cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.AppBaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize email service: %v", err)
	}

	var tutorProvider tutor.Provider
	if cfg.TutorProviderURL != "" {
		tutorProvider = tutor.NewHTTPProvider(cfg.TutorProviderURL, cfg.TutorTimeout)
		log.Printf("Tutor provider configured: %s", cfg.TutorProviderURL)
	} else {
		log.Println("No tutor provider configured, /api/tutor/ask will be unavailable")
	}

	tokens := security.NewTokenIssuer(cfg.TokenSecret, cfg.TokenDuration)
	csrf := security.NewCSRFGenerator(cfg.TokenSecret)
	limiter := security.NewRateLimiter(10, 1*time.Minute)

	// Initialize handlers
	middleware := handlers.NewMiddleware(authService, tokens, csrf, limiter)
	authHandler := handlers.NewAuthHandler(authService, emailService, tokens, csrf)
	deckHandler := handlers.NewDeckHandler(deckService)
	studyHandler := handlers.NewStudyHandler(studyService)
	tutorHandler := handlers.NewTutorHandler(tutorProvider)
	adminHandler := handlers.NewAdminHandler(accountRepo)

	// Setup routes
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("POST /api/register", middleware.RateLimit(authHandler.Register))
	mux.HandleFunc("POST /api/login", middleware.RateLimit(authHandler.Login))
	mux.HandleFunc("POST /api/logout", authHandler.Logout)
	mux.HandleFunc("POST /api/password-reset/request", middleware.RateLimit(authHandler.RequestPasswordReset))
	mux.HandleFunc("POST /api/password-reset/confirm", middleware.RateLimit(authHandler.ConfirmPasswordReset))

	// Protected routes
	mux.HandleFunc("GET /api/cards", middleware.RequireAuth(deckHandler.ListCards))
	mux.HandleFunc("POST /api/cards", middleware.RequireAuth(middleware.CSRFProtect(deckHandler.AddCard)))
	mux.HandleFunc("POST /api/cards/{index}/favorite", middleware.RequireAuth(middleware.CSRFProtect(deckHandler.ToggleFavorite)))
	mux.HandleFunc("POST /api/study", middleware.RequireAuth(middleware.CSRFProtect(studyHandler.RecordStudy)))
	mux.HandleFunc("GET /api/progress", middleware.RequireAuth(deckHandler.Progress))
	mux.HandleFunc("POST /api/tutor/ask", middleware.RequireAuth(middleware.CSRFProtect(tutorHandler.Ask)))

	// Admin routes
	mux.HandleFunc("GET /api/admin/accounts", middleware.RequireAdmin(adminHandler.ListAccounts))
	mux.HandleFunc("POST /api/admin/accounts/{id}/delete", middleware.RequireAdmin(middleware.CSRFProtect(adminHandler.DeleteAccount)))

	// Wrap with logging middleware
	handler := handlers.Logging(mux)

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start background session cleanup
	stopCleanup := make(chan struct{})
	go cleanupExpiredSessions(authService, 1*time.Hour, stopCleanup)

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")
	close(stopCleanup)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// sessionCleaner is the slice of AuthService the cleanup loop needs.
type sessionCleaner interface {
	CleanupExpiredSessions() error
}

// cleanupExpiredSessions periodically removes expired sessions and reset
// tokens until stop is closed.
func cleanupExpiredSessions(cleaner sessionCleaner, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := cleaner.CleanupExpiredSessions(); err != nil {
				log.Printf("Error cleaning up expired sessions: %v", err)
			} else {
				log.Println("Expired sessions cleaned up")
			}
		case <-stop:
			return
		}
	}
}
