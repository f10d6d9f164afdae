package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	dirhandler "github.com/desempeno/evaluacion-backend/internal/directory/handler"
	dirrepository "github.com/desempeno/evaluacion-backend/internal/directory/repository"
	dirservice "github.com/desempeno/evaluacion-backend/internal/directory/service"
	"github.com/desempeno/evaluacion-backend/internal/directory/token"
	evalhandler "github.com/desempeno/evaluacion-backend/internal/evaluation/handler"
	evalrepository "github.com/desempeno/evaluacion-backend/internal/evaluation/repository"
	evalservice "github.com/desempeno/evaluacion-backend/internal/evaluation/service"
	"github.com/desempeno/evaluacion-backend/pkg/config"
	"github.com/desempeno/evaluacion-backend/pkg/database"
	"github.com/desempeno/evaluacion-backend/pkg/httputil"
	"github.com/desempeno/evaluacion-backend/pkg/i18n"
	"github.com/desempeno/evaluacion-backend/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadWithValidation("evaluacion-service")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New("evaluacion-service", cfg.Server.Environment)
	log.Info().Msg("starting Evaluacion Service")

	// Connect to database
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	employeeRepo := dirrepository.NewEmployeeRepository(db)
	evaluationRepo := evalrepository.NewEvaluationRepository(db)

	// Initialize services
	tokenManager := token.NewManager(&cfg.JWT)
	directoryService := dirservice.NewDirectoryService(employeeRepo, evaluationRepo, tokenManager, log)
	evaluationService := evalservice.NewEvaluationService(evaluationRepo, employeeRepo, log)

	// Initialize handlers
	directoryHandler := dirhandler.NewDirectoryHandler(directoryService, log)
	securityHandler := dirhandler.NewSecurityHandler(directoryService, log)
	evaluationHandler := evalhandler.NewEvaluationHandler(evaluationService, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(i18n.Middleware)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(token.Middleware(tokenManager))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Language", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Plaintext root kept for the legacy uptime checks
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		httputil.Text(w, http.StatusOK, "Backend de Evaluación de Desempeño funcionando correctamente")
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{
			"status":   "healthy",
			"service":  "evaluacion-service",
			"database": db.Health(r.Context()),
		})
	})

	// The paths match the legacy clients verbatim, no versioned prefix
	directoryHandler.RegisterRoutes(r)
	securityHandler.RegisterRoutes(r)
	evaluationHandler.RegisterRoutes(r)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
