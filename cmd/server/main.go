package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/codenzaar/loan-tracker/internal/config"
	"github.com/codenzaar/loan-tracker/internal/handler"
	"github.com/codenzaar/loan-tracker/internal/repository"
	"github.com/codenzaar/loan-tracker/internal/service"
	"github.com/codenzaar/loan-tracker/pkg/response"
)

func main() {
	// Load .env if present, then configuration
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient := initRedis(cfg)
	defer redisClient.Close()

	// Initialize repository, cache and service
	loanRepo := repository.NewLoanRepository(db)
	loanCache := repository.NewLoanCache(redisClient, cfg.Redis.CacheTTL)
	loanService := service.NewLoanService(loanRepo, loanCache)

	loanHandler := handler.NewLoanHandler(loanService, cfg)
	healthHandler := handler.NewHealthHandler(db, redisClient, cfg.Health.Timeout)

	// Setup routes
	router := setupRoutes(loanHandler, healthHandler)

	// Start server
	server := &http.Server{
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

func initDB(cfg *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	return db, nil
}

func initRedis(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}

func setupRoutes(loanHandler *handler.LoanHandler, healthHandler *handler.HealthHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(response.LoggingMiddleware, response.CORSMiddleware)

	// Health check
	router.HandleFunc("/health", healthHandler.Health).Methods("GET")
	router.HandleFunc("/health/ready", healthHandler.Ready).Methods("GET")

	// API routes; specific paths registered before parameterized ones
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/loans/date-range", loanHandler.DateRange).Methods("GET")
	api.HandleFunc("/loans/generate-pdf", loanHandler.GeneratePDF).Methods("GET")

	api.HandleFunc("/loans", loanHandler.List).Methods("GET")
	api.HandleFunc("/loans", loanHandler.Create).Methods("POST")

	api.HandleFunc("/loans/{id}/payments", loanHandler.AddPayment).Methods("POST")
	api.HandleFunc("/loans/{id}/payments/{paymentId}", loanHandler.DeletePayment).Methods("DELETE")

	api.HandleFunc("/loans/{id}", loanHandler.Get).Methods("GET")
	api.HandleFunc("/loans/{id}", loanHandler.Update).Methods("PUT")
	api.HandleFunc("/loans/{id}", loanHandler.Delete).Methods("DELETE")

	return router
}
