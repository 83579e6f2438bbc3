package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/robfig/cron/v3"

	"github.com/codenzaar/loan-tracker/internal/config"
	"github.com/codenzaar/loan-tracker/internal/repository"
	"github.com/codenzaar/loan-tracker/internal/service"
)

func main() {
	log.Println("Starting loan status scheduler...")

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := sqlx.Connect("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	loanRepo := repository.NewLoanRepository(db)
	loanService := service.NewLoanService(loanRepo, nil)

	// Catch up immediately on start, then daily at midnight
	refreshStatuses(loanService)

	c := cron.New(cron.WithSeconds())
	if _, err := c.AddFunc("0 0 0 * * *", func() { refreshStatuses(loanService) }); err != nil {
		log.Fatalf("Error scheduling status refresh job: %v", err)
	}

	c.Start()
	log.Println("Scheduler started successfully")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down scheduler...")
	c.Stop()
	log.Println("Scheduler stopped")
}

// refreshStatuses flips Active loans past their due date to Overdue (and
// corrects any other stale status) without waiting for an API read.
func refreshStatuses(loanService *service.LoanService) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	updated, err := loanService.RefreshStatuses(ctx)
	if err != nil {
		log.Printf("Status refresh failed: %v", err)
		return
	}
	log.Printf("Status refresh complete, %d loan(s) updated", updated)
}
