package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/francis1990/clinic-booking-backend/internal/app"
	"github.com/francis1990/clinic-booking-backend/internal/config"
	"github.com/francis1990/clinic-booking-backend/internal/db"
	"github.com/francis1990/clinic-booking-backend/internal/event"
	"github.com/francis1990/clinic-booking-backend/internal/logger"
)

func main() {
	// For receiving Ctrl+C / SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.SetupDefault(os.Stdout)

	// Load config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Run migrations before opening the pool
	if cfg.MigrateOnStart {
		if err := db.Migrate(cfg.DBDSN); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Connect DB
	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	// Event publisher: broker when configured, otherwise the log
	var events event.Publisher
	if len(cfg.EventBrokers) > 0 {
		kp := event.NewKafkaPublisher(cfg.EventBrokers, cfg.EventTopic)
		defer kp.Close()
		events = kp
		slog.Info("publishing events to broker", "topic", cfg.EventTopic)
	} else {
		events = event.NewLogPublisher(slog.Default())
	}

	container, err := app.NewContainer(app.Config{
		IsProduction: cfg.IsProduction,
		ProdOrigins:  cfg.ProdOrigins,
		DBPool:       pool,
		Events:       events,
	})
	if err != nil {
		log.Fatalf("failed to init app: %v", err)
	}

	// Use http.Server for graceful shutdown
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: container.Router,
	}

	// Run server in separate goroutine
	go func() {
		log.Printf("server running on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Wait for Ctrl+C
	<-ctx.Done()
	log.Println("shutdown signal received")

	// Create a shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}

	log.Println("server exited gracefully")
}
