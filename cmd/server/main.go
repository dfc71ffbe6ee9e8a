package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/incomeclarity/prices-backend/internal/api"
	"github.com/incomeclarity/prices-backend/internal/config"
	"github.com/incomeclarity/prices-backend/internal/db"
	"github.com/incomeclarity/prices-backend/internal/notifications"
	"github.com/incomeclarity/prices-backend/internal/probe"
	"github.com/incomeclarity/prices-backend/internal/scheduler"
)

const banner = `
╔══════════════════════════════════════╗
║   Income Clarity Prices Backend      ║
║                                      ║
╚══════════════════════════════════════╝
`

func main() {
	fmt.Print(banner)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load error: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	cfg.Print()

	// Database
	fmt.Printf("\n[DB] Connecting to %s:%d/%s ...\n", cfg.DBHost, cfg.DBPort, cfg.DBName)
	pool, err := db.Connect(cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Connection failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		pool.Close()
		fmt.Println("[DB] Connection pool closed")
	}()

	if err := db.TestConnection(pool); err != nil {
		fmt.Fprintf(os.Stderr, "[DB] Test query failed: %v\n", err)
		os.Exit(1)
	}

	// Notifications
	notify := notifications.NewSender(cfg.WebhookURL, cfg.AppName)

	// Graceful shutdown context
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. API server
	srv := api.NewServer(pool, cfg.APIPort, cfg.APIKey, cfg.CORSAllowOrigin)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "[API] Server error: %v\n", err)
			os.Exit(1)
		}
	}()

	// 2. Dashboard render probe (optional)
	var probeSched *scheduler.ProbeScheduler
	if cfg.ProbeIntervalMinutes > 0 {
		probeSched = scheduler.NewProbeScheduler(probe.New(), notify, scheduler.ProbeSchedulerConfig{
			URL:      cfg.ProbeURL,
			Interval: time.Duration(cfg.ProbeIntervalMinutes) * time.Minute,
		})
		probeSched.Start()
	} else {
		fmt.Println("[PROBE-SCHEDULER] Skipped - PROBE_INTERVAL_MINUTES not set")
	}

	fmt.Println("\nAll services started successfully")

	// Wait for shutdown signal
	<-ctx.Done()
	fmt.Println("\nShutting down gracefully...")

	if probeSched != nil {
		probeSched.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		fmt.Fprintf(os.Stderr, "[API] Shutdown error: %v\n", err)
	}
	fmt.Println("[API] Server closed")
	fmt.Println("Shutdown complete")
}
