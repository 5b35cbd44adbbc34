package main

import (
	"context"
	"fmt"
	"os"

	"github.com/campusgate/campusgate/internal/config"
	"github.com/campusgate/campusgate/internal/session"
	"github.com/campusgate/campusgate/internal/store/postgres"
)

// One-shot expired session sweep, for cron-style deployments that do not
// keep the server's hourly sweeper running.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, postgres.Config{
		Host:         cfg.Database.Host,
		Port:         cfg.Database.Port,
		User:         cfg.Database.User,
		Password:     cfg.Database.Password,
		Database:     cfg.Database.Database,
		SSLMode:      cfg.Database.SSLMode,
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	svc := session.NewService(postgres.NewSessionRepository(db), cfg.Session.Lifetime, cfg.Session.IdleTimeout)
	removed, err := svc.CleanupExpired(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cleanup failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Removed %d expired sessions.\n", removed)
}
