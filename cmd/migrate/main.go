package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/campusgate/campusgate/internal/config"
	"github.com/campusgate/campusgate/internal/store/postgres"
)

// Standalone migration runner. Accepts a connection string argument for
// running against environments where the full server config is not set.
func main() {
	ctx := context.Background()

	var connStr string
	if len(os.Args) > 1 {
		connStr = os.Args[1]
	} else {
		cfg, err := config.Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
		connStr = cfg.Database.DSN()
	}

	db, err := sql.Open("pgx", connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("Failed to ping: %v", err)
	}

	fmt.Println("Connected to database")

	fmt.Println("Applying initial schema...")
	if _, err := db.ExecContext(ctx, postgres.InitialSchema); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	fmt.Println("Migration successful.")
}
