package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Rrens/fitness-coach/internal/config"
	"github.com/Rrens/fitness-coach/internal/repository/postgres"
)

// Usage: migrate [-steps N] up|down
func main() {
	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	flag.Parse()

	// Load .env file if it exists
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Database.Driver != "postgres" {
		fmt.Fprintf(os.Stderr, "migrations only apply to postgres, driver is %q\n", cfg.Database.Driver)
		os.Exit(1)
	}

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	switch command {
	case "up":
		err = postgres.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath)
	case "down":
		err = postgres.RollbackMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath, *steps)
	default:
		err = fmt.Errorf("unknown command %q, want up or down", command)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Migration %s complete\n", command)
}
