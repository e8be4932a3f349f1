// Command migrate applies, rolls back or forces the embedded schema migrations.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"ms-railway/internal/config"
	"ms-railway/internal/database"
	"ms-railway/internal/database/migrations"
	"ms-railway/internal/logger"
)

func main() {
	action := flag.String("action", "up", "up, down, force or version")
	version := flag.Int("version", -1, "target version for force")
	seed := flag.Bool("seed", true, "apply reference data migrations with up")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	log, err := logger.NewLogger(logger.Options{Service: "ms-railway-migrate", Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	db, err := database.Open(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", fmt.Sprintf("open database: %v", err))
	}
	defer db.Close()

	runner := migrations.NewRunner(db, migrations.MigrateOptions{SeedData: *seed})

	switch *action {
	case "up":
		err = runner.RunMigrations()
	case "down":
		err = runner.MigrateDown()
	case "force":
		if *version < 0 {
			log.Fatal("MIGRATE", "force needs -version")
		}
		err = runner.Force(*version)
	case "version":
	default:
		log.Fatal("MIGRATE", fmt.Sprintf("unknown action %q", *action))
	}
	if err != nil {
		log.Fatal("MIGRATE", fmt.Sprintf("%s failed: %v", *action, err))
	}

	current, dirty, err := runner.Version()
	if err != nil {
		log.Fatal("MIGRATE", fmt.Sprintf("read version: %v", err))
	}
	log.LogDatabase("MIGRATE", "schema_migrations", fmt.Sprintf("version=%d dirty=%v", current, dirty))
}
