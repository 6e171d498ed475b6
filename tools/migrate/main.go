package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/orgball2608/meme-trend-bot/internal/migrations"
	"github.com/orgball2608/meme-trend-bot/pkg/config"
	"github.com/pressly/goose/v3"
)

const usage = "Usage: migrate [up|down|status|reset|version|create <name>]"

func main() {
	if len(os.Args) < 2 {
		log.Fatal(usage)
	}

	command := os.Args[1]

	if command == "create" {
		if len(os.Args) < 3 {
			log.Fatal("Usage: migrate create <name>")
		}
		createMigration(os.Args[2])
		return
	}

	switch command {
	case "up", "down", "status", "reset", "version":
	default:
		log.Fatalf("Unknown command: %s\n%s", command, usage)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := migrations.Run(context.Background(), cfg.GetDSN(), command); err != nil {
		log.Fatalf("Migration command %q failed: %v", command, err)
	}
	fmt.Printf("Migration command %q finished\n", command)
}

// createMigration writes a Go migration skeleton next to the registered ones.
func createMigration(name string) {
	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("Failed to get working directory: %v", err)
	}

	dir := filepath.Join(wd, "internal", "migrations")
	fmt.Printf("Creating migration in: %s\n", dir)

	if err := goose.Create(nil, dir, name, "go"); err != nil {
		log.Fatalf("Failed to create migration: %v", err)
	}
}
