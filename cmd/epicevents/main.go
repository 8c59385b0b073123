package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/epicevents/crm/internal/cli"
	"github.com/epicevents/crm/internal/config"
	"github.com/epicevents/crm/internal/db"
)

func main() {
	// Load environment variables from .env file
	_ = godotenv.Load()

	cfg := config.Load()

	conn, err := db.Connect(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	app, err := cli.NewApp(cfg, conn)
	if err != nil {
		log.Fatalf("Failed to initialize: %v", err)
	}

	if err := app.RootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
