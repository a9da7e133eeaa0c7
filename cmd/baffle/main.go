package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"baffle/internal/config"
	"baffle/internal/database"
	"baffle/internal/feed"
	"baffle/internal/indieauth"
	"baffle/internal/newsblur"
	"baffle/internal/server"
)

var (
	// Version will be set during build
	Version = "dev"

	// Command line flags
	port    = flag.Int("port", 0, "Port to run the server on (default: 8080 or BAFFLE_PORT)")
	dbPath  = flag.String("db", "", "Path to database file (default: data/baffle.db or BAFFLE_DB_PATH)")
	version = flag.Bool("version", false, "Print version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("Baffle version %s\n", Version)
		return
	}

	logger := log.New(os.Stdout, "baffle: ", log.LstdFlags|log.Lshortfile)

	// Get base configuration from environment
	cfg := config.GetConfig()

	// Override with command line flags if provided
	if *port > 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		logger.Fatal("NEWSBLUR_CLIENT_ID and NEWSBLUR_CLIENT_SECRET must be set")
	}

	logger.Printf("Starting Baffle v%s", Version)
	logger.Printf("Port: %d", cfg.Port)
	logger.Printf("Database: %s", cfg.DBPath)
	logger.Printf("NewsBlur: %s", cfg.NewsBlurURL)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		logger.Fatalf("Failed to create database directory: %v", err)
	}

	db, err := database.NewDB(cfg.DBPath, database.DefaultConfig())
	if err != nil {
		logger.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	indieauthSvc := indieauth.NewService()

	srv := server.NewServer(
		db,
		newsblur.NewClient(cfg.NewsBlurURL, cfg.ClientID, cfg.ClientSecret),
		indieauthSvc,
		indieauthSvc,
		feed.NewPreviewer(logger),
		logger,
		server.Config{BaseURL: cfg.BaseURL},
	)

	if err := srv.Start(cfg.GetAddress()); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}
