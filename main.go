package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/idlikadai3-prog/idli-kadai-frontend/api"
	"github.com/idlikadai3-prog/idli-kadai-frontend/bot"
	"github.com/idlikadai3-prog/idli-kadai-frontend/config"
	"github.com/idlikadai3-prog/idli-kadai-frontend/db"
	"github.com/idlikadai3-prog/idli-kadai-frontend/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.Telegram.Token == "" {
		fmt.Fprintln(os.Stderr, "TOKEN not set")
		os.Exit(1)
	}

	// Check for migrate subcommand
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		runMigrate(cfg)
		return
	}

	// Session tokens persist in Postgres so logins survive restarts. Without a
	// database the bot still runs; sessions then live in memory only.
	var tokens services.TokenStore
	if err := db.Init(cfg.DB); err != nil {
		log.Printf("db unavailable, sessions will not survive restarts: %v", err)
		tokens = services.NewMemoryTokenStore()
	} else {
		defer db.Close()
		// Optional auto-migration (useful in production and for fresh DBs).
		// Set AUTO_MIGRATE=1 (or "true") to enable.
		if v := strings.TrimSpace(os.Getenv("AUTO_MIGRATE")); v == "1" || strings.EqualFold(v, "true") {
			if err := applyMigrations(context.Background(), false); err != nil {
				fmt.Fprintln(os.Stderr, "migrate:", err)
				os.Exit(1)
			}
		}
		tokens = db.NewTokenStore()
	}

	client := api.New(cfg.API.BaseURL)
	sessions := services.NewSessionManager(client, tokens)

	b, err := bot.New(cfg, sessions)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bot:", err)
		os.Exit(1)
	}

	fmt.Println("Bot started.")
	b.Start()
}

func runMigrate(cfg *config.Config) {
	if err := db.Init(cfg.DB); err != nil {
		fmt.Fprintln(os.Stderr, "db:", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := applyMigrations(context.Background(), true); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
