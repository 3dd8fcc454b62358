package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stationbot/internal/config"
	"stationbot/internal/database"
	"stationbot/internal/discord"
	"stationbot/internal/handler"
	"stationbot/internal/middleware"
	"stationbot/internal/repository"
	"stationbot/internal/service"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg := config.Load()

	log, err := config.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	for _, w := range cfg.Warnings() {
		log.Warn(w)
	}

	// Database
	db, err := database.NewPool(context.Background(), cfg.DatabaseURL, log)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.RunMigrations(context.Background(), db, log); err != nil {
		log.Fatalw("failed to run migrations", "error", err)
	}

	// Repositories & services
	changelogRepo := repository.NewChangelogRepository(db)
	changelogSvc := service.NewChangelogService(changelogRepo, log)

	// Discord bot (optional)
	bot, err := discord.NewBot(cfg.DiscordBotToken, cfg.DiscordGuildID, cfg.GitHubRepo, changelogSvc, log)
	if err != nil {
		log.Fatalw("failed to create Discord bot", "error", err)
	}
	if err := bot.Start(); err != nil {
		log.Fatalw("failed to start Discord bot", "error", err)
	}

	app := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
		BodyLimit:    1 * 1024 * 1024, // 1MB, GitHub caps payloads well below this
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
	})

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// Health
	healthH := handler.NewHealthHandler(db)
	app.Get("/health", healthH.Health)
	app.Get("/ready", healthH.Ready)

	// GitHub webhooks
	githubH := handler.NewGitHubHandler(changelogSvc, log)
	app.Post("/github/webhook", middleware.GitHubSignature(cfg.GitHubWebhookSecret), githubH.Webhook)

	// API v1
	v1 := app.Group("/api/v1")
	changelogH := handler.NewChangelogHandler(changelogSvc, cfg.GitHubRepo, cfg.ChangelogListLimit)
	v1.Get("/changelogs", middleware.RateLimit(60, time.Minute), changelogH.List)

	// Server-to-server (game server key auth)
	server := v1.Group("/server", middleware.ServerKey(cfg.ServerKey))
	server.Get("/changelogs/:pr", changelogH.ForPullRequest)

	// Admin
	admin := v1.Group("/admin", middleware.AdminKey(cfg.AdminKey))
	admin.Post("/changelogs/compile", middleware.RateLimit(30, time.Minute), changelogH.Compile)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalw("server error", "error", err)
		}
	}()

	log.Infow("stationbot running", "port", cfg.Port, "env", cfg.Env)

	<-quit
	log.Info("shutting down")
	_ = app.ShutdownWithTimeout(5 * time.Second)
	bot.Stop()
	log.Info("server stopped")
}
