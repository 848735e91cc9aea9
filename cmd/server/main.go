package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/slipperyrat/home-management-app-sub004/internal/ai"
	"github.com/slipperyrat/home-management-app-sub004/internal/bot"
	"github.com/slipperyrat/home-management-app-sub004/internal/config"
	"github.com/slipperyrat/home-management-app-sub004/internal/database"
	"github.com/slipperyrat/home-management-app-sub004/internal/repository"
	"github.com/slipperyrat/home-management-app-sub004/internal/scheduler"
	"github.com/slipperyrat/home-management-app-sub004/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.DatabaseURI == "" {
		log.Fatal("DATABASE_URI is required")
	}
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.New(ctx, cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to database")

	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	var aiClient *ai.Client
	if cfg.AIAPIKey != "" {
		aiClient = ai.New(cfg.AIAPIKey, cfg.AIBaseURL, cfg.AIModel)
		log.Printf("AI client initialized (model: %s)", cfg.AIModel)
	} else {
		log.Println("AI client not configured, natural language features disabled")
	}

	b, err := bot.New(cfg.TelegramToken, db, aiClient, cfg.DefaultTimezone)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	sched := scheduler.New(b.API(), db)
	b.SetSchedulerNotify(sched.Notify)
	go sched.Start(ctx)

	// Digests run on their own cron spec, not the reminder tick.
	digests := cron.New()
	if _, err := digests.AddFunc(cfg.DigestCron, func() { sched.RunDigests(ctx) }); err != nil {
		log.Fatalf("Invalid DIGEST_CRON %q: %v", cfg.DigestCron, err)
	}
	digests.Start()
	defer digests.Stop()

	api := server.New(
		repository.NewEventRepository(db),
		repository.NewHouseholdRepository(db),
		server.NewAuthenticator(cfg.APIKey),
		cfg.DefaultTimezone,
	)
	httpServer := &http.Server{Addr: cfg.ListenAddr, Handler: api.Handler()}
	go func() {
		log.Printf("HTTP API listening on %s", cfg.ListenAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()
	go func() {
		<-ctx.Done()
		if err := httpServer.Shutdown(context.Background()); err != nil {
			log.Printf("HTTP server shutdown: %v", err)
		}
	}()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		cancel()
	}()

	log.Println("Starting bot...")
	if err := b.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("Bot error: %v", err)
	}
}
