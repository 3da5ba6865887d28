package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"canteen-menu-planner/internal/account"
	"canteen-menu-planner/internal/app"
	"canteen-menu-planner/internal/config"
	"canteen-menu-planner/internal/database"
	"canteen-menu-planner/internal/history"
	"canteen-menu-planner/internal/importer"
	"canteen-menu-planner/internal/llm"
	"canteen-menu-planner/internal/menu"
	"canteen-menu-planner/internal/metrics"
	"canteen-menu-planner/internal/telegram"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func main() {
	_ = godotenv.Load()

	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if cfg.TelegramBotToken == "" || cfg.TelegramWebhookURL == "" {
		log.Fatal().Msg("TELEGRAM_BOT_TOKEN and TELEGRAM_WEBHOOK_URL must be set")
	}

	ctx := context.Background()

	textGen, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize text generator")
	}
	if closer, ok := textGen.(llm.Closer); ok {
		defer closer.Close()
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	profiles := account.NewRepository(db.SQL)
	historyRepo := history.NewRepository(db.SQL)
	metricsStore := metrics.NewStore(db.SQL)
	generator := menu.NewGenerator(textGen, log)
	menuImporter := importer.NewImporter(profiles, textGen)

	application := app.NewApp(profiles, historyRepo, metricsStore, generator, cfg, log)

	bot, err := telegram.NewBot(cfg, application, menuImporter, metricsStore, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telegram bot")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	bot.RegisterHandlers()

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: nil,
	}

	go func() {
		log.Info().Str("port", port).Msg("telegram bot server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}
