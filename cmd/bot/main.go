package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"steam-deals-bot/config"
	"steam-deals-bot/internal/bot"
	"steam-deals-bot/internal/database"
	"steam-deals-bot/internal/logger"
	"steam-deals-bot/internal/notifier"
	"steam-deals-bot/internal/provider"
	"steam-deals-bot/internal/worker"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using system environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logg := logger.New(cfg.LogLevel)

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		logg.Fatal().Err(err).Msg("database init failed")
	}
	defer db.Close()

	api, err := bot.Init(cfg.TelegramBotToken, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("telegram init failed")
	}

	tg := notifier.NewTelegram(api, cfg.ChannelUsername, logg)

	var catalog provider.CatalogProvider
	switch cfg.CatalogSource {
	case config.CatalogSourceScraper:
		catalog = provider.NewSpecialsScraper(cfg.HTTPTimeout, logg)
	default:
		catalog = provider.NewSteamSpyClient(cfg.HTTPTimeout, logg)
	}
	deals := provider.NewCheapSharkClient(cfg.DealPageSize, cfg.HTTPTimeout, logg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.Schedule(ctx, worker.NewCatalogSync(db, catalog, cfg.CatalogPageCap, logg), cfg.CatalogSyncInterval, logg)
	go worker.Schedule(ctx, worker.NewDealPoller(db, deals, tg, logg), cfg.DealPollInterval, logg)
	go worker.Schedule(ctx, worker.NewWishlistMatcher(db, tg, logg), cfg.WishlistInterval, logg)

	handler := bot.NewHandler(db, tg, cfg.ChannelUsername, logg)
	go handler.Run(api)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logg.Info().Msg("shutting down")
	cancel()
	api.StopReceivingUpdates()
}
