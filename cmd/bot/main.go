package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdullah20019/whale-tracker-bot/internal/alert"
	"github.com/Abdullah20019/whale-tracker-bot/internal/api"
	"github.com/Abdullah20019/whale-tracker-bot/internal/bot"
	"github.com/Abdullah20019/whale-tracker-bot/internal/config"
	"github.com/Abdullah20019/whale-tracker-bot/internal/logger"
	"github.com/Abdullah20019/whale-tracker-bot/internal/models"
	"github.com/Abdullah20019/whale-tracker-bot/internal/provider"
	"github.com/Abdullah20019/whale-tracker-bot/internal/scheduler"
	"github.com/Abdullah20019/whale-tracker-bot/internal/store"
	"github.com/Abdullah20019/whale-tracker-bot/internal/tier"
	"github.com/Abdullah20019/whale-tracker-bot/internal/tracker"
	"github.com/Abdullah20019/whale-tracker-bot/internal/version"
)

func main() {
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.LogLevel)

	if cfg.App.Environment == "development" {
		log.Printf("Config loaded:\n%s", cfg.SafeString())
	}

	log.Printf("🐋 Whale tracker %s starting...", version.GetVersion())

	roster, err := store.LoadRoster(cfg.Storage.RosterPath)
	if err != nil {
		log.Fatalf("Failed to load whale roster: %v", err)
	}
	log.Printf("📋 Roster loaded: %d whales", roster.Count())

	_, stateStatErr := os.Stat(cfg.Storage.StatePath)

	state, err := store.LoadState(cfg.Storage.StatePath, time.Duration(cfg.Storage.WriteDebounceMs)*time.Millisecond)
	if err != nil {
		log.Fatalf("Failed to load bot state: %v", err)
	}

	// A fresh state takes its starting filters from config. An existing
	// state keeps the filters it persisted, including /setfilter changes.
	if os.IsNotExist(stateStatErr) {
		state.Update(func(s *store.BotState) {
			s.Filters = models.Filters{
				MCMin:       cfg.Filters.MCMin,
				MCMax:       cfg.Filters.MCMax,
				LiqMin:      cfg.Filters.LiqMin,
				VolLiqMax:   cfg.Filters.VolLiqMax,
				BuySellMax:  cfg.Filters.BuySellMax,
				MinTxns:     cfg.Filters.MinTxns,
				MinAgeHours: cfg.Filters.MinAgeHours,
			}
		})
	}

	providerTimeout := time.Duration(cfg.Providers.TimeoutSeconds) * time.Second
	snapshots := make(map[string]provider.WalletSnapshotProvider)
	for _, client := range []provider.WalletSnapshotProvider{
		provider.NewHeliusClient(cfg.Providers.HeliusAPIKey, providerTimeout),
		provider.NewAlchemyClient(cfg.Providers.AlchemyAPIKey, providerTimeout),
	} {
		snapshots[client.GetChain()] = client
	}
	metadata := provider.NewDexScreenerClient(providerTimeout)

	redisClient, err := alert.NewRedisClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		log.Printf("⚠️ Redis unavailable, continuing without alert dedup: %v", err)
		redisClient = nil
	}

	handler := bot.NewHandler(roster, state, cfg.Telegram.AdminID)

	telegramBot, err := bot.NewBot(cfg.Telegram.BotToken, cfg.Telegram.Debug, handler)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	log.Println("✅ Telegram bot initialized")

	dispatcher := alert.NewDispatcher(telegramBot.API(), cfg.Telegram.ChatID, cfg.Telegram.GroupID, redisClient)

	positions := tracker.NewPositions(state, snapshots, metadata, dispatcher,
		time.Duration(cfg.Monitor.SellRecheckSeconds)*time.Second)
	performance := tracker.NewPerformance(state, metadata, dispatcher,
		time.Duration(cfg.Monitor.PerfRecheckSeconds)*time.Second)
	promotion := tier.NewEngine(roster, state)

	sched := scheduler.New(
		roster,
		state,
		snapshots,
		metadata,
		dispatcher,
		positions,
		performance,
		promotion,
		time.Duration(cfg.Monitor.PerWhaleDelayMs)*time.Millisecond,
	)

	log.Println("🔍 Running baseline scan...")
	sched.RunBaselineScan()

	if err := sched.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}

	var apiServer *api.Server
	if cfg.API.Enabled {
		apiServer = api.NewServer(cfg.API.Addr, roster, state)
		go func() {
			if err := apiServer.Start(); err != nil {
				log.Printf("❌ Stats API error: %v", err)
			}
		}()
	}

	go func() {
		if err := telegramBot.Start(); err != nil {
			log.Fatalf("Bot error: %v", err)
		}
	}()

	log.Println("✅ Application started successfully!")
	log.Println("Press Ctrl+C to stop...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("\n🛑 Shutting down gracefully...")

	sched.Stop()

	if apiServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := apiServer.Stop(ctx); err != nil {
			log.Printf("Error stopping stats API: %v", err)
		}
		cancel()
	}

	state.Flush()

	log.Println("✅ Shutdown complete")
}
