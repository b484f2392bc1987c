package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TrendSentinel/internal/collector"
	"TrendSentinel/internal/config"
	"TrendSentinel/internal/indicator"
	"TrendSentinel/internal/logging"
	"TrendSentinel/internal/notifier"
	"TrendSentinel/internal/position"
	"TrendSentinel/internal/recorder"
	"TrendSentinel/internal/scheduler"
	"TrendSentinel/internal/strategy"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TrendSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init logging
	if closer, err := logging.Setup(logging.Options{
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	}); err != nil {
		log.Printf("[WARN] file logging disabled: %v", err)
	} else {
		defer closer.Close()
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.DataSource.Interval, cfg.Proxy)
	} else {
		fetcher = collector.NewMockFetcher()
		log.Println("[WARN] no data_source.base_url configured, using mock data")
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	// Init indicator config
	indCfg := indicator.DefaultConfig()
	indCfg.Period = cfg.Indicator.Period
	indCfg.Multiplier = cfg.Indicator.Multiplier
	indCfg.ShiftStops = *cfg.Indicator.ShiftStops
	indCfg.ShiftSignal = cfg.Indicator.ShiftSignal

	// Init collector
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbols, cfg.DataSource.Days, cfg.DataSource.Workers, indCfg)

	// Init position book
	book, err := position.NewBook(cfg.Positions.StateFile, cfg.Positions.MaxOpen,
		cfg.Positions.MaxDailyOrders, cfg.Strategy.LotSize,
		time.Duration(cfg.Positions.CooldownMinutes)*time.Minute)
	if err != nil {
		log.Fatalf("[FATAL] init position book: %v", err)
	}

	// Init Telegram notifier
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	if !tn.Enabled() {
		log.Println("[WARN] Telegram not configured, notifications disabled")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Strategy parameters
	entry := strategy.Params{
		RiskPerTrade:   cfg.Strategy.RiskPerTrade,
		LotSize:        cfg.Strategy.LotSize,
		MaxLots:        cfg.Strategy.MaxLots,
		MaxRiskPercent: cfg.Strategy.MaxRiskPercent,
		RewardRatio:    cfg.Strategy.RewardRatio,
	}
	exit := strategy.ExitParams{
		SquareOffHour:     cfg.Strategy.SquareOffHour,
		SquareOffMinute:   cfg.Strategy.SquareOffMinute,
		CircuitBreakerPct: cfg.Strategy.CircuitBreakerPct,
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, book, tn, rec, entry, exit)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.SquareOffCron, cfg.Schedule.SummaryCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Start Telegram polling
	go tn.StartPolling(ctx, sched.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] TrendSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TrendSentinel stopped")
}
