package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ForecastBench/internal/collector"
	"ForecastBench/internal/config"
	"ForecastBench/internal/notifier"
	"ForecastBench/internal/recorder"
	"ForecastBench/internal/runner"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ForecastBench starting...")

	cfgPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	daemon := flag.Bool("daemon", false, "keep running and re-run the benchmark on the configured cron schedule")
	flag.Parse()

	if v := os.Getenv("CONFIG_PATH"); v != "" {
		*cfgPath = v
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.PriceCSV != "" {
		fetcher = collector.NewFileFetcher(cfg.DataSource.PriceCSV)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol, cfg.DataSource.HistoryDays)

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

	// Init notifier
	var not notifier.Notifier
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChatID != "" {
		not = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	} else {
		not = notifier.NewNoopNotifier()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	run := runner.New(ctx, col, cfg, rec, not)

	if !*daemon {
		if err := run.RunOnce(); err != nil {
			log.Fatalf("[FATAL] benchmark run: %v", err)
		}
		return
	}

	if cfg.Schedule.Cron == "" {
		log.Fatal("[FATAL] daemon mode requires schedule.cron")
	}
	if err := run.RegisterSchedule(cfg.Schedule.Cron); err != nil {
		log.Fatalf("[FATAL] register cron schedule: %v", err)
	}
	run.Start()
	defer run.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing benchmark now")
		go func() {
			if err := run.RunOnce(); err != nil {
				log.Printf("[ERROR] initial run: %v", err)
			}
		}()
	}

	log.Println("[INFO] ForecastBench is running. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] ForecastBench stopped")
}
