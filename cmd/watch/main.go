package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"flat_watch/internal/config"
	"flat_watch/internal/fetcher"
	"flat_watch/internal/notify"
	"flat_watch/internal/runner"
	"flat_watch/internal/storage"
)

func main() {
	_ = godotenv.Load()

	recent := flag.Int("recent", 0, "print the N most recently notified listings and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			log.Error("create data directory", "path", dir, "error", err)
			os.Exit(1)
		}
	}

	store, err := storage.NewSQLite(cfg.DatabasePath)
	if err != nil {
		log.Error("open database", "path", cfg.DatabasePath, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *recent > 0 {
		if err := printRecent(ctx, store, *recent); err != nil {
			log.Error("list recent listings", "error", err)
			_ = store.Close()
			os.Exit(1)
		}
		return
	}

	var sources []fetcher.Source
	for _, name := range cfg.Sources {
		switch name {
		case "otodom":
			sources = append(sources, fetcher.NewOtodom(http.DefaultClient, log))
		case "olx":
			sources = append(sources, fetcher.NewOLX(http.DefaultClient, log))
		}
	}

	mailer := notify.NewMailer(notify.EmailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		From:     cfg.EmailFrom,
		Password: cfg.EmailPassword,
		To:       cfg.EmailTo,
	}, log)

	var sender runner.Notifier = mailer
	if cfg.TelegramToken != "" {
		tg, err := notify.NewTelegram(cfg.TelegramToken, cfg.TelegramChatID, log)
		if err != nil {
			log.Error("create telegram sender", "error", err)
			_ = store.Close()
			os.Exit(1)
		}
		sender = notify.NewTee(mailer, tg, log)
	}

	r := runner.New(store, sources, sender, cfg.Criteria, log)

	if cfg.IntervalMinutes > 0 {
		r.SetTickInterval(time.Duration(cfg.IntervalMinutes) * time.Minute)
		log.Info("starting watch loop", "interval_minutes", cfg.IntervalMinutes, "sources", strings.Join(cfg.Sources, ","))
		r.Run(ctx)
		log.Info("watch loop stopped")
		return
	}

	if err := r.RunOnce(ctx); err != nil {
		log.Error("run failed", "error", err)
		_ = store.Close()
		os.Exit(1)
	}
}

func printRecent(ctx context.Context, store storage.Storage, limit int) error {
	listings, err := store.RecentNotified(ctx, limit)
	if err != nil {
		return err
	}
	if len(listings) == 0 {
		fmt.Println("no notified listings yet")
		return nil
	}
	for _, l := range listings {
		fmt.Printf("[%s] %s\n  %s\n", l.Source, l.Title, l.URL)
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
