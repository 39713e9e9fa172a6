package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"moviesearch/internal/app"
	"moviesearch/internal/fetch"
	"moviesearch/internal/metrics"
	"moviesearch/internal/providers/archive"
	"moviesearch/internal/providers/omdb"
	"moviesearch/internal/providers/pexels"
	"moviesearch/internal/search"
	"moviesearch/internal/telemetry"
	"moviesearch/internal/transport/telegram"
	"moviesearch/internal/verify"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	if cfg.TelegramToken == "" {
		logger.Error("TELEGRAM_BOT_TOKEN is required")
		os.Exit(1)
	}

	shutdownTracer, err := telemetry.Init(context.Background(), "moviesearch-bot")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	bot, err := telegram.NewBot(telegram.Config{
		Token:    cfg.TelegramToken,
		Searcher: buildSearchService(cfg, logger),
		Logger:   logger,
	})
	if err != nil {
		logger.Error("bot init failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := bot.Run(rootCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("bot stopped with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("bot stopped")
}

func buildSearchService(cfg app.Config, logger *slog.Logger) *search.Service {
	client := fetch.NewClient(fetch.Config{UserAgent: cfg.UserAgent})
	verifier := verify.New(client, cfg.VerifyTimeout)

	providers := []search.Provider{
		archive.NewProvider(archive.Config{
			SearchEndpoint:   cfg.ArchiveSearchEndpoint,
			MetadataEndpoint: cfg.ArchiveMetadataEndpoint,
			DownloadBase:     cfg.ArchiveDownloadBase,
			DetailsBase:      cfg.ArchiveDetailsBase,
			Fetch:            client,
			Verifier:         verifier,
			Rows:             cfg.ArchiveRows,
			SearchTimeout:    cfg.ArchiveSearchTimeout,
			MetadataTimeout:  cfg.ArchiveMetadataTimeout,
		}),
	}
	if cfg.PexelsAPIKey != "" {
		providers = append(providers, pexels.NewProvider(pexels.Config{
			APIKey:   cfg.PexelsAPIKey,
			Endpoint: cfg.PexelsEndpoint,
			Fetch:    client,
			PerPage:  cfg.PexelsPerPage,
			Timeout:  cfg.PexelsTimeout,
		}))
	} else {
		logger.Warn("PEXELS_API_KEY is not set, clip provider disabled")
	}

	var resolver *search.Resolver
	metadataClient := omdb.NewClient(omdb.Config{
		APIKey:   cfg.OMDBAPIKey,
		Endpoint: cfg.OMDBEndpoint,
		Fetch:    client,
		Timeout:  cfg.OMDBTimeout,
	})
	if metadataClient.Enabled() {
		resolver = search.NewResolver(metadataClient, cfg.SimilarityThreshold)
	} else {
		logger.Warn("OMDB_API_KEY is not set, title correction disabled")
	}

	return search.NewService(providers, resolver,
		search.WithTimeout(cfg.RequestTimeout),
		search.WithMaxItems(cfg.MaxItems),
		search.WithMaxAssetsPerItem(cfg.MaxAssetsPerItem),
	)
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	options := &slog.HandlerOptions{Level: level}
	if strings.ToLower(strings.TrimSpace(formatRaw)) == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, options))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, options))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
