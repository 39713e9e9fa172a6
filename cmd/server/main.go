package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	apihttp "moviesearch/internal/api/http"
	"moviesearch/internal/app"
	"moviesearch/internal/fetch"
	"moviesearch/internal/metrics"
	"moviesearch/internal/providers/archive"
	"moviesearch/internal/providers/omdb"
	"moviesearch/internal/providers/pexels"
	"moviesearch/internal/search"
	"moviesearch/internal/telemetry"
	"moviesearch/internal/verify"
)

func main() {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)
	metrics.Register(prometheus.DefaultRegisterer)

	shutdownTracer, err := telemetry.Init(context.Background(), "moviesearch")
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", "moviesearch"),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.Duration("requestTimeout", cfg.RequestTimeout),
		slog.String("archiveSearchEndpoint", cfg.ArchiveSearchEndpoint),
		slog.Bool("hasOMDBKey", cfg.OMDBAPIKey != ""),
		slog.Bool("hasPexelsKey", cfg.PexelsAPIKey != ""),
		slog.Int("maxItems", cfg.MaxItems),
		slog.Int("maxAssetsPerItem", cfg.MaxAssetsPerItem),
	)

	searchService := buildSearchService(cfg, logger)

	handler := apihttp.NewServer(searchService, apihttp.WithLogger(logger)).Handler()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("movie search service started",
		slog.String("addr", cfg.HTTPAddr),
		slog.Duration("timeout", cfg.RequestTimeout),
	)

	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("movie search service stopped")
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
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
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
