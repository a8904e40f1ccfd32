package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jd261/marit/app/aggregate"
	"github.com/jd261/marit/app/cfg"
	"github.com/jd261/marit/app/classify"
	"github.com/jd261/marit/app/config"
	"github.com/jd261/marit/app/extract"
	"github.com/jd261/marit/app/feed"
	"github.com/jd261/marit/app/pipeline"
	"github.com/jd261/marit/app/resolve"
	"github.com/jd261/marit/app/source"
	"github.com/jd261/marit/app/urlnorm"
)

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	setupLogging(appCfg.Debug)

	slog.Info("Starting run", "version", appCfg.Version)

	runCfg, err := config.NewLoader(appCfg.SourcesFile).Load()
	if err != nil {
		slog.Error("Failed to load sources", "error", err)
		os.Exit(1)
	}
	slog.Info("Sources loaded", "count", len(runCfg.Sources))

	store, err := openStore(appCfg.StorePath)
	if err != nil {
		slog.Error("Failed to open item store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	// The run either completes fully or dies with a fetch error; a SIGINT
	// mid-run cancels outstanding fetches and exits non-zero.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	normalizer := urlnorm.NewNormalizer(runCfg.Tables.TrackingParams)
	classifier := classify.NewClassifier(
		runCfg.Tables.OwnHosts,
		runCfg.Tables.OwnSuffixes,
		runCfg.Tables.BlockedSuffixes,
		runCfg.Tables.BlockedExtensions,
	)
	extractor := extract.NewExtractor(normalizer, classifier)

	httpClient := &http.Client{}
	fetcher := source.NewFetcher(httpClient, appCfg.UserAgent, appCfg.PostLimit,
		time.Duration(appCfg.SourceTimeout)*time.Second)
	resolver := resolve.NewResolver(httpClient, normalizer, appCfg.UserAgent,
		runCfg.Tables.JunkTitles, appCfg.ExtractExcerpts,
		time.Duration(appCfg.ResolveTimeout)*time.Second)

	// Soft cap tracks a generous multiple of the output size so merge work
	// stays bounded even against a pathological source
	aggregator := aggregate.NewAggregator(store, normalizer, appCfg.MaxItems*10)

	runner := pipeline.NewRunner(fetcher, extractor, resolver, aggregator,
		time.Duration(appCfg.PacingDelay)*time.Second, appCfg.WorkerCount)

	started := time.Now()
	if err := runner.Run(ctx, runCfg.Sources); err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}

	items, err := aggregator.Items(appCfg.MaxItems)
	if err != nil {
		slog.Error("Failed to collect items", "error", err)
		os.Exit(1)
	}

	generator := feed.NewGenerator(appCfg.Version, appCfg.OutputFile)
	document, err := generator.Run(items)
	if err != nil {
		slog.Error("Failed to generate feed", "error", err)
		os.Exit(1)
	}

	if err := feed.WriteFile(appCfg.OutputFile, document); err != nil {
		slog.Error("Failed to write feed", "error", err)
		os.Exit(1)
	}

	slog.Info("Run complete",
		"duration", time.Since(started).Round(time.Millisecond),
		"items", len(items),
		"skipped", aggregator.Skipped(),
		"output", appCfg.OutputFile)
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

func openStore(path string) (aggregate.Store, error) {
	if path == "" {
		return aggregate.NewMemoryStore(), nil
	}
	slog.Info("Using persistent item store", "path", path)
	return aggregate.NewSQLiteStore(path)
}
