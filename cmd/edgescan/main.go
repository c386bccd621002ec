package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/alejandrodnm/edgescan/config"
	"github.com/alejandrodnm/edgescan/internal/adapters/httpapi"
	"github.com/alejandrodnm/edgescan/internal/adapters/kalshi"
	"github.com/alejandrodnm/edgescan/internal/adapters/oddsapi"
	"github.com/alejandrodnm/edgescan/internal/adapters/storage"
	"github.com/alejandrodnm/edgescan/internal/application/scanner"
	"github.com/alejandrodnm/edgescan/internal/metrics"
)

func main() {
	os.Exit(run())
}

// run devuelve el exit code; los defers (storage, notifiers) se ejecutan antes de salir.
func run() int {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	once := flag.Bool("once", false, "run one scan cycle and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	table := flag.Bool("table", false, "print full table (default: compact 1-line)")
	serve := flag.Bool("serve", false, "expose the HTTP API alongside the scan loop")
	stake := flag.Float64("stake", 0, "stake per opportunity (overrides config)")
	minEdge := flag.Float64("min-edge", 0, "minimum edge %, inclusive (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		return 1
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "stake":
			cfg.Scanner.Stake = *stake
		case "min-edge":
			cfg.Scanner.MinEdge = *minEdge
		}
	})
	setupLogger(cfg.Log)

	slog.Info("edgescan starting",
		"config", *configPath,
		"interval", cfg.ScanInterval(),
		"stake", cfg.Scanner.Stake,
		"min_edge", cfg.Scanner.MinEdge,
		"once", *once,
		"serve", *serve,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	venue := kalshi.NewClient(kalshi.Config{
		BaseURL:  cfg.Kalshi.BaseURL,
		APIKey:   cfg.Kalshi.APIKey,
		Keywords: cfg.Scanner.Keywords,
		MaxPages: cfg.Scanner.MaxPages,
		Timeout:  cfg.CallTimeout(),
	})
	book := oddsapi.NewClient(oddsapi.Config{
		BaseURL:   cfg.Sportsbook.BaseURL,
		APIKey:    cfg.Sportsbook.APIKey,
		Sports:    cfg.Sportsbook.Sports,
		Regions:   cfg.Sportsbook.Regions,
		Bookmaker: cfg.Sportsbook.Bookmaker,
		Timeout:   cfg.CallTimeout(),
	})
	if cfg.Sportsbook.APIKey == "" {
		slog.Warn("ODDS_API_KEY not set, scans will use sample prices")
	}

	store, err := storage.Open(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err)
		return 1
	}
	defer store.Close()

	notifier, closeNotifiers := buildNotifier(ctx, cfg, *table)
	defer closeNotifiers()

	m := metrics.NewManager()

	s := scanner.New(scanner.Config{
		ScanInterval: cfg.ScanInterval(),
		Stake:        cfg.Scanner.Stake,
		MinEdge:      cfg.Scanner.MinEdge,
		Workers:      cfg.Scanner.Workers,
		CallTimeout:  cfg.CallTimeout(),
		DryRun:       *once,
	}, venue, venue, book, store, notifier, m)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.Run(gctx)
	})
	if *serve && !*once {
		api := httpapi.NewServer(httpapi.Config{
			Stake:   cfg.Scanner.Stake,
			MinEdge: cfg.Scanner.MinEdge,
		}, s, store, m)
		g.Go(func() error {
			return api.ListenAndServe(gctx, cfg.HTTP.Addr)
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("edgescan exited with error", "err", err)
		return 1
	}

	slog.Info("edgescan stopped cleanly")
	return 0
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
