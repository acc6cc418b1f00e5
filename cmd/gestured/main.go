// gestured bridges a gesture detector's WebSocket stream to runner control
// actions. Decoded gestures pass a confidence threshold and a per-category
// cooldown before the corresponding action is emitted as one line-delimited
// JSON object on stdout for the host process to consume.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/admin"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/bus"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/client"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/config"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/dispatch"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/gesture"
	"github.com/ZeynelAbidin91/EndlessRunnerSampleGame/internal/history"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gestured: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configPath  = flag.String("config", "", "Path to YAML config file")
		wsURL       = flag.String("ws", "", "Detector websocket URL (overrides config)")
		fastMode    = flag.Bool("fast", true, "Dispatch immediately instead of smoothing")
		logLevelStr = flag.String("log-level", "", "Log level: error, warn, info, debug (overrides config)")
		adminSocket = flag.String("admin-socket", "", "Unix socket for runtime administration (overrides config)")
		historyPath = flag.String("history", "", "SQLite file for the execution log (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *wsURL != "" {
		cfg.ServerURL = *wsURL
	}
	if *logLevelStr != "" {
		cfg.LogLevel = *logLevelStr
	}
	if *adminSocket != "" {
		cfg.AdminSocket = *adminSocket
	}
	if *historyPath != "" {
		cfg.HistoryPath = *historyPath
	}
	if isFlagSet("fast") {
		cfg.FastMode = *fastMode
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, err := parseLogLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := setupLogger(level)
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	b := bus.New(logger)
	target := newActionWriter(os.Stdout)
	d := dispatch.New(target, b, logger, cfg.Threshold, cfg.Cooldown)

	c := client.New(client.Options{
		URL:             cfg.ServerURL,
		ReconnectDelay:  cfg.ReconnectDelay,
		AutoReconnect:   cfg.AutoReconnect,
		FastMode:        cfg.FastMode,
		InputDelay:      cfg.InputDelay,
		QueueCapacity:   cfg.QueueCapacity,
		MaxDrainPerTick: cfg.MaxDrainPerTick,
		Logger:          logger,
	}, d, b)

	if cfg.HistoryPath != "" {
		store, err := history.Open(ctx, cfg.HistoryPath)
		if err != nil {
			return err
		}
		defer store.Close()
		logger.Info("execution log enabled", "path", cfg.HistoryPath, "session", store.SessionID())

		b.SubscribeExecuted(func(cat gesture.Category) {
			if err := store.Record(context.Background(), cat, time.Now()); err != nil {
				logger.Warn("execution log write failed", "error", err)
			}
		})
	}

	if cfg.AdminSocket != "" {
		srv, err := admin.Listen(cfg.AdminSocket, c, logger)
		if err != nil {
			return err
		}
		defer srv.Close()
	}

	b.SubscribeStatus(func(connected bool) {
		logger.Info("connection status changed", "connected", connected)
	})

	logger.Info("starting gesture client",
		"url", cfg.ServerURL,
		"fast_mode", cfg.FastMode,
		"threshold", cfg.Threshold,
		"cooldown", cfg.Cooldown,
		"tick_rate", cfg.TickRate)

	c.Connect()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		ticker := time.NewTicker(time.Second / time.Duration(cfg.TickRate))
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				c.Tick()
			}
		}
	})

	err = g.Wait()
	logger.Info("shutting down")
	c.Close(true)
	return err
}

// isFlagSet reports whether a flag was passed explicitly, so a default
// value does not clobber the config file.
func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
