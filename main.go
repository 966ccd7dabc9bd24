package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pthm-cable/rink/ai"
	"github.com/pthm-cable/rink/config"
	"github.com/pthm-cable/rink/game"
	"github.com/pthm-cable/rink/playbook"
	"github.com/pthm-cable/rink/telemetry"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	playbookPath := flag.String("playbook", "", "Path to playbook.yaml (empty = built-in playbook)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = play the full match)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, snapshots and config")
	trace := flag.Bool("trace", false, "Write a compressed tick trace (needs -output-dir)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config seed, then time-based)")
	logStats := flag.Bool("log-stats", false, "Output window stats via slog")

	flag.Parse()

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.Telemetry.LogLevel)}))
	slog.SetDefault(logger)

	book, err := playbook.Load(*playbookPath, ai.NewLibrary(game.Tuning(cfg)))
	if err != nil {
		slog.Error("failed to load playbook", "error", err)
		os.Exit(1)
	}

	out, err := telemetry.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}
	if *trace && out == nil {
		slog.Warn("trace requested without -output-dir, skipping")
	}

	m, err := game.NewMatch(cfg, book, game.Options{
		Seed:     *seed,
		Logger:   logger,
		LogStats: *logStats,
		Output:   out,
		Trace:    *trace,
	})
	if err != nil {
		slog.Error("failed to create match", "error", err)
		os.Exit(1)
	}

	// Close the trace on interrupt so the zstd stream stays readable.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	interrupted := make(chan struct{})
	go func() {
		<-stop
		if tw := m.Trace(); tw != nil {
			if err := tw.Close(); err != nil {
				slog.Error("failed to close trace", "error", err)
			}
		}
		close(interrupted)
	}()

	slog.Info("starting match",
		"id", m.ID(),
		"seed", m.Seed(),
		"max_ticks", *maxTicks,
		"ticks_per_game", cfg.Derived.TicksPerGame,
	)

loop:
	for !m.Over() {
		select {
		case <-interrupted:
			slog.Info("interrupted", "tick", m.Tick())
			break loop
		default:
		}
		m.Step()
		if *maxTicks > 0 && int(m.Tick()) >= *maxTicks {
			slog.Info("max ticks reached", "tick", m.Tick())
			break
		}
	}

	if err := m.Finish(); err != nil {
		slog.Error("failed to write match results", "error", err)
	}
	score := m.Score()
	slog.Info("final score", "home", score[0], "away", score[1], "ticks", m.Tick())
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	}
	return slog.LevelWarn
}
