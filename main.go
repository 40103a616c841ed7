package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/holeswarm/config"
	"github.com/pthm-cable/holeswarm/game"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, config snapshot and best controller")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	loadPath := flag.String("load", "", "Controller file to copy into every agent before starting")
	savePath := flag.String("save", "", "Where to write the best controller (empty = output dir or autosave path)")
	storeKind := flag.String("store", "", "Run history backend: memory or sqlite (empty = use config)")
	storePath := flag.String("store-path", "", "SQLite history file (empty = use config)")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		OutputDir:      *outputDir,
		Headless:       *headless,
		StepsPerUpdate: *stepsPerUpdate,
		LoadPath:       *loadPath,
		SavePath:       *savePath,
		StoreKind:      *storeKind,
		StorePath:      *storePath,
	}

	if *headless {
		os.Exit(runHeadless(cfg, opts, *maxTicks))
	}

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "holeswarm")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			break
		}
	}
}

// runHeadless trains until an agent reaches the hole or the tick cap is hit.
func runHeadless(cfg *config.Config, opts game.Options, maxTicks int64) int {
	g, err := game.NewGame(cfg, opts)
	if err != nil {
		slog.Error("failed to start", "error", err)
		return 1
	}
	defer g.Unload()

	slog.Info("starting headless training",
		"seed", opts.Seed,
		"population", cfg.Population.Size,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
	)

	for !g.Done() {
		g.UpdateHeadless()

		if maxTicks > 0 && g.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick(), "generation", g.View().Generation())
			return 0
		}
	}
	slog.Info("training finished", "tick", g.Tick(), "generation", g.View().Generation())
	return 0
}
