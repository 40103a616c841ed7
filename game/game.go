// Package game wires the population to its surroundings: the tick loop,
// experiment output, run history, autosave, and the optional window.
package game

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/holeswarm/config"
	"github.com/pthm-cable/holeswarm/history"
	"github.com/pthm-cable/holeswarm/inspector"
	"github.com/pthm-cable/holeswarm/renderer"
	"github.com/pthm-cable/holeswarm/sim"
	"github.com/pthm-cable/holeswarm/telemetry"
	"github.com/pthm-cable/holeswarm/ui"
)

const (
	// hallOfFameSize is how many generation elites are kept for the run report.
	hallOfFameSize = 10
	controlsWidth  = 160
)

// Options configures a game beyond what the config file holds.
type Options struct {
	Seed           int64
	OutputDir      string // CSV logs, config snapshot, best controller ("" = off)
	Headless       bool
	StepsPerUpdate int    // simulation ticks per Update call
	LoadPath       string // controller to seed every slot with
	SavePath       string // where Save writes ("" = output dir or autosave path)
	StoreKind      string // history backend ("" = config)
	StorePath      string // sqlite file ("" = config)
}

// Game holds the complete run state.
type Game struct {
	cfg  *config.Config
	pop  *sim.Population
	opts Options

	dt     float32
	tick   int64
	paused bool
	done   bool

	ctx   context.Context
	runID string
	store history.Store

	output *telemetry.OutputManager
	perf   *telemetry.PerfCollector
	hall   *telemetry.HallOfFame

	// Graphics mode only.
	scene     *renderer.Scene
	hud       *ui.HUD
	controls  *ui.ControlsPanel
	inspector *inspector.Inspector
}

// NewGame builds the population and opens every output the options ask for.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}

	pop, err := sim.NewPopulation(cfg.PopulationOptions(), sim.NewSources(opts.Seed))
	if err != nil {
		return nil, fmt.Errorf("creating population: %w", err)
	}
	if opts.LoadPath != "" {
		if err := pop.Load(opts.LoadPath); err != nil {
			return nil, fmt.Errorf("loading controller: %w", err)
		}
		slog.Info("controller loaded", "path", opts.LoadPath, "population", pop.Size())
	}

	g := &Game{
		cfg:  cfg,
		pop:  pop,
		opts: opts,
		dt:   cfg.Derived.DT32,
		ctx:  context.Background(),
		perf: telemetry.NewPerfCollector(cfg.Screen.TargetFPS),
		hall: telemetry.NewHallOfFame(hallOfFameSize),
	}

	g.output, err = telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	if err := g.output.WriteConfig(cfg); err != nil {
		g.output.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	if err := g.openHistory(time.Now()); err != nil {
		g.output.Close()
		return nil, err
	}

	if !opts.Headless {
		g.scene = renderer.NewScene(pop.Environment())
		g.hud = ui.NewHUD()
		g.controls = ui.NewControlsPanel(int32(cfg.Screen.Width)-controlsWidth-10, 10, controlsWidth)
		g.inspector = inspector.NewInspector(int32(cfg.Screen.Width)-controlsWidth-inspector.PanelWidth-20, 10)
	}
	return g, nil
}

// openHistory creates the store and records the run.
func (g *Game) openHistory(startedAt time.Time) error {
	kind := g.opts.StoreKind
	if kind == "" {
		kind = g.cfg.History.Backend
	}
	path := g.opts.StorePath
	if path == "" {
		path = g.cfg.History.SQLitePath
	}

	store, err := history.NewStore(kind, path)
	if err != nil {
		return err
	}
	if err := store.Init(g.ctx); err != nil {
		return fmt.Errorf("initializing %s history: %w", kind, err)
	}

	snapshot, err := g.cfg.Snapshot()
	if err != nil {
		history.CloseIfSupported(store)
		return err
	}

	g.runID = history.NewRunID()
	if err := store.SaveRun(g.ctx, history.RunRecord{
		ID:             g.runID,
		Seed:           g.opts.Seed,
		PopulationSize: g.pop.Size(),
		StartedAt:      startedAt,
		Config:         snapshot,
	}); err != nil {
		history.CloseIfSupported(store)
		return fmt.Errorf("recording run: %w", err)
	}

	g.store = store
	slog.Info("run started", "run_id", g.runID, "history", kind, "seed", g.opts.Seed)
	return nil
}

// View returns the read-only population view.
func (g *Game) View() sim.View { return g.pop }

// Tick returns the number of simulation ticks run so far.
func (g *Game) Tick() int64 { return g.tick }

// Done reports whether an agent has reached the hole.
func (g *Game) Done() bool { return g.done }

// RunID returns the history identifier of this run.
func (g *Game) RunID() string { return g.runID }

// Paused reports whether the simulation is paused.
func (g *Game) Paused() bool { return g.paused }

// TogglePause pauses or resumes the simulation.
func (g *Game) TogglePause() {
	g.paused = !g.paused
}

// Restart starts a fresh episode with the learned controllers after a
// success.
func (g *Game) Restart() {
	g.pop.Restart()
	g.done = false
	slog.Info("run restarted", "generation", g.pop.Generation())
}

// Unload saves the current best controller, writes the end-of-run report,
// and closes every output. A run that ended in success already saved.
func (g *Game) Unload() {
	if !g.done {
		if err := g.Save(); err != nil {
			slog.Error("failed to save controller on exit", "error", err)
		}
	}
	if err := g.output.WriteHallOfFame(g.hall); err != nil {
		slog.Error("failed to write hall of fame", "error", err)
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
	if err := history.CloseIfSupported(g.store); err != nil {
		slog.Error("failed to close history", "error", err)
	}
}
