package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/holeswarm/config"
	"github.com/pthm-cable/holeswarm/neural"
)

// testConfig returns a tiny, fast-ending configuration.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("config.Load: %v", err)
	}
	cfg.Population.Size = 4
	cfg.Population.MaxEpisodeTime = 0.05
	cfg.Telemetry.ReportInterval = 1
	cfg.Autosave.EveryGenerations = 0
	cfg.Autosave.Path = filepath.Join(t.TempDir(), "autosave.bin")
	return cfg
}

func newTestGame(t *testing.T, cfg *config.Config, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	if opts.StoreKind == "" {
		opts.StoreKind = "memory"
	}
	g, err := NewGame(cfg, opts)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	t.Cleanup(g.Unload)
	return g
}

// runGenerations steps until n generations have finished.
func runGenerations(t *testing.T, g *Game, n int) {
	t.Helper()
	for i := 0; i < 10000 && g.View().Generation() < n; i++ {
		g.UpdateHeadless()
	}
	if got := g.View().Generation(); got < n {
		t.Fatalf("generation = %d after stepping, want %d", got, n)
	}
}

func TestHeadlessRunRecordsGenerations(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, testConfig(t), Options{Seed: 7, OutputDir: dir, StepsPerUpdate: 2})

	runGenerations(t, g, 3)

	if g.Tick() == 0 {
		t.Error("no ticks recorded")
	}

	data, err := os.ReadFile(filepath.Join(dir, "generations.csv"))
	if err != nil {
		t.Fatalf("reading generations.csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) < 4 {
		t.Fatalf("generations.csv has %d lines, want header + 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "generation,reason") {
		t.Errorf("header = %q", lines[0])
	}

	gens, err := g.store.Generations(g.ctx, g.RunID())
	if err != nil {
		t.Fatalf("Generations: %v", err)
	}
	if len(gens) < 3 {
		t.Fatalf("history has %d generations, want at least 3", len(gens))
	}
	for i, rec := range gens[:3] {
		if rec.Generation != i {
			t.Errorf("record %d generation = %d", i, rec.Generation)
		}
		if rec.Success {
			t.Errorf("record %d marked as success", i)
		}
	}

	if g.hall.Size() == 0 {
		t.Error("hall of fame is empty after finished generations")
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Errorf("config snapshot missing: %v", err)
	}
}

func TestRunIsRecorded(t *testing.T) {
	cfg := testConfig(t)
	g := newTestGame(t, cfg, Options{Seed: 99})

	run, ok, err := g.store.GetRun(g.ctx, g.RunID())
	if err != nil || !ok {
		t.Fatalf("GetRun: ok=%v err=%v", ok, err)
	}
	if run.Seed != 99 {
		t.Errorf("seed = %d, want 99", run.Seed)
	}
	if run.PopulationSize != cfg.Population.Size {
		t.Errorf("population size = %d, want %d", run.PopulationSize, cfg.Population.Size)
	}
	if !strings.Contains(string(run.Config), "layer_sizes") {
		t.Error("run config snapshot does not contain the neural section")
	}
}

func TestAutosaveWritesElite(t *testing.T) {
	cfg := testConfig(t)
	cfg.Autosave.EveryGenerations = 1
	g := newTestGame(t, cfg, Options{Seed: 3})

	runGenerations(t, g, 1)

	nn, err := neural.LoadFFNN(cfg.Autosave.Path)
	if err != nil {
		t.Fatalf("loading autosave: %v", err)
	}
	if nn.InputSize() != 22 {
		t.Errorf("autosaved input size = %d, want 22", nn.InputSize())
	}

	gen, data, ok, err := g.store.LatestController(g.ctx, g.RunID())
	if err != nil || !ok {
		t.Fatalf("LatestController: ok=%v err=%v", ok, err)
	}
	if gen != 0 || len(data) == 0 {
		t.Errorf("checkpoint generation = %d, %d bytes", gen, len(data))
	}
}

func TestSuccessSavesAndStops(t *testing.T) {
	dir := t.TempDir()
	g := newTestGame(t, testConfig(t), Options{Seed: 5, OutputDir: dir})

	g.done = true
	g.onSuccess(0)

	if _, err := neural.LoadFFNN(filepath.Join(dir, "best_controller.bin")); err != nil {
		t.Fatalf("controller not saved on success: %v", err)
	}

	gens, err := g.store.Generations(g.ctx, g.RunID())
	if err != nil {
		t.Fatalf("Generations: %v", err)
	}
	if len(gens) != 1 || !gens[0].Success {
		t.Fatalf("history = %+v, want one success record", gens)
	}

	ticks := g.Tick()
	g.Step()
	if g.Tick() != ticks {
		t.Error("Step advanced the simulation after success")
	}

	g.Restart()
	if g.Done() {
		t.Error("Done after Restart")
	}
}

func TestUnloadSavesController(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "exit.bin")
	g, err := NewGame(cfg, Options{Seed: 4, Headless: true, StoreKind: "memory", SavePath: path})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	for i := 0; i < 3; i++ {
		g.UpdateHeadless()
	}

	g.Unload()

	nn, err := neural.LoadFFNN(path)
	if err != nil {
		t.Fatalf("controller not saved on exit: %v", err)
	}
	if nn.InputSize() != 22 {
		t.Errorf("saved input size = %d, want 22", nn.InputSize())
	}
}

func TestUnloadAfterSuccessKeepsSavedController(t *testing.T) {
	path := filepath.Join(t.TempDir(), "win.bin")
	g, err := NewGame(testConfig(t), Options{Seed: 6, Headless: true, StoreKind: "memory", SavePath: path})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	g.done = true
	g.onSuccess(0)
	saved, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("controller not saved on success: %v", err)
	}

	g.Unload()

	after, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(after) != string(saved) {
		t.Error("Unload overwrote the controller saved on success")
	}
}

func TestLoadSeedsEverySlot(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(t.TempDir(), "seed.bin")

	src := newTestGame(t, cfg, Options{Seed: 11, SavePath: path})
	if err := src.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}
	want, err := neural.LoadFFNN(path)
	if err != nil {
		t.Fatalf("LoadFFNN: %v", err)
	}
	wantBytes, _ := want.MarshalBinary()

	g := newTestGame(t, cfg, Options{Seed: 12, LoadPath: path})
	for i := 0; i < g.pop.Size(); i++ {
		got, err := g.pop.Controller(i).MarshalBinary()
		if err != nil {
			t.Fatalf("MarshalBinary: %v", err)
		}
		if string(got) != string(wantBytes) {
			t.Errorf("slot %d differs from the loaded controller", i)
		}
	}
}

func TestNewGameRejectsMissingController(t *testing.T) {
	opts := Options{Headless: true, StoreKind: "memory", LoadPath: filepath.Join(t.TempDir(), "missing.bin")}
	if _, err := NewGame(testConfig(t), opts); err == nil {
		t.Fatal("NewGame succeeded with a missing controller file")
	}
}

func TestTogglePause(t *testing.T) {
	g := newTestGame(t, testConfig(t), Options{})
	g.TogglePause()
	if !g.Paused() {
		t.Error("not paused after toggle")
	}
	g.TogglePause()
	if g.Paused() {
		t.Error("still paused after second toggle")
	}
}
