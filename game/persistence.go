package game

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/holeswarm/neural"
	"github.com/pthm-cable/holeswarm/sim"
)

// savePath picks where controllers are written: the explicit path, the
// output directory, or the configured autosave path.
func (g *Game) savePath() string {
	if g.opts.SavePath != "" {
		return g.opts.SavePath
	}
	if p := g.output.ControllerPath(); p != "" {
		return p
	}
	return g.cfg.Autosave.Path
}

// Save writes the controller with the highest current fitness to disk and
// checkpoints it in the run history.
func (g *Game) Save() error {
	path := g.savePath()
	if err := g.pop.Save(path); err != nil {
		return err
	}
	if err := g.checkpoint(g.pop.Generation(), g.pop.BestController()); err != nil {
		return err
	}
	slog.Info("controller saved", "path", path, "generation", g.pop.Generation())
	return nil
}

// autosave writes the elite of a finished generation. Fitness has already
// been reset, so the elite index from the summary is used instead of the
// current best.
func (g *Game) autosave(s *sim.GenerationSummary) {
	path := g.savePath()
	elite := g.pop.Controller(s.Elite)
	if err := elite.Save(path); err != nil {
		slog.Error("autosave failed", "path", path, "error", err)
		return
	}
	if err := g.checkpoint(s.Generation, elite); err != nil {
		slog.Error("autosave checkpoint failed", "error", err)
		return
	}
	slog.Info("autosaved", "path", path, "generation", s.Generation, "fitness", s.EliteFitness)
}

func (g *Game) checkpoint(generation int, nn *neural.FFNN) error {
	data, err := nn.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encoding controller: %w", err)
	}
	if err := g.store.SaveController(g.ctx, g.runID, generation, data); err != nil {
		return fmt.Errorf("checkpointing controller: %w", err)
	}
	return nil
}
