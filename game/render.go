package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/holeswarm/ui"
)

const controlsLegend = "SPACE pause | S save | R restart after success | arrows orbit | wheel zoom | click/TAB inspect"

// Update handles input and advances the simulation unless paused.
func (g *Game) Update() {
	g.perf.RecordFrame()
	g.handleInput()
	if !g.paused {
		g.Step()
	}
}

func (g *Game) handleInput() {
	if rl.IsKeyPressed(rl.KeySpace) {
		g.apply(ui.ActionTogglePause)
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.apply(ui.ActionSave)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.apply(ui.ActionRestart)
	}
	g.scene.HandleInput(rl.GetFrameTime())
	g.inspector.HandleInput(g.pop.Size(), func(p rl.Vector2) int {
		return g.scene.Pick(g.pop, p)
	})
}

// apply carries out a UI request.
func (g *Game) apply(a ui.Action) {
	switch a {
	case ui.ActionTogglePause:
		g.TogglePause()
	case ui.ActionSave:
		if err := g.Save(); err != nil {
			slog.Error("save failed", "error", err)
		}
	case ui.ActionRestart:
		if g.done {
			g.Restart()
		}
	}
}

// Draw renders the scene and the overlay.
func (g *Game) Draw() {
	rl.BeginDrawing()

	slot, selected := g.inspector.Selected()
	g.scene.Selected = -1
	if selected {
		g.scene.Selected = slot
	}
	g.scene.Draw(g.pop)
	g.hud.Draw(g.hudData())
	if selected {
		if sample, ok := g.pop.Inspect(slot); ok {
			g.inspector.Draw(sample)
		}
	}
	g.apply(g.controls.Draw(g.paused, g.done))
	g.hud.DrawControls(int32(g.cfg.Screen.Height), controlsLegend)

	rl.EndDrawing()
}

func (g *Game) hudData() ui.HUDData {
	return ui.HUDData{
		Title:          "holeswarm",
		Generation:     g.pop.Generation(),
		Ticks:          g.tick,
		BestFitness:    g.pop.BestFitness(),
		EpisodeTime:    g.pop.EpisodeTime(),
		MaxEpisodeTime: g.pop.MaxEpisodeTime(),
		Active:         g.pop.ActiveCount(),
		Population:     g.pop.Size(),
		Succeeded:      g.done,
		Paused:         g.paused,
		FPS:            rl.GetFPS(),
	}
}
