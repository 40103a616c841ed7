// Controller replay tool - flies a saved controller at a hole placed with
// sliders.
//
// Usage: go run ./cmd/replay -controller best_controller.bin
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/holeswarm/config"
	"github.com/pthm-cable/holeswarm/geom"
	"github.com/pthm-cable/holeswarm/neural"
	"github.com/pthm-cable/holeswarm/renderer"
	"github.com/pthm-cable/holeswarm/sim"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	panelWidth   = 300
)

// tally counts replay outcomes.
type tally struct {
	Through, Crashed, TimedOut int
}

// record adds the outcome of one step, if it ended a flight, and returns
// its description.
func (t *tally) record(res sim.StepResult) string {
	switch {
	case res.Succeeded():
		t.Through++
		return "through the hole"
	case res.Ended == nil:
		return ""
	case res.Ended.Reason == sim.EndAllInactive:
		t.Crashed++
		return "crashed"
	default:
		t.TimedOut++
		return "timed out"
	}
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	controllerPath := flag.String("controller", "best_controller.bin", "Controller file to replay")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	nn, err := neural.LoadFFNN(*controllerPath)
	if err != nil {
		slog.Error("failed to load controller", "error", err)
		os.Exit(1)
	}

	opts := cfg.PopulationOptions()
	opts.Size = 1
	pop, err := sim.NewPopulation(opts, sim.NewSources(1))
	if err != nil {
		slog.Error("failed to create population", "error", err)
		os.Exit(1)
	}
	if err := pop.Adopt(nn); err != nil {
		slog.Error("controller does not fit", "error", err)
		os.Exit(1)
	}

	hole := pop.Environment().HoleCenter
	holeRange := float32(cfg.World.HoleRange)

	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Controller Replay")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	scene := renderer.NewScene(pop.Environment())
	scene.Selected = 0

	var counts tally
	last := "flying"
	paused := false

	for !rl.WindowShouldClose() {
		scene.HandleInput(rl.GetFrameTime())

		// A success freezes the population until Replay.
		if !paused && pop.State() == sim.StateRunning {
			if outcome := counts.record(pop.Update(cfg.Derived.DT32)); outcome != "" {
				last = outcome
			}
		}

		rl.BeginDrawing()
		scene.Draw(pop)

		panelX := float32(windowWidth - panelWidth - 10)
		panelY := float32(10)
		rl.DrawRectangle(int32(panelX)-10, 0, panelWidth+20, windowHeight, rl.Fade(rl.Black, 0.6))

		rl.DrawText("Hole Placement", int32(panelX), int32(panelY), 20, rl.RayWhite)
		panelY += 35

		rl.DrawText("Hole X", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newX := gui.SliderBar(
			rl.Rectangle{X: panelX + 30, Y: panelY, Width: panelWidth - 110, Height: 20},
			fmt.Sprintf("%.0f", -holeRange), fmt.Sprintf("%.0f", holeRange),
			hole.X, -holeRange, holeRange,
		)
		rl.DrawText(fmt.Sprintf("%.2f", hole.X), int32(panelX+panelWidth-50), int32(panelY+2), 16, rl.RayWhite)
		panelY += 35

		rl.DrawText("Hole Y", int32(panelX), int32(panelY), 14, rl.Gray)
		panelY += 18
		newY := gui.SliderBar(
			rl.Rectangle{X: panelX + 30, Y: panelY, Width: panelWidth - 110, Height: 20},
			fmt.Sprintf("%.0f", -holeRange), fmt.Sprintf("%.0f", holeRange),
			hole.Y, -holeRange, holeRange,
		)
		rl.DrawText(fmt.Sprintf("%.2f", hole.Y), int32(panelX+panelWidth-50), int32(panelY+2), 16, rl.RayWhite)
		panelY += 40

		if newX != hole.X || newY != hole.Y {
			hole = geom.V3(newX, newY, hole.Z)
			pop.SetHole(hole)
		}

		pauseLabel := "Pause"
		if paused {
			pauseLabel = "Resume"
		}
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 130, Height: 30}, pauseLabel) {
			paused = !paused
		}
		if gui.Button(rl.Rectangle{X: panelX + 140, Y: panelY, Width: 130, Height: 30}, "Replay") {
			pop.Restart()
			last = "flying"
		}
		panelY += 50

		rl.DrawText(fmt.Sprintf("Last flight: %s", last), int32(panelX), int32(panelY), 16, rl.RayWhite)
		panelY += 22
		rl.DrawText(fmt.Sprintf("Episode: %.1fs / %.0fs", pop.EpisodeTime(), pop.MaxEpisodeTime()), int32(panelX), int32(panelY), 16, rl.LightGray)
		panelY += 22
		rl.DrawText(fmt.Sprintf("Through: %d  Crashed: %d  Timed out: %d", counts.Through, counts.Crashed, counts.TimedOut),
			int32(panelX), int32(panelY), 14, rl.LightGray)

		rl.DrawText(*controllerPath, 10, windowHeight-25, 14, rl.Gray)
		rl.EndDrawing()
	}
}
