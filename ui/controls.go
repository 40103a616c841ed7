package ui

import (
	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Action is a request from the controls panel. The caller applies it.
type Action int

const (
	ActionNone Action = iota
	ActionTogglePause
	ActionSave
	ActionRestart
)

// ControlsPanel renders the run control buttons.
type ControlsPanel struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewControlsPanel creates a panel at the given position.
func NewControlsPanel(x, y, width int32) *ControlsPanel {
	return &ControlsPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// Draw renders the buttons and returns the one that was pressed, if any.
// Restart is only offered once the run has succeeded.
func (c *ControlsPanel) Draw(paused, succeeded bool) Action {
	const buttonH = 28
	pad := float32(c.renderer.Theme.Padding)
	x := float32(c.x)
	y := float32(c.y)
	w := float32(c.width)

	label := "Pause"
	if paused {
		label = "Resume"
	}

	action := ActionNone
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonH}, label) {
		action = ActionTogglePause
	}
	y += buttonH + pad
	if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonH}, "Save best") {
		action = ActionSave
	}
	if succeeded {
		y += buttonH + pad
		if gui.Button(rl.Rectangle{X: x, Y: y, Width: w, Height: buttonH}, "Restart") {
			action = ActionRestart
		}
	}
	return action
}
