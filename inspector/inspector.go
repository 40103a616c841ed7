// Package inspector draws a detail panel for one selected agent: its
// motion, fitness, sensor readings and controller activations.
package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/holeswarm/sim"
)

// Panel dimensions
const (
	PanelWidth    = 340
	PanelPadding  = 10
	HeaderHeight  = 30
	networkHeight = 260
)

// Panel colors
var (
	ColorPanelBg     = rl.Color{R: 30, G: 30, B: 35, A: 240}
	ColorPanelHeader = rl.Color{R: 45, G: 45, B: 55, A: 255}
	ColorPanelBorder = rl.Color{R: 70, G: 70, B: 80, A: 255}
	ColorHeaderText  = rl.Color{R: 255, G: 255, B: 255, A: 255}
	ColorSection     = rl.Color{R: 50, G: 50, B: 60, A: 255}
	ColorSectionText = rl.Color{R: 200, G: 200, B: 220, A: 255}
)

// Inspector tracks the selected slot and renders its panel.
type Inspector struct {
	selected    int
	hasSelected bool
	panelX      int32
	panelY      int32
}

// NewInspector creates an inspector whose panel's top left corner is at
// (panelX, panelY).
func NewInspector(panelX, panelY int32) *Inspector {
	return &Inspector{panelX: panelX, panelY: panelY}
}

// Select makes slot the current selection.
func (ins *Inspector) Select(slot int) {
	ins.selected = slot
	ins.hasSelected = true
}

// Deselect clears the current selection.
func (ins *Inspector) Deselect() {
	ins.hasSelected = false
}

// Selected returns the selected slot.
func (ins *Inspector) Selected() (int, bool) {
	return ins.selected, ins.hasSelected
}

// Cycle moves the selection by delta, wrapping over count slots. With no
// selection it starts at slot 0.
func (ins *Inspector) Cycle(delta, count int) {
	if count < 1 {
		ins.Deselect()
		return
	}
	if !ins.hasSelected {
		ins.Select(0)
		return
	}
	ins.Select(((ins.selected+delta)%count + count) % count)
}

// HandleInput updates the selection. pick maps a screen point to a slot
// (or -1) and is only called on a left click.
func (ins *Inspector) HandleInput(count int, pick func(rl.Vector2) int) {
	if rl.IsMouseButtonPressed(rl.MouseButtonRight) {
		ins.Deselect()
		return
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) || rl.IsKeyPressed(rl.KeyTab) {
		ins.Cycle(1, count)
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		ins.Cycle(-1, count)
	}

	if !rl.IsMouseButtonPressed(rl.MouseButtonLeft) {
		return
	}
	mouse := rl.GetMousePosition()
	// Clicks on the panel itself never change the selection.
	if ins.hasSelected && ins.contains(mouse) {
		return
	}
	if slot := pick(mouse); slot >= 0 {
		ins.Select(slot)
	}
}

func (ins *Inspector) contains(p rl.Vector2) bool {
	return int32(p.X) >= ins.panelX && int32(p.X) <= ins.panelX+PanelWidth &&
		int32(p.Y) >= ins.panelY && int32(p.Y) <= ins.panelY+ins.panelHeight()
}

// panelHeight covers the header, the state section, the sensor bars and the
// network diagram.
func (ins *Inspector) panelHeight() int32 {
	return HeaderHeight + 6*rowHeight + 2*sectionHeight + int32(len(SensorLabels))*barRowHeight + networkHeight + 2*PanelPadding
}

// Draw renders the panel for s. Does nothing without a selection.
func (ins *Inspector) Draw(s sim.AgentSample) {
	if !ins.hasSelected {
		return
	}

	x, y := ins.panelX, ins.panelY
	height := ins.panelHeight()

	rl.DrawRectangle(x, y, PanelWidth, height, ColorPanelBg)
	rl.DrawRectangleLinesEx(
		rl.Rectangle{X: float32(x), Y: float32(y), Width: PanelWidth, Height: float32(height)},
		1,
		ColorPanelBorder,
	)
	rl.DrawRectangle(x, y, PanelWidth, HeaderHeight, ColorPanelHeader)
	rl.DrawText(fmt.Sprintf("Agent #%d", s.Slot), x+PanelPadding, y+8, 16, ColorHeaderText)

	cx := x + PanelPadding
	cy := y + HeaderHeight + 4

	cy += DrawLabel(cx, cy, "Status", status(s))
	cy += DrawLabel(cx, cy, "Position", fmt.Sprintf("%.2f, %.2f, %.2f", s.Position.X, s.Position.Y, s.Position.Z))
	cy += DrawLabel(cx, cy, "Velocity", fmt.Sprintf("%.2f, %.2f, %.2f", s.Velocity.X, s.Velocity.Y, s.Velocity.Z))
	cy += DrawLabel(cx, cy, "Speed", fmt.Sprintf("%.2f", s.Velocity.Length()))
	cy += DrawLabel(cx, cy, "Fitness", fmt.Sprintf("%.1f", s.Fitness))
	cy += DrawLabel(cx, cy, "Steps", fmt.Sprintf("%d", s.Steps))

	cy += drawSection(x, cy, "Sensors")
	for i, v := range s.Sensors {
		label := ""
		if i < len(SensorLabels) {
			label = SensorLabels[i]
		}
		cy += DrawSignedBar(cx, cy, label, v)
	}

	cy += drawSection(x, cy, "Controller")
	var acts [][]float32
	if s.Controller != nil && len(s.Sensors) == s.Controller.InputSize() {
		acts = s.Controller.Activations(s.Sensors)
	}
	DrawNetworkDiagram(cx+40, cy, PanelWidth-2*PanelPadding-80, networkHeight-10, s.Controller, acts)
}

// status names the agent's state for display.
func status(s sim.AgentSample) string {
	switch {
	case s.Successful:
		return "through the hole"
	case s.Active:
		return "flying"
	default:
		return "crashed"
	}
}

func drawSection(x, y int32, title string) int32 {
	rl.DrawRectangle(x, y, PanelWidth, sectionHeight-4, ColorSection)
	rl.DrawText(title, x+PanelPadding, y+3, 14, ColorSectionText)
	return sectionHeight
}
