package ui

import (
	"fmt"

	"github.com/dustin/go-humanize"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title          string
	Generation     int
	Ticks          int64
	BestFitness    float32
	EpisodeTime    float32
	MaxEpisodeTime float32
	Active         int
	Population     int
	Succeeded      bool
	Paused         bool
	FPS            int32
}

// HUDLine is one label/value row of the HUD.
type HUDLine struct {
	Label string
	Value string
}

// Lines formats the HUD rows.
func (d HUDData) Lines() []HUDLine {
	return []HUDLine{
		{"Generation", humanize.Comma(int64(d.Generation))},
		{"Best fitness", humanize.CommafWithDigits(float64(d.BestFitness), 1)},
		{"Episode", fmt.Sprintf("%.1fs / %.0fs", d.EpisodeTime, d.MaxEpisodeTime)},
		{"Active", fmt.Sprintf("%d / %d", d.Active, d.Population)},
		{"Ticks", humanize.Comma(d.Ticks)},
		{"FPS", fmt.Sprintf("%d", d.FPS)},
	}
}

// Status returns the one-word run state shown under the stats.
func (d HUDData) Status() string {
	switch {
	case d.Succeeded:
		return "SUCCESS"
	case d.Paused:
		return "PAUSED"
	default:
		return "Running"
	}
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	x, y     int32
	width    int32
}

// NewHUD creates a new HUD anchored at the top left.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), x: 10, y: 10, width: 260}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	r := h.renderer
	lines := data.Lines()
	height := r.Theme.Padding*2 + r.Theme.LineHeight*int32(len(lines)+3)
	r.DrawPanel(h.x, h.y, h.width, height)

	x := h.x + r.Theme.Padding
	y := h.y + r.Theme.Padding
	rl.DrawText(data.Title, x, y, r.Theme.HeaderFontSize, r.Theme.SectionHeader)
	y += r.Theme.LineHeight + 4

	for _, l := range lines {
		y = r.DrawLabelValue(x, y, l.Label, l.Value)
	}

	var progress float32
	if data.MaxEpisodeTime > 0 {
		progress = data.EpisodeTime / data.MaxEpisodeTime
	}
	y = r.DrawBar(x, y, "Time", progress, h.width-r.Theme.Padding*2)

	color := r.Theme.SectionHeader
	if data.Succeeded {
		color = r.Theme.Highlight
	}
	rl.DrawText(data.Status(), x, y, r.Theme.FontSize, color)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}
