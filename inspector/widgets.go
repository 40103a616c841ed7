package inspector

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Row heights returned by the widgets.
const (
	rowHeight     = 20
	barRowHeight  = 13
	sectionHeight = 22
)

// Widget colors
var (
	ColorBarBg   = rl.Color{R: 40, G: 40, B: 40, A: 255}
	ColorBarPos  = rl.Color{R: 200, G: 110, B: 90, A: 255}
	ColorBarNeg  = rl.Color{R: 90, G: 120, B: 200, A: 255}
	ColorBarMid  = rl.Color{R: 110, G: 110, B: 110, A: 255}
	ColorText    = rl.Color{R: 220, G: 220, B: 220, A: 255}
	ColorTextDim = rl.Color{R: 150, G: 150, B: 150, A: 255}
)

// SensorLabels name the sensor slots in order.
var SensorLabels = []string{
	"Pos X", "Pos Y", "Pos Z",
	"Vel X", "Vel Y", "Vel Z",
	"Hole dX", "Hole dY", "Hole dZ",
	"Hole dist", "Wall dist", "Align",
	"Off X", "Off Y",
	"Ray +X", "Ray -X", "Ray +Y", "Ray -Y", "Ray +Z", "Ray -Z", "Ray +XY", "Ray -XY",
}

// OutputLabels name the controller outputs.
var OutputLabels = []string{"Thrust X", "Thrust Y", "Thrust Z", "Forward"}

// DrawLabel renders a name/value row.
func DrawLabel(x, y int32, name, value string) int32 {
	rl.DrawText(name, x, y, 14, ColorTextDim)
	rl.DrawText(value, x+90, y, 14, ColorText)
	return rowHeight
}

// DrawSignedBar renders a value in [-1, 1] as a bar growing left or right
// from the center line. Values outside the range are clipped.
func DrawSignedBar(x, y int32, name string, value float32) int32 {
	const (
		barWidth  = int32(140)
		barHeight = int32(10)
	)

	rl.DrawText(name, x, y, 10, ColorTextDim)

	barX := x + 70
	rl.DrawRectangle(barX, y, barWidth, barHeight, ColorBarBg)

	half := barWidth / 2
	fill := signedFill(value, half)
	if fill >= 0 {
		rl.DrawRectangle(barX+half, y, fill, barHeight, ColorBarPos)
	} else {
		rl.DrawRectangle(barX+half+fill, y, -fill, barHeight, ColorBarNeg)
	}
	rl.DrawLine(barX+half, y, barX+half, y+barHeight, ColorBarMid)

	rl.DrawText(fmt.Sprintf("%+.2f", value), barX+barWidth+6, y, 10, ColorTextDim)
	return barRowHeight
}

// signedFill returns the bar length in pixels for value, clipped to ±half.
func signedFill(value float32, half int32) int32 {
	value = min(max(value, -1), 1)
	return int32(value * float32(half))
}

// lerpColor interpolates between two colors.
func lerpColor(a, b rl.Color, t float32) rl.Color {
	return rl.Color{
		R: uint8(float32(a.R) + (float32(b.R)-float32(a.R))*t),
		G: uint8(float32(a.G) + (float32(b.G)-float32(a.G))*t),
		B: uint8(float32(a.B) + (float32(b.B)-float32(a.B))*t),
		A: 255,
	}
}
