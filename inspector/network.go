package inspector

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/holeswarm/neural"
)

// Network diagram colors.
var (
	ColorNodeNeutral  = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorNodePositive = rl.Color{R: 255, G: 100, B: 100, A: 255}
	ColorNodeNegative = rl.Color{R: 100, G: 100, B: 255, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorNodeOutline  = rl.Color{R: 100, G: 100, B: 100, A: 255}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// Edges weaker than this are not drawn.
const edgeThreshold = 0.1

// DrawNetworkDiagram renders nn as one column per layer, with node color
// taken from acts (as returned by FFNN.Activations).
func DrawNetworkDiagram(x, y, width, height int32, nn *neural.FFNN, acts [][]float32) {
	if nn == nil || len(acts) == 0 {
		rl.DrawText("No network data", x+10, y+10, 14, ColorLabelDim)
		return
	}

	nodes := layoutNodes(x, y, width, height, nn.LayerSizes())

	for l := 0; l+1 < len(nodes); l++ {
		for o, to := range nodes[l+1] {
			for i, from := range nodes[l] {
				w := nn.Weight(l, o, i)
				if absFloat(w) < edgeThreshold {
					continue
				}
				drawEdge(from, to, w)
			}
		}
	}

	nodeRadius := nodeRadiusFor(height, nn.LayerSizes())
	last := len(nodes) - 1
	for l, column := range nodes {
		for i, pos := range column {
			var activation float32
			if l < len(acts) && i < len(acts[l]) {
				activation = acts[l][i]
			}
			r := nodeRadius
			if l == last {
				r += 2
			}
			drawNode(pos, r, activation)
		}
	}

	for i, pos := range nodes[last] {
		if i < len(OutputLabels) {
			rl.DrawText(OutputLabels[i], int32(pos.X+nodeRadius+6), int32(pos.Y)-5, 10, ColorLabelDim)
		}
	}
}

// layoutNodes spreads the layers evenly across width and centers each
// column vertically using the spacing of the widest layer.
func layoutNodes(x, y, width, height int32, sizes []int) [][]rl.Vector2 {
	widest := 0
	for _, n := range sizes {
		widest = max(widest, n)
	}
	spacing := float32(height-20) / float32(max(widest, 1))
	colWidth := float32(width) / float32(len(sizes))

	nodes := make([][]rl.Vector2, len(sizes))
	for l, n := range sizes {
		cx := float32(x) + colWidth*float32(l) + colWidth/2
		top := float32(y) + 10 + (float32(height-20)-float32(n)*spacing)/2 + spacing/2
		nodes[l] = make([]rl.Vector2, n)
		for i := range nodes[l] {
			nodes[l][i] = rl.Vector2{X: cx, Y: top + float32(i)*spacing}
		}
	}
	return nodes
}

func nodeRadiusFor(height int32, sizes []int) float32 {
	widest := 1
	for _, n := range sizes {
		widest = max(widest, n)
	}
	r := float32(height-20) / float32(widest) * 0.4
	return min(max(r, 2), 6)
}

// drawNode renders a single neuron node.
func drawNode(pos rl.Vector2, radius, activation float32) {
	rl.DrawCircleV(pos, radius, activationColor(activation))
	rl.DrawCircleLinesV(pos, radius, ColorNodeOutline)
}

// drawEdge renders a connection between nodes.
func drawEdge(from, to rl.Vector2, weight float32) {
	thickness := min(max(absFloat(weight)*1.5, 0.5), 3)

	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	color.A = uint8(min(40+int(absFloat(weight)*40), 150))

	rl.DrawLineEx(from, to, thickness, color)
}

// activationColor maps a tanh activation to a color.
// Negative = blue, Zero = gray, Positive = red.
func activationColor(activation float32) rl.Color {
	if activation >= 0 {
		return lerpColor(ColorNodeNeutral, ColorNodePositive, min(activation, 1))
	}
	return lerpColor(ColorNodeNeutral, ColorNodeNegative, min(-activation, 1))
}

func absFloat(x float32) float32 {
	return float32(math.Abs(float64(x)))
}
