// Package renderer draws the wall, the hole and the swarm in 3D.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/holeswarm/camera"
	"github.com/pthm-cable/holeswarm/geom"
	"github.com/pthm-cable/holeswarm/sim"
)

// Scene colors.
var (
	colorActive     = rl.RayWhite
	colorInactive   = rl.Fade(rl.Gray, 0.5)
	colorSuccessful = rl.Green
	colorWall       = rl.Fade(rl.SkyBlue, 0.25)
	colorWallEdge   = rl.Fade(rl.SkyBlue, 0.6)
	colorHole       = rl.Orange
	colorSelected   = rl.Yellow
	colorBounds     = rl.Fade(rl.DarkGray, 0.8)
	colorBackground = rl.Color{R: 12, G: 14, B: 20, A: 255}
)

const (
	wallThickness = 0.2
	agentSlices   = 10
	agentRings    = 8
)

// Scene renders a sim.View. It never changes simulation state.
type Scene struct {
	Camera *camera.Orbit

	// Selected is the highlighted slot, or -1.
	Selected int
}

// NewScene creates a scene whose camera frames the world bounds.
func NewScene(env sim.EnvironmentView) *Scene {
	cam := camera.New(geom.Vec3{}, 60)
	cam.FitBounds(env.BoundsMin, env.BoundsMax)
	return &Scene{Camera: cam, Selected: -1}
}

// Draw renders one frame of the 3D scene. Call between BeginDrawing and
// EndDrawing.
func (s *Scene) Draw(v sim.View) {
	rl.ClearBackground(colorBackground)

	rl.BeginMode3D(s.camera3D())
	env := v.Environment()
	drawBounds(env)
	drawWall(env)
	drawHole(env)
	agents := v.Agents()
	for _, a := range agents {
		drawAgent(a)
	}
	if s.Selected >= 0 && s.Selected < len(agents) {
		a := agents[s.Selected]
		rl.DrawSphereWires(vec3(a.Position), a.Radius*1.6, agentRings, agentSlices, colorSelected)
	}
	rl.EndMode3D()
}

// HandleInput orbits with the arrow keys and zooms with the mouse wheel.
func (s *Scene) HandleInput(dt float32) {
	const turnRate = 1.5 // radians per second

	var dYaw, dPitch float32
	if rl.IsKeyDown(rl.KeyLeft) {
		dYaw -= turnRate * dt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		dYaw += turnRate * dt
	}
	if rl.IsKeyDown(rl.KeyUp) {
		dPitch += turnRate * dt
	}
	if rl.IsKeyDown(rl.KeyDown) {
		dPitch -= turnRate * dt
	}
	if dYaw != 0 || dPitch != 0 {
		s.Camera.Rotate(dYaw, dPitch)
	}

	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		s.Camera.ZoomBy(1 - wheel*0.1)
	}
}

// Pick returns the slot under the screen point, or -1.
func (s *Scene) Pick(v sim.View, screen rl.Vector2) int {
	return pickAlong(rl.GetScreenToWorldRay(screen, s.camera3D()), v.Agents())
}

// pickAlong returns the nearest agent hit by ray, or -1.
func pickAlong(ray rl.Ray, agents []sim.AgentView) int {
	best := -1
	var bestDist float32
	for i, a := range agents {
		hit := rl.GetRayCollisionSphere(ray, vec3(a.Position), a.Radius)
		if hit.Hit && (best < 0 || hit.Distance < bestDist) {
			best = i
			bestDist = hit.Distance
		}
	}
	return best
}

func (s *Scene) camera3D() rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(s.Camera.Position()),
		Target:     vec3(s.Camera.Target),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}

func drawBounds(env sim.EnvironmentView) {
	center := env.BoundsMin.Add(env.BoundsMax).Scale(0.5)
	size := env.BoundsMax.Sub(env.BoundsMin)
	rl.DrawCubeWiresV(vec3(center), vec3(size), colorBounds)
}

// drawWall draws the wall as a thin translucent slab spanning the bounds.
func drawWall(env sim.EnvironmentView) {
	center := geom.V3(
		(env.BoundsMin.X+env.BoundsMax.X)/2,
		(env.BoundsMin.Y+env.BoundsMax.Y)/2,
		env.WallZ,
	)
	size := geom.V3(env.BoundsMax.X-env.BoundsMin.X, env.BoundsMax.Y-env.BoundsMin.Y, wallThickness)
	rl.DrawCubeV(vec3(center), vec3(size), colorWall)
	rl.DrawCubeWiresV(vec3(center), vec3(size), colorWallEdge)
}

// drawHole outlines the hole on both faces of the wall. DrawCircle3D draws
// in the XY plane when the rotation is zero.
func drawHole(env sim.EnvironmentView) {
	for _, dz := range []float32{-wallThickness / 2, wallThickness / 2} {
		c := geom.V3(env.HoleCenter.X, env.HoleCenter.Y, env.WallZ+dz)
		rl.DrawCircle3D(vec3(c), env.HoleRadius, rl.NewVector3(0, 1, 0), 0, colorHole)
	}
}

func drawAgent(a sim.AgentView) {
	rl.DrawSphereEx(vec3(a.Position), a.Radius, agentRings, agentSlices, agentColor(a))
}

// agentColor picks the sphere color for an agent's state.
func agentColor(a sim.AgentView) rl.Color {
	switch {
	case a.Successful:
		return colorSuccessful
	case a.Active:
		return colorActive
	default:
		return colorInactive
	}
}

func vec3(v geom.Vec3) rl.Vector3 {
	return rl.NewVector3(v.X, v.Y, v.Z)
}
