package renderer

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/holeswarm/geom"
	"github.com/pthm-cable/holeswarm/sim"
)

func TestAgentColor(t *testing.T) {
	tests := []struct {
		name  string
		agent sim.AgentView
		want  rl.Color
	}{
		{"active", sim.AgentView{Active: true}, colorActive},
		{"inactive", sim.AgentView{}, colorInactive},
		{"successful", sim.AgentView{Successful: true}, colorSuccessful},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := agentColor(tt.agent); got != tt.want {
				t.Errorf("agentColor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewSceneFramesBounds(t *testing.T) {
	s := NewScene(sim.EnvironmentView{
		BoundsMin: geom.V3(-12, -12, -40),
		BoundsMax: geom.V3(12, 12, 10),
	})
	if s.Camera.Target != geom.V3(0, 0, -15) {
		t.Errorf("camera target = %v", s.Camera.Target)
	}

	c := s.camera3D()
	if c.Target != rl.NewVector3(0, 0, -15) {
		t.Errorf("raylib target = %v", c.Target)
	}
	if c.Fovy <= 0 {
		t.Errorf("fovy = %v", c.Fovy)
	}
}

func TestPickAlongNearest(t *testing.T) {
	agents := []sim.AgentView{
		{Position: geom.V3(0, 0, -10), Radius: 0.5},
		{Position: geom.V3(0, 0, -5), Radius: 0.5},
		{Position: geom.V3(3, 0, -2), Radius: 0.5},
	}
	ray := rl.Ray{Position: rl.NewVector3(0, 0, 0), Direction: rl.NewVector3(0, 0, -1)}

	if got := pickAlong(ray, agents); got != 1 {
		t.Errorf("pickAlong = %d, want 1", got)
	}

	miss := rl.Ray{Position: rl.NewVector3(0, 0, 0), Direction: rl.NewVector3(0, 1, 0)}
	if got := pickAlong(miss, agents); got != -1 {
		t.Errorf("pickAlong on a miss = %d, want -1", got)
	}
}
