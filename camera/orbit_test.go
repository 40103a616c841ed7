package camera

import (
	"math"
	"testing"

	"github.com/pthm-cable/holeswarm/geom"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestPositionKeepsDistance(t *testing.T) {
	target := geom.V3(1, 2, 3)
	cam := New(target, 20)

	for _, tc := range []struct{ yaw, pitch float32 }{
		{0, 0},
		{1, 0.3},
		{-2.4, 0.45},
		{3, -1.2},
	} {
		cam.Yaw, cam.Pitch = tc.yaw, tc.pitch
		d := cam.Position().Sub(target).Length()
		if !near(d, 20) {
			t.Errorf("yaw=%v pitch=%v: distance %v, want 20", tc.yaw, tc.pitch, d)
		}
	}
}

func TestPositionAxes(t *testing.T) {
	cam := New(geom.Vec3{}, 10)
	cam.Yaw, cam.Pitch = 0, 0

	p := cam.Position()
	if !near(p.X, 0) || !near(p.Y, 0) || !near(p.Z, 10) {
		t.Errorf("yaw 0 pitch 0 position = %v, want (0,0,10)", p)
	}

	cam.Yaw = math.Pi / 2
	p = cam.Position()
	if !near(p.X, 10) || !near(p.Z, 0) {
		t.Errorf("yaw pi/2 position = %v, want (10,0,0)", p)
	}
}

func TestRotateClampsPitch(t *testing.T) {
	cam := New(geom.Vec3{}, 10)
	cam.Rotate(0, 10)
	if cam.Pitch != maxPitch {
		t.Errorf("pitch = %v, want %v", cam.Pitch, maxPitch)
	}
	cam.Rotate(0, -20)
	if cam.Pitch != -maxPitch {
		t.Errorf("pitch = %v, want %v", cam.Pitch, -maxPitch)
	}
}

func TestRotateWrapsYaw(t *testing.T) {
	cam := New(geom.Vec3{}, 10)
	cam.Yaw = 3
	cam.Rotate(1, 0)
	if cam.Yaw > math.Pi || cam.Yaw < -math.Pi {
		t.Errorf("yaw %v not wrapped", cam.Yaw)
	}
	if !near(cam.Yaw, 4-2*math.Pi) {
		t.Errorf("yaw = %v, want %v", cam.Yaw, 4-2*math.Pi)
	}
}

func TestZoomClamps(t *testing.T) {
	cam := New(geom.Vec3{}, 10)
	cam.ZoomBy(0.01)
	if cam.Distance != cam.MinDistance {
		t.Errorf("distance = %v, want min %v", cam.Distance, cam.MinDistance)
	}
	cam.ZoomBy(1000)
	if cam.Distance != cam.MaxDistance {
		t.Errorf("distance = %v, want max %v", cam.Distance, cam.MaxDistance)
	}
}

func TestFitBounds(t *testing.T) {
	cam := New(geom.Vec3{}, 10)
	cam.FitBounds(geom.V3(-12, -12, -40), geom.V3(12, 12, 10))

	if cam.Target != geom.V3(0, 0, -15) {
		t.Errorf("target = %v, want (0,0,-15)", cam.Target)
	}
	if cam.Distance <= 10 || cam.Distance > cam.MaxDistance {
		t.Errorf("distance = %v", cam.Distance)
	}
}
