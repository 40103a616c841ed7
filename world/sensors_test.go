package world

import (
	"math"
	"testing"

	"github.com/pthm-cable/holeswarm/geom"
)

func approx(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-5
}

func TestSensorsLayout(t *testing.T) {
	env := testEnv()
	env.SetHole(geom.V3(3, 4, 0))

	a := NewAgent(geom.V3(0, 0, -10), DefaultAgentParams())
	a.Velocity = geom.V3(0, 0, 5)

	s := a.Sensors(env)
	if len(s) != NumSensors {
		t.Fatalf("len(sensors) = %d, want %d", len(s), NumSensors)
	}

	dist := float32(math.Sqrt(9 + 16 + 100))
	want := map[int]float32{
		0:  0,
		2:  -1,
		5:  1,
		6:  3 / dist,
		7:  4 / dist,
		8:  10 / dist,
		9:  dist / 20,
		10: 10.0 / 15,
		11: 10 / dist,
		12: -0.3,
		13: -0.4,
	}
	for i, w := range want {
		if !approx(s[i], w) {
			t.Errorf("sensor[%d] = %v, want %v", i, s[i], w)
		}
	}
}

func TestSensorsAtHoleCenter(t *testing.T) {
	env := testEnv()
	a := NewAgent(geom.V3(0, 0, 0), DefaultAgentParams())
	a.Velocity = geom.V3(1, 0, 0)

	s := a.Sensors(env)
	for i := SensorDirToHole; i < SensorDirToHole+3; i++ {
		if s[i] != 0 {
			t.Errorf("dir-to-hole[%d] = %v, want 0 at hole center", i, s[i])
		}
	}
	if s[11] != 0 {
		t.Errorf("alignment = %v, want 0 at hole center", s[11])
	}
}

func TestRaySensors(t *testing.T) {
	env := testEnv()
	a := NewAgent(geom.V3(0, 0, -10), DefaultAgentParams())
	s := a.Sensors(env)
	rays := s[14:]

	// XY rays never meet the wall plane.
	for _, i := range []int{0, 1, 2, 3, 6, 7} {
		if rays[i] != 1 {
			t.Errorf("ray %d = %v, want 1 (parallel)", i, rays[i])
		}
	}
	if !approx(rays[4], 0.5) {
		t.Errorf("+Z ray = %v, want 0.5", rays[4])
	}
	if rays[5] != 1 {
		t.Errorf("-Z ray = %v, want 1 (behind)", rays[5])
	}

	far := NewAgent(geom.V3(0, 0, -35), DefaultAgentParams())
	if got := far.Sensors(env)[14+4]; got != 1 {
		t.Errorf("+Z ray beyond max distance = %v, want 1", got)
	}
}
