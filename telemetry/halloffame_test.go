package telemetry

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/pthm-cable/holeswarm/neural"
)

func newHallFFNN(t *testing.T, seed int64) *neural.FFNN {
	t.Helper()
	nn, err := neural.NewFFNN(rand.New(rand.NewSource(seed)), []int{3, 4, 2})
	if err != nil {
		t.Fatalf("NewFFNN: %v", err)
	}
	return nn
}

func TestHallOfFameOrderAndCapacity(t *testing.T) {
	hof := NewHallOfFame(3)
	nn := newHallFFNN(t, 1)

	for gen, f := range []float32{5, 9, 1, 7, 3} {
		if _, err := hof.Consider(gen, f, nn); err != nil {
			t.Fatalf("Consider: %v", err)
		}
	}

	if hof.Size() != 3 {
		t.Fatalf("size = %d, want 3", hof.Size())
	}
	want := []float32{9, 7, 5}
	for i, e := range hof.entries {
		if e.Fitness != want[i] {
			t.Errorf("entry %d fitness = %v, want %v", i, e.Fitness, want[i])
		}
	}
	if hof.TopFitness() != 9 {
		t.Errorf("top = %v, want 9", hof.TopFitness())
	}

	added, err := hof.Consider(9, 2, nn)
	if err != nil || added {
		t.Errorf("low entry into full hall: added=%v err=%v", added, err)
	}
}

func TestHallOfFameBestRoundTrip(t *testing.T) {
	hof := NewHallOfFame(2)
	if nn, err := hof.Best(); nn != nil || err != nil {
		t.Fatalf("empty hall Best = %v, %v", nn, err)
	}

	weak := newHallFFNN(t, 1)
	strong := newHallFFNN(t, 2)
	hof.Consider(0, 1, weak)
	hof.Consider(1, 10, strong)

	best, err := hof.Best()
	if err != nil {
		t.Fatalf("Best: %v", err)
	}
	in := []float32{0.1, -0.2, 0.3}
	got, want := best.Forward(in), strong.Forward(in)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("best output %v, want %v", got, want)
		}
	}
}

func TestHallOfFameJSON(t *testing.T) {
	hof := NewHallOfFame(2)
	hof.Consider(4, 12, newHallFFNN(t, 3))

	data, err := hof.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON: %v", err)
	}
	var out []hallEntryJSON
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(out) != 1 || out[0].Generation != 4 || out[0].Fitness != 12 || len(out[0].Controller) == 0 {
		t.Errorf("decoded = %+v", out)
	}
}
