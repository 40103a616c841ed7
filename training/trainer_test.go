package training

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/holeswarm/neural"
)

func newControllers(t *testing.T, n int, seed int64) []*neural.FFNN {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	out := make([]*neural.FFNN, n)
	for i := range out {
		nn, err := neural.NewFFNN(rng, neural.DefaultLayerSizes)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = nn
	}
	return out
}

func snapshot(t *testing.T, nn *neural.FFNN) string {
	t.Helper()
	data, err := nn.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestBestIndex(t *testing.T) {
	tests := []struct {
		name    string
		fitness []float32
		want    int
	}{
		{"empty", nil, 0},
		{"single", []float32{-3}, 0},
		{"max in middle", []float32{1, 5, 2}, 1},
		{"ties resolve low", []float32{1, 7, 3, 7}, 1},
		{"all negative", []float32{-5, -1, -9}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BestIndex(tt.fitness); got != tt.want {
				t.Errorf("BestIndex(%v) = %d, want %d", tt.fitness, got, tt.want)
			}
		})
	}
}

func TestTier(t *testing.T) {
	n := 6
	want := []float32{0.3, 0.6, 1, 1, 1.8, 3}
	for i, w := range want {
		if got := Tier(i, n); got != w {
			t.Errorf("Tier(%d, %d) = %v, want %v", i, n, got, w)
		}
	}
	// Low slots win over the exploration tiers in tiny populations.
	if got := Tier(1, 2); got != 0.6 {
		t.Errorf("Tier(1, 2) = %v, want 0.6", got)
	}
}

func TestTrainStepKeepsElite(t *testing.T) {
	tr := NewTrainer()
	cs := newControllers(t, 6, 42)
	fitness := []float32{1, 2, 9, 3, 9, 0}
	eliteBefore := snapshot(t, cs[2])

	elite := tr.TrainStep(cs, fitness, rand.New(rand.NewSource(1)))

	if elite != 2 {
		t.Fatalf("elite = %d, want 2", elite)
	}
	if len(cs) != 6 {
		t.Fatalf("population size changed to %d", len(cs))
	}
	if snapshot(t, cs[2]) != eliteBefore {
		t.Error("elite controller was modified")
	}
	for i, c := range cs {
		if i != elite && c == cs[elite] {
			t.Errorf("slot %d aliases the elite", i)
		}
	}
}

func TestTrainStepCopiesElite(t *testing.T) {
	tr := &Trainer{MutationRate: 0, MutationStrength: 1}
	cs := newControllers(t, 4, 42)
	fitness := []float32{0, 0, 0, 5}

	tr.TrainStep(cs, fitness, rand.New(rand.NewSource(1)))

	want := snapshot(t, cs[3])
	for i := 0; i < 3; i++ {
		if snapshot(t, cs[i]) != want {
			t.Errorf("slot %d is not a copy of the elite under zero mutation", i)
		}
	}
}

func TestTrainStepMutatesNonElite(t *testing.T) {
	tr := NewTrainer()
	cs := newControllers(t, 5, 42)
	fitness := []float32{10, 0, 0, 0, 0}
	eliteSnap := snapshot(t, cs[0])

	tr.TrainStep(cs, fitness, rand.New(rand.NewSource(1)))

	// The last slot explores at 3x rate; with ~1k parameters it must differ.
	if snapshot(t, cs[4]) == eliteSnap {
		t.Error("exploration slot identical to elite after TrainStep")
	}
}

func TestTrainStepNoOp(t *testing.T) {
	tr := NewTrainer()
	cs := newControllers(t, 3, 42)
	before := make([]string, len(cs))
	for i, c := range cs {
		before[i] = snapshot(t, c)
	}

	tr.TrainStep(cs, []float32{1, 2}, rand.New(rand.NewSource(1)))
	tr.TrainStep(nil, nil, rand.New(rand.NewSource(1)))

	for i, c := range cs {
		if snapshot(t, c) != before[i] {
			t.Errorf("slot %d changed on mismatched fitness", i)
		}
	}
}
