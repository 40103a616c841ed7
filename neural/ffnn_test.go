package neural

import (
	"errors"
	"math/rand"
	"testing"
)

func newTestFFNN(t testing.TB, seed int64) *FFNN {
	t.Helper()
	nn, err := NewFFNN(rand.New(rand.NewSource(seed)), DefaultLayerSizes)
	if err != nil {
		t.Fatalf("NewFFNN: %v", err)
	}
	return nn
}

func testInput(n int) []float32 {
	in := make([]float32, n)
	for i := range in {
		in[i] = float32(i)/float32(n) - 0.5
	}
	return in
}

func equalSlices(a, b []float32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewFFNN(t *testing.T) {
	nn := newTestFFNN(t, 42)

	if len(nn.layers) != len(DefaultLayerSizes)-1 {
		t.Fatalf("got %d layers, want %d", len(nn.layers), len(DefaultLayerSizes)-1)
	}
	for i, l := range nn.layers {
		if l.W.Rows != DefaultLayerSizes[i+1] || l.W.Cols != DefaultLayerSizes[i] {
			t.Errorf("layer %d is %dx%d, want %dx%d", i, l.W.Rows, l.W.Cols, DefaultLayerSizes[i+1], DefaultLayerSizes[i])
		}
		for _, b := range l.B {
			if b < -0.1 || b > 0.1 {
				t.Errorf("layer %d bias %v outside [-0.1, 0.1]", i, b)
			}
		}
	}

	want := 22*24 + 24 + 24*16 + 16 + 16*4 + 4
	if got := nn.ParameterCount(); got != want {
		t.Errorf("ParameterCount = %d, want %d", got, want)
	}
}

func TestNewFFNNInvalid(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, sizes := range [][]int{nil, {4}, {4, 0, 2}, {3, -1}} {
		if _, err := NewFFNN(rng, sizes); !errors.Is(err, ErrTopology) {
			t.Errorf("NewFFNN(%v) err = %v, want ErrTopology", sizes, err)
		}
	}
}

func TestForward(t *testing.T) {
	nn := newTestFFNN(t, 42)

	inputs := make([]float32, nn.InputSize())
	for i := range inputs {
		inputs[i] = 5
	}
	out := nn.Forward(inputs)

	if len(out) != 4 {
		t.Fatalf("len(out) = %d, want 4", len(out))
	}
	for i, v := range out {
		if v < -1 || v > 1 {
			t.Errorf("out[%d] = %v outside [-1,1]", i, v)
		}
	}
}

func TestForwardSizeMismatch(t *testing.T) {
	nn := newTestFFNN(t, 42)

	out := nn.Forward(make([]float32, 5))
	if len(out) != nn.OutputSize() {
		t.Fatalf("len(out) = %d, want %d", len(out), nn.OutputSize())
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0", i, v)
		}
	}
}

func TestForwardDeterministic(t *testing.T) {
	nn := newTestFFNN(t, 42)
	in := testInput(nn.InputSize())

	if !equalSlices(nn.Forward(in), nn.Forward(in)) {
		t.Error("Forward is not deterministic")
	}
}

func TestActivations(t *testing.T) {
	nn := newTestFFNN(t, 5)
	in := testInput(DefaultLayerSizes[0])

	acts := nn.Activations(in)
	if len(acts) != len(DefaultLayerSizes) {
		t.Fatalf("got %d layers of activations, want %d", len(acts), len(DefaultLayerSizes))
	}
	for i, a := range acts {
		if len(a) != DefaultLayerSizes[i] {
			t.Errorf("layer %d has %d values, want %d", i, len(a), DefaultLayerSizes[i])
		}
	}
	if !equalSlices(acts[len(acts)-1], nn.Forward(in)) {
		t.Error("last activation layer differs from Forward")
	}
}

func TestWeight(t *testing.T) {
	nn := newTestFFNN(t, 6)
	w := nn.layers[1].W
	if got, want := nn.Weight(1, 2, 3), w.Data[2*w.Stride+3]; got != want {
		t.Errorf("Weight(1, 2, 3) = %v, want %v", got, want)
	}
}

func TestMutateZeroRateIsIdentity(t *testing.T) {
	nn := newTestFFNN(t, 42)
	before := nn.Clone()

	nn.Mutate(rand.New(rand.NewSource(3)), 0, 10)

	for i := range nn.layers {
		if !equalSlices(nn.layers[i].W.Data, before.layers[i].W.Data) || !equalSlices(nn.layers[i].B, before.layers[i].B) {
			t.Fatalf("layer %d changed under rate 0", i)
		}
	}
}

func TestMutate(t *testing.T) {
	nn := newTestFFNN(t, 42)
	before := nn.Clone()

	nn.Mutate(rand.New(rand.NewSource(3)), 1, 0.1)

	changed := 0
	for i := range nn.layers {
		for j := range nn.layers[i].W.Data {
			if nn.layers[i].W.Data[j] != before.layers[i].W.Data[j] {
				changed++
			}
		}
	}
	if changed == 0 {
		t.Error("Mutate with rate 1 did not change weights")
	}
	if !sameSizes(nn.sizes, before.sizes) {
		t.Error("Mutate changed topology")
	}
}

func TestClone(t *testing.T) {
	nn := newTestFFNN(t, 42)
	clone := nn.Clone()
	in := testInput(nn.InputSize())

	if !equalSlices(nn.Forward(in), clone.Forward(in)) {
		t.Error("clone output differs from source")
	}

	clone.layers[0].W.Data[0] = 999
	if nn.layers[0].W.Data[0] == 999 {
		t.Error("Clone is not independent")
	}
}

func TestCopyFromDifferentTopology(t *testing.T) {
	src := newTestFFNN(t, 1)
	dst, err := NewFFNN(rand.New(rand.NewSource(2)), []int{3, 2})
	if err != nil {
		t.Fatal(err)
	}

	dst.CopyFrom(src)
	in := testInput(src.InputSize())
	if !equalSlices(dst.Forward(in), src.Forward(in)) {
		t.Error("CopyFrom did not reproduce source output")
	}

	src.layers[2].B[0] += 1
	if dst.layers[2].B[0] == src.layers[2].B[0] {
		t.Error("CopyFrom shares storage with source")
	}
}

func TestLearnFromGradient(t *testing.T) {
	nn := newTestFFNN(t, 42)
	before := nn.Clone()
	in := testInput(nn.InputSize())
	desired := []float32{0.5, -0.5, 0.25, 1}

	nn.LearnFromGradient(in, desired, 0.01)

	last := len(nn.layers) - 1
	for i := 0; i < last; i++ {
		if !equalSlices(nn.layers[i].W.Data, before.layers[i].W.Data) || !equalSlices(nn.layers[i].B, before.layers[i].B) {
			t.Errorf("layer %d changed; only the output layer may learn", i)
		}
	}
	if equalSlices(nn.layers[last].W.Data, before.layers[last].W.Data) {
		t.Error("output weights unchanged")
	}

	// Delta-rule bias step is exactly lr * (desired - output).
	out := before.Forward(in)
	for i := range desired {
		want := before.layers[last].B[i] + 0.01*(desired[i]-out[i])
		if d := nn.layers[last].B[i] - want; d > 1e-6 || d < -1e-6 {
			t.Errorf("bias[%d] = %v, want %v", i, nn.layers[last].B[i], want)
		}
	}
}

func TestLearnFromGradientConverges(t *testing.T) {
	nn := newTestFFNN(t, 42)
	in := testInput(nn.InputSize())
	desired := []float32{0.3, -0.3, 0.6, 0.9}

	dist := func() float32 {
		out := nn.Forward(in)
		var d float32
		for i := range out {
			e := desired[i] - out[i]
			d += e * e
		}
		return d
	}

	start := dist()
	for i := 0; i < 200; i++ {
		nn.LearnFromGradient(in, desired, 0.05)
	}
	if end := dist(); end >= start {
		t.Errorf("squared error went from %v to %v, want decrease", start, end)
	}
}

func TestLearnFromGradientMismatchSkips(t *testing.T) {
	nn := newTestFFNN(t, 42)
	before := nn.Clone()

	nn.LearnFromGradient(make([]float32, 3), []float32{1, 1, 1, 1}, 0.5)
	nn.LearnFromGradient(testInput(nn.InputSize()), []float32{1}, 0.5)

	for i := range nn.layers {
		if !equalSlices(nn.layers[i].W.Data, before.layers[i].W.Data) {
			t.Fatalf("layer %d changed on mismatched input", i)
		}
	}
}

func BenchmarkForward(b *testing.B) {
	nn := newTestFFNN(b, 42)
	in := testInput(nn.InputSize())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		nn.Forward(in)
	}
}
