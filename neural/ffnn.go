// Package neural provides the feedforward controller that maps an agent's
// sensor vector to its control vector.
package neural

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"
)

// DefaultLayerSizes is 22 sensors, two hidden layers, 4 control outputs.
var DefaultLayerSizes = []int{22, 24, 16, 4}

// ErrTopology is returned when a layer list or a decoded shape is unusable.
var ErrTopology = errors.New("neural: invalid topology")

// Initial bias range.
const biasInitRange = 0.1

// layer is one transition: W is out×in in row-major order, B has out entries.
type layer struct {
	W blas32.General
	B []float32
}

// FFNN is a fully connected tanh network with a fixed topology. Mutation and
// learning change values, never shapes.
type FFNN struct {
	sizes  []int
	layers []layer
}

// NewFFNN creates a network with Xavier-style Gaussian weights
// (std = sqrt(2/(fan_in+fan_out))) and small uniform biases.
func NewFFNN(rng *rand.Rand, layerSizes []int) (*FFNN, error) {
	if err := validateSizes(layerSizes); err != nil {
		return nil, err
	}

	nn := &FFNN{sizes: append([]int(nil), layerSizes...)}
	nn.layers = make([]layer, len(layerSizes)-1)

	for i := range nn.layers {
		in, out := layerSizes[i], layerSizes[i+1]
		std := math.Sqrt(2.0 / float64(in+out))

		l := newLayer(out, in)
		for j := range l.W.Data {
			l.W.Data[j] = float32(rng.NormFloat64() * std)
		}
		for j := range l.B {
			l.B[j] = (rng.Float32()*2 - 1) * biasInitRange
		}
		nn.layers[i] = l
	}
	return nn, nil
}

func validateSizes(sizes []int) error {
	if len(sizes) < 2 {
		return fmt.Errorf("%w: need at least 2 layers, got %d", ErrTopology, len(sizes))
	}
	for i, s := range sizes {
		if s <= 0 {
			return fmt.Errorf("%w: layer %d has size %d", ErrTopology, i, s)
		}
	}
	return nil
}

func newLayer(rows, cols int) layer {
	return layer{
		W: blas32.General{Rows: rows, Cols: cols, Stride: cols, Data: make([]float32, rows*cols)},
		B: make([]float32, rows),
	}
}

// LayerSizes returns a copy of the topology.
func (nn *FFNN) LayerSizes() []int {
	return append([]int(nil), nn.sizes...)
}

// InputSize is the expected length of a Forward input.
func (nn *FFNN) InputSize() int { return nn.sizes[0] }

// OutputSize is the length of a Forward result.
func (nn *FFNN) OutputSize() int { return nn.sizes[len(nn.sizes)-1] }

// Forward computes the network output. A wrongly sized input is logged and
// yields a zero vector of the output size.
func (nn *FFNN) Forward(input []float32) []float32 {
	if len(input) != nn.InputSize() {
		slog.Warn("controller input size mismatch",
			"expected", nn.InputSize(),
			"got", len(input),
		)
		return make([]float32, nn.OutputSize())
	}

	a := input
	for i := range nn.layers {
		a = nn.layers[i].activate(a)
	}
	return a
}

// Activations runs a forward pass and returns every layer's values, input
// first and output last.
func (nn *FFNN) Activations(input []float32) [][]float32 {
	return nn.activations(input)
}

// Weight returns the connection from node in of layer l to node out of
// layer l+1.
func (nn *FFNN) Weight(l, out, in int) float32 {
	w := nn.layers[l].W
	return w.Data[out*w.Stride+in]
}

// activations runs a forward pass and keeps every layer's output, input first.
func (nn *FFNN) activations(input []float32) [][]float32 {
	acts := make([][]float32, 0, len(nn.sizes))
	acts = append(acts, input)
	a := input
	for i := range nn.layers {
		a = nn.layers[i].activate(a)
		acts = append(acts, a)
	}
	return acts
}

// activate computes tanh(W·x + b) into a fresh slice.
func (l *layer) activate(x []float32) []float32 {
	out := make([]float32, l.W.Rows)
	copy(out, l.B)
	blas32.Gemv(blas.NoTrans, 1, l.W,
		blas32.Vector{N: len(x), Inc: 1, Data: x},
		1, blas32.Vector{N: len(out), Inc: 1, Data: out},
	)
	for i, v := range out {
		out[i] = float32(math.Tanh(float64(v)))
	}
	return out
}

// Mutate perturbs each weight and bias independently: with probability rate
// it receives N(0, strength) noise.
func (nn *FFNN) Mutate(rng *rand.Rand, rate, strength float32) {
	for i := range nn.layers {
		l := &nn.layers[i]
		for j := range l.W.Data {
			if rng.Float32() < rate {
				l.W.Data[j] += float32(rng.NormFloat64()) * strength
			}
		}
	}
	for i := range nn.layers {
		l := &nn.layers[i]
		for j := range l.B {
			if rng.Float32() < rate {
				l.B[j] += float32(rng.NormFloat64()) * strength
			}
		}
	}
}

// LearnFromGradient nudges the output layer toward desired with a single
// delta-rule step: W_last += lr·err·a_prevᵀ, b_last += lr·err, where
// err = desired - output. Earlier layers are not touched.
// Mismatched input or target lengths are skipped.
//
// This is not backpropagation; see DESIGN.md for why it stays shallow.
func (nn *FFNN) LearnFromGradient(input, desired []float32, lr float32) {
	if len(input) != nn.InputSize() || len(desired) != nn.OutputSize() {
		return
	}

	acts := nn.activations(input)
	output := acts[len(acts)-1]
	prev := acts[len(acts)-2]

	errVec := make([]float32, len(desired))
	for i := range desired {
		errVec[i] = desired[i] - output[i]
	}

	last := &nn.layers[len(nn.layers)-1]
	e := blas32.Vector{N: len(errVec), Inc: 1, Data: errVec}
	blas32.Ger(lr, e, blas32.Vector{N: len(prev), Inc: 1, Data: prev}, last.W)
	blas32.Axpy(lr, e, blas32.Vector{N: len(last.B), Inc: 1, Data: last.B})
}

// Clone creates a deep copy of the network.
func (nn *FFNN) Clone() *FFNN {
	clone := &FFNN{}
	clone.CopyFrom(nn)
	return clone
}

// CopyFrom overwrites nn with the topology and values of src. Storage is
// reused when shapes already match; nothing is shared with src afterwards.
func (nn *FFNN) CopyFrom(src *FFNN) {
	if nn == src {
		return
	}
	if !sameSizes(nn.sizes, src.sizes) {
		nn.sizes = append([]int(nil), src.sizes...)
		nn.layers = make([]layer, len(src.layers))
		for i, l := range src.layers {
			nn.layers[i] = newLayer(l.W.Rows, l.W.Cols)
		}
	}
	for i, l := range src.layers {
		copy(nn.layers[i].W.Data, l.W.Data)
		copy(nn.layers[i].B, l.B)
	}
}

func sameSizes(a, b []int) bool {
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

// ParameterCount returns the number of weights plus biases.
func (nn *FFNN) ParameterCount() int {
	n := 0
	for _, l := range nn.layers {
		n += len(l.W.Data) + len(l.B)
	}
	return n
}
