package neural

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ErrTruncated is returned when a controller stream ends early.
var ErrTruncated = errors.New("neural: truncated controller data")

// byteOrder is fixed so files move between machines.
var byteOrder = binary.LittleEndian

// Sanity caps for decoding untrusted files.
const (
	maxLayers    = 64
	maxLayerSize = 1 << 16
	maxParams    = 1 << 24
)

// Encode writes the network in the controller file layout:
//
//	uint64 layerCount
//	int32  layerSizes[layerCount]
//	per transition:
//	  int32 rows, int32 cols, float32 weights[rows*cols] (row-major)
//	  int32 biasLen, float32 bias[biasLen]
//
// Files are little-endian regardless of host byte order.
func (nn *FFNN) Encode(w io.Writer) error {
	if err := binary.Write(w, byteOrder, uint64(len(nn.sizes))); err != nil {
		return fmt.Errorf("writing layer count: %w", err)
	}
	sizes := make([]int32, len(nn.sizes))
	for i, s := range nn.sizes {
		sizes[i] = int32(s)
	}
	if err := binary.Write(w, byteOrder, sizes); err != nil {
		return fmt.Errorf("writing layer sizes: %w", err)
	}

	for i, l := range nn.layers {
		header := [2]int32{int32(l.W.Rows), int32(l.W.Cols)}
		if err := binary.Write(w, byteOrder, header); err != nil {
			return fmt.Errorf("writing layer %d shape: %w", i, err)
		}
		if err := binary.Write(w, byteOrder, l.W.Data); err != nil {
			return fmt.Errorf("writing layer %d weights: %w", i, err)
		}
		if err := binary.Write(w, byteOrder, int32(len(l.B))); err != nil {
			return fmt.Errorf("writing layer %d bias length: %w", i, err)
		}
		if err := binary.Write(w, byteOrder, l.B); err != nil {
			return fmt.Errorf("writing layer %d biases: %w", i, err)
		}
	}
	return nil
}

// Decode replaces the network's topology and values with those read from r.
// On any error nn is left unchanged.
func (nn *FFNN) Decode(r io.Reader) error {
	var count uint64
	if err := read(r, &count); err != nil {
		return fmt.Errorf("reading layer count: %w", err)
	}
	if count < 2 || count > maxLayers {
		return fmt.Errorf("%w: layer count %d", ErrTopology, count)
	}

	raw := make([]int32, count)
	if err := read(r, raw); err != nil {
		return fmt.Errorf("reading layer sizes: %w", err)
	}
	sizes := make([]int, count)
	for i, s := range raw {
		if s <= 0 || s > maxLayerSize {
			return fmt.Errorf("%w: layer %d has size %d", ErrTopology, i, s)
		}
		sizes[i] = int(s)
	}
	params := 0
	for i := 1; i < len(sizes); i++ {
		params += sizes[i]*sizes[i-1] + sizes[i]
		if params > maxParams {
			return fmt.Errorf("%w: more than %d parameters", ErrTopology, maxParams)
		}
	}

	layers := make([]layer, count-1)
	for i := range layers {
		var shape [2]int32
		if err := read(r, &shape); err != nil {
			return fmt.Errorf("reading layer %d shape: %w", i, err)
		}
		rows, cols := int(shape[0]), int(shape[1])
		if rows != sizes[i+1] || cols != sizes[i] {
			return fmt.Errorf("%w: layer %d is %dx%d, want %dx%d",
				ErrTopology, i, rows, cols, sizes[i+1], sizes[i])
		}

		l := newLayer(rows, cols)
		if err := read(r, l.W.Data); err != nil {
			return fmt.Errorf("reading layer %d weights: %w", i, err)
		}

		var biasLen int32
		if err := read(r, &biasLen); err != nil {
			return fmt.Errorf("reading layer %d bias length: %w", i, err)
		}
		if int(biasLen) != rows {
			return fmt.Errorf("%w: layer %d bias length %d, want %d", ErrTopology, i, biasLen, rows)
		}
		if err := read(r, l.B); err != nil {
			return fmt.Errorf("reading layer %d biases: %w", i, err)
		}
		layers[i] = l
	}

	nn.sizes = sizes
	nn.layers = layers
	return nil
}

// read is binary.Read with short reads reported as ErrTruncated.
func read(r io.Reader, data any) error {
	err := binary.Read(r, byteOrder, data)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncated
	}
	return err
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (nn *FFNN) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := nn.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (nn *FFNN) UnmarshalBinary(data []byte) error {
	return nn.Decode(bytes.NewReader(data))
}

// Save writes the network to path. The file is replaced only once the new
// contents are fully written, so a failed save keeps the previous file.
func (nn *FFNN) Save(path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("creating controller file: %w", err)
	}
	tmp := f.Name()
	if err := f.Chmod(0o644); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("setting controller file mode: %w", err)
	}

	w := bufio.NewWriter(f)
	if err := nn.Encode(w); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("flushing controller file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing controller file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing controller file: %w", err)
	}
	return nil
}

// Load reads a network from path into nn. On failure nn keeps its previous
// state.
func (nn *FFNN) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening controller file: %w", err)
	}
	defer f.Close()

	if err := nn.Decode(bufio.NewReader(f)); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoadFFNN reads a network from path.
func LoadFFNN(path string) (*FFNN, error) {
	nn := &FFNN{}
	if err := nn.Load(path); err != nil {
		return nil, err
	}
	return nn, nil
}
