package gen

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"worldnoise/internal/voronoi"
)

// MaxGridCells bounds a single grid request.
const MaxGridCells = 1 << 20

// MaxStep bounds the block spacing of a grid request.
const MaxStep = 1 << 16

var ErrGridTooLarge = errors.New("grid too large")

// GridRequest samples W x H points starting at (X0, Z0) on the plane Y,
// Step blocks apart.
type GridRequest struct {
	X0, Z0 int
	Y      int
	W, H   int
	Step   int
}

type Grid struct {
	Layer  string
	Kind   string
	Req    GridRequest
	Values []float64 // row-major, z outer
	Cells  []voronoi.Cell
}

func (r GridRequest) Validate() error {
	if r.W <= 0 || r.H <= 0 {
		return fmt.Errorf("grid size must be positive: %dx%d", r.W, r.H)
	}
	if r.W > MaxGridCells || r.H > MaxGridCells || r.W*r.H > MaxGridCells {
		return fmt.Errorf("%w: %dx%d", ErrGridTooLarge, r.W, r.H)
	}
	if r.Step < 0 || r.Step > MaxStep {
		return fmt.Errorf("step %d outside [0, %d]", r.Step, MaxStep)
	}
	step := r.Step
	if step == 0 {
		step = 1
	}
	if !inInt32(int64(r.Y)) {
		return fmt.Errorf("y %d outside int32 range", r.Y)
	}
	// Coordinates are computed in int; keep both grid edges in int32 so
	// x0+dx*step never wraps.
	for _, e := range [2]struct {
		axis   string
		origin int
		n      int
	}{{"x", r.X0, r.W}, {"z", r.Z0, r.H}} {
		end := int64(e.origin) + int64(e.n-1)*int64(step)
		if !inInt32(int64(e.origin)) || !inInt32(end) {
			return fmt.Errorf("%s span [%d, %d] outside int32 range", e.axis, e.origin, end)
		}
	}
	return nil
}

func inInt32(v int64) bool { return v >= math.MinInt32 && v <= math.MaxInt32 }

// Sample evaluates l over the request. A zero step means 1.
func Sample(l Layer, req GridRequest) (Grid, error) {
	if err := req.Validate(); err != nil {
		return Grid{}, err
	}
	step := req.Step
	if step == 0 {
		step = 1
		req.Step = 1
	}
	g := Grid{
		Layer:  l.Name(),
		Kind:   l.Kind(),
		Req:    req,
		Values: make([]float64, 0, req.W*req.H),
	}
	cl, isCell := l.(CellLayer)
	if isCell {
		g.Cells = make([]voronoi.Cell, 0, req.W*req.H)
	}
	y := float64(req.Y)
	for dz := 0; dz < req.H; dz++ {
		z := float64(req.Z0 + dz*step)
		for dx := 0; dx < req.W; dx++ {
			x := float64(req.X0 + dx*step)
			g.Values = append(g.Values, l.Sample(x, y, z))
			if isCell {
				g.Cells = append(g.Cells, cl.Cell(x, y, z))
			}
		}
	}
	return g, nil
}

// Digest hashes the exact bit patterns of the values.
func (g Grid) Digest() [32]byte {
	h := sha256.New()
	var tmp [8]byte
	for _, v := range g.Values {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
		h.Write(tmp[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Range returns the smallest and largest value, ignoring NaN.
func (g Grid) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.Values {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
