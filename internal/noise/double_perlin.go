package noise

import (
	"fmt"

	"worldnoise/internal/javarand"
)

// Skew scales the second layer's coordinates so the two layers decorrelate.
const Skew = 1.0181268882175227

type DoublePerlinNoise struct {
	amplitude float64
	first     *PerlinNoise
	second    *PerlinNoise
}

// Amplitude returns (1/6) / (0.1 * (1 + 1/(span+1))).
func Amplitude(span int) float64 {
	return (1.0 / 6.0) / (0.1 * (1 + 1/float64(span+1)))
}

// NewDoublePerlinNoise builds both layers from r, the first completely before
// the second.
func NewDoublePerlinNoise(r *javarand.Random, octaves []int) (*DoublePerlinNoise, error) {
	if len(octaves) == 0 {
		return nil, fmt.Errorf("double perlin noise: %w", ErrNoOctaves)
	}
	lo, hi := octaves[0], octaves[0]
	for _, o := range octaves[1:] {
		lo = min(lo, o)
		hi = max(hi, o)
	}
	first, err := NewPerlinNoise(r, octaves)
	if err != nil {
		return nil, fmt.Errorf("double perlin noise: first layer: %w", err)
	}
	second, err := NewPerlinNoise(r, octaves)
	if err != nil {
		return nil, fmt.Errorf("double perlin noise: second layer: %w", err)
	}
	return &DoublePerlinNoise{
		amplitude: Amplitude(hi - lo),
		first:     first,
		second:    second,
	}, nil
}

func NewDoublePerlinRange(r *javarand.Random, lo, hi int) (*DoublePerlinNoise, error) {
	return NewDoublePerlinNoise(r, Range(lo, hi))
}

func (d *DoublePerlinNoise) Amplitude() float64 { return d.amplitude }

func (d *DoublePerlinNoise) Layers() (*PerlinNoise, *PerlinNoise) {
	return d.first, d.second
}

func (d *DoublePerlinNoise) Sample(x, y, z float64) float64 {
	a := d.first.Sample(x, y, z, 0, 0, false)
	b := d.second.Sample(x*Skew, y*Skew, z*Skew, 0, 0, false)
	return float64((a + b) * d.amplitude)
}
