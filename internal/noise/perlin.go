package noise

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"worldnoise/internal/javarand"
	"worldnoise/internal/mathx"
)

var (
	ErrNoOctaves = errors.New("no octaves")
	ErrNoSlots   = errors.New("octave range needs at least one slot")
)

// PerlinNoise sums gradient kernels over a range of octaves. Slot i holds the
// kernel for octave max-i, or nil when that octave was not requested.
type PerlinNoise struct {
	octaves     []*Noise
	persistence float64
	lacunarity  float64

	cache2d *sampleCache[uint64]
	cache3d *sampleCache[Key3]
}

// Range returns the inclusive octave list lo..hi.
func Range(lo, hi int) []int {
	if hi < lo {
		return nil
	}
	out := make([]int, 0, hi-lo+1)
	for o := lo; o <= hi; o++ {
		out = append(out, o)
	}
	return out
}

func normalizeOctaves(octaves []int) []int {
	out := append([]int(nil), octaves...)
	sort.Ints(out)
	n := 0
	for i, o := range out {
		if i > 0 && o == out[n-1] {
			continue
		}
		out[n] = o
		n++
	}
	return out[:n]
}

// NewPerlinNoise builds the octave kernels from r. The draw order is fixed:
// a center kernel first, then the slots above it on r, then the slots below
// it on a stream reseeded from the center kernel.
func NewPerlinNoise(r *javarand.Random, octaves []int) (*PerlinNoise, error) {
	if len(octaves) == 0 {
		return nil, fmt.Errorf("perlin noise: %w", ErrNoOctaves)
	}
	sorted := normalizeOctaves(octaves)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	slots := -lo + hi + 1
	if slots < 1 {
		return nil, fmt.Errorf("perlin noise: octaves %d..%d: %w", lo, hi, ErrNoSlots)
	}
	want := make(map[int]bool, len(sorted))
	for _, o := range sorted {
		want[o] = true
	}

	center := NewNoise(r)
	p := &PerlinNoise{
		octaves: make([]*Noise, slots),
		cache2d: newSampleCache[uint64](1024),
		cache3d: newSampleCache[Key3](1024),
	}
	if hi >= 0 && hi < slots && want[0] {
		p.octaves[hi] = center
	}
	for i := hi + 1; i < slots; i++ {
		if i >= 0 && want[hi-i] {
			p.octaves[i] = NewNoise(r)
			continue
		}
		r.Skip(javarand.Skip262)
	}
	if hi > 0 {
		seed := mathx.ToInt64(center.Sample(0, 0, 0, 0, 0) * 9.223372036854776e18)
		rr := javarand.New(seed)
		for i := hi - 1; i >= 0; i-- {
			if i < slots && want[hi-i] {
				p.octaves[i] = NewNoise(rr)
				continue
			}
			rr.Skip(javarand.Skip262)
		}
	}
	p.persistence = math.Ldexp(1, hi)
	p.lacunarity = 1 / (math.Ldexp(1, slots) - 1)
	return p, nil
}

func (p *PerlinNoise) Slots() int { return len(p.octaves) }

// Octave returns the kernel in slot i, or nil.
func (p *PerlinNoise) Octave(i int) *Noise {
	if i < 0 || i >= len(p.octaves) {
		return nil
	}
	return p.octaves[i]
}

func (p *PerlinNoise) Persistence() float64 { return p.persistence }
func (p *PerlinNoise) Lacunarity() float64  { return p.lacunarity }

// Sample walks the slots from the lowest frequency up. With useDefaultY each
// kernel is sampled at the negation of its own y origin.
func (p *PerlinNoise) Sample(x, y, z, yAmp, yMin float64, useDefaultY bool) float64 {
	var v float64
	pers := p.persistence
	lac := p.lacunarity
	for _, o := range p.octaves {
		if o != nil {
			sy := -o.Y0
			if !useDefaultY {
				sy = mathx.Wrap(float64(y * pers))
			}
			s := o.Sample(mathx.Wrap(float64(x*pers)), sy, mathx.Wrap(float64(z*pers)), yAmp*pers, yMin*pers)
			v += float64(s * lac)
		}
		pers /= 2
		lac *= 2
	}
	return v
}

func (p *PerlinNoise) SampleDefault(x, y, z float64) float64 {
	return p.Sample(x, y, z, 0, 0, false)
}

func (p *PerlinNoise) SampleSurface(x, z, yAmp, yMin float64) float64 {
	return p.Sample(x, 0, z, yAmp, yMin, false)
}

// Sample2D is SampleSurface with no y snapping, memoized by packed (x, z).
func (p *PerlinNoise) Sample2D(x, z float64) float64 {
	return p.cache2d.get(PackKey2(x, z), func() float64 {
		return p.Sample(x, 0, z, 0, 0, false)
	})
}

// Sample3D is SampleDefault memoized by packed (x, y, z).
func (p *PerlinNoise) Sample3D(x, y, z float64) float64 {
	return p.cache3d.get(PackKey3(x, y, z), func() float64 {
		return p.SampleDefault(x, y, z)
	})
}

func (p *PerlinNoise) Stats() (s2, s3 Stats) {
	return p.cache2d.stats(), p.cache3d.stats()
}
