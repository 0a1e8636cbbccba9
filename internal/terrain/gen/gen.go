package gen

import (
	"fmt"
	"math"

	"worldnoise/internal/javarand"
	"worldnoise/internal/mathx"
	"worldnoise/internal/noise"
	"worldnoise/internal/terrain/tuning"
	"worldnoise/internal/voronoi"
)

// Layer is one configured noise source. Layers are not safe for concurrent
// use; every owner builds its own set.
type Layer interface {
	Name() string
	Kind() string
	Sample(x, y, z float64) float64
}

// CellLayer is implemented by layers that resolve to lattice cells.
type CellLayer interface {
	Layer
	Cell(x, y, z float64) voronoi.Cell
}

// LayerSeed is the stream seed a layer is built from.
func LayerSeed(worldSeed int64, spec tuning.LayerSpec) int64 {
	return worldSeed + spec.SeedOffset
}

// NewLayer builds a layer on its own freshly seeded stream.
func NewLayer(worldSeed int64, spec tuning.LayerSpec) (Layer, error) {
	seed := LayerSeed(worldSeed, spec)
	scale := spec.Scale
	if scale == 0 {
		scale = 1
	}
	base := layerBase{name: spec.Name, kind: spec.Kind, scale: scale}
	switch spec.Kind {
	case tuning.KindPerlin:
		p, err := noise.NewPerlinNoise(javarand.New(seed), spec.Octaves)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", spec.Name, err)
		}
		return &perlinLayer{layerBase: base, p: p}, nil
	case tuning.KindDoublePerlin:
		d, err := noise.NewDoublePerlinNoise(javarand.New(seed), spec.Octaves)
		if err != nil {
			return nil, fmt.Errorf("layer %q: %w", spec.Name, err)
		}
		return &doublePerlinLayer{layerBase: base, d: d}, nil
	case tuning.KindSimplex:
		return &simplexLayer{layerBase: base, s: noise.NewSimplexNoise(javarand.New(seed)), dims: spec.Dims}, nil
	case tuning.KindVoronoi:
		if spec.HashSeed {
			seed = mathx.HashSeed(seed)
		}
		return &voronoiLayer{layerBase: base, v: voronoi.New(seed)}, nil
	}
	return nil, fmt.Errorf("layer %q: unknown kind %q", spec.Name, spec.Kind)
}

// NewLayers builds every layer of cfg, keyed by name.
func NewLayers(cfg tuning.Config) (map[string]Layer, error) {
	out := make(map[string]Layer, len(cfg.Layers))
	for _, spec := range cfg.Layers {
		l, err := NewLayer(cfg.Seed, spec)
		if err != nil {
			return nil, err
		}
		out[spec.Name] = l
	}
	return out, nil
}

type layerBase struct {
	name  string
	kind  string
	scale float64
}

func (b layerBase) Name() string { return b.name }
func (b layerBase) Kind() string { return b.kind }

type perlinLayer struct {
	layerBase
	p *noise.PerlinNoise
}

func (l *perlinLayer) Sample(x, y, z float64) float64 {
	x, y, z = x*l.scale, y*l.scale, z*l.scale
	if cacheable(x, y, z) {
		return l.p.Sample3D(x, y, z)
	}
	return l.p.SampleDefault(x, y, z)
}

type doublePerlinLayer struct {
	layerBase
	d *noise.DoublePerlinNoise
}

func (l *doublePerlinLayer) Sample(x, y, z float64) float64 {
	return l.d.Sample(x*l.scale, y*l.scale, z*l.scale)
}

type simplexLayer struct {
	layerBase
	s    *noise.SimplexNoise
	dims int
}

func (l *simplexLayer) Sample(x, y, z float64) float64 {
	x, y, z = x*l.scale, y*l.scale, z*l.scale
	if l.dims == 3 {
		if cacheable(x, y, z) {
			return l.s.Sample3D(x, y, z)
		}
		return l.s.Eval3D(x, y, z)
	}
	if cacheable(x, 0, z) {
		return l.s.Sample2D(x, z)
	}
	return l.s.Eval2D(x, z)
}

// cacheable reports whether the point survives the caches' 32-bit integer
// key without aliasing.
func cacheable(x, y, z float64) bool {
	for _, v := range [3]float64{x, y, z} {
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return false
		}
	}
	return true
}

type voronoiLayer struct {
	layerBase
	v *voronoi.Voronoi
}

func (l *voronoiLayer) Cell(x, y, z float64) voronoi.Cell {
	return l.v.FuzzyPosition(mathx.Floor(x*l.scale), mathx.Floor(y*l.scale), mathx.Floor(z*l.scale))
}

// Sample returns the squared distance, in cells, from the scaled block to
// the anchor block of its fuzzy cell.
func (l *voronoiLayer) Sample(x, y, z float64) float64 {
	c := l.Cell(x, y, z)
	dx := (x*l.scale - float64(int64(c.X)*4+2)) / 4
	dy := (y*l.scale - float64(int64(c.Y)*4+2)) / 4
	dz := (z*l.scale - float64(int64(c.Z)*4+2)) / 4
	return float64(dx*dx) + float64(dy*dy) + float64(dz*dz)
}
