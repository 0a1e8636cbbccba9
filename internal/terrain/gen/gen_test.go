package gen

import (
	"errors"
	"math"
	"testing"

	"worldnoise/internal/javarand"
	"worldnoise/internal/noise"
	"worldnoise/internal/terrain/tuning"
	"worldnoise/internal/voronoi"
)

func TestNewLayerMatchesDirectConstruction(t *testing.T) {
	spec := tuning.LayerSpec{Name: "t", Kind: tuning.KindDoublePerlin, Octaves: []int{-7, -6}, Scale: 1}
	l, err := NewLayer(1, spec)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	d, _ := noise.NewDoublePerlinNoise(javarand.New(1), []int{-7, -6})
	if got, want := l.Sample(25, 0, 24), d.Sample(25, 0, 24); got != want || got != 0.07304369034293899 {
		t.Fatalf("layer sample %v, direct %v", got, want)
	}
	if l.Name() != "t" || l.Kind() != tuning.KindDoublePerlin {
		t.Fatalf("unexpected identity: %s %s", l.Name(), l.Kind())
	}
}

func TestSeedOffsetAndScale(t *testing.T) {
	spec := tuning.LayerSpec{Name: "s", Kind: tuning.KindSimplex, SeedOffset: 2, Scale: 0.5, Dims: 2}
	l, err := NewLayer(10, spec)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	s := noise.NewSimplexNoise(javarand.New(12))
	if got, want := l.Sample(1, 50, 200), s.Sample2D(0.5, 100); got != want {
		t.Fatalf("got %v want %v", got, want)
	}

	spec.Dims = 3
	l, _ = NewLayer(10, spec)
	if got, want := l.Sample(1, 1.2, 200), s.Sample3D(0.5, 0.6, 100); got != want {
		t.Fatalf("3d got %v want %v", got, want)
	}
}

func TestFractionalScaleBypassesCache(t *testing.T) {
	spec := tuning.LayerSpec{Name: "s", Kind: tuning.KindSimplex, Scale: 0.0625, Dims: 2}
	l, err := NewLayer(3, spec)
	if err != nil {
		t.Fatalf("NewLayer: %v", err)
	}
	s := noise.NewSimplexNoise(javarand.New(3))
	for x := 0.0; x < 16; x++ {
		if got, want := l.Sample(x, 0, 5), s.Eval2D(x*0.0625, 5*0.0625); got != want {
			t.Fatalf("x=%v: got %v want %v", x, got, want)
		}
	}
	if l.Sample(1, 0, 0) == l.Sample(2, 0, 0) {
		t.Fatalf("distinct fractional points collapsed to one cache entry")
	}

	p, _ := NewLayer(3, tuning.LayerSpec{Name: "p", Kind: tuning.KindPerlin, Octaves: []int{-2, 0}, Scale: 0.5})
	direct, _ := noise.NewPerlinNoise(javarand.New(3), []int{-2, 0})
	if got, want := p.Sample(3, 7, -5), direct.SampleDefault(1.5, 3.5, -2.5); got != want {
		t.Fatalf("perlin: got %v want %v", got, want)
	}
}

func TestNewLayerErrors(t *testing.T) {
	if _, err := NewLayer(1, tuning.LayerSpec{Name: "p", Kind: tuning.KindPerlin}); err == nil {
		t.Fatalf("expected error for perlin without octaves")
	}
	if _, err := NewLayer(1, tuning.LayerSpec{Name: "x", Kind: "worley"}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func TestNewLayersFromDefaults(t *testing.T) {
	cfg, err := tuning.Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	layers, err := NewLayers(cfg)
	if err != nil {
		t.Fatalf("NewLayers: %v", err)
	}
	if len(layers) != len(cfg.Layers) {
		t.Fatalf("got %d layers want %d", len(layers), len(cfg.Layers))
	}
	if _, ok := layers["cells"].(CellLayer); !ok {
		t.Fatalf("voronoi layer should resolve cells")
	}
}

func TestGridSample(t *testing.T) {
	spec := tuning.LayerSpec{Name: "p", Kind: tuning.KindPerlin, Octaves: []int{1, 2}, Scale: 1}
	l, _ := NewLayer(1, spec)
	g, err := Sample(l, GridRequest{X0: -2, Z0: 3, Y: 0, W: 4, H: 3, Step: 2})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(g.Values) != 12 || g.Cells != nil {
		t.Fatalf("unexpected grid shape: %d values", len(g.Values))
	}
	p, _ := noise.NewPerlinNoise(javarand.New(1), []int{1, 2})
	// row 1, column 2 -> x = -2 + 4, z = 3 + 2
	if got, want := g.Values[1*4+2], p.SampleDefault(2, 0, 5); got != want {
		t.Fatalf("grid value %v want %v", got, want)
	}

	again, _ := Sample(l, GridRequest{X0: -2, Z0: 3, W: 4, H: 3, Step: 2})
	if again.Digest() != g.Digest() {
		t.Fatalf("digest not stable")
	}
	lo, hi := g.Range()
	if lo > hi {
		t.Fatalf("bad range %v %v", lo, hi)
	}
}

func TestGridVoronoiCells(t *testing.T) {
	l, _ := NewLayer(1, tuning.LayerSpec{Name: "c", Kind: tuning.KindVoronoi, Scale: 1})
	g, err := Sample(l, GridRequest{X0: -4, Z0: -4, W: 8, H: 8})
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(g.Cells) != 64 || g.Req.Step != 1 {
		t.Fatalf("unexpected grid: %d cells step %d", len(g.Cells), g.Req.Step)
	}
	v := voronoi.New(1)
	if g.Cells[4*8+4] != v.FuzzyPosition(0, 0, 0) {
		t.Fatalf("cell mismatch: %+v", g.Cells[4*8+4])
	}
	for i, d := range g.Values {
		if d < 0 {
			t.Fatalf("negative distance at %d: %v", i, d)
		}
	}
}

func TestGridRequestValidate(t *testing.T) {
	bad := []GridRequest{
		{W: 0, H: 1},
		{W: 1, H: -1},
		{W: 2048, H: 1024},
		{W: 1, H: 1, Step: -1},
		{W: 1, H: 1, Step: MaxStep + 1},
		{X0: math.MaxInt32 - 10, W: 16, H: 1, Step: 1},
		{X0: -1 << 40, W: 1, H: 1},
		{Y: 1 << 40, W: 1, H: 1},
		{X0: math.MaxInt32 - 1<<20, W: 1024, H: 1, Step: MaxStep},
	}
	for _, r := range bad {
		if err := r.Validate(); err == nil {
			t.Fatalf("expected error for %+v", r)
		}
	}
	if err := (GridRequest{W: 2048, H: 1024}).Validate(); !errors.Is(err, ErrGridTooLarge) {
		t.Fatalf("expected ErrGridTooLarge, got %v", err)
	}

	good := []GridRequest{
		{X0: math.MaxInt32 - 15, W: 16, H: 1, Step: 1},
		{Z0: math.MinInt32, W: 1, H: 2, Step: 0},
		{X0: -512, Z0: -512, W: 1024, H: 1024, Step: 0},
	}
	for _, r := range good {
		if err := r.Validate(); err != nil {
			t.Fatalf("unexpected error for %+v: %v", r, err)
		}
	}
}
