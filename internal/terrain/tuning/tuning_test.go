package tuning

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadDefaultsWhenPathEmpty(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	l, ok := cfg.Layer("surface")
	if !ok || l.Dims != 2 {
		t.Fatalf("expected simplex layer with dims 2, got %+v", l)
	}
}

func TestLoadNormalizesOctaves(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "noise.yaml")
	doc := `
seed: 42
layers:
  - name: hills
    kind: PERLIN
    octaves: [2, 1, 2, -1]
    seed_offset: 3
  - name: caves
    kind: simplex
    dims: 3
    scale: 0.5
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Seed != 42 || len(cfg.Layers) != 2 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	hills, _ := cfg.Layer("hills")
	if hills.Kind != KindPerlin || hills.Scale != 1 || hills.SeedOffset != 3 {
		t.Fatalf("unexpected hills layer: %+v", hills)
	}
	if got := hills.Octaves; len(got) != 3 || got[0] != -1 || got[1] != 1 || got[2] != 2 {
		t.Fatalf("octaves not normalized: %v", got)
	}
	caves, _ := cfg.Layer("caves")
	if caves.Dims != 3 || caves.Scale != 0.5 {
		t.Fatalf("unexpected caves layer: %+v", caves)
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"unknown kind": `
seed: 1
layers:
  - name: a
    kind: worley
`,
		"missing octaves": `
seed: 1
layers:
  - name: a
    kind: double_perlin
`,
		"octaves on simplex": `
seed: 1
layers:
  - name: a
    kind: simplex
    octaves: [0]
`,
		"duplicate name": `
seed: 1
layers:
  - name: a
    kind: voronoi
  - name: a
    kind: voronoi
`,
		"negative scale": `
seed: 1
layers:
  - name: a
    kind: voronoi
    scale: -2
`,
		"no layers": `
seed: 1
layers: []
`,
		"bad yaml": "seed: [",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); err == nil {
			t.Fatalf("%s: expected error", name)
		} else if !strings.HasPrefix(err.Error(), "noise.yaml: ") {
			t.Fatalf("%s: error not wrapped: %v", name, err)
		}
	}
}
