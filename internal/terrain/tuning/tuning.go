package tuning

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// Layer kinds.
const (
	KindPerlin       = "perlin"
	KindDoublePerlin = "double_perlin"
	KindSimplex      = "simplex"
	KindVoronoi      = "voronoi"
)

//go:embed noise.schema.json
var schemaJSON string

type Config struct {
	Seed   int64       `yaml:"seed" json:"seed"`
	Layers []LayerSpec `yaml:"layers" json:"layers"`
}

type LayerSpec struct {
	Name       string  `yaml:"name" json:"name"`
	Kind       string  `yaml:"kind" json:"kind"`
	Octaves    []int   `yaml:"octaves,omitempty" json:"octaves,omitempty"`
	SeedOffset int64   `yaml:"seed_offset" json:"seed_offset"`
	Scale      float64 `yaml:"scale" json:"scale"`
	// Simplex layers sample 2D (x, z) unless Dims is 3.
	Dims int `yaml:"dims,omitempty" json:"dims,omitempty"`
	// Voronoi layers hash the world seed before jittering.
	HashSeed bool `yaml:"hash_seed,omitempty" json:"hash_seed,omitempty"`
}

func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	return Parse(raw)
}

// Parse decodes a YAML document, normalizes it and validates it against the
// embedded schema and the octave rules.
func Parse(raw []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("noise.yaml: %w", err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("noise.yaml: %w", err)
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		Seed: 1,
		Layers: []LayerSpec{
			{Name: "temperature", Kind: KindDoublePerlin, Octaves: []int{-7, -6}, Scale: 0.25},
			{Name: "humidity", Kind: KindDoublePerlin, Octaves: []int{-7, -6}, SeedOffset: 1, Scale: 0.25},
			{Name: "terrain", Kind: KindPerlin, Octaves: []int{-5, -4, -3, -2, -1, 0}, Scale: 1},
			{Name: "surface", Kind: KindSimplex, Scale: 0.0625},
			{Name: "cells", Kind: KindVoronoi, HashSeed: true},
		},
	}
}

// Normalize sorts and dedupes octave lists and fills the default scale.
func (c *Config) Normalize() {
	for i := range c.Layers {
		l := &c.Layers[i]
		l.Name = strings.TrimSpace(l.Name)
		l.Kind = strings.ToLower(strings.TrimSpace(l.Kind))
		if l.Scale == 0 {
			l.Scale = 1
		}
		if l.Kind == KindSimplex && l.Dims == 0 {
			l.Dims = 2
		}
		if len(l.Octaves) > 0 {
			oct := append([]int(nil), l.Octaves...)
			sort.Ints(oct)
			n := 1
			for _, o := range oct[1:] {
				if o != oct[n-1] {
					oct[n] = o
					n++
				}
			}
			l.Octaves = oct[:n]
		}
	}
}

func (c Config) Validate() error {
	if err := validateSchema(c); err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, l := range c.Layers {
		if seen[l.Name] {
			return fmt.Errorf("duplicate layer %q", l.Name)
		}
		seen[l.Name] = true
		switch l.Kind {
		case KindPerlin, KindDoublePerlin:
			if len(l.Octaves) == 0 {
				return fmt.Errorf("layer %q: kind %s needs octaves", l.Name, l.Kind)
			}
		case KindSimplex, KindVoronoi:
			if len(l.Octaves) > 0 {
				return fmt.Errorf("layer %q: kind %s takes no octaves", l.Name, l.Kind)
			}
		}
	}
	return nil
}

// Layer returns the named layer spec.
func (c Config) Layer(name string) (LayerSpec, bool) {
	for _, l := range c.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return LayerSpec{}, false
}

func validateSchema(c Config) error {
	s, err := jsonschema.CompileString("noise.schema.json", schemaJSON)
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return err
	}
	return s.Validate(doc)
}
