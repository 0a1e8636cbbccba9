package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"

	"worldnoise/internal/persistence/pins"
	"worldnoise/internal/terrain/gen"
	"worldnoise/internal/terrain/tuning"
)

func main() {
	var (
		mode       = flag.String("mode", "verify", "record|verify")
		dbPath     = flag.String("db", "./data/pins.db", "sqlite pin store")
		configPath = flag.String("config", "", "path to noise.yaml (default: built-in layers)")
		layers     = flag.String("layers", "", "comma separated layer names (default: all)")
		seed       = flag.Int64("seed", 0, "world seed override (0 keeps the config seed)")
		x0         = flag.Int("x0", -256, "record grid origin x")
		z0         = flag.Int("z0", -256, "record grid origin z")
		y          = flag.Int("y", 64, "record plane y")
		size       = flag.Int("size", 9, "record grid points per side")
		step       = flag.Int("step", 64, "record grid spacing")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[pins] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := tuning.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	specs, err := selectLayers(cfg, *layers)
	if err != nil {
		logger.Fatalf("%v", err)
	}

	store, err := pins.OpenSQLite(*dbPath)
	if err != nil {
		logger.Fatalf("open pin store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	failed := false
	for _, spec := range specs {
		layer, err := gen.NewLayer(cfg.Seed, spec)
		if err != nil {
			logger.Fatalf("build layer: %v", err)
		}
		switch *mode {
		case "record":
			g, err := gen.Sample(layer, gen.GridRequest{X0: *x0, Z0: *z0, Y: *y, W: *size, H: *size, Step: *step})
			if err != nil {
				logger.Fatalf("sample %s: %v", spec.Name, err)
			}
			recs := make([]pins.Pin, 0, len(g.Values))
			for i, v := range g.Values {
				recs = append(recs, pins.Pin{
					Layer:   spec.Name,
					Kind:    spec.Kind,
					Octaves: spec.Octaves,
					Seed:    cfg.Seed,
					X:       float64(g.Req.X0 + (i%g.Req.W)*g.Req.Step),
					Y:       float64(g.Req.Y),
					Z:       float64(g.Req.Z0 + (i/g.Req.W)*g.Req.Step),
					Bits:    math.Float64bits(v),
				})
			}
			if err := store.Record(ctx, recs...); err != nil {
				logger.Fatalf("record %s: %v", spec.Name, err)
			}
			logger.Printf("recorded %d pins for %s seed=%d", len(recs), spec.Name, cfg.Seed)
		case "verify":
			checked, bad, err := store.Verify(ctx, spec.Name, cfg.Seed, layer.Sample)
			if err != nil {
				logger.Fatalf("verify %s: %v", spec.Name, err)
			}
			for _, m := range bad {
				logger.Printf("MISMATCH %s (%v,%v,%v): pinned %v (%#016x) got %v (%#016x)",
					spec.Name, m.Pin.X, m.Pin.Y, m.Pin.Z, m.Pin.Value(), m.Pin.Bits, m.Got, math.Float64bits(m.Got))
			}
			if len(bad) > 0 {
				failed = true
			}
			logger.Printf("verified %s seed=%d: %d pins, %d mismatches", spec.Name, cfg.Seed, checked, len(bad))
		default:
			logger.Fatalf("unknown mode %q (want record|verify)", *mode)
		}
	}
	if failed {
		_ = store.Close()
		os.Exit(1)
	}
}

func selectLayers(cfg tuning.Config, names string) ([]tuning.LayerSpec, error) {
	if strings.TrimSpace(names) == "" {
		return cfg.Layers, nil
	}
	var out []tuning.LayerSpec
	for _, n := range strings.Split(names, ",") {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		spec, ok := cfg.Layer(n)
		if !ok {
			return nil, fmt.Errorf("unknown layer %q", n)
		}
		out = append(out, spec)
	}
	return out, nil
}
