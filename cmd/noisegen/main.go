package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"worldnoise/internal/persistence/archive"
	persistlog "worldnoise/internal/persistence/log"
	"worldnoise/internal/persistence/snapshot"
	"worldnoise/internal/terrain/gen"
	"worldnoise/internal/terrain/tuning"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to noise.yaml (default: built-in layers)")
		layerName  = flag.String("layer", "terrain", "layer to sample")
		seed       = flag.Int64("seed", 0, "world seed override (0 keeps the config seed)")
		x0         = flag.Int("x0", 0, "grid origin x")
		z0         = flag.Int("z0", 0, "grid origin z")
		y          = flag.Int("y", 0, "sample plane y")
		w          = flag.Int("w", 64, "grid width")
		h          = flag.Int("h", 64, "grid height")
		step       = flag.Int("step", 1, "block spacing between samples")
		dataDir    = flag.String("data", "./data", "output data directory")
		out        = flag.String("out", "", "snapshot path (default: <data>/grids/<layer>_<seed>.grid.zst)")
		doArchive  = flag.Bool("archive", false, "also copy the snapshot into <data>/archives")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[noisegen] ", log.LstdFlags|log.Lmicroseconds)

	cfg, err := tuning.Load(*configPath)
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}
	spec, ok := cfg.Layer(*layerName)
	if !ok {
		logger.Fatalf("unknown layer %q", *layerName)
	}
	layer, err := gen.NewLayer(cfg.Seed, spec)
	if err != nil {
		logger.Fatalf("build layer: %v", err)
	}

	start := time.Now()
	g, err := gen.Sample(layer, gen.GridRequest{X0: *x0, Z0: *z0, Y: *y, W: *w, H: *h, Step: *step})
	if err != nil {
		logger.Fatalf("sample: %v", err)
	}
	lo, hi := g.Range()
	digest := g.Digest()
	logger.Printf("sampled %s (%s) %dx%d step=%d in %s range=[%v, %v]", g.Layer, g.Kind, g.Req.W, g.Req.H, g.Req.Step, time.Since(start), lo, hi)

	snap := snapshot.GridV1{
		Header:  snapshot.Header{Version: snapshot.Version, Layer: g.Layer, Seed: cfg.Seed},
		Kind:    g.Kind,
		Octaves: spec.Octaves,
		X0:      g.Req.X0,
		Z0:      g.Req.Z0,
		Y:       g.Req.Y,
		W:       g.Req.W,
		H:       g.Req.H,
		Step:    g.Req.Step,
		Values:  g.Values,
		Digest:  digest,
	}
	for _, c := range g.Cells {
		snap.Cells = append(snap.Cells, snapshot.CellV1{X: c.X, Y: c.Y, Z: c.Z})
	}

	path := *out
	if path == "" {
		path = filepath.Join(*dataDir, "grids", fmt.Sprintf("%s_%d.grid.zst", g.Layer, cfg.Seed))
	}
	if err := snapshot.WriteGrid(path, snap); err != nil {
		logger.Fatalf("write snapshot: %v", err)
	}
	logger.Printf("wrote %s digest=%s", path, hex.EncodeToString(digest[:]))

	if *doArchive {
		dst, err := archive.ArchiveGrid(*dataDir, path, snap)
		if err != nil {
			logger.Fatalf("archive: %v", err)
		}
		logger.Printf("archived %s", dst)
	}

	samples := persistlog.NewSampleLogger(*dataDir)
	defer samples.Close()
	err = samples.WriteSample(persistlog.SampleEntry{
		Time:   time.Now().UTC().Format(time.RFC3339Nano),
		Layer:  g.Layer,
		Kind:   g.Kind,
		Seed:   cfg.Seed,
		X0:     g.Req.X0,
		Z0:     g.Req.Z0,
		Y:      g.Req.Y,
		W:      g.Req.W,
		H:      g.Req.H,
		Step:   g.Req.Step,
		Min:    lo,
		Max:    hi,
		Digest: hex.EncodeToString(digest[:]),
	})
	if err != nil {
		logger.Printf("sample log: %v", err)
	}
}
