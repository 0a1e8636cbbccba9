package archive

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"worldnoise/internal/persistence/snapshot"
)

func TestArchiveGrid(t *testing.T) {
	dataDir := t.TempDir()
	src := filepath.Join(dataDir, "grids", "terrain.grid.zst")
	g := snapshot.GridV1{
		Header: snapshot.Header{Layer: "terrain", Seed: 42},
		Kind:   "perlin",
		W:      1,
		H:      2,
		Step:   1,
		Values: []float64{0.25, -0.75},
	}
	g.Digest[0] = 0xCD
	if err := snapshot.WriteGrid(src, g); err != nil {
		t.Fatalf("WriteGrid: %v", err)
	}

	dst, err := ArchiveGrid(dataDir, src, g)
	if err != nil {
		t.Fatalf("ArchiveGrid: %v", err)
	}
	wantDir := filepath.Join(dataDir, "archives", "terrain", "seed_42", "cd00000000000000")
	if filepath.Dir(dst) != wantDir {
		t.Fatalf("archived to %s, want dir %s", dst, wantDir)
	}
	got, err := snapshot.ReadGrid(dst)
	if err != nil {
		t.Fatalf("ReadGrid archived: %v", err)
	}
	if got.Values[1] != -0.75 {
		t.Fatalf("unexpected archived values: %v", got.Values)
	}

	b, err := os.ReadFile(filepath.Join(wantDir, "meta.json"))
	if err != nil {
		t.Fatalf("read meta: %v", err)
	}
	var meta GridArchiveMeta
	if err := json.Unmarshal(b, &meta); err != nil {
		t.Fatalf("decode meta: %v", err)
	}
	if meta.Layer != "terrain" || meta.Seed != 42 || meta.Snapshot != "terrain.grid.zst" || meta.Kind != "perlin" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestArchiveGridRequiresLayer(t *testing.T) {
	if _, err := ArchiveGrid(t.TempDir(), "missing", snapshot.GridV1{}); err == nil {
		t.Fatalf("expected error for unnamed grid")
	}
}
