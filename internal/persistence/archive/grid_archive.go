package archive

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"worldnoise/internal/persistence/snapshot"
)

type GridArchiveMeta struct {
	Layer     string `json:"layer"`
	Kind      string `json:"kind"`
	Seed      int64  `json:"seed"`
	Snapshot  string `json:"snapshot"`
	Digest    string `json:"digest"`
	CreatedAt string `json:"created_at"`
}

// ArchiveGrid copies a grid snapshot into
// `dataDir/archives/<layer>/seed_<seed>/<digest prefix>/` with a meta.json beside it.
// Grids with identical values land in the same directory.
func ArchiveGrid(dataDir, snapshotPath string, g snapshot.GridV1) (archivedPath string, err error) {
	if g.Header.Layer == "" {
		return "", fmt.Errorf("grid has no layer name")
	}
	digest := hex.EncodeToString(g.Digest[:])
	archiveDir := filepath.Join(dataDir, "archives", g.Header.Layer, fmt.Sprintf("seed_%d", g.Header.Seed), digest[:16])
	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", err
	}

	dst := filepath.Join(archiveDir, filepath.Base(snapshotPath))
	if err := copyFile(snapshotPath, dst); err != nil {
		return "", err
	}

	meta := GridArchiveMeta{
		Layer:     g.Header.Layer,
		Kind:      g.Kind,
		Seed:      g.Header.Seed,
		Snapshot:  filepath.Base(dst),
		Digest:    digest,
		CreatedAt: time.Now().UTC().Format(time.RFC3339Nano),
	}
	if b, err := json.MarshalIndent(meta, "", "  "); err == nil {
		_ = os.WriteFile(filepath.Join(archiveDir, "meta.json"), b, 0o644)
	}
	return dst, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
