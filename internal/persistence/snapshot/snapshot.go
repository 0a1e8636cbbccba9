package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	Layer   string `json:"layer"`
	Seed    int64  `json:"seed"`
}

type CellV1 struct {
	X, Y, Z int32
}

// GridV1 is a sampled grid as written to disk: a JSON header line followed
// by a gob body, all zstd compressed.
type GridV1 struct {
	Header Header `json:"header"`

	Kind    string `json:"kind"`
	Octaves []int  `json:"octaves,omitempty"`
	X0      int    `json:"x0"`
	Z0      int    `json:"z0"`
	Y       int    `json:"y"`
	W       int    `json:"w"`
	H       int    `json:"h"`
	Step    int    `json:"step"`

	Values []float64 `json:"values"`
	Cells  []CellV1  `json:"cells,omitempty"`
	Digest [32]byte  `json:"digest"`
}

func WriteGrid(path string, g GridV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	if g.Header.Version == 0 {
		g.Header.Version = Version
	}
	hb, _ := json.Marshal(g.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&g); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

// ReadHeader decodes only the leading header line.
func ReadHeader(path string) (Header, error) {
	var h Header
	f, err := os.Open(path)
	if err != nil {
		return h, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return h, err
	}
	defer dec.Close()

	line, err := bufio.NewReader(dec).ReadBytes('\n')
	if err != nil {
		return h, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &h); err != nil {
		return h, fmt.Errorf("decode header: %w", err)
	}
	return h, nil
}

func ReadGrid(path string) (GridV1, error) {
	var g GridV1
	f, err := os.Open(path)
	if err != nil {
		return g, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return g, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// The gob body repeats the header.
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&g); err != nil {
		return g, fmt.Errorf("gob decode: %w", err)
	}
	if g.Header.Version != Version {
		return g, fmt.Errorf("unsupported grid version %d", g.Header.Version)
	}
	if len(g.Values) != g.W*g.H {
		return g, fmt.Errorf("grid values length mismatch: got %d want %d", len(g.Values), g.W*g.H)
	}
	return g, nil
}
