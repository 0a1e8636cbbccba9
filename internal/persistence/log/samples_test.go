package log

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
)

func readEntries(t *testing.T, path string) []SampleEntry {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	dec, err := zstd.NewReader(f)
	if err != nil {
		t.Fatalf("zstd reader: %v", err)
	}
	defer dec.Close()

	var out []SampleEntry
	sc := bufio.NewScanner(dec)
	for sc.Scan() {
		var e SampleEntry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		out = append(out, e)
	}
	if err := sc.Err(); err != nil {
		t.Fatalf("scan: %v", err)
	}
	return out
}

func TestSampleLoggerSplitsByLayer(t *testing.T) {
	dir := t.TempDir()
	l := NewSampleLogger(dir)
	fixed := time.Date(2026, 10, 19, 7, 30, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	for _, e := range []SampleEntry{
		{Layer: "terrain", Seed: 1, W: 4, H: 4, Digest: "aa"},
		{Layer: "cells", Seed: 1, W: 2, H: 2, Digest: "bb"},
		{Layer: "terrain", Seed: 2, W: 1, H: 1, Digest: "cc", Time: "given"},
	} {
		if err := l.WriteSample(e); err != nil {
			t.Fatalf("WriteSample: %v", err)
		}
	}
	if c := l.Counts(); c["terrain"] != 2 || c["cells"] != 1 {
		t.Fatalf("unexpected counts: %v", c)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	terrain := readEntries(t, filepath.Join(dir, "samples", "terrain", "terrain-2026-10-19-07.jsonl.zst"))
	if len(terrain) != 2 || terrain[0].Digest != "aa" || terrain[1].Seed != 2 {
		t.Fatalf("unexpected terrain entries: %+v", terrain)
	}
	if terrain[0].Time != fixed.Format(time.RFC3339Nano) || terrain[1].Time != "given" {
		t.Fatalf("unexpected timestamps: %q %q", terrain[0].Time, terrain[1].Time)
	}
	cells := readEntries(t, filepath.Join(dir, "samples", "cells", "cells-2026-10-19-07.jsonl.zst"))
	if len(cells) != 1 || cells[0].Digest != "bb" {
		t.Fatalf("unexpected cell entries: %+v", cells)
	}
}

func TestSampleLoggerRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	l := NewSampleLogger(dir)
	now := time.Date(2026, 1, 1, 0, 59, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	if err := l.WriteSample(SampleEntry{Layer: "x", Digest: "1"}); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	now = now.Add(2 * time.Minute)
	if err := l.WriteSample(SampleEntry{Layer: "x", Digest: "2"}); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for i, name := range []string{"x-2026-01-01-00.jsonl.zst", "x-2026-01-01-01.jsonl.zst"} {
		got := readEntries(t, filepath.Join(dir, "samples", "x", name))
		if len(got) != 1 || got[0].Digest != string(rune('1'+i)) {
			t.Fatalf("%s: unexpected entries %+v", name, got)
		}
	}
}

func TestSampleLoggerRejectsBadInput(t *testing.T) {
	l := NewSampleLogger(t.TempDir())
	for _, name := range []string{"", "..", "a/b", `a\b`} {
		if err := l.WriteSample(SampleEntry{Layer: name}); err == nil {
			t.Fatalf("expected error for layer %q", name)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.WriteSample(SampleEntry{Layer: "x"}); !errors.Is(err, ErrLoggerClosed) {
		t.Fatalf("expected ErrLoggerClosed, got %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}
