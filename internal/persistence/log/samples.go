package log

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"
)

var ErrLoggerClosed = errors.New("sample logger closed")

// SampleEntry summarizes one sampled grid.
type SampleEntry struct {
	Time   string  `json:"time"`
	Layer  string  `json:"layer"`
	Kind   string  `json:"kind"`
	Seed   int64   `json:"seed"`
	X0     int     `json:"x0"`
	Z0     int     `json:"z0"`
	Y      int     `json:"y"`
	W      int     `json:"w"`
	H      int     `json:"h"`
	Step   int     `json:"step"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Digest string  `json:"digest"`
}

// SampleLogger records sampled grids as compressed JSONL, one hourly file
// series per layer: <dir>/samples/<layer>/<layer>-<hour>.jsonl.zst.
// Safe for concurrent use.
type SampleLogger struct {
	root string
	now  func() time.Time

	mu     sync.Mutex
	layers map[string]*segmentWriter
	closed bool
}

func NewSampleLogger(dir string) *SampleLogger {
	return &SampleLogger{
		root:   filepath.Join(dir, "samples"),
		now:    time.Now,
		layers: map[string]*segmentWriter{},
	}
}

func validLayerName(name string) bool {
	return name != "" && name != "." && name != ".." && !strings.ContainsAny(name, `/\`)
}

// WriteSample appends e to its layer's current file. An empty Time is
// stamped with the logger clock.
func (l *SampleLogger) WriteSample(e SampleEntry) error {
	if !validLayerName(e.Layer) {
		return fmt.Errorf("sample log: bad layer name %q", e.Layer)
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLoggerClosed
	}

	at := l.now()
	if e.Time == "" {
		e.Time = at.UTC().Format(time.RFC3339Nano)
	}
	w, ok := l.layers[e.Layer]
	if !ok {
		w = newSegmentWriter(filepath.Join(l.root, e.Layer), e.Layer)
		l.layers[e.Layer] = w
	}
	if err := w.append(at, e); err != nil {
		return fmt.Errorf("sample log %s: %w", e.Layer, err)
	}
	return nil
}

// Counts returns the entries written per layer since the logger was created.
func (l *SampleLogger) Counts() map[string]int {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]int, len(l.layers))
	for name, w := range l.layers {
		out[name] = w.lines
	}
	return out
}

// Close flushes and closes every layer file. Later writes fail.
func (l *SampleLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true

	names := make([]string, 0, len(l.layers))
	for name := range l.layers {
		names = append(names, name)
	}
	sort.Strings(names)
	var first error
	for _, name := range names {
		if err := l.layers[name].close(); err != nil && first == nil {
			first = fmt.Errorf("sample log %s: %w", name, err)
		}
	}
	return first
}
