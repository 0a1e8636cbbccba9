package log

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// SegmentLayout names one file per UTC hour.
const SegmentLayout = "2006-01-02-15"

// segmentWriter appends JSON lines to <dir>/<prefix>-<segment>.jsonl.zst and
// starts a new file whenever the clock crosses into another segment. It does
// no locking of its own.
type segmentWriter struct {
	dir    string
	prefix string

	seg   string
	file  *os.File
	zw    *zstd.Encoder
	buf   *bufio.Writer
	lines int
}

func newSegmentWriter(dir, prefix string) *segmentWriter {
	return &segmentWriter{dir: dir, prefix: prefix}
}

func (s *segmentWriter) path(seg string) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.jsonl.zst", s.prefix, seg))
}

func (s *segmentWriter) append(at time.Time, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if seg := at.UTC().Format(SegmentLayout); seg != s.seg {
		if err := s.open(seg); err != nil {
			return err
		}
	}
	line = append(line, '\n')
	if _, err := s.buf.Write(line); err != nil {
		return err
	}
	s.lines++
	// Flush to the encoder per line so a crash loses at most the open zstd block.
	return s.buf.Flush()
}

func (s *segmentWriter) open(seg string) error {
	if err := s.close(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path(seg), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		_ = f.Close()
		return err
	}
	s.seg, s.file, s.zw = seg, f, zw
	s.buf = bufio.NewWriterSize(zw, 64*1024)
	return nil
}

func (s *segmentWriter) close() error {
	if s.file == nil {
		return nil
	}
	flushErr := s.buf.Flush()
	zErr := s.zw.Close()
	fErr := s.file.Close()
	s.seg, s.file, s.zw, s.buf = "", nil, nil, nil
	for _, err := range []error{flushErr, zErr, fErr} {
		if err != nil {
			return err
		}
	}
	return nil
}
