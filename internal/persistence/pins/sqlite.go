package pins

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Pin is one recorded sample. Bits holds the exact IEEE-754 pattern.
type Pin struct {
	Layer      string
	Kind       string
	Octaves    []int
	Seed       int64
	X, Y, Z    float64
	Bits       uint64
	RecordedAt string
}

func (p Pin) Value() float64 { return math.Float64frombits(p.Bits) }

// Mismatch is a pin whose recomputed value differs from the stored bits.
type Mismatch struct {
	Pin Pin
	Got float64
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS pins (
			layer TEXT NOT NULL,
			kind TEXT NOT NULL,
			octaves TEXT NOT NULL,
			seed INTEGER NOT NULL,
			x REAL NOT NULL,
			y REAL NOT NULL,
			z REAL NOT NULL,
			bits INTEGER NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (layer, seed, x, y, z)
		);`,
		`CREATE INDEX IF NOT EXISTS pins_layer_seed ON pins(layer, seed);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

func encodeOctaves(o []int) string {
	parts := make([]string, len(o))
	for i, v := range o {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

func decodeOctaves(s string) ([]int, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("octaves %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// Record inserts or replaces pins in one transaction.
func (s *Store) Record(ctx context.Context, pins ...Pin) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO pins(layer,kind,octaves,seed,x,y,z,bits,recorded_at) VALUES(?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	at := s.now().UTC().Format(time.RFC3339Nano)
	for _, p := range pins {
		if p.RecordedAt == "" {
			p.RecordedAt = at
		}
		if _, err := stmt.ExecContext(ctx, p.Layer, p.Kind, encodeOctaves(p.Octaves), p.Seed, p.X, p.Y, p.Z, int64(p.Bits), p.RecordedAt); err != nil {
			return fmt.Errorf("record pin %s@(%v,%v,%v): %w", p.Layer, p.X, p.Y, p.Z, err)
		}
	}
	return tx.Commit()
}

func scanPin(row interface{ Scan(...any) error }) (Pin, error) {
	var (
		p    Pin
		oct  string
		bits int64
	)
	if err := row.Scan(&p.Layer, &p.Kind, &oct, &p.Seed, &p.X, &p.Y, &p.Z, &bits, &p.RecordedAt); err != nil {
		return p, err
	}
	o, err := decodeOctaves(oct)
	if err != nil {
		return p, err
	}
	p.Octaves = o
	p.Bits = uint64(bits)
	return p, nil
}

const pinColumns = `layer,kind,octaves,seed,x,y,z,bits,recorded_at`

// Lookup returns the pin at one coordinate, if present.
func (s *Store) Lookup(ctx context.Context, layer string, seed int64, x, y, z float64) (Pin, bool, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pinColumns+` FROM pins WHERE layer=? AND seed=? AND x=? AND y=? AND z=?`, layer, seed, x, y, z)
	p, err := scanPin(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Pin{}, false, nil
	}
	if err != nil {
		return Pin{}, false, err
	}
	return p, true, nil
}

// List returns every pin for a layer and seed in coordinate order.
func (s *Store) List(ctx context.Context, layer string, seed int64) ([]Pin, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pinColumns+` FROM pins WHERE layer=? AND seed=? ORDER BY x,y,z`, layer, seed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Pin
	for rows.Next() {
		p, err := scanPin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Verify recomputes every pin for layer and seed and reports those whose bits
// differ.
func (s *Store) Verify(ctx context.Context, layer string, seed int64, sample func(x, y, z float64) float64) (checked int, mismatches []Mismatch, err error) {
	pins, err := s.List(ctx, layer, seed)
	if err != nil {
		return 0, nil, err
	}
	for _, p := range pins {
		if err := ctx.Err(); err != nil {
			return checked, mismatches, err
		}
		got := sample(p.X, p.Y, p.Z)
		checked++
		if math.Float64bits(got) != p.Bits {
			mismatches = append(mismatches, Mismatch{Pin: p, Got: got})
		}
	}
	return checked, mismatches, nil
}
