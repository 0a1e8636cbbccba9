package voronoi

import "worldnoise/internal/mathx"

// Cell is an integer lattice position.
type Cell struct {
	X, Y, Z int32
}

// Voronoi maps a block position onto one of the eight surrounding coarse
// cells, jittered by a hash of the world seed. Results are memoized and the
// cache is never evicted; it is not safe for concurrent use.
type Voronoi struct {
	seed  int64
	cache map[key]packed

	hits   uint64
	misses uint64
}

// key and packed mirror the 128-bit x<<64 | y<<32 | z layout.
type key struct{ hi, lo uint64 }
type packed key

func pack(x, y, z int32) key {
	return key{hi: uint64(uint32(x)), lo: uint64(uint32(y))<<32 | uint64(uint32(z))}
}

func (p packed) cell() Cell {
	return Cell{X: int32(uint32(p.hi)), Y: int32(uint32(p.lo >> 32)), Z: int32(uint32(p.lo))}
}

func New(worldSeed int64) *Voronoi {
	return &Voronoi{seed: worldSeed, cache: map[key]packed{}}
}

func (v *Voronoi) Seed() int64 { return v.seed }

// Stats reports cache hits, misses and entries.
func (v *Voronoi) Stats() (hits, misses uint64, size int) {
	return v.hits, v.misses, len(v.cache)
}

// Next is one step of the multiply-add hash chain.
func Next(state, salt int64) int64 {
	return state*(state*6364136223846793005+1442695040888963407) + salt
}

// FuzzyPosition returns the jittered coarse cell for block (x, y, z).
func (v *Voronoi) FuzzyPosition(x, y, z int32) Cell {
	k := pack(x, y, z)
	if p, ok := v.cache[k]; ok {
		v.hits++
		return p.cell()
	}
	v.misses++
	c := v.fuzzyPosition(x, y, z)
	v.cache[k] = packed(pack(c.X, c.Y, c.Z))
	return c
}

// Candidates lists the eight cells FuzzyPosition can return for (x, y, z),
// in scan order.
func Candidates(x, y, z int32) [8]Cell {
	rx, ry, rz := (x-2)>>2, (y-2)>>2, (z-2)>>2
	var out [8]Cell
	for i := range out {
		out[i] = corner(i, rx, ry, rz)
	}
	return out
}

func corner(i int, rx, ry, rz int32) Cell {
	c := Cell{X: rx, Y: ry, Z: rz}
	if i&4 != 0 {
		c.X++
	}
	if i&2 != 0 {
		c.Y++
	}
	if i&1 != 0 {
		c.Z++
	}
	return c
}

func (v *Voronoi) fuzzyPosition(x, y, z int32) Cell {
	mx, my, mz := x-2, y-2, z-2
	rx, ry, rz := mx>>2, my>>2, mz>>2
	fx := float64(mx&3) / 4
	fy := float64(my&3) / 4
	fz := float64(mz&3) / 4

	var dist [8]float64
	for i := range dist {
		c := corner(i, rx, ry, rz)
		lx, ly, lz := fx, fy, fz
		if i&4 != 0 {
			lx--
		}
		if i&2 != 0 {
			ly--
		}
		if i&1 != 0 {
			lz--
		}
		dist[i] = v.fiddledDistance(c, lx, ly, lz)
	}

	// Linear scan; a later cell replaces the pick only when the current
	// pick compares strictly greater, so ties keep the earliest.
	best := 0
	bestDist := dist[0]
	for i := 1; i < len(dist); i++ {
		if !(bestDist > dist[i]) {
			continue
		}
		best = i
		bestDist = dist[i]
	}
	return corner(best, rx, ry, rz)
}

func (v *Voronoi) fiddledDistance(c Cell, lx, ly, lz float64) float64 {
	h := Next(v.seed, int64(c.X))
	h = Next(h, int64(c.Y))
	h = Next(h, int64(c.Z))
	h = Next(h, int64(c.X))
	h = Next(h, int64(c.Y))
	h = Next(h, int64(c.Z))
	ox := fiddle(h)
	h = Next(h, v.seed)
	oy := fiddle(h)
	h = Next(h, v.seed)
	oz := fiddle(h)
	return float64(sqr(lz+oz)) + float64(sqr(ly+oy)) + float64(sqr(lx+ox))
}

func fiddle(h int64) float64 {
	f := float64(mathx.FloorMod(h>>24, 1024)) / 1024
	return float64((f - 0.5) * 0.9)
}

func sqr(d float64) float64 { return d * d }
