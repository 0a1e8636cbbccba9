package noise

import (
	"math"

	"worldnoise/internal/mathx"
)

// Key3 is a 128-bit packed coordinate: Hi holds x, Lo holds y<<32|z.
type Key3 struct {
	Hi, Lo uint64
}

func low32(v float64) uint64 {
	return uint64(uint32(mathx.ToInt64(v)))
}

// PackKey2 packs the truncated low 32 bits of x and z as x<<32|z.
func PackKey2(x, z float64) uint64 {
	return low32(x)<<32 | low32(z)
}

func PackKey3(x, y, z float64) Key3 {
	return Key3{Hi: low32(x), Lo: low32(y)<<32 | low32(z)}
}

// Stats counts cache lookups. Misses equal the number of evaluations.
type Stats struct {
	Hits   uint64
	Misses uint64
	Size   int
}

// sampleCache never evicts. A stored math.MaxFloat64 reads as a miss.
type sampleCache[K comparable] struct {
	m      map[K]float64
	hits   uint64
	misses uint64
}

func newSampleCache[K comparable](capacity int) *sampleCache[K] {
	return &sampleCache[K]{m: make(map[K]float64, capacity)}
}

func (c *sampleCache[K]) get(k K, eval func() float64) float64 {
	if v, ok := c.m[k]; ok && v != math.MaxFloat64 {
		c.hits++
		return v
	}
	c.misses++
	v := eval()
	c.m[k] = v
	return v
}

func (c *sampleCache[K]) stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses, Size: len(c.m)}
}
