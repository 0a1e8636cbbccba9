package javarand

// Random is the 48-bit linear congruential stream. It is not safe for
// concurrent use; draw order is part of the state callers depend on.
type Random struct {
	seed uint64
}

// New scrambles seed the way the stream's seeded constructor does.
func New(seed int64) *Random {
	r := &Random{}
	r.SetSeed(seed)
	return r
}

// NewRaw uses seed as the internal state without scrambling.
func NewRaw(seed uint64) *Random {
	return &Random{seed: seed & Mask}
}

func (r *Random) SetSeed(seed int64) {
	r.seed = (uint64(seed) ^ Multiplier) & Mask
}

func (r *Random) RawSeed() uint64 { return r.seed }

func (r *Random) SetRawSeed(seed uint64) { r.seed = seed & Mask }

// Clone returns an independent copy at the same position.
func (r *Random) Clone() *Random {
	c := *r
	return &c
}

func (r *Random) Next(bits uint) int32 {
	r.seed = Java.Apply(r.seed)
	return int32(int64(r.seed) >> (48 - bits))
}

// Skip applies a precomposed transition in O(1).
func (r *Random) Skip(l LCG) {
	r.seed = l.Apply(r.seed)
}

// Advance moves the stream forward by n draws.
func (r *Random) Advance(n uint64) {
	r.Skip(Java.Combine(n))
}

func (r *Random) NextInt() int32 {
	return r.Next(32)
}

// NextIntN returns a value in [0, n). n must be positive.
func (r *Random) NextIntN(n int32) int32 {
	if n <= 0 {
		panic("javarand: bound must be positive")
	}
	bits := r.Next(31)
	m := n - 1
	if n&m == 0 {
		return int32((int64(n) * int64(bits)) >> 31)
	}
	for u := bits; ; u = r.Next(31) {
		bits = u % n
		if u-bits+m >= 0 {
			return bits
		}
	}
}

func (r *Random) NextLong() int64 {
	hi := int64(r.Next(32))
	lo := int64(r.Next(32))
	return hi<<32 + lo
}

func (r *Random) NextBool() bool {
	return r.Next(1) != 0
}

func (r *Random) NextFloat() float32 {
	return float32(r.Next(24)) / float32(1<<24)
}

func (r *Random) NextDouble() float64 {
	hi := int64(r.Next(26))
	lo := int64(r.Next(27))
	return float64(hi<<27+lo) * (1.0 / (1 << 53))
}
