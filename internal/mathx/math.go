package mathx

import (
	"crypto/sha256"
	"encoding/binary"
	"math"
)

// WrapPeriod is the span coordinates are folded into before octave sampling.
const WrapPeriod = 33554432.0

// Gradients is the 16 entry direction table shared by the gradient and simplex
// kernels. Entries 12..15 repeat earlier directions.
var Gradients = [16][3]float64{
	{1, 1, 0},
	{-1, 1, 0},
	{1, -1, 0},
	{-1, -1, 0},
	{1, 0, 1},
	{-1, 0, 1},
	{1, 0, -1},
	{-1, 0, -1},
	{0, 1, 1},
	{0, -1, 1},
	{0, 1, -1},
	{0, -1, -1},
	{1, 1, 0},
	{0, -1, 1},
	{-1, 1, 0},
	{0, -1, -1},
}

// ToInt32 converts like a saturating integer cast: NaN is 0 and out of range
// values clamp to the int32 bounds.
func ToInt32(d float64) int32 {
	switch {
	case d != d:
		return 0
	case d >= math.MaxInt32:
		return math.MaxInt32
	case d <= math.MinInt32:
		return math.MinInt32
	}
	return int32(d)
}

// ToInt64 is the int64 counterpart of ToInt32.
func ToInt64(d float64) int64 {
	switch {
	case d != d:
		return 0
	case d >= 9.223372036854775807e18:
		return math.MaxInt64
	case d <= -9.223372036854775808e18:
		return math.MinInt64
	}
	return int64(d)
}

// Floor is a saturating cast followed by a decrement when the cast rounded
// up. Below MinInt32 the decrement wraps to MaxInt32, as the legacy cast does.
func Floor(x float64) int32 {
	i := ToInt32(x)
	if x < float64(i) {
		return i - 1
	}
	return i
}

// Lfloor is the int64 Floor, with the same wrap below MinInt64.
func Lfloor(x float64) int64 {
	i := ToInt64(x)
	if x < float64(i) {
		return i - 1
	}
	return i
}

// Modf splits x into its floor and the non-negative remainder.
func Modf(x float64) (float64, float64) {
	i := math.Floor(x)
	return i, x - i
}

func FloorMod(a, b int64) int64 {
	// b > 0
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}

func FloorDiv(a, b int64) int64 {
	// b > 0
	q := a / b
	if a%b < 0 {
		q--
	}
	return q
}

// Mod is the float remainder with the sign of b.
func Mod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m
}

// Wrap folds v into [-WrapPeriod/2, WrapPeriod/2) to bound precision loss at
// far coordinates.
func Wrap(v float64) float64 {
	n := float64(Lfloor(v/WrapPeriod + 0.5))
	return v - float64(n*WrapPeriod)
}

func Dot(g [3]float64, x, y, z float64) float64 {
	return float64(g[0]*x) + float64(g[1]*y) + float64(g[2]*z)
}

func Grad(hash uint8, x, y, z float64) float64 {
	return Dot(Gradients[hash&0xF], x, y, z)
}

func Lerp(t, v0, v1 float64) float64 {
	return v0 + float64(t*(v1-v0))
}

// LerpPrecise returns exactly v1 at t == 1 but is not used on the sampling path.
func LerpPrecise(t, v0, v1 float64) float64 {
	return float64((1-t)*v0) + float64(t*v1)
}

func Lerp2(dx, dy, v00, v10, v01, v11 float64) float64 {
	return Lerp(dy, Lerp(dx, v00, v10), Lerp(dx, v01, v11))
}

func Lerp3(dx, dy, dz, v000, v100, v010, v110, v001, v101, v011, v111 float64) float64 {
	return Lerp(dz, Lerp2(dx, dy, v000, v100, v010, v110), Lerp2(dx, dy, v001, v101, v011, v111))
}

// SmoothStep is the quintic fade t^3(t(6t-15)+10).
func SmoothStep(t float64) float64 {
	a := float64(t*6) - 15
	b := float64(t*a) + 10
	return float64(t * t * t * b)
}

// SmoothStepFast is the cubic fade t^2(3-2t). It does not match SmoothStep.
func SmoothStepFast(t float64) float64 {
	return float64(t * t * (3 - float64(2*t)))
}

// Min returns b only when b < a, so an unordered comparison keeps a.
func Min(a, b float64) float64 {
	if b < a {
		return b
	}
	return a
}

// Max returns b only when b > a, so an unordered comparison keeps a.
func Max(a, b float64) float64 {
	if b > a {
		return b
	}
	return a
}

func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	return Min(v, hi)
}

// HashSeed digests a world seed with SHA-256 over its little-endian bytes and
// returns the first eight digest bytes as a little-endian int64.
func HashSeed(seed int64) int64 {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(seed))
	sum := sha256.Sum256(b[:])
	return int64(binary.LittleEndian.Uint64(sum[:8]))
}
