package noise

import (
	"worldnoise/internal/javarand"
	"worldnoise/internal/mathx"
)

// Noise is the gradient noise kernel: a random origin plus a byte permutation.
// It is immutable after construction.
type Noise struct {
	X0, Y0, Z0 float64

	perm [256]uint8
}

// NewNoise consumes exactly three doubles and 256 bounded ints from r.
func NewNoise(r *javarand.Random) *Noise {
	n := &Noise{
		X0: float64(r.NextDouble() * 256),
		Y0: float64(r.NextDouble() * 256),
		Z0: float64(r.NextDouble() * 256),
	}
	for i := range n.perm {
		n.perm[i] = uint8(i)
	}
	for i := 0; i < 256; i++ {
		j := i + int(r.NextIntN(int32(256-i)))
		n.perm[i], n.perm[j] = n.perm[j], n.perm[i]
	}
	return n
}

func (n *Noise) Origin() (float64, float64, float64) {
	return n.X0, n.Y0, n.Z0
}

// Permutation returns a copy of the shuffled table.
func (n *Noise) Permutation() [256]uint8 {
	return n.perm
}

// Lookup masks i to a byte and reads the permutation.
func (n *Noise) Lookup(i int32) int32 {
	return int32(n.perm[i&0xFF])
}

// Sample evaluates the kernel at (x, y, z). A non-zero yAmp snaps the local y
// offset down to a multiple of yAmp, capped by yMin.
func (n *Noise) Sample(x, y, z, yAmp, yMin float64) float64 {
	ox := x + n.X0
	oy := y + n.Y0
	oz := z + n.Z0
	ix := mathx.Floor(ox)
	iy := mathx.Floor(oy)
	iz := mathx.Floor(oz)
	fx := ox - float64(ix)
	fy := oy - float64(iy)
	fz := oz - float64(iz)

	var clamp float64
	if yAmp != 0 {
		m := mathx.Min(yMin, fy)
		clamp = float64(float64(mathx.Floor(m/yAmp)) * yAmp)
	}
	return n.sampleAndLerp(ix, iy, iz, fx, fy-clamp, fz, mathx.SmoothStep(fx), mathx.SmoothStep(fy), mathx.SmoothStep(fz))
}

func (n *Noise) sampleAndLerp(ix, iy, iz int32, x, y, z, sx, sy, sz float64) float64 {
	a := n.Lookup(ix) + iy
	aa := n.Lookup(a) + iz
	ab := n.Lookup(a+1) + iz
	b := n.Lookup(ix+1) + iy
	ba := n.Lookup(b) + iz
	bb := n.Lookup(b+1) + iz

	v000 := n.grad(aa, x, y, z)
	v100 := n.grad(ba, x-1, y, z)
	v010 := n.grad(ab, x, y-1, z)
	v110 := n.grad(bb, x-1, y-1, z)
	v001 := n.grad(aa+1, x, y, z-1)
	v101 := n.grad(ba+1, x-1, y, z-1)
	v011 := n.grad(ab+1, x, y-1, z-1)
	v111 := n.grad(bb+1, x-1, y-1, z-1)
	return mathx.Lerp3(sx, sy, sz, v000, v100, v010, v110, v001, v101, v011, v111)
}

func (n *Noise) grad(i int32, x, y, z float64) float64 {
	return mathx.Grad(uint8(n.Lookup(i)), x, y, z)
}
