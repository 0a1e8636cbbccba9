package noise

import (
	"worldnoise/internal/javarand"
	"worldnoise/internal/mathx"
)

const (
	F2 = 0.3660254037844386
	G2 = 0.21132486540518713
	F3 = 0.3333333333333333
	G3 = 0.16666666666666666
)

// SimplexNoise reuses one gradient kernel's origin and permutation for 2D and
// 3D simplex sampling. Both entry points are memoized.
type SimplexNoise struct {
	noise *Noise

	cache2d *sampleCache[uint64]
	cache3d *sampleCache[Key3]
}

func NewSimplexNoise(r *javarand.Random) *SimplexNoise {
	return &SimplexNoise{
		noise:   NewNoise(r),
		cache2d: newSampleCache[uint64](1024),
		cache3d: newSampleCache[Key3](1024),
	}
}

func (s *SimplexNoise) Coordinates() (float64, float64, float64) {
	return s.noise.Origin()
}

func (s *SimplexNoise) Stats() (s2, s3 Stats) {
	return s.cache2d.stats(), s.cache3d.stats()
}

func (s *SimplexNoise) lookup(i int32) int32 {
	return s.noise.Lookup(i)
}

func cornerNoise(g int32, x, y, z, falloff float64) float64 {
	c := falloff - float64(x*x) - float64(y*y) - float64(z*z)
	if c < 0 {
		return 0
	}
	c *= c
	return float64(c * c * mathx.Dot(mathx.Gradients[g], x, y, z))
}

func (s *SimplexNoise) Sample2D(x, z float64) float64 {
	return s.cache2d.get(PackKey2(x, z), func() float64 {
		return s.Eval2D(x, z)
	})
}

// Eval2D is the uncached 2D sample.
func (s *SimplexNoise) Eval2D(x, z float64) float64 {
	f := float64((x + z) * F2)
	i := mathx.Floor(x + f)
	j := mathx.Floor(z + f)
	g := float64(float64(i+j) * G2)
	x0 := x - (float64(i) - g)
	y0 := z - (float64(j) - g)

	// lower triangle walks x first, upper triangle walks z first
	var i1, j1 int32
	if x0 > y0 {
		i1 = 1
	} else {
		j1 = 1
	}
	x1 := x0 - float64(i1) + G2
	y1 := y0 - float64(j1) + G2
	x2 := x0 - 1 + 2*G2
	y2 := y0 - 1 + 2*G2

	ii := i & 0xFF
	jj := j & 0xFF
	gi0 := s.lookup(ii+s.lookup(jj)) % 12
	gi1 := s.lookup(ii+i1+s.lookup(jj+j1)) % 12
	gi2 := s.lookup(ii+1+s.lookup(jj+1)) % 12

	t0 := cornerNoise(gi0, x0, y0, 0, 0.5)
	t1 := cornerNoise(gi1, x1, y1, 0, 0.5)
	t2 := cornerNoise(gi2, x2, y2, 0, 0.5)
	return float64(70 * (t0 + t1 + t2))
}

func (s *SimplexNoise) Sample3D(x, y, z float64) float64 {
	return s.cache3d.get(PackKey3(x, y, z), func() float64 {
		return s.Eval3D(x, y, z)
	})
}

// Eval3D is the uncached 3D sample.
func (s *SimplexNoise) Eval3D(x, y, z float64) float64 {
	f := float64((x + y + z) * F3)
	i := mathx.Floor(x + f)
	j := mathx.Floor(y + f)
	k := mathx.Floor(z + f)
	g := float64(float64(i+j+k) * G3)
	x0 := x - (float64(i) - g)
	y0 := y - (float64(j) - g)
	z0 := z - (float64(k) - g)

	var i1, j1, k1, i2, j2, k2 int32
	if x0 >= y0 {
		switch {
		case y0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 1, 0
		case x0 >= z0:
			i1, j1, k1, i2, j2, k2 = 1, 0, 0, 1, 0, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 1, 0, 1
		}
	} else {
		switch {
		case y0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 0, 1, 0, 1, 1
		case x0 < z0:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 0, 1, 1
		default:
			i1, j1, k1, i2, j2, k2 = 0, 1, 0, 1, 1, 0
		}
	}

	x1 := x0 - float64(i1) + G3
	y1 := y0 - float64(j1) + G3
	z1 := z0 - float64(k1) + G3
	x2 := x0 - float64(i2) + F3
	y2 := y0 - float64(j2) + F3
	z2 := z0 - float64(k2) + F3
	x3 := x0 - 1 + 3*G3
	y3 := y0 - 1 + 3*G3
	z3 := z0 - 1 + 3*G3

	ii := i & 0xFF
	jj := j & 0xFF
	kk := k & 0xFF
	gi0 := s.lookup(ii+s.lookup(jj+s.lookup(kk))) % 12
	gi1 := s.lookup(ii+i1+s.lookup(jj+j1+s.lookup(kk+k1))) % 12
	gi2 := s.lookup(ii+i2+s.lookup(jj+j2+s.lookup(kk+k2))) % 12
	gi3 := s.lookup(ii+1+s.lookup(jj+1+s.lookup(kk+1))) % 12

	// 0.6 rather than 0.5: the field is discontinuous across simplex faces.
	t0 := cornerNoise(gi0, x0, y0, z0, 0.6)
	t1 := cornerNoise(gi1, x1, y1, z1, 0.6)
	t2 := cornerNoise(gi2, x2, y2, z2, 0.6)
	t3 := cornerNoise(gi3, x3, y3, z3, 0.6)
	return float64(32 * (t0 + t1 + t2 + t3))
}
