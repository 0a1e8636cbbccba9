package noise

import (
	"testing"

	"worldnoise/internal/javarand"
)

func TestSimplexCoordinates(t *testing.T) {
	s := NewSimplexNoise(javarand.New(12))
	x, y, z := s.Coordinates()
	requireBits(t, "x0", x, 186.85255836421052)
	requireBits(t, "y0", y, 70.41770637313917)
	requireBits(t, "z0", z, 123.13254179103222)
}

func TestSimplexReferenceValues(t *testing.T) {
	s := NewSimplexNoise(javarand.New(12))
	requireBits(t, "2d", s.Sample2D(0.5, 100), 0.8331228771221665)
	requireBits(t, "3d", s.Sample3D(0.5, 0.6, 100), -0.047980544000000055)
	requireBits(t, "2d negative", s.Sample2D(-12.5, 7.25), -0.11838139363548726)
	requireBits(t, "3d negative", s.Sample3D(-3.5, 10.25, 4.75), 0.16266674382716123)
}

func TestSimplexCacheStable(t *testing.T) {
	s := NewSimplexNoise(javarand.New(12))
	a := s.Sample2D(0.5, 100)
	b := s.Sample2D(0.5, 100)
	c := s.Sample3D(0.5, 0.6, 100)
	d := s.Sample3D(0.5, 0.6, 100)
	if a != b || c != d {
		t.Fatalf("repeated samples differ")
	}
	s2, s3 := s.Stats()
	if s2.Misses != 1 || s2.Hits != 1 || s3.Misses != 1 || s3.Hits != 1 {
		t.Fatalf("unexpected stats: %+v %+v", s2, s3)
	}
	if a != s.Eval2D(0.5, 100) || c != s.Eval3D(0.5, 0.6, 100) {
		t.Fatalf("cached value differs from direct evaluation")
	}
}

func TestSimplexBounded(t *testing.T) {
	s := NewSimplexNoise(javarand.New(4))
	for i := 0; i < 200; i++ {
		x := float64(i)*0.37 - 20
		z := float64(i)*-0.61 + 9
		if v := s.Eval2D(x, z); v < -1.01 || v > 1.01 {
			t.Fatalf("2d sample out of range at %v,%v: %v", x, z, v)
		}
	}
}
