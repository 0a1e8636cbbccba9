package javarand

import "testing"

func TestNextIntMatchesReferenceStream(t *testing.T) {
	r := New(1)
	if got := r.NextInt(); got != -1155869325 {
		t.Fatalf("first NextInt: got %d", got)
	}
	if got := r.NextInt(); got != 431529176 {
		t.Fatalf("second NextInt: got %d", got)
	}
}

func TestNextIntNBounded(t *testing.T) {
	r := New(1)
	want := []int32{5, 8, 7, 0, 6, 6}
	bounds := []int32{10, 10, 10, 7, 7, 7}
	for i, n := range bounds {
		if got := r.NextIntN(n); got != want[i] {
			t.Fatalf("draw %d bound %d: got %d want %d", i, n, got, want[i])
		}
	}

	r = New(99)
	for i := 0; i < 1000; i++ {
		v := r.NextIntN(256 - int32(i%256))
		if v < 0 || v >= 256-int32(i%256) {
			t.Fatalf("out of range: %d", v)
		}
	}
}

func TestNextDouble(t *testing.T) {
	r := New(42)
	if got := r.NextDouble(); got != 0.7275636800328681 {
		t.Fatalf("first NextDouble: got %v", got)
	}
	if got := r.NextDouble(); got != 0.6832234717598454 {
		t.Fatalf("second NextDouble: got %v", got)
	}
}

func TestSeedScrambling(t *testing.T) {
	r := New(42)
	if r.RawSeed() != 25214903879 {
		t.Fatalf("raw seed: got %d", r.RawSeed())
	}
	r.Next(32)
	if r.RawSeed() != 204790973191750 {
		t.Fatalf("raw seed after draw: got %d", r.RawSeed())
	}

	raw := NewRaw(r.RawSeed())
	if raw.NextInt() != r.NextInt() {
		t.Fatalf("raw construction diverged")
	}
}

func TestSkip262Constant(t *testing.T) {
	if Skip262.Multiplier != 253119540505593 || Skip262.Addend != 184089911826014 {
		t.Fatalf("unexpected skip constant: %+v", Skip262)
	}
}

func TestSkipMatchesSequentialDraws(t *testing.T) {
	a := New(5)
	for i := 0; i < 262; i++ {
		a.Next(32)
	}
	b := New(5)
	b.Skip(Skip262)
	if a.RawSeed() != b.RawSeed() {
		t.Fatalf("skip mismatch: %d vs %d", a.RawSeed(), b.RawSeed())
	}

	c := New(5)
	c.Advance(262)
	if c.RawSeed() != a.RawSeed() {
		t.Fatalf("advance mismatch: %d vs %d", c.RawSeed(), a.RawSeed())
	}
}

func TestCompose(t *testing.T) {
	ab := Java.Combine(100).Compose(Java.Combine(162))
	if ab != Skip262 {
		t.Fatalf("compose: got %+v want %+v", ab, Skip262)
	}
	if Java.Combine(1) != Java {
		t.Fatalf("combine(1) should be identity step")
	}
	if (Java.Combine(0) != LCG{Multiplier: 1}) {
		t.Fatalf("combine(0) should be identity")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(7)
	b := a.Clone()
	a.NextLong()
	if a.RawSeed() == b.RawSeed() {
		t.Fatalf("clone shares state")
	}
	b.NextLong()
	if a.RawSeed() != b.RawSeed() {
		t.Fatalf("clone diverged")
	}
}
