package javarand

const (
	Multiplier = 0x5DEECE66D
	Addend     = 0xB
	Mask       = (1 << 48) - 1
)

// LCG is one affine step seed' = seed*Multiplier + Addend (mod 2^48).
type LCG struct {
	Multiplier uint64
	Addend     uint64
}

// Java is the single step used by Random.
var Java = LCG{Multiplier: Multiplier, Addend: Addend}

// Skip262 advances a stream past one gradient kernel construction: three
// doubles (two draws each) and 256 bounded ints.
var Skip262 = Java.Combine(262)

// Combine returns the transition equal to applying l steps times.
func (l LCG) Combine(steps uint64) LCG {
	mult, add := uint64(1), uint64(0)
	im, ia := l.Multiplier, l.Addend
	for k := steps; k != 0; k >>= 1 {
		if k&1 != 0 {
			mult *= im
			add = im*add + ia
		}
		ia = (im + 1) * ia
		im *= im
	}
	return LCG{Multiplier: mult & Mask, Addend: add & Mask}
}

// Compose returns the transition that applies l and then next.
func (l LCG) Compose(next LCG) LCG {
	return LCG{
		Multiplier: (l.Multiplier * next.Multiplier) & Mask,
		Addend:     (next.Multiplier*l.Addend + next.Addend) & Mask,
	}
}

func (l LCG) Apply(seed uint64) uint64 {
	return (seed*l.Multiplier + l.Addend) & Mask
}
