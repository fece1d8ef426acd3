package scan

import (
	"math"
	"math/bits"
)

// epsScale fixes eps to four decimal digits before squaring.
const epsScale = 10000

// Threshold holds eps² as the exact ratio a/b.
type Threshold struct {
	a, b uint64
}

// NewThreshold converts eps into an exact ratio: a = round(eps·10⁴)²,
// b = 10⁸. eps must already be validated to lie in [0,1].
func NewThreshold(eps float64) Threshold {
	s := uint64(math.Round(eps * epsScale))
	return Threshold{a: s * s, b: epsScale * epsScale}
}

// Ratio returns the numerator and denominator of eps².
func (t Threshold) Ratio() (a, b uint64) {
	return t.a, t.b
}

// LowerBound returns the smallest common-neighbour count c for which two
// vertices with neighbourhood sizes du and dv are similar, that is the
// smallest c with c²·b ≥ du·dv·a. All arithmetic is exact.
func (t Threshold) LowerBound(du, dv int) int {
	if du <= 0 || dv <= 0 || t.a == 0 {
		return 0
	}
	p := uint64(du) * uint64(dv)
	hi, lo := bits.Mul64(p, t.a)
	// a ≤ b, so the quotient is at most p and hi < b.
	q, _ := bits.Div64(hi, lo, t.b)
	c := isqrt(q)
	chi, clo := bits.Mul64(c*c, t.b)
	if chi < hi || (chi == hi && clo < lo) {
		c++
	}
	return int(c)
}

// Satisfies reports whether cn common neighbours meet the threshold for
// neighbourhood sizes du and dv: cn²·b ≥ du·dv·a.
func (t Threshold) Satisfies(cn, du, dv int) bool {
	if cn < 0 {
		return false
	}
	if du <= 0 || dv <= 0 {
		return true
	}
	lhi, llo := bits.Mul64(uint64(cn)*uint64(cn), t.b)
	rhi, rlo := bits.Mul64(uint64(du)*uint64(dv), t.a)
	return lhi > rhi || (lhi == rhi && llo >= rlo)
}

// isqrt returns floor(sqrt(x)).
func isqrt(x uint64) uint64 {
	r := uint64(math.Sqrt(float64(x)))
	for r > 0 && squareExceeds(r, x) {
		r--
	}
	for !squareExceeds(r+1, x) {
		r++
	}
	return r
}

func squareExceeds(r, x uint64) bool {
	hi, lo := bits.Mul64(r, r)
	return hi != 0 || lo > x
}
