package scalar

import (
	"math/cmplx"
	"sort"
	"strings"

	"github.com/njchilds90/gocontrol/symbolic"
)

// ApproxEqual reports whether a and b match within tol. Numeric values match
// when |a-b| < tol. Symbolic values match only when their difference
// simplifies to exactly zero; tol is ignored for them. A numeric value never
// matches a symbolic one.
func ApproxEqual(a, b Scalar, tol float64) bool {
	ac, aok := a.Complex()
	bc, bok := b.Complex()
	switch {
	case aok && bok:
		return cmplx.Abs(ac-bc) < tol
	case aok != bok:
		return false
	}
	return symbolic.IsZero(symbolic.AddOf(a.Expr(), symbolic.Neg(b.Expr())))
}

// IsZero reports whether a is within tol of zero.
func IsZero(a Scalar, tol float64) bool { return ApproxEqual(a, Zero(), tol) }

// IsNumeric reports whether every value in xs has a numeric value.
func IsNumeric(xs ...Scalar) bool {
	for _, x := range xs {
		if _, ok := x.Complex(); !ok {
			return false
		}
	}
	return true
}

// Compare orders scalars: numeric values by real then imaginary part, then
// symbolic values by their printed form.
func Compare(a, b Scalar) int {
	ac, aok := a.Complex()
	bc, bok := b.Complex()
	switch {
	case aok && bok:
		switch {
		case real(ac) < real(bc):
			return -1
		case real(ac) > real(bc):
			return 1
		case imag(ac) < imag(bc):
			return -1
		case imag(ac) > imag(bc):
			return 1
		}
		return 0
	case aok:
		return -1
	case bok:
		return 1
	}
	return strings.Compare(a.String(), b.String())
}

// Sort orders xs in place with Compare. The sort is stable.
func Sort(xs []Scalar) {
	sort.SliceStable(xs, func(i, j int) bool { return Compare(xs[i], xs[j]) < 0 })
}

// Mean returns the arithmetic mean of numeric values. For symbolic input the
// first value is returned, since equal symbolic values are identical.
func Mean(xs []Scalar) Scalar {
	if len(xs) == 0 {
		return Zero()
	}
	if !IsNumeric(xs...) {
		return xs[0]
	}
	var sum complex128
	for _, x := range xs {
		c, _ := x.Complex()
		sum += c
	}
	return Complex(sum / complex(float64(len(xs)), 0))
}
