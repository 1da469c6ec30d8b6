// Package scalar is the coefficient type shared by polynomials and transfer
// functions: either a numeric complex value or a symbolic expression.
//
// Operations between two Numeric values stay in complex128. As soon as a
// Symbolic operand is involved the operation is carried out on expressions,
// and a result that turns out to be a plain number collapses back to
// Numeric. The imaginary part of a numeric value is written with the symbol
// j when it has to enter an expression.
package scalar

import (
	"errors"
	"math"
	"math/cmplx"
	"strconv"

	"github.com/njchilds90/gocontrol/symbolic"
)

// ImagUnit is the symbol that stands for sqrt(-1) inside expressions.
const ImagUnit = "j"

// ErrDivisionByZero is returned by Quo when the divisor is zero.
var ErrDivisionByZero = errors.New("scalar: division by zero")

// Scalar is a numeric or symbolic coefficient. Values are immutable.
type Scalar interface {
	Add(other Scalar) Scalar
	Sub(other Scalar) Scalar
	Mul(other Scalar) Scalar
	Quo(other Scalar) (Scalar, error)
	Neg() Scalar
	// IsZero reports exact zero. Use the package-level IsZero for a
	// tolerance test.
	IsZero() bool
	// Complex returns the numeric value when there is one.
	Complex() (complex128, bool)
	Expr() symbolic.Expr
	Simplify() Scalar
	String() string
	LaTeX() string
}

// ============================================================
// Numeric
// ============================================================

type Numeric complex128

func Real(f float64) Numeric                  { return Numeric(complex(f, 0)) }
func Complex(c complex128) Numeric            { return Numeric(c) }
func Int(n int64) Numeric                     { return Numeric(complex(float64(n), 0)) }
func Zero() Numeric                           { return 0 }
func One() Numeric                            { return 1 }
func (n Numeric) Complex() (complex128, bool) { return complex128(n), true }
func (n Numeric) IsZero() bool                { return n == 0 }
func (n Numeric) Neg() Scalar                 { return -n }
func (n Numeric) Simplify() Scalar            { return n }

func (n Numeric) Add(other Scalar) Scalar {
	if o, ok := other.(Numeric); ok {
		return n + o
	}
	return FromExpr(symbolic.AddOf(n.Expr(), other.Expr()))
}

func (n Numeric) Sub(other Scalar) Scalar {
	if o, ok := other.(Numeric); ok {
		return n - o
	}
	return FromExpr(symbolic.AddOf(n.Expr(), symbolic.Neg(other.Expr())))
}

func (n Numeric) Mul(other Scalar) Scalar {
	if o, ok := other.(Numeric); ok {
		return n * o
	}
	return FromExpr(symbolic.MulOf(n.Expr(), other.Expr()))
}

func (n Numeric) Quo(other Scalar) (Scalar, error) {
	if other.IsZero() {
		return nil, ErrDivisionByZero
	}
	if o, ok := other.(Numeric); ok {
		return n / o, nil
	}
	return FromExpr(symbolic.Quo(n.Expr(), other.Expr())), nil
}

// Expr lifts n into an expression, re + im*j.
func (n Numeric) Expr() symbolic.Expr {
	re, im := real(n), imag(n)
	if im == 0 {
		return symbolic.NFloat(re)
	}
	return symbolic.AddOf(symbolic.NFloat(re), symbolic.MulOf(symbolic.NFloat(im), symbolic.S(ImagUnit)))
}

func (n Numeric) String() string {
	if imag(n) == 0 {
		return strconv.FormatFloat(real(n), 'g', -1, 64)
	}
	return strconv.FormatComplex(complex128(n), 'g', -1, 128)
}

func (n Numeric) LaTeX() string {
	if imag(n) == 0 {
		return n.String()
	}
	return n.Expr().LaTeX()
}

// IsFinite reports whether neither part of n is NaN or infinite.
func IsFinite(n Numeric) bool {
	re, im := real(n), imag(n)
	return !math.IsNaN(re) && !math.IsInf(re, 0) && !math.IsNaN(im) && !math.IsInf(im, 0)
}

// Abs returns |n|.
func (n Numeric) Abs() float64 { return cmplx.Abs(complex128(n)) }

// ============================================================
// Symbolic
// ============================================================

// Symbolic wraps an expression that does not reduce to a number.
type Symbolic struct{ e symbolic.Expr }

// Sym returns the symbol name as a Scalar.
func Sym(name string) Scalar { return Symbolic{e: symbolic.S(name)} }

// FromExpr wraps e, collapsing it to Numeric when it evaluates to a number
// (possibly complex, through j).
func FromExpr(e symbolic.Expr) Scalar {
	e = e.Simplify()
	if c, ok := evalComplex(e); ok {
		return Numeric(c)
	}
	return Symbolic{e: e}
}

func (s Symbolic) Expr() symbolic.Expr         { return s.e }
func (s Symbolic) String() string              { return s.e.String() }
func (s Symbolic) LaTeX() string               { return s.e.LaTeX() }
func (s Symbolic) IsZero() bool                { return symbolic.IsZero(s.e) }
func (s Symbolic) Complex() (complex128, bool) { return evalComplex(s.e) }
func (s Symbolic) Neg() Scalar                 { return FromExpr(symbolic.Neg(s.e)) }
func (s Symbolic) Simplify() Scalar            { return FromExpr(symbolic.Canonicalize(s.e)) }

// Subs replaces the bound symbols in x. Numeric values are returned
// unchanged.
func Subs(x Scalar, b symbolic.Bindings) Scalar {
	if s, ok := x.(Symbolic); ok {
		return FromExpr(symbolic.Subs(s.e, b))
	}
	return x
}

func (s Symbolic) Add(other Scalar) Scalar {
	return FromExpr(symbolic.AddOf(s.e, other.Expr()))
}

func (s Symbolic) Sub(other Scalar) Scalar {
	return FromExpr(symbolic.AddOf(s.e, symbolic.Neg(other.Expr())))
}

func (s Symbolic) Mul(other Scalar) Scalar {
	return FromExpr(symbolic.MulOf(s.e, other.Expr()))
}

func (s Symbolic) Quo(other Scalar) (Scalar, error) {
	if other.IsZero() {
		return nil, ErrDivisionByZero
	}
	// A numeric divisor is inverted numerically so that complex
	// denominators never enter the expression.
	if o, ok := other.(Numeric); ok {
		return s.Mul(1 / o), nil
	}
	return FromExpr(symbolic.Quo(s.e, other.Expr())), nil
}

// evalComplex evaluates e, treating j as the imaginary unit when it is the
// only free symbol and e is polynomial in it.
func evalComplex(e symbolic.Expr) (complex128, bool) {
	if v, ok := e.Eval(); ok {
		return complex(v.Float64(), 0), true
	}
	syms := symbolic.FreeSymbols(e)
	if _, hasJ := syms[ImagUnit]; !hasJ || len(syms) != 1 {
		return 0, false
	}
	if symbolic.Degree(e, ImagUnit) < 0 {
		return 0, false
	}
	var out complex128
	for k, c := range symbolic.PolyCoeffs(e, ImagUnit) {
		v, ok := c.Eval()
		if !ok {
			return 0, false
		}
		out += complex(v.Float64(), 0) * imagPow(k)
	}
	return out, true
}

func imagPow(k int) complex128 {
	switch k % 4 {
	case 1:
		return 1i
	case 2:
		return -1
	case 3:
		return -1i
	}
	return 1
}
