// Package poly implements polynomials over scalar.Scalar coefficients.
//
// Coefficients are stored highest degree first. Leading exact zeros are
// stripped on construction, so the zero polynomial is the single
// coefficient [0] with degree 0. Polynomials are immutable values.
package poly

import (
	"errors"
	"fmt"
	"strings"

	"github.com/njchilds90/gocontrol/scalar"
	"github.com/njchilds90/gocontrol/symbolic"
)

var (
	// ErrDivisionByZero is returned when dividing by the zero polynomial or a zero scalar.
	ErrDivisionByZero = errors.New("poly: division by zero")
	// ErrSymbolicRoots is returned for symbolic polynomials of degree above two.
	ErrSymbolicRoots = errors.New("poly: no closed-form roots for symbolic polynomial")
	// ErrNoConvergence is returned when a numeric root finder fails.
	ErrNoConvergence = errors.New("poly: root finding did not converge")
	// ErrNotPolynomial is returned when an expression is not polynomial in the variable.
	ErrNotPolynomial = errors.New("poly: expression is not a polynomial")
)

type Polynomial struct {
	c []scalar.Scalar
}

// New builds a polynomial from coefficients, highest degree first.
func New(coeffs ...scalar.Scalar) Polynomial {
	i := 0
	for i < len(coeffs)-1 && coeffs[i].IsZero() {
		i++
	}
	if len(coeffs) == 0 || (i == len(coeffs)-1 && coeffs[i].IsZero()) {
		return Polynomial{c: []scalar.Scalar{scalar.Zero()}}
	}
	c := make([]scalar.Scalar, len(coeffs)-i)
	copy(c, coeffs[i:])
	return Polynomial{c: c}
}

func FromFloats(coeffs ...float64) Polynomial {
	c := make([]scalar.Scalar, len(coeffs))
	for i, v := range coeffs {
		c[i] = scalar.Real(v)
	}
	return New(c...)
}

func FromComplex(coeffs ...complex128) Polynomial {
	c := make([]scalar.Scalar, len(coeffs))
	for i, v := range coeffs {
		c[i] = scalar.Complex(v)
	}
	return New(c...)
}

// FromRoots returns the monic polynomial with the given roots.
func FromRoots(roots ...scalar.Scalar) Polynomial {
	p := New(scalar.One())
	for _, r := range roots {
		p = p.Mul(New(scalar.One(), r.Neg()))
	}
	return p
}

// Const returns the constant polynomial k.
func Const(k scalar.Scalar) Polynomial { return New(k) }

func (p Polynomial) coeffs() []scalar.Scalar {
	if len(p.c) == 0 {
		return []scalar.Scalar{scalar.Zero()}
	}
	return p.c
}

// Coeffs returns a copy of the coefficients, highest degree first.
func (p Polynomial) Coeffs() []scalar.Scalar {
	c := p.coeffs()
	out := make([]scalar.Scalar, len(c))
	copy(out, c)
	return out
}

// Coeff returns the coefficient of s^k, zero when k is out of range.
func (p Polynomial) Coeff(k int) scalar.Scalar {
	c := p.coeffs()
	if k < 0 || k >= len(c) {
		return scalar.Zero()
	}
	return c[len(c)-1-k]
}

func (p Polynomial) Degree() int         { return len(p.coeffs()) - 1 }
func (p Polynomial) Lead() scalar.Scalar { return p.coeffs()[0] }
func (p Polynomial) IsZero() bool        { c := p.coeffs(); return len(c) == 1 && c[0].IsZero() }
func (p Polynomial) IsSymbolic() bool    { return !scalar.IsNumeric(p.coeffs()...) }

// ============================================================
// Arithmetic
// ============================================================

func (p Polynomial) Add(q Polynomial) Polynomial { return p.combine(q, false) }
func (p Polynomial) Sub(q Polynomial) Polynomial { return p.combine(q, true) }

func (p Polynomial) combine(q Polynomial, negate bool) Polynomial {
	a, b := p.coeffs(), q.coeffs()
	n := max(len(a), len(b))
	out := make([]scalar.Scalar, n)
	for i := range out {
		out[i] = scalar.Zero()
	}
	for i, v := range a {
		out[n-len(a)+i] = v
	}
	for i, v := range b {
		k := n - len(b) + i
		if negate {
			out[k] = out[k].Sub(v)
		} else {
			out[k] = out[k].Add(v)
		}
	}
	return New(out...)
}

func (p Polynomial) Mul(q Polynomial) Polynomial {
	a, b := p.coeffs(), q.coeffs()
	out := make([]scalar.Scalar, len(a)+len(b)-1)
	for i := range out {
		out[i] = scalar.Zero()
	}
	for i, x := range a {
		for j, y := range b {
			out[i+j] = out[i+j].Add(x.Mul(y))
		}
	}
	return New(out...)
}

// Scale multiplies every coefficient by k.
func (p Polynomial) Scale(k scalar.Scalar) Polynomial {
	c := p.coeffs()
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		out[i] = v.Mul(k)
	}
	return New(out...)
}

// Quo divides every coefficient by k.
func (p Polynomial) Quo(k scalar.Scalar) (Polynomial, error) {
	c := p.coeffs()
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		q, err := v.Quo(k)
		if err != nil {
			return Polynomial{}, fmt.Errorf("%w: %v", ErrDivisionByZero, err)
		}
		out[i] = q
	}
	return New(out...), nil
}

// Monic divides p by its leading coefficient.
func (p Polynomial) Monic() (Polynomial, error) {
	if p.IsZero() {
		return Polynomial{}, ErrDivisionByZero
	}
	return p.Quo(p.Lead())
}

// DivMod performs long division, returning q and r with p = q*d + r and
// deg r < deg d.
func (p Polynomial) DivMod(d Polynomial) (q, r Polynomial, err error) {
	if d.IsZero() {
		return Polynomial{}, Polynomial{}, ErrDivisionByZero
	}
	n, m := p.Degree(), d.Degree()
	if n < m || p.IsZero() {
		return New(scalar.Zero()), p, nil
	}
	rem := p.Coeffs()
	dc := d.coeffs()
	lead := d.Lead()
	quot := make([]scalar.Scalar, n-m+1)
	for i := 0; i <= n-m; i++ {
		coef, err := rem[i].Quo(lead)
		if err != nil {
			return Polynomial{}, Polynomial{}, fmt.Errorf("%w: %v", ErrDivisionByZero, err)
		}
		quot[i] = coef
		// rem[i] is eliminated by construction and never read again.
		for j := 1; j <= m; j++ {
			rem[i+j] = rem[i+j].Sub(coef.Mul(dc[j]))
		}
	}
	if m == 0 {
		return New(quot...), New(scalar.Zero()), nil
	}
	return New(quot...), New(rem[n-m+1:]...), nil
}

// Derivative returns dp/ds.
func (p Polynomial) Derivative() Polynomial {
	c := p.coeffs()
	n := len(c) - 1
	if n == 0 {
		return New(scalar.Zero())
	}
	out := make([]scalar.Scalar, n)
	for i := 0; i < n; i++ {
		out[i] = c[i].Mul(scalar.Int(int64(n - i)))
	}
	return New(out...)
}

// DerivativeN returns the k-th derivative.
func (p Polynomial) DerivativeN(k int) Polynomial {
	for i := 0; i < k; i++ {
		p = p.Derivative()
	}
	return p
}

// ============================================================
// Evaluation
// ============================================================

// Eval evaluates p at x with Horner's rule.
func (p Polynomial) Eval(x scalar.Scalar) scalar.Scalar {
	var out scalar.Scalar = scalar.Zero()
	for _, v := range p.coeffs() {
		out = out.Mul(x).Add(v)
	}
	return out
}

// EvalComplex evaluates a numeric polynomial at z. ok is false when some
// coefficient is symbolic.
func (p Polynomial) EvalComplex(z complex128) (complex128, bool) {
	var out complex128
	for _, v := range p.coeffs() {
		c, ok := v.Complex()
		if !ok {
			return 0, false
		}
		out = out*z + c
	}
	return out, true
}

// ============================================================
// Normalization
// ============================================================

// Simplify canonicalizes every symbolic coefficient.
func (p Polynomial) Simplify() Polynomial {
	c := p.coeffs()
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		out[i] = v.Simplify()
	}
	return New(out...)
}

// IsReal reports whether every coefficient is numeric with a zero
// imaginary part.
func (p Polynomial) IsReal() bool {
	for _, v := range p.coeffs() {
		z, ok := v.(scalar.Numeric)
		if !ok || imag(z) != 0 {
			return false
		}
	}
	return true
}

// RealPart drops the imaginary part of every numeric coefficient.
func (p Polynomial) RealPart() Polynomial {
	c := p.coeffs()
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		out[i] = v
		if z, ok := v.(scalar.Numeric); ok {
			out[i] = scalar.Real(real(z))
		}
	}
	return New(out...)
}

// IsFinite reports whether no numeric coefficient has a NaN or infinite
// part.
func (p Polynomial) IsFinite() bool {
	for _, v := range p.coeffs() {
		if z, ok := v.(scalar.Numeric); ok && !scalar.IsFinite(z) {
			return false
		}
	}
	return true
}

// Subs replaces the bound symbols in every coefficient.
func (p Polynomial) Subs(b symbolic.Bindings) Polynomial {
	c := p.coeffs()
	out := make([]scalar.Scalar, len(c))
	for i, v := range c {
		out[i] = scalar.Subs(v, b)
	}
	return New(out...)
}

// Equal reports coefficient-wise equality within tol.
func (p Polynomial) Equal(q Polynomial, tol float64) bool {
	a, b := p.coeffs(), q.coeffs()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !scalar.ApproxEqual(a[i], b[i], tol) {
			return false
		}
	}
	return true
}

// ============================================================
// Expressions and printing
// ============================================================

// Expr returns p as an expression in varName.
func (p Polynomial) Expr(varName string) symbolic.Expr {
	c := p.coeffs()
	n := len(c) - 1
	terms := make([]symbolic.Expr, 0, len(c))
	for i, v := range c {
		terms = append(terms, symbolic.MulOf(v.Expr(), symbolic.PowOf(symbolic.S(varName), symbolic.N(int64(n-i)))))
	}
	return symbolic.AddOf(terms...)
}

// FromExpr reads the coefficients of e in varName.
func FromExpr(e symbolic.Expr, varName string) (Polynomial, error) {
	deg := symbolic.Degree(e, varName)
	if deg < 0 {
		return Polynomial{}, fmt.Errorf("%w: %s in %s", ErrNotPolynomial, e, varName)
	}
	coeffs := symbolic.PolyCoeffs(e, varName)
	out := make([]scalar.Scalar, deg+1)
	for k := 0; k <= deg; k++ {
		if c, ok := coeffs[k]; ok {
			out[deg-k] = scalar.FromExpr(c)
		} else {
			out[deg-k] = scalar.Zero()
		}
	}
	return New(out...), nil
}

// String prints p in the variable s, e.g. "s^2 + 3*s + 2".
func (p Polynomial) String() string { return p.Format("s") }

// Format prints p in varName.
func (p Polynomial) Format(varName string) string {
	return p.render(varName, func(c scalar.Scalar) string { return c.String() }, "*", "^%d")
}

func (p Polynomial) LaTeX() string { return p.FormatLaTeX("s") }

// FormatLaTeX prints p in varName as LaTeX.
func (p Polynomial) FormatLaTeX(varName string) string {
	return p.render(varName, func(c scalar.Scalar) string { return c.LaTeX() }, " ", "^{%d}")
}

func (p Polynomial) render(varName string, coeff func(scalar.Scalar) string, mulSep, powFmt string) string {
	c := p.coeffs()
	n := len(c) - 1
	var parts []string
	for i, v := range c {
		k := n - i
		if v.IsZero() && len(c) > 1 {
			continue
		}
		pow := ""
		switch {
		case k == 1:
			pow = varName
		case k > 1:
			pow = varName + fmt.Sprintf(powFmt, k)
		}
		cs := coeff(v)
		if _, sym := v.(scalar.Symbolic); sym && strings.Contains(cs, " ") {
			cs = "(" + cs + ")"
		}
		switch {
		case pow == "":
			parts = append(parts, cs)
		case isOne(v):
			parts = append(parts, pow)
		default:
			parts = append(parts, cs+mulSep+pow)
		}
	}
	return strings.Join(parts, " + ")
}

func isOne(v scalar.Scalar) bool {
	c, ok := v.Complex()
	return ok && c == 1
}
