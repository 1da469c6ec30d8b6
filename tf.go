package gocontrol

import (
	"fmt"
	"strconv"

	"github.com/njchilds90/gocontrol/poly"
	"github.com/njchilds90/gocontrol/scalar"
	"github.com/njchilds90/gocontrol/symbolic"
	"go.uber.org/zap"
)

// TransferFunction is an immutable rational transfer function.
//
// num and den always agree with the zero/pole/gain form:
// num = k*prod(s-z), den = prod(s-p), and no zero matches a pole within tol.
type TransferFunction struct {
	num, den   poly.Polynomial
	z, p       []scalar.Scalar
	k          scalar.Scalar
	dt         float64
	tol        float64
	log        *zap.Logger
	degenerate bool
}

// Properness classifies the relative degrees of num and den.
type Properness int

const (
	StrictlyProper Properness = iota
	Semiproper
	Improper
)

func (p Properness) String() string {
	switch p {
	case StrictlyProper:
		return "strictly proper"
	case Semiproper:
		return "semiproper"
	}
	return "improper"
}

// ============================================================
// Constructors
// ============================================================

// New builds num/den. The denominator is made monic, the roots of both
// polynomials are computed and common roots are cancelled.
func New(num, den poly.Polynomial, opts ...Option) (*TransferFunction, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	return construct(num, den, nil, nil, s)
}

// FromPolynomial builds num/1.
func FromPolynomial(num poly.Polynomial, opts ...Option) (*TransferFunction, error) {
	return New(num, poly.Const(scalar.One()), opts...)
}

// FromCoeffs builds a transfer function from real coefficients, highest
// degree first.
func FromCoeffs(num, den []float64, opts ...Option) (*TransferFunction, error) {
	return New(poly.FromFloats(num...), poly.FromFloats(den...), opts...)
}

// FromZPK builds k*prod(s-z)/prod(s-p).
func FromZPK(z, p []scalar.Scalar, k scalar.Scalar, opts ...Option) (*TransferFunction, error) {
	s, err := newSettings(opts)
	if err != nil {
		return nil, err
	}
	if !finite(z...) || !finite(p...) || !finite(k) {
		return nil, fmt.Errorf("%w: zeros, poles and gain must be finite", ErrInvalidConstruction)
	}
	if k.IsZero() {
		return zeroFunction(s), nil
	}
	zs := append(make([]scalar.Scalar, 0, len(z)), z...)
	ps := append(make([]scalar.Scalar, 0, len(p)), p...)
	num := poly.FromRoots(zs...).Scale(k)
	den := poly.FromRoots(ps...)
	return finish(num, den, zs, ps, k, s), nil
}

// FromExpr builds a transfer function from numerator and denominator
// expressions that are polynomial in varName.
func FromExpr(num, den symbolic.Expr, varName string, opts ...Option) (*TransferFunction, error) {
	n, err := poly.FromExpr(num, varName)
	if err != nil {
		return nil, fmt.Errorf("%w: numerator: %w", ErrInvalidConstruction, err)
	}
	d, err := poly.FromExpr(den, varName)
	if err != nil {
		return nil, fmt.Errorf("%w: denominator: %w", ErrInvalidConstruction, err)
	}
	return New(n, d, opts...)
}

// construct normalizes num/den and fills in whichever root list is nil by
// root finding before cancelling.
func construct(num, den poly.Polynomial, z, p []scalar.Scalar, s *settings) (*TransferFunction, error) {
	if den.IsZero() {
		return nil, fmt.Errorf("%w: denominator is zero", ErrInvalidConstruction)
	}
	if !num.IsFinite() || !den.IsFinite() {
		return nil, fmt.Errorf("%w: coefficients must be finite", ErrInvalidConstruction)
	}
	if num.IsZero() {
		return zeroFunction(s), nil
	}
	if lead := den.Lead(); !isOne(lead) {
		var err error
		if num, err = num.Quo(lead); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConstruction, err)
		}
		if den, err = den.Monic(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConstruction, err)
		}
	}
	var err error
	if p == nil {
		if p, err = den.Roots(); err != nil {
			return nil, rootError("denominator", err)
		}
	}
	if z == nil {
		if z, err = num.RootsWith(p); err != nil {
			return nil, rootError("numerator", err)
		}
	}
	return finish(num, den, z, p, num.Lead(), s), nil
}

func rootError(which string, err error) error {
	return fmt.Errorf("%w: %s roots: %w", ErrSymbolic, which, err)
}

// finish runs cancellation on a consistent (num, den, z, p, k) and returns
// the final value.
//
// For real num and den, cancelling one member of a conjugate cluster leaves
// imaginary round-off in the rebuilt polynomials. Those are projected back
// onto the reals and their roots recomputed, until no pair matches.
func finish(num, den poly.Polynomial, z, p []scalar.Scalar, k scalar.Scalar, s *settings) *TransferFunction {
	realInput := num.IsReal() && den.IsReal()
	for len(z) > 0 && len(p) > 0 {
		var removed int
		z, p, removed = cancel(z, p, s.tol, s.log)
		if removed == 0 {
			break
		}
		num = poly.FromRoots(z...).Scale(k)
		den = poly.FromRoots(p...)
		if !realInput {
			break
		}
		num, den = num.RealPart(), den.RealPart()
		k = num.Lead()
		rp, err := den.Roots()
		if err != nil {
			break
		}
		rz, err := num.RootsWith(rp)
		if err != nil {
			break
		}
		z, p = rz, rp
	}
	if !num.IsSymbolic() && !den.IsSymbolic() && scalar.IsNumeric(z...) && scalar.IsNumeric(p...) {
		return &TransferFunction{num: num, den: den, z: z, p: p, k: k, dt: s.dt, tol: s.tol, log: s.log}
	}
	return &TransferFunction{
		num: num.Simplify(),
		den: den.Simplify(),
		z:   simplifyAll(z),
		p:   simplifyAll(p),
		k:   k.Simplify(),
		dt:  s.dt,
		tol: s.tol,
		log: s.log,
	}
}

// cancel strips tolerance-matched (zero, pole) pairs until none remain. Each
// pass removes the first match in zero order, then restarts the scan.
func cancel(z, p []scalar.Scalar, tol float64, log *zap.Logger) ([]scalar.Scalar, []scalar.Scalar, int) {
	z = append([]scalar.Scalar(nil), z...)
	p = append([]scalar.Scalar(nil), p...)
	removed := 0
	for {
		i, j, ok := firstMatch(z, p, tol)
		if !ok {
			return z, p, removed
		}
		log.Debug("cancelled pole/zero pair",
			zap.Stringer("zero", z[i]),
			zap.Stringer("pole", p[j]),
			zap.Float64("tol", tol),
		)
		z = append(z[:i], z[i+1:]...)
		p = append(p[:j], p[j+1:]...)
		removed++
	}
}

func firstMatch(z, p []scalar.Scalar, tol float64) (int, int, bool) {
	for i := range z {
		for j := range p {
			if scalar.ApproxEqual(z[i], p[j], tol) {
				return i, j, true
			}
		}
	}
	return 0, 0, false
}

func zeroFunction(s *settings) *TransferFunction {
	s.log.Info("degenerate simplification",
		zap.Error(fmt.Errorf("%w: numerator is zero, denominator forced to 1", ErrDegenerateSimplification)),
	)
	return &TransferFunction{
		num:        poly.Const(scalar.Zero()),
		den:        poly.Const(scalar.One()),
		k:          scalar.Zero(),
		dt:         s.dt,
		tol:        s.tol,
		log:        s.log,
		degenerate: true,
	}
}

func simplifyAll(xs []scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, len(xs))
	for i, x := range xs {
		out[i] = x.Simplify()
	}
	return out
}

func isOne(x scalar.Scalar) bool {
	c, ok := x.Complex()
	return ok && c == 1
}

func finite(xs ...scalar.Scalar) bool {
	for _, x := range xs {
		if n, ok := x.(scalar.Numeric); ok && !scalar.IsFinite(n) {
			return false
		}
	}
	return true
}

// ============================================================
// Parameters
// ============================================================

// Subs binds named coefficient parameters to values and rebuilds the
// function, so roots and cancellations follow the new coefficients. The
// imaginary unit cannot be bound.
func (g *TransferFunction) Subs(values map[string]scalar.Scalar) (*TransferFunction, error) {
	b := make(symbolic.Bindings, len(values))
	for name, v := range values {
		if name == scalar.ImagUnit {
			return nil, fmt.Errorf("%w: %s is the imaginary unit", ErrUnsupportedOperand, name)
		}
		if !finite(v) {
			return nil, fmt.Errorf("%w: %s = %s is not finite", ErrUnsupportedOperand, name, v)
		}
		b[name] = v.Expr()
	}
	if g.degenerate || !g.IsSymbolic() || len(b) == 0 {
		return g, nil
	}
	num, den := g.num.Subs(b), g.den.Subs(b)
	for _, c := range append(num.Coeffs(), den.Coeffs()...) {
		if !scalar.IsNumeric(c) && len(symbolic.FreeSymbols(c.Expr())) == 0 {
			return nil, fmt.Errorf("%w: coefficient %s is undefined for these values", ErrInvalidConstruction, c)
		}
	}
	return New(num, den, g.options()...)
}

// ============================================================
// Accessors
// ============================================================

func (g *TransferFunction) Num() poly.Polynomial   { return g.num }
func (g *TransferFunction) Den() poly.Polynomial   { return g.den }
func (g *TransferFunction) Zeros() []scalar.Scalar { return append([]scalar.Scalar(nil), g.z...) }
func (g *TransferFunction) Poles() []scalar.Scalar { return append([]scalar.Scalar(nil), g.p...) }
func (g *TransferFunction) Gain() scalar.Scalar    { return g.k }
func (g *TransferFunction) Timestep() float64      { return g.dt }
func (g *TransferFunction) IsDiscrete() bool       { return g.dt > 0 }
func (g *TransferFunction) Tolerance() float64     { return g.tol }
func (g *TransferFunction) IsZero() bool           { return g.num.IsZero() }

// Degenerate reports whether construction collapsed a zero numerator.
func (g *TransferFunction) Degenerate() bool { return g.degenerate }

// IsSymbolic reports whether any coefficient is symbolic.
func (g *TransferFunction) IsSymbolic() bool { return g.num.IsSymbolic() || g.den.IsSymbolic() }

func (g *TransferFunction) Properness() Properness {
	switch n, d := g.num.Degree(), g.den.Degree(); {
	case d > n:
		return StrictlyProper
	case d == n:
		return Semiproper
	}
	return Improper
}

// Equal reports whether g and h have the same timestep and coefficients
// within g's tolerance.
func (g *TransferFunction) Equal(h *TransferFunction) bool {
	if h == nil || g.dt != h.dt {
		return false
	}
	return g.num.Equal(h.num, g.tol) && g.den.Equal(h.den, g.tol)
}

// Var is the transform variable name: s, or z for discrete time.
func (g *TransferFunction) Var() string {
	if g.IsDiscrete() {
		return "z"
	}
	return "s"
}

func (g *TransferFunction) String() string {
	num := g.num.Format(g.Var())
	out := num
	if g.den.Degree() > 0 {
		if g.num.Degree() > 0 {
			num = "(" + num + ")"
		}
		out = num + "/(" + g.den.Format(g.Var()) + ")"
	}
	if g.IsDiscrete() {
		out += ", dt=" + strconv.FormatFloat(g.dt, 'g', -1, 64)
	}
	return out
}

func (g *TransferFunction) LaTeX() string {
	if g.den.Degree() == 0 {
		return g.num.FormatLaTeX(g.Var())
	}
	return `\frac{` + g.num.FormatLaTeX(g.Var()) + `}{` + g.den.FormatLaTeX(g.Var()) + `}`
}
