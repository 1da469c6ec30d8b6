package gocontrol

import (
	"fmt"

	"github.com/njchilds90/gocontrol/poly"
	"github.com/njchilds90/gocontrol/scalar"
	"github.com/njchilds90/gocontrol/symbolic"
)

// Coerce converts v into a transfer function. Accepted operands are
// *TransferFunction (returned unchanged), scalar.Scalar, poly.Polynomial,
// symbolic.Expr, []float64 and []complex128 coefficient slices (highest
// degree first), float64, int and complex128. Non-transfer-function operands
// become v/1.
func Coerce(v any, opts ...Option) (*TransferFunction, error) {
	var num poly.Polynomial
	switch x := v.(type) {
	case *TransferFunction:
		if x == nil {
			return nil, fmt.Errorf("%w: nil transfer function", ErrUnsupportedOperand)
		}
		return x, nil
	case scalar.Scalar:
		num = poly.Const(x)
	case poly.Polynomial:
		num = x
	case symbolic.Expr:
		num = poly.Const(scalar.FromExpr(x))
	case []float64:
		num = poly.FromFloats(x...)
	case []complex128:
		num = poly.FromComplex(x...)
	case float64:
		num = poly.FromFloats(x)
	case int:
		num = poly.Const(scalar.Int(int64(x)))
	case complex128:
		num = poly.FromComplex(x)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedOperand, v)
	}
	return FromPolynomial(num, opts...)
}

// Add returns g + other.
func (g *TransferFunction) Add(other any) (*TransferFunction, error) {
	h, s, err := g.operand(other)
	if err != nil {
		return nil, err
	}
	num := g.num.Mul(h.den).Add(h.num.Mul(g.den))
	return construct(num, g.den.Mul(h.den), nil, join(g.p, h.p), s)
}

// Sub returns g - other.
func (g *TransferFunction) Sub(other any) (*TransferFunction, error) {
	h, s, err := g.operand(other)
	if err != nil {
		return nil, err
	}
	num := g.num.Mul(h.den).Sub(h.num.Mul(g.den))
	return construct(num, g.den.Mul(h.den), nil, join(g.p, h.p), s)
}

// Mul returns g * other. The roots of the product are the roots of the
// factors, so they are carried over instead of recomputed.
func (g *TransferFunction) Mul(other any) (*TransferFunction, error) {
	h, s, err := g.operand(other)
	if err != nil {
		return nil, err
	}
	if g.IsZero() || h.IsZero() {
		return zeroFunction(s), nil
	}
	return construct(g.num.Mul(h.num), g.den.Mul(h.den), join(g.z, h.z), join(g.p, h.p), s)
}

// Div returns g / other. Dividing by the zero function is
// ErrInvalidConstruction.
func (g *TransferFunction) Div(other any) (*TransferFunction, error) {
	h, s, err := g.operand(other)
	if err != nil {
		return nil, err
	}
	if h.IsZero() {
		return nil, fmt.Errorf("%w: division by the zero transfer function", ErrInvalidConstruction)
	}
	if g.IsZero() {
		return zeroFunction(s), nil
	}
	return construct(g.num.Mul(h.den), g.den.Mul(h.num), join(g.z, h.p), join(g.p, h.z), s)
}

// Neg returns -g.
func (g *TransferFunction) Neg() *TransferFunction {
	if g.IsZero() {
		return g
	}
	neg := *g
	neg.num = g.num.Scale(scalar.Int(-1))
	neg.k = g.k.Neg()
	return &neg
}

// Feedback returns the closed loop g/(1 + g*h) for the feedback path h.
func (g *TransferFunction) Feedback(h any) (*TransferFunction, error) {
	gh, err := g.Mul(h)
	if err != nil {
		return nil, err
	}
	loop, err := gh.Add(1)
	if err != nil {
		return nil, err
	}
	return g.Div(loop)
}

// operand coerces other with g's settings and checks timesteps.
func (g *TransferFunction) operand(other any) (*TransferFunction, *settings, error) {
	s := &settings{tol: g.tol, dt: g.dt, log: g.log}
	h, err := Coerce(other, g.options()...)
	if err != nil {
		return nil, nil, err
	}
	if h.dt != g.dt {
		return nil, nil, fmt.Errorf("%w: %v and %v", ErrIncompatibleTimestep, g.dt, h.dt)
	}
	return h, s, nil
}

// join concatenates root lists into a new non-nil slice.
func join(a, b []scalar.Scalar) []scalar.Scalar {
	out := make([]scalar.Scalar, 0, len(a)+len(b))
	return append(append(out, a...), b...)
}

// ============================================================
// Package-level operators
// ============================================================

// Add returns a + b for any operands Coerce accepts. A plain operand takes
// the settings of the transfer-function operand.
func Add(a, b any) (*TransferFunction, error) {
	return binary(a, b, (*TransferFunction).Add)
}

// Sub returns a - b.
func Sub(a, b any) (*TransferFunction, error) {
	return binary(a, b, (*TransferFunction).Sub)
}

// Mul returns a * b.
func Mul(a, b any) (*TransferFunction, error) {
	return binary(a, b, (*TransferFunction).Mul)
}

// Div returns a / b.
func Div(a, b any) (*TransferFunction, error) {
	return binary(a, b, (*TransferFunction).Div)
}

func binary(a, b any, op func(*TransferFunction, any) (*TransferFunction, error)) (*TransferFunction, error) {
	var opts []Option
	if h, ok := b.(*TransferFunction); ok && h != nil {
		opts = h.options()
	}
	g, err := Coerce(a, opts...)
	if err != nil {
		return nil, err
	}
	return op(g, b)
}
