package gocontrol

import (
	"fmt"
	"iter"
	"math/cmplx"

	"github.com/njchilds90/gocontrol/scalar"
)

// Eval evaluates g at s by Horner evaluation of num and den. Evaluating
// exactly at a pole is ErrEvaluationSingularity.
func (g *TransferFunction) Eval(s complex128) (complex128, error) {
	n, ok := g.num.EvalComplex(s)
	if !ok {
		return 0, fmt.Errorf("%w: cannot evaluate %s numerically", ErrSymbolic, g)
	}
	d, ok := g.den.EvalComplex(s)
	if !ok {
		return 0, fmt.Errorf("%w: cannot evaluate %s numerically", ErrSymbolic, g)
	}
	if d == 0 {
		return 0, fmt.Errorf("%w: %s = %v", ErrEvaluationSingularity, g.Var(), s)
	}
	return n / d, nil
}

// EvalScalar evaluates g at a numeric or symbolic point.
func (g *TransferFunction) EvalScalar(s scalar.Scalar) (scalar.Scalar, error) {
	if !finite(s) {
		return nil, fmt.Errorf("%w: %s = %s is not finite", ErrUnsupportedOperand, g.Var(), s)
	}
	d := g.den.Eval(s)
	if d.IsZero() {
		return nil, fmt.Errorf("%w: %s = %s", ErrEvaluationSingularity, g.Var(), s)
	}
	v, err := g.num.Eval(s).Quo(d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvaluationSingularity, err)
	}
	return v.Simplify(), nil
}

// Response evaluates g at every point. The sequence is lazy and can be
// ranged over any number of times. On the first failure it yields the error
// once and stops.
func (g *TransferFunction) Response(points []complex128) iter.Seq2[complex128, error] {
	return func(yield func(complex128, error) bool) {
		for _, s := range points {
			v, err := g.Eval(s)
			if err != nil {
				yield(0, err)
				return
			}
			if !yield(v, nil) {
				return
			}
		}
	}
}

// FrequencyPoints maps angular frequencies to evaluation points: s = jw for
// continuous time, z = exp(jwh) for discrete time.
func (g *TransferFunction) FrequencyPoints(omega []float64) []complex128 {
	pts := make([]complex128, len(omega))
	for i, w := range omega {
		if g.IsDiscrete() {
			pts[i] = cmplx.Exp(complex(0, w*g.dt))
		} else {
			pts[i] = complex(0, w)
		}
	}
	return pts
}

// FrequencyResponse is Response over FrequencyPoints(omega).
func (g *TransferFunction) FrequencyResponse(omega []float64) iter.Seq2[complex128, error] {
	return g.Response(g.FrequencyPoints(omega))
}
