package poly

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/njchilds90/gocontrol/scalar"
	"github.com/njchilds90/gocontrol/symbolic"
	"gonum.org/v1/gonum/mat"
)

// Roots returns the roots of p with multiplicity. Numeric roots are sorted
// by real part, then imaginary part. Constant polynomials (including zero)
// have no roots.
func (p Polynomial) Roots() ([]scalar.Scalar, error) { return p.RootsWith(nil) }

// RootsWith is Roots with candidate roots. For a symbolic polynomial every
// candidate that is an exact root is divided out first, which leaves the
// closed-form solver with a lower degree. Numeric polynomials ignore the
// candidates.
func (p Polynomial) RootsWith(candidates []scalar.Scalar) ([]scalar.Scalar, error) {
	c := p.Coeffs()
	if len(c) <= 1 {
		return nil, nil
	}
	var roots []scalar.Scalar
	for len(c) > 1 && c[len(c)-1].IsZero() {
		c = c[:len(c)-1]
		roots = append(roots, scalar.Zero())
	}
	if len(c) > 1 {
		var (
			rest []scalar.Scalar
			err  error
		)
		if scalar.IsNumeric(c...) {
			rest, err = numericRoots(c)
		} else {
			rest, err = symbolicRoots(New(c...), candidates)
		}
		if err != nil {
			return nil, err
		}
		roots = append(roots, rest...)
	}
	if scalar.IsNumeric(roots...) {
		scalar.Sort(roots)
	}
	return roots, nil
}

// ============================================================
// Numeric roots
// ============================================================

func numericRoots(c []scalar.Scalar) ([]scalar.Scalar, error) {
	if len(c) < 2 {
		return nil, nil
	}
	z := make([]complex128, len(c))
	isReal := true
	for i, v := range c {
		z[i], _ = v.Complex()
		if imag(z[i]) != 0 {
			isReal = false
		}
	}
	var (
		vals []complex128
		err  error
	)
	switch {
	case len(z) == 2:
		vals = []complex128{-z[1] / z[0]}
	case isReal:
		vals, err = companionRoots(z)
	default:
		vals, err = durandKerner(z)
	}
	if err != nil {
		return nil, err
	}
	out := make([]scalar.Scalar, len(vals))
	for i, v := range vals {
		out[i] = scalar.Complex(v)
	}
	return out, nil
}

// companionRoots returns the eigenvalues of the companion matrix of a
// polynomial with real coefficients.
func companionRoots(z []complex128) ([]complex128, error) {
	n := len(z) - 1
	lead := real(z[0])
	cm := mat.NewDense(n, n, nil)
	for j := 0; j < n; j++ {
		cm.Set(0, j, -real(z[j+1])/lead)
	}
	for i := 1; i < n; i++ {
		cm.Set(i, i-1, 1)
	}
	var eig mat.Eigen
	if ok := eig.Factorize(cm, mat.EigenNone); !ok {
		return nil, fmt.Errorf("%w: eigen decomposition of %dx%d companion matrix", ErrNoConvergence, n, n)
	}
	return eig.Values(nil), nil
}

// durandKerner finds the roots of a polynomial with complex coefficients by
// simultaneous iteration.
func durandKerner(z []complex128) ([]complex128, error) {
	n := len(z) - 1
	monic := make([]complex128, n+1)
	for i, v := range z {
		monic[i] = v / z[0]
	}

	// Cauchy bound.
	var maxAbs float64
	for _, v := range monic[1:] {
		maxAbs = math.Max(maxAbs, cmplx.Abs(v))
	}
	radius := 1 + maxAbs

	roots := make([]complex128, n)
	for k := range roots {
		// Offset start angle so no initial guess sits on the real axis.
		theta := 2*math.Pi*float64(k)/float64(n) + 0.4
		roots[k] = cmplx.Rect(radius, theta)
	}

	const (
		tol     = 1e-12
		maxIter = 1000
	)
	maxDelta := 0.0
	for iter := 0; iter < maxIter; iter++ {
		maxDelta = 0.0
		for i, zi := range roots {
			den := complex(1, 0)
			for j, zj := range roots {
				if i == j {
					continue
				}
				d := zi - zj
				if d == 0 {
					d = complex(1e-9, 1e-9)
				}
				den *= d
			}
			pz := horner(monic, zi)
			dz := pz / den
			roots[i] = zi - dz
			maxDelta = math.Max(maxDelta, cmplx.Abs(dz))
		}
		if maxDelta < tol*radius {
			return roots, nil
		}
	}
	// Repeated roots converge linearly; accept them once the steps are small.
	if maxDelta < 1e-7*radius {
		return roots, nil
	}
	return nil, fmt.Errorf("%w: Durand-Kerner after %d iterations", ErrNoConvergence, maxIter)
}

func horner(c []complex128, z complex128) complex128 {
	var out complex128
	for _, v := range c {
		out = out*z + v
	}
	return out
}

// ============================================================
// Symbolic roots
// ============================================================

func symbolicRoots(p Polynomial, candidates []scalar.Scalar) ([]scalar.Scalar, error) {
	var roots []scalar.Scalar
	for _, cand := range candidates {
		for p.Degree() > 0 && p.Eval(cand).Simplify().IsZero() {
			q, _, err := p.DivMod(FromRoots(cand))
			if err != nil {
				return nil, err
			}
			p = q.Simplify()
			roots = append(roots, cand)
		}
	}

	c := p.coeffs()
	if scalar.IsNumeric(c...) {
		rest, err := numericRoots(c)
		if err != nil {
			return nil, err
		}
		return append(roots, rest...), nil
	}
	switch p.Degree() {
	case 0:
		return roots, nil
	case 1:
		res := symbolic.SolveLinear(c[0].Expr(), c[1].Expr())
		return appendSolutions(roots, res, p)
	case 2:
		res := symbolic.SolveQuadraticExact(c[0].Expr(), c[1].Expr(), c[2].Expr())
		return appendSolutions(roots, res, p)
	}
	return nil, fmt.Errorf("%w: degree %d", ErrSymbolicRoots, p.Degree())
}

func appendSolutions(roots []scalar.Scalar, res symbolic.SolveResult, p Polynomial) ([]scalar.Scalar, error) {
	if res.Error != "" {
		return nil, fmt.Errorf("%w: %s: %s", ErrSymbolicRoots, p, res.Error)
	}
	for _, s := range res.Solutions {
		roots = append(roots, scalar.FromExpr(symbolic.Canonicalize(s)))
	}
	return roots, nil
}
