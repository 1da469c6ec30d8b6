package gocontrol

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/njchilds90/gocontrol/poly"
	"github.com/njchilds90/gocontrol/scalar"
)

// Expansion is a partial-fraction expansion
//
//	F(s) = sum_i Coeffs[i] / (s - Poles[i])^Powers[i]
//
// Terms with Powers[i] <= 0 are polynomial terms Coeffs[i] * s^(-Powers[i]);
// their pole is a placeholder 0. A genuine pole at the origin always has a
// positive power, so the power and not the pole value tells the two apart.
type Expansion struct {
	Poles  []scalar.Scalar
	Coeffs []scalar.Scalar
	Powers []int
	N      int
}

// Apart expands g using its own tolerance.
func (g *TransferFunction) Apart() (*Expansion, error) { return Apart(g, g.tol) }

// Apart computes the partial-fraction expansion of g. Poles are grouped by
// tolerance equality, each group contributing one term per power 1..m. The
// polynomial part of a semiproper or improper g is appended after the pole
// terms, highest power first. Terms whose coefficient is within tol of zero
// are dropped.
func Apart(g *TransferFunction, tol float64) (*Expansion, error) {
	exp := &Expansion{}
	if g.IsZero() {
		return exp, nil
	}

	rem := g.num
	var quot poly.Polynomial
	improper := g.num.Degree() >= g.den.Degree()
	if improper {
		var err error
		if quot, rem, err = g.num.DivMod(g.den); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConstruction, err)
		}
	}

	groups := groupPoles(g.p, tol)
	for gi, grp := range groups {
		var others []scalar.Scalar
		for gj, o := range groups {
			if gj != gi {
				others = append(others, o.members...)
			}
		}
		coeffs, err := residues(rem, poly.FromRoots(others...), grp.value, len(grp.members), tol)
		if err != nil {
			return nil, err
		}
		for k := 1; k <= len(grp.members); k++ {
			exp.add(grp.value, coeffs[k], k)
		}
	}

	if improper {
		n := quot.Degree()
		for i, c := range quot.Coeffs() {
			exp.add(scalar.Zero(), c, -(n - i))
		}
	}

	exp.compact(tol)
	return exp, nil
}

type poleGroup struct {
	value   scalar.Scalar
	members []scalar.Scalar
}

// groupPoles groups tolerance-equal poles in order of first appearance, so
// repeated poles need not be adjacent. Numeric groups are represented by
// their mean.
func groupPoles(p []scalar.Scalar, tol float64) []poleGroup {
	var groups []poleGroup
	for _, x := range p {
		placed := false
		for i := range groups {
			if scalar.ApproxEqual(groups[i].members[0], x, tol) {
				groups[i].members = append(groups[i].members, x)
				placed = true
				break
			}
		}
		if !placed {
			groups = append(groups, poleGroup{members: []scalar.Scalar{x}})
		}
	}
	for i := range groups {
		groups[i].value = scalar.Mean(groups[i].members)
	}
	return groups
}

// maxMultiplicity is the largest n with a finite float64 n!.
const maxMultiplicity = 170

// residues returns d[1..m] for the pole lambda of multiplicity m, where a is
// the denominator with every copy of (s - lambda) removed. Coefficients are
// computed from the highest power down:
//
//	d[k] = (rem^(q)(lambda)/q! - sum_{j=1..q} d[k+j] a^(j)(lambda)/j!) / a(lambda),  q = m-k
func residues(rem, a poly.Polynomial, lambda scalar.Scalar, m int, tol float64) ([]scalar.Scalar, error) {
	if m > maxMultiplicity {
		return nil, fmt.Errorf("%w: pole %s has multiplicity %d, at most %d is supported", ErrInvalidConstruction, lambda, m, maxMultiplicity)
	}
	aAt := a.Eval(lambda)
	if scalar.IsZero(aAt, tol) {
		return nil, fmt.Errorf("%w: residue denominator vanishes at pole %s", ErrInvalidConstruction, lambda)
	}
	d := make([]scalar.Scalar, m+1)
	for k := m; k >= 1; k-- {
		q := m - k
		acc, err := rem.DerivativeN(q).Eval(lambda).Quo(factorial(q))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConstruction, err)
		}
		for j := 1; j <= q; j++ {
			t, err := a.DerivativeN(j).Eval(lambda).Quo(factorial(j))
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidConstruction, err)
			}
			acc = acc.Sub(d[k+j].Mul(t))
		}
		if d[k], err = acc.Quo(aAt); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidConstruction, err)
		}
	}
	return d, nil
}

// factorial returns n! exactly while it fits in an int64 (n <= 20) and as
// a float64 up to maxMultiplicity.
func factorial(n int) scalar.Scalar {
	if n <= 20 {
		f := int64(1)
		for i := int64(2); i <= int64(n); i++ {
			f *= i
		}
		return scalar.Int(f)
	}
	return scalar.Real(math.Gamma(float64(n) + 1))
}

func (e *Expansion) add(pole, coeff scalar.Scalar, power int) {
	e.Poles = append(e.Poles, pole)
	e.Coeffs = append(e.Coeffs, coeff.Simplify())
	e.Powers = append(e.Powers, power)
	e.N++
}

// compact drops terms with a tolerance-zero coefficient.
func (e *Expansion) compact(tol float64) {
	j := 0
	for i := 0; i < e.N; i++ {
		if scalar.IsZero(e.Coeffs[i], tol) {
			continue
		}
		e.Poles[j], e.Coeffs[j], e.Powers[j] = e.Poles[i], e.Coeffs[i], e.Powers[i]
		j++
	}
	e.Poles, e.Coeffs, e.Powers, e.N = e.Poles[:j], e.Coeffs[:j], e.Powers[:j], j
}

// Eval evaluates the expansion at s. It fails with ErrSymbolic for symbolic
// terms and ErrEvaluationSingularity at a pole.
func (e *Expansion) Eval(s complex128) (complex128, error) {
	var sum complex128
	for i := 0; i < e.N; i++ {
		c, ok := e.Coeffs[i].Complex()
		p, ok2 := e.Poles[i].Complex()
		if !ok || !ok2 {
			return 0, fmt.Errorf("%w: term %d", ErrSymbolic, i)
		}
		k := e.Powers[i]
		if k <= 0 {
			sum += c * ipow(s, -k)
			continue
		}
		if s == p {
			return 0, fmt.Errorf("%w: s = %v", ErrEvaluationSingularity, s)
		}
		sum += c / ipow(s-p, k)
	}
	return sum, nil
}

func ipow(x complex128, n int) complex128 {
	out := complex(1, 0)
	for i := 0; i < n; i++ {
		out *= x
	}
	return out
}

func (e *Expansion) String() string {
	if e.N == 0 {
		return "0"
	}
	parts := make([]string, e.N)
	for i := 0; i < e.N; i++ {
		c := e.Coeffs[i].String()
		if strings.Contains(c, " ") {
			c = "(" + c + ")"
		}
		k := e.Powers[i]
		switch {
		case k == 0:
			parts[i] = c
		case k < 0:
			pow := "s"
			if k < -1 {
				pow += "^" + strconv.Itoa(-k)
			}
			if c == "1" {
				parts[i] = pow
			} else {
				parts[i] = c + "*" + pow
			}
		case k == 1:
			parts[i] = c + "/(" + poly.FromRoots(e.Poles[i]).String() + ")"
		default:
			parts[i] = c + "/(" + poly.FromRoots(e.Poles[i]).String() + ")^" + strconv.Itoa(k)
		}
	}
	return strings.Join(parts, " + ")
}
