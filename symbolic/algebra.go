package symbolic

import (
	"fmt"
	"math"
)

// ============================================================
// Public helpers
// ============================================================

func Simplify(e Expr) Expr { return e.Simplify() }
func String(e Expr) string { return e.String() }
func LaTeX(e Expr) string  { return e.LaTeX() }

// Bindings maps symbol names to the expressions that replace them.
type Bindings map[string]Expr

// Subs replaces every symbol bound in b and simplifies the result.
// Replacement is simultaneous: a bound value is not substituted again.
func Subs(e Expr, b Bindings) Expr {
	if len(b) == 0 {
		return e
	}
	return e.subs(b).Simplify()
}

func subsAll(xs []Expr, b Bindings) []Expr {
	out := make([]Expr, len(xs))
	for i, x := range xs {
		out[i] = x.subs(b)
	}
	return out
}

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

// Quo returns a/b without checking b for zero.
func Quo(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

// IsZero reports whether e canonicalizes to the number 0.
func IsZero(e Expr) bool {
	n, ok := Canonicalize(e).(*Num)
	return ok && n.IsZero()
}

// ============================================================
// Expansion and canonical form
// ============================================================

// Canonicalize expands and fully simplifies an expression.
func Canonicalize(e Expr) Expr { return Expand(e).Simplify() }

func Expand(e Expr) Expr { return expandExpr(e).Simplify() }

func expandExpr(e Expr) Expr {
	switch v := e.(type) {
	case *Mul:
		result := Expr(N(1))
		for _, f := range v.factors {
			result = expandProduct(result, expandExpr(f))
		}
		return result
	case *Add:
		newTerms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			newTerms[i] = expandExpr(t)
		}
		return AddOf(newTerms...)
	case *Pow:
		base := expandExpr(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			exp := n.val.Num().Int64()
			if _, isAdd := base.(*Add); isAdd && exp >= 0 && exp <= 10 {
				result := Expr(N(1))
				for i := int64(0); i < exp; i++ {
					result = expandProduct(result, base)
				}
				return result
			}
		}
		return PowOf(base, expandExpr(v.exp))
	}
	return e
}

// expandProduct distributes a*b over the terms of either operand. Products
// are distributed by hand because MulOf would fold (x+1)*(x+1) back into a
// power.
func expandProduct(a, b Expr) Expr {
	if at, ok := a.(*Add); ok {
		terms := make([]Expr, len(at.terms))
		for i, t := range at.terms {
			terms[i] = expandProduct(t, b)
		}
		return AddOf(terms...)
	}
	if bt, ok := b.(*Add); ok {
		terms := make([]Expr, len(bt.terms))
		for i, t := range bt.terms {
			terms[i] = expandProduct(a, t)
		}
		return AddOf(terms...)
	}
	return MulOf(a, b)
}

// ============================================================
// Free Symbols
// ============================================================

func FreeSymbols(e Expr) map[string]struct{} {
	result := map[string]struct{}{}
	collectSymbols(e, result)
	return result
}

func collectSymbols(e Expr, out map[string]struct{}) {
	switch v := e.(type) {
	case *Sym:
		out[v.name] = struct{}{}
	case *Add:
		for _, t := range v.terms {
			collectSymbols(t, out)
		}
	case *Mul:
		for _, f := range v.factors {
			collectSymbols(f, out)
		}
	case *Pow:
		collectSymbols(v.base, out)
		collectSymbols(v.exp, out)
	case *Func:
		collectSymbols(v.arg, out)
	}
}

// ============================================================
// Polynomial utilities
// ============================================================

// Degree returns the degree of expr in varName, or -1 when expr is not a
// polynomial in varName (negative or fractional powers, varName inside a
// function).
func Degree(expr Expr, varName string) int {
	expr = Expand(expr)
	switch v := expr.(type) {
	case *Num:
		return 0
	case *Sym:
		if v.name == varName {
			return 1
		}
		return 0
	case *Pow:
		if _, dependent := FreeSymbols(v)[varName]; !dependent {
			return 0
		}
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && n.IsInteger() && !n.IsNegative() {
				return int(n.val.Num().Int64())
			}
		}
		return -1
	case *Func:
		if _, dependent := FreeSymbols(v)[varName]; dependent {
			return -1
		}
		return 0
	case *Add:
		maxDeg := 0
		for _, t := range v.terms {
			d := Degree(t, varName)
			if d < 0 {
				return -1
			}
			if d > maxDeg {
				maxDeg = d
			}
		}
		return maxDeg
	case *Mul:
		totalDeg := 0
		for _, f := range v.factors {
			d := Degree(f, varName)
			if d < 0 {
				return -1
			}
			totalDeg += d
		}
		return totalDeg
	}
	return -1
}

type PolyCoeffsResult map[int]Expr

// PolyCoeffs maps each power of varName in the expanded expr to its coefficient.
func PolyCoeffs(expr Expr, varName string) PolyCoeffsResult {
	result := PolyCoeffsResult{}
	extractCoeffs(Expand(expr), varName, result)
	return result
}

func extractCoeffs(e Expr, varName string, out PolyCoeffsResult) {
	switch v := e.(type) {
	case *Num:
		addCoeff(out, 0, v)
	case *Sym:
		if v.name == varName {
			addCoeff(out, 1, N(1))
		} else {
			addCoeff(out, 0, v)
		}
	case *Pow:
		if sym, ok := v.base.(*Sym); ok && sym.name == varName {
			if n, ok2 := v.exp.(*Num); ok2 && n.IsInteger() {
				addCoeff(out, int(n.val.Num().Int64()), N(1))
				return
			}
		}
		addCoeff(out, 0, e)
	case *Mul:
		deg := 0
		coeffFactors := []Expr{}
		for _, f := range v.factors {
			if d := Degree(f, varName); d > 0 {
				deg += d
			} else {
				coeffFactors = append(coeffFactors, f)
			}
		}
		var coeff Expr
		switch len(coeffFactors) {
		case 0:
			coeff = N(1)
		case 1:
			coeff = coeffFactors[0]
		default:
			coeff = MulOf(coeffFactors...)
		}
		addCoeff(out, deg, coeff)
	case *Add:
		for _, t := range v.terms {
			extractCoeffs(t, varName, out)
		}
	default:
		addCoeff(out, 0, e)
	}
}

func addCoeff(out PolyCoeffsResult, deg int, val Expr) {
	if existing, ok := out[deg]; ok {
		out[deg] = AddOf(existing, val)
	} else {
		out[deg] = val.Simplify()
	}
}

// ============================================================
// Solvers
// ============================================================

type SolveResult struct {
	Solutions []Expr
	ExactForm bool
	Error     string
}

// SolveLinear solves a*x + b = 0.
func SolveLinear(a, b Expr) SolveResult {
	an, aok := a.Eval()
	bn, bok := b.Eval()
	if aok && bok {
		if an.IsZero() {
			if bn.IsZero() {
				return SolveResult{Error: "identity (0 = 0): infinite solutions"}
			}
			return SolveResult{Error: "no solution (inconsistent)"}
		}
		return SolveResult{Solutions: []Expr{numDiv(numNeg(bn), an)}, ExactForm: true}
	}
	return SolveResult{Solutions: []Expr{MulOf(N(-1), b, PowOf(a, N(-1)))}, ExactForm: true}
}

// SolveQuadraticExact solves a*x^2 + b*x + c = 0. Symbolic coefficients give
// the closed-form pair; numeric ones give exact rationals when the
// discriminant is a perfect square. Complex numeric roots are reported in
// Error since Num is real.
func SolveQuadraticExact(a, b, c Expr) SolveResult {
	an, aok := a.Eval()
	bn, bok := b.Eval()
	cn, cok := c.Eval()
	if !aok || !bok || !cok {
		disc := AddOf(PowOf(b, N(2)), MulOf(N(-4), a, c))
		denom := MulOf(N(2), a)
		x1 := Quo(AddOf(Neg(b), SqrtOf(disc)), denom)
		x2 := Quo(AddOf(Neg(b), Neg(SqrtOf(disc))), denom)
		return SolveResult{Solutions: []Expr{x1, x2}, ExactForm: true}
	}
	if an.IsZero() {
		return SolveLinear(b, c)
	}
	af, bf, cf := an.Float64(), bn.Float64(), cn.Float64()
	disc := bf*bf - 4*af*cf
	if disc < 0 {
		return SolveResult{Error: fmt.Sprintf("complex roots: %g ± %gi", -bf/(2*af), math.Sqrt(-disc)/(2*af))}
	}
	if math.IsNaN(disc) || math.IsInf(disc, 0) {
		return SolveResult{Error: "discriminant is not finite"}
	}
	sq := math.Sqrt(disc)
	sqInt := int64(math.Round(sq))
	twoA := numMul(N(2), an)
	if float64(sqInt)*float64(sqInt) == disc {
		x1 := numDiv(numAdd(numNeg(bn), N(sqInt)), twoA)
		x2 := numDiv(numSub(numNeg(bn), N(sqInt)), twoA)
		return SolveResult{Solutions: []Expr{x1, x2}, ExactForm: true}
	}
	r1, r2 := (-bf+sq)/(2*af), (-bf-sq)/(2*af)
	if math.IsInf(r1, 0) || math.IsInf(r2, 0) {
		return SolveResult{Error: "roots are not finite"}
	}
	return SolveResult{Solutions: []Expr{NFloat(r1), NFloat(r2)}}
}
