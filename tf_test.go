package gocontrol

import (
	"math"
	"testing"

	"github.com/njchilds90/gocontrol/poly"
	"github.com/njchilds90/gocontrol/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func coeffs(t *testing.T, p poly.Polynomial) []complex128 {
	t.Helper()
	out := make([]complex128, 0, p.Degree()+1)
	for _, c := range p.Coeffs() {
		v, ok := c.Complex()
		require.True(t, ok, "coefficient %s is not numeric", c)
		out = append(out, v)
	}
	return out
}

func assertCoeffs(t *testing.T, want []float64, p poly.Polynomial) {
	t.Helper()
	got := coeffs(t, p)
	require.Len(t, got, len(want), "polynomial %s", p)
	for i, w := range want {
		assert.InDelta(t, w, real(got[i]), 1e-9, "coefficient %d of %s", i, p)
		assert.InDelta(t, 0, imag(got[i]), 1e-9, "coefficient %d of %s", i, p)
	}
}

func mustTF(t *testing.T, num, den []float64, opts ...Option) *TransferFunction {
	t.Helper()
	g, err := FromCoeffs(num, den, opts...)
	require.NoError(t, err)
	return g
}

func TestNew(t *testing.T) {
	t.Run("cancels common root", func(t *testing.T) {
		g := mustTF(t, []float64{1, 2}, []float64{1, 3, 2})
		assertCoeffs(t, []float64{1}, g.Num())
		assertCoeffs(t, []float64{1, 1}, g.Den())
		assert.Empty(t, g.Zeros())
		require.Len(t, g.Poles(), 1)
		p, _ := g.Poles()[0].Complex()
		assert.InDelta(t, -1, real(p), 1e-9)
		assert.Equal(t, StrictlyProper, g.Properness())
	})

	t.Run("denominator is made monic", func(t *testing.T) {
		g := mustTF(t, []float64{2, 4}, []float64{2, 6, 4})
		assertCoeffs(t, []float64{1}, g.Num())
		assertCoeffs(t, []float64{1, 1}, g.Den())

		h := mustTF(t, []float64{3}, []float64{2, 4})
		assertCoeffs(t, []float64{1.5}, h.Num())
		assertCoeffs(t, []float64{1, 2}, h.Den())
		k, _ := h.Gain().Complex()
		assert.Equal(t, complex(1.5, 0), k)
	})

	t.Run("no common root keeps polynomials", func(t *testing.T) {
		g := mustTF(t, []float64{1, 3}, []float64{1, 3, 2})
		assertCoeffs(t, []float64{1, 3}, g.Num())
		assertCoeffs(t, []float64{1, 3, 2}, g.Den())
		assert.Len(t, g.Zeros(), 1)
		assert.Len(t, g.Poles(), 2)
	})

	t.Run("cancels every matched pair", func(t *testing.T) {
		// (s+1)(s+2)(s+3) / ((s+1)(s+2)(s+4))
		g, err := FromZPK(
			[]scalar.Scalar{scalar.Real(-1), scalar.Real(-2), scalar.Real(-3)},
			[]scalar.Scalar{scalar.Real(-2), scalar.Real(-4), scalar.Real(-1)},
			scalar.Real(5),
		)
		require.NoError(t, err)
		assertCoeffs(t, []float64{5, 15}, g.Num())
		assertCoeffs(t, []float64{1, 4}, g.Den())
	})

	t.Run("tolerance controls matching", func(t *testing.T) {
		z := []scalar.Scalar{scalar.Real(-1.0005)}
		p := []scalar.Scalar{scalar.Real(-1)}
		g, err := FromZPK(z, p, scalar.One())
		require.NoError(t, err)
		assert.Empty(t, g.Poles())

		g, err = FromZPK(z, p, scalar.One(), WithTolerance(1e-4))
		require.NoError(t, err)
		assert.Len(t, g.Poles(), 1)
	})

	t.Run("improper and semiproper", func(t *testing.T) {
		assert.Equal(t, Improper, mustTF(t, []float64{1, 0, 1}, []float64{1, 3}).Properness())
		assert.Equal(t, Semiproper, mustTF(t, []float64{1, 5}, []float64{1, 3}).Properness())
	})

	t.Run("zero denominator", func(t *testing.T) {
		_, err := FromCoeffs([]float64{1}, []float64{0, 0})
		assert.ErrorIs(t, err, ErrInvalidConstruction)
	})

	t.Run("repeated real root stays real", func(t *testing.T) {
		// (s+1)^2 / (s+1)^3: the companion matrix spreads the roots into
		// a complex cluster, but the result must be the real 1/(s+1).
		g := mustTF(t, []float64{1, 2, 1}, []float64{1, 3, 3, 1})
		assert.True(t, g.Num().IsReal(), "num %s", g.Num())
		assert.True(t, g.Den().IsReal(), "den %s", g.Den())
		assert.Equal(t, 0, g.Num().Degree())
		assert.Equal(t, 1, g.Den().Degree())
		require.Len(t, g.Poles(), 1)
		p, _ := g.Poles()[0].Complex()
		assert.Zero(t, imag(p))
		assert.InDelta(t, -1, real(p), 1e-4)

		v, err := g.Eval(0)
		require.NoError(t, err)
		assert.Zero(t, imag(v))
		assert.InDelta(t, 1, real(v), 1e-4)
	})

	t.Run("non-finite coefficients", func(t *testing.T) {
		_, err := FromCoeffs([]float64{math.NaN()}, []float64{1, 1})
		assert.ErrorIs(t, err, ErrInvalidConstruction)
		_, err = FromCoeffs([]float64{1}, []float64{1, math.Inf(1)})
		assert.ErrorIs(t, err, ErrInvalidConstruction)
		_, err = FromZPK(nil, []scalar.Scalar{scalar.Real(math.Inf(-1))}, scalar.Sym("a"))
		assert.ErrorIs(t, err, ErrInvalidConstruction)
	})

	t.Run("invalid options", func(t *testing.T) {
		_, err := FromCoeffs([]float64{1}, []float64{1, 1}, WithTimestep(-1))
		assert.ErrorIs(t, err, ErrInvalidTimestep)
		_, err = FromCoeffs([]float64{1}, []float64{1, 1}, WithTolerance(0))
		assert.ErrorIs(t, err, ErrInvalidConstruction)
	})
}

func TestZeroNumerator(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	g, err := FromPolynomial(poly.FromFloats(0, 0), WithLogger(zap.New(core)))
	require.NoError(t, err)

	assert.True(t, g.IsZero())
	assert.True(t, g.Degenerate())
	assertCoeffs(t, []float64{0}, g.Num())
	assertCoeffs(t, []float64{1}, g.Den())
	assert.Empty(t, g.Zeros())
	assert.Empty(t, g.Poles())

	entries := logs.FilterMessage("degenerate simplification").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)

	h := mustTF(t, []float64{0}, []float64{1, 5, 6})
	assertCoeffs(t, []float64{1}, h.Den())
}

func TestCancellationIsLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	_, err := FromCoeffs([]float64{1, 2}, []float64{1, 3, 2}, WithLogger(zap.New(core)))
	require.NoError(t, err)
	assert.Equal(t, 1, logs.FilterMessage("cancelled pole/zero pair").Len())
}

func TestFromZPK(t *testing.T) {
	z := []scalar.Scalar{scalar.Real(-3)}
	p := []scalar.Scalar{scalar.Complex(complex(-1, 2)), scalar.Complex(complex(-1, -2))}
	g, err := FromZPK(z, p, scalar.Real(2))
	require.NoError(t, err)

	assertCoeffs(t, []float64{2, 6}, g.Num())
	assertCoeffs(t, []float64{1, 2, 5}, g.Den())

	// Recomputing roots from the polynomials gives the same system.
	h, err := New(g.Num(), g.Den())
	require.NoError(t, err)
	assert.True(t, g.Equal(h))
	require.Len(t, h.Poles(), 2)
	for i, want := range []complex128{complex(-1, -2), complex(-1, 2)} {
		got, _ := h.Poles()[i].Complex()
		assert.InDelta(t, real(want), real(got), 1e-9)
		assert.InDelta(t, imag(want), imag(got), 1e-9)
	}

	t.Run("zero gain", func(t *testing.T) {
		g, err := FromZPK(z, p, scalar.Zero())
		require.NoError(t, err)
		assert.True(t, g.Degenerate())
		assertCoeffs(t, []float64{1}, g.Den())
	})
}

func TestSymbolicCancellation(t *testing.T) {
	a, b := scalar.Sym("a"), scalar.Sym("b")

	t.Run("zpk", func(t *testing.T) {
		g, err := FromZPK([]scalar.Scalar{a}, []scalar.Scalar{a, b}, scalar.One())
		require.NoError(t, err)
		assert.True(t, g.IsSymbolic())
		assert.Empty(t, g.Zeros())
		require.Len(t, g.Poles(), 1)
		assert.True(t, scalar.ApproxEqual(b, g.Poles()[0], g.Tolerance()))
		assert.Equal(t, 1, g.Den().Degree())
		assert.True(t, scalar.ApproxEqual(b.Neg(), g.Den().Coeff(0), g.Tolerance()))
	})

	t.Run("product", func(t *testing.T) {
		c := scalar.Sym("c")
		g, err := FromZPK([]scalar.Scalar{a}, []scalar.Scalar{c}, scalar.One())
		require.NoError(t, err)
		h, err := FromZPK(nil, []scalar.Scalar{a}, scalar.One())
		require.NoError(t, err)

		gh, err := g.Mul(h)
		require.NoError(t, err)
		assert.Equal(t, 0, gh.Num().Degree())
		require.Len(t, gh.Poles(), 1)
		assert.True(t, scalar.ApproxEqual(c, gh.Poles()[0], gh.Tolerance()))
	})
}

func TestStringAndLaTeX(t *testing.T) {
	g := mustTF(t, []float64{1}, []float64{1, 2})
	assert.Equal(t, "1/(s + 2)", g.String())
	assert.Equal(t, `\frac{1}{s + 2}`, g.LaTeX())

	d := mustTF(t, []float64{1}, []float64{1, -0.5}, WithTimestep(0.1))
	assert.Equal(t, "z", d.Var())
	assert.Contains(t, d.String(), ", dt=0.1")

	assert.Equal(t, "3", mustTF(t, []float64{3}, []float64{1}).String())
}

func TestSubs(t *testing.T) {
	a := scalar.Sym("a")

	t.Run("numeric values", func(t *testing.T) {
		// a/(s+a)
		g, err := New(poly.New(a), poly.New(scalar.One(), a))
		require.NoError(t, err)
		require.True(t, g.IsSymbolic())

		h, err := g.Subs(map[string]scalar.Scalar{"a": scalar.Real(2)})
		require.NoError(t, err)
		assert.False(t, h.IsSymbolic())
		assertCoeffs(t, []float64{2}, h.Num())
		assertCoeffs(t, []float64{1, 2}, h.Den())
		v, err := h.Eval(0)
		require.NoError(t, err)
		assert.InDelta(t, 1, real(v), 1e-12)
	})

	t.Run("binding exposes a cancellation", func(t *testing.T) {
		// (s+a)/((s+1)(s+2)) with a = 1
		g, err := New(poly.New(scalar.One(), a), poly.FromFloats(1, 3, 2))
		require.NoError(t, err)
		assert.Len(t, g.Poles(), 2)

		h, err := g.Subs(map[string]scalar.Scalar{"a": scalar.One()})
		require.NoError(t, err)
		assertCoeffs(t, []float64{1}, h.Num())
		assertCoeffs(t, []float64{1, 2}, h.Den())
	})

	t.Run("partial binding stays symbolic", func(t *testing.T) {
		b := scalar.Sym("b")
		g, err := New(poly.New(a), poly.New(scalar.One(), b))
		require.NoError(t, err)
		h, err := g.Subs(map[string]scalar.Scalar{"a": scalar.Real(3)})
		require.NoError(t, err)
		assert.True(t, h.IsSymbolic())
		assert.Equal(t, "3", h.Num().Lead().String())
	})

	t.Run("zero numerator", func(t *testing.T) {
		g, err := New(poly.New(a), poly.FromFloats(1, 1))
		require.NoError(t, err)
		h, err := g.Subs(map[string]scalar.Scalar{"a": scalar.Zero()})
		require.NoError(t, err)
		assert.True(t, h.IsZero())
		assert.True(t, h.Degenerate())
	})

	t.Run("undefined coefficient", func(t *testing.T) {
		// 1/a is folded into the numerator by normalization.
		g, err := New(poly.FromFloats(1), poly.New(a))
		require.NoError(t, err)
		_, err = g.Subs(map[string]scalar.Scalar{"a": scalar.Zero()})
		assert.ErrorIs(t, err, ErrInvalidConstruction)
	})

	t.Run("rejected bindings", func(t *testing.T) {
		g, err := New(poly.New(a), poly.FromFloats(1, 1))
		require.NoError(t, err)
		_, err = g.Subs(map[string]scalar.Scalar{scalar.ImagUnit: scalar.One()})
		assert.ErrorIs(t, err, ErrUnsupportedOperand)
		_, err = g.Subs(map[string]scalar.Scalar{"a": scalar.Real(math.NaN())})
		assert.ErrorIs(t, err, ErrUnsupportedOperand)
	})

	t.Run("numeric function is unchanged", func(t *testing.T) {
		g := mustTF(t, []float64{1}, []float64{1, 1})
		h, err := g.Subs(map[string]scalar.Scalar{"a": scalar.One()})
		require.NoError(t, err)
		assert.Same(t, g, h)
	})
}
