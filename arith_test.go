package gocontrol

import (
	"testing"

	"github.com/njchilds90/gocontrol/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArithmetic(t *testing.T) {
	g := mustTF(t, []float64{1}, []float64{1, 1}) // 1/(s+1)
	h := mustTF(t, []float64{1}, []float64{1, 2}) // 1/(s+2)

	t.Run("add", func(t *testing.T) {
		sum, err := g.Add(h)
		require.NoError(t, err)
		assertCoeffs(t, []float64{2, 3}, sum.Num())
		assertCoeffs(t, []float64{1, 3, 2}, sum.Den())
		require.Len(t, sum.Zeros(), 1)
		z, _ := sum.Zeros()[0].Complex()
		assert.InDelta(t, -1.5, real(z), 1e-9)
	})

	t.Run("sub to zero", func(t *testing.T) {
		diff, err := g.Sub(g)
		require.NoError(t, err)
		assert.True(t, diff.IsZero())
		assertCoeffs(t, []float64{1}, diff.Den())
	})

	t.Run("mul cancels", func(t *testing.T) {
		f := mustTF(t, []float64{1, 1}, []float64{1, 2}) // (s+1)/(s+2)
		prod, err := f.Mul(g)
		require.NoError(t, err)
		assertCoeffs(t, []float64{1}, prod.Num())
		assertCoeffs(t, []float64{1, 2}, prod.Den())
	})

	t.Run("div", func(t *testing.T) {
		q, err := g.Div(h)
		require.NoError(t, err)
		assertCoeffs(t, []float64{1, 2}, q.Num())
		assertCoeffs(t, []float64{1, 1}, q.Den())
		assert.Equal(t, Semiproper, q.Properness())
	})

	t.Run("div by zero function", func(t *testing.T) {
		zero, err := FromCoeffs([]float64{0}, []float64{1})
		require.NoError(t, err)
		_, err = g.Div(zero)
		assert.ErrorIs(t, err, ErrInvalidConstruction)
		_, err = g.Div(0)
		assert.ErrorIs(t, err, ErrInvalidConstruction)
	})

	t.Run("zero is additive identity", func(t *testing.T) {
		f := mustTF(t, []float64{1, 3}, []float64{1, 3, 2})
		sum, err := f.Add(0)
		require.NoError(t, err)
		assert.True(t, f.Equal(sum))
	})

	t.Run("scalar operands", func(t *testing.T) {
		twice, err := g.Mul(2.0)
		require.NoError(t, err)
		assertCoeffs(t, []float64{2}, twice.Num())

		c, err := g.Mul(scalar.Complex(complex(0, 1)))
		require.NoError(t, err)
		n := coeffs(t, c.Num())
		assert.Equal(t, []complex128{complex(0, 1)}, n)

		poly, err := g.Mul([]float64{1, 1})
		require.NoError(t, err)
		assertCoeffs(t, []float64{1}, poly.Num())
		assertCoeffs(t, []float64{1}, poly.Den())
	})

	t.Run("neg", func(t *testing.T) {
		n := g.Neg()
		assertCoeffs(t, []float64{-1}, n.Num())
		k, _ := n.Gain().Complex()
		assert.Equal(t, complex(-1, 0), k)
		assertCoeffs(t, []float64{1}, g.Num())
	})

	t.Run("unsupported operand", func(t *testing.T) {
		_, err := g.Add("s+1")
		assert.ErrorIs(t, err, ErrUnsupportedOperand)
	})
}

func TestFeedback(t *testing.T) {
	integrator := mustTF(t, []float64{1}, []float64{1, 0})
	closed, err := integrator.Feedback(1)
	require.NoError(t, err)
	assertCoeffs(t, []float64{1}, closed.Num())
	assertCoeffs(t, []float64{1, 1}, closed.Den())
}

func TestTimesteps(t *testing.T) {
	d := mustTF(t, []float64{1}, []float64{1, -0.5}, WithTimestep(0.1))
	c := mustTF(t, []float64{1}, []float64{1, 1})

	_, err := d.Add(c)
	assert.ErrorIs(t, err, ErrIncompatibleTimestep)
	_, err = c.Mul(d)
	assert.ErrorIs(t, err, ErrIncompatibleTimestep)

	t.Run("plain operands take the timestep", func(t *testing.T) {
		sum, err := d.Add(1)
		require.NoError(t, err)
		assert.Equal(t, 0.1, sum.Timestep())

		prod, err := Mul(2, d)
		require.NoError(t, err)
		assert.Equal(t, 0.1, prod.Timestep())
		assertCoeffs(t, []float64{2}, prod.Num())
	})
}

func TestPackageOperators(t *testing.T) {
	g := mustTF(t, []float64{1}, []float64{1, 1})

	sum, err := Add(1, g)
	require.NoError(t, err)
	assertCoeffs(t, []float64{1, 2}, sum.Num())

	diff, err := Sub(g, g)
	require.NoError(t, err)
	assert.True(t, diff.IsZero())

	q, err := Div(1, g)
	require.NoError(t, err)
	assertCoeffs(t, []float64{1, 1}, q.Num())
	assertCoeffs(t, []float64{1}, q.Den())

	_, err = Add(struct{}{}, g)
	assert.ErrorIs(t, err, ErrUnsupportedOperand)
}
