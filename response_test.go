package gocontrol

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/njchilds90/gocontrol/scalar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	g := mustTF(t, []float64{1}, []float64{1, 1})

	v, err := g.Eval(0)
	require.NoError(t, err)
	assert.Equal(t, complex(1, 0), v)

	v, err = g.Eval(complex(0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, real(v), 1e-12)
	assert.InDelta(t, -0.5, imag(v), 1e-12)

	_, err = g.Eval(-1)
	assert.ErrorIs(t, err, ErrEvaluationSingularity)

	t.Run("symbolic", func(t *testing.T) {
		h, err := FromZPK(nil, []scalar.Scalar{scalar.Sym("a")}, scalar.One())
		require.NoError(t, err)
		_, err = h.Eval(1)
		assert.ErrorIs(t, err, ErrSymbolic)

		// 1/(s - a) at s = 0 is -1/a.
		v, err := h.EvalScalar(scalar.Zero())
		require.NoError(t, err)
		assert.True(t, v.Mul(scalar.Sym("a")).Add(scalar.One()).Simplify().IsZero(), "got %s", v)

		_, err = h.EvalScalar(scalar.Sym("a"))
		assert.ErrorIs(t, err, ErrEvaluationSingularity)
	})
}

func TestResponse(t *testing.T) {
	g := mustTF(t, []float64{1}, []float64{1, 1})
	points := []complex128{0, complex(0, 1), 1}

	collect := func() []complex128 {
		var out []complex128
		for v, err := range g.Response(points) {
			require.NoError(t, err)
			out = append(out, v)
		}
		return out
	}
	first := collect()
	require.Len(t, first, 3)
	assert.Equal(t, first, collect())
	assert.Equal(t, complex(0.5, 0), first[2])

	t.Run("error once", func(t *testing.T) {
		var vals []complex128
		var errs []error
		for v, err := range g.Response([]complex128{0, -1, 1}) {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			vals = append(vals, v)
		}
		assert.Equal(t, []complex128{1}, vals)
		require.Len(t, errs, 1)
		assert.ErrorIs(t, errs[0], ErrEvaluationSingularity)
	})

	t.Run("early break", func(t *testing.T) {
		n := 0
		for range g.Response(points) {
			n++
			break
		}
		assert.Equal(t, 1, n)
	})
}

func TestFrequencyPoints(t *testing.T) {
	c := mustTF(t, []float64{1}, []float64{1, 1})
	assert.Equal(t, []complex128{complex(0, 2)}, c.FrequencyPoints([]float64{2}))

	d := mustTF(t, []float64{1}, []float64{1, -0.5}, WithTimestep(0.5))
	pts := d.FrequencyPoints([]float64{math.Pi})
	require.Len(t, pts, 1)
	assert.InDelta(t, 1, cmplx.Abs(pts[0]), 1e-12)
	assert.InDelta(t, math.Pi/2, cmplx.Phase(pts[0]), 1e-12)
}

func TestBode(t *testing.T) {
	g := mustTF(t, []float64{1}, []float64{1, 1})

	t.Run("default range from roots", func(t *testing.T) {
		cfg := g.DefaultBodeConfig()
		assert.Equal(t, -1.0, cfg.LogOmegaMin)
		assert.Equal(t, 1.0, cfg.LogOmegaMax)
		assert.Equal(t, 500, cfg.OmegaN)
		assert.Equal(t, "solid", cfg.LineStyle)
	})

	t.Run("default range without roots", func(t *testing.T) {
		cfg := mustTF(t, []float64{2}, []float64{1}).DefaultBodeConfig()
		assert.Equal(t, -2.0, cfg.LogOmegaMin)
		assert.Equal(t, 2.0, cfg.LogOmegaMax)
	})

	t.Run("discrete range stops below nyquist", func(t *testing.T) {
		d := mustTF(t, []float64{1}, []float64{1, -0.4}, WithTimestep(0.1))
		cfg := d.DefaultBodeConfig()
		assert.Equal(t, -2.0, cfg.LogOmegaMin)
		assert.InDelta(t, math.Log10(0.999*math.Pi/0.1), cfg.LogOmegaMax, 1e-12)

		data, err := d.Bode(BodeConfig{})
		require.NoError(t, err)
		last := data.Omega[len(data.Omega)-1]
		assert.Less(t, last, math.Pi/0.1)
	})

	t.Run("magnitude and phase", func(t *testing.T) {
		data, err := g.Bode(BodeConfig{LogOmegaMin: -1, LogOmegaMax: 1, OmegaN: 3})
		require.NoError(t, err)
		require.Len(t, data.Omega, 3)
		assert.InDelta(t, 1, data.Omega[1], 1e-9)
		assert.InDelta(t, 1/math.Sqrt2, data.Magnitude[1], 1e-9)
		assert.InDelta(t, -45, data.Phase[1], 1e-6)
		assert.InDelta(t, -3.0103, data.MagnitudeDB()[1], 1e-4)
		for i := 1; i < len(data.Phase); i++ {
			assert.Less(t, data.Phase[i], data.Phase[i-1])
		}
	})

	t.Run("phase shift", func(t *testing.T) {
		data, err := g.Bode(BodeConfig{LogOmegaMin: -1, LogOmegaMax: 1, OmegaN: 3, PhaseShift: 1})
		require.NoError(t, err)
		assert.InDelta(t, 315, data.Phase[1], 1e-6)
	})

	t.Run("single point", func(t *testing.T) {
		data, err := g.Bode(BodeConfig{LogOmegaMin: 0, LogOmegaMax: 1, OmegaN: 1})
		require.NoError(t, err)
		assert.Equal(t, []float64{1}, data.Omega)
	})

	t.Run("pole on the axis", func(t *testing.T) {
		integrator := mustTF(t, []float64{1}, []float64{1, 0})
		_, err := integrator.Bode(BodeConfig{LogOmegaMin: -1, LogOmegaMax: 1, OmegaN: 10})
		require.NoError(t, err)

		osc := mustTF(t, []float64{1}, []float64{1, 0, 1})
		_, err = osc.Bode(BodeConfig{LogOmegaMin: 0, LogOmegaMax: 1, OmegaN: 1})
		assert.ErrorIs(t, err, ErrEvaluationSingularity)
	})
}

func TestUnwrapDegrees(t *testing.T) {
	phase := []float64{170, -170, -150, 175}
	unwrapDegrees(phase)
	assert.Equal(t, []float64{170, 190, 210, 175}, phase)

	phase = []float64{-170, 170}
	unwrapDegrees(phase)
	assert.Equal(t, []float64{-170, -190}, phase)
}
