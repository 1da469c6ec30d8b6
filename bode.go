package gocontrol

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/floats"
)

// BodeConfig describes the frequency grid and presentation of a Bode
// diagram. Rendering is left to the caller; LineStyle and Lines are carried
// through for it.
type BodeConfig struct {
	LogOmegaMin float64
	LogOmegaMax float64
	OmegaN      int
	LineStyle   string
	Lines       bool
	PhaseShift  int
}

// BodeData holds magnitude and unwrapped phase in degrees per frequency.
type BodeData struct {
	Omega     []float64
	Magnitude []float64
	Phase     []float64
	Config    BodeConfig
}

const (
	defaultOmegaN    = 500
	defaultLineStyle = "solid"
	// nyquistFraction places the discrete-time upper limit just below pi/h.
	nyquistFraction = 0.999
)

// DefaultBodeConfig derives the frequency range from the roots of g: from
// floor(log10(min|r|/5)) to ceil(log10(max|r|*5)) over nonzero numeric roots,
// or [-2, 2] when there are none. For discrete time the upper limit sits
// just below the Nyquist frequency pi/h.
func (g *TransferFunction) DefaultBodeConfig() BodeConfig {
	cfg := BodeConfig{LogOmegaMin: -2, LogOmegaMax: 2, OmegaN: defaultOmegaN, LineStyle: defaultLineStyle}

	var mags []float64
	for _, r := range append(g.Zeros(), g.p...) {
		if c, ok := r.Complex(); ok && c != 0 {
			mags = append(mags, cmplx.Abs(c))
		}
	}
	if len(mags) > 0 {
		cfg.LogOmegaMin = math.Floor(math.Log10(floats.Min(mags) / 5))
		cfg.LogOmegaMax = math.Ceil(math.Log10(floats.Max(mags) * 5))
	}
	if g.IsDiscrete() {
		cfg.LogOmegaMax = math.Log10(nyquistFraction * math.Pi / g.dt)
		if cfg.LogOmegaMin >= cfg.LogOmegaMax {
			cfg.LogOmegaMin = math.Floor(cfg.LogOmegaMax) - 3
		}
	}
	return cfg
}

// Bode evaluates g along a logarithmic frequency grid. Zero-valued fields of
// cfg take their defaults; an empty range (LogOmegaMin >= LogOmegaMax) takes
// the default range.
func (g *TransferFunction) Bode(cfg BodeConfig) (*BodeData, error) {
	def := g.DefaultBodeConfig()
	if cfg.LogOmegaMin >= cfg.LogOmegaMax {
		cfg.LogOmegaMin, cfg.LogOmegaMax = def.LogOmegaMin, def.LogOmegaMax
	}
	if cfg.OmegaN <= 0 {
		cfg.OmegaN = def.OmegaN
	}
	if cfg.LineStyle == "" {
		cfg.LineStyle = def.LineStyle
	}

	omega := make([]float64, cfg.OmegaN)
	if cfg.OmegaN == 1 {
		omega[0] = math.Pow(10, cfg.LogOmegaMin)
	} else {
		floats.LogSpan(omega, math.Pow(10, cfg.LogOmegaMin), math.Pow(10, cfg.LogOmegaMax))
	}

	data := &BodeData{
		Omega:     omega,
		Magnitude: make([]float64, 0, len(omega)),
		Phase:     make([]float64, 0, len(omega)),
		Config:    cfg,
	}
	for v, err := range g.FrequencyResponse(omega) {
		if err != nil {
			return nil, err
		}
		data.Magnitude = append(data.Magnitude, cmplx.Abs(v))
		data.Phase = append(data.Phase, cmplx.Phase(v)*180/math.Pi)
	}
	unwrapDegrees(data.Phase)
	if cfg.PhaseShift != 0 {
		floats.AddConst(360*float64(cfg.PhaseShift), data.Phase)
	}
	return data, nil
}

// MagnitudeDB returns 20*log10 of the magnitude.
func (b *BodeData) MagnitudeDB() []float64 {
	out := make([]float64, len(b.Magnitude))
	for i, m := range b.Magnitude {
		out[i] = 20 * math.Log10(m)
	}
	return out
}

// unwrapDegrees removes jumps larger than 180 degrees between consecutive
// samples.
func unwrapDegrees(phase []float64) {
	offset := 0.0
	for i := 1; i < len(phase); i++ {
		raw := phase[i] + offset
		d := raw - phase[i-1]
		switch {
		case d > 180:
			offset -= 360 * math.Ceil((d-180)/360)
		case d < -180:
			offset += 360 * math.Ceil((-d-180)/360)
		}
		phase[i] += offset
	}
}
