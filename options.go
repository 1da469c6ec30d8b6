package gocontrol

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

// DefaultTolerance is the root-matching tolerance used for cancellation and
// repeated-pole detection.
const DefaultTolerance = 1e-3

type settings struct {
	tol float64
	dt  float64
	log *zap.Logger
}

// Option configures a TransferFunction at construction.
type Option func(*settings)

// WithTolerance sets the root-matching tolerance.
func WithTolerance(tol float64) Option {
	return func(s *settings) { s.tol = tol }
}

// WithTimestep makes the function discrete-time with sampling interval h.
// h == 0 means continuous time.
func WithTimestep(h float64) Option {
	return func(s *settings) { s.dt = h }
}

// WithLogger routes construction diagnostics to l.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.log = l }
}

func newSettings(opts []Option) (*settings, error) {
	s := &settings{tol: DefaultTolerance, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.dt < 0 || math.IsNaN(s.dt) || math.IsInf(s.dt, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimestep, s.dt)
	}
	if !(s.tol > 0) || math.IsInf(s.tol, 0) {
		return nil, fmt.Errorf("%w: tolerance %v must be positive", ErrInvalidConstruction, s.tol)
	}
	return s, nil
}

// options returns the settings of g as options, so derived values keep them.
func (g *TransferFunction) options() []Option {
	return []Option{WithTolerance(g.tol), WithTimestep(g.dt), WithLogger(g.log)}
}
