package gocontrol

import "errors"

var (
	// ErrInvalidConstruction reports a transfer function that cannot be
	// built: a zero denominator, division by the zero function, or a
	// partial-fraction residue with a vanishing denominator.
	ErrInvalidConstruction = errors.New("gocontrol: invalid construction")

	// ErrDegenerateSimplification marks the zero-numerator diagnostic. It is
	// only ever logged, never returned.
	ErrDegenerateSimplification = errors.New("gocontrol: degenerate simplification")

	// ErrEvaluationSingularity is returned when evaluating at a pole.
	ErrEvaluationSingularity = errors.New("gocontrol: evaluation at a pole")

	// ErrIncompatibleTimestep is returned when combining systems with
	// different timesteps.
	ErrIncompatibleTimestep = errors.New("gocontrol: incompatible timesteps")

	// ErrInvalidTimestep is returned for a negative or non-finite timestep.
	ErrInvalidTimestep = errors.New("gocontrol: invalid timestep")

	// ErrUnsupportedOperand is returned when an operand cannot be coerced.
	ErrUnsupportedOperand = errors.New("gocontrol: unsupported operand")

	// ErrSymbolic is returned when a numeric result is requested from a
	// symbolic transfer function, or symbolic roots cannot be found.
	ErrSymbolic = errors.New("gocontrol: symbolic coefficients")
)
