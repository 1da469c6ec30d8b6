// Package gocontrol is a transfer-function algebra for linear time-invariant
// systems.
//
// A TransferFunction is the rational function G(s) = num(s)/den(s) of a
// continuous-time system, or G(z) of a discrete-time system sampled every h
// seconds. Coefficients are scalar.Scalar values, so numeric and symbolic
// systems share one implementation.
//
// Every constructor normalizes the denominator to be monic, computes the
// zeros, poles and gain, and cancels every zero that matches a pole within
// the tolerance (1e-3 by default). Arithmetic returns new values built the
// same way, so cancellation also happens after every sum, product and
// quotient.
//
// Quick start:
//
//	g, _ := gocontrol.FromCoeffs([]float64{1, 2}, []float64{1, 3, 2})
//	fmt.Println(g)                // the common root -2 is gone: 1/(s + 1)
//	exp, _ := g.Apart()           // partial fractions
//	v, _ := g.Eval(0)             // 1
//	bode, _ := g.Bode(g.DefaultBodeConfig())
//
// The library does not log unless a logger is supplied with WithLogger.
package gocontrol
