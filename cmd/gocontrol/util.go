package main

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/njchilds90/gocontrol"
	"github.com/njchilds90/gocontrol/poly"
	"github.com/njchilds90/gocontrol/scalar"
	"github.com/spf13/cobra"
)

// GetFlag gets an expected boolean flag, or exits if it is missing.
func GetFlag(cmd *cobra.Command, flag string) bool {
	r, err := cmd.Flags().GetBool(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// GetFloat gets an expected float flag, or exits if it is missing.
func GetFloat(cmd *cobra.Command, flag string) float64 {
	r, err := cmd.Flags().GetFloat64(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

// GetInt gets an expected int flag, or exits if it is missing.
func GetInt(cmd *cobra.Command, flag string) int {
	r, err := cmd.Flags().GetInt(flag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return r
}

var symbolName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// parseScalar reads a real or complex literal, or a symbol name.
func parseScalar(s string) (scalar.Scalar, error) {
	s = strings.TrimSpace(s)
	if c, err := strconv.ParseComplex(s, 128); err == nil {
		return scalar.Complex(c), nil
	}
	if symbolName.MatchString(s) {
		return scalar.Sym(s), nil
	}
	return nil, fmt.Errorf("invalid coefficient %q", s)
}

// parsePoly reads a comma separated coefficient list, highest degree first.
func parsePoly(s string) (poly.Polynomial, error) {
	var coeffs []scalar.Scalar
	for _, part := range strings.Split(s, ",") {
		c, err := parseScalar(part)
		if err != nil {
			return poly.Polynomial{}, err
		}
		coeffs = append(coeffs, c)
	}
	return poly.New(coeffs...), nil
}

// parseTF reads the NUM and DEN arguments of a command.
func parseTF(a *app, cmd *cobra.Command, num, den string) (*gocontrol.TransferFunction, error) {
	n, err := parsePoly(num)
	if err != nil {
		return nil, fmt.Errorf("numerator: %w", err)
	}
	d, err := parsePoly(den)
	if err != nil {
		return nil, fmt.Errorf("denominator: %w", err)
	}
	g, err := gocontrol.New(n, d, a.options(cmd)...)
	if err != nil {
		return nil, err
	}
	set, err := cmd.Flags().GetStringToString("set")
	if err != nil || len(set) == 0 {
		return g, err
	}
	values := make(map[string]scalar.Scalar, len(set))
	for name, v := range set {
		if values[name], err = parseScalar(v); err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
	}
	return g.Subs(values)
}
