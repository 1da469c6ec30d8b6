package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/njchilds90/gocontrol"
	"github.com/njchilds90/gocontrol/scalar"
	"github.com/spf13/cobra"
)

func newTFCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tf NUM DEN",
		Short: "Normalize a transfer function and cancel common roots.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseTF(a, cmd, args[0], args[1])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "G(%s)\t%s\n", g.Var(), g)
			fmt.Fprintf(w, "zeros\t%s\n", joinScalars(g.Zeros()))
			fmt.Fprintf(w, "poles\t%s\n", joinScalars(g.Poles()))
			fmt.Fprintf(w, "gain\t%s\n", g.Gain())
			fmt.Fprintf(w, "properness\t%s\n", g.Properness())
			if GetFlag(cmd, "latex") {
				fmt.Fprintf(w, "latex\t%s\n", g.LaTeX())
			}
			return w.Flush()
		},
	}
	cmd.Flags().Bool("latex", false, "also print LaTeX")
	return cmd
}

func newApartCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "apart NUM DEN",
		Short: "Partial-fraction expansion.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseTF(a, cmd, args[0], args[1])
			if err != nil {
				return err
			}
			exp, err := g.Apart()
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "pole\tpower\tcoefficient")
			for i := 0; i < exp.N; i++ {
				fmt.Fprintf(w, "%s\t%d\t%s\n", exp.Poles[i], exp.Powers[i], exp.Coeffs[i])
			}
			fmt.Fprintf(w, "\n%s\n", exp)
			return w.Flush()
		},
	}
}

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval NUM DEN POINT...",
		Short: "Evaluate a transfer function at points of the complex plane.",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseTF(a, cmd, args[0], args[1])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(w, "%s\tG(%s)\n", g.Var(), g.Var())
			for _, arg := range args[2:] {
				s, err := parseScalar(arg)
				if err != nil {
					return err
				}
				v, err := g.EvalScalar(s)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\n", s, v)
			}
			return w.Flush()
		},
	}
}

func newBodeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bode NUM DEN",
		Short: "Tabulate magnitude and phase over a logarithmic frequency grid.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseTF(a, cmd, args[0], args[1])
			if err != nil {
				return err
			}
			cfg := gocontrol.BodeConfig{
				LogOmegaMin: GetFloat(cmd, "min"),
				LogOmegaMax: GetFloat(cmd, "max"),
				OmegaN:      GetInt(cmd, "points"),
				PhaseShift:  GetInt(cmd, "shift"),
			}
			data, err := g.Bode(cfg)
			if err != nil {
				return err
			}
			db := data.MagnitudeDB()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(w, "omega\t|G|\tdB\tphase\t")
			for i, om := range data.Omega {
				fmt.Fprintf(w, "%.6g\t%.6g\t%.3f\t%.2f\t\n", om, data.Magnitude[i], db[i], data.Phase[i])
			}
			return w.Flush()
		},
	}
	cmd.Flags().Float64("min", 0, "log10 of the lowest frequency (default from roots)")
	cmd.Flags().Float64("max", 0, "log10 of the highest frequency (default from roots)")
	cmd.Flags().IntP("points", "n", a.cfg.OmegaN, "number of frequencies")
	cmd.Flags().Int("shift", 0, "phase shift in multiples of 360 degrees")
	return cmd
}

func joinScalars(xs []scalar.Scalar) string {
	if len(xs) == 0 {
		return "-"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = x.String()
	}
	return strings.Join(parts, ", ")
}
