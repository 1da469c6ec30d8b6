// cmd/gocontrol/main.go: command line front end for gocontrol
//
// Usage:
//
//	gocontrol tf 1,2 1,3,2
//	gocontrol apart 1,2 1,2,1
//	gocontrol eval 1 1,1 0 1i
//	gocontrol tf a 1,a --set a=2
//	gocontrol bode 1 1,1 --min -1 --max 1 -n 20
//	gocontrol serve --port 8080
//
// Coefficients are comma separated, highest degree first. Each one is a real
// or complex literal (2, -0.5, 1+2i) or a symbol name (a).
package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/njchilds90/gocontrol"
	"github.com/njchilds90/gocontrol/internal/config"
	"github.com/njchilds90/gocontrol/internal/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Version is set with -ldflags at release time.
var Version string

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg    *config.Config
	cfgErr error
	log    *zap.Logger
}

func (a *app) options(cmd *cobra.Command) []gocontrol.Option {
	return []gocontrol.Option{
		gocontrol.WithTolerance(GetFloat(cmd, "tol")),
		gocontrol.WithTimestep(GetFloat(cmd, "dt")),
		gocontrol.WithLogger(a.log),
	}
}

func newRootCmd() *cobra.Command {
	a := &app{log: zap.NewNop()}
	// Flag defaults come from the environment; an invalid environment is
	// reported before any command runs.
	if a.cfg, a.cfgErr = config.Load(); a.cfgErr != nil {
		a.cfg = config.Default()
	}

	root := &cobra.Command{
		Use:           "gocontrol",
		Short:         "Transfer-function algebra for LTI systems.",
		Long:          "Build, combine, expand and evaluate rational transfer functions with numeric or symbolic coefficients.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.cfgErr != nil {
				return a.cfgErr
			}
			logCfg := logging.DefaultConfig()
			logCfg.Level = a.cfg.LogLevel
			if a.cfg.LogDev || GetFlag(cmd, "verbose") {
				logCfg = logging.DevelopmentConfig()
			}
			l, err := logging.New(logCfg)
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			a.log = l.Logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !GetFlag(cmd, "version") {
				return cmd.Help()
			}
			fmt.Fprint(cmd.OutOrStdout(), "gocontrol ")
			if Version != "" {
				fmt.Fprint(cmd.OutOrStdout(), Version)
			} else if info, ok := debug.ReadBuildInfo(); ok {
				fmt.Fprint(cmd.OutOrStdout(), info.Main.Version)
			} else {
				fmt.Fprint(cmd.OutOrStdout(), "(unknown version)")
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	root.PersistentFlags().Float64("tol", a.cfg.Tolerance, "root-matching tolerance")
	root.PersistentFlags().Float64("dt", a.cfg.Timestep, "sampling interval (0 for continuous time)")
	root.PersistentFlags().StringToString("set", nil, "bind coefficient parameters, e.g. --set a=2,b=0.5")
	root.PersistentFlags().BoolP("verbose", "v", false, "debug logging to stderr")
	root.Flags().Bool("version", false, "print version and exit")

	root.AddCommand(
		newTFCmd(a),
		newApartCmd(a),
		newEvalCmd(a),
		newBodeCmd(a),
		newServeCmd(a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
