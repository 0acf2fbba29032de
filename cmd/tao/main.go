package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"tao/internal/version"
)

// newRootCmd builds the command tree. Setup that depends on persistent
// flags runs in PersistentPreRunE; the returned finish undoes it and must run
// after Execute, whether or not the command failed.
func newRootCmd() (root *cobra.Command, finish func()) {
	var cleanups []func()
	finish = func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
		cleanups = nil
	}
	root = &cobra.Command{
		Use:           "tao",
		Short:         "Monomorphizing HIR to MIR lowering",
		Long:          `tao lowers typed, generic HIR documents into monomorphic MIR.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyColorFlag(cmd); err != nil {
				return err
			}
			stopTrace, err := setupTracing(cmd)
			if err != nil {
				return err
			}
			cleanups = append(cleanups, stopTrace)
			stopProf, err := setupProfiling(cmd)
			if err != nil {
				return err
			}
			cleanups = append(cleanups, stopProf)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics per file")
	pf.String("trace", "", "trace output file (\"-\" for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace encoding (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept in ring mode")
	pf.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")

	root.AddCommand(newLowerCmd())
	root.AddCommand(newPackCmd())
	root.AddCommand(newVersionCmd())
	return root, finish
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	root, finish := newRootCmd()
	err := root.ExecuteContext(ctx)
	finish()
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "tao: %v\n", err)
		os.Exit(1)
	}
}
