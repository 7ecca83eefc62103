package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "radonsim",
		Short: "Radon 6+1 measurement campaign simulator",
		Long: `radonsim evaluates the "6+1" radon measurement protocol against
continuous hourly series recorded in a building.

A campaign places a detector for one day in each of six normal rooms and
one cellar. radonsim enumerates every admissible room order, draws or sweeps
campaigns over the recorded period and reports the distribution of the
campaign statistics.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON (for machine consumption)")
	rootCmd.PersistentFlags().String("root", ".", "Project root directory")
	rootCmd.PersistentFlags().Bool("global", false, "Use the global data directory (~/.radonsim)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: info, debug or trace (overrides config)")

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(),
		newBuildingCmd(),
		newCampaignCmd(),
		newSimulateCmd(),
		newSimulationCmd(),
		newConfigCmd(),
		newBackupCmd(),
	)

	return rootCmd
}

// signalContext returns a context canceled on the first interrupt.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	notifySignals(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, func() {
		stopSignals(sigCh)
		cancel()
	}
}
