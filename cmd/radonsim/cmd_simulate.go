package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/logging"
	"github.com/nvandessel/radonsim/internal/metrics"
	"github.com/nvandessel/radonsim/internal/pattern"
	"github.com/nvandessel/radonsim/internal/simulation"
	"github.com/nvandessel/radonsim/internal/store"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <building>",
		Short: "Run a campaign simulation over a stored building",
		Long: `Simulate 6+1 measurement campaigns over a stored building and report the
distribution of the eight campaign statistics.

With --max N (N > 0), N campaigns are drawn uniformly over every pattern and
start hour. With --max 0 every pattern is evaluated at every start hour.
Results are saved unless --no-save is given.

Examples:
  radonsim simulate house                         # config default (random)
  radonsim simulate house --max 0                 # exhaustive sweep
  radonsim simulate house --max 50000 --seed 7 --workers 4
  radonsim simulate house --levels 5,6 --name "five or six rooms"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			opts, err := simulationOptions(cmd, a)
			if err != nil {
				return err
			}
			noSave, _ := cmd.Flags().GetBool("no-save")
			campaignsOut, _ := cmd.Flags().GetString("campaigns-out")
			if campaignsOut != "" {
				opts.KeepCampaigns = true
			}

			b, err := loadBuilding(ctx, a.store, args[0])
			if err != nil {
				return err
			}

			runLog := logging.NewRunLogger(a.dataDir, a.cfg.Logging.Level)
			defer runLog.Close()
			opts.Observer = simulation.Observers{simulation.LogObserver(a.logger), runLog}

			m := metrics.New()
			engine := simulation.NewEngine(
				simulation.WithLogger(a.logger),
				simulation.WithMetrics(m),
			)

			sim, runErr := engine.Run(ctx, b, opts)
			if path := a.cfg.Metrics.Textfile; path != "" {
				if err := m.WriteTextfile(path); err != nil {
					a.logger.Warn("failed to write metrics textfile", "path", path, "error", err)
				}
			}
			if runErr != nil {
				return fmt.Errorf("simulation failed: %w", runErr)
			}

			if campaignsOut != "" {
				if err := writeCampaigns(campaignsOut, sim); err != nil {
					return err
				}
			}

			if !noSave {
				if err := a.store.SaveSimulation(ctx, store.NewSimulationRecord(sim)); err != nil {
					return fmt.Errorf("failed to save simulation: %w", err)
				}
			}

			report := sim.Summary()
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			if err := printReport(cmd, report); err != nil {
				return err
			}
			if !noSave {
				fmt.Fprintf(cmd.OutOrStdout(), "\nSaved as %s\n", sim.ID)
			}
			return nil
		},
	}

	cmd.Flags().Int("max", 0, "Random campaigns to draw; 0 sweeps exhaustively (default from config)")
	cmd.Flags().Int64("seed", 0, "Random seed; 0 uses the fixed default (default from config)")
	cmd.Flags().Int("workers", 0, "Worker goroutines (default from config)")
	cmd.Flags().String("name", "", "Name stored with the result")
	cmd.Flags().Bool("keep-campaigns", false, "Retain every campaign in memory")
	cmd.Flags().IntSlice("levels", nil, "Restrict to diversity levels, e.g. 5,6")
	cmd.Flags().Bool("no-save", false, "Do not store the result")
	cmd.Flags().String("campaigns-out", "", "Write every campaign as JSONL to this file")

	return cmd
}

// simulationOptions merges simulate flags over the configured defaults.
// Flags only win when set explicitly.
func simulationOptions(cmd *cobra.Command, a *app) (simulation.Options, error) {
	opts := simulation.Options{
		Max:           a.cfg.Simulation.Max,
		Seed:          a.cfg.Simulation.Seed,
		Workers:       a.cfg.Simulation.Workers,
		KeepCampaigns: a.cfg.Simulation.KeepCampaigns,
	}
	flags := cmd.Flags()
	if flags.Changed("max") {
		opts.Max, _ = flags.GetInt("max")
	}
	if flags.Changed("seed") {
		opts.Seed, _ = flags.GetInt64("seed")
	}
	if flags.Changed("workers") {
		opts.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("keep-campaigns") {
		opts.KeepCampaigns, _ = flags.GetBool("keep-campaigns")
	}
	opts.Name, _ = flags.GetString("name")

	levels, _ := flags.GetIntSlice("levels")
	for _, n := range levels {
		l, err := pattern.ParseLevel(n)
		if err != nil {
			return opts, err
		}
		opts.Levels = append(opts.Levels, l)
	}

	if opts.Max < 0 {
		return opts, fmt.Errorf("--max must be non-negative, got %d", opts.Max)
	}
	return opts, nil
}

func writeCampaigns(path string, sim *simulation.Simulation) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create campaigns file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, c := range sim.Campaigns {
		if err := enc.Encode(c.Record(false)); err != nil {
			return fmt.Errorf("failed to write campaign: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write campaigns file: %w", err)
	}
	return f.Close()
}
