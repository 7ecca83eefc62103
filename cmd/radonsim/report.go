package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/campaign"
	"github.com/nvandessel/radonsim/internal/simulation"
)

// printReport renders the eight distributions of a simulation as a table.
func printReport(cmd *cobra.Command, r simulation.Report) error {
	out := cmd.OutOrStdout()
	title := r.ID
	if r.Name != "" {
		title = fmt.Sprintf("%s (%s)", r.Name, r.ID)
	}
	fmt.Fprintf(out, "Simulation %s\n", title)
	fmt.Fprintf(out, "  Building:  %s\n", r.Building)
	fmt.Fprintf(out, "  Date:      %s\n", r.Date.Local().Format(time.DateTime))
	fmt.Fprintf(out, "  Mode:      %s", r.Mode)
	if r.Mode == simulation.ModeRandom {
		fmt.Fprintf(out, " (seed %d)", r.Seed)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  Campaigns: %s over %s patterns\n", count(r.Count), count(r.Patterns))
	fmt.Fprintf(out, "  Elapsed:   %s\n", (time.Duration(r.ElapsedMS) * time.Millisecond).String())
	fmt.Fprintln(out)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "STATISTIC\tMEAN\tGM\tMEDIAN\tQ5\tQ95\tMAX\tCV\tQD\tGSD\t")
	for _, k := range campaign.Kinds {
		s, ok := r.Stats[k.String()]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.3f\t%.3f\t%.3f\t\n",
			k, s.Mean, s.GeometricMean, s.Median, s.Q5, s.Q95, s.Max, s.CV, s.QD, s.GSD)
	}
	return w.Flush()
}
