package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/campaign"
	"github.com/nvandessel/radonsim/internal/store"
)

func newSimulationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "simulation",
		Aliases: []string{"simulations", "sim"},
		Short:   "Inspect stored simulation results",
	}

	cmd.AddCommand(
		newSimulationListCmd(),
		newSimulationShowCmd(),
		newSimulationRmCmd(),
	)

	return cmd
}

func newSimulationListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored simulations, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			buildingName, _ := cmd.Flags().GetString("building")
			limit, _ := cmd.Flags().GetInt("limit")

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.store.ListSimulations(ctx, store.SimulationFilter{Building: buildingName, Limit: limit})
			if err != nil {
				return fmt.Errorf("failed to list simulations: %w", err)
			}

			if jsonOutput(cmd) {
				type item struct {
					ID       string    `json:"id"`
					Name     string    `json:"name,omitempty"`
					Building string    `json:"building"`
					Date     time.Time `json:"date"`
					Mode     string    `json:"mode"`
					Seed     int64     `json:"seed"`
					Count    int       `json:"count"`
				}
				items := make([]item, len(recs))
				for i, r := range recs {
					items[i] = item{r.ID, r.Name, r.Building, r.Date, string(r.Mode), r.Seed, r.Count}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"simulations": items, "count": len(items)})
			}

			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No simulations.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tBUILDING\tDATE\tMODE\tCAMPAIGNS\tROOM GM\tNAME")
			for _, r := range recs {
				gm := r.Report.Stats[campaign.RoomGeoMean.String()].GeometricMean
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.1f\t%s\n",
					shortID(r.ID), r.Building, r.Date.Local().Format(time.DateTime), r.Mode, count(r.Count), gm, r.Name)
			}
			return w.Flush()
		},
	}

	cmd.Flags().String("building", "", "Only simulations of this building")
	cmd.Flags().Int("limit", 0, "Maximum number of results (0 for all)")

	return cmd
}

func newSimulationShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show the report of a stored simulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := findSimulation(ctx, a.store, args[0])
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), rec.Report)
			}
			return printReport(cmd, rec.Report)
		},
	}
}

func newSimulationRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a stored simulation",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			rec, err := findSimulation(ctx, a.store, args[0])
			if err != nil {
				return err
			}
			if err := a.store.DeleteSimulation(ctx, rec.ID); err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "removed", "id": rec.ID})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed simulation %s\n", rec.ID)
			return nil
		},
	}
}
