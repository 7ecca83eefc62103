package main

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/building"
	"github.com/nvandessel/radonsim/internal/dataset"
	"github.com/nvandessel/radonsim/internal/pattern"
	"github.com/nvandessel/radonsim/internal/room"
	"github.com/nvandessel/radonsim/internal/store"
)

func newBuildingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "building",
		Aliases: []string{"buildings"},
		Short:   "Manage analyzed buildings",
		Long: `Import, inspect and remove buildings.

A building file lists every room with its hourly series. Room ids starting
with "c" are cellars, ids starting with a digit are normal rooms and anything
else is kept but never placed in a campaign.

Examples:
  radonsim building add house.yaml
  radonsim building synth --name fixture --rooms 5 --cellars 2
  radonsim building list
  radonsim building show house
  radonsim building rm house`,
	}

	cmd.AddCommand(
		newBuildingAddCmd(),
		newBuildingListCmd(),
		newBuildingShowCmd(),
		newBuildingSynthCmd(),
		newBuildingRmCmd(),
	)

	return cmd
}

// buildingSummary is the JSON shape shared by add, synth and show.
type buildingSummary struct {
	Name       string         `json:"name"`
	Start      string         `json:"start,omitempty"`
	ValueCount int            `json:"value_count"`
	Rooms      []string       `json:"rooms"`
	Cellars    []string       `json:"cellars"`
	Miscs      []string       `json:"miscs,omitempty"`
	Patterns   map[string]int `json:"patterns"`
	Total      int            `json:"total_patterns"`
	Error      string         `json:"error,omitempty"`
}

func summarizeBuilding(b *building.Building) buildingSummary {
	v := b.Variations()
	s := buildingSummary{
		Name:       b.Name(),
		ValueCount: b.ValueCount(),
		Rooms:      room.IDs(b.Rooms()),
		Cellars:    room.IDs(b.Cellars()),
		Miscs:      room.IDs(b.Miscs()),
		Patterns:   make(map[string]int, len(pattern.Levels)),
		Total:      v.Len(),
	}
	if start := b.StartDate(); !start.IsZero() {
		s.Start = start.Format(time.RFC3339)
	}
	for l, n := range v.Counts() {
		s.Patterns[l.String()] = n
	}
	if err := b.GenerationErr(); err != nil {
		s.Error = err.Error()
	}
	return s
}

func printBuildingSummary(cmd *cobra.Command, s buildingSummary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Building: %s\n", s.Name)
	if s.Start != "" {
		fmt.Fprintf(out, "  Start:    %s\n", s.Start)
	}
	fmt.Fprintf(out, "  Values:   %s per room\n", count(s.ValueCount))
	fmt.Fprintf(out, "  Rooms:    %v\n", s.Rooms)
	fmt.Fprintf(out, "  Cellars:  %v\n", s.Cellars)
	if len(s.Miscs) > 0 {
		fmt.Fprintf(out, "  Misc:     %v (not placed)\n", s.Miscs)
	}
	fmt.Fprintln(out, "  Patterns:")
	for _, l := range pattern.Levels {
		fmt.Fprintf(out, "    %d rooms: %s\n", int(l), count(s.Patterns[l.String()]))
	}
	fmt.Fprintf(out, "    total:   %s\n", count(s.Total))
	if s.Error != "" {
		fmt.Fprintf(out, "  Warning:  %s\n", s.Error)
	}
}

// saveBuilding persists b unless a building of that name exists and replace is false.
func saveBuilding(ctx context.Context, s store.Store, b *building.Building, replace bool) error {
	if !replace {
		if _, err := s.GetBuilding(ctx, b.Name()); err == nil {
			return fmt.Errorf("building %q already exists (use --replace to overwrite)", b.Name())
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
	}
	return s.SaveBuilding(ctx, store.NewBuildingRecord(b))
}

// loadBuilding reads a stored building and rebuilds its variation schemes.
func loadBuilding(ctx context.Context, s store.Store, name string) (*building.Building, error) {
	rec, err := s.GetBuilding(ctx, name)
	if err != nil {
		return nil, err
	}
	return rec.Building()
}

func newBuildingAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <file>",
		Short: "Import a building from a YAML or JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			name, _ := cmd.Flags().GetString("name")
			replace, _ := cmd.Flags().GetBool("replace")

			f, err := dataset.Load(args[0])
			if err != nil {
				return err
			}
			if name != "" {
				f.Name = name
			}
			b, err := f.Building()
			if err != nil {
				return fmt.Errorf("invalid building: %w", err)
			}

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := saveBuilding(ctx, a.store, b, replace); err != nil {
				return err
			}
			a.logger.Info("building imported", "name", b.Name(), "file", args[0], "patterns", b.Variations().Len())

			summary := summarizeBuilding(b)
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printBuildingSummary(cmd, summary)
			return nil
		},
	}

	cmd.Flags().String("name", "", "Override the building name from the file")
	cmd.Flags().Bool("replace", false, "Overwrite an existing building of the same name")

	return cmd
}

func newBuildingSynthCmd() *cobra.Command {
	defaults := dataset.DefaultSyntheticOptions()

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic building",
		Long: `Generate a deterministic building with log-normal hourly values and a
daily cycle, and store it. With --output the definition is also written to
a YAML or JSON file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			opts := dataset.DefaultSyntheticOptions()
			opts.Name, _ = cmd.Flags().GetString("name")
			opts.Rooms, _ = cmd.Flags().GetInt("rooms")
			opts.Cellars, _ = cmd.Flags().GetInt("cellars")
			opts.Misc, _ = cmd.Flags().GetInt("misc")
			opts.Hours, _ = cmd.Flags().GetInt("hours")
			opts.Seed, _ = cmd.Flags().GetUint64("seed")
			opts.Median, _ = cmd.Flags().GetFloat64("median")
			opts.GSD, _ = cmd.Flags().GetFloat64("gsd")
			output, _ := cmd.Flags().GetString("output")
			replace, _ := cmd.Flags().GetBool("replace")
			start, _ := cmd.Flags().GetString("start")

			if start != "" {
				t, err := time.Parse(time.DateOnly, start)
				if err != nil {
					return fmt.Errorf("invalid --start %q (want YYYY-MM-DD): %w", start, err)
				}
				opts.Start = t
			}

			f, err := dataset.Synthetic(opts)
			if err != nil {
				return err
			}
			b, err := f.Building()
			if err != nil {
				return fmt.Errorf("invalid building: %w", err)
			}

			if output != "" {
				if err := f.Save(output); err != nil {
					return err
				}
			}

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := saveBuilding(ctx, a.store, b, replace); err != nil {
				return err
			}
			a.logger.Info("synthetic building stored", "name", b.Name(), "seed", opts.Seed)

			summary := summarizeBuilding(b)
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printBuildingSummary(cmd, summary)
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Definition written to %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().String("name", defaults.Name, "Building name")
	cmd.Flags().Int("rooms", defaults.Rooms, "Number of normal rooms")
	cmd.Flags().Int("cellars", defaults.Cellars, "Number of cellars")
	cmd.Flags().Int("misc", defaults.Misc, "Number of miscellaneous rooms")
	cmd.Flags().Int("hours", defaults.Hours, "Hourly values per room")
	cmd.Flags().Uint64("seed", defaults.Seed, "Random seed")
	cmd.Flags().Float64("median", defaults.Median, "Median concentration of the first room (Bq/m³)")
	cmd.Flags().Float64("gsd", defaults.GSD, "Geometric standard deviation of hourly values")
	cmd.Flags().String("start", "", "Start date of the series (YYYY-MM-DD)")
	cmd.Flags().String("output", "", "Also write the definition to this file (.yaml or .json)")
	cmd.Flags().Bool("replace", false, "Overwrite an existing building of the same name")

	return cmd
}

func newBuildingListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored buildings",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			recs, err := a.store.ListBuildings(ctx)
			if err != nil {
				return fmt.Errorf("failed to list buildings: %w", err)
			}

			if jsonOutput(cmd) {
				type item struct {
					Name       string    `json:"name"`
					Rooms      int       `json:"rooms"`
					ValueCount int       `json:"value_count"`
					Hash       string    `json:"content_hash"`
					UpdatedAt  time.Time `json:"updated_at"`
				}
				items := make([]item, len(recs))
				for i, r := range recs {
					items[i] = item{r.Name, len(r.Rooms), r.ValueCount(), r.ContentHash, r.UpdatedAt}
				}
				return writeJSON(cmd.OutOrStdout(), map[string]any{"buildings": items, "count": len(items)})
			}

			if len(recs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No buildings. Import one with 'radonsim building add <file>'.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tROOMS\tVALUES\tUPDATED")
			for _, r := range recs {
				fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", r.Name, len(r.Rooms), count(r.ValueCount()), r.UpdatedAt.Local().Format(time.DateTime))
			}
			return w.Flush()
		},
	}
}

func newBuildingShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a building and its pattern counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			export, _ := cmd.Flags().GetString("export")

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := loadBuilding(ctx, a.store, args[0])
			if err != nil {
				return err
			}

			if export != "" {
				if err := dataset.FromBuilding(b).Save(export); err != nil {
					return err
				}
			}

			summary := summarizeBuilding(b)
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), summary)
			}
			printBuildingSummary(cmd, summary)
			if export != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Definition written to %s\n", export)
			}
			return nil
		},
	}

	cmd.Flags().String("export", "", "Write the building definition to this file (.yaml or .json)")

	return cmd
}

func newBuildingRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <name>",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove a building and its simulations",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.store.DeleteBuilding(ctx, args[0]); err != nil {
				return err
			}
			a.logger.Info("building removed", "name", args[0])

			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"status": "removed", "name": args[0]})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed building %s\n", args[0])
			return nil
		},
	}
}
