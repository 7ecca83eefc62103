package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nvandessel/radonsim/internal/campaign"
	"github.com/nvandessel/radonsim/internal/pattern"
)

func newCampaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign <building>",
		Short: "Evaluate a single campaign",
		Long: `Build one campaign from a stored building and print its statistics.

The pattern is addressed by diversity level (3 to 6 distinct rooms) and its
index within that level; --start is the first hour of the campaign.

Examples:
  radonsim campaign house --level 6 --index 0 --start 0
  radonsim campaign house --level 4 --index 17 --start 48 --chain`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			start, _ := cmd.Flags().GetInt("start")
			levelN, _ := cmd.Flags().GetInt("level")
			index, _ := cmd.Flags().GetInt("index")
			withChain, _ := cmd.Flags().GetBool("chain")

			level, err := pattern.ParseLevel(levelN)
			if err != nil {
				return err
			}

			a, err := openApp(ctx, cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := loadBuilding(ctx, a.store, args[0])
			if err != nil {
				return err
			}
			c, err := b.Campaign(start, level, index)
			if err != nil {
				return err
			}

			rec := c.Record(withChain)
			if jsonOutput(cmd) {
				return writeJSON(cmd.OutOrStdout(), rec)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Campaign %s/%d #%d at hour %d\n", b.Name(), int(level), index, start)
			fmt.Fprintf(out, "  Slots: %s (cellar in slot %d)\n", strings.Join(rec.Slots, " "), rec.Cellar+1)
			for _, k := range campaign.Kinds {
				fmt.Fprintf(out, "  %-16s %10.2f\n", k.String()+":", c.Scalar(k))
			}
			if withChain {
				fmt.Fprintf(out, "  Chain: %v\n", rec.Chain)
			}
			return nil
		},
	}

	cmd.Flags().Int("start", 0, "First hour of the campaign")
	cmd.Flags().Int("level", int(pattern.Six), "Diversity level (3, 4, 5 or 6)")
	cmd.Flags().Int("index", 0, "Pattern index within the level")
	cmd.Flags().Bool("chain", false, "Include the 168 hourly values")

	return cmd
}
