package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/speccloak/speccloak/internal/adapters/outbound/history"
	"github.com/speccloak/speccloak/internal/adapters/outbound/tui"
	"github.com/speccloak/speccloak/internal/domain"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var (
		path       string
		jsonOutput bool
		last       int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded coverage runs",
		Long:  "List the runs saved with --save-history, oldest first, with the change in coverage between runs.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			entries, err := history.New().Load(absPath)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}
			if last > 0 && len(entries) > last {
				entries = entries[len(entries)-last:]
			}

			if jsonOutput {
				if entries == nil {
					entries = []domain.RunEntry{}
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}

			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", ".", "Project root")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	cmd.Flags().IntVar(&last, "last", 0, "Show only the most recent N runs")

	return cmd
}
