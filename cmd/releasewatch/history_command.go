package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttfeeac/tiny11-automated/internal/history"
)

func newHistoryCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent detection runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.History.Enabled {
				fmt.Fprintln(cmd.OutOrStdout(), "Run history is disabled (enable it in the [history] config section)")
				return nil
			}

			store, err := history.Open(cfg)
			if err != nil {
				return fmt.Errorf("open run history: %w", err)
			}
			defer store.Close()

			runs, err := store.RecentRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if asJSON {
				if runs == nil {
					runs = []history.Run{}
				}
				return writeJSON(cmd, runs)
			}

			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Run", "Started", "Duration", "Forced", "Skipped", "Examined", "New", "Error"},
				historyRows(runs),
				6, 7,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum runs to display")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return cmd
}

func historyRows(runs []history.Run) [][]string {
	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		duration := run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond)
		rows = append(rows, []string{
			shortRunID(run.ID),
			run.StartedAt.UTC().Format(time.RFC3339),
			duration.String(),
			yesNo(run.Forced),
			yesNo(run.Skipped),
			strconv.Itoa(run.Examined),
			strconv.Itoa(run.NewCount),
			run.ErrorMessage,
		})
	}
	return rows
}

// shortRunID trims UUIDs to their first group for column-friendly output.
func shortRunID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
