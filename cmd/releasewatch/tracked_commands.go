package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/release"
	"github.com/ttfeeac/tiny11-automated/internal/tracking"
)

func newTrackedCommand(cmdCtx *commandContext) *cobra.Command {
	var asJSON bool

	trackedCmd := &cobra.Command{
		Use:   "tracked",
		Short: "Inspect and manage the tracked release set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrackedList(cmd, cmdCtx, asJSON)
		},
	}
	trackedCmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")

	trackedCmd.AddCommand(newTrackedRemoveCommand(cmdCtx))
	trackedCmd.AddCommand(newTrackedClearCommand(cmdCtx))

	return trackedCmd
}

func trackedStore(cmdCtx *commandContext) (*tracking.Store, error) {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return nil, err
	}
	return tracking.NewStore(cfg.Paths.TrackingFile, logging.NewNop()), nil
}

func runTrackedList(cmd *cobra.Command, cmdCtx *commandContext, asJSON bool) error {
	store, err := trackedStore(cmdCtx)
	if err != nil {
		return err
	}
	releases := store.Load().Releases()

	if asJSON {
		if releases == nil {
			releases = []release.Release{}
		}
		return writeJSON(cmd, releases)
	}

	if len(releases) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tracked releases")
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Build ID", "Version", "Build", "Channel", "Detected"},
		releaseRows(releases, true),
	))
	return nil
}

func newTrackedRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <build-id>",
		Short: "Stop tracking a build so the next run rediscovers it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trackedStore(cmdCtx)
			if err != nil {
				return err
			}
			state := store.Load()
			id := strings.TrimSpace(args[0])
			if !state.Remove(id) {
				return fmt.Errorf("build %q is not tracked", id)
			}
			if err := store.Rewrite(state); err != nil {
				return fmt.Errorf("persist tracked releases: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s (%d still tracked)\n", id, state.Count())
			return nil
		},
	}
}

func newTrackedClearCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Reset the tracking file to an empty state",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trackedStore(cmdCtx)
			if err != nil {
				return err
			}
			removed := store.Load().Count()
			if removed == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tracked releases")
				return nil
			}
			if err := store.Rewrite(tracking.NewState()); err != nil {
				return fmt.Errorf("persist tracked releases: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d tracked release(s)\n", removed)
			return nil
		},
	}
}
