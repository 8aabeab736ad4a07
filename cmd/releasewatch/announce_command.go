package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ttfeeac/tiny11-automated/internal/announce"
)

func newAnnounceCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "announce <build-id>",
		Short: "Render the release announcement for a tracked build",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := trackedStore(cmdCtx)
			if err != nil {
				return err
			}

			rel, ok := store.Load().Get(args[0])
			if !ok {
				return fmt.Errorf("build %q is not tracked", args[0])
			}

			issue := announce.NewIssue(rel)
			if jsonOutput {
				return writeJSON(cmd, issue)
			}
			fmt.Fprintln(cmd.OutOrStdout(), issue.Title)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), issue.Body)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}
