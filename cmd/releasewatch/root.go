package main

import (
	"github.com/spf13/cobra"
)

const appVersion = "0.1.0"

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var logFormatFlag string

	ctx := newCommandContext(&configFlag, &logLevelFlag, &logFormatFlag)

	var detectOpts detectOptions

	rootCmd := &cobra.Command{
		Use:           "releasewatch",
		Short:         "Detect new Windows builds and prepare automation hand-off data",
		Version:       appVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetection(cmd, ctx, detectOpts)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "", "Override log format (console, json)")

	rootCmd.Flags().BoolVarP(&detectOpts.force, "force", "f", false, "Run even when the check interval has not elapsed")
	rootCmd.Flags().StringVarP(&detectOpts.outputPath, "output", "o", "", "Override the automation output file")
	rootCmd.Flags().StringVar(&detectOpts.trackingPath, "tracking-file", "", "Override the tracked releases file")

	rootCmd.AddCommand(newTrackedCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newAnnounceCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newTestNotifyCommand(ctx))

	return rootCmd
}
