package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttfeeac/tiny11-automated/internal/config"
	"github.com/ttfeeac/tiny11-automated/internal/history"
	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/preflight"
	"github.com/ttfeeac/tiny11-automated/internal/tracking"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show watcher state and environment readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			store := tracking.NewStore(cfg.Paths.TrackingFile, logging.NewNop())
			state := store.Load()

			for _, line := range renderSectionHeader("Detection", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, renderStatusLine("Tracked builds", statusInfo, strconv.Itoa(state.Count()), colorize))
			lastCheckKind := statusWarn
			lastCheck := "never"
			if !state.LastCheck.IsZero() {
				lastCheckKind = statusOK
				lastCheck = state.LastCheck.UTC().Format(time.RFC3339)
			}
			fmt.Fprintln(stdout, renderStatusLine("Last check", lastCheckKind, lastCheck, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Checks recorded", statusInfo, strconv.Itoa(state.CheckCount), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Next check", statusInfo, nextCheckDetail(cfg, state, time.Now()), colorize))

			fmt.Fprintln(stdout)
			for _, line := range renderSectionHeader("Preflight", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := statusError
				if result.Passed {
					kind = statusOK
				}
				fmt.Fprintln(stdout, renderStatusLine(result.Name, kind, result.Detail, colorize))
			}

			fmt.Fprintln(stdout)
			for _, line := range renderSectionHeader("Services", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, notificationsStatusLine(cfg, colorize))
			fmt.Fprintln(stdout, historyStatusLine(cmd, cfg, colorize))

			return nil
		},
	}
}

func nextCheckDetail(cfg *config.Config, state *tracking.State, now time.Time) string {
	if state.LastCheck.IsZero() {
		return "eligible now"
	}
	next := state.LastCheck.Add(time.Duration(cfg.Detection.CheckInterval) * time.Minute)
	if !now.Before(next) {
		return "eligible now"
	}
	return "eligible at " + next.UTC().Format(time.RFC3339)
}

func notificationsStatusLine(cfg *config.Config, colorize bool) string {
	if strings.TrimSpace(cfg.Notifications.NtfyTopic) == "" {
		return renderStatusLine("Notifications", statusWarn, "disabled (no ntfy topic)", colorize)
	}
	return renderStatusLine("Notifications", statusOK, "ntfy configured", colorize)
}

func historyStatusLine(cmd *cobra.Command, cfg *config.Config, colorize bool) string {
	const label = "Run history"
	if !cfg.History.Enabled {
		return renderStatusLine(label, statusWarn, "disabled", colorize)
	}
	store, err := history.Open(cfg)
	if err != nil {
		return renderStatusLine(label, statusError, err.Error(), colorize)
	}
	defer store.Close()

	last, err := store.LastRun(cmd.Context())
	if err != nil {
		return renderStatusLine(label, statusError, err.Error(), colorize)
	}
	if last == nil {
		return renderStatusLine(label, statusInfo, "no runs recorded", colorize)
	}
	detail := fmt.Sprintf("last run %s at %s (%d new)",
		shortRunID(last.ID), last.StartedAt.UTC().Format(time.RFC3339), last.NewCount)
	if last.ErrorMessage != "" {
		return renderStatusLine(label, statusError, detail+": "+last.ErrorMessage, colorize)
	}
	return renderStatusLine(label, statusOK, detail, colorize)
}
