package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ttfeeac/tiny11-automated/internal/config"
	"github.com/ttfeeac/tiny11-automated/internal/detection"
	"github.com/ttfeeac/tiny11-automated/internal/history"
	"github.com/ttfeeac/tiny11-automated/internal/logging"
	"github.com/ttfeeac/tiny11-automated/internal/matrix"
	"github.com/ttfeeac/tiny11-automated/internal/notifications"
	"github.com/ttfeeac/tiny11-automated/internal/outputs"
	"github.com/ttfeeac/tiny11-automated/internal/sources"
	"github.com/ttfeeac/tiny11-automated/internal/sources/uupdump"
	"github.com/ttfeeac/tiny11-automated/internal/tracking"
)

type detectOptions struct {
	force        bool
	outputPath   string
	trackingPath string
}

func runDetection(cmd *cobra.Command, cmdCtx *commandContext, opts detectOptions) error {
	cfg, err := cmdCtx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := cmdCtx.ensureLogger()
	if err != nil {
		return err
	}

	trackingPath := cfg.Paths.TrackingFile
	if path := strings.TrimSpace(opts.trackingPath); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("resolve tracking file: %w", err)
		}
		trackingPath = expanded
	}
	outputPath := cfg.Paths.OutputFile
	if path := strings.TrimSpace(opts.outputPath); path != "" {
		expanded, err := config.ExpandPath(path)
		if err != nil {
			return fmt.Errorf("resolve output file: %w", err)
		}
		outputPath = expanded
	}

	src, err := uupdump.New(uupdump.Options{
		APIBase:      cfg.Detection.APIBase,
		DownloadBase: cfg.Detection.DownloadBase,
		SearchTerm:   cfg.Detection.SearchTerm,
		Language:     cfg.Detection.Language,
		Architecture: cfg.Detection.Architecture,
		MaxBuilds:    cfg.Detection.MaxBuilds,
		Timeout:      time.Duration(cfg.Detection.RequestTimeout) * time.Second,
	}, logging.NewComponentLogger(logger, "uupdump"))
	if err != nil {
		return fmt.Errorf("configure uupdump source: %w", err)
	}

	store := tracking.NewStore(trackingPath, logger)
	notifier := notifications.NewService(cfg)

	hist, err := history.Open(cfg)
	if err != nil {
		logger.Warn("run history unavailable", logging.Error(err))
	}
	defer hist.Close()

	srcs := []sources.Source{src, sources.Catalog{}, sources.GitHubReleases{}}
	detector := detection.New(cfg, store, srcs, logging.NewComponentLogger(logger, "detection"))
	result, detectErr := detector.Detect(cmd.Context(), opts.force)
	recordRun(cmd.Context(), logger, hist, result, detectErr)

	if detectErr != nil {
		if err := notifier.NotifyError(cmd.Context(), detectErr, "detection run"); err != nil {
			logger.Warn("error notification failed", logging.Error(err))
		}
		return detectErr
	}

	out := cmd.OutOrStdout()
	if result.Skipped {
		if err := outputs.Write(outputPath, nil, matrix.Matrix{}); err != nil {
			return fmt.Errorf("write outputs: %w", err)
		}
		fmt.Fprintln(out, "Checked recently; skipping detection (use --force to override)")
		return nil
	}

	if err := outputs.Write(outputPath, result.New, matrix.Build(result.New)); err != nil {
		return fmt.Errorf("write outputs: %w", err)
	}

	if len(result.New) > 0 {
		if err := notifier.NotifyReleasesDetected(cmd.Context(), result.New); err != nil {
			logger.Warn("detection notification failed", logging.Error(err))
		}
	}

	printDetectionSummary(out, result)
	return nil
}

func recordRun(ctx context.Context, logger *slog.Logger, hist *history.Store, result detection.Result, detectErr error) {
	run := history.Run{
		ID:             result.RunID,
		StartedAt:      result.StartedAt,
		FinishedAt:     result.FinishedAt,
		Forced:         result.Forced,
		Skipped:        result.Skipped,
		SourcesQueried: result.SourcesQueried,
		Examined:       result.Candidates,
		NewCount:       len(result.New),
	}
	for _, rel := range result.New {
		run.NewBuildIDs = append(run.NewBuildIDs, rel.BuildID)
	}
	if detectErr != nil {
		run.ErrorMessage = detectErr.Error()
	}
	if err := hist.RecordRun(ctx, run); err != nil {
		logger.Warn("record run history failed", logging.Error(err))
	}
}

func printDetectionSummary(out io.Writer, result detection.Result) {
	if len(result.New) == 0 {
		fmt.Fprintln(out, "No new releases detected")
		return
	}
	fmt.Fprintf(out, "Detected %d new release(s)\n", len(result.New))
	fmt.Fprintln(out, renderTable(
		[]string{"Build ID", "Version", "Build", "Channel", "Title"},
		releaseRows(result.New, false),
	))
}
