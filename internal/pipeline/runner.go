// Package pipeline orchestrates the scan: file discovery, concurrent
// duration probing, upward aggregation, and the rendered/exported report.
package pipeline

import (
	"context"
	"fmt"

	"github.com/shiranzby/vidtotal/internal/aggregate"
	"github.com/shiranzby/vidtotal/internal/config"
	"github.com/shiranzby/vidtotal/internal/display"
	"github.com/shiranzby/vidtotal/internal/logging"
)

// Run is the top-level entry point. It discovers media files under
// cfg.RootDir, probes them concurrently, aggregates per-directory totals,
// prints the heading tree, and exports the Markdown document. Only
// discovery failure and cancellation are returned as errors; per-file
// probe failures degrade to warnings and zero durations.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, probe ProbeFunc) (RunStats, error) {
	var stats RunStats

	files, err := Discover(cfg.RootDir)
	if err != nil {
		return stats, fmt.Errorf("file discovery: %w", err)
	}

	if len(files) == 0 {
		log.Warn("No media files found in %s", cfg.RootDir)
		return stats, nil
	}

	stats.Total = len(files)
	log.Info("Found %d media files, probing with %d workers …", stats.Total, effectiveWorkers(cfg.Workers))

	results := Scan(ctx, files, cfg.Workers, cfg.ProbeTimeout, probe, log, cfg.Verbose)

	// Partial totals from an interrupted scan would violate the
	// directory-sum invariant, so render nothing.
	if ctx.Err() != nil {
		log.Warn("Interrupted, discarding partial results")
		return stats, ctx.Err()
	}

	durations := make([]aggregate.FileDuration, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			stats.Failed++
		} else {
			stats.Probed++
			stats.TotalSeconds += r.Seconds
		}
		stats.TotalBytes += r.Bytes
		durations = append(durations, aggregate.FileDuration{Path: r.Path, Seconds: r.Seconds})
	}

	totals := aggregate.Accumulate(durations, cfg.RootDir)
	collapsed := aggregate.Collapse(totals)
	tree := aggregate.BuildTree(collapsed, cfg.RootDir)
	lines := display.RenderTree(collapsed, tree, cfg.RootDir)

	log.Info("")
	log.Info("Per-directory playback totals:")
	fmt.Println()
	display.PrintTree(lines)
	fmt.Println()

	if !cfg.NoExport {
		path, err := display.ExportMarkdown(lines, cfg.RootDir, cfg.OutputDir)
		if err != nil {
			log.Error("Markdown export failed: %v", err)
		} else {
			log.Success("Wrote %s", path)
		}
	}

	logSummary(log, &stats)
	return stats, nil
}

func effectiveWorkers(workers int) int {
	if workers > 0 {
		return workers
	}
	// Mirrors the default applied inside Scan.
	return defaultWorkers()
}

func logSummary(log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d probed, %d failed of %d files", stats.Probed, stats.Failed, stats.Total)
	log.Info("Total playback time: %s across %s of media",
		display.FormatDuration(stats.TotalSeconds),
		display.FormatBytes(stats.TotalBytes))
}
