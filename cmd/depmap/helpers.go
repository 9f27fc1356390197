package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"

	"github.com/depmap/depmap/internal/progress"
	"github.com/depmap/depmap/pkg/analyzer/project"
	"github.com/depmap/depmap/pkg/config"
)

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

var stageLabels = map[string]string{
	project.StageScan:        "Scanning files...",
	project.StageResolve:     "Resolving imports...",
	project.StagePerformance: "Scoring performance...",
	project.StageHistory:     "Analyzing git history...",
}

// stageProgress adapts pipeline progress callbacks to progress bars, one
// per stage. The returned finish func clears the last bar.
func stageProgress() (project.ProgressFunc, func()) {
	var tracker *progress.Tracker
	var current string

	fn := func(stage string, completed, total int) {
		if stage != current {
			if tracker != nil {
				tracker.FinishSuccess()
			}
			current = stage
			label := stageLabels[stage]
			if total > 0 {
				tracker = progress.NewTracker(label, total)
			} else {
				tracker = progress.NewSpinner(label)
			}
			return
		}
		if tracker != nil {
			tracker.Tick()
		}
	}
	finish := func() {
		if tracker != nil {
			tracker.FinishSuccess()
		}
	}
	return fn, finish
}

// runAnalysis runs the full pipeline over root with flag-aware options.
func runAnalysis(ctx context.Context, cfg *config.Config, root string) (*project.Result, []string, error) {
	var warnings []string

	opts := []project.Option{
		project.WithConfig(cfg),
		project.WithWarnFunc(func(path string, err error) {
			warnings = append(warnings, fmt.Sprintf("%s: %v", path, err))
		}),
	}

	report, finish := stageProgress()
	opts = append(opts, project.WithProgressFunc(report))

	analyzer := project.New(opts...)
	result, err := analyzer.Analyze(ctx, root)
	finish()
	if err != nil {
		return nil, warnings, err
	}
	return result, warnings, nil
}

// printWarnings lists per-file warnings on stderr in verbose mode.
func printWarnings(cfg *config.Config, warnings []string) {
	if !cfg.Output.Verbose || len(warnings) == 0 {
		return
	}
	color.Yellow("Warnings (%d):", len(warnings))
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "  - %s\n", w)
	}
}

func argRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
