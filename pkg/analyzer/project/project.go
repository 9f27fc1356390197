// Package project runs the full dependency analysis pipeline over a
// Python project root: discovery, registry build, import resolution,
// importance scoring, performance scoring, optional git history, and
// final graph assembly.
//
// The passes are strictly ordered. Import resolution only starts once the
// registry is complete, and importance scoring only starts once every
// file's imports are resolved; both barriers are load-bearing because
// resolution matches against the whole registry and scoring ranks over the
// whole edge set.
package project

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/depmap/depmap/pkg/analyzer/history"
	"github.com/depmap/depmap/pkg/analyzer/importance"
	"github.com/depmap/depmap/pkg/analyzer/imports"
	"github.com/depmap/depmap/pkg/analyzer/perf"
	"github.com/depmap/depmap/pkg/config"
	"github.com/depmap/depmap/pkg/graph"
	"github.com/depmap/depmap/pkg/registry"
	"github.com/depmap/depmap/pkg/scanner"
	"github.com/depmap/depmap/pkg/source"
)

// Pipeline stage names reported through ProgressFunc.
const (
	StageScan        = "scan"
	StageResolve     = "resolve"
	StagePerformance = "performance"
	StageHistory     = "history"
)

// WarnFunc is called for every per-file recoverable problem, tagged with
// the failing path. A warning never aborts the run.
type WarnFunc func(path string, err error)

// ProgressFunc reports pipeline progress. Stage transitions arrive with
// completed == 0.
type ProgressFunc func(stage string, completed, total int)

// Result bundles the assembled graph with the raw history analysis, which
// keeps its ranked hotspot and stable-file lists.
type Result struct {
	Graph   *graph.Graph
	History *history.Analysis
}

// Analyzer orchestrates one analysis run.
type Analyzer struct {
	cfg      *config.Config
	src      source.ContentSource
	hist     history.Provider
	warn     WarnFunc
	progress ProgressFunc
	workers  int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithConfig sets the configuration. A nil config uses defaults.
func WithConfig(cfg *config.Config) Option {
	return func(a *Analyzer) {
		if cfg != nil {
			a.cfg = cfg
		}
	}
}

// WithContentSource sets the file content source.
func WithContentSource(src source.ContentSource) Option {
	return func(a *Analyzer) {
		a.src = src
	}
}

// WithHistoryProvider sets the change-history provider. Without this
// option a git provider is opened at the analysis root.
func WithHistoryProvider(p history.Provider) Option {
	return func(a *Analyzer) {
		a.hist = p
	}
}

// WithWarnFunc sets the callback for per-file recoverable problems.
func WithWarnFunc(fn WarnFunc) Option {
	return func(a *Analyzer) {
		a.warn = fn
	}
}

// WithProgressFunc sets the pipeline progress callback.
func WithProgressFunc(fn ProgressFunc) Option {
	return func(a *Analyzer) {
		a.progress = fn
	}
}

// WithWorkers bounds performance-scoring parallelism.
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates an analyzer with the given options.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg: config.DefaultConfig(),
		src: source.NewFilesystem(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze runs the pipeline over root and returns the assembled graph.
// Only a missing or non-directory root is fatal; every per-file problem
// degrades to a warning and a partially-populated node.
func (a *Analyzer) Analyze(ctx context.Context, root string) (*Result, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving root %s: %w", root, err)
	}

	a.report(StageScan, 0, 0)
	sc := scanner.New(a.cfg, scanner.WithWarnFunc(scanner.WarnFunc(a.warnFn())))
	files, err := sc.ScanDir(absRoot)
	if err != nil {
		return nil, err
	}

	snap := registry.Build(absRoot, files, a.src, registry.WarnFunc(a.warnFn()))

	a.report(StageResolve, 0, snap.Len())
	resolver := imports.NewResolver(snap)
	defer resolver.Close()

	resolved := 0
	err = resolver.ResolveAll(ctx, a.src, imports.WarnFunc(a.warnFn()), func() {
		resolved++
		a.report(StageResolve, resolved, snap.Len())
	})
	if err != nil {
		return nil, err
	}

	scores := importance.Scores(snap)

	a.report(StagePerformance, 0, snap.Len())
	scored := 0
	perfAnalyzer := perf.New(perf.WithWorkers(a.workers))
	perfResults := perfAnalyzer.Analyze(ctx, snap, a.src, perf.WarnFunc(a.warnFn()), func() {
		scored++
		a.report(StagePerformance, scored, snap.Len())
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hist := a.analyzeHistory(ctx, absRoot)

	return &Result{
		Graph:   graph.Assemble(snap, scores, perfResults, hist),
		History: hist,
	}, nil
}

// analyzeHistory runs the optional history pass. Any failure leaves
// history unavailable rather than failing the run.
func (a *Analyzer) analyzeHistory(ctx context.Context, root string) *history.Analysis {
	days := a.cfg.History.Days
	if !a.cfg.History.Enabled {
		return history.Unavailable(days)
	}

	provider := a.hist
	if provider == nil {
		provider = history.NewGitProvider(root)
	}
	if !provider.Available() {
		return history.Unavailable(days)
	}

	a.report(StageHistory, 0, 0)
	hist, err := provider.Analyze(ctx, days)
	if err != nil || hist == nil {
		if err != nil && a.warn != nil {
			a.warn(root, err)
		}
		return history.Unavailable(days)
	}
	return hist
}

func (a *Analyzer) report(stage string, completed, total int) {
	if a.progress != nil {
		a.progress(stage, completed, total)
	}
}

func (a *Analyzer) warnFn() func(path string, err error) {
	return func(path string, err error) {
		if a.warn != nil {
			a.warn(path, err)
		}
	}
}
