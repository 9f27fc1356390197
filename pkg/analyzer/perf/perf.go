// Package perf scores per-file performance risk from raw source text.
//
// Everything here is a deliberately cheap approximation: keyword counting
// stands in for cyclomatic complexity, regex hits for expensive operations,
// and leading whitespace for nesting depth. The weights below were tuned
// against this heuristic's output distribution, so the heuristics should
// not be quietly "improved".
package perf

import (
	"context"
	"os"
	"regexp"
	"runtime"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"github.com/depmap/depmap/pkg/registry"
	"github.com/depmap/depmap/pkg/source"
)

// cyclomaticIndicators are counted literally across the whole file.
var cyclomaticIndicators = []string{
	"if ", "elif ", "else:", "for ", "while ", "try:",
	"except", "and ", "or ", "?", "break", "continue",
}

// nestingKeywords open an indented block and bump the nesting estimate.
var nestingKeywords = []string{
	"if ", "for ", "while ", "def ", "class ", "with ", "try:",
}

var (
	functionRe = regexp.MustCompile(`(?m)^\s*def\s+\w+`)
	classRe    = regexp.MustCompile(`(?m)^\s*class\s+\w+`)

	// heavyPatterns flag I/O, subprocess, network, serialization, heavy
	// numeric libraries, large loops and sleeps. Case-insensitive.
	heavyPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\.read\(\)`),
		regexp.MustCompile(`(?i)\.write\(\)`),
		regexp.MustCompile(`(?i)\.open\(`),
		regexp.MustCompile(`(?i)subprocess\.`),
		regexp.MustCompile(`(?i)requests\.`),
		regexp.MustCompile(`(?i)urllib\.`),
		regexp.MustCompile(`(?i)json\.load`),
		regexp.MustCompile(`(?i)pickle\.load`),
		regexp.MustCompile(`(?i)pandas\.`),
		regexp.MustCompile(`(?i)numpy\.`),
		regexp.MustCompile(`(?i)scipy\.`),
		regexp.MustCompile(`(?i)matplotlib\.`),
		regexp.MustCompile(`(?i)for.*in.*range\(.*\d{3,}`),
		regexp.MustCompile(`(?i)while.*True:`),
		regexp.MustCompile(`(?i)time\.sleep`),
	}
)

// ComputeMetrics derives complexity metrics from file content.
// fileSizeKB should be the on-disk size at scoring time, 0 if unknown.
func ComputeMetrics(content string, fileSizeKB float64) Metrics {
	lines := strings.Split(content, "\n")

	codeLines := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") {
			codeLines++
		}
	}

	cyclomatic := 0
	for _, ind := range cyclomaticIndicators {
		cyclomatic += strings.Count(content, ind)
	}

	heavy := 0
	for _, re := range heavyPatterns {
		heavy += len(re.FindAllStringIndex(content, -1))
	}

	return Metrics{
		TotalLines:      len(lines),
		CodeLines:       codeLines,
		FunctionCount:   len(functionRe.FindAllString(content, -1)),
		ClassCount:      len(classRe.FindAllString(content, -1)),
		Cyclomatic:      cyclomatic,
		HeavyOperations: heavy,
		MaxNestingDepth: maxNestingDepth(lines),
		FileSizeKB:      fileSizeKB,
	}
}

// maxNestingDepth estimates nesting from indentation at block-opening
// lines, assuming 4-space indents. Tab-indented source will be misjudged;
// that is an accepted limitation of the heuristic.
func maxNestingDepth(lines []string) int {
	maxDepth := 0

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" || strings.HasPrefix(stripped, "#") {
			continue
		}

		opens := false
		for _, kw := range nestingKeywords {
			if strings.Contains(stripped, kw) {
				opens = true
				break
			}
		}
		if !opens {
			continue
		}

		leading := len(line) - len(strings.TrimLeft(line, " "))
		depth := leading/4 + 1
		if depth > maxDepth {
			maxDepth = depth
		}
	}

	return maxDepth
}

// Score combines metrics into a bounded [0,1] risk score. Each term is
// clamped before weighting and the weights sum to 1.0.
func Score(m Metrics) float64 {
	return clamp(float64(m.Cyclomatic)/100)*0.30 +
		clamp(m.FileSizeKB/50)*0.20 +
		clamp(float64(m.HeavyOperations)/10)*0.25 +
		clamp(float64(m.MaxNestingDepth)/8)*0.15 +
		clamp(float64(m.FunctionCount)/20)*0.10
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	return v
}

// WarnFunc is called when a file cannot be read for scoring; that file is
// simply absent from the result map.
type WarnFunc func(path string, err error)

// Analyzer scores all files in a registry snapshot.
type Analyzer struct {
	workers int
}

// Option is a functional option for configuring Analyzer.
type Option func(*Analyzer)

// WithWorkers sets the worker pool size (<= 0 uses 2x NumCPU).
func WithWorkers(n int) Option {
	return func(a *Analyzer) {
		a.workers = n
	}
}

// New creates a performance analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze scores every registered file and returns results keyed by file
// id. Scoring is per-file pure, so files are processed in parallel; the
// pass still only starts once the snapshot is complete. Unreadable files
// are warned about and omitted; downstream treats a missing entry as
// "no data". warn and onProgress are serialized under the result lock,
// so callers may mutate their own state in them without synchronizing.
func (a *Analyzer) Analyze(ctx context.Context, snap *registry.Snapshot, src source.ContentSource, warn WarnFunc, onProgress func()) map[string]Result {
	workers := a.workers
	if workers <= 0 {
		workers = runtime.NumCPU() * 2
	}

	results := make(map[string]Result, snap.Len())
	var mu sync.Mutex

	p := pool.New().WithMaxGoroutines(workers)
	for _, rec := range snap.Records() {
		p.Go(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}

			absPath := snap.AbsPath(rec)
			content, err := src.Read(absPath)
			if err != nil {
				mu.Lock()
				if warn != nil {
					warn(rec.Path, err)
				}
				if onProgress != nil {
					onProgress()
				}
				mu.Unlock()
				return
			}

			var sizeKB float64
			if info, err := os.Stat(absPath); err == nil {
				sizeKB = float64(info.Size()) / 1024
			}

			m := ComputeMetrics(string(content), sizeKB)
			score := Score(m)

			mu.Lock()
			results[rec.ID] = Result{
				Metrics:   m,
				Score:     score,
				IsHotspot: score > HotspotThreshold,
			}
			if onProgress != nil {
				onProgress()
			}
			mu.Unlock()
		})
	}
	p.Wait()

	return results
}
