package perf

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/depmap/depmap/pkg/registry"
	"github.com/depmap/depmap/pkg/source"
)

func TestComputeMetricsCounts(t *testing.T) {
	content := strings.Join([]string{
		"# module docstring comment",
		"import subprocess",
		"",
		"def run():",
		"    if True:",
		"        subprocess.call(['ls'])",
		"",
		"class Runner:",
		"    def go(self):",
		"        pass",
		"",
	}, "\n")

	m := ComputeMetrics(content, 1.5)

	assert.Equal(t, 11, m.TotalLines)
	assert.Equal(t, 7, m.CodeLines)
	assert.Equal(t, 2, m.FunctionCount)
	assert.Equal(t, 1, m.ClassCount)
	assert.Equal(t, 1.5, m.FileSizeKB)
}

func TestComputeMetricsHeavyOperations(t *testing.T) {
	content := strings.Join([]string{
		"import subprocess",
		"subprocess.run(['a'])",
		"subprocess.check_output(['b'])",
		"subprocess.call(['c'])",
		"time.sleep(1)",
	}, "\n")

	m := ComputeMetrics(content, 0)

	// Three dotted subprocess uses plus one sleep.
	assert.Equal(t, 4, m.HeavyOperations)
}

func TestMaxNestingDepth(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  int
	}{
		{
			name:  "flat",
			lines: []string{"x = 1", "y = 2"},
			want:  0,
		},
		{
			name:  "top level def",
			lines: []string{"def f():", "    return 1"},
			want:  1,
		},
		{
			name: "nested blocks",
			lines: []string{
				"def f():",
				"    for i in range(3):",
				"        if i > 1:",
				"            while True:",
				"                break",
			},
			want: 4,
		},
		{
			name:  "comments and blanks ignored",
			lines: []string{"", "    # if deep comment", "if x:"},
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, maxNestingDepth(tt.lines))
		})
	}
}

func TestScoreBounded(t *testing.T) {
	// Extreme metrics must still clamp to at most 1.0.
	extreme := Metrics{
		Cyclomatic:      10000,
		FileSizeKB:      5000,
		HeavyOperations: 500,
		MaxNestingDepth: 40,
		FunctionCount:   900,
	}
	assert.InDelta(t, 1.0, Score(extreme), 1e-9)

	assert.Zero(t, Score(Metrics{}))

	partial := Metrics{Cyclomatic: 50}
	assert.InDelta(t, 0.15, Score(partial), 1e-9)
}

func buildSnapshot(t *testing.T, files map[string]string) *registry.Snapshot {
	t.Helper()

	root := t.TempDir()
	paths := make([]string, 0, len(files))
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
		paths = append(paths, p)
	}
	return registry.Build(root, paths, source.NewFilesystem(), nil)
}

func TestAnalyzeScoresAllFiles(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"a.py": "x = 1\n",
		"b.py": "def f():\n    if x:\n        pass\n",
	})

	results := New().Analyze(context.Background(), snap, source.NewFilesystem(), nil, nil)

	require.Len(t, results, 2)
	assert.Contains(t, results, "a.py")
	assert.Contains(t, results, "b.py")
	assert.GreaterOrEqual(t, results["b.py"].Cyclomatic, 1)

	// Tiny files stay far below the hotspot threshold.
	assert.False(t, results["a.py"].IsHotspot)
	assert.False(t, results["b.py"].IsHotspot)
}

type failingSource struct {
	fail string
}

func (f *failingSource) Read(path string) ([]byte, error) {
	if strings.HasSuffix(filepath.ToSlash(path), f.fail) {
		return nil, errors.New("boom")
	}
	return os.ReadFile(path)
}

func TestAnalyzeOmitsUnreadableFiles(t *testing.T) {
	snap := buildSnapshot(t, map[string]string{
		"good.py": "x = 1\n",
		"bad.py":  "y = 2\n",
	})

	var warned []string
	results := New(WithWorkers(1)).Analyze(context.Background(), snap, &failingSource{fail: "bad.py"},
		func(path string, err error) {
			warned = append(warned, path)
		}, nil)

	assert.Contains(t, results, "good.py")
	assert.NotContains(t, results, "bad.py")
	assert.Equal(t, []string{"bad.py"}, warned)
}

// Callbacks are serialized, so callers may keep plain counters and slices
// in them. Run with -race.
func TestAnalyzeCallbacksAreSerialized(t *testing.T) {
	files := make(map[string]string, 64)
	for i := 0; i < 64; i++ {
		files[fmt.Sprintf("m%02d.py", i)] = "x = 1\n"
	}
	snap := buildSnapshot(t, files)

	progressed := 0
	var warned []string
	results := New(WithWorkers(8)).Analyze(context.Background(), snap, &failingSource{fail: "m07.py"},
		func(path string, err error) {
			warned = append(warned, path)
		},
		func() {
			progressed++
		})

	assert.Equal(t, 64, progressed)
	assert.Equal(t, []string{"m07.py"}, warned)
	assert.Len(t, results, 63)
}
