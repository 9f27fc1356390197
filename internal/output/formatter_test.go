package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  Format
	}{
		{"text", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{"markdown", FormatMarkdown},
		{"md", FormatMarkdown},
		{"", FormatText},
		{"invalid", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseFormat(tt.input); got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNewFormatterWithFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "out.json")

	f, err := NewFormatter(FormatJSON, outputPath, true)
	if err != nil {
		t.Fatalf("NewFormatter() error: %v", err)
	}

	if f.colored {
		t.Error("colored should be false when writing to file")
	}

	if err := f.Output(map[string]int{"count": 3}); err != nil {
		t.Fatalf("Output() error: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Errorf("Close() error: %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("reading output file: %v", err)
	}

	var decoded map[string]int
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded["count"] != 3 {
		t.Errorf("count = %d, want 3", decoded["count"])
	}
}

func TestNewFormatterInvalidPath(t *testing.T) {
	if _, err := NewFormatter(FormatText, "/nonexistent/directory/file.txt", false); err == nil {
		t.Error("NewFormatter() should error for invalid path")
	}
}

func TestTableRenderText(t *testing.T) {
	table := NewTable(
		"Results",
		[]string{"File", "Score"},
		[][]string{
			{"a.py", "0.80"},
			{"b.py", "0.10"},
		},
		[]string{"Total: 2", ""},
		nil,
	)

	var buf bytes.Buffer
	if err := table.RenderText(&buf, false); err != nil {
		t.Fatalf("RenderText() error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Results", "a.py", "b.py", "0.80", "Total: 2"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestTableRenderMarkdown(t *testing.T) {
	table := NewTable(
		"Results",
		[]string{"File", "Score"},
		[][]string{{"a.py", "0.80"}},
		nil,
		nil,
	)

	var buf bytes.Buffer
	if err := table.RenderMarkdown(&buf); err != nil {
		t.Fatalf("RenderMarkdown() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "## Results") {
		t.Errorf("markdown output missing title:\n%s", out)
	}
	if !strings.Contains(out, "| File | Score |") {
		t.Errorf("markdown output missing header row:\n%s", out)
	}
	if !strings.Contains(out, "| --- | --- |") {
		t.Errorf("markdown output missing separator row:\n%s", out)
	}
}

func TestTableRenderData(t *testing.T) {
	table := NewTable("", []string{"File", "Score"}, [][]string{{"a.py", "0.80"}}, nil, nil)

	data, ok := table.RenderData().([]map[string]string)
	if !ok {
		t.Fatalf("RenderData() = %T, want []map[string]string", table.RenderData())
	}
	if len(data) != 1 || data[0]["File"] != "a.py" {
		t.Errorf("unexpected data: %v", data)
	}

	wrapped := NewTable("", nil, nil, nil, map[string]bool{"raw": true})
	if _, ok := wrapped.RenderData().(map[string]bool); !ok {
		t.Error("RenderData() should return wrapped data when set")
	}
}
