// Package scanner discovers Python source files under an analysis root.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/depmap/depmap/pkg/config"
	"github.com/depmap/depmap/pkg/parser"
)

// ErrRootNotFound is returned when the analysis root does not exist or is
// not a directory. This is the only fatal discovery error; everything else
// degrades to per-path warnings.
var ErrRootNotFound = errors.New("analysis root not found")

// WarnFunc is called for non-fatal discovery problems (unreadable subtrees).
type WarnFunc func(path string, err error)

// Scanner finds Python source files in a directory tree.
type Scanner struct {
	cfg      *config.Config
	warn     WarnFunc
	excluded map[string]bool
	matcher  gitignore.Matcher
}

// Option is a functional option for configuring Scanner.
type Option func(*Scanner)

// WithWarnFunc sets the callback for non-fatal discovery warnings.
func WithWarnFunc(fn WarnFunc) Option {
	return func(s *Scanner) {
		s.warn = fn
	}
}

// New creates a scanner from config. A nil config uses defaults.
func New(cfg *config.Config, opts ...Option) *Scanner {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s := &Scanner{cfg: cfg, excluded: make(map[string]bool)}
	for _, dir := range cfg.Exclude.Dirs {
		s.excluded[dir] = true
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ScanDir recursively scans root for Python files. Directories whose name
// exactly matches an excluded name, or starts with a dot, are skipped at
// any depth. Returned paths are absolute, in traversal order.
func (s *Scanner) ScanDir(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
	}

	if s.cfg.Exclude.Gitignore {
		s.loadGitignorePatterns(absRoot)
	}

	files := make([]string, 0, 256)

	walkErr := filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if s.warn != nil {
				s.warn(path, err)
			}
			return nil
		}

		base := filepath.Base(path)

		if d.IsDir() {
			if path == absRoot {
				return nil
			}
			if s.excluded[base] || strings.HasPrefix(base, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(base, ".") || !parser.IsPythonFile(path) {
			return nil
		}
		if s.isIgnored(absRoot, path) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return files, nil
}

// loadGitignorePatterns reads .gitignore files under root for opt-in
// pattern-based exclusion.
func (s *Scanner) loadGitignorePatterns(root string) {
	patterns, err := gitignore.ReadPatterns(osfs.New(root), nil)
	if err != nil || len(patterns) == 0 {
		return
	}
	s.matcher = gitignore.NewMatcher(patterns)
}

// isIgnored checks a file against loaded gitignore patterns.
func (s *Scanner) isIgnored(root, path string) bool {
	if s.matcher == nil {
		return false
	}
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return s.matcher.Match(strings.Split(rel, string(filepath.Separator)), false)
}
