// Package vcs provides the minimal git abstraction the history analyzer
// needs, so tests can substitute a mock repository.
package vcs

import (
	"time"

	"github.com/go-git/go-git/v5/plumbing/object"
)

// Opener opens git repositories.
type Opener interface {
	// PlainOpenWithDetect opens a repository, detecting .git in parent
	// directories.
	PlainOpenWithDetect(path string) (Repository, error)
}

// Repository provides access to git repository operations.
type Repository interface {
	// Log returns a commit iterator starting from HEAD.
	Log(opts *LogOptions) (CommitIterator, error)
}

// LogOptions configures the commit log query.
type LogOptions struct {
	Since *time.Time
}

// CommitIterator iterates over commits.
type CommitIterator interface {
	ForEach(fn func(Commit) error) error
	Close()
}

// Commit represents a git commit.
type Commit interface {
	// Author returns commit author information.
	Author() object.Signature
	// Stats returns per-file addition/deletion stats for this commit.
	Stats() (object.FileStats, error)
}
