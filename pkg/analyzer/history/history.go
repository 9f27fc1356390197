// Package history mines git commit history for per-file change patterns:
// change frequency, churn, and a combined hotspot score.
//
// History is an optional collaborator. A project without a usable git
// repository is not an error; callers get Unavailable() defaults instead.
package history

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/depmap/depmap/internal/vcs"
)

// Provider supplies change-history enrichment, or reports itself
// unavailable.
type Provider interface {
	// Available reports whether history data can be produced at all.
	Available() bool
	// Analyze returns per-file activity over the lookback window in days.
	Analyze(ctx context.Context, days int) (*Analysis, error)
}

// GitProvider reads history from a git repository via go-git.
type GitProvider struct {
	repoPath string
	repo     vcs.Repository
}

// Option is a functional option for configuring GitProvider.
type Option func(*GitProvider, vcs.Opener) vcs.Opener

// WithOpener sets the VCS opener (useful for testing).
func WithOpener(opener vcs.Opener) Option {
	return func(_ *GitProvider, _ vcs.Opener) vcs.Opener {
		return opener
	}
}

// NewGitProvider opens the repository at repoPath, detecting .git in parent
// directories. Open failure is not an error here; it just makes the
// provider report unavailable.
func NewGitProvider(repoPath string, opts ...Option) *GitProvider {
	p := &GitProvider{repoPath: repoPath}

	opener := vcs.DefaultOpener()
	for _, opt := range opts {
		opener = opt(p, opener)
	}

	repo, err := opener.PlainOpenWithDetect(repoPath)
	if err == nil {
		p.repo = repo
	}
	return p
}

// Available implements Provider.
func (p *GitProvider) Available() bool {
	return p.repo != nil
}

// Analyze implements Provider. Per-file stats accumulate over every commit
// in the window that touched a Python file.
func (p *GitProvider) Analyze(ctx context.Context, days int) (*Analysis, error) {
	if p.repo == nil {
		return Unavailable(days), nil
	}
	if days <= 0 {
		days = 30
	}

	cutoff := time.Now().AddDate(0, 0, -days)
	iter, err := p.repo.Log(&vcs.LogOptions{Since: &cutoff})
	if err != nil {
		return Unavailable(days), nil
	}
	defer iter.Close()

	type accum struct {
		changeCount  int
		additions    int
		deletions    int
		lastModified time.Time
	}
	perFile := make(map[string]*accum)
	totalCommits := 0

	err = iter.ForEach(func(commit vcs.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		totalCommits++
		when := commit.Author().When

		stats, err := commit.Stats()
		if err != nil {
			// Merge commits and similar oddities; skip their stats.
			return nil
		}

		for _, fs := range stats {
			path := strings.ReplaceAll(fs.Name, "\\", "/")
			if !strings.HasSuffix(path, ".py") {
				continue
			}

			a := perFile[path]
			if a == nil {
				a = &accum{}
				perFile[path] = a
			}
			a.changeCount++
			a.additions += fs.Addition
			a.deletions += fs.Deletion
			if when.After(a.lastModified) {
				a.lastModified = when
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	analysis := &Analysis{
		Available:          true,
		PeriodDays:         days,
		TotalFilesAnalyzed: len(perFile),
		Files:              make(map[string]FileActivity, len(perFile)),
		Hotspots:           []RankedFile{},
		StableFiles:        []RankedFile{},
	}

	for path, a := range perFile {
		churn := a.additions + a.deletions
		freq := FrequencyScore(a.changeCount, totalCommits, days)
		hotspot := HotspotScore(freq, churn)

		lastModified := "unknown"
		if !a.lastModified.IsZero() {
			lastModified = a.lastModified.Format(time.RFC3339)
		}

		analysis.Files[path] = FileActivity{
			ChangeCount:          a.changeCount,
			ChangeFrequencyScore: freq,
			ChangeClassification: ClassifyFrequency(freq),
			TotalAdditions:       a.additions,
			TotalDeletions:       a.deletions,
			TotalChurn:           churn,
			ChurnClassification:  ClassifyChurn(churn),
			HotspotScore:         hotspot,
			LastModified:         lastModified,
		}

		ranked := RankedFile{
			FilePath:     path,
			HotspotScore: hotspot,
			ChangeCount:  a.changeCount,
			TotalChurn:   churn,
		}
		if hotspot >= HotspotCutoff {
			ranked.Classification = "hotspot"
			analysis.Hotspots = append(analysis.Hotspots, ranked)
		} else if hotspot <= StableCutoff {
			ranked.Classification = "stable"
			analysis.StableFiles = append(analysis.StableFiles, ranked)
		}
	}

	sort.Slice(analysis.Hotspots, func(i, j int) bool {
		return analysis.Hotspots[i].HotspotScore > analysis.Hotspots[j].HotspotScore
	})
	sort.Slice(analysis.StableFiles, func(i, j int) bool {
		return analysis.StableFiles[i].HotspotScore < analysis.StableFiles[j].HotspotScore
	})

	return analysis, nil
}

// FrequencyScore normalizes a file's change count into [0,1], weighted
// towards the share of commits touching the file.
func FrequencyScore(changeCount, totalCommits, days int) float64 {
	if totalCommits == 0 {
		return 0
	}

	commitShare := float64(changeCount) / float64(totalCommits)

	if days < 1 {
		days = 1
	}
	perDay := float64(changeCount) / float64(days)
	perDayFactor := perDay / 2
	if perDayFactor > 1 {
		perDayFactor = 1
	}

	score := commitShare*0.7 + perDayFactor*0.3
	if score > 1 {
		score = 1
	}
	return score
}

// ClassifyFrequency buckets a frequency score.
func ClassifyFrequency(score float64) string {
	switch {
	case score >= 0.7:
		return "very_high"
	case score >= 0.5:
		return "high"
	case score >= 0.3:
		return "medium"
	case score >= 0.1:
		return "low"
	default:
		return "very_low"
	}
}

// ClassifyChurn buckets total lines changed.
func ClassifyChurn(totalChurn int) string {
	switch {
	case totalChurn >= 1000:
		return "very_high"
	case totalChurn >= 500:
		return "high"
	case totalChurn >= 100:
		return "medium"
	case totalChurn >= 10:
		return "low"
	default:
		return "very_low"
	}
}

// HotspotScore combines change frequency and churn, weighted towards
// frequency.
func HotspotScore(frequencyScore float64, totalChurn int) float64 {
	churnFactor := float64(totalChurn) / 1000
	if churnFactor > 1 {
		churnFactor = 1
	}

	score := frequencyScore*0.7 + churnFactor*0.3
	if score > 1 {
		score = 1
	}
	return score
}
