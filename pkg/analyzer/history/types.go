package history

// Thresholds for repo-level hotspot and stable-file detection.
const (
	HotspotCutoff = 0.5
	StableCutoff  = 0.1
)

// FileActivity holds change-history enrichment for a single file, keyed by
// its repo-relative path. Every field has a defined "no data" default so
// graph assembly can proceed when history is unavailable.
type FileActivity struct {
	ChangeCount          int     `json:"change_count"`
	ChangeFrequencyScore float64 `json:"change_frequency_score"`
	ChangeClassification string  `json:"change_classification"`
	TotalAdditions       int     `json:"total_additions"`
	TotalDeletions       int     `json:"total_deletions"`
	TotalChurn           int     `json:"total_churn"`
	ChurnClassification  string  `json:"churn_classification"`
	HotspotScore         float64 `json:"hotspot_score"`
	LastModified         string  `json:"last_modified"`
}

// RankedFile is a hotspot or stable-file summary entry.
type RankedFile struct {
	FilePath       string  `json:"file_path"`
	HotspotScore   float64 `json:"hotspot_score"`
	ChangeCount    int     `json:"change_count"`
	TotalChurn     int     `json:"total_churn"`
	Classification string  `json:"classification"`
}

// Analysis is the change-history result for one lookback window.
type Analysis struct {
	Available          bool                    `json:"git_available"`
	PeriodDays         int                     `json:"analysis_period_days"`
	TotalFilesAnalyzed int                     `json:"total_files_analyzed"`
	Files              map[string]FileActivity `json:"file_data"`
	Hotspots           []RankedFile            `json:"hotspots"`
	StableFiles        []RankedFile            `json:"stable_files"`
}

// Unavailable returns the degraded result used when no history provider is
// usable. The pipeline carries on with defaulted enrichment fields.
func Unavailable(days int) *Analysis {
	return &Analysis{
		Available:   false,
		PeriodDays:  days,
		Files:       map[string]FileActivity{},
		Hotspots:    []RankedFile{},
		StableFiles: []RankedFile{},
	}
}
