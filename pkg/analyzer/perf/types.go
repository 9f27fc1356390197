package perf

// HotspotThreshold is the fixed performance-risk score above which a file
// is flagged as a hotspot.
const HotspotThreshold = 0.6

// Metrics holds the cheap text-derived complexity measurements for a file.
type Metrics struct {
	TotalLines      int     `json:"total_lines"`
	CodeLines       int     `json:"code_lines"`
	FunctionCount   int     `json:"function_count"`
	ClassCount      int     `json:"class_count"`
	Cyclomatic      int     `json:"cyclomatic_complexity"`
	HeavyOperations int     `json:"heavy_operations"`
	MaxNestingDepth int     `json:"max_nesting_depth"`
	FileSizeKB      float64 `json:"file_size_kb"`
}

// Result pairs a file's metrics with its derived risk score.
type Result struct {
	Metrics
	Score     float64 `json:"performance_score"`
	IsHotspot bool    `json:"is_hotspot"`
}
