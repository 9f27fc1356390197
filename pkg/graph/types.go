package graph

// Node is one Python file in the assembled dependency graph. The index
// field is the node's position in the Nodes slice and is what edges
// reference.
type Node struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Stem         string  `json:"stem"`
	Folder       string  `json:"folder"`
	Color        string  `json:"color"`
	FilePath     string  `json:"file_path"`
	ImportsCount int     `json:"imports_count"`
	Importance   float64 `json:"importance"`
	IsTest       bool    `json:"is_test"`
	IsInit       bool    `json:"is_init"`
	Size         int64   `json:"size"`
	Index        int     `json:"index"`

	PerformanceScore     float64 `json:"performance_score"`
	IsPerformanceHotspot bool    `json:"is_performance_hotspot"`
	CyclomaticComplexity int     `json:"cyclomatic_complexity"`
	TotalLines           int     `json:"total_lines"`
	FunctionCount        int     `json:"function_count"`
	HeavyOperations      int     `json:"heavy_operations"`
	MaxNestingDepth      int     `json:"max_nesting_depth"`

	ChangeCount          int     `json:"change_count"`
	ChangeFrequencyScore float64 `json:"change_frequency_score"`
	ChangeClassification string  `json:"change_classification"`
	TotalChurn           int     `json:"total_churn"`
	ChurnClassification  string  `json:"churn_classification"`
	HotspotScore         float64 `json:"hotspot_score"`
	LastModified         string  `json:"last_modified"`
}

// Edge is a directed import relation between two nodes, referenced by
// index into the Nodes slice.
type Edge struct {
	Source        int    `json:"source"`
	Target        int    `json:"target"`
	SourceName    string `json:"source_name"`
	TargetName    string `json:"target_name"`
	SourceFolder  string `json:"source_folder"`
	TargetFolder  string `json:"target_folder"`
	IsCrossFolder bool   `json:"is_cross_folder"`
	IsTestRelated bool   `json:"is_test_related"`
}

// FolderInfo aggregates the member files of one top-level folder.
type FolderInfo struct {
	Color       string   `json:"color"`
	Modules     []string `json:"modules"`
	TestModules []string `json:"test_modules"`
	Count       int      `json:"count"`
}

// Statistics summarizes the assembled graph.
type Statistics struct {
	TotalFiles              int  `json:"total_files"`
	TotalDependencies       int  `json:"total_dependencies"`
	CrossFolderDependencies int  `json:"cross_folder_dependencies"`
	TestFiles               int  `json:"test_files"`
	Folders                 int  `json:"folders"`
	GitAnalysisAvailable    bool `json:"git_analysis_available"`
	HotspotsDetected        int  `json:"hotspots_detected"`
	StableFilesDetected     int  `json:"stable_files_detected"`
}

// Graph is the final analysis artifact. It is immutable once assembled.
type Graph struct {
	Nodes         []Node                `json:"nodes"`
	Edges         []Edge                `json:"edges"`
	SubfolderInfo map[string]FolderInfo `json:"subfolder_info"`
	Statistics    Statistics            `json:"statistics"`
}
