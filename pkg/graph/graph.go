// Package graph assembles registry, import, scoring, and history results
// into the final dependency graph artifact.
package graph

import (
	"sort"

	gograph "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/depmap/depmap/pkg/analyzer/history"
	"github.com/depmap/depmap/pkg/analyzer/perf"
	"github.com/depmap/depmap/pkg/registry"
)

// defaultColor is used for folders missing from a color map. With colors
// assigned from the registry's own folder set this should not happen, but
// the lookup is total anyway.
const defaultColor = "#F0F0F0"

var colorPalette = []string{
	"#FF6B6B",
	"#4ECDC4",
	"#45B7D1",
	"#96CEB4",
	"#FFEAA7",
	"#DDA0DD",
	"#FFB347",
	"#87CEEB",
	"#DEB887",
	"#F0E68C",
	"#FFA07A",
	"#20B2AA",
	"#87CEFA",
	"#778899",
	"#B0C4DE",
	"#FFFFE0",
	"#00CED1",
	"#FF7F50",
	"#6495ED",
	"#DC143C",
}

// FolderColors assigns each folder a palette color. Folders are sorted
// before assignment so the mapping is deterministic for a given folder
// set; the palette cycles when there are more folders than colors.
func FolderColors(folders []string) map[string]string {
	sorted := make([]string, len(folders))
	copy(sorted, folders)
	sort.Strings(sorted)

	colors := make(map[string]string, len(sorted))
	for i, folder := range sorted {
		colors[folder] = colorPalette[i%len(colorPalette)]
	}
	return colors
}

// Assemble joins all pipeline outputs into a Graph. Scores, performance
// results, and history data are optional per file; missing entries leave
// the corresponding node fields at their zero defaults.
func Assemble(snap *registry.Snapshot, importance map[string]float64, perfResults map[string]perf.Result, hist *history.Analysis) *Graph {
	records := snap.Records()

	folderSet := make(map[string]struct{})
	for _, rec := range records {
		folderSet[rec.Folder] = struct{}{}
	}
	folders := make([]string, 0, len(folderSet))
	for folder := range folderSet {
		folders = append(folders, folder)
	}
	colors := FolderColors(folders)

	nodes := make([]Node, 0, len(records))
	nodeIndex := make(map[string]int, len(records))

	for i, rec := range records {
		color, ok := colors[rec.Folder]
		if !ok {
			color = defaultColor
		}

		node := Node{
			ID:           rec.ID,
			Name:         rec.DisplayName,
			Stem:         rec.Stem,
			Folder:       rec.Folder,
			Color:        color,
			FilePath:     rec.Path,
			ImportsCount: rec.InternalImportsCount(),
			Importance:   importance[rec.ID],
			IsTest:       rec.IsTest,
			IsInit:       rec.IsInit,
			Size:         rec.Size,
			Index:        i,

			ChangeClassification: "none",
			ChurnClassification:  "none",
			LastModified:         "unknown",
		}

		if result, ok := perfResults[rec.ID]; ok {
			node.PerformanceScore = result.Score
			node.IsPerformanceHotspot = result.IsHotspot
			node.CyclomaticComplexity = result.Cyclomatic
			node.TotalLines = result.TotalLines
			node.FunctionCount = result.FunctionCount
			node.HeavyOperations = result.HeavyOperations
			node.MaxNestingDepth = result.MaxNestingDepth
		}

		if activity, ok := lookupActivity(hist, rec.ID); ok {
			node.ChangeCount = activity.ChangeCount
			node.ChangeFrequencyScore = activity.ChangeFrequencyScore
			node.ChangeClassification = activity.ChangeClassification
			node.TotalChurn = activity.TotalChurn
			node.ChurnClassification = activity.ChurnClassification
			node.HotspotScore = activity.HotspotScore
			node.LastModified = activity.LastModified
		}

		nodes = append(nodes, node)
		nodeIndex[rec.ID] = i
	}

	edges := make([]Edge, 0)
	for _, rec := range records {
		sourceIndex := nodeIndex[rec.ID]
		for _, importedID := range rec.Imports {
			targetIndex, ok := nodeIndex[importedID]
			if !ok {
				continue
			}
			target := records[targetIndex]
			edges = append(edges, Edge{
				Source:        sourceIndex,
				Target:        targetIndex,
				SourceName:    rec.ID,
				TargetName:    importedID,
				SourceFolder:  rec.Folder,
				TargetFolder:  target.Folder,
				IsCrossFolder: rec.Folder != target.Folder,
				IsTestRelated: rec.IsTest || target.IsTest,
			})
		}
	}

	subfolders := make(map[string]FolderInfo, len(colors))
	for folder, color := range colors {
		info := FolderInfo{Color: color, Modules: []string{}, TestModules: []string{}}
		for _, node := range nodes {
			if node.Folder != folder {
				continue
			}
			info.Modules = append(info.Modules, node.Name)
			if node.IsTest {
				info.TestModules = append(info.TestModules, node.Name)
			}
			info.Count++
		}
		subfolders[folder] = info
	}

	stats := Statistics{
		TotalFiles:        len(nodes),
		TotalDependencies: len(edges),
		Folders:           len(subfolders),
	}
	for _, edge := range edges {
		if edge.IsCrossFolder {
			stats.CrossFolderDependencies++
		}
	}
	for _, node := range nodes {
		if node.IsTest {
			stats.TestFiles++
		}
	}
	if hist != nil {
		stats.GitAnalysisAvailable = hist.Available
		stats.HotspotsDetected = len(hist.Hotspots)
		stats.StableFilesDetected = len(hist.StableFiles)
	}

	return &Graph{
		Nodes:         nodes,
		Edges:         edges,
		SubfolderInfo: subfolders,
		Statistics:    stats,
	}
}

// lookupActivity matches a registry id against history data. History paths
// come from git and are repository-relative; when the analysis root is a
// subdirectory of the repository the id appears as a path suffix instead.
func lookupActivity(hist *history.Analysis, id string) (history.FileActivity, bool) {
	if hist == nil || !hist.Available {
		return history.FileActivity{}, false
	}
	if activity, ok := hist.Files[id]; ok {
		return activity, true
	}
	suffix := "/" + id
	for path, activity := range hist.Files {
		if len(path) > len(suffix) && path[len(path)-len(suffix):] == suffix {
			return activity, true
		}
	}
	return history.FileActivity{}, false
}

// DetectCycles returns the strongly connected import cycles in the graph,
// each as a list of node ids. Self-imports are ignored. Cycles and their
// members are sorted for stable output.
func DetectCycles(g *Graph) [][]string {
	dg := simple.NewDirectedGraph()
	for i := range g.Nodes {
		dg.AddNode(simple.Node(i))
	}
	for _, edge := range g.Edges {
		if edge.Source == edge.Target {
			continue
		}
		dg.SetEdge(dg.NewEdge(simple.Node(edge.Source), simple.Node(edge.Target)))
	}

	var cycles [][]string
	for _, component := range topo.TarjanSCC(dg) {
		if len(component) < 2 {
			continue
		}
		ids := make([]string, 0, len(component))
		for _, n := range component {
			ids = append(ids, g.Nodes[nodeID(n)].ID)
		}
		sort.Strings(ids)
		cycles = append(cycles, ids)
	}

	sort.Slice(cycles, func(i, j int) bool {
		return cycles[i][0] < cycles[j][0]
	})
	return cycles
}

func nodeID(n gograph.Node) int {
	return int(n.ID())
}
