package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/depmap/depmap/internal/output"
	"github.com/depmap/depmap/pkg/graph"
)

var hotspotsCmd = &cobra.Command{
	Use:     "hotspots [path]",
	Aliases: []string{"hs"},
	Short:   "Rank files by performance risk and git change activity",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runHotspots,
}

func init() {
	hotspotsCmd.Flags().Int("top", 20, "Show top N files")
	hotspotsCmd.Flags().Int("days", 0, "Days of git history to analyze (overrides config)")

	rootCmd.AddCommand(hotspotsCmd)
}

func runHotspots(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	topN, _ := cmd.Flags().GetInt("top")
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.History.Days = days
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, warnings, err := runAnalysis(ctx, cfg, argRoot(args))
	if err != nil {
		return err
	}
	printWarnings(cfg, warnings)

	g := result.Graph
	if g.Statistics.TotalFiles == 0 {
		fmt.Fprintln(os.Stderr, color.YellowString("No Python files found"))
	}

	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), outputFile, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.Output(map[string]any{
			"performance_hotspots": performanceHotspots(g, topN),
			"change_hotspots":      result.History.Hotspots,
			"stable_files":         result.History.StableFiles,
		})
	}

	perfNodes := performanceHotspots(g, topN)
	if len(perfNodes) > 0 {
		var rows [][]string
		for _, node := range perfNodes {
			rows = append(rows, []string{
				node.ID,
				color.RedString("%.2f", node.PerformanceScore),
				fmt.Sprintf("%d", node.CyclomaticComplexity),
				fmt.Sprintf("%d", node.HeavyOperations),
				fmt.Sprintf("%d", node.TotalLines),
			})
		}
		table := output.NewTable(
			"Performance Hotspots",
			[]string{"File", "Score", "Cyclomatic", "Heavy Ops", "Lines"},
			rows,
			nil,
			nil,
		)
		if err := formatter.Output(table); err != nil {
			return err
		}
	} else {
		color.Green("No performance hotspots detected")
	}

	if !result.History.Available {
		color.Yellow("Git history unavailable, skipping change hotspots")
		return nil
	}

	changeHotspots := result.History.Hotspots
	if len(changeHotspots) > topN {
		changeHotspots = changeHotspots[:topN]
	}
	if len(changeHotspots) == 0 {
		color.Green("No change hotspots in the last %d days", result.History.PeriodDays)
		return nil
	}

	var rows [][]string
	for _, rf := range changeHotspots {
		rows = append(rows, []string{
			rf.FilePath,
			output.ClassificationColor(rf.Classification, fmt.Sprintf("%.2f", rf.HotspotScore)),
			fmt.Sprintf("%d", rf.ChangeCount),
			fmt.Sprintf("%d", rf.TotalChurn),
		})
	}
	table := output.NewTable(
		fmt.Sprintf("Change Hotspots (Last %d Days)", result.History.PeriodDays),
		[]string{"File", "Hotspot", "Changes", "Churn"},
		rows,
		[]string{
			fmt.Sprintf("Files Analyzed: %d", result.History.TotalFilesAnalyzed),
			fmt.Sprintf("Hotspots: %d", len(result.History.Hotspots)),
			fmt.Sprintf("Stable: %d", len(result.History.StableFiles)),
			"",
		},
		result.History,
	)
	return formatter.Output(table)
}

// performanceHotspots returns hotspot nodes sorted by score, highest first.
func performanceHotspots(g *graph.Graph, topN int) []graph.Node {
	var nodes []graph.Node
	for _, node := range g.Nodes {
		if node.IsPerformanceHotspot {
			nodes = append(nodes, node)
		}
	}
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].PerformanceScore > nodes[j].PerformanceScore
	})
	if len(nodes) > topN {
		nodes = nodes[:topN]
	}
	return nodes
}
