package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/depmap/depmap/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:     "analyze [path]",
	Aliases: []string{"graph"},
	Short:   "Build the full dependency graph for a Python project",
	Args:    cobra.MaximumNArgs(1),
	RunE:    runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringSlice("exclude", nil, "Additional directory names to exclude")
	analyzeCmd.Flags().Int("days", 0, "Days of git history to analyze (overrides config)")
	analyzeCmd.Flags().Bool("no-history", false, "Skip git change-history enrichment")
	analyzeCmd.Flags().Bool("gitignore", false, "Also exclude files matched by .gitignore")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	exclude, _ := cmd.Flags().GetStringSlice("exclude")
	cfg.Exclude.Dirs = append(cfg.Exclude.Dirs, exclude...)
	if gitignore, _ := cmd.Flags().GetBool("gitignore"); gitignore {
		cfg.Exclude.Gitignore = true
	}
	if days, _ := cmd.Flags().GetInt("days"); days > 0 {
		cfg.History.Days = days
	}
	if noHistory, _ := cmd.Flags().GetBool("no-history"); noHistory {
		cfg.History.Enabled = false
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, warnings, err := runAnalysis(ctx, cfg, argRoot(args))
	if err != nil {
		return err
	}
	printWarnings(cfg, warnings)

	g := result.Graph
	// The empty graph is still a valid artifact; the notice must not
	// pollute piped output.
	if g.Statistics.TotalFiles == 0 {
		fmt.Fprintln(os.Stderr, color.YellowString("No Python files found"))
	}

	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), outputFile, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.Output(g)
	}

	folders := make([]string, 0, len(g.SubfolderInfo))
	for folder := range g.SubfolderInfo {
		folders = append(folders, folder)
	}
	sort.Strings(folders)

	var rows [][]string
	for _, folder := range folders {
		info := g.SubfolderInfo[folder]
		rows = append(rows, []string{
			folder,
			fmt.Sprintf("%d", info.Count),
			fmt.Sprintf("%d", len(info.TestModules)),
			info.Color,
		})
	}

	table := output.NewTable(
		"Dependency Graph Summary",
		[]string{"Folder", "Files", "Tests", "Color"},
		rows,
		[]string{
			fmt.Sprintf("Files: %d", g.Statistics.TotalFiles),
			fmt.Sprintf("Dependencies: %d", g.Statistics.TotalDependencies),
			fmt.Sprintf("Cross-folder: %d", g.Statistics.CrossFolderDependencies),
			fmt.Sprintf("Folders: %d", g.Statistics.Folders),
		},
		g,
	)
	return formatter.Output(table)
}
