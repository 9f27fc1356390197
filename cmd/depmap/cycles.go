package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/depmap/depmap/internal/output"
	"github.com/depmap/depmap/pkg/graph"
)

var cyclesCmd = &cobra.Command{
	Use:   "cycles [path]",
	Short: "Detect circular import chains",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCycles,
}

func init() {
	rootCmd.AddCommand(cyclesCmd)
}

func runCycles(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	// Cycle detection only needs the edge set.
	cfg.History.Enabled = false

	ctx, cancel := signalContext()
	defer cancel()

	result, warnings, err := runAnalysis(ctx, cfg, argRoot(args))
	if err != nil {
		return err
	}
	printWarnings(cfg, warnings)

	cycles := graph.DetectCycles(result.Graph)

	formatter, err := output.NewFormatter(output.ParseFormat(cfg.Output.Format), outputFile, cfg.Output.Color)
	if err != nil {
		return err
	}
	defer formatter.Close()

	if formatter.Format() == output.FormatJSON {
		return formatter.Output(map[string]any{
			"cycles": cycles,
			"count":  len(cycles),
		})
	}

	if len(cycles) == 0 {
		color.Green("No import cycles found")
		return nil
	}

	color.Red("Found %d import cycle(s):", len(cycles))
	for i, cycle := range cycles {
		fmt.Fprintf(formatter.Writer(), "  %d. %s\n", i+1, strings.Join(cycle, " <-> "))
	}
	return nil
}
