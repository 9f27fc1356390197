package main

import (
	"github.com/spf13/cobra"

	"github.com/depmap/depmap/pkg/config"
)

var (
	cfgFile    string
	verbose    bool
	formatFlag string
	outputFile string
)

var rootCmd = &cobra.Command{
	Use:   "depmap",
	Short: "Python dependency graph analyzer",
	Long: `Depmap statically analyzes a Python project: it discovers source
files, resolves import relationships, ranks files by structural
importance, scores performance risk, and optionally enriches the
result with git change history.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file (TOML, YAML, or JSON)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "", "Output format: text, json, markdown")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "Write output to file")
}

// loadConfig loads the configured file or falls back to discovery and
// defaults, then applies global flag overrides.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	if cfgFile != "" {
		loaded, err := config.Load(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrDefault()
	}

	if formatFlag != "" {
		cfg.Output.Format = formatFlag
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	return cfg, nil
}
