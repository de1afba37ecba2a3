package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	plotlog "github.com/plotset/plotembed/internal/log"
)

// Global flag values.
var (
	verbose   bool
	quiet     bool
	noColor   bool
	logFormat string
)

// rootCmd is the base command for plotembed.
var rootCmd = &cobra.Command{
	Use:   "plotembed",
	Short: "Build self-contained PlotSet chart embeds",
	Long: `Plotembed turns an HTML chart template, CSV data and chart settings into a
single self-contained embed document. The data and settings travel inside one
generated script element, escaped so that no value can break out of it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		if noColor {
			color.NoColor = true
		}
		if err := plotlog.Setup(verbose, quiet, logFormat); err != nil {
			return exitError(ExitInvalidArgs, "plotembed: %v", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", plotlog.FormatText, "log format: text or json")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
