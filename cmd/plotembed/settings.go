package main

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/output"
	"github.com/plotset/plotembed/internal/settings"
)

// Settings-flatten flag values.
var (
	flattenFormat string
	flattenOutput string
)

// settingsCmd is the parent command for settings-tree subcommands.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Work with chart settings trees",
}

// settingsFlattenCmd prints the flat config of a settings tree.
var settingsFlattenCmd = &cobra.Command{
	Use:   "flatten [file]",
	Short: "Flatten a settings tree to its field defaults",
	Long: `Flatten a settings tree into a field-to-default map.

Only components with a default contribute. With --format annotated, every
entry is printed on its own line followed by a comment describing the
component's widget type; string values are printed as-is, without escaping.

Pass a file path as an argument, or pipe the tree via stdin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsFlatten,
}

func init() {
	settingsFlattenCmd.Flags().StringVarP(&flattenFormat, "format", "f", "",
		fmt.Sprintf("output format: %s (default from config, else json)", strings.Join(output.FormatNames(), ", ")))
	settingsFlattenCmd.Flags().StringVarP(&flattenOutput, "output", "o", "", "output file (default: stdout)")

	settingsCmd.AddCommand(settingsFlattenCmd)
}

func runSettingsFlatten(cmd *cobra.Command, args []string) error {
	format := flattenFormat
	if format == "" {
		opts, err := loadOptions(cmd, flagOverrides{})
		if err != nil {
			return err
		}
		format = opts.SettingsFormat
	}
	formatter, err := output.GetFormatter(format)
	if err != nil {
		return exitError(ExitInvalidArgs, "plotembed: %v", err)
	}

	var path string
	if len(args) > 0 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}
	tree, err := settings.Parse(data)
	if err != nil {
		return exitFor(err)
	}

	var buf bytes.Buffer
	if err := formatter.Format(tree, &buf); err != nil {
		return exitFor(err)
	}
	return writeOutput(cmd, flattenOutput, buf.Bytes())
}
