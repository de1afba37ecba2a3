// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/validate"
)

// validateCmd lints a settings tree.
var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Lint a settings tree",
	Long: `Lint a settings tree and report every problem found, with a suggested fix.

Errors are problems that make flattening fail, such as a section without a
rows list or a select without options. Warnings flag trees that flatten but
probably not as intended, such as unknown widget types or duplicate fields.
The command exits with status 1 when any error is found.

Pass a file path as an argument, or pipe the tree via stdin:
  plotembed validate settings.json
  cat settings.json | plotembed validate`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	}
	data, err := readInput(cmd, path)
	if err != nil {
		return err
	}

	result := validate.Validate(bytes.NewReader(data))

	errOut := cmd.ErrOrStderr()
	for _, e := range result.Errors {
		_, _ = fmt.Fprintf(errOut, "%s:", e.Severity)
		if e.Path != "" {
			_, _ = fmt.Fprintf(errOut, " %s:", e.Path)
		}
		if e.Field != "" {
			_, _ = fmt.Fprintf(errOut, " %q:", e.Field)
		}
		_, _ = fmt.Fprintf(errOut, " %s\n", e.Message)
		if e.Suggestion != "" {
			_, _ = fmt.Fprintf(errOut, "  fix: %s\n", e.Suggestion)
		}
	}

	if !result.Valid() {
		_, _ = fmt.Fprintf(errOut, "\n%d error(s), %d warning(s) in %d components\n",
			result.Count(validate.SeverityError), result.Count(validate.SeverityWarning), result.Components)
		return exitError(ExitInvalidArgs, "")
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "valid: %d sections, %d components, %d defaults",
		result.Sections, result.Components, result.Defaults)
	if n := result.Count(validate.SeverityWarning); n > 0 {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), " (%d warning(s))", n)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	return nil
}
