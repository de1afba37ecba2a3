package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/plotset/plotembed/internal/testable"
)

// cmdFS is the file system implementation used by CLI commands.
// Override in tests with a testable.MockFileSystem.
var cmdFS testable.FileSystem = testable.DefaultFS

// readInput reads path, or stdin when path is "" or "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, exitError(ExitInvalidArgs, "plotembed: reading stdin (%v)", err)
		}
		return data, nil
	}
	data, err := cmdFS.ReadFile(path)
	if err != nil {
		return nil, exitError(ExitInvalidArgs, "plotembed: cannot open %q (%v)", path, err)
	}
	return data, nil
}

// readOptional is readInput for optional flags: "" yields nil.
func readOptional(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	return readInput(cmd, path)
}

// writeOutput writes data to path, or to stdout when path is "" or "-".
func writeOutput(cmd *cobra.Command, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return exitError(ExitFailure, "plotembed: writing output (%v)", err)
		}
		return nil
	}
	if err := cmdFS.WriteFile(path, data, 0o644); err != nil { //nolint:gosec // embed documents are meant to be served
		return exitError(ExitFailure, "plotembed: cannot write %q (%v)", path, err)
	}
	if !quiet {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d bytes)\n", path, len(data))
	}
	return nil
}
