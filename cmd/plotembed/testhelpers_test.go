package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/plotset/plotembed/internal/testable"
)

const testTemplate = `<!DOCTYPE html>
<html><head><script src="js/base.js"></script></head>
<body><div id="chart"></div></body></html>`

const testSettings = `[{"rows":[{"components":[
	{"field":"title","type":"input-text","default":"Sales"},
	{"field":"size","type":"input-slider","default":4,"min":0,"max":10,"step":1},
	{"field":"note","type":"input-text"}
]}]}]`

// newTestCmd redirects the shared rootCmd's output to fresh buffers.
func newTestCmd() (*cobra.Command, *bytes.Buffer, *bytes.Buffer) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetIn(new(bytes.Buffer))
	return rootCmd, stdout, stderr
}

// resetFlags restores every flag of every command to its default, so state
// from one Execute does not leak into the next.
func resetFlags() {
	var walk func(c *cobra.Command)
	walk = func(c *cobra.Command) {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
		for _, sub := range c.Commands() {
			walk(sub)
		}
	}
	walk(rootCmd)
	rootCmd.PersistentFlags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	resetConfigFlags()
}

// isolate runs the test in an empty directory with an empty global config
// and no PLOTEMBED_* overrides. It returns the directory.
func isolate(t *testing.T) string {
	t.Helper()
	resetFlags()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{
		"PLOTEMBED_EXTERNAL_URL", "PLOTEMBED_WATERMARK", "PLOTEMBED_REFERENCE_URL",
		"PLOTEMBED_SETTINGS_FORMAT", "PLOTEMBED_CONCURRENCY", "PLOTEMBED_ADDR",
		"PLOTEMBED_REQUEST_TIMEOUT", "PLOTEMBED_MAX_BODY_BYTES",
	} {
		t.Setenv(k, "")
	}
	return dir
}

// withMockFS swaps cmdFS with the given mock and restores it on test cleanup.
func withMockFS(t *testing.T, mock *testable.MockFileSystem) {
	t.Helper()
	orig := cmdFS
	cmdFS = mock
	t.Cleanup(func() { cmdFS = orig })
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// exitCode returns the exit code err would produce in main.
func exitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ece *exitCodeError
	if errors.As(err, &ece) {
		return ece.code
	}
	return ExitInvalidArgs
}
