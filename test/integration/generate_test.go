// Package integration contains end-to-end tests for plotembed.
//
// These tests build the plotembed binary and run it against the fixtures in
// testdata/fixtures, checking the generated documents, exit codes and
// idempotency.
package integration

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// repoRoot returns the repository root directory.
func repoRoot(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	require.True(t, ok, "runtime.Caller failed")
	// test/integration/generate_test.go -> repo root
	return filepath.Dir(filepath.Dir(filepath.Dir(thisFile)))
}

// buildBinary compiles plotembed into a temp directory.
func buildBinary(t *testing.T) string {
	t.Helper()
	binary := filepath.Join(t.TempDir(), "plotembed-test")
	cmd := exec.Command("go", "build", "-o", binary, "./cmd/plotembed") //nolint:gosec // test helper
	cmd.Dir = repoRoot(t)
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "go build failed:\n%s", out)
	return binary
}

// fixtureCopy copies a named fixture directory into a temp directory so runs
// never write into the source tree.
func fixtureCopy(t *testing.T, name string) string {
	t.Helper()
	src := filepath.Join(repoRoot(t), "testdata", "fixtures", name)
	entries, err := os.ReadDir(src)
	require.NoError(t, err, "fixture %q not found", name)

	dst := t.TempDir()
	for _, e := range entries {
		data, err := os.ReadFile(filepath.Join(src, e.Name())) //nolint:gosec // test fixture
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(filepath.Join(dst, e.Name()), data, 0o600))
	}
	return dst
}

// run executes the binary in dir with an isolated config environment.
func run(t *testing.T, binary, dir string, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	cmd := exec.Command(binary, args...) //nolint:gosec // test helper
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+filepath.Join(dir, ".xdg"), "NO_COLOR=1")
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	if exitErr, ok := err.(*exec.ExitError); ok {
		code = exitErr.ExitCode()
	} else {
		require.NoError(t, err)
	}
	return out.String(), errOut.String(), code
}

var dataLiteral = regexp.MustCompile(`const _PLOTSET_DATA = (.*);`)

func TestGenerate_BarChart(t *testing.T) {
	binary := buildBinary(t)
	dir := fixtureCopy(t, "bar-chart")

	out, _, code := run(t, binary, dir, "generate",
		"-t", "chart.html", "-d", "data.csv",
		"--settings", "settings.json", "--binding", "binding.json",
		"--external-url", "https://embed.plotset.com/v2/", "--quiet")
	require.Equal(t, 0, code)

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, `src="https://embed.plotset.com/v2/js/d3.min.js"`)
	assert.Contains(t, out, `src="https://cdn.plotset.com/base.js"`)
	assert.Equal(t, 1, strings.Count(out, `<script type="text/javascript">`))
	assert.Contains(t, out, `{"title":"Revenue by region","showLegend":true,"barColor":"#3366cc","padding":8,"sort":"desc"}`)
	assert.Contains(t, out, `{"x":"region","y":"total","group":"col-1"}`)
	assert.Contains(t, out, `_PLOTSET_DATA["columns"] = ["region","col-1","total"];`)

	m := dataLiteral.FindStringSubmatch(out)
	require.Len(t, m, 2)
	var records []map[string]string
	require.NoError(t, json.Unmarshal([]byte(m[1]), &records))
	require.Len(t, records, 4)
	assert.Equal(t, map[string]string{"region": "North", "col-1": "Q1", "total": "120"}, records[0])
	assert.Equal(t, map[string]string{"region": "", "col-1": "", "total": ""}, records[2])
	assert.Equal(t, "", records[3]["total"])
}

func TestGenerate_Idempotent(t *testing.T) {
	binary := buildBinary(t)
	dir := fixtureCopy(t, "bar-chart")
	args := []string{"generate", "-t", "chart.html", "-d", "data.csv", "--settings", "settings.json", "--quiet"}

	first, _, code := run(t, binary, dir, args...)
	require.Equal(t, 0, code)
	second, _, code := run(t, binary, dir, args...)
	require.Equal(t, 0, code)
	assert.Equal(t, first, second)
}

func TestSettingsFlatten_Annotated(t *testing.T) {
	binary := buildBinary(t)
	dir := fixtureCopy(t, "bar-chart")

	out, _, code := run(t, binary, dir, "settings", "flatten", "settings.json", "--format", "annotated")
	require.Equal(t, 0, code)
	assert.Equal(t, strings.Join([]string{
		`"title": "Revenue by region", // string`,
		`"showLegend": true, // boolean`,
		`"barColor": "#3366cc", // rgb color`,
		`"padding": 8, // number - min: 0, max: 40, step: 2`,
		`"sort": "desc", // asc|desc|none`,
	}, "\n")+"\n", out)
}

func TestBatch_Fixture(t *testing.T) {
	binary := buildBinary(t)
	dir := fixtureCopy(t, "bar-chart")

	out, _, code := run(t, binary, dir, "batch", "batch.toml")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "revenue-watermarked")

	plain, err := os.ReadFile(filepath.Join(dir, "out", "revenue.html")) //nolint:gosec // test output
	require.NoError(t, err)
	marked, err := os.ReadFile(filepath.Join(dir, "out", "revenue-watermarked.html")) //nolint:gosec // test output
	require.NoError(t, err)
	assert.Contains(t, string(plain), "}, false);")
	assert.Contains(t, string(marked), "}, true);")
}

func TestErrorExitCodes(t *testing.T) {
	binary := buildBinary(t)
	dir := fixtureCopy(t, "bar-chart")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("a,b\n1,\"2\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`[{"rows":`), 0o600))

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"missing file", []string{"generate", "-t", "nope.html", "-d", "data.csv"}, 1, "cannot open"},
		{"broken csv", []string{"generate", "-t", "chart.html", "-d", "broken.csv"}, 2, "parse error"},
		{"broken settings", []string{"settings", "flatten", "broken.json"}, 2, "parse error"},
		{"lint failure", []string{"validate", "broken.json"}, 1, "invalid JSON"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := run(t, binary, dir, tt.args...)
			assert.Equal(t, tt.code, code)
			assert.Contains(t, stderr, tt.msg)
		})
	}
}
