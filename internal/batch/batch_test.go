package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotset/plotembed/internal/embed"
	"github.com/plotset/plotembed/internal/testable"
)

const testTemplate = `<html><head></head><body><div id="chart"></div></body></html>`

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
}

func newRunner(t *testing.T) *Runner {
	t.Helper()
	asm, err := embed.New(embed.Options{ExternalURL: "https://cdn.example.com/"})
	require.NoError(t, err)
	return &Runner{Assembler: asm, Concurrency: 2}
}

func TestLoad_TOML(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"batch.toml": `
template = "tmpl.html"
output_dir = "out"
watermark = true

[[jobs]]
name = "sales"
data = "sales.csv"
settings = "settings.json"

[[jobs]]
data = "other.csv"
template = "custom.html"
watermark = false
`,
	})

	m, err := Load(testable.DefaultFS, filepath.Join(dir, "batch.toml"))
	require.NoError(t, err)
	require.Len(t, m.Jobs, 2)

	sales := m.Jobs[0]
	assert.Equal(t, "sales", sales.Name)
	assert.Equal(t, "tmpl.html", sales.Template)
	assert.Equal(t, filepath.Join("out", "sales.html"), sales.Output)
	require.NotNil(t, sales.Watermark)
	assert.True(t, *sales.Watermark)
	assert.NotEmpty(t, sales.ID)

	other := m.Jobs[1]
	assert.True(t, strings.HasPrefix(other.Name, "job-"))
	assert.Equal(t, "job-"+other.ID[:8], other.Name)
	assert.Equal(t, "custom.html", other.Template)
	require.NotNil(t, other.Watermark)
	assert.False(t, *other.Watermark)
	assert.NotEqual(t, sales.ID, other.ID)

	assert.Equal(t, filepath.Join(dir, "sales.csv"), m.Resolve("sales.csv"))
	assert.Equal(t, "/abs/x.csv", m.Resolve("/abs/x.csv"))
	assert.Empty(t, m.Resolve(""))
}

func TestLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"batch.yml": `
template: tmpl.html
reference_url: https://plotset.com/
jobs:
  - name: a
    data: a.csv
    output: a/index.html
`,
	})

	m, err := Load(testable.DefaultFS, filepath.Join(dir, "batch.yml"))
	require.NoError(t, err)
	require.Len(t, m.Jobs, 1)
	assert.Equal(t, "a/index.html", m.Jobs[0].Output)
	assert.Equal(t, "https://plotset.com/", m.Jobs[0].ReferenceURL)
	assert.Nil(t, m.Jobs[0].Watermark)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{"unknown extension", "batch.json", `{}`, "unsupported extension"},
		{"no jobs", "batch.toml", `template = "x"`, "no jobs"},
		{"bad toml", "batch.toml", `[[jobs]`, "parsing manifest"},
		{"missing data", "batch.toml", "[[jobs]]\nname = \"a\"\ntemplate = \"t\"\n", "data is required"},
		{"missing template", "batch.toml", "[[jobs]]\nname = \"a\"\ndata = \"d\"\n", "no template"},
		{"settings and config", "batch.toml", "template = \"t\"\n[[jobs]]\ndata = \"d\"\nsettings = \"s\"\nconfig = \"c\"\n", "mutually exclusive"},
		{"duplicate names", "batch.yaml", "template: t\njobs:\n  - {name: a, data: d}\n  - {name: a, data: e}\n", "already used"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{tt.file: tt.content})
			_, err := Load(testable.DefaultFS, filepath.Join(dir, tt.file))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ReadError(t *testing.T) {
	fsys := &testable.MockFileSystem{
		ReadFileFn: func(string) ([]byte, error) { return nil, os.ErrPermission },
	}
	_, err := Load(fsys, "batch.toml")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestRun_GeneratesEveryJob(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"tmpl.html":     testTemplate,
		"sales.csv":     "region,total\nnorth,10\nsouth,20\n",
		"settings.json": `[{"rows":[{"components":[{"field":"title","type":"text","default":"Sales"}]}]}]`,
		"config.json":   `{"title":"Raw"}`,
		"binding.json":  `{"x":"region","y":"total"}`,
		"batch.toml": `
template = "tmpl.html"
output_dir = "out"

[[jobs]]
name = "from-settings"
data = "sales.csv"
settings = "settings.json"
binding = "binding.json"

[[jobs]]
name = "from-config"
data = "sales.csv"
config = "config.json"
watermark = true
`,
	})

	m, err := Load(testable.DefaultFS, filepath.Join(dir, "batch.toml"))
	require.NoError(t, err)

	results, err := newRunner(t).Run(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 0, Failed(results))

	first, err := os.ReadFile(filepath.Join(dir, "out", "from-settings.html"))
	require.NoError(t, err)
	assert.Contains(t, string(first), `{"title":"Sales"}`)
	assert.Contains(t, string(first), `{"x":"region","y":"total"}`)
	assert.Equal(t, len(first), results[0].Bytes)
	assert.Equal(t, "from-settings", results[0].Job.Name)

	second, err := os.ReadFile(filepath.Join(dir, "out", "from-config.html"))
	require.NoError(t, err)
	assert.Contains(t, string(second), `{"title":"Raw"}`)
	assert.Contains(t, string(second), "}, true);")
}

func TestRun_FailureDoesNotStopOtherJobs(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"tmpl.html": testTemplate,
		"good.csv":  "a\n1\n",
		"bad.csv":   "a,b\n\"unterminated\n",
		"batch.yaml": `
template: tmpl.html
jobs:
  - {name: missing, data: nope.csv}
  - {name: bad, data: bad.csv}
  - {name: good, data: good.csv}
`,
	})

	m, err := Load(testable.DefaultFS, filepath.Join(dir, "batch.yaml"))
	require.NoError(t, err)

	results, err := newRunner(t).Run(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, 2, Failed(results))

	assert.ErrorIs(t, results[0].Err, os.ErrNotExist)
	assert.Error(t, results[1].Err)
	assert.NoError(t, results[2].Err)
	assert.FileExists(t, filepath.Join(dir, "good.html"))
	assert.NoFileExists(t, filepath.Join(dir, "bad.html"))
}

func TestRun_WriteError(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"tmpl.html":  testTemplate,
		"a.csv":      "a\n1\n",
		"batch.toml": "template = \"tmpl.html\"\n[[jobs]]\nname = \"a\"\ndata = \"a.csv\"\n",
	})
	m, err := Load(testable.DefaultFS, filepath.Join(dir, "batch.toml"))
	require.NoError(t, err)

	r := newRunner(t)
	r.FS = &testable.MockFileSystem{
		WriteFileFn: func(string, []byte, os.FileMode) error { return os.ErrPermission },
	}
	results, err := r.Run(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.ErrorIs(t, results[0].Err, os.ErrPermission)
	assert.Zero(t, results[0].Bytes)
}

func TestRun_Canceled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"tmpl.html":  testTemplate,
		"a.csv":      "a\n1\n",
		"batch.toml": "template = \"tmpl.html\"\n[[jobs]]\ndata = \"a.csv\"\n[[jobs]]\ndata = \"a.csv\"\n",
	})
	m, err := Load(testable.DefaultFS, filepath.Join(dir, "batch.toml"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := newRunner(t).Run(ctx, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	for _, r := range results {
		assert.Error(t, r.Err)
	}
}
