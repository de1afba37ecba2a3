package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plotset/plotembed/internal/config"
)

func TestConfigSetGet_Repo(t *testing.T) {
	dir := isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "server.addr", ":9000"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Set server.addr = :9000\n", stdout.String())
	assert.FileExists(t, filepath.Join(dir, config.FileName))

	resetFlags()
	cmd, stdout, _ = newTestCmd()
	cmd.SetArgs([]string{"config", "get", "server.addr"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, ":9000\n", stdout.String())

	resetFlags()
	cmd, stdout, _ = newTestCmd()
	cmd.SetArgs([]string{"config", "get", "server"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "addr:")
}

func TestConfigSet_Global(t *testing.T) {
	isolate(t)

	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "set", "--global", "concurrency", "4"})
	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(config.GlobalConfigPath())
	require.NoError(t, err)
	assert.Contains(t, string(data), "concurrency: 4")
}

func TestConfigSet_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown key", []string{"config", "set", "colour", "red"}, "unknown key"},
		{"sub-key of scalar", []string{"config", "set", "watermark.on", "true"}, "scalar"},
		{"invalid url", []string{"config", "set", "external_url", "/static"}, "external_url"},
		{"bad timeout", []string{"config", "set", "server.request_timeout", "soon"}, "request_timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := isolate(t)
			cmd, _, _ := newTestCmd()
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
			assert.NoFileExists(t, filepath.Join(dir, config.FileName))
		})
	}
}

func TestConfigList(t *testing.T) {
	dir := isolate(t)

	cmd, stdout, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "list"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "No configuration set.")

	writeTestFile(t, dir, config.FileName, "watermark: true\n")
	require.NoError(t, os.MkdirAll(filepath.Dir(config.GlobalConfigPath()), 0o750))
	require.NoError(t, os.WriteFile(config.GlobalConfigPath(), []byte("watermark: false\nconcurrency: 2\n"), 0o600))

	resetFlags()
	cmd, stdout, _ = newTestCmd()
	cmd.SetArgs([]string{"--no-color", "config", "list"})
	require.NoError(t, cmd.Execute())
	out := stdout.String()
	assert.Contains(t, out, "concurrency = 2 (global)")
	assert.Contains(t, out, "watermark = true (repo)")
}

func TestConfigGet_UnknownKey(t *testing.T) {
	isolate(t)
	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"config", "get", "external_url"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
