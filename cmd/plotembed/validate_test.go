// Copyright 2026 The Plotembed Authors
// SPDX-License-Identifier: MIT

package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCmd_Valid(t *testing.T) {
	dir := isolate(t)
	writeTestFile(t, dir, "settings.json", testSettings)

	cmd, stdout, stderr := newTestCmd()
	cmd.SetArgs([]string{"validate", "settings.json"})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "valid: 1 sections, 3 components, 2 defaults\n", stdout.String())
	assert.Empty(t, stderr.String())
}

func TestValidateCmd_WarningsOnly(t *testing.T) {
	isolate(t)
	cmd, stdout, stderr := newTestCmd()
	cmd.SetIn(strings.NewReader(`[{"rows":[{"components":[
		{"field":"a","type":"gauge","default":1},
		{"field":"a","type":"input-number","default":2}
	]}]}]`))
	cmd.SetArgs([]string{"validate"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, stdout.String(), "warning(s))")
	assert.Contains(t, stderr.String(), "warning:")
}

func TestValidateCmd_Invalid(t *testing.T) {
	isolate(t)
	cmd, stdout, stderr := newTestCmd()
	cmd.SetIn(strings.NewReader(`[{"rows":[{"components":[
		{"field":"mode","type":"select","default":"a"}
	]}]},{}]`))
	cmd.SetArgs([]string{"validate"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Empty(t, stdout.String())

	out := stderr.String()
	assert.Contains(t, out, "error: [0].rows[0].components[0]:")
	assert.Contains(t, out, "error: [1]:")
	assert.Contains(t, out, "fix:")
	assert.Contains(t, out, "2 error(s)")
}

func TestValidateCmd_MissingFile(t *testing.T) {
	isolate(t)
	cmd, _, _ := newTestCmd()
	cmd.SetArgs([]string{"validate", "nope.json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitInvalidArgs, exitCode(err))
	assert.Contains(t, err.Error(), "cannot open")
}
