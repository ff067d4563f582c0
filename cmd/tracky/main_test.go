package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(append([]string{"--data-dir", dir, "--no-color"}, args...))
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIWorkflow(t *testing.T) {
	t.Setenv("TRACKY_STORE", "")
	dir := t.TempDir()

	out, _, err := execute(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "No trackers exist\n", out)

	out, _, err = execute(t, dir, "new", "a")
	require.NoError(t, err)
	assert.Equal(t, "Created new tracker a (selected)\n", out)
	_, _, err = execute(t, dir, "new", "b")
	require.NoError(t, err)

	out, _, err = execute(t, dir, "list")
	require.NoError(t, err)
	assert.Equal(t, "> a\n  b\n", out)

	out, _, err = execute(t, dir, "switch", "b")
	require.NoError(t, err)
	assert.Equal(t, "Switched to b\n", out)

	out, _, err = execute(t, dir, "current")
	require.NoError(t, err)
	assert.Equal(t, "Current tracker: b\n", out)

	_, _, err = execute(t, dir, "start", "--note", "deep work")
	require.NoError(t, err)
	_, stderr, err := execute(t, dir, "start")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "Tracker is already running\n", stderr)

	out, _, err = execute(t, dir, "stop")
	require.NoError(t, err)
	assert.Contains(t, out, "Stopped b: deep work (")
}

func TestCLIReportsDomainErrors(t *testing.T) {
	t.Setenv("TRACKY_STORE", "")
	dir := t.TempDir()

	_, stderr, err := execute(t, dir, "switch", "ghost")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "ghost does not exist\n", stderr)

	_, stderr, err = execute(t, dir, "stop")
	require.ErrorIs(t, err, errReported)
	assert.Equal(t, "No tracker selected\n", stderr)

	_, _, err = execute(t, dir, "new")
	assert.Error(t, err)
}

func TestCLIStoreFlagSelectsBackend(t *testing.T) {
	t.Setenv("TRACKY_STORE", "")
	dir := t.TempDir()
	_, _, err := execute(t, dir, "--store", "yaml", "new", "garden")
	require.NoError(t, err)
	assert.FileExists(t, dir+"/data.yaml")

	_, _, err = execute(t, dir, "--store", "csv", "list")
	assert.Error(t, err)
}
