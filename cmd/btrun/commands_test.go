package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTree(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tree.yaml")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestNodesListsBuiltins(t *testing.T) {
	out, err := execute(t, "nodes")
	require.NoError(t, err)
	assert.Contains(t, out, "Selector")
	assert.Contains(t, out, "decorator")
	assert.Contains(t, out, "MoveTo")
}

func TestValidate(t *testing.T) {
	good := writeTree(t, "name: ok\nroot: {type: Log, params: {message: hi}}\n")
	out, err := execute(t, "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "1 nodes")

	bad := writeTree(t, "root: {type: Inverter}\n")
	_, err = execute(t, "validate", bad)
	assert.Error(t, err)
}

func TestRunUntilTreesFinish(t *testing.T) {
	tree := writeTree(t, "root: {type: Result, params: {ret: FAIL}}\n")
	_, err := execute(t, "run", tree, "--frame-rate", "1000", "--count", "2", "--log-level", "error")
	assert.NoError(t, err)
}

func TestRunFrameLimit(t *testing.T) {
	tree := writeTree(t, "root: {type: Wait, params: {duration: 1h}}\n")
	_, err := execute(t, "run", tree, "--frame-rate", "1000", "--max-frames", "3", "--log-level", "error")
	assert.NoError(t, err)
}

func TestRunNeedsTrees(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)
}
