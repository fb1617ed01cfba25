// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Profilium Contributors

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with args and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// useTempStorage points the store and index paths at a temp dir.
func useTempStorage(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("PROFILIUM_STORAGE_DATABASE_PATH", filepath.Join(dir, "profiles.db"))
	t.Setenv("PROFILIUM_STORAGE_INDEX_PATH", filepath.Join(dir, "profiles.idx"))
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "profilium")
}

func TestRootListsSubcommands(t *testing.T) {
	root := NewRootCmd()
	names := make(map[string]bool)
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "index", "add", "search", "ask", "export", "import", "status", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}

func TestAddAndSearchCommands(t *testing.T) {
	useTempStorage(t)

	out, err := execute(t, "add", "--name", "Jane Doe", "--role", "Managing Director")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")

	out, err = execute(t, "search", "director")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")

	out, err = execute(t, "search", "nomatch")
	require.NoError(t, err)
	assert.Contains(t, out, "no matches")
}

func TestAddDuplicateNameFails(t *testing.T) {
	useTempStorage(t)

	_, err := execute(t, "add", "--name", "Jane Doe", "--role", "CEO")
	require.NoError(t, err)

	_, err = execute(t, "add", "--name", "Jane Doe", "--role", "CTO")
	assert.Error(t, err)
}

func TestAddRequiresFlags(t *testing.T) {
	useTempStorage(t)
	_, err := execute(t, "add", "--name", "Jane Doe")
	assert.Error(t, err)
}

func TestExportImportCommands(t *testing.T) {
	dir := useTempStorage(t)

	_, err := execute(t, "add", "--name", "Jane Doe", "--role", "CEO", "--bio", "Founder")
	require.NoError(t, err)

	exportPath := filepath.Join(dir, "export.json")
	out, err := execute(t, "export", "--out", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "exported 1 profiles")

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Jane Doe")

	// Merging import skips the existing name.
	out, err = execute(t, "import", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "added 0 profiles, skipped 1")

	// Replace import swaps the whole store.
	out, err = execute(t, "import", "--replace", exportPath)
	require.NoError(t, err)
	assert.Contains(t, out, "replaced store with 1 profiles")
}

func TestStatusCommand(t *testing.T) {
	useTempStorage(t)

	_, err := execute(t, "add", "--name", "Jane Doe", "--role", "CEO")
	require.NoError(t, err)

	out, err := execute(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, "profiles: 1")
	assert.Contains(t, out, "index: not built")
}
