package fsops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCopyDir_RecursiveCopy(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "dist")

	writeFile(t, filepath.Join(src, "assets", "app.js"), "console.log(1)")
	writeFile(t, filepath.Join(src, "index.html"), "<html></html>")

	stats, err := CopyDir(src, dst)
	require.NoError(t, err)

	assert.Equal(t, "console.log(1)", readFile(t, filepath.Join(dst, "assets", "app.js")))
	assert.Equal(t, "<html></html>", readFile(t, filepath.Join(dst, "index.html")))
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, int64(len("console.log(1)")+len("<html></html>")), stats.Bytes)
}

func TestCopyDir_OverwritesExistingFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "index.html"), "A")
	writeFile(t, filepath.Join(dst, "index.html"), "B")

	_, err := CopyDir(src, dst)
	require.NoError(t, err)

	assert.Equal(t, "A", readFile(t, filepath.Join(dst, "index.html")))
}

func TestCopyDir_PreservesUnrelatedDestinationFiles(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	writeFile(t, filepath.Join(src, "new.txt"), "new")
	writeFile(t, filepath.Join(dst, "keep.txt"), "keep")

	_, err := CopyDir(src, dst)
	require.NoError(t, err)

	assert.Equal(t, "new", readFile(t, filepath.Join(dst, "new.txt")))
	assert.Equal(t, "keep", readFile(t, filepath.Join(dst, "keep.txt")))
}

func TestCopyDir_Idempotent(t *testing.T) {
	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "dist")

	writeFile(t, filepath.Join(src, "a", "b.txt"), "content")

	first, err := CopyDir(src, dst)
	require.NoError(t, err)
	second, err := CopyDir(src, dst)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "content", readFile(t, filepath.Join(dst, "a", "b.txt")))
}

func TestCopyDir_MissingSourceCreatesNothing(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "dist")

	_, err := CopyDir(filepath.Join(t.TempDir(), "nope"), dst)
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))

	// Destination must not have been created from a missing source.
	_, statErr := os.Stat(dst)
	assert.True(t, os.IsNotExist(statErr))
}

func TestCopyFile_PreservesMode(t *testing.T) {
	src := filepath.Join(t.TempDir(), "script.sh")
	dst := filepath.Join(t.TempDir(), "script.sh")
	require.NoError(t, os.WriteFile(src, []byte("#!/bin/sh\n"), 0o755))

	n, err := CopyFile(src, dst)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}
