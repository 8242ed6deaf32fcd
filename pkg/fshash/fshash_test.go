package fshash

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()

	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestTreeSHA256IndependentOfCreationOrder(t *testing.T) {
	first := t.TempDir()
	writeFile(t, first, "index.html", "<html>")
	writeFile(t, first, "css/style.css", "body {}")
	writeFile(t, first, "app.js", "let x = 1;")

	second := t.TempDir()
	writeFile(t, second, "app.js", "let x = 1;")
	writeFile(t, second, "css/style.css", "body {}")
	writeFile(t, second, "index.html", "<html>")

	a, err := TreeSHA256(first)
	require.NoError(t, err)
	b, err := TreeSHA256(second)
	require.NoError(t, err)

	require.NotEmpty(t, a)
	require.Equal(t, a, b)
}

func TestTreeSHA256DetectsContentChange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "<html>")

	before, err := TreeSHA256(dir)
	require.NoError(t, err)

	writeFile(t, dir, "index.html", "<html lang=\"en\">")

	after, err := TreeSHA256(dir)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestTreeSHA256DetectsRename(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.txt", "same bytes")

	before, err := TreeSHA256(dir)
	require.NoError(t, err)

	require.NoError(t, os.Rename(filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")))

	after, err := TreeSHA256(dir)
	require.NoError(t, err)
	require.NotEqual(t, before, after)
}

func TestTreeSHA256ExcludesManifest(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "index.html", "<html>")

	before, err := TreeSHA256(dir, "build_info.json")
	require.NoError(t, err)

	writeFile(t, dir, "build_info.json", "{\"gitCommit\": \"abc1234\"}")

	after, err := TreeSHA256(dir, "build_info.json")
	require.NoError(t, err)
	require.Equal(t, before, after)
}

func TestTreeSHA256MissingRoot(t *testing.T) {
	sum, err := TreeSHA256(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	require.Empty(t, sum)
}

func TestTreeSHA256RootIsAFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data", "not a directory")

	_, err := TreeSHA256(filepath.Join(dir, "data"))
	require.Error(t, err)
}
