package buildenv

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestResolveExplicitDirWins(t *testing.T) {
	t.Setenv("PROJECT_DIR", "/from/env")

	ctx, err := Resolve("/explicit")
	require.NoError(t, err)
	require.Equal(t, "/explicit", ctx.ProjectDir)
}

func TestResolveFromEnvironment(t *testing.T) {
	t.Setenv("PROJECT_DIR", "/from/env")
	t.Setenv("PIOENV", "esp32dev")

	ctx, err := Resolve("")
	require.NoError(t, err)
	require.Equal(t, "/from/env", ctx.ProjectDir)
	require.Equal(t, "esp32dev", ctx.PioEnv)
	require.Nil(t, ctx.Integration)
}

func TestResolveStandaloneFallsBackToExecutableDir(t *testing.T) {
	t.Setenv("PROJECT_DIR", "")

	ctx, err := Resolve("")
	require.NoError(t, err)

	exe, err := os.Executable()
	require.NoError(t, err)
	require.Equal(t, filepath.Dir(exe), ctx.ProjectDir)
}

func TestFlagFileWritesDefinesInOrder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuild.flags")
	ff := NewFlagFile(path)

	require.NoError(t, ff.Define("FIRMWARE_GIT_SHA", "abc1234"))
	require.NoError(t, ff.Define("FIRMWARE_BUILD_UNIX", "1712345678"))
	require.NoError(t, ff.Flush())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "-DFIRMWARE_GIT_SHA=abc1234\n-DFIRMWARE_BUILD_UNIX=1712345678\n", string(data))
}

func TestFlagFileSkipsRewriteWhenUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prebuild.flags")

	first := NewFlagFile(path)
	require.NoError(t, first.Define("FIRMWARE_GIT_SHA", "abc1234"))
	require.NoError(t, first.Flush())

	// Backdate the file so an unwanted rewrite would be visible as a
	// fresher mtime.
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(path, past, past))

	second := NewFlagFile(path)
	require.NoError(t, second.Define("FIRMWARE_GIT_SHA", "abc1234"))
	require.NoError(t, second.Flush())

	stat, err := os.Stat(path)
	require.NoError(t, err)
	require.True(t, stat.ModTime().Equal(past))
}
