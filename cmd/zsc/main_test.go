package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCompileInlineAddition(t *testing.T) {
	code := run([]string{"c", "-e", `fun add(a: Int32, b: Int32): Int32 { return a + b }`})
	assert.Equal(t, 0, code)
}

func TestRunCompileMissingArgsIsUsageError(t *testing.T) {
	assert.Equal(t, 2, run([]string{"c"}))
	assert.Equal(t, 2, run([]string{}))
	assert.Equal(t, 2, run([]string{"bogus"}))
}

func TestRunCompileValidateWritesDisassembly(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "add.dis")
	code := run([]string{"c", "-e", `fun add(a: Int32, b: Int32): Int32 { return a + b }`, "-o", out, "--validate"})
	require.Equal(t, 0, code)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "add")
}

func TestRunCompileCacheHitSkipsSecondRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "add.dis")
	cacheDir := filepath.Join(dir, "cache")
	src := `fun add(a: Int32, b: Int32): Int32 { return a + b }`

	require.Equal(t, 0, run([]string{"c", "-e", src, "-o", out, "--cache-dir", cacheDir}))
	require.Equal(t, 0, run([]string{"c", "-e", src, "-o", out, "--cache-dir", cacheDir}))
}

func TestRunInitScaffoldsManifest(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	code := run([]string{"init", "demo"})
	require.Equal(t, 0, code)
	assert.FileExists(t, "zs.yaml")
	assert.DirExists(t, "src")
}

func TestRunNewScaffoldsProject(t *testing.T) {
	dir := t.TempDir()
	proj := filepath.Join(dir, "myproj")
	code := run([]string{"new", proj, "myproj"})
	require.Equal(t, 0, code)
	assert.FileExists(t, filepath.Join(proj, "zs.yaml"))
	assert.DirExists(t, filepath.Join(proj, "src"))
}
