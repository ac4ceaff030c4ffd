package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test data setup
func setupTestFiles(t *testing.T) string {
	t.Helper()
	// Keep a stray ~/.mgrep.kdl from leaking into the tests
	t.Setenv("HOME", t.TempDir())

	tempDir := t.TempDir()
	testFiles := map[string]string{
		"A":         "foo bar\nbaz\nfoobar\n",
		"B":         "nothing\nfoo\n",
		"empty.txt": "",
		"blob.bin":  "foo foo foo\n",
	}
	for path, content := range testFiles {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, path), []byte(content), 0644))
	}
	return tempDir
}

func runCLI(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(append([]string{"mgrep"}, args...), &out, &errOut)
	return out.String(), errOut.String(), code
}

func lines(s string) []string {
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func TestCLI_SingleFile(t *testing.T) {
	dir := setupTestFiles(t)
	a := filepath.Join(dir, "A")

	stdout, stderr, code := runCLI(t, "foo", a)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	assert.Equal(t, []string{
		"<" + a + " : 1>: foo bar",
		"<" + a + " : 3>: foobar",
		"Task 0: 2 matches are found in file " + a,
		"Total matched lines: 2",
	}, lines(stdout))
}

func TestCLI_MissingFileKeepsSuccessStatus(t *testing.T) {
	dir := setupTestFiles(t)
	a := filepath.Join(dir, "A")
	missing := filepath.Join(dir, "missing")

	stdout, _, code := runCLI(t, "foo", a, missing)

	assert.Equal(t, 0, code)
	out := lines(stdout)
	assert.Contains(t, out, "Task 1 could not open <"+missing+"> file for reading: no such file or directory")
	assert.Contains(t, out, "Task 0: 2 matches are found in file "+a)
	assert.Equal(t, "Total matched lines: 2", out[len(out)-1])
}

func TestCLI_MultipleFiles(t *testing.T) {
	dir := setupTestFiles(t)
	a, b, empty := filepath.Join(dir, "A"), filepath.Join(dir, "B"), filepath.Join(dir, "empty.txt")

	stdout, _, code := runCLI(t, "foo", a, b, empty)

	assert.Equal(t, 0, code)
	out := lines(stdout)
	assert.Contains(t, out, "Task 1: 1 matches are found in file "+b)
	assert.Contains(t, out, "Task 2: 0 matches are found in file "+empty)
	assert.Contains(t, out, "<"+b+" : 2>: foo")
	assert.Equal(t, "Total matched lines: 3", out[len(out)-1])
}

func TestCLI_EmptyPatternMatchesEveryLine(t *testing.T) {
	dir := setupTestFiles(t)
	a := filepath.Join(dir, "A")

	stdout, _, code := runCLI(t, "", a)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Task 0: 3 matches are found in file "+a)
	assert.Contains(t, stdout, "Total matched lines: 3\n")
}

func TestCLI_UsageErrors(t *testing.T) {
	setupTestFiles(t)

	tests := []struct {
		name    string
		args    []string
		message string
	}{
		{"no arguments", nil, "Error: incorrect number of command line arguments."},
		{"pattern only", []string{"foo"}, "Error: incorrect number of command line arguments."},
		{"pattern too long", []string{strings.Repeat("p", 1025), "file"}, "Error: pattern string is larger than max line length of 1024."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, code := runCLI(t, tt.args...)

			assert.Equal(t, 1, code)
			assert.Empty(t, stdout, "no task may run on a usage error")
			assert.Contains(t, stderr, tt.message)
			assert.Contains(t, stderr, usageLine)
		})
	}
}

func TestCLI_PatternAtLimitIsAccepted(t *testing.T) {
	dir := setupTestFiles(t)
	a := filepath.Join(dir, "A")

	stdout, _, code := runCLI(t, strings.Repeat("p", 1024), a)

	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Total matched lines: 0\n")
}

func TestCLI_ExcludeFlag(t *testing.T) {
	dir := setupTestFiles(t)
	a, blob := filepath.Join(dir, "A"), filepath.Join(dir, "blob.bin")

	stdout, _, code := runCLI(t, "--exclude", "**/*.bin", "foo", a, blob)

	assert.Equal(t, 0, code)
	assert.NotContains(t, stdout, blob)
	assert.Equal(t, "Total matched lines: 2", lines(stdout)[len(lines(stdout))-1])
}

func TestCLI_ExcludeEverything(t *testing.T) {
	dir := setupTestFiles(t)
	blob := filepath.Join(dir, "blob.bin")

	stdout, _, code := runCLI(t, "-x", "**/*.bin", "foo", blob)

	assert.Equal(t, 0, code)
	assert.Equal(t, "Total matched lines: 0\n", stdout)
}

func TestCLI_ExcludeNeedsWorkingDirectory(t *testing.T) {
	dir := setupTestFiles(t)
	a := filepath.Join(dir, "A")

	oldGetwd := getwd
	getwd = func() (string, error) { return "", errors.New("getwd: no such file or directory") }
	defer func() { getwd = oldGetwd }()

	stdout, stderr, code := runCLI(t, "-x", "**/*.bin", "foo", a)

	assert.Equal(t, 1, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "failed to resolve working directory")

	// Without exclude patterns the working directory is never needed
	stdout, _, code = runCLI(t, "foo", a)
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Total matched lines: 2\n")
}

func TestCLI_ConfigFile(t *testing.T) {
	dir := setupTestFiles(t)
	a, blob := filepath.Join(dir, "A"), filepath.Join(dir, "blob.bin")

	cfgPath := filepath.Join(dir, "mgrep.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("exclude = [\"**/*.bin\"]\n[search]\nbuffer_size = \"8KB\"\n"), 0644))

	stdout, _, code := runCLI(t, "--config", cfgPath, "foo", a, blob)

	assert.Equal(t, 0, code)
	assert.NotContains(t, stdout, "blob.bin")
	assert.Contains(t, stdout, "Total matched lines: 2\n")
}

func TestCLI_ConfigErrors(t *testing.T) {
	dir := setupTestFiles(t)
	a := filepath.Join(dir, "A")

	_, stderr, code := runCLI(t, "--config", filepath.Join(dir, "absent.kdl"), "foo", a)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "failed to load config")

	_, stderr, code = runCLI(t, "--max-tasks", "-1", "foo", a)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "search.max_tasks")
}

func TestCLI_MaxTasksCoversAllFiles(t *testing.T) {
	dir := setupTestFiles(t)
	files := make([]string, 3)
	for i := range files {
		files[i] = filepath.Join(dir, fmt.Sprintf("big%d.txt", i))
		require.NoError(t, os.WriteFile(files[i], []byte(strings.Repeat("foo line\n", 20000)), 0644))
	}

	// More files than the cap: extra tasks wait for a slot instead of failing
	stdout, stderr, code := runCLI(t, append([]string{"--max-tasks", "1", "foo"}, files...)...)

	assert.Equal(t, 0, code)
	assert.Empty(t, stderr)
	for i, f := range files {
		assert.Contains(t, stdout, fmt.Sprintf("Task %d: 20000 matches are found in file %s\n", i, f))
	}
	assert.True(t, strings.HasSuffix(stdout, "Total matched lines: 60000\n"))
}

func TestCLI_VerboseWritesDebugToStderr(t *testing.T) {
	dir := setupTestFiles(t)
	a := filepath.Join(dir, "A")

	stdout, stderr, code := runCLI(t, "--verbose", "foo", a)

	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "[DEBUG:SEARCH]")
	assert.NotContains(t, stdout, "[DEBUG")
	assert.Contains(t, stdout, "Total matched lines: 2\n")

	// Debug state is reset after the run
	_, stderr, _ = runCLI(t, "foo", a)
	assert.NotContains(t, stderr, "[DEBUG")
}

func TestCLI_Idempotent(t *testing.T) {
	dir := setupTestFiles(t)
	a, b := filepath.Join(dir, "A"), filepath.Join(dir, "B")

	sorted := func(s string) map[string]int {
		counts := make(map[string]int)
		for _, l := range lines(s) {
			counts[l]++
		}
		return counts
	}

	first, _, _ := runCLI(t, "foo", a, b)
	second, _, _ := runCLI(t, "foo", a, b)

	// Cross-file order may differ between runs; content may not
	assert.Equal(t, sorted(first), sorted(second))
}
