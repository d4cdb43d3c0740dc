package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pydoxy/internal/errors"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootFiltersFile(t *testing.T) {
	path := writeFixture(t, "sample.py", `def greet():
    """Say hello."""
    return "hello"
`)

	out, err := execute(t, "-a", path)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !strings.Contains(out, "## @brief Say hello.") {
		t.Errorf("output missing brief tag:\n%s", out)
	}
	if !strings.Contains(out, "def greet():") {
		t.Errorf("output missing source line:\n%s", out)
	}
}

func TestRootMissingFile(t *testing.T) {
	_, err := execute(t, "-a", filepath.Join(t.TempDir(), "absent.py"))
	if err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if errors.CodeOf(err) != errors.FileUnreadable {
		t.Errorf("error code = %s, want %s", errors.CodeOf(err), errors.FileUnreadable)
	}
}

func TestRootCachedRunMatchesFreshRun(t *testing.T) {
	path := writeFixture(t, "mod.py", `"""Module docs."""
value = 1
`)
	cacheDir := t.TempDir()

	first, err := execute(t, "-a", "--cache-dir", cacheDir, path)
	if err != nil {
		t.Fatalf("first run error: %v", err)
	}
	second, err := execute(t, "-a", "--cache-dir", cacheDir, path)
	if err != nil {
		t.Fatalf("second run error: %v", err)
	}
	if first != second {
		t.Errorf("cached output differs:\nfirst:\n%s\nsecond:\n%s", first, second)
	}
	if !strings.Contains(first, "## @brief Module docs.") {
		t.Errorf("output missing module brief:\n%s", first)
	}
}

func TestRootFiltersSampleFixture(t *testing.T) {
	out, err := execute(t, "-a", "-c", filepath.Join("..", "..", "testdata", "sample.py"))
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	for _, want := range []string{
		"## @brief Greeting helpers used by the command line demo.",
		"# @param\t\tname\twho to greet",
		"# @return",
		"# @exception\t\tValueError\tname is empty",
		"# @protected",
		"## @property\t\tdefault_name",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCacheStatsCommand(t *testing.T) {
	out, err := execute(t, "cache", "stats", "--cache-dir", t.TempDir())
	if err != nil {
		t.Fatalf("cache stats error: %v", err)
	}
	if !strings.Contains(out, "entries: 0") {
		t.Errorf("unexpected stats output:\n%s", out)
	}
}
