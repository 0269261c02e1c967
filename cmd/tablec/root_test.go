// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tablec/internal/issue"
)

func TestGetVersionString(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "dev"
	if got := getVersionString(); got != "dev (built from source)" {
		t.Errorf("getVersionString() = %q", got)
	}

	Version = "1.2.3"
	if got := getVersionString(); !strings.HasPrefix(got, "1.2.3") {
		t.Errorf("getVersionString() = %q, want 1.2.3 prefix", got)
	}
}

func TestFormatErrorForDisplay(t *testing.T) {
	t.Parallel()

	plain := errors.New("boom")
	if got := formatErrorForDisplay(plain, false); got != "boom" {
		t.Errorf("plain error formatted as %q", got)
	}

	ae := issue.NewErrorContext().
		WithOperation("load typedef").
		WithSuggestion("Run 'tablec typedef' to create one.").
		Wrap(errors.New("no such file")).
		Build()
	got := formatErrorForDisplay(ae, false)
	if !strings.Contains(got, "load typedef") {
		t.Errorf("actionable error lost its operation: %q", got)
	}
}

func TestExitErrorUnwraps(t *testing.T) {
	t.Parallel()

	inner := errors.New("three tables failed")
	err := &ExitError{Code: 1, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("ExitError should unwrap to its cause")
	}
	if err.Error() != "three tables failed" {
		t.Errorf("Error() = %q", err.Error())
	}
	if (&ExitError{Code: 2}).Error() != "exit status 2" {
		t.Errorf("bare ExitError message = %q", (&ExitError{Code: 2}).Error())
	}
}

func TestCopyTree(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "out")

	if err := os.MkdirAll(filepath.Join(src, "data"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "data", "Items.dat"), []byte{1, 2, 3}, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "top.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := copyTree(src, dst); err != nil {
		t.Fatalf("copyTree: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "data", "Items.dat"))
	if err != nil {
		t.Fatalf("copied file missing: %v", err)
	}
	if len(data) != 3 || data[0] != 1 {
		t.Errorf("copied bytes = %v", data)
	}
	if _, err := os.Stat(filepath.Join(dst, "top.txt")); err != nil {
		t.Errorf("top-level file missing: %v", err)
	}
}
