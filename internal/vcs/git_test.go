package vcs

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// fakeGit writes a script that records its arguments and exits with code
func fakeGit(t *testing.T, code string) (*ExecClient, string) {
	t.Helper()

	dir := t.TempDir()
	record := filepath.Join(dir, "args")
	script := filepath.Join(dir, "git")
	body := "#!/bin/sh\necho \"$@\" >> " + record + "\nexit " + code + "\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("Failed to write fake git: %v", err)
	}

	var out bytes.Buffer
	return &ExecClient{binary: script, stdout: &out, stderr: &out}, record
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read recorded args: %v", err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestCloneArguments(t *testing.T) {
	c, record := fakeGit(t, "0")
	ctx := context.Background()

	if err := c.Clone(ctx, "https://github.com/OCL-dev/ocl-icd.git", "/ws/ocl-icd", ""); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if err := c.Clone(ctx, "git@github.com:THU-DSP-LAB/pocl.git", "/ws/pocl", "dev-devices"); err != nil {
		t.Fatalf("Clone failed: %v", err)
	}
	if err := c.Checkout(ctx, "/ws/pocl", "dev-devices"); err != nil {
		t.Fatalf("Checkout failed: %v", err)
	}

	got := readArgs(t, record)
	want := []string{
		"clone --recursive https://github.com/OCL-dev/ocl-icd.git /ws/ocl-icd",
		"clone --recursive -b dev-devices git@github.com:THU-DSP-LAB/pocl.git /ws/pocl",
		"-C /ws/pocl checkout dev-devices",
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d invocations, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Invocation %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestCloneFailure(t *testing.T) {
	c, _ := fakeGit(t, "128")

	err := c.Clone(context.Background(), "https://example.invalid/x.git", "/ws/x", "")
	var cmdErr *CommandError
	if !errors.As(err, &cmdErr) {
		t.Fatalf("Expected CommandError, got %v", err)
	}
	if cmdErr.ExitCode != 128 {
		t.Errorf("Expected exit code 128, got %d", cmdErr.ExitCode)
	}
	if !strings.Contains(err.Error(), "non-zero exit status 128") {
		t.Errorf("Unexpected message: %s", err)
	}
}

func TestMissingBinary(t *testing.T) {
	c := &ExecClient{binary: filepath.Join(t.TempDir(), "no-such-git")}
	if c.Available() {
		t.Error("Missing binary reported as available")
	}
	if err := c.Checkout(context.Background(), "/ws", "main"); err == nil {
		t.Error("Expected error for missing binary")
	}
}
