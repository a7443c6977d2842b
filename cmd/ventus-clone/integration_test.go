package main

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// TestIntegration builds the binary and bootstraps a workspace from local
// bare repositories. git rewrites the https clone URLs to file:// ones.
func TestIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration tests in short mode")
	}

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available, skipping integration tests")
	}

	projectRoot, err := getProjectRoot()
	if err != nil {
		t.Fatalf("Failed to find project root: %v", err)
	}

	testDir := t.TempDir()

	t.Log("Building ventus-clone binary...")
	bin := filepath.Join(testDir, "ventus-clone")
	if err := buildVentusClone(projectRoot, bin); err != nil {
		t.Fatalf("Failed to build ventus-clone: %v", err)
	}

	remotes := filepath.Join(testDir, "remotes")
	seedRepository(t, testDir, remotes, "acme/alpha")
	seedRepository(t, testDir, remotes, "acme/beta", "dev")

	catalogPath := filepath.Join(testDir, "catalog.yaml")
	catalog := `host: github.com
repositories:
  - name: alpha
    remote: acme/alpha
  - name: beta
    remote: acme/beta
    branch: dev
`
	if err := os.WriteFile(catalogPath, []byte(catalog), 0644); err != nil {
		t.Fatalf("Failed to write catalog: %v", err)
	}

	scripts := filepath.Join(testDir, "scripts")
	os.MkdirAll(scripts, 0755)
	os.WriteFile(filepath.Join(scripts, "build-ventus.sh"), []byte("#!/bin/bash\n"), 0755)
	os.WriteFile(filepath.Join(scripts, "env.sh"), []byte("export VENTUS=1\n"), 0644)

	workspace := filepath.Join(testDir, "ventus")
	env := append(os.Environ(),
		"GIT_CONFIG_COUNT=1",
		"GIT_CONFIG_KEY_0=url.file://"+remotes+"/.insteadOf",
		"GIT_CONFIG_VALUE_0=https://github.com/",
	)

	run := func(t *testing.T) string {
		cmd := exec.Command(bin, "--yes",
			"--target", workspace,
			"--catalog", catalogPath,
			"--scripts-dir", scripts,
		)
		cmd.Env = env

		// Log lines, failures included, must land on stdout
		var stdout, stderr bytes.Buffer
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		if err := cmd.Run(); err != nil {
			t.Fatalf("ventus-clone failed: %v\nStdout: %s\nStderr: %s", err, stdout.String(), stderr.String())
		}
		return stdout.String()
	}

	t.Run("Fresh", func(t *testing.T) {
		output := run(t)

		for _, file := range []string{"alpha/README", "beta/README", "build-ventus.sh", "env.sh"} {
			if _, err := os.Stat(filepath.Join(workspace, file)); err != nil {
				t.Errorf("Expected file not found: %s", file)
			}
		}

		if branch := currentBranch(t, filepath.Join(workspace, "beta")); branch != "dev" {
			t.Errorf("Expected beta on dev, got %s", branch)
		}

		if !strings.Contains(output, "build-ventus.sh") {
			t.Errorf("Output does not mention the build script:\n%s", output)
		}
	})

	t.Run("Rerun", func(t *testing.T) {
		output := run(t)

		if !strings.Contains(output, "already exists") {
			t.Errorf("Expected existing checkouts to be reported:\n%s", output)
		}
		if branch := currentBranch(t, filepath.Join(workspace, "beta")); branch != "dev" {
			t.Errorf("Expected beta on dev, got %s", branch)
		}
	})
}

// seedRepository creates remotes/<remote>.git with one commit and the
// given extra branches
func seedRepository(t *testing.T, testDir, remotes, remote string, branches ...string) {
	t.Helper()

	src := filepath.Join(testDir, "src", remote)
	if err := os.MkdirAll(src, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", src, err)
	}
	os.WriteFile(filepath.Join(src, "README"), []byte(remote+"\n"), 0644)

	git(t, "init", "-q", src)
	git(t, "-C", src, "add", ".")
	git(t, "-C", src, "-c", "user.name=ventus", "-c", "user.email=ventus@example.com", "commit", "-q", "-m", "init")
	for _, b := range branches {
		git(t, "-C", src, "branch", b)
	}

	git(t, "clone", "-q", "--bare", src, filepath.Join(remotes, remote+".git"))
}

func currentBranch(t *testing.T, dir string) string {
	t.Helper()
	out, err := exec.Command("git", "-C", dir, "rev-parse", "--abbrev-ref", "HEAD").Output()
	if err != nil {
		t.Fatalf("Failed to read branch of %s: %v", dir, err)
	}
	return strings.TrimSpace(string(out))
}

func git(t *testing.T, args ...string) {
	t.Helper()
	if output, err := exec.Command("git", args...).CombinedOutput(); err != nil {
		t.Fatalf("git %s failed: %v\nOutput: %s", strings.Join(args, " "), err, output)
	}
}

func getProjectRoot() (string, error) {
	// Try to find go.mod
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not find project root (go.mod)")
}

func buildVentusClone(projectRoot, out string) error {
	cmd := exec.Command("go", "build", "-o", out, "./cmd/ventus-clone")
	cmd.Dir = projectRoot
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}
