package testutil

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
)

var (
	// binaryPath caches the path to the built vaultlint binary.
	binaryPath string
	buildMu    sync.Mutex
	buildErr   error
)

// CLIResult represents the result of running a CLI command.
type CLIResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// BuildCLI builds the vaultlint binary and returns its path.
// This is called automatically by RunCLI but can be called
// explicitly if you need the binary path for other purposes.
func BuildCLI(t *testing.T) string {
	t.Helper()

	buildMu.Lock()
	defer buildMu.Unlock()

	// Reuse previously built binary if it still exists.
	if binaryPath != "" {
		if _, err := os.Stat(binaryPath); err == nil {
			return binaryPath
		}
		// Binary disappeared (can happen on some Windows runners with temp cleanup).
		binaryPath = ""
		buildErr = nil
	}

	projectRoot, err := findProjectRoot()
	if err != nil {
		buildErr = err
	} else {
		tmpDir, err := os.MkdirTemp("", "vaultlint-cli-bin-*")
		if err != nil {
			buildErr = err
		} else {
			binName := "vaultlint"
			if runtime.GOOS == "windows" {
				// Avoid relying on extension resolution in os/exec on Windows.
				binName = "vaultlint.exe"
			}

			binaryPath = filepath.Join(tmpDir, binName)
			cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/vaultlint")
			cmd.Dir = projectRoot
			output, err := cmd.CombinedOutput()
			if err != nil {
				buildErr = &BuildError{Output: string(output), Err: err}
				binaryPath = ""
			}
		}
	}

	if buildErr != nil {
		t.Fatalf("failed to build CLI: %v", buildErr)
	}

	return binaryPath
}

// BuildError represents an error building the CLI binary.
type BuildError struct {
	Output string
	Err    error
}

func (e *BuildError) Error() string {
	return e.Err.Error() + "\n" + e.Output
}

// findProjectRoot walks up the directory tree to find go.mod.
func findProjectRoot() (string, error) {
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
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// RunCLI executes a CLI command against the vault and returns the result.
// The vault path is passed via --vault automatically.
func (v *TestVault) RunCLI(args ...string) *CLIResult {
	v.t.Helper()
	return v.run("", args)
}

// RunCLIWithStdin executes a CLI command with stdin input.
func (v *TestVault) RunCLIWithStdin(stdin string, args ...string) *CLIResult {
	v.t.Helper()
	return v.run(stdin, args)
}

func (v *TestVault) run(stdin string, args []string) *CLIResult {
	v.t.Helper()

	binary := BuildCLI(v.t)

	cmdArgs := []string{"--vault", v.Path}
	cmdArgs = append(cmdArgs, args...)

	cmd := exec.Command(binary, cmdArgs...)
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	result := &CLIResult{}
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = -1
			result.Stderr = err.Error()
		}
	}

	result.Stdout = stdout.String()
	result.Stderr += stderr.String()
	return result
}

// MustSucceed fails the test if the CLI command did not exit zero.
func (r *CLIResult) MustSucceed(t *testing.T) *CLIResult {
	t.Helper()
	if r.ExitCode != 0 {
		t.Fatalf("expected command to succeed, got exit code %d\nstdout: %s\nstderr: %s",
			r.ExitCode, r.Stdout, r.Stderr)
	}
	return r
}

// MustFail fails the test if the CLI command exited zero. When msgSubstr is
// non-empty the combined output must contain it.
func (r *CLIResult) MustFail(t *testing.T, msgSubstr string) *CLIResult {
	t.Helper()
	if r.ExitCode == 0 {
		t.Fatalf("expected command to fail, but it succeeded\nstdout: %s", r.Stdout)
	}
	if msgSubstr != "" && !strings.Contains(r.Stdout, msgSubstr) && !strings.Contains(r.Stderr, msgSubstr) {
		t.Errorf("expected output to contain %q\nstdout: %s\nstderr: %s", msgSubstr, r.Stdout, r.Stderr)
	}
	return r
}

// OutputContains reports whether stdout contains the substring.
func (r *CLIResult) OutputContains(substr string) bool {
	return strings.Contains(r.Stdout, substr)
}
