package testhelpers

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
)

var (
	binaryOnce sync.Once
	binaryPath string
	binaryErr  error
)

// RequireBinary returns the path of a ksapply binary built from the current
// module, or fails the test. The binary is built once per test process.
func RequireBinary(t *testing.T) string {
	t.Helper()
	binaryOnce.Do(func() {
		binaryPath, binaryErr = buildBinary()
	})
	if binaryErr != nil {
		t.Fatalf("Failed to build ksapply binary: %v", binaryErr)
	}
	return binaryPath
}

func buildBinary() (string, error) {
	// This file lives in <module root>/testhelpers.
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("could not find module root")
	}

	dir, err := os.MkdirTemp("", "ksapply-test-binary-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	path := filepath.Join(dir, "ksapply")

	cmd := exec.Command("go", "build", "-o", path, "./cmd/ksapply")
	cmd.Dir = filepath.Dir(filepath.Dir(file))
	if out, err := cmd.CombinedOutput(); err != nil {
		_ = os.RemoveAll(dir)
		return "", fmt.Errorf("failed to build: %s: %w", out, err)
	}
	return path, nil
}
