package testhelpers

import (
	"os"
	"path/filepath"
	"testing"
)

// Scene represents a test scene: a kernel-source style working directory
// holding series.conf and patch files, next to an upstream Git repository.
type Scene struct {
	Dir      string
	Upstream *GitRepo
	oldDir   string
}

// SceneSetup is a function type for setting up a scene.
type SceneSetup func(*Scene) error

// NewScene creates a new test scene with a temporary directory and an
// upstream repository in its "linux" subdirectory. The working directory is
// switched to the scene directory until the test ends.
func NewScene(t *testing.T, setup SceneSetup) *Scene {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "ksapply-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	oldDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get current directory: %v", err)
	}

	upstreamDir := filepath.Join(tmpDir, "linux")
	if err := os.MkdirAll(upstreamDir, 0750); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create upstream dir: %v", err)
	}
	repo, err := NewGitRepo(upstreamDir)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create Git repo: %v", err)
	}

	scene := &Scene{
		Dir:      tmpDir,
		Upstream: repo,
		oldDir:   oldDir,
	}

	if err := os.Chdir(tmpDir); err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to change directory: %v", err)
	}

	t.Cleanup(func() {
		os.Chdir(oldDir)
		if os.Getenv("DEBUG") == "" {
			os.RemoveAll(tmpDir)
		}
	})

	if setup != nil {
		if err := setup(scene); err != nil {
			t.Fatalf("Setup failed: %v", err)
		}
	}

	return scene
}

// Path returns the absolute path of name inside the scene.
func (s *Scene) Path(name string) string {
	return filepath.Join(s.Dir, name)
}
