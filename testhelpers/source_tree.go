package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Patch describes a patch file to write into a scene.
type Patch struct {
	Name       string
	Commit     string
	Repo       []string
	References string
}

// WritePatch writes a minimal patch file with the requested tags.
func (s *Scene) WritePatch(p Patch) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: Test User <test@example.com>\n")
	fmt.Fprintf(&b, "Subject: %s\n", filepath.Base(p.Name))
	if p.Commit != "" {
		fmt.Fprintf(&b, "Patch-mainline: v4.12-rc1\n")
		fmt.Fprintf(&b, "Git-commit: %s\n", p.Commit)
	}
	for _, r := range p.Repo {
		fmt.Fprintf(&b, "Git-repo: %s\n", r)
	}
	if p.References != "" {
		fmt.Fprintf(&b, "References: %s\n", p.References)
	}
	b.WriteString("\nbody\n---\n diff stat\n")

	path := s.Path(p.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(b.String()), 0600)
}

// WritePatches writes every patch.
func (s *Scene) WritePatches(patches ...Patch) error {
	for _, p := range patches {
		if err := s.WritePatch(p); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile writes content to name inside the scene.
func (s *Scene) WriteFile(name, content string) error {
	path := s.Path(name)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}

// ReadFile returns the content of name inside the scene.
func (s *Scene) ReadFile(name string) (string, error) {
	data, err := os.ReadFile(s.Path(name))
	return string(data), err
}

// SeriesFile builds series.conf text: a header entry, the sorted section
// with entries, and an empty trailing group.
func SeriesFile(header []string, sorted []string) string {
	var b strings.Builder
	b.WriteString("# Kernel patches configuration file\n\n")
	for _, h := range header {
		fmt.Fprintf(&b, "\t%s\n", h)
	}
	b.WriteString("\n\t# sorted patches\n")
	for _, p := range sorted {
		fmt.Fprintf(&b, "\t%s\n", p)
	}
	b.WriteString("\n\t# Wireless Networking\n")
	return b.String()
}
