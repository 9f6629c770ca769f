// Package tag extracts metadata tags from the header of patch files.
//
// A tag is a header line of the form "Key: value". Only the part of the file
// before the diff body is considered; the body starts at the first line that
// begins with one of the diff boundary markers.
package tag

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Well-known tag keys
const (
	GitCommit     = "Git-commit"
	GitRepo       = "Git-repo"
	References    = "References"
	PatchMainline = "Patch-mainline"
)

// maxHeaderLine bounds the length of a single header line.
const maxHeaderLine = 1024 * 1024

// boundaries separate a patch header from its diff body.
var boundaries = []string{"---", "***", "Index:", "diff -"}

// Get returns the values of every key tag found in the header read from r, in
// file order. An empty result means the tag is absent.
func Get(r io.Reader, key string) ([]string, error) {
	all, err := Scan(r, key)
	if err != nil {
		return nil, err
	}
	return all[key], nil
}

// Scan reads a patch header once and returns the values of each requested key.
func Scan(r io.Reader, keys ...string) (map[string][]string, error) {
	prefixes := make(map[string]string, len(keys))
	for _, key := range keys {
		prefixes[key] = key + ": "
	}

	result := make(map[string][]string, len(keys))
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxHeaderLine)
	for scanner.Scan() {
		line := scanner.Text()
		if IsBoundary(line) {
			break
		}
		for key, prefix := range prefixes {
			if strings.HasPrefix(line, prefix) {
				result[key] = append(result[key], strings.TrimSpace(line[len(prefix):]))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read patch header: %w", err)
	}
	return result, nil
}

// GetFile is Get on the file at path.
func GetFile(path, key string) ([]string, error) {
	all, err := ScanFile(path, key)
	if err != nil {
		return nil, err
	}
	return all[key], nil
}

// ScanFile is Scan on the file at path.
func ScanFile(path string, keys ...string) (map[string][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Scan(f, keys...)
}

// IsBoundary reports whether line starts the diff body of a patch.
func IsBoundary(line string) bool {
	for _, b := range boundaries {
		if strings.HasPrefix(line, b) {
			return true
		}
	}
	return false
}

// FirstWord returns the text of value up to the first whitespace.
func FirstWord(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Commits returns the first word of each Git-commit tag of the patch at path.
func Commits(path string) ([]string, error) {
	values, err := GetFile(path, GitCommit)
	if err != nil {
		return nil, err
	}
	commits := make([]string, 0, len(values))
	for _, v := range values {
		commits = append(commits, FirstWord(v))
	}
	return commits, nil
}

// Match is a patch that carries a given commit.
type Match struct {
	Patch      string
	References []string
}

// FindCommit returns the first patch among names whose Git-commit tags
// contain commit. Patch files are looked up under dir. It returns nil when
// no patch carries the commit.
func FindCommit(dir string, names []string, commit string) (*Match, error) {
	for _, name := range names {
		tags, err := ScanFile(filepath.Join(dir, name), GitCommit, References)
		if err != nil {
			return nil, fmt.Errorf("failed to read patch %s: %w", name, err)
		}
		for _, v := range tags[GitCommit] {
			if FirstWord(v) == commit {
				return &Match{Patch: name, References: tags[References]}, nil
			}
		}
	}
	return nil, nil
}
