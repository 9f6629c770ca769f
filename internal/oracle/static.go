package oracle

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Head is an upstream head and its commits, oldest first.
type Head struct {
	Name    string   `yaml:"name"`
	Commits []string `yaml:"commits"`
}

// Static is an Oracle over a fixed index.
type Static struct {
	ix *index
}

// NewStatic builds a Static oracle. A commit listed under several heads
// belongs to the first of them.
func NewStatic(heads ...Head) *Static {
	ix := &index{positions: make(map[string]position)}
	for h, head := range heads {
		ix.names = append(ix.names, head.Name)
		for seq, c := range head.Commits {
			if _, ok := ix.positions[c]; ok {
				continue
			}
			ix.positions[c] = position{head: h, seq: seq}
		}
	}
	return &Static{ix: ix}
}

// LoadStatic reads a YAML index file:
//
//	heads:
//	  - name: linux
//	    commits: [<oldest>, ..., <newest>]
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index: %w", err)
	}

	var file struct {
		Heads []Head `yaml:"heads"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse index %s: %w", path, err)
	}
	if len(file.Heads) == 0 {
		return nil, fmt.Errorf("index %s lists no heads", path)
	}

	return NewStatic(file.Heads...), nil
}

// Order implements Oracle.
func (s *Static) Order(_ context.Context, commits []string) ([]Placement, error) {
	return s.ix.order(commits), nil
}
