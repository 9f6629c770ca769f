package series

import (
	"fmt"
	"strings"

	"github.com/natefinch/atomic"
)

// Group is a labelled run of series lines produced by a sort.
type Group struct {
	Label string
	Lines []string
}

// Format returns the text of the document. The last line is left
// unterminated if it was when the document was parsed.
func (d *Document) Format() string {
	text := JoinLines(d.Lines())
	if d.Unterminated {
		return strings.TrimSuffix(text, "\n")
	}
	return text
}

// FormatGroups lays out groups as series lines. Every group except the one
// labelled defaultHead is introduced by a blank line and a label comment.
// Empty groups are left out.
func FormatGroups(groups []Group, defaultHead string) []string {
	var lines []string
	for _, g := range groups {
		if len(g.Lines) == 0 {
			continue
		}
		if g.Label != defaultHead {
			lines = append(lines, "", "\t# "+g.Label)
		}
		lines = append(lines, g.Lines...)
	}
	return lines
}

// JoinLines terminates every line with a newline.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// WriteFile replaces the file at path with the text of d. The file is
// written to a temporary sibling first and renamed into place.
func WriteFile(path string, d *Document) error {
	if err := atomic.WriteFile(path, strings.NewReader(d.Format())); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
