package series

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/benthaman/ksapply/internal/errors"
)

// Markers holds the comment lines that open sections.
type Markers struct {
	Sorted   []string
	Trailing []string
}

// DefaultMarkers returns the markers used by kernel-source series files.
func DefaultMarkers() Markers {
	return Markers{
		Sorted: []string{
			"# sorted patches",
			"# Sorted Network Patches",
			"# SLE12-SP3 network driver updates",
		},
		Trailing: []string{
			"# Wireless Networking",
		},
	}
}

// next returns the kind of section opened by comment while in state kind.
func (m Markers) next(kind Kind, comment string) (Kind, bool) {
	switch kind {
	case Header:
		if slices.Contains(m.Sorted, comment) {
			return Sorted, true
		}
	case Sorted, Trailing:
		if slices.Contains(m.Trailing, comment) {
			return Trailing, true
		}
	}
	return kind, false
}

// Parse reads a series document from r.
func Parse(r io.Reader, m Markers) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read series: %w", err)
	}
	text := string(data)
	doc, err := ParseLines(SplitLines(text), m)
	if err != nil {
		return nil, err
	}
	doc.Unterminated = text != "" && !strings.HasSuffix(text, "\n")
	return doc, nil
}

// ParseFile reads the series document at path.
func ParseFile(path string, m Markers) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return Parse(f, m)
}

// ParseLines splits lines into sections.
//
// Runs of blank lines and runs of comments are held back until the next
// line of another kind shows up, then handed to whichever section is open at
// that point. A section marker therefore travels with the comments right
// above it into the section it opens.
func ParseLines(lines []string, m Markers) (*Document, error) {
	current := &Section{Kind: Header}
	doc := &Document{Sections: []*Section{current}}

	var pending []string
	pendingBlank := false
	hold := func(line string, blank bool) {
		if len(pending) > 0 && pendingBlank != blank {
			current.Lines = append(current.Lines, pending...)
			pending = nil
		}
		pending = append(pending, line)
		pendingBlank = blank
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			hold(line, true)
		case strings.HasPrefix(trimmed, "#"):
			hold(line, false)
			if kind, ok := m.next(current.Kind, trimmed); ok {
				current = &Section{Kind: kind, Marker: trimmed}
				doc.Sections = append(doc.Sections, current)
			}
		default:
			current.Lines = append(current.Lines, pending...)
			pending = nil
			current.Lines = append(current.Lines, line)
		}
	}

	if current.Kind == Header {
		return nil, errors.NewMalformedDocumentError("sorted subseries not found")
	}
	current.Lines = append(current.Lines, pending...)

	return doc, nil
}

// SplitLines splits text into lines without their terminators. A final line
// terminator does not produce an empty trailing line.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
