package series

import (
	"strings"

	"github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/tag"
)

// HeaderLiteral is the first line of a well-formed series file.
const HeaderLiteral = "# Kernel patches configuration file"

// Labels of the groups that do not come from an upstream head.
const (
	LabelUnknown   = "unknown/local patches"
	LabelOutOfTree = "out-of-tree patches"
	queuedPrefix   = "Queued in "
)

// QueuedLabel returns the group label of patches queued in repo.
func QueuedLabel(repo string) string {
	return queuedPrefix + repo
}

// Kind is the role of a section within a document.
type Kind int

const (
	// Header is everything before the sorted subsection
	Header Kind = iota
	// Sorted is the upstream-ordered subsection
	Sorted
	// Trailing is a group after the sorted subsection
	Trailing
)

func (k Kind) String() string {
	switch k {
	case Header:
		return "header"
	case Sorted:
		return "sorted"
	case Trailing:
		return "trailing"
	default:
		return "unknown"
	}
}

// Entry is a patch line of the series. Name is the first word of the line;
// Line is kept verbatim so that inline comments survive a rewrite.
type Entry struct {
	Name string
	Line string
}

// Section is a run of series lines. Lines hold entries, comments and blank
// lines in their original order.
type Section struct {
	Kind   Kind
	Marker string
	Lines  []string
}

// Entries returns the enabled patch entries of the section.
func (s *Section) Entries() []Entry {
	var entries []Entry
	for _, line := range s.Lines {
		if IsEntry(line) {
			entries = append(entries, Entry{Name: EntryName(line), Line: line})
		}
	}
	return entries
}

// Names returns the patch names of the section.
func (s *Section) Names() []string {
	return names(s.Entries())
}

// LeadingTrivia returns the lines before the first entry. A section without
// entries is all leading trivia.
func (s *Section) LeadingTrivia() []string {
	for i, line := range s.Lines {
		if IsEntry(line) {
			return s.Lines[:i]
		}
	}
	return s.Lines
}

// TrailingTrivia returns the lines after the last entry.
func (s *Section) TrailingTrivia() []string {
	for i := len(s.Lines) - 1; i >= 0; i-- {
		if IsEntry(s.Lines[i]) {
			return s.Lines[i+1:]
		}
	}
	return nil
}

// Splice replaces everything between the leading and trailing trivia of the
// section with body.
func (s *Section) Splice(body []string) {
	leading := s.LeadingTrivia()
	trailing := s.TrailingTrivia()

	lines := make([]string, 0, len(leading)+len(body)+len(trailing))
	lines = append(lines, leading...)
	lines = append(lines, body...)
	lines = append(lines, trailing...)
	s.Lines = lines
}

// Document is a parsed series file.
type Document struct {
	Sections []*Section
	// Unterminated is set when the last line read had no line terminator.
	Unterminated bool
}

// Header returns the section preceding the sorted subsection.
func (d *Document) Header() *Section {
	return d.Sections[0]
}

// Sorted returns the sorted subsection.
func (d *Document) Sorted() *Section {
	for _, s := range d.Sections {
		if s.Kind == Sorted {
			return s
		}
	}
	return nil
}

// Trailing returns the groups following the sorted subsection.
func (d *Document) Trailing() []*Section {
	var trailing []*Section
	for _, s := range d.Sections {
		if s.Kind == Trailing {
			trailing = append(trailing, s)
		}
	}
	return trailing
}

// Entries returns every enabled entry of the document in order.
func (d *Document) Entries() []Entry {
	var entries []Entry
	for _, s := range d.Sections {
		entries = append(entries, s.Entries()...)
	}
	return entries
}

// Names returns every enabled patch name of the document in order.
func (d *Document) Names() []string {
	return names(d.Entries())
}

// SortedEntries returns the upstream-ordered entries of the sorted
// subsection. The view ends at the first group label that does not name an
// upstream head, since patches below it are not upstream ordered.
func (d *Document) SortedEntries() []Entry {
	var entries []Entry
	for _, line := range d.Sorted().Lines {
		if IsGroupBoundary(line) {
			break
		}
		if IsEntry(line) {
			entries = append(entries, Entry{Name: EntryName(line), Line: line})
		}
	}
	return entries
}

// SortedNames returns the names of SortedEntries.
func (d *Document) SortedNames() []string {
	return names(d.SortedEntries())
}

// Lines returns all lines of the document.
func (d *Document) Lines() []string {
	var lines []string
	for _, s := range d.Sections {
		lines = append(lines, s.Lines...)
	}
	return lines
}

// CheckHeader verifies that the first non-blank line is the sanity header.
func (d *Document) CheckHeader() error {
	for _, line := range d.Lines() {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == HeaderLiteral {
			return nil
		}
		break
	}
	return errors.NewMalformedDocumentError("series file does not look like series.conf")
}

// IsEntry reports whether line names an enabled patch.
func IsEntry(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return false
	}
	switch trimmed[0] {
	case '#', '-', '+':
		return false
	}
	return true
}

// EntryName returns the patch name of an entry line.
func EntryName(line string) string {
	return tag.FirstWord(line)
}

// IsGroupBoundary reports whether line is the label of a group that is not
// ordered by upstream history.
func IsGroupBoundary(line string) bool {
	label, ok := commentText(line)
	if !ok {
		return false
	}
	return label == LabelOutOfTree || label == LabelUnknown || strings.HasPrefix(label, queuedPrefix)
}

func commentText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return strings.TrimSpace(trimmed[1:]), true
}

func names(entries []Entry) []string {
	result := make([]string, len(entries))
	for i, e := range entries {
		result[i] = e.Name
	}
	return result
}
