package output

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	patchStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	commitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	moveStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
)

// isTerminal reports whether f is a terminal
func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsTTY reports whether both stdin and stdout are terminals.
func IsTTY() bool {
	return isTerminal(os.Stdin) && isTerminal(os.Stdout)
}

// DisableColorUnlessTTY turns styling off when stdout is piped, so that
// results can be fed to other tools.
func DisableColorUnlessTTY() {
	if !isTerminal(os.Stdout) {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// ColorPatch styles a patch name.
func ColorPatch(name string) string {
	return patchStyle.Render(name)
}

// ColorCommit styles a commit id.
func ColorCommit(id string) string {
	return commitStyle.Render(id)
}

// ColorMove styles a stack movement.
func ColorMove(move string) string {
	return moveStyle.Render(move)
}

// WarningPrefix returns the styled prefix of warnings.
func WarningPrefix() string {
	return warningStyle.Render("Warning:") + " "
}

// ErrorPrefix returns the styled prefix of errors.
func ErrorPrefix() string {
	return errorStyle.Render("Error:") + " "
}

// ShortCommit abbreviates a commit id to 12 characters.
func ShortCommit(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
