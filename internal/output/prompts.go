package output

import (
	"fmt"

	"github.com/AlecAivazis/survey/v2"
)

// ErrInteractiveDisabled is returned when a question needs a terminal and
// there is none.
var ErrInteractiveDisabled = fmt.Errorf("interactive prompts need a terminal")

// Confirm asks a yes/no question on the terminal.
func Confirm(message string, def bool) (bool, error) {
	if !IsTTY() {
		return false, ErrInteractiveDisabled
	}
	answer := def
	prompt := &survey.Confirm{
		Message: message,
		Default: def,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, fmt.Errorf("canceled")
	}
	return answer, nil
}
