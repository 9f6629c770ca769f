package main

import (
	"errors"
	"os"

	"github.com/benthaman/ksapply/internal/cli"
	ksaerrors "github.com/benthaman/ksapply/internal/errors"
	"github.com/benthaman/ksapply/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// exitCode maps the error of a command to the process exit status. Status 2
// tells scripts that nothing had to be done.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ksaerrors.ErrNothingToDo), errors.Is(err, ksaerrors.ErrAlreadyPresent):
		return 2
	default:
		return 1
	}
}

func main() {
	output.DisableColorUnlessTTY()

	rootCmd := cli.NewRootCmd(version, commit, date)
	err := rootCmd.Execute()
	code := exitCode(err)
	if code == 1 {
		output.NewSplog().Error("%s", err)
	}
	os.Exit(code)
}
