package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/actions"
	"github.com/benthaman/ksapply/internal/cli/helpers"
)

// newCheckCmd creates the check command
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the sorted section is in upstream order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.CheckAction)
		},
	}
}
