package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/actions"
	"github.com/benthaman/ksapply/internal/cli/helpers"
	"github.com/benthaman/ksapply/internal/runtime"
)

// newDupcheckCmd creates the dupcheck command
func newDupcheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dupcheck <rev>",
		Short: "Check whether a commit is already backported",
		Long: `Look for a patch of the series that backports <rev>.

Exits with status 2 and names the patch when there is one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.DupcheckAction(ctx, actions.DupcheckOptions{Rev: args[0]})
				return err
			})
		},
	}

	return cmd
}
