package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/actions"
	"github.com/benthaman/ksapply/internal/cli/helpers"
	"github.com/benthaman/ksapply/internal/runtime"
)

// newGotoCmd creates the goto command
func newGotoCmd() *cobra.Command {
	var opts actions.GotoOptions

	cmd := &cobra.Command{
		Use:   "goto <rev>",
		Short: "Move the quilt stack to the position of a commit",
		Long: `Print the quilt push or pop command that leaves the stack at the position
<rev> has, or would have, in the sorted section.

Exits with status 2 when the stack is already there.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Rev = args[0]
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.GotoAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Apply, "apply", "a", false, "Run the quilt command")
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "Do not ask before running the quilt command")

	return cmd
}
