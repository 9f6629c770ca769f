package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/actions"
	"github.com/benthaman/ksapply/internal/cli/helpers"
	"github.com/benthaman/ksapply/internal/runtime"
)

// newInsertCmd creates the insert command
func newInsertCmd() *cobra.Command {
	var opts actions.InsertOptions

	cmd := &cobra.Command{
		Use:   "insert <rev>",
		Short: "Tell where a backport of a commit belongs",
		Long: `Print the patch of the sorted section after which a backport of <rev> has
to be added, followed by the quilt push or pop that makes that patch the top
one.

The top patch is asked from quilt unless --top is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Rev = args[0]
			opts.TopSet = cmd.Flags().Changed("top")
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.InsertAction(ctx, opts)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&opts.Top, "top", "", "Topmost applied patch, empty for none")
	_ = cmd.RegisterFlagCompletionFunc("top", completePatches)

	return cmd
}
