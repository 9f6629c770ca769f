package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/actions"
	"github.com/benthaman/ksapply/internal/cli/helpers"
	"github.com/benthaman/ksapply/internal/runtime"
)

// newMergeToolCmd creates the merge-tool command
func newMergeToolCmd() *cobra.Command {
	var opts actions.MergeToolOptions

	cmd := &cobra.Command{
		Use:   "merge-tool <local> <base> <remote> <merged>",
		Short: "Merge series files, as a git mergetool",
		Long: `Merge versions of series.conf. The sorted section is merged by applying the
patches added and removed between <base> and <remote> to <local> and sorting
the result. The rest of the file is merged by the merge program.

Configure it with:
  git config mergetool.ksapply.cmd 'ksapply merge-tool "$LOCAL" "$BASE" "$REMOTE" "$MERGED"'
  git config mergetool.ksapply.trustexitcode true`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Local, opts.Base, opts.Remote, opts.Merged = args[0], args[1], args[2], args[3]
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.MergeToolAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVar(&opts.MergeCommand, "merge-program", "merge", "Three-way file merge program")

	return cmd
}
