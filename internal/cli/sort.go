package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/actions"
	"github.com/benthaman/ksapply/internal/cli/helpers"
	"github.com/benthaman/ksapply/internal/runtime"
)

// newSortCmd creates the sort command
func newSortCmd() *cobra.Command {
	var opts actions.SortOptions

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Sort series lines in upstream order",
		Long: `Sort series lines read from standard input by the upstream order of the
commits their patches backport, and print them grouped by upstream head.

Patches without a Git-commit tag go last, as out-of-tree patches. Patches
whose commit is only in a Git-repo tagged repository are grouped by that
repository.

With --in-place the sorted section of the series file is sorted instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, func(ctx *runtime.Context) error {
				return actions.SortAction(ctx, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Prefix, "prefix", "p", "", "Directory patch names are relative to")
	cmd.Flags().BoolVarP(&opts.InPlace, "in-place", "i", false, "Sort the sorted section of the series file")

	return cmd
}
