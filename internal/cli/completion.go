package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/cli/helpers"
)

// completePatches is a helper for RegisterFlagCompletionFunc that returns
// the patches named in the series file.
func completePatches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx, err := helpers.NewContext(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer ctx.Splog.Close()

	doc, err := ctx.Document()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return doc.Names(), cobra.ShellCompDirectiveNoFileComp
}
