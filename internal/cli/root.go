package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ksapply",
		Short: "ksapply keeps the sorted section of a kernel-source series in upstream order",
		Long: `ksapply keeps the sorted section of a kernel-source series.conf in upstream
order. It sorts series lines, tells where a backport of a commit belongs and
moves the quilt stack there.

The upstream repository comes from --repo, KSAPPLY_REPO, GIT_DIR or LINUX_GIT.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "Config file (default .ksapply.yaml in the current or home directory)")
	flags.String("repo", "", "Upstream repository")
	flags.String("series", "", "Series file, relative to the patches directory")
	flags.String("patches-dir", "", "Directory holding the series file and patches")
	flags.String("index", "", "Upstream order index file to use instead of the repository")
	flags.Bool("debug", false, "Write debug logs")

	rootCmd.AddCommand(newSortCmd())
	rootCmd.AddCommand(newInsertCmd())
	rootCmd.AddCommand(newGotoCmd())
	rootCmd.AddCommand(newDupcheckCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newMergeToolCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	return rootCmd
}
