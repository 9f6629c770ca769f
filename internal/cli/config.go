package cli

import (
	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/actions"
	"github.com/benthaman/ksapply/internal/cli/helpers"
)

// newConfigCmd creates the config command
func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after merging defaults, the config file,
KSAPPLY_* environment variables and flags, as YAML.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return helpers.Run(cmd, actions.ConfigAction)
		},
	}
}
