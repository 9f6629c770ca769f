package actions

import (
	"fmt"

	"github.com/benthaman/ksapply/internal/runtime"
)

// ConfigAction prints the effective configuration as YAML.
func ConfigAction(ctx *runtime.Context) error {
	out, err := ctx.Config.YAML()
	if err != nil {
		return fmt.Errorf("failed to render configuration: %w", err)
	}
	ctx.Splog.Page(string(out))
	return nil
}
