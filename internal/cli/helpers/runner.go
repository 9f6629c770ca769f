// Package helpers provides shared helper functions for CLI commands.
package helpers

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/benthaman/ksapply/internal/config"
	"github.com/benthaman/ksapply/internal/output"
	"github.com/benthaman/ksapply/internal/runtime"
)

// Run is a helper that provides a runtime context to a command's execution function.
// Configuration comes from the --config file or .ksapply.yaml in the
// current or home directory, the environment and the command's flags.
func Run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	ctx, err := NewContext(cmd)
	if err != nil {
		return err
	}
	defer ctx.Splog.Close()

	return fn(ctx)
}

// NewContext builds the runtime context of cmd.
func NewContext(cmd *cobra.Command) (*runtime.Context, error) {
	flags := cmd.Flags()
	file, _ := flags.GetString("config")
	debug, _ := flags.GetBool("debug")

	opts := config.Options{File: file, Flags: flags}
	if wd, err := os.Getwd(); err == nil {
		opts.Dirs = append(opts.Dirs, wd)
	}
	if home, err := os.UserHomeDir(); err == nil {
		opts.Dirs = append(opts.Dirs, home)
	}
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	splog, err := output.NewSplogWithConfig(cmd.OutOrStdout(), cmd.ErrOrStderr(), debug, output.LogFile{
		Path:       cfg.Log.File,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	})
	if err != nil {
		return nil, err
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx := runtime.NewContext(parent, cfg, splog)
	ctx.Stdin = cmd.InOrStdin()
	return ctx, nil
}
