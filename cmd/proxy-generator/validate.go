package main

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"proxy-generator/internal/config"
)

func newValidateCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [manifest]",
		Short: "Check the manifest and packages without planning",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, cmd.Flags())
			if err != nil {
				return err
			}

			if len(args) == 1 {
				cfg.Manifest = args[0]
			}

			return runValidate(cmd, cfg, opts.verbose)
		},
	}

	addInputFlags(cmd)

	return cmd
}

func runValidate(cmd *cobra.Command, cfg *config.Config, verbose bool) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	defer func() { _ = logger.Sync() }()

	in, err := loadInput(cfg, logger)
	if err != nil {
		return err
	}

	printDiagnostics(cmd.ErrOrStderr(), in.diags, verbose)

	if !in.diags.IsValid() {
		return errInvalidInput
	}

	color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(), "%d unit(s) valid\n", len(in.Units))

	return nil
}
