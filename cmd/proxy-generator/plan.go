package main

import (
	"fmt"
	"io"
	"os"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"proxy-generator/internal/config"
	"proxy-generator/internal/plan"
)

// StdoutOutput writes the plan to standard output.
const StdoutOutput = "-"

func newPlanCommand(opts *globalOptions) *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Plan the proxy declarations and write them as YAML",
		Long: `Load the manifest and Go packages, run the declaration planner and write
the plan. Nothing is written when any error is reported.`,
		Example: `  # Plan from a manifest
  proxy-generator plan --manifest shop.yaml --language csharp

  # Plan proxy-tagged structs of Go packages, print the plan
  proxy-generator plan --packages ./store --language csharp -o -

  # Inspect the in-memory plan
  proxy-generator plan --dump`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, cmd.Flags())
			if err != nil {
				return err
			}

			return runPlan(cmd, cfg, opts.verbose, dump)
		},
	}

	addInputFlags(cmd)
	cmd.Flags().String("language", "", "target language (csharp, visualbasic)")
	cmd.Flags().Bool("full-names", false, "emit every type reference fully qualified")
	cmd.Flags().StringP("output", "o", "", "plan output path, - for stdout (default proxy-plan.yaml)")
	cmd.Flags().BoolVar(&dump, "dump", false, "print the plan structure after planning")

	return cmd
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("manifest", "m", "", "manifest file")
	cmd.Flags().StringSlice("packages", nil, "Go package patterns with proxy-tagged structs")
}

func runPlan(cmd *cobra.Command, cfg *config.Config, verbose, dump bool) error {
	logger := newLogger(cmd.ErrOrStderr(), verbose)
	defer func() { _ = logger.Sync() }()

	p, sink, err := generate(cfg, logger)
	if err != nil {
		return err
	}

	collected := sink.Collected()
	printDiagnostics(cmd.ErrOrStderr(), &collected, verbose)

	if p == nil || collected.HasErrors() {
		return errPlanFailed
	}

	if dump {
		spew.Fdump(cmd.OutOrStdout(), p)
	}

	if err := writePlan(cmd.OutOrStdout(), cfg.Output, p); err != nil {
		return err
	}

	if cfg.Output != StdoutOutput {
		color.New(color.FgGreen).Fprintf(cmd.ErrOrStderr(),
			"wrote %d type(s) and %d enum(s) to %s\n", len(p.Types), len(p.Enums), cfg.Output)
	}

	return nil
}

func writePlan(stdout io.Writer, path string, p *plan.ProxyPlan) error {
	if path == StdoutOutput {
		return plan.WriteYAML(stdout, p)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := plan.WriteYAML(f, p); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}
