// Package cli implements the filerctl command tree. Commands wire the
// same object graph as the worker and operate on the shared review
// state, registry, and decision ledger.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/autofiler/autofiler/internal/bootstrap"
	"github.com/autofiler/autofiler/internal/config"
	"github.com/autofiler/autofiler/internal/observability/logging"
)

var outputFormat string

// NewRootCommand builds the filerctl command tree. The app graph is
// constructed once in PersistentPreRunE so every subcommand sees the
// same registry snapshot mechanism and review queue.
func NewRootCommand() *cobra.Command {
	var app *bootstrap.App

	root := &cobra.Command{
		Use:   "filerctl",
		Short: "Operate the document filing pipeline",
		Long: `filerctl drives the review queue and the document type registry.

Examples:
  filerctl status                          # queue summary
  filerctl review next                     # peek the oldest pending item
  filerctl review claim <id>               # take exclusive ownership
  filerctl review resolve <id> --type w2   # file under an existing type
  filerctl review create <id> --file t.yaml
  filerctl types list
  filerctl export --out decisions.xlsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			logger := logging.NewJSONLogger("filerctl", "error")
			a, err := bootstrap.New(cmd.Context(), cfg, logger)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			app = a
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if app != nil {
				app.Close()
			}
		},
	}

	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml",
		"output format: yaml or json")

	appRef := func() *bootstrap.App { return app }
	root.AddCommand(
		newStatusCommand(appRef),
		newReviewCommand(appRef),
		newTypesCommand(appRef),
		newExportCommand(appRef),
	)
	return root
}

// Execute runs the command tree and maps errors to the process exit
// code.
func Execute(ctx context.Context) {
	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printOut(v any) error {
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	default:
		raw, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(raw)
		return err
	}
}
