package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/autofiler/autofiler/internal/bootstrap"
	"github.com/autofiler/autofiler/internal/core/domain"
)

func newTypesCommand(app func() *bootstrap.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Inspect and extend the document type registry",
	}
	cmd.AddCommand(
		newTypesListCommand(app),
		newTypesCreateCommand(app),
	)
	return cmd
}

func newTypesListCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered document types",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			snap := app().Registry.Snapshot()

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCODE\tFORMATS\tSUBFOLDER")
			for _, t := range snap.Types {
				fmt.Fprintf(w, "%s\t%s\t%v\t%s\n",
					t.ID, t.Code, t.ContainerFormats, t.DestinationSubfolder)
			}
			return w.Flush()
		},
	}
}

func newTypesCreateCommand(app func() *bootstrap.App) *cobra.Command {
	var defPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Register a new document type from a YAML definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			raw, err := os.ReadFile(defPath)
			if err != nil {
				return fmt.Errorf("read type definition: %w", err)
			}
			var def domain.DocumentType
			if err := yaml.Unmarshal(raw, &def); err != nil {
				return fmt.Errorf("parse type definition: %w", err)
			}
			created, err := app().Registry.Create(cmd.Context(), def)
			if err != nil {
				return err
			}
			return printOut(created)
		},
	}
	cmd.Flags().StringVarP(&defPath, "file", "f", "", "YAML file with the type definition")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
