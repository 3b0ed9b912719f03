package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/autofiler/autofiler/internal/bootstrap"
)

func newExportCommand(app func() *bootstrap.App) *cobra.Command {
	var (
		outPath string
		limit   int
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the decision ledger to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := app().Reporter.Export(cmd.Context(), outPath, limit)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %d decisions to %s\n", n, outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "out", "O", "decisions.xlsx", "output workbook path")
	cmd.Flags().IntVarP(&limit, "limit", "n", 1000, "maximum decisions to export (newest first)")
	return cmd
}
