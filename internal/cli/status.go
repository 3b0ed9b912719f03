package cli

import (
	"github.com/spf13/cobra"

	"github.com/autofiler/autofiler/internal/bootstrap"
	"github.com/autofiler/autofiler/internal/core/domain"
)

type statusReport struct {
	Pending         int `json:"pending" yaml:"pending"`
	InProgress      int `json:"in_progress" yaml:"in_progress"`
	Resolved        int `json:"resolved" yaml:"resolved"`
	RegisteredTypes int `json:"registered_types" yaml:"registered_types"`
}

func newStatusCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize the review queue and the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			summary, err := app().ReviewUC.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return printOut(statusReport{
				Pending:         summary[domain.ReviewPending],
				InProgress:      summary[domain.ReviewInProgress],
				Resolved:        summary[domain.ReviewResolved],
				RegisteredTypes: len(app().Registry.Snapshot().Types),
			})
		},
	}
}
