package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/autofiler/autofiler/internal/bootstrap"
	"github.com/autofiler/autofiler/internal/core/domain"
)

func newReviewCommand(app func() *bootstrap.App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Work the manual review queue",
	}
	cmd.AddCommand(
		newReviewNextCommand(app),
		newReviewClaimCommand(app),
		newReviewResolveCommand(app),
		newReviewCreateCommand(app),
		newReviewDeferCommand(app),
		newReviewReleaseCommand(app),
	)
	return cmd
}

func newReviewNextCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "next",
		Short: "Show the oldest pending item without claiming it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			item, err := app().ReviewUC.NextPendingItem(cmd.Context())
			if err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					fmt.Println("review queue is empty")
					return nil
				}
				return err
			}
			return printOut(item)
		},
	}
}

func newReviewClaimCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "claim <item-id>",
		Short: "Take exclusive ownership of a pending item",
		Long: `Move a pending item to in_progress. Only one operator can hold an
item at a time; claiming an item someone else already took fails with a
stale-item error. Use "review release" to hand an item back without
resolving it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, err := app().ReviewUC.Claim(cmd.Context(), args[0])
			if err != nil {
				if errors.Is(err, domain.ErrStaleItem) {
					return fmt.Errorf("item %s is already claimed or resolved", args[0])
				}
				return err
			}
			return printOut(item)
		},
	}
}

func newReviewResolveCommand(app func() *bootstrap.App) *cobra.Command {
	var typeID string

	cmd := &cobra.Command{
		Use:   "resolve <item-id>",
		Short: "File a claimed item under an existing document type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filing, err := app().ReviewUC.ResolveAssign(cmd.Context(), args[0], typeID)
			if err != nil {
				return err
			}
			return printOut(filing)
		},
	}
	cmd.Flags().StringVarP(&typeID, "type", "t", "", "document type id to assign")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func newReviewCreateCommand(app func() *bootstrap.App) *cobra.Command {
	var defPath string

	cmd := &cobra.Command{
		Use:   "create <item-id>",
		Short: "Create a new document type and file the claimed item under it",
		Long: `Read a document type definition from a YAML file, register it, and
file the claimed item under the new type. The new type is visible to
classification immediately.

Definition file example:

  id: utility_bill
  container_formats: [".pdf"]
  content_keywords: ["account number", "amount due", "kwh"]
  keyword_threshold: 2
  destination_subfolder: "Utilities"
  naming_pattern: "{date}{separator}{original_name}"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(defPath)
			if err != nil {
				return fmt.Errorf("read type definition: %w", err)
			}
			var def domain.DocumentType
			if err := yaml.Unmarshal(raw, &def); err != nil {
				return fmt.Errorf("parse type definition: %w", err)
			}
			filing, err := app().ReviewUC.ResolveCreate(cmd.Context(), args[0], def)
			if err != nil {
				return err
			}
			return printOut(filing)
		},
	}
	cmd.Flags().StringVarP(&defPath, "file", "f", "", "YAML file with the type definition")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newReviewDeferCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "defer <item-id>",
		Short: "Send a claimed item back to the end of the pending queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().ReviewUC.Defer(cmd.Context(), args[0])
		},
	}
}

func newReviewReleaseCommand(app func() *bootstrap.App) *cobra.Command {
	return &cobra.Command{
		Use:   "release <item-id>",
		Short: "Return a claimed item to pending without resolving it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app().ReviewUC.Release(cmd.Context(), args[0])
		},
	}
}
