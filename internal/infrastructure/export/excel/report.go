// Package excel exports the decision ledger to an XLSX workbook for
// operators who audit filing activity outside the system.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/autofiler/autofiler/internal/core/domain"
	"github.com/autofiler/autofiler/internal/core/ports"
)

const sheet = "Decisions"

var header = []string{
	"Path", "SHA-256", "Decision", "Type", "Score", "Reason", "Destination", "Resolved", "Decided At",
}

type Reporter struct {
	ledger ports.DecisionLedger
}

func NewReporter(ledger ports.DecisionLedger) *Reporter {
	return &Reporter{ledger: ledger}
}

// Export writes up to limit (0 = all) decision records, newest first,
// to outPath.
func (r *Reporter) Export(ctx context.Context, outPath string, limit int) (int, error) {
	records, err := r.ledger.List(ctx, limit)
	if err != nil {
		return 0, fmt.Errorf("list decisions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheet)
	if err != nil {
		return 0, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return 0, fmt.Errorf("drop default sheet: %w", err)
	}

	if err := writeRow(f, 1, headerCells()); err != nil {
		return 0, err
	}
	for i, rec := range records {
		if err := writeRow(f, i+2, recordCells(rec)); err != nil {
			return 0, err
		}
	}

	if err := f.SaveAs(outPath); err != nil {
		return 0, fmt.Errorf("save workbook: %w", err)
	}
	return len(records), nil
}

func headerCells() []any {
	cells := make([]any, len(header))
	for i, h := range header {
		cells[i] = h
	}
	return cells
}

func recordCells(rec domain.DecisionRecord) []any {
	return []any{
		rec.Path,
		rec.SHA256,
		string(rec.Decision),
		rec.TypeID,
		rec.Score,
		rec.Reason,
		rec.Destination,
		rec.Resolved,
		rec.DecidedAt.Format("2006-01-02 15:04:05"),
	}
}

func writeRow(f *excelize.File, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("row %d coordinates: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("write row %d: %w", row, err)
	}
	return nil
}
