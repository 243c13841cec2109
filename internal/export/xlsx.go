package export

import (
	"fmt"
	"io"

	"github.com/Veraticus/spendsense/internal/model"
	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	SheetExpenses = "Expenses"
	SheetSummary  = "Summary"
)

// WriteXLSX writes a workbook with an Expenses sheet and a per-category
// Summary sheet.
func WriteXLSX(w io.Writer, expenses []model.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetExpenses); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if err := writeExpenseSheet(f, expenses); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}
	if err := writeSummarySheet(f, expenses); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeExpenseSheet(f *excelize.File, expenses []model.Expense) error {
	header := []any{"Date", "Description", "Merchant", "Category", "Amount", "Confidence", "AI Suggested", "Source"}
	if err := f.SetSheetRow(SheetExpenses, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i := range expenses {
		e := &expenses[i]
		row := []any{
			e.Date.Format(model.DateLayout),
			e.Description,
			e.Merchant,
			string(e.Category),
			e.Amount,
			e.Confidence,
			e.AISuggested,
			string(e.Source),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetExpenses, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	style, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("creating number style: %w", err)
	}
	if len(expenses) > 0 {
		end := fmt.Sprintf("E%d", len(expenses)+1)
		if err := f.SetCellStyle(SheetExpenses, "E2", end, style); err != nil {
			return fmt.Errorf("styling amounts: %w", err)
		}
	}
	return f.SetColWidth(SheetExpenses, "B", "B", 36)
}

func writeSummarySheet(f *excelize.File, expenses []model.Expense) error {
	header := []any{"Category", "Count", "Total"}
	if err := f.SetSheetRow(SheetSummary, "A1", &header); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}

	counts := make(map[model.Category]int)
	totals := make(map[model.Category]float64)
	for i := range expenses {
		c := model.NormalizeCategory(string(expenses[i].Category))
		counts[c]++
		totals[c] += expenses[i].Amount
	}

	row := 2
	for _, c := range model.Categories() {
		if counts[c] == 0 {
			continue
		}
		values := []any{string(c), counts[c], totals[c]}
		if err := f.SetSheetRow(SheetSummary, fmt.Sprintf("A%d", row), &values); err != nil {
			return fmt.Errorf("writing summary row: %w", err)
		}
		row++
	}

	if row > 2 {
		if err := f.SetCellValue(SheetSummary, fmt.Sprintf("A%d", row), "Total"); err != nil {
			return err
		}
		if err := f.SetCellFormula(SheetSummary, fmt.Sprintf("B%d", row), fmt.Sprintf("SUM(B2:B%d)", row-1)); err != nil {
			return err
		}
		if err := f.SetCellFormula(SheetSummary, fmt.Sprintf("C%d", row), fmt.Sprintf("SUM(C2:C%d)", row-1)); err != nil {
			return err
		}
	}
	return nil
}
