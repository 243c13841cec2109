package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/spendsense/internal/model"
)

var csvHeader = []string{"ID", "Date", "Description", "Merchant", "Category", "Amount", "Confidence", "AI Suggested", "Source", "Notes"}

// WriteCSV writes one row per expense. Dates use dateLayout, or the stored
// layout when empty.
func WriteCSV(w io.Writer, expenses []model.Expense, dateLayout string) error {
	if dateLayout == "" {
		dateLayout = model.DateLayout
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for i := range expenses {
		e := &expenses[i]
		record := []string{
			strconv.FormatInt(e.ID, 10),
			e.Date.Format(dateLayout),
			e.Description,
			e.Merchant,
			string(e.Category),
			strconv.FormatFloat(e.Amount, 'f', 2, 64),
			strconv.Itoa(e.Confidence),
			strconv.FormatBool(e.AISuggested),
			string(e.Source),
			e.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing csv: %w", err)
	}
	return nil
}
