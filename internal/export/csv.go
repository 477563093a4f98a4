package export

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV writes a header, one line per row and a final totals line
func WriteCSV(w io.Writer, r Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range r.Rows {
		if err := cw.Write(cells(row)); err != nil {
			return fmt.Errorf("write csv row %s: %w", row.Label, err)
		}
	}
	if err := cw.Write(cells(r.Totals)); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}
	cw.Flush()
	return cw.Error()
}
