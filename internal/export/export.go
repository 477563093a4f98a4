// Package export renders period reports as downloadable documents.
package export

import (
	"io"
	"strings"

	"github.com/dafibh/fortuna/fortuna-ledger/internal/calc"
	"github.com/dafibh/fortuna/fortuna-ledger/internal/domain"
)

// Format is a document format for report exports
type Format string

const (
	FormatCSV Format = "csv"
	FormatPDF Format = "pdf"
)

// ParseFormat accepts "csv" or "pdf" in any case; empty defaults to csv
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatPDF:
		return f, nil
	}
	return "", domain.ErrInvalidExportFormat
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatPDF {
		return "application/pdf"
	}
	return "text/csv"
}

// Extension returns the file extension without the dot
func (f Format) Extension() string {
	return string(f)
}

// Report is what gets exported: a titled table of period rows plus their totals
type Report struct {
	Title  string
	Rows   []calc.ReportRow
	Totals calc.ReportRow
}

// NewReport builds the export model, computing the totals row
func NewReport(title string, rows []calc.ReportRow) Report {
	return Report{Title: title, Rows: rows, Totals: calc.ReportTotals(rows)}
}

// Write renders r in format f
func Write(w io.Writer, f Format, r Report) error {
	if f == FormatPDF {
		return WritePDF(w, r)
	}
	return WriteCSV(w, r)
}

var columns = []string{"Period", "Income", "Expenses", "Net"}

func cells(row calc.ReportRow) []string {
	return []string{row.Label, row.Income.StringFixed(2), row.Expenses.StringFixed(2), row.Net.StringFixed(2)}
}
