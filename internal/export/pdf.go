package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfLabelWidth  = 55.0
	pdfAmountWidth = 42.0
	pdfRowHeight   = 8.0
)

// WritePDF renders the report as a single A4 table
func WritePDF(w io.Writer, r Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(r.Title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, r.Title, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, col := range columns {
		pdf.CellFormat(columnWidth(i), pdfRowHeight, col, "1", 0, columnAlign(i), true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range r.Rows {
		writePDFRow(pdf, cells(row), false)
	}

	pdf.SetFont("Helvetica", "B", 10)
	writePDFRow(pdf, cells(r.Totals), true)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

func writePDFRow(pdf *gofpdf.Fpdf, values []string, fill bool) {
	for i, v := range values {
		pdf.CellFormat(columnWidth(i), pdfRowHeight, v, "1", 0, columnAlign(i), fill, 0, "")
	}
	pdf.Ln(-1)
}

func columnWidth(i int) float64 {
	if i == 0 {
		return pdfLabelWidth
	}
	return pdfAmountWidth
}

func columnAlign(i int) string {
	if i == 0 {
		return "L"
	}
	return "R"
}
