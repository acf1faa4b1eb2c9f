package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// Field is one labelled line of a summary document.
type Field struct {
	Label string
	Value string
}

// SummaryPDF renders a titled label/value document.
type SummaryPDF struct{}

// NewSummaryPDF constructs the renderer.
func NewSummaryPDF() *SummaryPDF {
	return &SummaryPDF{}
}

// Render writes the summary document to w. Fields are emitted in the
// order given; empty values are skipped.
func (e *SummaryPDF) Render(w io.Writer, title string, fields []Field) error {
	if len(fields) == 0 {
		return fmt.Errorf("pdf requires at least one field")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 20, 15)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 16)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(6)
	}

	for _, field := range fields {
		if field.Value == "" {
			continue
		}
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(55, 8, field.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.MultiCell(0, 8, field.Value, "", "L", false)
		pdf.Ln(1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}
