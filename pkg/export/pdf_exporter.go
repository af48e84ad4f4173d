package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders multi-section report documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Report is a PDF document under construction.
type Report struct {
	pdf *gofpdf.Fpdf
}

// NewReport opens a new document with a cover page.
func (e *PDFExporter) NewReport(title, subtitle string) *Report {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 22)
	pdf.Ln(60)
	pdf.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(10)
	pdf.SetFont("Arial", "I", 10)
	pdf.CellFormat(0, 6, "Generated "+time.Now().Format("2 Jan 2006 15:04"), "", 1, "C", false, 0, "")

	return &Report{pdf: pdf}
}

// Section starts a new page with a heading.
func (r *Report) Section(title string) {
	r.pdf.AddPage()
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

// Paragraph appends body text to the current section.
func (r *Report) Paragraph(text string) {
	r.pdf.SetFont("Arial", "", 10)
	r.pdf.MultiCell(0, 5, text, "", "L", false)
	r.pdf.Ln(3)
}

// Table appends a dataset as a bordered table.
func (r *Report) Table(data Dataset) error {
	if len(data.Headers) == 0 {
		return fmt.Errorf("pdf table requires at least one header")
	}
	colWidth := 190.0 / float64(len(data.Headers))

	r.pdf.SetFont("Arial", "B", 10)
	for _, header := range data.Headers {
		r.pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	r.pdf.Ln(-1)

	r.pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			r.pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		r.pdf.Ln(-1)
	}
	r.pdf.Ln(4)
	return nil
}

// KeyValues appends a two-column label/value block.
func (r *Report) KeyValues(pairs [][2]string) {
	r.pdf.SetFont("Arial", "", 10)
	for _, pair := range pairs {
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.CellFormat(70, 7, pair[0], "", 0, "L", false, 0, "")
		r.pdf.SetFont("Arial", "", 10)
		r.pdf.CellFormat(0, 7, pair[1], "", 1, "L", false, 0, "")
	}
	r.pdf.Ln(3)
}

// Output finalises the document.
func (r *Report) Output() ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := r.pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
