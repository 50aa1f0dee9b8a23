package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a portrait PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	writeTitle(pdf, title)

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

// RenderGrid creates a landscape PDF for timetable-shaped datasets: the
// first column is a narrow time label, span rows (one non-empty cell keyed
// by the first header) stretch across all day columns.
func (e *PDFExporter) RenderGrid(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) < 2 {
		return nil, fmt.Errorf("grid pdf requires a label column and at least one day column")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	writeTitle(pdf, title)

	const usable = 277.0
	labelWidth := 32.0
	dayWidth := (usable - labelWidth) / float64(len(data.Headers)-1)

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(labelWidth, 8, data.Headers[0], "1", 0, "C", false, 0, "")
	for _, header := range data.Headers[1:] {
		pdf.CellFormat(dayWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	for _, row := range data.Rows {
		if isSpanRow(data.Headers, row) {
			pdf.SetFont("Arial", "I", 9)
			pdf.CellFormat(usable, 7, row[data.Headers[0]], "1", 1, "C", false, 0, "")
			continue
		}
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(labelWidth, 12, row[data.Headers[0]], "1", 0, "C", false, 0, "")
		for _, header := range data.Headers[1:] {
			pdf.CellFormat(dayWidth, 12, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

func isSpanRow(headers []string, row map[string]string) bool {
	for _, header := range headers[1:] {
		if row[header] != "" {
			return false
		}
	}
	// only the label cell is set, and it is a marker row
	return strings.TrimSpace(row[headers[0]]) != "" && len(row) == 1
}

func writeTitle(pdf *gofpdf.Fpdf, title string) {
	if title == "" {
		return
	}
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.Ln(5)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
