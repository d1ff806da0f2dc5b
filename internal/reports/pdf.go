package reports

import (
	"bytes"
	"fmt"

	"github.com/phpdave11/gofpdf"
)

// BuildMonthlyPDF renders the by-month expense totals as a simple one-page
// table.
func BuildMonthlyPDF(items []MonthTotal) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("GastoSmart - Gastos por mes", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "GastoSmart")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Gastos agrupados por mes")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(70, 7, "Mes")
	pdf.Cell(50, 7, "Total")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 11)
	var grand float64
	for _, m := range items {
		pdf.Cell(70, 7, m.Mes)
		pdf.Cell(50, 7, fmt.Sprintf("$%.2f", m.Total))
		pdf.Ln(7)
		grand += m.Total
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(70, 8, "Total general")
	pdf.Cell(50, 8, fmt.Sprintf("$%.2f", grand))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
