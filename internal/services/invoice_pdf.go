package services

import (
	"bytes"
	"fmt"

	"rentguy/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// RenderInvoicePDF lays out a single-page A4 invoice.
func RenderInvoicePDF(doc *models.InvoiceDocument) ([]byte, error) {
	inv := doc.Invoice
	const margin = 20.0

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 11)
	lines := []string{
		fmt.Sprintf("Invoice Number: %s", inv.InvoiceNumber),
		fmt.Sprintf("Issue Date: %s", inv.IssueDate.Format("02 Jan 2006")),
		fmt.Sprintf("Due Date: %s", inv.DueDate.Format("02 Jan 2006")),
		fmt.Sprintf("Status: %s", inv.Status),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 7, "BILL TO:")
	pdf.Ln(7)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, doc.TenantName)
	pdf.Ln(6)
	pdf.Cell(0, 6, doc.TenantEmail)
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("%s, unit %s", doc.PropertyName, doc.UnitNumber))
	pdf.Ln(6)
	pdf.Cell(0, 6, doc.Address)
	pdf.Ln(12)

	colWidths := []float64{110, 60}
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	for i, header := range []string{"Description", "Amount"} {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	rows := [][2]string{
		{"Rent", inv.Amount.StringFixed(2) + " " + inv.CurrencyISO},
		{"VAT", inv.VATAmount.StringFixed(2) + " " + inv.CurrencyISO},
	}
	for _, row := range rows {
		pdf.CellFormat(colWidths[0], 8, row[0], "1", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, row[1], "1", 0, "R", false, 0, "")
		pdf.Ln(8)
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(colWidths[0], 8, "Total", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colWidths[1], 8, inv.TotalAmount.StringFixed(2)+" "+inv.CurrencyISO, "1", 0, "R", true, 0, "")
	pdf.Ln(8)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}
