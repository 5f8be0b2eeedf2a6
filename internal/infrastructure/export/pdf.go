package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

var pdfColumns = []struct {
	title string
	width float64
	align string
}{
	{"Date", 24, "L"},
	{"Description", 66, "L"},
	{"Register", 26, "L"},
	{"Invoice", 24, "R"},
	{"Paid", 24, "R"},
	{"Balance", 26, "R"},
}

// RenderPDF renders the statement on A4 portrait, oldest entry first
func RenderPDF(doc Document) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(doc.ShopName+" statement"), false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 6, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 8, tr(doc.ShopName))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{doc.ShopAddress, doc.ShopPhone} {
		if line != "" {
			pdf.Cell(0, 5, tr(line))
			pdf.Ln(5)
		}
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 7, "Customer Statement")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 5, tr("Customer: "+doc.CustomerName))
	pdf.Ln(5)
	for _, line := range []string{doc.CustomerPhone, doc.CustomerEmail} {
		if line != "" {
			pdf.Cell(0, 5, tr(line))
			pdf.Ln(5)
		}
	}
	pdf.Cell(0, 5, "Generated: "+doc.GeneratedAt.Format("2006-01-02 15:04"))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range pdfColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	if doc.Statement != nil {
		pdfRow(pdf, []string{"", "Opening balance", "", "", "", formatAmount(doc.Statement.StartingBalance)})
	}
	for _, e := range doc.chronological() {
		register := ""
		if e.RegisterName != nil {
			register = *e.RegisterName
		}
		pdfRow(pdf, []string{
			e.Date,
			tr(e.Description),
			tr(register),
			blankIfZero(e.InvoiceValue),
			blankIfZero(e.PaidAmount),
			formatAmount(e.RunningBalance),
		})
	}

	if doc.Statement != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("Balance due: %s %s", doc.Currency, formatAmount(doc.Statement.CurrentBalance)), "", 1, "R", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func pdfRow(pdf *gofpdf.Fpdf, cells []string) {
	for i, c := range pdfColumns {
		pdf.CellFormat(c.width, 6, cells[i], "1", 0, c.align, false, 0, "")
	}
	pdf.Ln(-1)
}
