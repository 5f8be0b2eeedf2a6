package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	statementSheet = "Statement"
	summarySheet   = "Summary"
)

// RenderXLSX renders the statement as a workbook: entries oldest first on one
// sheet, balances on another. Amounts are numeric cells.
func RenderXLSX(doc Document) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", statementSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, err
	}

	money, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}

	headers := []string{"Date", "Time", "Type", "Description", "Register", "Invoice", "Paid", "Balance"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(statementSheet, cell, h)
	}
	_ = f.SetCellStyle(statementSheet, "A1", "H1", bold)

	row := 2
	for _, e := range doc.chronological() {
		register := ""
		if e.RegisterName != nil {
			register = *e.RegisterName
		}
		values := []any{
			e.Date,
			e.Time,
			string(e.Kind),
			e.Description,
			register,
			e.InvoiceValue.InexactFloat64(),
			e.PaidAmount.InexactFloat64(),
			e.RunningBalance.InexactFloat64(),
		}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(statementSheet, cell, v)
		}
		row++
	}
	if row > 2 {
		_ = f.SetCellStyle(statementSheet, "F2", fmt.Sprintf("H%d", row-1), money)
	}
	_ = f.SetColWidth(statementSheet, "D", "D", 40)

	summary := [][]any{
		{"Shop", doc.ShopName},
		{"Customer", doc.CustomerName},
		{"Currency", doc.Currency},
		{"Generated", doc.GeneratedAt.Format("2006-01-02 15:04")},
	}
	if doc.Statement != nil {
		summary = append(summary,
			[]any{"Opening balance", doc.Statement.StartingBalance.InexactFloat64()},
			[]any{"Closing balance", doc.Statement.CurrentBalance.InexactFloat64()},
			[]any{"Entries", doc.Statement.TotalCount},
			[]any{"Skipped rows", doc.Statement.SkippedCount},
		)
	}
	for i, kv := range summary {
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("A%d", i+1), kv[0])
		_ = f.SetCellValue(summarySheet, fmt.Sprintf("B%d", i+1), kv[1])
	}
	_ = f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(summary)), bold)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
