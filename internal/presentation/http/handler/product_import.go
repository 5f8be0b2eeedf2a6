package handler

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/sangkips/storefront-api/internal/application/service"
	"github.com/xuri/excelize/v2"
)

var errNoNameColumn = errors.New("the first row must name the columns and include 'name'")

// readProductSheet parses the first sheet of an .xlsx workbook. Row 1 holds
// the column names, matched case-insensitively; unknown columns are ignored.
// Trailing blank rows are dropped; the rest keep their sheet position so
// reported row numbers match the file. A quantity that is not a whole
// number is passed on as -1 so the row is reported instead of stocked at 0.
func readProductSheet(r io.Reader) ([]service.ImportProductRow, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.New("the file is not a readable .xlsx workbook")
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("the workbook has no sheets")
	}

	grid, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, err
	}
	if len(grid) == 0 {
		return nil, errNoNameColumn
	}

	columns := make(map[string]int, len(grid[0]))
	for i, name := range grid[0] {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.ReplaceAll(key, " ", "_")
		columns[key] = i
	}
	if _, ok := columns["name"]; !ok {
		return nil, errNoNameColumn
	}

	cell := func(row []string, column string) string {
		i, ok := columns[column]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	body := grid[1:]
	for len(body) > 0 && strings.TrimSpace(strings.Join(body[len(body)-1], "")) == "" {
		body = body[:len(body)-1]
	}

	rows := make([]service.ImportProductRow, 0, len(body))
	for _, row := range body {
		rows = append(rows, service.ImportProductRow{
			Name:          cell(row, "name"),
			Code:          cell(row, "code"),
			Quantity:      wholeNumber(cell(row, "quantity")),
			QuantityAlert: wholeNumber(cell(row, "quantity_alert")),
			SellingPrice:  cell(row, "selling_price"),
			TaxType:       cell(row, "tax_type"),
			Notes:         cell(row, "notes"),
		})
	}
	return rows, nil
}

func wholeNumber(raw string) int {
	if raw == "" {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return n
}
