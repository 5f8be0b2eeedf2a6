// Package export renders customer statements as PDF and XLSX files.
package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/storefront-api/internal/domain/statement"
	"github.com/shopspring/decimal"
)

// Supported formats
const (
	FormatPDF  = "pdf"
	FormatXLSX = "xlsx"
)

// Document is everything printed on a statement
type Document struct {
	ShopName      string
	ShopAddress   string
	ShopPhone     string
	Currency      string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	GeneratedAt   time.Time
	Statement     *statement.Result
}

// File is a rendered statement
type File struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Render dispatches on format
func Render(format string, doc Document) (*File, error) {
	switch strings.ToLower(format) {
	case FormatPDF, "":
		data, err := RenderPDF(doc)
		if err != nil {
			return nil, err
		}
		return &File{Filename: doc.filename("pdf"), ContentType: "application/pdf", Data: data}, nil
	case FormatXLSX:
		data, err := RenderXLSX(doc)
		if err != nil {
			return nil, err
		}
		return &File{
			Filename:    doc.filename("xlsx"),
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}

// IsSupported reports whether format can be rendered
func IsSupported(format string) bool {
	switch strings.ToLower(format) {
	case FormatPDF, FormatXLSX, "":
		return true
	}
	return false
}

func (d Document) filename(ext string) string {
	name := strings.ToLower(strings.Join(strings.Fields(d.CustomerName), "-"))
	if name == "" {
		name = "customer"
	}
	return fmt.Sprintf("statement-%s-%s.%s", name, d.GeneratedAt.Format("20060102"), ext)
}

// chronological returns the entries oldest first, the way a printed statement reads
func (d Document) chronological() []statement.Entry {
	if d.Statement == nil {
		return nil
	}
	entries := d.Statement.Entries
	out := make([]statement.Entry, len(entries))
	for i, e := range entries {
		out[len(entries)-1-i] = e
	}
	return out
}

// formatAmount renders 2 decimal places with thousands separators
func formatAmount(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "." + frac
}

func blankIfZero(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return formatAmount(d)
}
