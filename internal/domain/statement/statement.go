// Package statement builds a customer's account statement from invoice and
// payment rows. It performs no I/O; callers load the rows and the customer's
// current balance and hand them in.
package statement

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies which stream a statement entry came from
type Kind string

const (
	KindInvoice Kind = "invoice"
	KindPayment Kind = "payment"
)

// ErrInvalidWindow is returned when the page window is unusable (limit <= 0 or offset < 0).
var ErrInvalidWindow = errors.New("statement: page limit must be positive and offset non-negative")

// InvoiceRecord is an invoice row as loaded from storage. Amounts and dates
// are kept as text so that bad rows can be detected and skipped here.
type InvoiceRecord struct {
	ID               string
	InvoiceNo        string
	CreatedAtDate    string
	CreatedAtTime    string
	TotalAmount      string
	InvoiceTypeLabel string
	RegisterName     *string
}

// PaymentRecord is a payment row as loaded from storage.
// PaymentDate wins over CreatedAtDate when both are set.
type PaymentRecord struct {
	ID            string
	PaymentDate   string
	CreatedAtDate string
	CreatedAtTime string
	Amount        string
	Notes         *string
	RegisterName  *string
}

// Entry is one line of the statement
type Entry struct {
	ID             string          `json:"id"`
	Date           string          `json:"date"`
	Time           string          `json:"time,omitempty"`
	Kind           Kind            `json:"kind"`
	Description    string          `json:"description"`
	InvoiceValue   decimal.Decimal `json:"invoice_value"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
	RunningBalance decimal.Decimal `json:"running_balance"`
	RegisterName   *string         `json:"register_name,omitempty"`
}

// Transaction is a parsed entry together with its signed effect on the balance.
// Invoices carry +amount, payments -amount.
type Transaction struct {
	Entry
	Effect decimal.Decimal

	at      time.Time
	hasTime bool
	seq     int
}

// At returns the instant used for ordering. Entries without a time of day
// report midnight of their date.
func (t Transaction) At() time.Time {
	return t.at
}

// HasTime reports whether the source row carried a parseable time of day
func (t Transaction) HasTime() bool {
	return t.hasTime
}

// Skipped describes a row that could not be used
type Skipped struct {
	ID     string `json:"id"`
	Kind   Kind   `json:"kind"`
	Reason string `json:"reason"`
}

// Result is the paginated statement
type Result struct {
	Entries         []Entry         `json:"entries"`
	TotalCount      int             `json:"total_count"`
	HasMore         bool            `json:"has_more"`
	SkippedCount    int             `json:"skipped_count"`
	Skipped         []Skipped       `json:"skipped,omitempty"`
	StartingBalance decimal.Decimal `json:"starting_balance"`
	CurrentBalance  decimal.Decimal `json:"current_balance"`
}
