package statement

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04:05"
)

// Accepted date layouts, date-only first. Layouts after the first carry a clock.
var dateLayouts = []string{
	dateLayout,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Seconds may carry a fraction; time.Parse accepts it without a layout change.
var clockLayouts = []string{
	"15:04:05",
	"15:04",
}

var (
	errMissingDate   = errors.New("missing date")
	errMissingAmount = errors.New("missing amount")
	errNegative      = errors.New("negative amount")
)

// Collect parses both streams into transactions tagged with their signed
// effect. Rows with a bad amount or date are left out and reported.
// Invoices are numbered before payments; that numbering is the input order
// used to break timestamp ties.
func Collect(invoices []InvoiceRecord, payments []PaymentRecord) ([]Transaction, []Skipped) {
	txs := make([]Transaction, 0, len(invoices)+len(payments))
	var skipped []Skipped
	seq := 0

	for _, inv := range invoices {
		seq++
		tx, err := invoiceTransaction(inv)
		if err != nil {
			skipped = append(skipped, Skipped{ID: inv.ID, Kind: KindInvoice, Reason: err.Error()})
			continue
		}
		tx.seq = seq
		txs = append(txs, tx)
	}

	for _, pay := range payments {
		seq++
		tx, err := paymentTransaction(pay)
		if err != nil {
			skipped = append(skipped, Skipped{ID: pay.ID, Kind: KindPayment, Reason: err.Error()})
			continue
		}
		tx.seq = seq
		txs = append(txs, tx)
	}

	return txs, skipped
}

func invoiceTransaction(inv InvoiceRecord) (Transaction, error) {
	amount, err := parseAmount(inv.TotalAmount)
	if err != nil {
		return Transaction{}, err
	}
	at, hasTime, err := parseInstant(inv.CreatedAtDate, inv.CreatedAtTime)
	if err != nil {
		return Transaction{}, err
	}

	label := strings.TrimSpace(inv.InvoiceTypeLabel)
	if label == "" {
		label = "Invoice"
	}
	if inv.InvoiceNo != "" {
		label = label + " " + inv.InvoiceNo
	}

	return Transaction{
		Entry: Entry{
			ID:           inv.ID,
			Date:         at.Format(dateLayout),
			Time:         clockString(at, hasTime),
			Kind:         KindInvoice,
			Description:  label,
			InvoiceValue: amount,
			PaidAmount:   decimal.Zero,
			RegisterName: inv.RegisterName,
		},
		Effect:  amount,
		at:      at,
		hasTime: hasTime,
	}, nil
}

func paymentTransaction(pay PaymentRecord) (Transaction, error) {
	amount, err := parseAmount(pay.Amount)
	if err != nil {
		return Transaction{}, err
	}

	date := pay.PaymentDate
	if strings.TrimSpace(date) == "" {
		date = pay.CreatedAtDate
	}
	at, hasTime, err := parseInstant(date, pay.CreatedAtTime)
	if err != nil {
		return Transaction{}, err
	}

	description := "Payment"
	if pay.Notes != nil && strings.TrimSpace(*pay.Notes) != "" {
		description = strings.TrimSpace(*pay.Notes)
	}

	return Transaction{
		Entry: Entry{
			ID:           pay.ID,
			Date:         at.Format(dateLayout),
			Time:         clockString(at, hasTime),
			Kind:         KindPayment,
			Description:  description,
			InvoiceValue: decimal.Zero,
			PaidAmount:   amount,
			RegisterName: pay.RegisterName,
		},
		Effect:  amount.Neg(),
		at:      at,
		hasTime: hasTime,
	}, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, errMissingAmount
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unparseable amount %q", raw)
	}
	if amount.IsNegative() {
		return decimal.Zero, errNegative
	}
	return amount, nil
}

// parseInstant combines a date and an optional clock into one UTC wall-clock
// instant. A clock embedded in the date is used when the separate clock is
// missing or unparseable.
func parseInstant(date, clock string) (time.Time, bool, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return time.Time{}, false, errMissingDate
	}

	var day time.Time
	var dayHasClock, parsed bool
	for i, layout := range dateLayouts {
		d, err := time.Parse(layout, date)
		if err == nil {
			day, dayHasClock, parsed = d, i > 0, true
			break
		}
	}
	if !parsed {
		return time.Time{}, false, fmt.Errorf("unparseable date %q", date)
	}

	y, m, d := day.Date()
	if c, ok := parseClock(clock); ok {
		return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), c.Nanosecond(), time.UTC), true, nil
	}
	if dayHasClock {
		return time.Date(y, m, d, day.Hour(), day.Minute(), day.Second(), day.Nanosecond(), time.UTC), true, nil
	}
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), false, nil
}

func parseClock(clock string) (time.Time, bool) {
	clock = strings.TrimSpace(clock)
	if clock == "" {
		return time.Time{}, false
	}
	for _, layout := range clockLayouts {
		if c, err := time.Parse(layout, clock); err == nil {
			return c, true
		}
	}
	return time.Time{}, false
}

func clockString(at time.Time, hasTime bool) string {
	if !hasTime {
		return ""
	}
	return at.Format(timeLayout)
}
