package statement

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Page is a window over the descending statement
type Page struct {
	Entries    []Entry
	TotalCount int
	HasMore    bool
}

// Build merges invoices and payments, recovers the balance that existed
// before the oldest entry from currentBalance, stamps every entry with its
// running balance and returns the [offset, offset+limit) window, most recent
// first. The most recent entry always closes on currentBalance.
func Build(invoices []InvoiceRecord, payments []PaymentRecord, currentBalance decimal.Decimal, offset, limit int) (*Result, error) {
	if limit <= 0 || offset < 0 {
		return nil, ErrInvalidWindow
	}

	txs, skipped := Collect(invoices, payments)
	SortDescending(txs)

	start := StartingBalance(txs, currentBalance)
	entries := ApplyForward(txs, start)

	page, err := Paginate(entries, offset, limit)
	if err != nil {
		return nil, err
	}

	return &Result{
		Entries:         page.Entries,
		TotalCount:      page.TotalCount,
		HasMore:         page.HasMore,
		SkippedCount:    len(skipped),
		Skipped:         skipped,
		StartingBalance: start,
		CurrentBalance:  currentBalance,
	}, nil
}

// BuildAll is Build without a page window
func BuildAll(invoices []InvoiceRecord, payments []PaymentRecord, currentBalance decimal.Decimal) *Result {
	// A window wider than every possible entry cannot fail.
	result, _ := Build(invoices, payments, currentBalance, 0, len(invoices)+len(payments)+1)
	return result
}

// SortDescending orders transactions most recent first.
//
// Ties on the same instant are broken so that, read oldest first, invoices
// come before payments and each kind keeps its input order. The descending
// order is the exact mirror of that.
func SortDescending(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return newerThan(txs[i], txs[j])
	})
}

func newerThan(a, b Transaction) bool {
	if !a.at.Equal(b.at) {
		return a.at.After(b.at)
	}
	if a.Kind != b.Kind {
		return a.Kind == KindPayment
	}
	return a.seq > b.seq
}

// StartingBalance is the reverse pass: it walks desc (most recent first) and
// undoes each effect from current, yielding the balance before the oldest entry.
func StartingBalance(desc []Transaction, current decimal.Decimal) decimal.Decimal {
	balance := current
	for _, tx := range desc {
		balance = balance.Sub(tx.Effect)
	}
	return balance
}

// ApplyForward is the forward pass: it walks desc from the oldest entry to
// the most recent, applying each effect to start. The returned entries keep
// the descending order of desc.
func ApplyForward(desc []Transaction, start decimal.Decimal) []Entry {
	entries := make([]Entry, len(desc))
	balance := start
	for i := len(desc) - 1; i >= 0; i-- {
		balance = balance.Add(desc[i].Effect)
		entry := desc[i].Entry
		entry.RunningBalance = balance
		entries[i] = entry
	}
	return entries
}

// Paginate slices [offset, offset+limit) out of entries
func Paginate(entries []Entry, offset, limit int) (Page, error) {
	if limit <= 0 || offset < 0 {
		return Page{}, ErrInvalidWindow
	}

	total := len(entries)
	// compare against the remaining count; offset+limit can overflow
	page := Page{Entries: []Entry{}, TotalCount: total, HasMore: offset < total && limit < total-offset}
	if offset >= total {
		return page, nil
	}

	end := total
	if limit < total-offset {
		end = offset + limit
	}
	page.Entries = append(page.Entries, entries[offset:end]...)
	return page, nil
}
