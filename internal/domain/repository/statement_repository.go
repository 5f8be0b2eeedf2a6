package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/statement"
)

// StatementRepository loads the raw rows a customer statement is built from.
// Values come back as text so malformed rows surface in the builder instead
// of failing the whole query.
type StatementRepository interface {
	// InvoiceRows returns the customer's non-cancelled orders
	InvoiceRows(ctx context.Context, customerID uuid.UUID) ([]statement.InvoiceRecord, error)
	// PaymentRows returns the customer's payments, voided ones excluded
	PaymentRows(ctx context.Context, customerID uuid.UUID) ([]statement.PaymentRecord, error)
}
