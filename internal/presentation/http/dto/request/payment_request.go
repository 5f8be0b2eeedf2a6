package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordPaymentRequest is a payment received on a customer's account.
// PaymentDate is a calendar date (YYYY-MM-DD); today when empty.
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Method      string          `json:"method"` // cash when empty
	OrderID     *uuid.UUID      `json:"order_id"`
	RegisterID  *uuid.UUID      `json:"register_id"`
	PaymentDate string          `json:"payment_date" binding:"omitempty,datetime=2006-01-02"`
	Notes       *string         `json:"notes" binding:"omitempty,max=500"`
}
