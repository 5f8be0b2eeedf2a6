package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Payment is money received from a customer, optionally against one order.
// Voided payments are soft-deleted.
type Payment struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	TenantID    uuid.UUID          `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID      uuid.UUID          `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID  uuid.UUID          `gorm:"type:uuid;not null;index" json:"customer_id"`
	OrderID     *uuid.UUID         `gorm:"type:uuid;index" json:"order_id,omitempty"`
	RegisterID  *uuid.UUID         `gorm:"type:uuid;index" json:"register_id,omitempty"`
	ReceiptNo   string             `gorm:"size:100;uniqueIndex;not null" json:"receipt_no"`
	Amount      int64              `gorm:"not null" json:"-"` // cents
	Method      enum.PaymentMethod `gorm:"size:20;not null;default:'cash'" json:"method"`
	PaymentDate time.Time          `gorm:"type:date;not null" json:"payment_date"`
	Notes       *string            `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	DeletedAt   gorm.DeletedAt     `gorm:"index" json:"-"`

	Customer Customer  `gorm:"foreignKey:CustomerID" json:"-"`
	Order    *Order    `gorm:"foreignKey:OrderID" json:"-"`
	Register *Register `gorm:"foreignKey:RegisterID" json:"register,omitempty"`
}

// MarshalJSON converts cents to a decimal amount for API responses
func (p Payment) MarshalJSON() ([]byte, error) {
	type Alias Payment
	return json.Marshal(&struct {
		Alias
		Amount      decimal.Decimal `json:"amount"`
		PaymentDate string          `json:"payment_date"`
	}{
		Alias:       Alias(p),
		Amount:      FromCents(p.Amount),
		PaymentDate: p.PaymentDate.Format("2006-01-02"),
	})
}

// BeforeCreate generates a UUID before creating a new payment
func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Payment model
func (Payment) TableName() string {
	return "payments"
}
