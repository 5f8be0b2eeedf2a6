package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order is a sale. With a customer attached it is the invoice that shows on
// the customer's statement.
type Order struct {
	ID            uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID        `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID        uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	CustomerID    *uuid.UUID       `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	RegisterID    *uuid.UUID       `gorm:"type:uuid;index" json:"register_id,omitempty"`
	OrderDate     time.Time        `gorm:"type:date;not null" json:"order_date"`
	OrderStatus   enum.OrderStatus `gorm:"default:0" json:"order_status"`
	InvoiceType   enum.InvoiceType `gorm:"default:0" json:"invoice_type"`
	TotalProducts int              `gorm:"default:0" json:"total_products"`
	SubTotal      int64            `gorm:"default:0" json:"-"` // cents
	VAT           int64            `gorm:"default:0" json:"-"` // cents
	Total         int64            `gorm:"default:0" json:"-"` // cents
	InvoiceNo     string           `gorm:"size:100;uniqueIndex;not null" json:"invoice_no"`
	PaymentType   string           `gorm:"size:50" json:"payment_type"`
	Pay           int64            `gorm:"default:0" json:"-"` // cents
	Due           int64            `gorm:"default:0" json:"-"` // cents
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	DeletedAt     gorm.DeletedAt   `gorm:"index" json:"-"`

	User     User          `gorm:"foreignKey:UserID" json:"-"`
	Customer *Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Register *Register     `gorm:"foreignKey:RegisterID" json:"register,omitempty"`
	Details  []OrderDetail `gorm:"foreignKey:OrderID" json:"details,omitempty"`
}

// MarshalJSON converts cents to decimal amounts for API responses
func (o Order) MarshalJSON() ([]byte, error) {
	type Alias Order
	return json.Marshal(&struct {
		Alias
		SubTotal decimal.Decimal `json:"sub_total"`
		VAT      decimal.Decimal `json:"vat"`
		Total    decimal.Decimal `json:"total"`
		Pay      decimal.Decimal `json:"pay"`
		Due      decimal.Decimal `json:"due"`
	}{
		Alias:    Alias(o),
		SubTotal: FromCents(o.SubTotal),
		VAT:      FromCents(o.VAT),
		Total:    FromCents(o.Total),
		Pay:      FromCents(o.Pay),
		Due:      FromCents(o.Due),
	})
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// ApplyPayment moves cents from due to pay and completes the order once
// nothing is owed.
func (o *Order) ApplyPayment(cents int64) {
	o.Pay += cents
	o.Due -= cents
	if o.Due <= 0 {
		o.Due = 0
		o.OrderStatus = enum.OrderStatusComplete
	}
}

// ReversePayment undoes ApplyPayment for a voided payment
func (o *Order) ReversePayment(cents int64) {
	o.Pay -= cents
	o.Due += cents
	if o.Due > 0 && o.OrderStatus == enum.OrderStatusComplete {
		o.OrderStatus = enum.OrderStatusPending
	}
}

// OrderDetail is one line of an order. ProductName is captured at sale time.
type OrderDetail struct {
	ID          uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string         `gorm:"size:255" json:"product_name"`
	Quantity    int            `gorm:"not null" json:"quantity"`
	UnitCost    int64          `gorm:"not null" json:"-"` // cents
	Total       int64          `gorm:"not null" json:"-"` // cents
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Order Order `gorm:"foreignKey:OrderID" json:"-"`
}

// MarshalJSON converts cents to decimal amounts for API responses
func (od OrderDetail) MarshalJSON() ([]byte, error) {
	type Alias OrderDetail
	return json.Marshal(&struct {
		Alias
		UnitCost decimal.Decimal `json:"unit_cost"`
		Total    decimal.Decimal `json:"total"`
	}{
		Alias:    Alias(od),
		UnitCost: FromCents(od.UnitCost),
		Total:    FromCents(od.Total),
	})
}

// BeforeCreate generates a UUID before creating a new order detail
func (od *OrderDetail) BeforeCreate(tx *gorm.DB) error {
	if od.ID == uuid.Nil {
		od.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}
