package request

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderItemRequest is one product line of a new order
type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateOrderRequest represents a checkout. CustomerID is empty for a walk-in sale.
type CreateOrderRequest struct {
	CustomerID  *uuid.UUID         `json:"customer_id"`
	RegisterID  *uuid.UUID         `json:"register_id"`
	PaymentType string             `json:"payment_type" binding:"omitempty,max=50"`
	Pay         decimal.Decimal    `json:"pay"`
	Items       []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// OrderFilterRequest represents order filter parameters
type OrderFilterRequest struct {
	Search     string `form:"search"`
	Status     string `form:"status"`
	CustomerID string `form:"customer_id"`
	RegisterID string `form:"register_id"`
	StartDate  string `form:"start_date"`
	EndDate    string `form:"end_date"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
}

// PayOrderRequest settles part of an order's due amount
type PayOrderRequest struct {
	Amount     decimal.Decimal `json:"amount"`
	Method     string          `json:"method"` // cash when empty
	RegisterID *uuid.UUID      `json:"register_id"`
	Notes      *string         `json:"notes"`
}
