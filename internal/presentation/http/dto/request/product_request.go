package request

import (
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a product creation request
type CreateProductRequest struct {
	Name          string          `json:"name" binding:"required,min=2,max=255"`
	Code          string          `json:"code" binding:"omitempty,max=100"`
	Quantity      int             `json:"quantity" binding:"min=0"`
	QuantityAlert int             `json:"quantity_alert" binding:"min=0"`
	SellingPrice  decimal.Decimal `json:"selling_price"`
	TaxType       enum.TaxType    `json:"tax_type" binding:"min=0,max=1"`
	Notes         *string         `json:"notes"`
}

// UpdateProductRequest represents a product update request
type UpdateProductRequest struct {
	Name          *string          `json:"name" binding:"omitempty,min=2,max=255"`
	Code          *string          `json:"code" binding:"omitempty,min=1,max=100"`
	Quantity      *int             `json:"quantity" binding:"omitempty,min=0"`
	QuantityAlert *int             `json:"quantity_alert" binding:"omitempty,min=0"`
	SellingPrice  *decimal.Decimal `json:"selling_price"`
	TaxType       *enum.TaxType    `json:"tax_type" binding:"omitempty,min=0,max=1"`
	Notes         *string          `json:"notes"`
}

// ProductFilterRequest represents product filter parameters
type ProductFilterRequest struct {
	Search    string `form:"search"`
	LowStock  bool   `form:"low_stock"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
