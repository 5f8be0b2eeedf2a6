package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a stock item sold through orders
type Product struct {
	ID            uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID      uuid.UUID      `gorm:"type:uuid;not null;index;uniqueIndex:idx_products_tenant_code" json:"tenant_id"`
	UserID        uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name          string         `gorm:"size:255;not null" json:"name"`
	Code          string         `gorm:"size:100;not null;uniqueIndex:idx_products_tenant_code" json:"code"`
	Quantity      int            `gorm:"default:0" json:"quantity"`
	QuantityAlert int            `gorm:"default:0" json:"quantity_alert"`
	SellingPrice  int64          `gorm:"default:0" json:"-"` // cents
	TaxType       enum.TaxType   `gorm:"default:0" json:"tax_type"`
	Notes         *string        `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
}

// MarshalJSON exposes the selling price as a decimal amount
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		SellingPrice decimal.Decimal `json:"selling_price"`
		LowStock     bool            `json:"low_stock"`
	}{
		Alias:        Alias(p),
		SellingPrice: FromCents(p.SellingPrice),
		LowStock:     p.IsLowStock(),
	})
}

// IsLowStock reports whether stock is at or below the alert level
func (p *Product) IsLowStock() bool {
	return p.QuantityAlert > 0 && p.Quantity <= p.QuantityAlert
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
