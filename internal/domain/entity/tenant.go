package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tenant is a shop. Every customer, product, order, payment and register belongs to one.
type Tenant struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Slug      string         `gorm:"size:255;unique;not null" json:"slug"`
	OwnerID   uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_id"`
	Settings  TenantSettings `gorm:"type:jsonb;serializer:json" json:"settings"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Owner   User               `gorm:"foreignKey:OwnerID" json:"-"`
	Members []TenantMembership `gorm:"foreignKey:TenantID" json:"-"`
}

// BeforeCreate generates a UUID before creating a new tenant
func (t *Tenant) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Tenant model
func (Tenant) TableName() string {
	return "tenants"
}

// TenantMembership links a user to a tenant with a tenant-level role (owner, admin, member)
type TenantMembership struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"tenant_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Role      string    `gorm:"size:50;default:'member'" json:"role"`
	CreatedAt time.Time `json:"created_at"`

	Tenant Tenant `gorm:"foreignKey:TenantID" json:"-"`
	User   User   `gorm:"foreignKey:UserID" json:"-"`
}

// TableName returns the table name for the TenantMembership model
func (TenantMembership) TableName() string {
	return "tenant_memberships"
}

// TenantSettings holds the per-shop values used on invoices and statements
type TenantSettings struct {
	Currency      string  `json:"currency,omitempty"`
	Timezone      string  `json:"timezone,omitempty"`
	TaxRate       float64 `json:"tax_rate,omitempty"`
	TaxLabel      string  `json:"tax_label,omitempty"`
	InvoicePrefix string  `json:"invoice_prefix,omitempty"`
	ReceiptPrefix string  `json:"receipt_prefix,omitempty"`
	Address       string  `json:"address,omitempty"`
	Phone         string  `json:"phone,omitempty"`
	Email         string  `json:"email,omitempty"`
}

// Scan implements the sql.Scanner interface for TenantSettings
func (ts *TenantSettings) Scan(value interface{}) error {
	if value == nil {
		*ts = TenantSettings{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan TenantSettings: unsupported type")
	}

	return json.Unmarshal(bytes, ts)
}

// Value implements the driver.Valuer interface for TenantSettings
func (ts TenantSettings) Value() (driver.Value, error) {
	return json.Marshal(ts)
}

// DefaultTenantSettings returns default settings for new tenants
func DefaultTenantSettings() TenantSettings {
	return TenantSettings{
		Currency:      "KES",
		Timezone:      "Africa/Nairobi",
		TaxRate:       16.0,
		TaxLabel:      "VAT",
		InvoicePrefix: "INV-",
		ReceiptPrefix: "RCT-",
	}
}

// WithDefaults fills empty fields from DefaultTenantSettings
func (ts TenantSettings) WithDefaults() TenantSettings {
	d := DefaultTenantSettings()
	if ts.Currency == "" {
		ts.Currency = d.Currency
	}
	if ts.Timezone == "" {
		ts.Timezone = d.Timezone
	}
	if ts.TaxRate == 0 {
		ts.TaxRate = d.TaxRate
	}
	if ts.TaxLabel == "" {
		ts.TaxLabel = d.TaxLabel
	}
	if ts.InvoicePrefix == "" {
		ts.InvoicePrefix = d.InvoicePrefix
	}
	if ts.ReceiptPrefix == "" {
		ts.ReceiptPrefix = d.ReceiptPrefix
	}
	return ts
}
