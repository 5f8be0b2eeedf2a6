package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Customer is a shop customer with an account. Balance is what the customer
// currently owes the shop; a negative balance is credit in the customer's favour.
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"tenant_id"`
	UserID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	Phone     *string        `gorm:"size:50" json:"phone,omitempty"`
	KRAPin    *string        `gorm:"size:50;column:kra_pin" json:"kra_pin,omitempty"`
	Address   *string        `gorm:"type:text" json:"address,omitempty"`
	Balance   int64          `gorm:"not null;default:0" json:"-"` // cents
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Tenant   Tenant    `gorm:"foreignKey:TenantID" json:"-"`
	User     User      `gorm:"foreignKey:UserID" json:"-"`
	Orders   []Order   `gorm:"foreignKey:CustomerID" json:"-"`
	Payments []Payment `gorm:"foreignKey:CustomerID" json:"-"`
}

// MarshalJSON exposes the balance as a decimal amount
func (c Customer) MarshalJSON() ([]byte, error) {
	type Alias Customer
	return json.Marshal(&struct {
		Alias
		Balance decimal.Decimal `json:"balance"`
	}{
		Alias:   Alias(c),
		Balance: FromCents(c.Balance),
	})
}

// BalanceDecimal returns the account balance as a decimal amount
func (c *Customer) BalanceDecimal() decimal.Decimal {
	return FromCents(c.Balance)
}

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
