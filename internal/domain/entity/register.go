package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Register is a cash till that sales and payments can be recorded at
type Register struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	TenantID  uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_registers_tenant_name" json:"tenant_id"`
	Name      string         `gorm:"size:100;not null;uniqueIndex:idx_registers_tenant_name" json:"name"`
	Location  *string        `gorm:"size:255" json:"location,omitempty"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate generates a UUID before creating a new register
func (r *Register) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Register model
func (Register) TableName() string {
	return "registers"
}
