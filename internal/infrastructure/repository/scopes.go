package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ctxKey string

const (
	// TenantIDKey is the context key for tenant ID
	TenantIDKey ctxKey = "tenant_id"
	// SkipTenantScopeKey is the context key for skipping tenant scope (super admin)
	SkipTenantScopeKey ctxKey = "skip_tenant_scope"
	// txKey carries the open *gorm.DB transaction, see Transactor
	txKey ctxKey = "gorm_tx"
)

// TenantScope returns a GORM scope that filters by tenant
// This should be applied to all queries for tenant-scoped entities
// If SkipTenantScopeKey is true in context (super admin), returns all records
func TenantScope(ctx context.Context) func(db *gorm.DB) *gorm.DB {
	return TenantScopeOn(ctx, "")
}

// TenantScopeOn is TenantScope for a query that joins tables; alias qualifies tenant_id
func TenantScopeOn(ctx context.Context, alias string) func(db *gorm.DB) *gorm.DB {
	column := "tenant_id"
	if alias != "" {
		column = alias + ".tenant_id"
	}
	return func(db *gorm.DB) *gorm.DB {
		if skipScope, ok := ctx.Value(SkipTenantScopeKey).(bool); ok && skipScope {
			return db
		}

		tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
		if !ok {
			// No tenant in context: match nothing rather than everything
			return db.Where("1 = 0")
		}
		return db.Where(column+" = ?", tenantID)
	}
}

// WithSkipTenantScope adds skip tenant scope flag to context (for super admins)
func WithSkipTenantScope(ctx context.Context, skip bool) context.Context {
	return context.WithValue(ctx, SkipTenantScopeKey, skip)
}

// WithTenant adds tenant ID to context
func WithTenant(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// GetTenantID extracts tenant ID from context
func GetTenantID(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TenantIDKey).(uuid.UUID)
	return tenantID, ok
}

// conn returns the transaction carried by ctx, or db when there is none
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
