package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
)

// TenantRepository defines the interface for tenant data operations
type TenantRepository interface {
	// Create creates a new tenant
	Create(ctx context.Context, tenant *entity.Tenant) error

	// GetByID retrieves a tenant by ID
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Tenant, error)

	// GetBySlug retrieves a tenant by slug (subdomain identifier)
	GetBySlug(ctx context.Context, slug string) (*entity.Tenant, error)

	Update(ctx context.Context, tenant *entity.Tenant) error

	// GetUserTenants retrieves all tenants a user belongs to, oldest membership first
	GetUserTenants(ctx context.Context, userID uuid.UUID) ([]entity.Tenant, error)

	AddMember(ctx context.Context, membership *entity.TenantMembership) error
	IsMember(ctx context.Context, tenantID, userID uuid.UUID) (bool, error)

	// SlugExists checks if a slug is already taken
	SlugExists(ctx context.Context, slug string) (bool, error)
}
