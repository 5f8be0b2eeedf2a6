package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/pkg/apperror"
	"github.com/sangkips/storefront-api/pkg/utils"
)

// Membership roles within a shop
const (
	MemberRoleOwner  = "owner"
	MemberRoleMember = "member"
)

// TenantService handles tenant (shop) operations
type TenantService struct {
	tenantRepo repository.TenantRepository
}

// NewTenantService creates a new tenant service
func NewTenantService(tenantRepo repository.TenantRepository) *TenantService {
	return &TenantService{tenantRepo: tenantRepo}
}

// CreateTenantInput represents input for creating a tenant
type CreateTenantInput struct {
	Name     string
	Slug     string
	OwnerID  uuid.UUID
	Settings *entity.TenantSettings
}

// CreateTenant creates a shop and makes OwnerID its owner. The slug is
// derived from the name when empty.
func (s *TenantService) CreateTenant(ctx context.Context, input *CreateTenantInput) (*entity.Tenant, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperror.NewBadRequestError("Shop name is required")
	}

	slug := utils.Slugify(input.Slug)
	if slug == "" {
		slug = utils.Slugify(name)
	}
	if slug == "" {
		return nil, apperror.NewBadRequestError("Shop name must contain letters or digits")
	}

	taken, err := s.tenantRepo.SlugExists(ctx, slug)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperror.NewConflictError("Tenant slug already exists")
	}

	settings := entity.DefaultTenantSettings()
	if input.Settings != nil {
		settings = input.Settings.WithDefaults()
	}

	tenant := &entity.Tenant{
		Name:     name,
		Slug:     slug,
		OwnerID:  input.OwnerID,
		Settings: settings,
	}
	if err := s.tenantRepo.Create(ctx, tenant); err != nil {
		return nil, err
	}

	membership := &entity.TenantMembership{
		TenantID: tenant.ID,
		UserID:   input.OwnerID,
		Role:     MemberRoleOwner,
	}
	if err := s.tenantRepo.AddMember(ctx, membership); err != nil {
		return nil, err
	}

	return tenant, nil
}

// GetTenant retrieves a tenant by ID
func (s *TenantService) GetTenant(ctx context.Context, id uuid.UUID) (*entity.Tenant, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if tenant == nil {
		return nil, apperror.NewNotFoundError("Tenant")
	}
	return tenant, nil
}

// GetUserTenants retrieves all tenants a user belongs to
func (s *TenantService) GetUserTenants(ctx context.Context, userID uuid.UUID) ([]entity.Tenant, error) {
	return s.tenantRepo.GetUserTenants(ctx, userID)
}

// UpdateTenantInput represents input for updating a shop's name and settings
type UpdateTenantInput struct {
	ID       uuid.UUID
	Name     *string
	Settings *entity.TenantSettings
}

// UpdateTenant updates a shop. New settings apply to invoices and statements
// produced from now on.
func (s *TenantService) UpdateTenant(ctx context.Context, input *UpdateTenantInput) (*entity.Tenant, error) {
	tenant, err := s.GetTenant(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewBadRequestError("Shop name is required")
		}
		tenant.Name = name
	}
	if input.Settings != nil {
		if input.Settings.TaxRate < 0 || input.Settings.TaxRate > 100 {
			return nil, apperror.NewBadRequestError("Tax rate must be between 0 and 100")
		}
		tenant.Settings = input.Settings.WithDefaults()
	}

	if err := s.tenantRepo.Update(ctx, tenant); err != nil {
		return nil, err
	}
	return tenant, nil
}
