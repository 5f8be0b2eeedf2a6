package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	infraRepo "github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/pkg/apperror"
)

// RegisterService manages the shop's cash registers
type RegisterService struct {
	registerRepo repository.RegisterRepository
}

// NewRegisterService creates a new register service
func NewRegisterService(registerRepo repository.RegisterRepository) *RegisterService {
	return &RegisterService{registerRepo: registerRepo}
}

// CreateRegister creates an active register. Names are unique per tenant.
func (s *RegisterService) CreateRegister(ctx context.Context, name string, location *string) (*entity.Register, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.NewBadRequestError("Register name is required")
	}
	if err := s.ensureNameFree(ctx, name, uuid.Nil); err != nil {
		return nil, err
	}

	register := &entity.Register{
		TenantID: tenantID,
		Name:     name,
		Location: location,
		IsActive: true,
	}
	if err := s.registerRepo.Create(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

// GetRegister retrieves a register by ID
func (s *RegisterService) GetRegister(ctx context.Context, id uuid.UUID) (*entity.Register, error) {
	register, err := s.registerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if register == nil {
		return nil, apperror.NewNotFoundError("Register")
	}
	return register, nil
}

// ListRegisters lists registers, optionally only active ones
func (s *RegisterService) ListRegisters(ctx context.Context, activeOnly bool) ([]entity.Register, error) {
	return s.registerRepo.List(ctx, activeOnly)
}

// UpdateRegisterInput represents the update register input
type UpdateRegisterInput struct {
	ID       uuid.UUID
	Name     *string
	Location *string
	IsActive *bool
}

// UpdateRegister renames, relocates or (de)activates a register
func (s *RegisterService) UpdateRegister(ctx context.Context, input *UpdateRegisterInput) (*entity.Register, error) {
	register, err := s.GetRegister(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperror.NewBadRequestError("Register name is required")
		}
		if name != register.Name {
			if err := s.ensureNameFree(ctx, name, register.ID); err != nil {
				return nil, err
			}
		}
		register.Name = name
	}
	if input.Location != nil {
		register.Location = input.Location
	}
	if input.IsActive != nil {
		register.IsActive = *input.IsActive
	}

	if err := s.registerRepo.Update(ctx, register); err != nil {
		return nil, err
	}
	return register, nil
}

// DeactivateRegister stops a register from taking new sales and payments.
// Past entries keep showing its name.
func (s *RegisterService) DeactivateRegister(ctx context.Context, id uuid.UUID) error {
	inactive := false
	_, err := s.UpdateRegister(ctx, &UpdateRegisterInput{ID: id, IsActive: &inactive})
	return err
}

func (s *RegisterService) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.registerRepo.GetByName(ctx, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("A register with this name already exists")
	}
	return nil
}
