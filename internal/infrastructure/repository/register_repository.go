package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	domainRepo "github.com/sangkips/storefront-api/internal/domain/repository"
	"gorm.io/gorm"
)

type registerRepository struct {
	db *gorm.DB
}

// NewRegisterRepository creates a new register repository
func NewRegisterRepository(db *gorm.DB) domainRepo.RegisterRepository {
	return &registerRepository{db: db}
}

func (r *registerRepository) Create(ctx context.Context, register *entity.Register) error {
	return conn(ctx, r.db).Create(register).Error
}

func (r *registerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Register, error) {
	var register entity.Register
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&register, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &register, err
}

func (r *registerRepository) GetByName(ctx context.Context, name string) (*entity.Register, error) {
	var register entity.Register
	err := conn(ctx, r.db).Scopes(TenantScope(ctx)).First(&register, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &register, err
}

func (r *registerRepository) Update(ctx context.Context, register *entity.Register) error {
	return conn(ctx, r.db).Scopes(TenantScope(ctx)).Save(register).Error
}

func (r *registerRepository) List(ctx context.Context, activeOnly bool) ([]entity.Register, error) {
	var registers []entity.Register
	query := conn(ctx, r.db).Scopes(TenantScope(ctx))
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("name ASC").Find(&registers).Error
	return registers, err
}
