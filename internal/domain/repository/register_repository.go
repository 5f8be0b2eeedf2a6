package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
)

// RegisterRepository defines the interface for cash register operations
type RegisterRepository interface {
	Create(ctx context.Context, register *entity.Register) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Register, error)
	GetByName(ctx context.Context, name string) (*entity.Register, error)
	Update(ctx context.Context, register *entity.Register) error
	List(ctx context.Context, activeOnly bool) ([]entity.Register, error)
}
