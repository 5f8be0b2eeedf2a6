package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/pkg/pagination"
)

// CustomerRepository defines the interface for customer data operations.
// All queries are scoped to the tenant carried by ctx.
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByEmail(ctx context.Context, email string) (*entity.Customer, error)
	// Update saves profile fields. Balance is never written here.
	Update(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Customer, int64, error)
	// AdjustBalance adds deltaCents to the stored balance in a single UPDATE
	AdjustBalance(ctx context.Context, id uuid.UUID, deltaCents int64) error
}
