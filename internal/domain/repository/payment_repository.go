package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/pkg/pagination"
)

// ErrNotFound is returned by writes that matched no row
var ErrNotFound = errors.New("record not found")

// PaymentRepository defines the interface for customer payment operations
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	// GetForUpdate loads the payment and row-locks it until the surrounding
	// transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Payment, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) ([]entity.Payment, int64, error)
	// Delete soft-deletes (voids) a payment, ErrNotFound if it is already gone
	Delete(ctx context.Context, id uuid.UUID) error
}
