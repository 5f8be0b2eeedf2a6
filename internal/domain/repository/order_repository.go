package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/pkg/pagination"
)

// OrderRepository defines the interface for order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetForUpdate loads the order and row-locks it until the surrounding
	// transaction ends
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	// GetWithDetails loads the order with its lines, customer and register
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	Update(ctx context.Context, order *entity.Order) error
	List(ctx context.Context, params *OrderFilterParams) ([]entity.Order, int64, error)
	GetDueOrders(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error)
}

// OrderFilterParams contains filtering parameters for order queries
type OrderFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.OrderStatus
	CustomerID *uuid.UUID
	RegisterID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string
	SortOrder  string
}

// OrderDetailRepository defines the interface for order detail data operations
type OrderDetailRepository interface {
	CreateBatch(ctx context.Context, details []entity.OrderDetail) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]entity.OrderDetail, error)
}
