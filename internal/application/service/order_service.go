package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/infrastructure/events"
	infraRepo "github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/pkg/apperror"
	"github.com/sangkips/storefront-api/pkg/pagination"
	"github.com/sangkips/storefront-api/pkg/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var hundred = decimal.NewFromInt(100)

// OrderService handles order-related operations
type OrderService struct {
	orderRepo       repository.OrderRepository
	orderDetailRepo repository.OrderDetailRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	paymentRepo     repository.PaymentRepository
	registerRepo    repository.RegisterRepository
	tenantRepo      repository.TenantRepository
	payments        *PaymentService
	tx              repository.Transactor
	publisher       events.Publisher
	logger          *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	orderDetailRepo repository.OrderDetailRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	paymentRepo repository.PaymentRepository,
	registerRepo repository.RegisterRepository,
	tenantRepo repository.TenantRepository,
	payments *PaymentService,
	tx repository.Transactor,
	publisher events.Publisher,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orderRepo:       orderRepo,
		orderDetailRepo: orderDetailRepo,
		productRepo:     productRepo,
		customerRepo:    customerRepo,
		paymentRepo:     paymentRepo,
		registerRepo:    registerRepo,
		tenantRepo:      tenantRepo,
		payments:        payments,
		tx:              tx,
		publisher:       publisher,
		logger:          logger,
	}
}

// OrderItemInput represents an item in an order
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// CreateOrderInput represents the create order input
type CreateOrderInput struct {
	UserID      uuid.UUID
	CustomerID  *uuid.UUID
	RegisterID  *uuid.UUID
	PaymentType string
	Pay         decimal.Decimal
	Items       []OrderItemInput
}

// CreateOrder creates a new order with its details. For a customer the
// unpaid part goes on their account; walk-in sales must be paid in full.
func (s *OrderService) CreateOrder(ctx context.Context, input *CreateOrderInput) (*entity.Order, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if len(input.Items) == 0 {
		return nil, apperror.NewBadRequestError("Order must contain at least one item")
	}
	if input.Pay.IsNegative() {
		return nil, apperror.NewBadRequestError("Pay cannot be negative")
	}
	payCents, err := entity.ToCents(input.Pay)
	if err != nil {
		return nil, apperror.NewBadRequestError("Pay cannot have more than two decimal places")
	}

	// Validate customer if provided
	if input.CustomerID != nil {
		customer, err := s.customerRepo.GetByID(ctx, *input.CustomerID)
		if err != nil {
			return nil, err
		}
		if customer == nil {
			return nil, apperror.NewNotFoundError("Customer")
		}
	}
	if input.RegisterID != nil {
		if err := s.payments.checkRegister(ctx, *input.RegisterID); err != nil {
			return nil, err
		}
	}

	// Batch fetch all products in one query
	quantities := make(map[uuid.UUID]int, len(input.Items))
	productIDs := make([]uuid.UUID, 0, len(input.Items))
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, apperror.NewBadRequestError("Item quantity must be greater than zero")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.productRepo.GetByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	productMap := make(map[uuid.UUID]*entity.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	settings, err := tenantSettings(ctx, s.tenantRepo, tenantID)
	if err != nil {
		return nil, err
	}

	var subTotal int64
	var taxableAmount int64    // exclusive-tax lines, VAT is added on top
	var nonTaxableAmount int64 // inclusive-tax lines, VAT is already in the price
	var totalProducts int
	orderDetails := make([]entity.OrderDetail, 0, len(productIDs))

	for _, id := range productIDs {
		product, exists := productMap[id]
		if !exists {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Product %s", id))
		}

		quantity := quantities[id]
		itemTotal := product.SellingPrice * int64(quantity)
		subTotal += itemTotal
		totalProducts += quantity

		if product.TaxType == enum.TaxTypeExclusive {
			taxableAmount += itemTotal
		} else {
			nonTaxableAmount += itemTotal
		}

		orderDetails = append(orderDetails, entity.OrderDetail{
			ProductID:   id,
			ProductName: product.Name,
			Quantity:    quantity,
			UnitCost:    product.SellingPrice,
			Total:       itemTotal,
		})
	}

	additionalVat, includedVat := computeVAT(taxableAmount, nonTaxableAmount, settings.TaxRate)
	total := subTotal + additionalVat

	// Change is handed back at the till, so pay never exceeds total
	if payCents > total {
		payCents = total
	}
	due := total - payCents
	if input.CustomerID == nil && due > 0 {
		return nil, apperror.NewBadRequestError("Walk-in sales must be paid in full")
	}

	now := time.Now()
	order := &entity.Order{
		TenantID:      tenantID,
		UserID:        input.UserID,
		CustomerID:    input.CustomerID,
		RegisterID:    input.RegisterID,
		OrderDate:     now,
		OrderStatus:   enum.OrderStatusPending,
		InvoiceType:   enum.InvoiceTypeCash,
		TotalProducts: totalProducts,
		SubTotal:      subTotal,
		VAT:           additionalVat + includedVat,
		Total:         total,
		InvoiceNo:     utils.GenerateInvoiceNo(settings.InvoicePrefix),
		PaymentType:   strings.TrimSpace(input.PaymentType),
		Pay:           payCents,
		Due:           due,
	}
	if due > 0 {
		order.InvoiceType = enum.InvoiceTypeCredit
	} else {
		order.OrderStatus = enum.OrderStatusComplete
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		// If any product has insufficient stock the whole order is rolled back
		failedIDs, err := s.productRepo.AtomicDecrementBatch(ctx, quantities)
		if err != nil {
			return err
		}
		if len(failedIDs) > 0 {
			var failedNames []string
			for _, id := range failedIDs {
				if product, exists := productMap[id]; exists {
					failedNames = append(failedNames, product.Name)
				}
			}
			return apperror.NewBadRequestError(fmt.Sprintf("Insufficient stock for: %s", strings.Join(failedNames, ", ")))
		}

		if err := s.orderRepo.Create(ctx, order); err != nil {
			return err
		}
		for i := range orderDetails {
			orderDetails[i].OrderID = order.ID
		}
		if err := s.orderDetailRepo.CreateBatch(ctx, orderDetails); err != nil {
			return err
		}

		if input.CustomerID == nil {
			return nil
		}
		return s.chargeAccount(ctx, order, settings)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("invoice_no", order.InvoiceNo),
		zap.String("total", entity.FromCents(total).StringFixed(2)),
	)
	publishEvent(ctx, s.publisher, s.logger, events.New(events.OrderCreated, tenantID, order))

	return s.GetOrder(ctx, order.ID)
}

// chargeAccount puts the invoice on the customer's account and records what
// was paid at the till as a payment against it.
func (s *OrderService) chargeAccount(ctx context.Context, order *entity.Order, settings entity.TenantSettings) error {
	if order.Pay > 0 {
		notes := "Paid at checkout"
		orderID := order.ID
		payment := &entity.Payment{
			TenantID:    order.TenantID,
			UserID:      order.UserID,
			CustomerID:  *order.CustomerID,
			OrderID:     &orderID,
			RegisterID:  order.RegisterID,
			ReceiptNo:   utils.GenerateReceiptNo(settings.ReceiptPrefix),
			Amount:      order.Pay,
			Method:      paymentMethod(order.PaymentType),
			PaymentDate: order.OrderDate,
			Notes:       &notes,
		}
		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
	}
	return s.customerRepo.AdjustBalance(ctx, *order.CustomerID, order.Total-order.Pay)
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// ListOrders lists orders with filtering
func (s *OrderService) ListOrders(ctx context.Context, params *repository.OrderFilterParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// CancelOrder cancels an order, restores stock and takes the invoice off the
// customer's account. Payments already taken stay on the account as credit.
func (s *OrderService) CancelOrder(ctx context.Context, orderID uuid.UUID) error {
	order, err := s.orderRepo.GetWithDetails(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return apperror.NewNotFoundError("Order")
	}
	if order.OrderStatus == enum.OrderStatusCancel {
		return apperror.NewBadRequestError("Order is already cancelled")
	}

	stockIncrements := make(map[uuid.UUID]int)
	for _, detail := range order.Details {
		stockIncrements[detail.ProductID] += detail.Quantity
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		locked, err := s.orderRepo.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return apperror.NewNotFoundError("Order")
		}
		if locked.OrderStatus == enum.OrderStatusCancel {
			return apperror.NewBadRequestError("Order is already cancelled")
		}

		if err := s.productRepo.AtomicIncrementBatch(ctx, stockIncrements); err != nil {
			return err
		}

		locked.OrderStatus = enum.OrderStatusCancel
		locked.Due = 0
		if err := s.orderRepo.Update(ctx, locked); err != nil {
			return err
		}
		order = locked

		if order.CustomerID == nil {
			return nil
		}
		return s.customerRepo.AdjustBalance(ctx, *order.CustomerID, -order.Total)
	})
	if err != nil {
		return err
	}

	s.logger.Info("order cancelled", zap.String("order_id", order.ID.String()))
	publishEvent(ctx, s.publisher, s.logger, events.New(events.OrderCancelled, order.TenantID, map[string]any{
		"order_id":    order.ID,
		"invoice_no":  order.InvoiceNo,
		"customer_id": order.CustomerID,
		"total":       entity.FromCents(order.Total),
	}))
	return nil
}

// GetDueOrders returns orders with outstanding dues
func (s *OrderService) GetDueOrders(ctx context.Context, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Order], error) {
	orders, total, err := s.orderRepo.GetDueOrders(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(orders, pag), nil
}

// PayOrderInput represents a payment towards one order's due amount
type PayOrderInput struct {
	UserID     uuid.UUID
	OrderID    uuid.UUID
	RegisterID *uuid.UUID
	Amount     decimal.Decimal
	Method     enum.PaymentMethod
	Notes      *string
}

// PayOrder records a payment towards an order's due amount
func (s *OrderService) PayOrder(ctx context.Context, input *PayOrderInput) (*entity.Payment, error) {
	order, err := s.orderRepo.GetByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	if order.CustomerID == nil {
		return nil, apperror.NewBadRequestError("Walk-in orders have no account to pay into")
	}

	registerID := input.RegisterID
	if registerID == nil {
		registerID = order.RegisterID
	}

	return s.payments.RecordPayment(ctx, &RecordPaymentInput{
		UserID:     input.UserID,
		CustomerID: *order.CustomerID,
		OrderID:    &order.ID,
		RegisterID: registerID,
		Amount:     input.Amount,
		Method:     input.Method,
		Notes:      input.Notes,
	})
}

// computeVAT returns, in cents, the VAT added on top of exclusive lines and
// the VAT already contained in inclusive lines, both rounded half away from zero.
func computeVAT(exclusiveCents, inclusiveCents int64, ratePercent float64) (additional, included int64) {
	rate := decimal.NewFromFloat(ratePercent)
	if !rate.IsPositive() {
		return 0, 0
	}
	additional = decimal.NewFromInt(exclusiveCents).Mul(rate).Div(hundred).Round(0).IntPart()
	included = decimal.NewFromInt(inclusiveCents).Mul(rate).Div(hundred.Add(rate)).Round(0).IntPart()
	return additional, included
}

// paymentMethod maps the free-text checkout payment type to a method
func paymentMethod(paymentType string) enum.PaymentMethod {
	method := enum.PaymentMethod(strings.ToLower(strings.TrimSpace(paymentType)))
	if method.IsValid() {
		return method
	}
	return enum.PaymentMethodCash
}
