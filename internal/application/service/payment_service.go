package service

import (
	"context"
	"errors"
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

// PaymentService records and voids customer payments. Every payment moves
// the customer's balance in the same transaction that stores it.
type PaymentService struct {
	paymentRepo  repository.PaymentRepository
	customerRepo repository.CustomerRepository
	orderRepo    repository.OrderRepository
	registerRepo repository.RegisterRepository
	tenantRepo   repository.TenantRepository
	tx           repository.Transactor
	publisher    events.Publisher
	logger       *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	customerRepo repository.CustomerRepository,
	orderRepo repository.OrderRepository,
	registerRepo repository.RegisterRepository,
	tenantRepo repository.TenantRepository,
	tx repository.Transactor,
	publisher events.Publisher,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		paymentRepo:  paymentRepo,
		customerRepo: customerRepo,
		orderRepo:    orderRepo,
		registerRepo: registerRepo,
		tenantRepo:   tenantRepo,
		tx:           tx,
		publisher:    publisher,
		logger:       logger,
	}
}

// RecordPaymentInput represents the record payment input
type RecordPaymentInput struct {
	UserID      uuid.UUID
	CustomerID  uuid.UUID
	OrderID     *uuid.UUID
	RegisterID  *uuid.UUID
	Amount      decimal.Decimal
	Method      enum.PaymentMethod
	PaymentDate *time.Time
	Notes       *string
}

// RecordPayment stores a payment, lowers the customer's balance and, when an
// order is named, settles that much of the order's due amount.
func (s *PaymentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*entity.Payment, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	if !input.Amount.IsPositive() {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}
	cents, err := entity.ToCents(input.Amount)
	if err != nil {
		return nil, apperror.NewBadRequestError("Payment amount cannot have more than two decimal places")
	}

	method := input.Method
	if method == "" {
		method = enum.PaymentMethodCash
	}
	if !method.IsValid() {
		return nil, apperror.NewBadRequestError("Unknown payment method")
	}

	customer, err := s.customerRepo.GetByID(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	if input.RegisterID != nil {
		if err := s.checkRegister(ctx, *input.RegisterID); err != nil {
			return nil, err
		}
	}

	paymentDate := time.Now()
	if input.PaymentDate != nil {
		paymentDate = *input.PaymentDate
	}

	settings, err := tenantSettings(ctx, s.tenantRepo, tenantID)
	if err != nil {
		return nil, err
	}

	payment := &entity.Payment{
		TenantID:    tenantID,
		UserID:      input.UserID,
		CustomerID:  customer.ID,
		OrderID:     input.OrderID,
		RegisterID:  input.RegisterID,
		ReceiptNo:   utils.GenerateReceiptNo(settings.ReceiptPrefix),
		Amount:      cents,
		Method:      method,
		PaymentDate: paymentDate,
		Notes:       input.Notes,
	}

	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if input.OrderID != nil {
			order, err := s.orderRepo.GetForUpdate(ctx, *input.OrderID)
			if err != nil {
				return err
			}
			if order == nil {
				return apperror.NewNotFoundError("Order")
			}
			if order.CustomerID == nil || *order.CustomerID != customer.ID {
				return apperror.NewBadRequestError("Order does not belong to this customer")
			}
			if order.OrderStatus == enum.OrderStatusCancel {
				return apperror.NewBadRequestError("Cannot pay a cancelled order")
			}
			if cents > order.Due {
				return apperror.NewBadRequestError("Payment amount exceeds the amount due on the order")
			}
			order.ApplyPayment(cents)
			if err := s.orderRepo.Update(ctx, order); err != nil {
				return err
			}
		}

		if err := s.paymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		return s.customerRepo.AdjustBalance(ctx, customer.ID, -cents)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("payment_id", payment.ID.String()),
		zap.String("customer_id", customer.ID.String()),
		zap.String("amount", input.Amount.StringFixed(2)),
	)
	publishEvent(ctx, s.publisher, s.logger, events.New(events.PaymentRecorded, tenantID, payment))

	return payment, nil
}

// GetPayment retrieves a payment by ID
func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*entity.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if payment == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return payment, nil
}

// ListPayments lists a customer's payments, newest first
func (s *PaymentService) ListPayments(ctx context.Context, customerID uuid.UUID, params *pagination.PaginationParams) (*pagination.PaginatedResult[entity.Payment], error) {
	customer, err := s.customerRepo.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}

	payments, total, err := s.paymentRepo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(payments, pag), nil
}

// VoidPayment removes a payment from the account and puts its amount back on
// the customer's balance and, unless the order was cancelled, on the order.
func (s *PaymentService) VoidPayment(ctx context.Context, id uuid.UUID) error {
	var payment *entity.Payment
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		payment, err = s.paymentRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}
		if err := s.paymentRepo.Delete(ctx, payment.ID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.NewNotFoundError("Payment")
			}
			return err
		}
		if err := s.customerRepo.AdjustBalance(ctx, payment.CustomerID, payment.Amount); err != nil {
			return err
		}
		if payment.OrderID == nil {
			return nil
		}

		order, err := s.orderRepo.GetForUpdate(ctx, *payment.OrderID)
		if err != nil {
			return err
		}
		if order == nil || order.OrderStatus == enum.OrderStatusCancel {
			return nil
		}
		order.ReversePayment(payment.Amount)
		return s.orderRepo.Update(ctx, order)
	})
	if err != nil {
		return err
	}

	s.logger.Info("payment voided", zap.String("payment_id", payment.ID.String()))
	publishEvent(ctx, s.publisher, s.logger, events.New(events.PaymentVoided, payment.TenantID, payment))
	return nil
}

func (s *PaymentService) checkRegister(ctx context.Context, id uuid.UUID) error {
	register, err := s.registerRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if register == nil {
		return apperror.NewNotFoundError("Register")
	}
	if !register.IsActive {
		return apperror.NewBadRequestError("Register is not active")
	}
	return nil
}

// tenantSettings loads the shop's settings with defaults filled in
func tenantSettings(ctx context.Context, tenantRepo repository.TenantRepository, tenantID uuid.UUID) (entity.TenantSettings, error) {
	tenant, err := tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return entity.TenantSettings{}, err
	}
	if tenant == nil {
		return entity.DefaultTenantSettings(), nil
	}
	return tenant.Settings.WithDefaults(), nil
}
