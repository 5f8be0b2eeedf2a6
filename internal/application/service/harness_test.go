package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/config"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/pkg/apperror"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type harness struct {
	store     *store
	customers *fakeCustomerRepo
	orders    *fakeOrderRepo
	payments  *fakePaymentRepo
	registers *fakeRegisterRepo
	products  *fakeProductRepo
	tenants   *fakeTenantRepo
	stmtRepo  *fakeStatementRepo
	publisher *recordingPublisher
	mailer    *recordingMailer

	tx     *fakeTransactor
	logger *zap.Logger

	paymentSvc   *PaymentService
	orderSvc     *OrderService
	statementSvc *StatementService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := newStore()
	h := &harness{
		store:     s,
		customers: &fakeCustomerRepo{s: s},
		orders:    &fakeOrderRepo{s: s},
		payments:  &fakePaymentRepo{s: s},
		registers: &fakeRegisterRepo{s: s},
		products:  &fakeProductRepo{s: s},
		tenants:   &fakeTenantRepo{s: s},
		stmtRepo:  &fakeStatementRepo{s: s},
		publisher: &recordingPublisher{},
		mailer:    &recordingMailer{},
	}
	h.tx = &fakeTransactor{s: s}
	h.logger = zap.NewNop()

	s.tenants[testTenantID] = &entity.Tenant{
		ID:       testTenantID,
		Name:     "Duka Moja",
		Slug:     "duka-moja",
		Settings: entity.DefaultTenantSettings(),
	}

	h.wire(h.orders, h.payments)
	h.statementSvc = NewStatementService(h.customers, h.stmtRepo, h.tenants, h.mailer, h.publisher,
		config.StatementConfig{DefaultPageSize: 20, MaxPageSize: 100, MaxExportRows: 5000}, h.logger)
	return h
}

// wire (re)builds the order and payment services on top of the given repos
func (h *harness) wire(orders repository.OrderRepository, payments repository.PaymentRepository) {
	h.paymentSvc = NewPaymentService(payments, h.customers, orders, h.registers, h.tenants, h.tx, h.publisher, h.logger)
	h.orderSvc = NewOrderService(orders, &fakeOrderDetailRepo{s: h.store}, h.products, h.customers, payments,
		h.registers, h.tenants, h.paymentSvc, h.tx, h.publisher, h.logger)
}

func (h *harness) addCustomer(t *testing.T, name string, email *string) *entity.Customer {
	t.Helper()
	c := &entity.Customer{ID: uuid.New(), TenantID: testTenantID, Name: name, Email: email}
	require.NoError(t, h.customers.Create(context.Background(), c))
	return c
}

func (h *harness) addProduct(t *testing.T, name string, priceCents int64, qty int, tax enum.TaxType) *entity.Product {
	t.Helper()
	p := &entity.Product{ID: uuid.New(), TenantID: testTenantID, Name: name, Code: name, SellingPrice: priceCents, Quantity: qty, TaxType: tax}
	require.NoError(t, h.products.Create(context.Background(), p))
	return p
}

func (h *harness) addRegister(t *testing.T, name string, active bool) *entity.Register {
	t.Helper()
	r := &entity.Register{ID: uuid.New(), TenantID: testTenantID, Name: name, IsActive: active}
	require.NoError(t, h.registers.Create(context.Background(), r))
	return r
}

func (h *harness) balance(t *testing.T, customerID uuid.UUID) int64 {
	t.Helper()
	c, err := h.customers.GetByID(context.Background(), customerID)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c.Balance
}

func (h *harness) stock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	p, err := h.products.GetByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Quantity
}

func requireAppError(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperror.IsAppError(err), "expected AppError, got %T: %v", err, err)
	require.Equal(t, code, apperror.GetAppError(err).Code, err.Error())
}

var (
	statusBadRequest    = http.StatusBadRequest
	statusNotFound      = http.StatusNotFound
	statusConflict      = http.StatusConflict
	statusUnprocessable = http.StatusUnprocessableEntity
)
