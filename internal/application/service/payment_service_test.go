package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/infrastructure/events"
	"github.com/sangkips/storefront-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// creditOrder books an unpaid exclusive-VAT sale of 100.00 (116.00 with VAT)
func creditOrder(t *testing.T, h *harness, customer *entity.Customer) *entity.Order {
	t.Helper()
	product := h.addProduct(t, "item-"+uuid.NewString()[:6], 10000, 10, enum.TaxTypeExclusive)
	order, err := h.orderSvc.CreateOrder(tenantCtx(), &CreateOrderInput{
		CustomerID: &customer.ID,
		Items:      []OrderItemInput{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)
	return order
}

func TestPaymentService_RecordPayment_OnAccount(t *testing.T) {
	h := newHarness(t)
	customer := h.addCustomer(t, "Wafula", nil)
	h.store.customers[customer.ID].Balance = 25000
	register := h.addRegister(t, "Front till", true)
	paidOn := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	payment, err := h.paymentSvc.RecordPayment(tenantCtx(), &RecordPaymentInput{
		CustomerID:  customer.ID,
		RegisterID:  &register.ID,
		Amount:      decimal.RequireFromString("120.50"),
		Method:      enum.PaymentMethodMpesa,
		PaymentDate: &paidOn,
		Notes:       ptr("MPESA QWE123"),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12050), payment.Amount)
	assert.Equal(t, paidOn, payment.PaymentDate)
	assert.Equal(t, testTenantID, payment.TenantID)
	assert.Equal(t, int64(12950), h.balance(t, customer.ID))
	assert.Equal(t, []string{events.PaymentRecorded}, h.publisher.types())
}

func TestPaymentService_RecordPayment_AgainstOrder(t *testing.T) {
	h := newHarness(t)
	ctx := tenantCtx()
	customer := h.addCustomer(t, "Chebet", nil)
	order := creditOrder(t, h, customer)

	_, err := h.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID,
		OrderID:    &order.ID,
		Amount:     decimal.RequireFromString("16"),
	})
	require.NoError(t, err)

	got, _ := h.orders.GetByID(ctx, order.ID)
	assert.Equal(t, int64(1600), got.Pay)
	assert.Equal(t, int64(10000), got.Due)
	assert.Equal(t, enum.OrderStatusPending, got.OrderStatus)

	_, err = h.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID,
		OrderID:    &order.ID,
		Amount:     decimal.RequireFromString("100"),
		Method:     enum.PaymentMethodCard,
	})
	require.NoError(t, err)

	got, _ = h.orders.GetByID(ctx, order.ID)
	assert.Equal(t, int64(0), got.Due)
	assert.Equal(t, enum.OrderStatusComplete, got.OrderStatus)
	assert.Equal(t, int64(0), h.balance(t, customer.ID))

	list, err := h.paymentSvc.ListPayments(ctx, customer.ID, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)
	assert.Equal(t, int64(2), list.Pagination.Total)
}

func TestPaymentService_RecordPayment_Rejections(t *testing.T) {
	h := newHarness(t)
	ctx := tenantCtx()
	customer := h.addCustomer(t, "Kiptoo", nil)
	other := h.addCustomer(t, "Auma", nil)
	order := creditOrder(t, h, customer)
	otherOrder := creditOrder(t, h, other)
	closed := h.addRegister(t, "Closed till", false)
	cancelled := creditOrder(t, h, customer)
	require.NoError(t, h.orderSvc.CancelOrder(ctx, cancelled.ID))
	startBalance := h.balance(t, customer.ID)

	amount := decimal.RequireFromString("10")
	tests := []struct {
		name  string
		input *RecordPaymentInput
		code  int
	}{
		{name: "zero amount", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: decimal.Zero}, code: statusBadRequest},
		{name: "negative amount", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: decimal.RequireFromString("-5")}, code: statusBadRequest},
		{name: "sub-cent amount", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: decimal.RequireFromString("0.001")}, code: statusBadRequest},
		{name: "unknown method", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: amount, Method: "barter"}, code: statusBadRequest},
		{name: "unknown customer", input: &RecordPaymentInput{CustomerID: uuid.New(), Amount: amount}, code: statusNotFound},
		{name: "unknown register", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: amount, RegisterID: ptr(uuid.New())}, code: statusNotFound},
		{name: "inactive register", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: amount, RegisterID: &closed.ID}, code: statusBadRequest},
		{name: "unknown order", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: amount, OrderID: ptr(uuid.New())}, code: statusNotFound},
		{name: "order of another customer", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: amount, OrderID: &otherOrder.ID}, code: statusBadRequest},
		{name: "cancelled order", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: amount, OrderID: &cancelled.ID}, code: statusBadRequest},
		{name: "more than due", input: &RecordPaymentInput{CustomerID: customer.ID, Amount: decimal.RequireFromString("116.01"), OrderID: &order.ID}, code: statusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.paymentSvc.RecordPayment(ctx, tt.input)
			requireAppError(t, err, tt.code)
		})
	}

	assert.Equal(t, startBalance, h.balance(t, customer.ID))
	got, _ := h.orders.GetByID(ctx, order.ID)
	assert.Equal(t, int64(11600), got.Due)
}

func TestPaymentService_VoidPayment(t *testing.T) {
	h := newHarness(t)
	ctx := tenantCtx()
	customer := h.addCustomer(t, "Nekesa", nil)
	order := creditOrder(t, h, customer)

	payment, err := h.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID,
		OrderID:    &order.ID,
		Amount:     decimal.RequireFromString("116"),
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), h.balance(t, customer.ID))

	require.NoError(t, h.paymentSvc.VoidPayment(ctx, payment.ID))

	assert.Equal(t, int64(11600), h.balance(t, customer.ID))
	got, _ := h.orders.GetByID(ctx, order.ID)
	assert.Equal(t, int64(11600), got.Due)
	assert.Equal(t, int64(0), got.Pay)
	assert.Equal(t, enum.OrderStatusPending, got.OrderStatus)

	_, err = h.paymentSvc.GetPayment(ctx, payment.ID)
	requireAppError(t, err, statusNotFound)
	requireAppError(t, h.paymentSvc.VoidPayment(ctx, payment.ID), statusNotFound)

	assert.Equal(t, []string{events.OrderCreated, events.PaymentRecorded, events.PaymentVoided}, h.publisher.types())
}

func TestPaymentService_VoidPayment_CancelledOrderUntouched(t *testing.T) {
	h := newHarness(t)
	ctx := tenantCtx()
	customer := h.addCustomer(t, "Barasa", nil)
	order := creditOrder(t, h, customer)

	payment, err := h.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
		CustomerID: customer.ID,
		OrderID:    &order.ID,
		Amount:     decimal.RequireFromString("50"),
	})
	require.NoError(t, err)
	require.NoError(t, h.orderSvc.CancelOrder(ctx, order.ID))
	require.Equal(t, int64(-5000), h.balance(t, customer.ID))

	require.NoError(t, h.paymentSvc.VoidPayment(ctx, payment.ID))

	assert.Equal(t, int64(0), h.balance(t, customer.ID))
	got, _ := h.orders.GetByID(ctx, order.ID)
	assert.Equal(t, enum.OrderStatusCancel, got.OrderStatus)
	assert.Equal(t, int64(0), got.Due)
}

func TestPaymentService_PublishFailureDoesNotFailPayment(t *testing.T) {
	h := newHarness(t)
	h.publisher.err = errBoom
	customer := h.addCustomer(t, "Omondi", nil)

	_, err := h.paymentSvc.RecordPayment(tenantCtx(), &RecordPaymentInput{
		CustomerID: customer.ID,
		Amount:     decimal.RequireFromString("1"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-100), h.balance(t, customer.ID))
}

func TestPaymentService_RecordPayment_ChecksDueOnLockedOrder(t *testing.T) {
	h := newHarness(t)
	ctx := tenantCtx()
	customer := h.addCustomer(t, "Kiprono", nil)
	order := creditOrder(t, h, customer)

	before, err := h.orders.GetByID(ctx, order.ID)
	require.NoError(t, err)
	h.wire(&staleOrders{fakeOrderRepo: h.orders, snapshot: map[uuid.UUID]entity.Order{order.ID: *before}}, h.payments)

	pay := func() error {
		_, err := h.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
			CustomerID: customer.ID,
			OrderID:    &order.ID,
			Amount:     decimal.RequireFromString("116"),
		})
		return err
	}
	require.NoError(t, pay())
	// the plain read still reports the full amount due
	requireAppError(t, pay(), statusBadRequest)

	assert.Equal(t, int64(0), h.balance(t, customer.ID))
	got, _ := h.orders.GetByID(ctx, order.ID)
	assert.Equal(t, int64(11600), got.Pay)
	assert.Equal(t, int64(0), got.Due)

	payments, total, err := h.payments.ListByCustomer(ctx, customer.ID, pagination.DefaultPagination())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, payments, 1)
}

func TestPaymentService_VoidPayment_CreditsOnce(t *testing.T) {
	for _, lockless := range []bool{false, true} {
		name := "locked read"
		if lockless {
			name = "delete reports the miss"
		}
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			ctx := tenantCtx()
			customer := h.addCustomer(t, "Wanjiku", nil)
			order := creditOrder(t, h, customer)

			payment, err := h.paymentSvc.RecordPayment(ctx, &RecordPaymentInput{
				CustomerID: customer.ID,
				OrderID:    &order.ID,
				Amount:     decimal.RequireFromString("116"),
			})
			require.NoError(t, err)
			stored, err := h.payments.GetByID(ctx, payment.ID)
			require.NoError(t, err)

			h.wire(h.orders, &stalePayments{
				fakePaymentRepo: h.payments,
				snapshot:        map[uuid.UUID]entity.Payment{payment.ID: *stored},
				lockless:        lockless,
			})

			require.NoError(t, h.paymentSvc.VoidPayment(ctx, payment.ID))
			requireAppError(t, h.paymentSvc.VoidPayment(ctx, payment.ID), statusNotFound)

			assert.Equal(t, int64(11600), h.balance(t, customer.ID))
			got, _ := h.orders.GetByID(ctx, order.ID)
			assert.Equal(t, int64(11600), got.Due)
			assert.Equal(t, int64(0), got.Pay)
			assert.Equal(t, []string{events.OrderCreated, events.PaymentRecorded, events.PaymentVoided}, h.publisher.types())
		})
	}
}
