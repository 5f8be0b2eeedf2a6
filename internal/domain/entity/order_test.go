package entity

import (
	"encoding/json"
	"testing"

	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_ApplyAndReversePayment(t *testing.T) {
	order := &Order{Total: 10000, Pay: 2000, Due: 8000, OrderStatus: enum.OrderStatusPending}

	order.ApplyPayment(3000)
	assert.Equal(t, int64(5000), order.Pay)
	assert.Equal(t, int64(5000), order.Due)
	assert.Equal(t, enum.OrderStatusPending, order.OrderStatus)

	order.ApplyPayment(5000)
	assert.Equal(t, int64(0), order.Due)
	assert.Equal(t, enum.OrderStatusComplete, order.OrderStatus)

	order.ReversePayment(5000)
	assert.Equal(t, int64(5000), order.Due)
	assert.Equal(t, enum.OrderStatusPending, order.OrderStatus)
}

func TestOrder_MarshalJSON(t *testing.T) {
	order := Order{InvoiceNo: "INV-1", Total: 11600, VAT: 1600, SubTotal: 10000, Pay: 0, Due: 11600, InvoiceType: enum.InvoiceTypeCredit}

	data, err := json.Marshal(order)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "116", out["total"])
	assert.Equal(t, "16", out["vat"])
	assert.Equal(t, "Credit", out["invoice_type"])
	assert.Equal(t, "Pending", out["order_status"])
}

func TestCustomer_MarshalJSONBalance(t *testing.T) {
	data, err := json.Marshal(Customer{Name: "Wanjiru", Balance: -2550})
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "-25.5", out["balance"])
	assert.Equal(t, "Wanjiru", out["name"])
}
