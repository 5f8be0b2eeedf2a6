package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductService_CRUD(t *testing.T) {
	svc := NewProductService(&fakeProductRepo{s: newStore()})
	ctx := tenantCtx()

	p, err := svc.CreateProduct(ctx, &CreateProductInput{
		Name:          "Cooking fat 1kg",
		Quantity:      12,
		QuantityAlert: 3,
		SellingPrice:  decimal.RequireFromString("245.50"),
		TaxType:       enum.TaxTypeInclusive,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(24550), p.SellingPrice)
	assert.Regexp(t, `^PC-[0-9A-F]{8}$`, p.Code)

	_, err = svc.CreateProduct(ctx, &CreateProductInput{Name: "Dup", Code: p.Code})
	requireAppError(t, err, statusConflict)
	_, err = svc.CreateProduct(ctx, &CreateProductInput{Name: "Bad", SellingPrice: decimal.RequireFromString("1.999")})
	requireAppError(t, err, statusBadRequest)
	_, err = svc.CreateProduct(ctx, &CreateProductInput{Name: "Bad", SellingPrice: decimal.RequireFromString("-1")})
	requireAppError(t, err, statusBadRequest)

	price := decimal.RequireFromString("250")
	updated, err := svc.UpdateProduct(ctx, &UpdateProductInput{ID: p.ID, SellingPrice: &price, Quantity: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, int64(25000), updated.SellingPrice)
	assert.True(t, updated.IsLowStock())

	low, err := svc.ListProducts(ctx, &repository.ProductFilterParams{Pagination: pagination.DefaultPagination(), LowStock: true})
	require.NoError(t, err)
	assert.Len(t, low.Items, 1)

	_, err = svc.UpdateProduct(ctx, &UpdateProductInput{ID: p.ID, Quantity: ptr(-1)})
	requireAppError(t, err, statusBadRequest)

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	requireAppError(t, svc.DeleteProduct(ctx, p.ID), statusNotFound)
}

func TestProductService_ImportProducts(t *testing.T) {
	s := newStore()
	svc := NewProductService(&fakeProductRepo{s: s})
	ctx := tenantCtx()

	_, err := svc.CreateProduct(ctx, &CreateProductInput{Name: "Existing", Code: "EX-1", SellingPrice: decimal.NewFromInt(1)})
	require.NoError(t, err)

	result, err := svc.ImportProducts(ctx, uuid.New(), []ImportProductRow{
		{Name: "Sugar", Code: "SG-1", Quantity: 10, SellingPrice: "120", TaxType: "Inclusive"},
		{Name: "", Code: "NN-1", SellingPrice: "1"},
		{Name: "Salt", Code: "SG-1", SellingPrice: "30"},
		{Name: "Rice", Code: "EX-1", SellingPrice: "90"},
		{Name: "Tea", SellingPrice: "abc"},
		{Name: "Milk", SellingPrice: "55.5", Quantity: -2},
		{Name: "Bread", SellingPrice: "60.00", Notes: " fresh "},
		{Name: "Soda", SellingPrice: "80", TaxType: "zero-rated"},
		{Name: "Flour", Code: "FL-1", SellingPrice: "150", TaxType: "INCLUSIVE"},
	})
	require.NoError(t, err)

	assert.Equal(t, 9, result.TotalRows)
	assert.Equal(t, 3, result.Successful)
	assert.Equal(t, 6, result.Failed)

	fields := map[int]string{}
	for _, e := range result.Errors {
		fields[e.Row] = e.Field
	}
	assert.Equal(t, map[int]string{3: "name", 4: "code", 5: "code", 6: "selling_price", 7: "quantity", 9: "tax_type"}, fields)

	sugar, err := (&fakeProductRepo{s: s}).GetByCode(ctx, "SG-1")
	require.NoError(t, err)
	require.NotNil(t, sugar)
	assert.Equal(t, enum.TaxTypeInclusive, sugar.TaxType)
	assert.Equal(t, int64(12000), sugar.SellingPrice)

	flour, err := (&fakeProductRepo{s: s}).GetByCode(ctx, "FL-1")
	require.NoError(t, err)
	require.NotNil(t, flour)
	assert.Equal(t, enum.TaxTypeInclusive, flour.TaxType)
}
