package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/application/service"
	"github.com/sangkips/storefront-api/internal/config"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/statement"
	"github.com/sangkips/storefront-api/internal/infrastructure/events"
	"github.com/sangkips/storefront-api/pkg/email"
	"github.com/sangkips/storefront-api/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubCustomers struct {
	byID map[uuid.UUID]*entity.Customer
}

func (s *stubCustomers) Create(context.Context, *entity.Customer) error { return nil }

func (s *stubCustomers) GetByID(_ context.Context, id uuid.UUID) (*entity.Customer, error) {
	return s.byID[id], nil
}

func (s *stubCustomers) GetByEmail(context.Context, string) (*entity.Customer, error) {
	return nil, nil
}

func (s *stubCustomers) Update(context.Context, *entity.Customer) error { return nil }
func (s *stubCustomers) Delete(context.Context, uuid.UUID) error        { return nil }

func (s *stubCustomers) List(context.Context, *pagination.PaginationParams, string) ([]entity.Customer, int64, error) {
	return nil, 0, nil
}

func (s *stubCustomers) AdjustBalance(context.Context, uuid.UUID, int64) error { return nil }

type stubStatementRows struct {
	invoices []statement.InvoiceRecord
	payments []statement.PaymentRecord
}

func (s *stubStatementRows) InvoiceRows(context.Context, uuid.UUID) ([]statement.InvoiceRecord, error) {
	return s.invoices, nil
}

func (s *stubStatementRows) PaymentRows(context.Context, uuid.UUID) ([]statement.PaymentRecord, error) {
	return s.payments, nil
}

type stubTenants struct {
	tenant *entity.Tenant
}

func (s *stubTenants) Create(context.Context, *entity.Tenant) error { return nil }

func (s *stubTenants) GetByID(context.Context, uuid.UUID) (*entity.Tenant, error) {
	return s.tenant, nil
}

func (s *stubTenants) GetBySlug(context.Context, string) (*entity.Tenant, error) {
	return s.tenant, nil
}

func (s *stubTenants) Update(context.Context, *entity.Tenant) error { return nil }

func (s *stubTenants) GetUserTenants(context.Context, uuid.UUID) ([]entity.Tenant, error) {
	return nil, nil
}

func (s *stubTenants) AddMember(context.Context, *entity.TenantMembership) error { return nil }

func (s *stubTenants) IsMember(context.Context, uuid.UUID, uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubTenants) SlugExists(context.Context, string) (bool, error) { return false, nil }

type stubMailer struct {
	sent []email.StatementEmail
	err  error
}

func (m *stubMailer) SendStatement(msg email.StatementEmail) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type statementFixture struct {
	router   *gin.Engine
	customer *entity.Customer
	mailer   *stubMailer
}

func newStatementFixture(t *testing.T) *statementFixture {
	t.Helper()

	tenant := &entity.Tenant{ID: uuid.New(), Name: "Duka Moja", Slug: "duka-moja"}
	customer := &entity.Customer{
		ID:       uuid.New(),
		TenantID: tenant.ID,
		Name:     "Amina Otieno",
		Balance:  5000,
	}
	rows := &stubStatementRows{
		invoices: []statement.InvoiceRecord{
			{ID: "inv-1", InvoiceNo: "INV-0001", CreatedAtDate: "2024-01-01", CreatedAtTime: "09:30:00", TotalAmount: "100.00"},
			{ID: "inv-bad", InvoiceNo: "INV-0002", CreatedAtDate: "2024-01-02", TotalAmount: "abc"},
		},
		payments: []statement.PaymentRecord{
			{ID: "pay-1", PaymentDate: "2024-01-05", Amount: "50.00"},
		},
	}
	mailer := &stubMailer{}

	svc := service.NewStatementService(
		&stubCustomers{byID: map[uuid.UUID]*entity.Customer{customer.ID: customer}},
		rows,
		&stubTenants{tenant: tenant},
		mailer,
		events.NewLoggingPublisher(zap.NewNop()),
		config.StatementConfig{DefaultPageSize: 20, MaxPageSize: 100, MaxExportRows: 100},
		zap.NewNop(),
	)
	h := NewStatementHandler(svc)

	router := gin.New()
	router.GET("/customers/:id/statement", h.Get)
	router.GET("/customers/:id/statement/export", h.Export)
	router.POST("/customers/:id/statement/email", h.Email)

	return &statementFixture{router: router, customer: customer, mailer: mailer}
}

func (f *statementFixture) do(method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	f.router.ServeHTTP(w, req)
	return w
}

type statementBody struct {
	Success bool `json:"success"`
	Data    struct {
		Entries []struct {
			ID             string          `json:"id"`
			Kind           string          `json:"kind"`
			RunningBalance decimal.Decimal `json:"running_balance"`
		} `json:"entries"`
		TotalCount      int             `json:"total_count"`
		HasMore         bool            `json:"has_more"`
		SkippedCount    int             `json:"skipped_count"`
		StartingBalance decimal.Decimal `json:"starting_balance"`
		CurrentBalance  decimal.Decimal `json:"current_balance"`
		Page            int             `json:"page"`
		PerPage         int             `json:"per_page"`
	} `json:"data"`
}

func TestStatementHandler_Get(t *testing.T) {
	f := newStatementFixture(t)

	w := f.do(http.MethodGet, "/customers/"+f.customer.ID.String()+"/statement?page=1&per_page=1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body statementBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Data.Page)
	assert.Equal(t, 1, body.Data.PerPage)
	assert.Equal(t, 2, body.Data.TotalCount)
	assert.True(t, body.Data.HasMore)
	assert.Equal(t, 1, body.Data.SkippedCount)
	assert.True(t, decimal.NewFromInt(50).Equal(body.Data.CurrentBalance))
	assert.True(t, decimal.Zero.Equal(body.Data.StartingBalance))

	require.Len(t, body.Data.Entries, 1)
	assert.Equal(t, "pay-1", body.Data.Entries[0].ID)
	assert.True(t, decimal.NewFromInt(50).Equal(body.Data.Entries[0].RunningBalance))
}

func TestStatementHandler_GetSecondPage(t *testing.T) {
	f := newStatementFixture(t)

	w := f.do(http.MethodGet, "/customers/"+f.customer.ID.String()+"/statement?page=2&per_page=1")
	require.Equal(t, http.StatusOK, w.Code)

	var body statementBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data.Entries, 1)
	assert.Equal(t, "inv-1", body.Data.Entries[0].ID)
	assert.False(t, body.Data.HasMore)
	assert.True(t, decimal.NewFromInt(100).Equal(body.Data.Entries[0].RunningBalance))
}

func TestStatementHandler_GetErrors(t *testing.T) {
	f := newStatementFixture(t)

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"bad customer id", "/customers/not-a-uuid/statement", http.StatusBadRequest},
		{"unknown customer", "/customers/" + uuid.NewString() + "/statement", http.StatusNotFound},
		{"non numeric page", "/customers/" + f.customer.ID.String() + "/statement?page=abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(http.MethodGet, tt.target)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestStatementHandler_Export(t *testing.T) {
	f := newStatementFixture(t)

	t.Run("xlsx", func(t *testing.T) {
		w := f.do(http.MethodGet, "/customers/"+f.customer.ID.String()+"/statement/export?format=XLSX")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("defaults to pdf", func(t *testing.T) {
		w := f.do(http.MethodGet, "/customers/"+f.customer.ID.String()+"/statement/export")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), "attachment;"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))
	})

	t.Run("unsupported format", func(t *testing.T) {
		w := f.do(http.MethodGet, "/customers/"+f.customer.ID.String()+"/statement/export?format=csv")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStatementHandler_Email(t *testing.T) {
	t.Run("customer without email", func(t *testing.T) {
		f := newStatementFixture(t)

		w := f.do(http.MethodPost, "/customers/"+f.customer.ID.String()+"/statement/email")
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Empty(t, f.mailer.sent)
	})

	t.Run("sends the pdf", func(t *testing.T) {
		f := newStatementFixture(t)
		addr := "amina@example.com"
		f.customer.Email = &addr

		w := f.do(http.MethodPost, "/customers/"+f.customer.ID.String()+"/statement/email")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Len(t, f.mailer.sent, 1)
		assert.Equal(t, addr, f.mailer.sent[0].To)
		assert.Equal(t, "Duka Moja", f.mailer.sent[0].ShopName)
		assert.Equal(t, "50.00", f.mailer.sent[0].Balance)
		assert.Equal(t, "application/pdf", f.mailer.sent[0].Attachment.ContentType)
	})

	t.Run("mail failure", func(t *testing.T) {
		f := newStatementFixture(t)
		addr := "amina@example.com"
		f.customer.Email = &addr
		f.mailer.err = errors.New("smtp down")

		w := f.do(http.MethodPost, "/customers/"+f.customer.ID.String()+"/statement/email")
		assert.Equal(t, http.StatusBadGateway, w.Code)
	})
}
