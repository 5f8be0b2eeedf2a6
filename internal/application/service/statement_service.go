package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/config"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/domain/statement"
	"github.com/sangkips/storefront-api/internal/infrastructure/events"
	"github.com/sangkips/storefront-api/internal/infrastructure/export"
	"github.com/sangkips/storefront-api/internal/infrastructure/metrics"
	infraRepo "github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/pkg/apperror"
	"github.com/sangkips/storefront-api/pkg/email"
	"go.uber.org/zap"
)

// StatementMailer sends a rendered statement to a customer
type StatementMailer interface {
	SendStatement(msg email.StatementEmail) error
}

// StatementService builds customer statements from stored invoices and payments
type StatementService struct {
	customerRepo  repository.CustomerRepository
	statementRepo repository.StatementRepository
	tenantRepo    repository.TenantRepository
	mailer        StatementMailer
	publisher     events.Publisher
	cfg           config.StatementConfig
	logger        *zap.Logger
	now           func() time.Time
}

// NewStatementService creates a new statement service
func NewStatementService(
	customerRepo repository.CustomerRepository,
	statementRepo repository.StatementRepository,
	tenantRepo repository.TenantRepository,
	mailer StatementMailer,
	publisher events.Publisher,
	cfg config.StatementConfig,
	logger *zap.Logger,
) *StatementService {
	return &StatementService{
		customerRepo:  customerRepo,
		statementRepo: statementRepo,
		tenantRepo:    tenantRepo,
		mailer:        mailer,
		publisher:     publisher,
		cfg:           cfg,
		logger:        logger,
		now:           time.Now,
	}
}

// StatementPage is one page of a customer's statement, most recent entry first
type StatementPage struct {
	*statement.Result
	CustomerID uuid.UUID `json:"customer_id"`
	Page       int       `json:"page"`
	PerPage    int       `json:"per_page"`
}

// GetStatement returns page (1-based) of the customer's statement
func (s *StatementService) GetStatement(ctx context.Context, customerID uuid.UUID, page, perPage int) (*StatementPage, error) {
	page, perPage = s.window(page, perPage)

	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	invoices, payments, err := s.loadRows(ctx, customerID)
	if err != nil {
		metrics.ObserveStatementBuild(time.Since(start), 0, err)
		return nil, err
	}

	result, err := statement.Build(invoices, payments, customer.BalanceDecimal(), pageOffset(page, perPage), perPage)
	metrics.ObserveStatementBuild(time.Since(start), entryCount(result), err)
	if err != nil {
		if errors.Is(err, statement.ErrInvalidWindow) {
			return nil, apperror.NewBadRequestError("page and per_page must be positive")
		}
		return nil, err
	}
	s.reportSkipped(customerID, result)

	return &StatementPage{Result: result, CustomerID: customerID, Page: page, PerPage: perPage}, nil
}

// ExportStatement renders the full statement as pdf or xlsx
func (s *StatementService) ExportStatement(ctx context.Context, customerID uuid.UUID, format string) (*export.File, error) {
	if !export.IsSupported(format) {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unsupported export format %q, use pdf or xlsx", format))
	}

	doc, err := s.document(ctx, customerID)
	if err != nil {
		return nil, err
	}

	return renderStatement(format, doc)
}

// renderStatement records every render attempt, failed ones included
func renderStatement(format string, doc *export.Document) (*export.File, error) {
	file, err := export.Render(format, *doc)
	size := 0
	if file != nil {
		size = len(file.Data)
	}
	metrics.ObserveStatementExport(format, size, err)
	if err != nil {
		return nil, fmt.Errorf("render statement: %w", err)
	}
	return file, nil
}

// EmailStatement sends the PDF statement to the customer's email address
func (s *StatementService) EmailStatement(ctx context.Context, customerID uuid.UUID) error {
	doc, err := s.document(ctx, customerID)
	if err != nil {
		return err
	}
	if doc.CustomerEmail == "" {
		return apperror.NewBadRequestError("Customer has no email address")
	}

	file, err := renderStatement(export.FormatPDF, doc)
	if err != nil {
		return err
	}

	err = s.mailer.SendStatement(email.StatementEmail{
		To:           doc.CustomerEmail,
		CustomerName: doc.CustomerName,
		ShopName:     doc.ShopName,
		Currency:     doc.Currency,
		Balance:      doc.Statement.CurrentBalance.StringFixed(2),
		Attachment: email.Attachment{
			Filename:    file.Filename,
			ContentType: file.ContentType,
			Data:        file.Data,
		},
	})
	if err != nil {
		s.logger.Error("send statement email failed", zap.String("customer_id", customerID.String()), zap.Error(err))
		return apperror.NewAppError(502, "Failed to send statement email")
	}

	tenantID, _ := infraRepo.GetTenantID(ctx)
	publishEvent(ctx, s.publisher, s.logger, events.New(events.StatementEmailed, tenantID, map[string]any{
		"customer_id": customerID,
		"to":          doc.CustomerEmail,
		"balance":     doc.Statement.CurrentBalance,
		"entries":     doc.Statement.TotalCount,
	}))
	return nil
}

// document builds the full statement with the shop and customer details around it
func (s *StatementService) document(ctx context.Context, customerID uuid.UUID) (*export.Document, error) {
	customer, err := s.getCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	invoices, payments, err := s.loadRows(ctx, customerID)
	if err != nil {
		metrics.ObserveStatementBuild(time.Since(start), 0, err)
		return nil, err
	}
	if s.cfg.MaxExportRows > 0 && len(invoices)+len(payments) > s.cfg.MaxExportRows {
		return nil, apperror.NewUnprocessableError(fmt.Sprintf("Statement has more than %d entries and is too large to export", s.cfg.MaxExportRows))
	}

	result := statement.BuildAll(invoices, payments, customer.BalanceDecimal())
	metrics.ObserveStatementBuild(time.Since(start), entryCount(result), nil)
	s.reportSkipped(customerID, result)

	doc := &export.Document{
		CustomerName: customer.Name,
		GeneratedAt:  s.now(),
		Statement:    result,
	}
	if customer.Phone != nil {
		doc.CustomerPhone = *customer.Phone
	}
	if customer.Email != nil {
		doc.CustomerEmail = *customer.Email
	}

	settings := entity.DefaultTenantSettings()
	tenant, err := s.tenantRepo.GetByID(ctx, customer.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant != nil {
		doc.ShopName = tenant.Name
		settings = tenant.Settings.WithDefaults()
	}
	doc.Currency = settings.Currency
	doc.ShopAddress = settings.Address
	doc.ShopPhone = settings.Phone
	if loc, err := time.LoadLocation(settings.Timezone); err == nil {
		doc.GeneratedAt = doc.GeneratedAt.In(loc)
	}

	return doc, nil
}

func (s *StatementService) getCustomer(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

func (s *StatementService) loadRows(ctx context.Context, customerID uuid.UUID) ([]statement.InvoiceRecord, []statement.PaymentRecord, error) {
	invoices, err := s.statementRepo.InvoiceRows(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load invoice rows: %w", err)
	}
	payments, err := s.statementRepo.PaymentRows(ctx, customerID)
	if err != nil {
		return nil, nil, fmt.Errorf("load payment rows: %w", err)
	}
	return invoices, payments, nil
}

// pageOffset saturates instead of wrapping for very large page numbers
func pageOffset(page, perPage int) int {
	if page-1 > math.MaxInt/perPage {
		return math.MaxInt
	}
	return (page - 1) * perPage
}

// window applies the page defaults and the per_page cap
func (s *StatementService) window(page, perPage int) (int, int) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = s.cfg.DefaultPageSize
	}
	if perPage < 1 {
		perPage = 20
	}
	if s.cfg.MaxPageSize > 0 && perPage > s.cfg.MaxPageSize {
		perPage = s.cfg.MaxPageSize
	}
	return page, perPage
}

func (s *StatementService) reportSkipped(customerID uuid.UUID, result *statement.Result) {
	if result.SkippedCount == 0 {
		return
	}
	counts := map[statement.Kind]int{}
	for _, sk := range result.Skipped {
		counts[sk.Kind]++
		s.logger.Warn("statement entry skipped",
			zap.String("customer_id", customerID.String()),
			zap.String("entry_id", sk.ID),
			zap.String("kind", string(sk.Kind)),
			zap.String("reason", sk.Reason),
		)
	}
	for kind, n := range counts {
		metrics.AddStatementSkipped(string(kind), n)
	}
}

func entryCount(result *statement.Result) int {
	if result == nil {
		return 0
	}
	return result.TotalCount
}
