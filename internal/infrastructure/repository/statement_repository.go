package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	domainRepo "github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/domain/statement"
	"gorm.io/gorm"
)

type statementRepository struct {
	db *gorm.DB
}

// NewStatementRepository creates a new statement repository
func NewStatementRepository(db *gorm.DB) domainRepo.StatementRepository {
	return &statementRepository{db: db}
}

type invoiceRow struct {
	ID            string
	InvoiceNo     string
	CreatedAtDate string
	CreatedAtTime string
	TotalAmount   string
	InvoiceType   int
	RegisterName  *string
}

type paymentRow struct {
	ID            string
	PaymentDate   string
	CreatedAtDate string
	CreatedAtTime string
	Amount        string
	Notes         *string
	RegisterName  *string
}

// Dates and amounts are rendered by Postgres in the session time zone
// (DB_TIMEZONE) and read back as text.
func (r *statementRepository) InvoiceRows(ctx context.Context, customerID uuid.UUID) ([]statement.InvoiceRecord, error) {
	var rows []invoiceRow
	err := conn(ctx, r.db).
		Table("orders AS o").
		Select(`o.id::text AS id,
			o.invoice_no AS invoice_no,
			TO_CHAR(o.created_at, 'YYYY-MM-DD') AS created_at_date,
			TO_CHAR(o.created_at, 'HH24:MI:SS') AS created_at_time,
			ROUND(o.total / 100.0, 2)::text AS total_amount,
			o.invoice_type AS invoice_type,
			reg.name AS register_name`).
		Joins("LEFT JOIN registers AS reg ON reg.id = o.register_id").
		Scopes(TenantScopeOn(ctx, "o")).
		Where("o.customer_id = ? AND o.deleted_at IS NULL AND o.order_status <> ?", customerID, enum.OrderStatusCancel).
		Order("o.created_at ASC, o.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]statement.InvoiceRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, statement.InvoiceRecord{
			ID:               row.ID,
			InvoiceNo:        row.InvoiceNo,
			CreatedAtDate:    row.CreatedAtDate,
			CreatedAtTime:    row.CreatedAtTime,
			TotalAmount:      row.TotalAmount,
			InvoiceTypeLabel: enum.InvoiceType(row.InvoiceType).Label(),
			RegisterName:     row.RegisterName,
		})
	}
	return records, nil
}

func (r *statementRepository) PaymentRows(ctx context.Context, customerID uuid.UUID) ([]statement.PaymentRecord, error) {
	var rows []paymentRow
	err := conn(ctx, r.db).
		Table("payments AS p").
		Select(`p.id::text AS id,
			TO_CHAR(p.payment_date, 'YYYY-MM-DD') AS payment_date,
			TO_CHAR(p.created_at, 'YYYY-MM-DD') AS created_at_date,
			TO_CHAR(p.created_at, 'HH24:MI:SS') AS created_at_time,
			ROUND(p.amount / 100.0, 2)::text AS amount,
			p.notes AS notes,
			reg.name AS register_name`).
		Joins("LEFT JOIN registers AS reg ON reg.id = p.register_id").
		Scopes(TenantScopeOn(ctx, "p")).
		Where("p.customer_id = ? AND p.deleted_at IS NULL", customerID).
		Order("p.created_at ASC, p.id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	records := make([]statement.PaymentRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, statement.PaymentRecord(row))
	}
	return records, nil
}
