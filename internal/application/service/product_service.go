package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/entity"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	infraRepo "github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/pkg/apperror"
	"github.com/sangkips/storefront-api/pkg/pagination"
	"github.com/sangkips/storefront-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// ProductService handles product-related operations
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductInput represents the create product input
type CreateProductInput struct {
	UserID        uuid.UUID
	Name          string
	Code          string
	Quantity      int
	QuantityAlert int
	SellingPrice  decimal.Decimal
	TaxType       enum.TaxType
	Notes         *string
}

// CreateProduct creates a new product
func (s *ProductService) CreateProduct(ctx context.Context, input *CreateProductInput) (*entity.Product, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	price, err := priceCents(input.SellingPrice)
	if err != nil {
		return nil, err
	}
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Quantity cannot be negative")
	}

	// Auto-generate code if not provided
	code := strings.TrimSpace(input.Code)
	if code == "" {
		code = utils.GenerateProductCode()
	}
	if err := s.ensureCodeFree(ctx, code, uuid.Nil); err != nil {
		return nil, err
	}

	product := &entity.Product{
		TenantID:      tenantID,
		UserID:        input.UserID,
		Name:          strings.TrimSpace(input.Name),
		Code:          code,
		Quantity:      input.Quantity,
		QuantityAlert: input.QuantityAlert,
		SellingPrice:  price,
		TaxType:       input.TaxType,
		Notes:         input.Notes,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct retrieves a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// ListProducts lists products with filtering
func (s *ProductService) ListProducts(ctx context.Context, params *repository.ProductFilterParams) (*pagination.PaginatedResult[entity.Product], error) {
	products, total, err := s.productRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(products, pag), nil
}

// UpdateProductInput represents the update product input
type UpdateProductInput struct {
	ID            uuid.UUID
	Name          *string
	Code          *string
	Quantity      *int
	QuantityAlert *int
	SellingPrice  *decimal.Decimal
	TaxType       *enum.TaxType
	Notes         *string
}

// UpdateProduct updates a product. Price changes apply to future orders only.
func (s *ProductService) UpdateProduct(ctx context.Context, input *UpdateProductInput) (*entity.Product, error) {
	product, err := s.GetProduct(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Code != nil && *input.Code != product.Code {
		if err := s.ensureCodeFree(ctx, *input.Code, product.ID); err != nil {
			return nil, err
		}
		product.Code = *input.Code
	}
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Quantity != nil {
		if *input.Quantity < 0 {
			return nil, apperror.NewBadRequestError("Quantity cannot be negative")
		}
		product.Quantity = *input.Quantity
	}
	if input.QuantityAlert != nil {
		product.QuantityAlert = *input.QuantityAlert
	}
	if input.SellingPrice != nil {
		price, err := priceCents(*input.SellingPrice)
		if err != nil {
			return nil, err
		}
		product.SellingPrice = price
	}
	if input.TaxType != nil {
		product.TaxType = *input.TaxType
	}
	if input.Notes != nil {
		product.Notes = input.Notes
	}

	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// DeleteProduct deletes a product. Order lines keep the name captured at sale.
func (s *ProductService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProduct(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

// ImportProductRow represents a single row from the import file
type ImportProductRow struct {
	Name          string
	Code          string
	Quantity      int
	QuantityAlert int
	SellingPrice  string
	TaxType       string
	Notes         string
}

// ImportResult contains the result of a product import operation
type ImportResult struct {
	TotalRows  int              `json:"total_rows"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     []ImportRowError `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportProducts validates and bulk-creates products from parsed import rows.
// Bad rows are reported and skipped; the rest are created.
func (s *ProductService) ImportProducts(ctx context.Context, userID uuid.UUID, rows []ImportProductRow) (*ImportResult, error) {
	tenantID, ok := infraRepo.GetTenantID(ctx)
	if !ok {
		return nil, apperror.NewBadRequestError("Tenant context required")
	}

	result := &ImportResult{TotalRows: len(rows)}
	var rowErrors []ImportRowError
	seenCodes := make(map[string]int) // code -> row number
	var validProducts []entity.Product

	for i, row := range rows {
		rowNum := i + 2 // row 1 is the header

		name := strings.TrimSpace(row.Name)
		if name == "" {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "name", Message: "Name is required"})
			continue
		}

		price, err := decimal.NewFromString(strings.TrimSpace(row.SellingPrice))
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "selling_price", Message: "Selling price must be a number"})
			continue
		}
		priceValue, err := priceCents(price)
		if err != nil {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "selling_price", Message: err.Error()})
			continue
		}
		if row.Quantity < 0 {
			rowErrors = append(rowErrors, ImportRowError{Row: rowNum, Field: "quantity", Message: "Quantity cannot be negative"})
			continue
		}

		taxType, ok := importTaxType(row.TaxType)
		if !ok {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "tax_type",
				Message: fmt.Sprintf("Unknown tax type '%s', use Exclusive or Inclusive", strings.TrimSpace(row.TaxType)),
			})
			continue
		}

		code := strings.TrimSpace(row.Code)
		if code == "" {
			code = utils.GenerateProductCode()
		}
		if prevRow, exists := seenCodes[code]; exists {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Duplicate code '%s' (same as row %d)", code, prevRow),
			})
			continue
		}
		existing, err := s.productRepo.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			rowErrors = append(rowErrors, ImportRowError{
				Row:     rowNum,
				Field:   "code",
				Message: fmt.Sprintf("Product code '%s' already exists", code),
			})
			continue
		}
		seenCodes[code] = rowNum

		product := entity.Product{
			TenantID:      tenantID,
			UserID:        userID,
			Name:          name,
			Code:          code,
			Quantity:      row.Quantity,
			QuantityAlert: row.QuantityAlert,
			SellingPrice:  priceValue,
			TaxType:       taxType,
		}
		if notes := strings.TrimSpace(row.Notes); notes != "" {
			product.Notes = &notes
		}
		validProducts = append(validProducts, product)
	}

	if len(validProducts) > 0 {
		if err := s.productRepo.CreateBatch(ctx, validProducts); err != nil {
			return nil, fmt.Errorf("import products: %w", err)
		}
	}

	result.Successful = len(validProducts)
	result.Failed = len(rowErrors)
	result.Errors = rowErrors

	return result, nil
}

func (s *ProductService) ensureCodeFree(ctx context.Context, code string, self uuid.UUID) error {
	existing, err := s.productRepo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Product code already exists")
	}
	return nil
}

func priceCents(price decimal.Decimal) (int64, error) {
	if price.IsNegative() {
		return 0, apperror.NewBadRequestError("Selling price cannot be negative")
	}
	cents, err := entity.ToCents(price)
	if err != nil {
		return 0, apperror.NewBadRequestError("Selling price cannot have more than two decimal places")
	}
	return cents, nil
}

// importTaxType treats a blank cell as exclusive
func importTaxType(raw string) (enum.TaxType, bool) {
	if strings.TrimSpace(raw) == "" {
		return enum.TaxTypeExclusive, true
	}
	return enum.ParseTaxType(raw)
}
