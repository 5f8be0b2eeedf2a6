package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/storefront-api/internal/application/service"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/request"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/response"
)

// PaymentHandler handles payments received on customer accounts
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// List handles listing a customer's payments, most recent first
func (h *PaymentHandler) List(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	result, err := h.paymentService.ListPayments(c.Request.Context(), customerID, paginationParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Payments retrieved successfully", result)
}

// Create records a payment on a customer's account
func (h *PaymentHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req request.RecordPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	input := &service.RecordPaymentInput{
		UserID:     *userID,
		CustomerID: customerID,
		OrderID:    req.OrderID,
		RegisterID: req.RegisterID,
		Amount:     req.Amount,
		Method:     enum.PaymentMethod(strings.ToLower(strings.TrimSpace(req.Method))),
		Notes:      req.Notes,
	}
	if req.PaymentDate != "" {
		// binding has already checked the layout
		date, _ := time.Parse("2006-01-02", req.PaymentDate)
		input.PaymentDate = &date
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}

// Get handles getting a single payment
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "payment")
	if !ok {
		return
	}

	payment, err := h.paymentService.GetPayment(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment retrieved successfully", payment)
}

// Void deletes a payment and puts its amount back on the account
func (h *PaymentHandler) Void(c *gin.Context) {
	id, ok := parseID(c, "id", "payment")
	if !ok {
		return
	}

	if err := h.paymentService.VoidPayment(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Payment voided successfully", nil)
}
