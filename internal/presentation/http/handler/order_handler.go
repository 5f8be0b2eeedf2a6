package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/application/service"
	"github.com/sangkips/storefront-api/internal/domain/enum"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/request"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/response"
	"github.com/sangkips/storefront-api/pkg/pagination"
)

// OrderHandler handles order-related HTTP requests
type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// List handles listing orders. Unparseable filters are ignored.
func (h *OrderHandler) List(c *gin.Context) {
	var req request.OrderFilterRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	params := &repository.OrderFilterParams{
		Pagination: pagination.NewPaginationParams(req.Page, req.PerPage),
		Search:     req.Search,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
	}

	if req.Status != "" {
		if status, ok := enum.ParseOrderStatus(req.Status); ok {
			params.Status = &status
		}
	}
	if customerID, err := uuid.Parse(req.CustomerID); err == nil {
		params.CustomerID = &customerID
	}
	if registerID, err := uuid.Parse(req.RegisterID); err == nil {
		params.RegisterID = &registerID
	}
	if startDate, err := time.Parse("2006-01-02", req.StartDate); err == nil {
		params.StartDate = &startDate
	}
	if endDate, err := time.Parse("2006-01-02", req.EndDate); err == nil {
		params.EndDate = &endDate
	}

	result, err := h.orderService.ListOrders(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Orders retrieved successfully", result)
}

// Create handles checkout
func (h *OrderHandler) Create(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	var req request.CreateOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	items := make([]service.OrderItemInput, len(req.Items))
	for i, item := range req.Items {
		items[i] = service.OrderItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderInput{
		UserID:      *userID,
		CustomerID:  req.CustomerID,
		RegisterID:  req.RegisterID,
		PaymentType: req.PaymentType,
		Pay:         req.Pay,
		Items:       items,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Order created successfully", order)
}

// Get handles getting a single order with its lines
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order retrieved successfully", order)
}

// Cancel handles cancelling an order
func (h *OrderHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	if err := h.orderService.CancelOrder(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Order cancelled successfully", nil)
}

// GetDueOrders lists orders with an unpaid amount
func (h *OrderHandler) GetDueOrders(c *gin.Context) {
	result, err := h.orderService.GetDueOrders(c.Request.Context(), paginationParams(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, "Due orders retrieved successfully", result)
}

// Pay records a payment towards an order's due amount
func (h *OrderHandler) Pay(c *gin.Context) {
	userID := GetUserID(c)
	if userID == nil {
		response.Unauthorized(c, "User not authenticated")
		return
	}

	id, ok := parseID(c, "id", "order")
	if !ok {
		return
	}

	var req request.PayOrderRequest
	if !bindJSON(c, &req) {
		return
	}

	payment, err := h.orderService.PayOrder(c.Request.Context(), &service.PayOrderInput{
		UserID:     *userID,
		OrderID:    id,
		RegisterID: req.RegisterID,
		Amount:     req.Amount,
		Method:     enum.PaymentMethod(strings.ToLower(strings.TrimSpace(req.Method))),
		Notes:      req.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Payment recorded successfully", payment)
}
