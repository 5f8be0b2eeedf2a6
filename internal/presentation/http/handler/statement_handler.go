package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/storefront-api/internal/application/service"
	"github.com/sangkips/storefront-api/internal/infrastructure/export"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/request"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/response"
)

// StatementHandler serves customer account statements
type StatementHandler struct {
	statementService *service.StatementService
}

// NewStatementHandler creates a new statement handler
func NewStatementHandler(statementService *service.StatementService) *StatementHandler {
	return &StatementHandler{statementService: statementService}
}

// Get returns one page of the customer's statement, most recent entry first.
// Missing page or per_page fall back to the configured defaults.
// @Summary Customer statement
// @Tags statements
// @Security BearerAuth
// @Produce json
// @Param id path string true "Customer ID"
// @Param page query int false "1-based page"
// @Param per_page query int false "Entries per page"
// @Success 200 {object} response.APIResponse
// @Router /customers/{id}/statement [get]
func (h *StatementHandler) Get(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req request.StatementRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "page and per_page must be whole numbers")
		return
	}

	page, err := h.statementService.GetStatement(c.Request.Context(), customerID, req.Page, req.PerPage)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statement retrieved successfully", page)
}

// Export downloads the full statement as a PDF or Excel file
// @Summary Export customer statement
// @Tags statements
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Param format query string false "pdf (default) or xlsx"
// @Router /customers/{id}/statement/export [get]
func (h *StatementHandler) Export(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	var req request.ExportStatementRequest
	_ = c.ShouldBindQuery(&req)
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = export.FormatPDF
	}

	file, err := h.statementService.ExportStatement(c.Request.Context(), customerID, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+file.Filename+`"`)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Email sends the PDF statement to the customer
// @Summary Email customer statement
// @Tags statements
// @Security BearerAuth
// @Param id path string true "Customer ID"
// @Router /customers/{id}/statement/email [post]
func (h *StatementHandler) Email(c *gin.Context) {
	customerID, ok := parseID(c, "id", "customer")
	if !ok {
		return
	}

	if err := h.statementService.EmailStatement(c.Request.Context(), customerID); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Statement sent", nil)
}
