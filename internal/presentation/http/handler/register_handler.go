package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/storefront-api/internal/application/service"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/request"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/response"
)

// RegisterHandler handles the shop's tills
type RegisterHandler struct {
	registerService *service.RegisterService
}

// NewRegisterHandler creates a new register handler
func NewRegisterHandler(registerService *service.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// List handles listing registers; ?active=true hides deactivated ones
func (h *RegisterHandler) List(c *gin.Context) {
	registers, err := h.registerService.ListRegisters(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Registers retrieved successfully", registers)
}

// Create handles creating a register
func (h *RegisterHandler) Create(c *gin.Context) {
	var req request.CreateRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	register, err := h.registerService.CreateRegister(c.Request.Context(), req.Name, req.Location)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Register created successfully", register)
}

// Get handles getting a single register
func (h *RegisterHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id", "register")
	if !ok {
		return
	}

	register, err := h.registerService.GetRegister(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register retrieved successfully", register)
}

// Update handles renaming, relocating or (de)activating a register
func (h *RegisterHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id", "register")
	if !ok {
		return
	}

	var req request.UpdateRegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	register, err := h.registerService.UpdateRegister(c.Request.Context(), &service.UpdateRegisterInput{
		ID:       id,
		Name:     req.Name,
		Location: req.Location,
		IsActive: req.IsActive,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register updated successfully", register)
}

// Deactivate retires a register. Its past sales keep their register name.
func (h *RegisterHandler) Deactivate(c *gin.Context) {
	id, ok := parseID(c, "id", "register")
	if !ok {
		return
	}

	if err := h.registerService.DeactivateRegister(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Register deactivated successfully", nil)
}
