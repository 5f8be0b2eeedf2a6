package request

// CreateRegisterRequest represents a till creation request
type CreateRegisterRequest struct {
	Name     string  `json:"name" binding:"required,min=1,max=100"`
	Location *string `json:"location" binding:"omitempty,max=255"`
}

// UpdateRegisterRequest represents a till update request
type UpdateRegisterRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Location *string `json:"location" binding:"omitempty,max=255"`
	IsActive *bool   `json:"is_active"`
}
