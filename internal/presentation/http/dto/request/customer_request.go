package request

// CreateCustomerRequest represents a customer creation request
type CreateCustomerRequest struct {
	Name    string  `json:"name" binding:"required,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	KRAPin  *string `json:"kra_pin" binding:"omitempty,max=50"`
	Address *string `json:"address"`
}

// UpdateCustomerRequest represents a customer update request. The balance is
// only ever changed by orders and payments.
type UpdateCustomerRequest struct {
	Name    *string `json:"name" binding:"omitempty,min=2,max=255"`
	Email   *string `json:"email" binding:"omitempty,email"`
	Phone   *string `json:"phone" binding:"omitempty,max=50"`
	KRAPin  *string `json:"kra_pin" binding:"omitempty,max=50"`
	Address *string `json:"address"`
}
