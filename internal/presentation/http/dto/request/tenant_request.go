package request

import "github.com/sangkips/storefront-api/internal/domain/entity"

// UpdateTenantRequest renames the shop or replaces its settings
type UpdateTenantRequest struct {
	Name     *string                `json:"name" binding:"omitempty,min=2,max=255"`
	Settings *entity.TenantSettings `json:"settings"`
}
