package middleware

import (
	"errors"
	"net"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/domain/repository"
	"github.com/sangkips/storefront-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/response"
)

var errNoSubdomain = errors.New("no shop subdomain")

// ExtractTenantFromHost extracts the shop slug from the subdomain,
// e.g. "duka-moja.storefront.co.ke" -> "duka-moja"
func ExtractTenantFromHost(host string) (string, error) {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	if net.ParseIP(host) != nil {
		return "", errNoSubdomain
	}

	parts := strings.Split(host, ".")
	if len(parts) < 3 || parts[0] == "" || parts[0] == "www" || parts[0] == "api" {
		return "", errNoSubdomain
	}
	return strings.ToLower(parts[0]), nil
}

// TenantMiddleware lets a shop subdomain pick the tenant of the request.
// Requests without a subdomain keep the shop from their token. It must run
// after AuthMiddleware.
func TenantMiddleware(tenantRepo repository.TenantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantSlug, err := ExtractTenantFromHost(c.Request.Host)
		if err != nil {
			c.Next()
			return
		}

		tenant, err := tenantRepo.GetBySlug(c.Request.Context(), tenantSlug)
		if err != nil || tenant == nil {
			response.NotFound(c, "Tenant not found")
			c.Abort()
			return
		}

		if !isSuperAdmin(c) {
			userIDVal, _ := c.Get("user_id")
			userID, _ := userIDVal.(uuid.UUID)
			if userID == uuid.Nil {
				response.Unauthorized(c, "Authentication required")
				c.Abort()
				return
			}
			isMember, err := tenantRepo.IsMember(c.Request.Context(), tenant.ID, userID)
			if err != nil || !isMember {
				response.Forbidden(c, "Access denied to this tenant")
				c.Abort()
				return
			}
		}

		c.Set("tenant_id", tenant.ID)
		c.Set("tenant", tenant)

		ctx := infraRepo.WithTenant(c.Request.Context(), tenant.ID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireTenant ensures a valid tenant context exists
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetTenantID(c) == uuid.Nil {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) uuid.UUID {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return uuid.Nil
	}
	id, ok := tenantID.(uuid.UUID)
	if !ok {
		return uuid.Nil
	}
	return id
}

func isSuperAdmin(c *gin.Context) bool {
	roles, _ := c.Get("user_roles")
	list, _ := roles.([]string)
	return slices.Contains(list, database.RoleSuperAdmin)
}
