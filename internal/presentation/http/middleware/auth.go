package middleware

import (
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/storefront-api/internal/infrastructure/database"
	infraRepo "github.com/sangkips/storefront-api/internal/infrastructure/repository"
	"github.com/sangkips/storefront-api/internal/presentation/http/dto/response"
	"github.com/sangkips/storefront-api/pkg/utils"
)

// TenantOverrideParam lets a super-admin act on a shop other than the one in their token
const TenantOverrideParam = "tenant_id"

// AuthMiddleware creates a JWT authentication middleware.
// The shop carried by the token becomes the tenant of the request context.
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		setClaims(c, claims)

		tenantID := claims.TenantID
		if slices.Contains(claims.Roles, database.RoleSuperAdmin) {
			if raw := c.Query(TenantOverrideParam); raw != "" {
				override, err := uuid.Parse(raw)
				if err != nil {
					response.BadRequest(c, "Invalid tenant_id")
					c.Abort()
					return
				}
				tenantID = override
			}
			if tenantID == uuid.Nil {
				ctx := infraRepo.WithSkipTenantScope(c.Request.Context(), true)
				c.Request = c.Request.WithContext(ctx)
			}
		}

		if tenantID != uuid.Nil {
			c.Set("tenant_id", tenantID)
			ctx := infraRepo.WithTenant(c.Request.Context(), tenantID)
			c.Request = c.Request.WithContext(ctx)
		}

		c.Next()
	}
}

// OptionalAuthMiddleware tries to authenticate but doesn't fail if no token is provided
func OptionalAuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.Next()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			c.Next()
			return
		}

		setClaims(c, claims)
		c.Next()
	}
}

func setClaims(c *gin.Context, claims *utils.JWTClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("user_email", claims.Email)
	c.Set("user_roles", claims.Roles)
	c.Set("user_permissions", claims.Permissions)
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(c.GetStringSlice("user_permissions"), permission) {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the given roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRoles := c.GetStringSlice("user_roles")
		for _, required := range roles {
			if slices.Contains(userRoles, required) {
				c.Next()
				return
			}
		}

		response.Forbidden(c, "Insufficient role privileges")
		c.Abort()
	}
}

