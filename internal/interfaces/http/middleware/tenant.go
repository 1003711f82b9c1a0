package middleware

import (
	"github.com/gin-gonic/gin"

	"sitedesk/internal/shared/constants"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/tenant"
	"sitedesk/internal/shared/utils"
)

// TenantScope extracts the tenant id from the X-Tenant-ID header and attaches
// it to the request context. The header value is opaque auth material: it is
// never parsed or interpolated here, only carried as a typed id that the db
// layer binds as a statement parameter. Requests without a tenant are
// rejected before any handler runs.
func TenantScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(constants.HeaderXTenantID)
		if raw == "" {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("missing tenant header"))
			c.Abort()
			return
		}
		if len(raw) > 64 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("tenant id too long"))
			c.Abort()
			return
		}

		id := tenant.ID(raw)
		c.Request = c.Request.WithContext(tenant.NewContext(c.Request.Context(), id))
		c.Set("tenant_id", id.String())
		c.Next()
	}
}
