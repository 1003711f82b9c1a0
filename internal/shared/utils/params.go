package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"sitedesk/internal/shared/errors"
)

// ParseUintParam parses a numeric ID from a URL path parameter.
// paramName is the Gin route parameter name (e.g., "id", "rule_id").
// entityName is used in error messages (e.g., "ticket", "recurrence rule").
func ParseUintParam(c *gin.Context, paramName, entityName string) (uint, error) {
	raw := c.Param(paramName)
	if raw == "" {
		return 0, errors.NewValidationError(entityName + " ID is required")
	}

	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, errors.NewValidationError("invalid " + entityName + " ID")
	}

	return uint(parsed), nil
}
