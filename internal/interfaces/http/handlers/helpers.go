package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// parseQueryUint reads an optional positive integer query parameter.
func parseQueryUint(c *gin.Context, key string) (uint, bool) {
	raw := c.Query(key)
	if raw == "" {
		return 0, false
	}
	parsed, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || parsed == 0 {
		return 0, false
	}
	return uint(parsed), true
}
