package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"sitedesk/internal/shared/constants"
	"sitedesk/internal/shared/errors"
	"sitedesk/internal/shared/utils"
)

// Identity resolves the acting user from the X-User-ID header set by the
// fronting auth proxy. Handlers read it back through CurrentUserID.
func Identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(constants.HeaderXUserID)
		if raw == "" {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("missing user header"))
			c.Abort()
			return
		}

		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || parsed == 0 {
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid user header"))
			c.Abort()
			return
		}

		c.Set("user_id", uint(parsed))

		// The auth proxy forwards the user's address alongside the id. It is
		// optional: without it the digest stays in-app only.
		if email := c.GetHeader(constants.HeaderXUserEmail); email != "" {
			c.Set("user_email", email)
		}

		c.Next()
	}
}

// CurrentUserEmail returns the acting user's email bound by Identity, or an
// empty string when the upstream proxy did not forward one.
func CurrentUserEmail(c *gin.Context) string {
	val, exists := c.Get("user_email")
	if !exists {
		return ""
	}
	email, _ := val.(string)
	return email
}

// CurrentUserID returns the authenticated user id stored by Identity.
func CurrentUserID(c *gin.Context) (uint, error) {
	val, exists := c.Get("user_id")
	if !exists {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	userID, ok := val.(uint)
	if !ok || userID == 0 {
		return 0, errors.NewUnauthorizedError("user not authenticated")
	}
	return userID, nil
}
