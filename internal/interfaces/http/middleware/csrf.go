package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/praxisops/praxis/internal/shared/utils"
)

const (
	// CSRFTokenCookie carries the double-submit token.
	CSRFTokenCookie = "csrf_token"
	// CSRFTokenHeader must echo the cookie value on mutating requests.
	CSRFTokenHeader = "X-CSRF-Token"
)

// csrfExactPaths lists exact paths exempt from CSRF validation. These are
// unauthenticated endpoints with no cookie session to protect.
var csrfExactPaths = map[string]struct{}{
	"/api/auth/login": {},
}

// csrfPrefixPaths lists path prefixes exempt from CSRF validation:
// machine-to-machine surfaces authenticated by bearer token, and the email
// tracking endpoints hit by mail clients.
var csrfPrefixPaths = []string{
	"/api/mcp/",
	"/api/email-tracking/",
}

// CSRF validates the double-submit cookie pattern on mutating requests:
// the csrf_token cookie must match the X-CSRF-Token header. Safe methods
// are always skipped.
func CSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		path := c.Request.URL.Path
		if _, ok := csrfExactPaths[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range csrfPrefixPaths {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		// Bearer-authenticated requests carry no cookie session to protect.
		if strings.HasPrefix(c.GetHeader("Authorization"), "Bearer ") {
			c.Next()
			return
		}

		cookieToken, err := c.Cookie(CSRFTokenCookie)
		if err != nil || cookieToken == "" {
			utils.ErrorResponse(c, http.StatusForbidden, "missing CSRF token")
			c.Abort()
			return
		}

		headerToken := c.GetHeader(CSRFTokenHeader)
		if headerToken == "" {
			utils.ErrorResponse(c, http.StatusForbidden, "missing CSRF token header")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(cookieToken), []byte(headerToken)) != 1 {
			utils.ErrorResponse(c, http.StatusForbidden, "invalid CSRF token")
			c.Abort()
			return
		}

		c.Next()
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	default:
		return false
	}
}
