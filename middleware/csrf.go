package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Anti-forgery uses the double-submit pattern: the token lives in a
// JS-readable cookie and mutating requests must echo it back in a header.

const (
	CSRFCookie = "ft_csrf"
	CSRFHeader = "X-CSRF-Token"
)

// GenerateCSRFToken returns a fresh random anti-forgery token.
func GenerateCSRFToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// RequireCSRF rejects mutating requests whose header token does not match
// the cookie token.
func RequireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		cookie, err := c.Cookie(CSRFCookie)
		header := c.GetHeader(CSRFHeader)
		if err != nil || cookie == "" || header == "" ||
			subtle.ConstantTimeCompare([]byte(cookie), []byte(header)) != 1 {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid anti-forgery token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
