package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobly/internal/apperror"
	"github.com/justsurfingit/jobly/internal/auth"
)

const claimsKey = "claims"

// TokenVerifier is implemented by *auth.Tokens.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Authenticate stores the claims of a valid bearer token on the context. A
// missing or invalid token is not an error here; the guards below decide.
func Authenticate(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if ok && token != "" {
			if claims, err := tokens.Verify(strings.TrimSpace(token)); err == nil {
				c.Set(claimsKey, claims)
			}
		}
		c.Next()
	}
}

// CurrentUser returns the claims stored by Authenticate.
func CurrentUser(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}

// EnsureLoggedIn rejects anonymous requests with 401.
func EnsureLoggedIn() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			AbortWithError(c, apperror.Unauthorized("Unauthorized"))
			return
		}
		c.Next()
	}
}

// EnsureAdmin requires an admin token: 401 when anonymous, 403 otherwise.
func EnsureAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			AbortWithError(c, apperror.Unauthorized("Unauthorized"))
			return
		}
		if !claims.IsAdmin {
			AbortWithError(c, apperror.Forbidden("Admin required"))
			return
		}
		c.Next()
	}
}

// EnsureAdminOrSelf lets admins through, and users whose name equals the
// path parameter param.
func EnsureAdminOrSelf(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := CurrentUser(c)
		if !ok {
			AbortWithError(c, apperror.Unauthorized("Unauthorized"))
			return
		}
		if !claims.IsAdmin && claims.Username != c.Param(param) {
			AbortWithError(c, apperror.Forbidden("Admin or same user required"))
			return
		}
		c.Next()
	}
}
