// Package middleware holds the gin middleware of the API and the shared
// error response writer.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/jobly/internal/apperror"
)

// StatusOf maps an application error onto an HTTP status. Errors without a
// kind are internal.
func StatusOf(err error) int {
	switch apperror.KindOf(err) {
	case apperror.KindInvalidRequest:
		return http.StatusBadRequest
	case apperror.KindUnauthorized:
		return http.StatusUnauthorized
	case apperror.KindForbidden:
		return http.StatusForbidden
	case apperror.KindNotFound:
		return http.StatusNotFound
	case apperror.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// AbortWithError writes the error body and stops the handler chain. Internal
// errors are recorded on the context for the request logger but their text
// is not sent to the client.
func AbortWithError(c *gin.Context, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		msg = http.StatusText(status)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"message": msg,
			"status":  status,
		},
	})
}
