// Package apierr carries business-rule violations to the HTTP edge as
// typed errors with a status code, serialized by Respond in the shape
// {"status":"error","message":...}.
package apierr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

func BadRequest(message string) *Error {
	return New(http.StatusBadRequest, message)
}

func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

func Conflict(message string) *Error {
	return New(http.StatusConflict, message)
}

func Gateway(message string) *Error {
	return New(http.StatusBadGateway, message)
}

// Respond writes the error envelope for err. Untyped errors are logged
// and masked as a generic 500 so internals never leak to clients.
func Respond(c *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		apiErr = New(http.StatusInternalServerError, "Internal server error")
	}
	c.JSON(apiErr.Status, gin.H{"status": "error", "message": apiErr.Message})
}
