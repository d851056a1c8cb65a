// Package http serves the local JSON API the UI shell talks to.
//
// This file implements the builder for the {success, error, ...} result
// envelope every endpoint answers with.

package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"temple/internal/core"
)

// ResultBuilder provides a fluent API for building result envelopes.
type ResultBuilder struct {
	statusCode int
	fields     gin.H
}

// NewResult creates a successful result with status 200.
func NewResult() *ResultBuilder {
	return &ResultBuilder{
		statusCode: http.StatusOK,
		fields:     gin.H{"success": true},
	}
}

// ErrorResult creates a failed result for err. The status follows the
// error's kind and the message is what core.ResultOf exposes.
func ErrorResult(err error) *ResultBuilder {
	res := core.ResultOf(err)
	return &ResultBuilder{
		statusCode: StatusFor(err),
		fields:     gin.H{"success": false, "error": res.Error},
	}
}

// Failure creates a failed result with an explicit status and message.
func Failure(statusCode int, message string) *ResultBuilder {
	return &ResultBuilder{
		statusCode: statusCode,
		fields:     gin.H{"success": false, "error": message},
	}
}

// Status overrides the HTTP status code.
func (b *ResultBuilder) Status(code int) *ResultBuilder {
	b.statusCode = code
	return b
}

// With adds a payload field next to success and error.
func (b *ResultBuilder) With(key string, value any) *ResultBuilder {
	if key == "success" || key == "error" {
		return b
	}
	b.fields[key] = value
	return b
}

// Write sends the envelope.
func (b *ResultBuilder) Write(c *gin.Context) {
	c.JSON(b.statusCode, b.fields)
}

// Abort sends the envelope and stops the handler chain.
func (b *ResultBuilder) Abort(c *gin.Context) {
	c.AbortWithStatusJSON(b.statusCode, b.fields)
}

// StatusFor maps an error onto an HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, core.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrAuth):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError records err on the context for the request log and writes
// the failure envelope.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	ErrorResult(err).Write(c)
}
