package core

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrRendering  = errors.New("rendering failed")
	ErrAuth       = errors.New("invalid username or password")
)

// ValidationError lists offending fields. It matches ErrValidation with errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a single-field validation error.
func Invalid(field, problem string) error {
	return &ValidationError{Fields: map[string]string{field: problem}}
}

// Result is the uniform outcome shape handed to the presentation layer.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// ResultOf converts an error into a Result. Errors outside the taxonomy are
// reported generically so storage internals do not leak.
func ResultOf(err error) Result {
	if err == nil {
		return Result{Success: true}
	}
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrNotFound), errors.Is(err, ErrRendering):
		return Result{Error: err.Error()}
	case errors.Is(err, ErrAuth):
		return Result{Error: ErrAuth.Error()}
	default:
		return Result{Error: "internal error"}
	}
}
