package services

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrNotFound            = errors.New("resource not found")
	ErrForbidden           = errors.New("Não autorizado")
	ErrInvalidCredentials  = errors.New("Credenciais inválidas")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrInvalidAccessToken  = errors.New("invalid or expired access token")
)

// ValidationError collects per-field messages for a rejected input.
type ValidationError struct {
	Fields map[string][]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string][]string{}}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = append(e.Fields[field], message)
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can return it directly.
func (e *ValidationError) OrNil() error {
	if e.HasErrors() {
		return e
	}
	return nil
}

// Error returns the first message, followed by a count of the rest.
func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	total := 0
	for field, messages := range e.Fields {
		fields = append(fields, field)
		total += len(messages)
	}
	if total == 0 {
		return "The given data was invalid."
	}
	sort.Strings(fields)

	first := e.Fields[fields[0]][0]
	switch rest := total - 1; rest {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

func fieldError(field, message string) *ValidationError {
	e := NewValidationError()
	e.Add(field, message)
	return e
}
