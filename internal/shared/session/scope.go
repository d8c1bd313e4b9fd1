// Package session carries the operator scope shared by every component of a process.
package session

import (
	"errors"
	"strings"
)

// DefaultLocale is used when neither the caller nor the scope names a locale.
const DefaultLocale = "id"

var ErrMissingOperator = errors.New("operator id is required")

// Scope identifies the operator whose catalog, settings and carts a component serves.
type Scope struct {
	OperatorID    string
	DefaultLocale string
}

// NewScope validates and normalizes a scope.
func NewScope(operatorID, locale string) (Scope, error) {
	operatorID = strings.TrimSpace(operatorID)
	if operatorID == "" {
		return Scope{}, ErrMissingOperator
	}
	locale = strings.ToLower(strings.TrimSpace(locale))
	if locale == "" {
		locale = DefaultLocale
	}
	return Scope{OperatorID: operatorID, DefaultLocale: locale}, nil
}

// Locale picks the requested locale, falling back to the scope default.
func (s Scope) Locale(requested string) string {
	if requested = strings.ToLower(strings.TrimSpace(requested)); requested != "" {
		return requested
	}
	if s.DefaultLocale != "" {
		return s.DefaultLocale
	}
	return DefaultLocale
}
