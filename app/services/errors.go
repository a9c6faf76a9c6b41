package services

import (
	"fmt"
	"sort"
	"strings"
)

// ValidationError carries field → message pairs for a 422 response.
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
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// UserNotFoundError is the NotFoundError raised for the user an order is
// placed for.
type UserNotFoundError struct {
	ID string
}

func (e *UserNotFoundError) Error() string { return fmt.Sprintf("user %s not found", e.ID) }
func (e *UserNotFoundError) Unwrap() error { return &NotFoundError{Entity: "user", ID: e.ID} }

// InvalidVariantError means no variant of the product matches the request.
type InvalidVariantError struct {
	ProductID string
	Reason    string
}

func (e *InvalidVariantError) Error() string {
	return fmt.Sprintf("invalid variant for product %s: %s", e.ProductID, e.Reason)
}

// InsufficientStockError is a single-variant stock shortfall.
type InsufficientStockError struct {
	ProductID string
	VariantID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for variant %s: requested %d, available %d",
		e.VariantID, e.Requested, e.Available)
}

// Shortage is one line of an OutOfStockError.
type Shortage struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// OutOfStockError lists every variant an order could not be filled from.
type OutOfStockError struct {
	Items []Shortage
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%d item(s) out of stock", len(e.Items))
}

// ConflictError is a request that clashes with the current state.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func conflict(format string, args ...any) *ConflictError {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// AuthError is a failed login or a forbidden action.
type AuthError struct {
	Message   string
	Forbidden bool
}

func (e *AuthError) Error() string { return e.Message }
