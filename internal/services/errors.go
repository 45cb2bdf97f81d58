package services

import (
	"errors"
	"fmt"
	"strings"
)

// Failures callers can act on. Handlers map these onto HTTP statuses;
// anything unrecognized surfaces as a 500 with a generic body.
var (
	ErrCartEmpty = errors.New("cart is empty")
	ErrBadCreds  = errors.New("invalid credentials")
)

// ValidationError reports malformed or missing input. Nothing was
// mutated when it is returned.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid or missing field(s): " + strings.Join(e.Fields, ", ")
}

type NotFoundError struct {
	Resource string // "product", "cart", "cart item", "order", "user"
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ConflictError is a unique-constraint violation, e.g. a duplicate
// product name or an already-registered email.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with this %s already exists", e.Resource, e.Field)
}

// InsufficientStockError is returned by order placement when a line's
// requested quantity exceeds what is on hand.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %d, requested %d",
		e.Name, e.Available, e.Requested)
}

// StockExceededError is the cart-side variant: adding or updating a line
// would exceed the product's stock.
type StockExceededError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *StockExceededError) Error() string {
	return fmt.Sprintf("not enough stock for %s: available %d, requested %d",
		e.Name, e.Available, e.Requested)
}
