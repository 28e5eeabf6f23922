package domain

import (
	"errors"
	"strings"
)

// Sentinel errors for the cart domain. Use errors.Is() to check these.
var (
	// ErrCartNotFound indicates no cart is stored for the customer or ID.
	ErrCartNotFound = errors.New("cart not found")

	// ErrCartAlreadyExists indicates the customer already owns a stored cart.
	ErrCartAlreadyExists = errors.New("cart already exists")

	// ErrItemNotFound indicates the product is not present in the cart.
	ErrItemNotFound = errors.New("item not found in cart")

	// ErrProductNotFound indicates the catalog has no such product.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidSelection indicates the product/quantity pair was rejected
	// before it reached the cart.
	ErrInvalidSelection = errors.New("invalid product selection")

	// ErrInvalidCart indicates the cart failed its business rules.
	ErrInvalidCart = errors.New("invalid cart")
)

// ViolationError carries the rule messages behind a rejected operation.
// Err is one of the sentinels above.
type ViolationError struct {
	Err        error
	Violations []string
}

// NewViolationError wraps sentinel with the given messages.
func NewViolationError(sentinel error, violations []string) *ViolationError {
	return &ViolationError{Err: sentinel, Violations: violations}
}

func (e *ViolationError) Error() string {
	if len(e.Violations) == 0 {
		return e.Err.Error()
	}
	return e.Err.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *ViolationError) Unwrap() error { return e.Err }
