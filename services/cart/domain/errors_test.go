package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Messages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrCartNotFound, "cart not found"},
		{ErrCartAlreadyExists, "cart already exists"},
		{ErrItemNotFound, "item not found in cart"},
		{ErrProductNotFound, "product not found"},
		{ErrInvalidSelection, "invalid product selection"},
		{ErrInvalidCart, "invalid cart"},
	}
	for _, tt := range tests {
		if tt.err.Error() != tt.want {
			t.Errorf("unexpected message: got %q, want %q", tt.err.Error(), tt.want)
		}
	}
}

func TestViolationError_Unwrap(t *testing.T) {
	err := NewViolationError(ErrInvalidCart, []string{"cart has no items"})
	wrapped := fmt.Errorf("validate cart: %w", err)

	if !errors.Is(wrapped, ErrInvalidCart) {
		t.Fatal("errors.Is must match the wrapped sentinel")
	}

	var ve *ViolationError
	if !errors.As(wrapped, &ve) {
		t.Fatal("errors.As must find the ViolationError")
	}
	if len(ve.Violations) != 1 || ve.Violations[0] != "cart has no items" {
		t.Fatalf("unexpected violations: %v", ve.Violations)
	}
}

func TestViolationError_Message(t *testing.T) {
	t.Run("with violations", func(t *testing.T) {
		err := NewViolationError(ErrInvalidSelection, []string{"a", "b"})
		if err.Error() != "invalid product selection: a; b" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})

	t.Run("without violations", func(t *testing.T) {
		err := NewViolationError(ErrInvalidCart, nil)
		if err.Error() != "invalid cart" {
			t.Fatalf("unexpected message: %q", err.Error())
		}
	})
}
