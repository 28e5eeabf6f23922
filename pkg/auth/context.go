package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

type ctxKey struct{}

// ErrNoCustomer means the request carries no authenticated customer.
var ErrNoCustomer = errors.New("no customer in context")

// CustomerIDFromCtx returns the customer set by RequireAuth.
func CustomerIDFromCtx(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, ErrNoCustomer
	}
	return id, nil
}

// WithCustomerID attaches customerID to ctx.
func WithCustomerID(ctx context.Context, customerID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, customerID)
}
