package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yoursneaker/storefront/services/cart/domain/models"
)

// CartRepository is the persistence interface for the Cart aggregate.
// The domain layer owns this interface; infrastructure implements it.
type CartRepository interface {
	// GetByCustomerID returns the customer's cart or ErrCartNotFound.
	GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)

	// Save inserts or updates the cart and replaces its items.
	Save(ctx context.Context, cart *models.Cart) error

	// Delete removes the cart and its items. Returns ErrCartNotFound if absent.
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteIdle removes the cart only if it was not saved during the last
	// idleFor. It reports false when the cart was kept and ErrCartNotFound
	// when there is no such cart.
	DeleteIdle(ctx context.Context, id uuid.UUID, idleFor time.Duration) (bool, error)
}
