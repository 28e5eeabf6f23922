// Package postgres persists carts in the cart schema and publishes their
// domain events through the outbox in the same transaction.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/yoursneaker/storefront/pkg/database"
	cartdomain "github.com/yoursneaker/storefront/services/cart/domain"
	domainevents "github.com/yoursneaker/storefront/services/cart/domain/events"
	"github.com/yoursneaker/storefront/services/cart/domain/models"
	"github.com/yoursneaker/storefront/services/cart/domain/repositories"
	"github.com/yoursneaker/storefront/services/cart/infrastructure/persistence/postgres/db"
)

const uniqueViolation = "23505"

// TxPublisher writes an event inside a database transaction.
// *events.Bus implements it.
type TxPublisher interface {
	PublishInTx(ctx context.Context, tx *sql.Tx, topic, eventID string, version int, payload any) error
}

// CartRepository implements repositories.CartRepository.
type CartRepository struct {
	db  *database.Database
	pub TxPublisher
	now func() time.Time
}

var _ repositories.CartRepository = (*CartRepository)(nil)

// NewCartRepository returns a repository on database. A nil pub disables
// event publishing.
func NewCartRepository(database *database.Database, pub TxPublisher) *CartRepository {
	return &CartRepository{db: database, pub: pub, now: time.Now}
}

// GetByCustomerID loads the customer's cart with its items in order.
func (r *CartRepository) GetByCustomerID(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	q := db.New(r.db.DB())
	row, err := q.GetCartByCustomerID(ctx, customerID)
	if err != nil {
		return nil, notFound(err, "get cart by customer")
	}
	return r.load(ctx, q, row)
}

// GetByID loads a cart by its ID.
func (r *CartRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Cart, error) {
	q := db.New(r.db.DB())
	row, err := q.GetCartByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "get cart")
	}
	return r.load(ctx, q, row)
}

// Save upserts the cart row, rewrites its items in cart order and publishes
// cart.updated, all in one transaction. A second cart for the same customer
// fails with ErrCartAlreadyExists.
func (r *CartRepository) Save(ctx context.Context, cart *models.Cart) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)

		if err := q.UpsertCart(ctx, db.UpsertCartParams{
			ID:         cart.ID(),
			CustomerID: cart.CustomerID(),
			TotalValue: cart.TotalValue(),
		}); err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return cartdomain.ErrCartAlreadyExists
			}
			return fmt.Errorf("upsert cart: %w", err)
		}

		if err := q.DeleteCartItems(ctx, cart.ID()); err != nil {
			return fmt.Errorf("clear cart items: %w", err)
		}
		for pos, item := range cart.Items() {
			if err := q.InsertCartItem(ctx, db.InsertCartItemParams{
				CartID:    cart.ID(),
				ProductID: item.ProductID,
				Name:      item.Name,
				Image:     item.Image,
				Quantity:  int32(item.Quantity), //nolint:gosec // quantities are far below int32 range
				UnitValue: item.UnitValue,
				Position:  int32(pos), //nolint:gosec
			}); err != nil {
				return fmt.Errorf("insert cart item %s: %w", item.ProductID, err)
			}
		}

		if r.pub == nil {
			return nil
		}
		evt := domainevents.CartUpdatedEvent{
			EventID:    uuid.New(),
			Version:    1,
			CartID:     cart.ID(),
			CustomerID: cart.CustomerID(),
			ItemCount:  cart.Len(),
			TotalValue: cart.TotalValue().StringFixed(2),
			OccurredAt: r.now().UTC(),
		}
		if err := r.pub.PublishInTx(ctx, tx, domainevents.TopicCartUpdated, evt.EventID.String(), evt.Version, evt); err != nil {
			return fmt.Errorf("publish cart updated: %w", err)
		}
		return nil
	})
}

// Delete removes the cart (items cascade) and publishes cart.deleted.
func (r *CartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		customerID, err := db.New(tx).DeleteCart(ctx, id)
		if err != nil {
			return notFound(err, "delete cart")
		}
		return r.publishDeleted(ctx, tx, id, customerID)
	})
}

// DeleteIdle deletes the cart only when its last save is at least idleFor
// old by the database clock, so a save racing the expiry keeps the cart.
func (r *CartRepository) DeleteIdle(ctx context.Context, id uuid.UUID, idleFor time.Duration) (bool, error) {
	deleted := false
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		customerID, err := q.DeleteIdleCart(ctx, db.DeleteIdleCartParams{
			ID:          id,
			IdleSeconds: idleFor.Seconds(),
		})
		if errors.Is(err, sql.ErrNoRows) {
			// Either recently saved or gone.
			if _, err := q.GetCartByID(ctx, id); err != nil {
				return notFound(err, "get idle cart")
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("delete idle cart: %w", err)
		}
		deleted = true
		return r.publishDeleted(ctx, tx, id, customerID)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (r *CartRepository) publishDeleted(ctx context.Context, tx *sql.Tx, id, customerID uuid.UUID) error {
	if r.pub == nil {
		return nil
	}
	evt := domainevents.CartDeletedEvent{
		EventID:    uuid.New(),
		Version:    1,
		CartID:     id,
		CustomerID: customerID,
		OccurredAt: r.now().UTC(),
	}
	if err := r.pub.PublishInTx(ctx, tx, domainevents.TopicCartDeleted, evt.EventID.String(), evt.Version, evt); err != nil {
		return fmt.Errorf("publish cart deleted: %w", err)
	}
	return nil
}

func (r *CartRepository) load(ctx context.Context, q *db.Queries, row db.CartCart) (*models.Cart, error) {
	rows, err := q.ListCartItems(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}

	items := make([]models.LineItem, len(rows))
	for i, it := range rows {
		items[i] = models.LineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  int(it.Quantity),
			UnitValue: it.UnitValue,
		}
	}
	return models.RehydrateCart(row.ID, row.CustomerID, items), nil
}

func notFound(err error, op string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return cartdomain.ErrCartNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
