package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// DefaultCartTTL bounds how long a cart snapshot may be served from Redis.
const DefaultCartTTL = 30 * time.Minute

const cartKeyPrefix = "cart:customer"

// ErrMiss is returned by CartCache.Get when no snapshot is stored.
var ErrMiss = errors.New("cache miss")

// CachedLineItem is one line of a cached cart.
type CachedLineItem struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
	UnitValue decimal.Decimal `json:"unit_value"`
}

// CachedCart is the snapshot of a persisted cart. Totals are not cached;
// they are recomputed when the cart is rebuilt.
type CachedCart struct {
	ID         uuid.UUID        `json:"id"`
	CustomerID uuid.UUID        `json:"customer_id"`
	Items      []CachedLineItem `json:"items"`
}

// CartCache stores one JSON snapshot per customer under "cart:customer:{id}".
type CartCache struct {
	client *RedisClient
	ttl    time.Duration
}

// NewCartCache returns a CartCache with the given TTL, or DefaultCartTTL when ttl <= 0.
func NewCartCache(r *RedisClient, ttl time.Duration) *CartCache {
	if ttl <= 0 {
		ttl = DefaultCartTTL
	}
	return &CartCache{client: r, ttl: ttl}
}

// Get returns the snapshot for customerID, or ErrMiss.
func (c *CartCache) Get(ctx context.Context, customerID uuid.UUID) (*CachedCart, error) {
	raw, err := c.client.Client().Get(ctx, cartKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("cart cache get: %w", err)
	}

	var cart CachedCart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("cart cache decode: %w", err)
	}
	return &cart, nil
}

// Set overwrites the snapshot for cart.CustomerID.
func (c *CartCache) Set(ctx context.Context, cart *CachedCart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart cache encode: %w", err)
	}
	if err := c.client.Client().Set(ctx, cartKey(cart.CustomerID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cart cache set: %w", err)
	}
	return nil
}

// Delete drops the snapshot for customerID. Deleting a missing key is not an error.
func (c *CartCache) Delete(ctx context.Context, customerID uuid.UUID) error {
	if err := c.client.Client().Del(ctx, cartKey(customerID)).Err(); err != nil {
		return fmt.Errorf("cart cache delete: %w", err)
	}
	return nil
}

func cartKey(customerID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", cartKeyPrefix, customerID)
}
