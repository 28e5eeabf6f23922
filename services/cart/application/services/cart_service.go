package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/yoursneaker/storefront/pkg/cache"
	"github.com/yoursneaker/storefront/pkg/logger"
	cartdomain "github.com/yoursneaker/storefront/services/cart/domain"
	"github.com/yoursneaker/storefront/services/cart/domain/models"
	"github.com/yoursneaker/storefront/services/cart/domain/repositories"
	domainsvcs "github.com/yoursneaker/storefront/services/cart/domain/services"
)

const meterName = "github.com/yoursneaker/storefront/services/cart"

// ProductCatalog looks products up by ID. It returns ErrProductNotFound for
// unknown products.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*domainsvcs.Product, error)
}

// CartSnapshots is the read cache in front of the repository.
// *cache.CartCache implements it.
type CartSnapshots interface {
	Get(ctx context.Context, customerID uuid.UUID) (*cache.CachedCart, error)
	Set(ctx context.Context, cart *cache.CachedCart) error
	Delete(ctx context.Context, customerID uuid.UUID) error
}

// CartService orchestrates the customer's cart: catalog lookups and
// selection rules run before the aggregate is touched, and every change is
// saved through the repository, which publishes the cart events.
// Reads go through the snapshot cache when one is configured.
type CartService struct {
	repo      repositories.CartRepository
	catalog   ProductCatalog
	snapshots CartSnapshots
	log       logger.Logger

	itemsAdded       metric.Int64Counter
	itemsRemoved     metric.Int64Counter
	validationFailed metric.Int64Counter
}

// Option configures a CartService.
type Option func(*options)

type options struct {
	meterProvider metric.MeterProvider
}

// WithMeterProvider records metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) { o.meterProvider = mp }
}

// NewCartService wires the service. snapshots may be nil to disable caching.
func NewCartService(
	repo repositories.CartRepository,
	catalog ProductCatalog,
	snapshots CartSnapshots,
	log logger.Logger,
	opts ...Option,
) (*CartService, error) {
	o := options{meterProvider: otel.GetMeterProvider()}
	for _, opt := range opts {
		opt(&o)
	}
	meter := o.meterProvider.Meter(meterName)

	s := &CartService{repo: repo, catalog: catalog, snapshots: snapshots, log: log}

	var err error
	if s.itemsAdded, err = meter.Int64Counter("cart.items.added",
		metric.WithDescription("Units added to carts"), metric.WithUnit("{unit}")); err != nil {
		return nil, fmt.Errorf("cart.items.added counter: %w", err)
	}
	if s.itemsRemoved, err = meter.Int64Counter("cart.items.removed",
		metric.WithDescription("Units removed from carts"), metric.WithUnit("{unit}")); err != nil {
		return nil, fmt.Errorf("cart.items.removed counter: %w", err)
	}
	if s.validationFailed, err = meter.Int64Counter("cart.validation.failed",
		metric.WithDescription("Cart validations that reported violations")); err != nil {
		return nil, fmt.Errorf("cart.validation.failed counter: %w", err)
	}
	return s, nil
}

// Get returns the customer's cart. A customer without a stored cart gets a
// fresh empty one, which is not persisted.
func (s *CartService) Get(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	if cart, ok := s.fromCache(ctx, customerID); ok {
		return cart, nil
	}

	cart, err := s.repo.GetByCustomerID(ctx, customerID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return models.NewCart(customerID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	s.remember(ctx, cart)
	return cart, nil
}

// AddItem adds quantity units of productID, creating the cart on first use.
// A product already in the cart has its quantity increased. The returned
// cart carries a fresh validation snapshot; violations do not block the save.
func (s *CartService) AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	product, err := s.selectProduct(ctx, productID, quantity)
	if err != nil {
		return nil, err
	}

	cart, err := s.repo.GetByCustomerID(ctx, customerID)
	switch {
	case errors.Is(err, cartdomain.ErrCartNotFound):
		cart = models.NewCart(customerID)
	case err != nil:
		return nil, fmt.Errorf("load cart: %w", err)
	}

	cart.AddItem(domainsvcs.NewLineItemFromProduct(product, quantity))
	cart.IsValid()

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	s.itemsAdded.Add(ctx, int64(quantity))
	return cart, nil
}

// UpdateItem sets the quantity of a product already in the cart.
func (s *CartService) UpdateItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error) {
	if _, err := s.selectProduct(ctx, productID, quantity); err != nil {
		return nil, err
	}

	cart, item, err := s.loadItem(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}

	delta := quantity - item.Quantity
	cart.UpdateQuantity(&item, quantity)
	cart.IsValid()

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	switch {
	case delta > 0:
		s.itemsAdded.Add(ctx, int64(delta))
	case delta < 0:
		s.itemsRemoved.Add(ctx, int64(-delta))
	}
	return cart, nil
}

// RemoveItem drops productID from the cart. The product must still exist in
// the catalog.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*models.Cart, error) {
	_, err := s.catalog.GetProduct(ctx, productID)
	if errors.Is(err, cartdomain.ErrProductNotFound) {
		return nil, cartdomain.NewViolationError(cartdomain.ErrProductNotFound, domainsvcs.ValidateSelection(nil, 0))
	}
	if err != nil {
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	cart, item, err := s.loadItem(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}

	cart.RemoveItem(&item)
	cart.IsValid()

	if err := s.save(ctx, cart); err != nil {
		return nil, err
	}
	s.itemsRemoved.Add(ctx, int64(item.Quantity))
	return cart, nil
}

// Validate runs the cart rules. On violations it returns the cart together
// with a ViolationError wrapping ErrInvalidCart.
func (s *CartService) Validate(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cart.IsValid() {
		return cart, nil
	}

	s.validationFailed.Add(ctx, 1)
	return cart, cartdomain.NewViolationError(cartdomain.ErrInvalidCart, cart.ValidationResult().Messages())
}

// Refresh reloads the customer's cart from the repository into the cache.
func (s *CartService) Refresh(ctx context.Context, customerID uuid.UUID) error {
	if s.snapshots == nil {
		return nil
	}
	cart, err := s.repo.GetByCustomerID(ctx, customerID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return s.snapshots.Delete(ctx, customerID)
	}
	if err != nil {
		return fmt.Errorf("refresh cart: %w", err)
	}
	return s.snapshots.Set(ctx, toSnapshot(cart))
}

// Forget drops the cached cart of customerID.
func (s *CartService) Forget(ctx context.Context, customerID uuid.UUID) error {
	if s.snapshots == nil {
		return nil
	}
	return s.snapshots.Delete(ctx, customerID)
}

// Expire deletes a cart that has not been saved for idleFor. It reports
// whether the cart is gone, which includes a cart deleted earlier. A cart
// saved in the meantime is kept and Expire returns false.
func (s *CartService) Expire(ctx context.Context, cartID uuid.UUID, idleFor time.Duration) (bool, error) {
	cart, err := s.repo.GetByID(ctx, cartID)
	if errors.Is(err, cartdomain.ErrCartNotFound) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("load cart %s: %w", cartID, err)
	}

	deleted, err := s.repo.DeleteIdle(ctx, cartID, idleFor)
	switch {
	case errors.Is(err, cartdomain.ErrCartNotFound):
		return true, nil
	case err != nil:
		return false, fmt.Errorf("delete cart %s: %w", cartID, err)
	case !deleted:
		s.log.InfoContext(ctx, "cart touched before expiry, kept", "cart_id", cartID)
		return false, nil
	}
	s.invalidate(ctx, cart.CustomerID())

	s.log.InfoContext(ctx, "cart expired", "cart_id", cartID, "customer_id", cart.CustomerID(), "items", cart.Len())
	return true, nil
}

// selectProduct fetches the product and applies the selection rules.
func (s *CartService) selectProduct(ctx context.Context, productID uuid.UUID, quantity int) (*domainsvcs.Product, error) {
	product, err := s.catalog.GetProduct(ctx, productID)
	if errors.Is(err, cartdomain.ErrProductNotFound) {
		return nil, cartdomain.NewViolationError(cartdomain.ErrProductNotFound, domainsvcs.ValidateSelection(nil, quantity))
	}
	if err != nil {
		return nil, fmt.Errorf("lookup product: %w", err)
	}

	if violations := domainsvcs.ValidateSelection(product, quantity); len(violations) > 0 {
		return nil, cartdomain.NewViolationError(cartdomain.ErrInvalidSelection, violations)
	}
	return product, nil
}

func (s *CartService) loadItem(ctx context.Context, customerID, productID uuid.UUID) (*models.Cart, models.LineItem, error) {
	cart, err := s.repo.GetByCustomerID(ctx, customerID)
	if err != nil {
		return nil, models.LineItem{}, fmt.Errorf("load cart: %w", err)
	}
	item, ok := cart.FindItemByProductID(productID)
	if !ok {
		return nil, models.LineItem{}, cartdomain.ErrItemNotFound
	}
	return cart, item, nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart) error {
	if err := s.repo.Save(ctx, cart); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	s.invalidate(ctx, cart.CustomerID())
	return nil
}

func (s *CartService) fromCache(ctx context.Context, customerID uuid.UUID) (*models.Cart, bool) {
	if s.snapshots == nil {
		return nil, false
	}
	snap, err := s.snapshots.Get(ctx, customerID)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			s.log.WarnContext(ctx, "cart cache read failed", "customer_id", customerID, "error", err)
		}
		return nil, false
	}
	return fromSnapshot(snap), true
}

func (s *CartService) remember(ctx context.Context, cart *models.Cart) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Set(ctx, toSnapshot(cart)); err != nil {
		s.log.WarnContext(ctx, "cart cache write failed", "cart_id", cart.ID(), "error", err)
	}
}

func (s *CartService) invalidate(ctx context.Context, customerID uuid.UUID) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Delete(ctx, customerID); err != nil {
		s.log.WarnContext(ctx, "cart cache invalidation failed", "customer_id", customerID, "error", err)
	}
}

func toSnapshot(cart *models.Cart) *cache.CachedCart {
	items := cart.Items()
	out := &cache.CachedCart{
		ID:         cart.ID(),
		CustomerID: cart.CustomerID(),
		Items:      make([]cache.CachedLineItem, 0, len(items)),
	}
	for _, it := range items {
		out.Items = append(out.Items, cache.CachedLineItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Quantity,
			UnitValue: it.UnitValue,
		})
	}
	return out
}

func fromSnapshot(snap *cache.CachedCart) *models.Cart {
	items := make([]models.LineItem, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, *models.NewLineItem(it.ProductID, it.Name, it.Image, it.Quantity, it.UnitValue))
	}
	return models.RehydrateCart(snap.ID, snap.CustomerID, items)
}
