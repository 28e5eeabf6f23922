package services

import (
	"fmt"

	"github.com/yoursneaker/storefront/pkg/app"
	"github.com/yoursneaker/storefront/pkg/cache"
	"github.com/yoursneaker/storefront/services/cart/infrastructure/catalog"
	"github.com/yoursneaker/storefront/services/cart/infrastructure/persistence/postgres"
)

// Services is the application-layer service container for the cart context.
type Services struct {
	Cart *CartService
}

// New wires the cart services with infrastructure from the Application container.
func New(a *app.Application) (*Services, error) {
	repo := postgres.NewCartRepository(a.Db, a.EventBus)
	products := catalog.NewClient(a.Config.CatalogURL, a.Config.CatalogTimeout)

	var snapshots CartSnapshots
	if a.Redis != nil {
		snapshots = cache.NewCartCache(a.Redis, cache.DefaultCartTTL)
	}

	cart, err := NewCartService(repo, products, snapshots, a.Logger.With("service", "cart"))
	if err != nil {
		return nil, fmt.Errorf("cart service: %w", err)
	}
	return &Services{Cart: cart}, nil
}
