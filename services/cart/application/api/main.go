package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yoursneaker/storefront/pkg/app"
	"github.com/yoursneaker/storefront/pkg/auth"
	"github.com/yoursneaker/storefront/services/cart/application/handlers"
	appsvcs "github.com/yoursneaker/storefront/services/cart/application/services"
)

// CartRoutes registers the cart endpoints on r behind session authentication.
func CartRoutes(r chi.Router, a *app.Application) error {
	svcs, err := appsvcs.New(a)
	if err != nil {
		return fmt.Errorf("cart routes: %w", err)
	}
	Routes(r, svcs.Cart, auth.RequireAuth(a.SessionStore, a.Logger))
	return nil
}

// Routes mounts /cart with svc, applying mws to every cart endpoint.
func Routes(r chi.Router, svc handlers.CartService, mws ...func(http.Handler) http.Handler) {
	r.Route("/cart", func(r chi.Router) {
		r.Use(mws...)
		r.Get("/", handlers.NewGetCartHandler(svc).Execute)
		r.Post("/items", handlers.NewPostItemHandler(svc).Execute)
		r.Put("/items/{productID}", handlers.NewPutItemHandler(svc).Execute)
		r.Delete("/items/{productID}", handlers.NewDeleteItemHandler(svc).Execute)
		r.Post("/validate", handlers.NewValidateCartHandler(svc).Execute)
	})
}
