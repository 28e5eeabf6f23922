// Package handlers exposes the cart over HTTP. Every handler acts on the
// cart of the customer authenticated by the session.
package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/yoursneaker/storefront/pkg/auth"
	"github.com/yoursneaker/storefront/pkg/errhttp"
	"github.com/yoursneaker/storefront/pkg/httpx"
	"github.com/yoursneaker/storefront/services/cart/domain/models"
)

// CartService is the application service behind the handlers.
// *services.CartService implements it.
type CartService interface {
	Get(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
	AddItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error)
	UpdateItem(ctx context.Context, customerID, productID uuid.UUID, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*models.Cart, error)
	Validate(ctx context.Context, customerID uuid.UUID) (*models.Cart, error)
}

// CartItemResponse is one line of a cart.
type CartItemResponse struct {
	ProductID uuid.UUID `json:"product_id" example:"7d9f3c1e-2b4a-4c6d-8e0f-1a2b3c4d5e6f"`
	Name      string    `json:"name"       example:"Air Runner"`
	Image     string    `json:"image"      example:"air-runner.png"`
	Quantity  int       `json:"quantity"   example:"2"`
	UnitValue string    `json:"unit_value" example:"129.90"`
	Subtotal  string    `json:"subtotal"   example:"259.80"`
} // @name CartItemResponse

// CartResponse is the cart view returned by every cart endpoint.
// Errors holds the violations found by the last validation of the cart.
type CartResponse struct {
	ID         uuid.UUID          `json:"id"          example:"123e4567-e89b-12d3-a456-426614174000"`
	CustomerID uuid.UUID          `json:"customer_id" example:"550e8400-e29b-41d4-a716-446655440000"`
	TotalValue string             `json:"total_value" example:"259.80"`
	Items      []CartItemResponse `json:"items"`
	Errors     []string           `json:"errors"`
} // @name CartResponse

// NewCartResponse renders cart. Money is formatted with two decimals.
func NewCartResponse(cart *models.Cart) CartResponse {
	items := cart.Items()
	resp := CartResponse{
		ID:         cart.ID(),
		CustomerID: cart.CustomerID(),
		TotalValue: cart.TotalValue().StringFixed(2),
		Items:      make([]CartItemResponse, 0, len(items)),
		Errors:     cart.ValidationResult().Messages(),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, CartItemResponse{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Quantity:  it.Quantity,
			UnitValue: it.UnitValue.StringFixed(2),
			Subtotal:  it.Subtotal().StringFixed(2),
		})
	}
	return resp
}

// customerID writes 401 and returns false when the request is anonymous.
func customerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := auth.CustomerIDFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, err)
		return uuid.Nil, false
	}
	return id, true
}

// productIDParam parses {productID} from the path and writes 400 when it is malformed.
func productIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "productID"))
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid product id")
		return uuid.Nil, false
	}
	return id, true
}

func writeCart(w http.ResponseWriter, cart *models.Cart, err error) {
	if err != nil {
		errhttp.WriteError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, NewCartResponse(cart))
}
