package handlers

import (
	"net/http"

	"github.com/google/uuid"

	pkgvalidator "github.com/yoursneaker/storefront/pkg/validator"
)

// AddItemRequest is the request body for POST /cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid" example:"7d9f3c1e-2b4a-4c6d-8e0f-1a2b3c4d5e6f"`
	Quantity  int    `json:"quantity"                            example:"1"`
} // @name AddItemRequest

// PostItemHandler handles POST /cart/items.
type PostItemHandler struct {
	svc CartService
}

// NewPostItemHandler returns a PostItemHandler backed by svc.
func NewPostItemHandler(svc CartService) *PostItemHandler {
	return &PostItemHandler{svc: svc}
}

// Execute adds a product to the cart. Adding a product already in the cart
// increases its quantity.
//
//	@Summary		Add item
//	@Description	Adds units of a catalog product to the customer's cart
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			request	body		AddItemRequest	true	"Product and quantity"
//	@Success		200		{object}	CartResponse
//	@Failure		400		{object}	errhttp.ErrorResponse
//	@Failure		401		{object}	errhttp.ErrorResponse
//	@Failure		404		{object}	errhttp.ErrorResponse
//	@Failure		422		{object}	errhttp.ErrorResponse
//	@Router			/cart/items [post]
func (h *PostItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.DecodeJSON[AddItemRequest](w, r)
	if !ok {
		return
	}

	cart, err := h.svc.AddItem(r.Context(), customer, uuid.MustParse(req.ProductID), req.Quantity)
	writeCart(w, cart, err)
}
