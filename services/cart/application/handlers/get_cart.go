package handlers

import "net/http"

// GetCartHandler handles GET /cart.
type GetCartHandler struct {
	svc CartService
}

// NewGetCartHandler returns a GetCartHandler backed by svc.
func NewGetCartHandler(svc CartService) *GetCartHandler {
	return &GetCartHandler{svc: svc}
}

// Execute returns the customer's cart, empty when nothing was added yet.
//
//	@Summary		Get cart
//	@Description	Returns the authenticated customer's cart
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	CartResponse
//	@Failure		401	{object}	errhttp.ErrorResponse
//	@Router			/cart [get]
func (h *GetCartHandler) Execute(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	cart, err := h.svc.Get(r.Context(), customer)
	writeCart(w, cart, err)
}
