package handlers

import "net/http"

// ValidateCartHandler handles POST /cart/validate.
type ValidateCartHandler struct {
	svc CartService
}

// NewValidateCartHandler returns a ValidateCartHandler backed by svc.
func NewValidateCartHandler(svc CartService) *ValidateCartHandler {
	return &ValidateCartHandler{svc: svc}
}

// Execute checks the cart against its business rules, typically before checkout.
//
//	@Summary		Validate cart
//	@Description	Runs the cart rules; a 422 lists every violation
//	@Tags			cart
//	@Produce		json
//	@Success		200	{object}	CartResponse
//	@Failure		401	{object}	errhttp.ErrorResponse
//	@Failure		422	{object}	errhttp.ErrorResponse
//	@Router			/cart/validate [post]
func (h *ValidateCartHandler) Execute(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	cart, err := h.svc.Validate(r.Context(), customer)
	writeCart(w, cart, err)
}
