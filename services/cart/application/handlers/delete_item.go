package handlers

import "net/http"

// DeleteItemHandler handles DELETE /cart/items/{productID}.
type DeleteItemHandler struct {
	svc CartService
}

// NewDeleteItemHandler returns a DeleteItemHandler backed by svc.
func NewDeleteItemHandler(svc CartService) *DeleteItemHandler {
	return &DeleteItemHandler{svc: svc}
}

// Execute removes a product from the cart.
//
//	@Summary		Remove item
//	@Tags			cart
//	@Produce		json
//	@Param			productID	path		string	true	"Product ID"	format(uuid)
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	errhttp.ErrorResponse
//	@Failure		401			{object}	errhttp.ErrorResponse
//	@Failure		404			{object}	errhttp.ErrorResponse
//	@Router			/cart/items/{productID} [delete]
func (h *DeleteItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	cart, err := h.svc.RemoveItem(r.Context(), customer, productID)
	writeCart(w, cart, err)
}
