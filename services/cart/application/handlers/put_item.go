package handlers

import (
	"net/http"

	pkgvalidator "github.com/yoursneaker/storefront/pkg/validator"
)

// UpdateItemRequest is the request body for PUT /cart/items/{productID}.
type UpdateItemRequest struct {
	Quantity int `json:"quantity" example:"3"`
} // @name UpdateItemRequest

// PutItemHandler handles PUT /cart/items/{productID}.
type PutItemHandler struct {
	svc CartService
}

// NewPutItemHandler returns a PutItemHandler backed by svc.
func NewPutItemHandler(svc CartService) *PutItemHandler {
	return &PutItemHandler{svc: svc}
}

// Execute sets the quantity of a product already in the cart.
//
//	@Summary		Update item quantity
//	@Tags			cart
//	@Accept			json
//	@Produce		json
//	@Param			productID	path		string				true	"Product ID"	format(uuid)
//	@Param			request		body		UpdateItemRequest	true	"New quantity"
//	@Success		200			{object}	CartResponse
//	@Failure		400			{object}	errhttp.ErrorResponse
//	@Failure		401			{object}	errhttp.ErrorResponse
//	@Failure		404			{object}	errhttp.ErrorResponse
//	@Failure		422			{object}	errhttp.ErrorResponse
//	@Router			/cart/items/{productID} [put]
func (h *PutItemHandler) Execute(w http.ResponseWriter, r *http.Request) {
	customer, ok := customerID(w, r)
	if !ok {
		return
	}
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.DecodeJSON[UpdateItemRequest](w, r)
	if !ok {
		return
	}

	cart, err := h.svc.UpdateItem(r.Context(), customer, productID, req.Quantity)
	writeCart(w, cart, err)
}
