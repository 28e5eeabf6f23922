package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoursneaker/storefront/pkg/auth"
	cartdomain "github.com/yoursneaker/storefront/services/cart/domain"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"no customer", auth.ErrNoCustomer, http.StatusUnauthorized},
		{"cart not found", cartdomain.ErrCartNotFound, http.StatusNotFound},
		{"item not found", fmt.Errorf("remove: %w", cartdomain.ErrItemNotFound), http.StatusNotFound},
		{"product not found", cartdomain.ErrProductNotFound, http.StatusNotFound},
		{"cart exists", cartdomain.ErrCartAlreadyExists, http.StatusConflict},
		{"invalid selection", cartdomain.NewViolationError(cartdomain.ErrInvalidSelection, []string{"x"}), http.StatusUnprocessableEntity},
		{"invalid cart", fmt.Errorf("validate: %w", cartdomain.NewViolationError(cartdomain.ErrInvalidCart, nil)), http.StatusUnprocessableEntity},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusOf(tt.err))
		})
	}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestWriteError_Violations(t *testing.T) {
	w := httptest.NewRecorder()
	err := cartdomain.NewViolationError(cartdomain.ErrInvalidCart, []string{"cart has no items", "cart total must be greater than 0"})

	WriteError(w, fmt.Errorf("validate cart: %w", err))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	body := decode(t, w)
	assert.Equal(t, "invalid cart", body.Error)
	assert.Equal(t, []string{"cart has no items", "cart total must be greater than 0"}, body.Violations)
}

func TestWriteError_PlainSentinel(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, cartdomain.ErrCartNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"cart not found"}`, w.Body.String())
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, errors.New(`pq: relation "cart.carts" does not exist`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal Server Error", decode(t, w).Error)
}
