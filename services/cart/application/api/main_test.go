package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoursneaker/storefront/pkg/auth"
	"github.com/yoursneaker/storefront/pkg/errhttp"
	"github.com/yoursneaker/storefront/pkg/logger"
	"github.com/yoursneaker/storefront/services/cart/application/handlers"
	cartdomain "github.com/yoursneaker/storefront/services/cart/domain"
	"github.com/yoursneaker/storefront/services/cart/domain/models"
)

type call struct {
	op        string
	customer  uuid.UUID
	productID uuid.UUID
	quantity  int
}

// stubService records calls and answers with cart or err.
type stubService struct {
	calls []call
	cart  *models.Cart
	err   error
}

func (s *stubService) record(c call) (*models.Cart, error) {
	s.calls = append(s.calls, c)
	if s.err != nil {
		return s.cart, s.err
	}
	return s.cart, nil
}

func (s *stubService) Get(_ context.Context, customer uuid.UUID) (*models.Cart, error) {
	return s.record(call{op: "get", customer: customer})
}

func (s *stubService) AddItem(_ context.Context, customer, productID uuid.UUID, quantity int) (*models.Cart, error) {
	return s.record(call{op: "add", customer: customer, productID: productID, quantity: quantity})
}

func (s *stubService) UpdateItem(_ context.Context, customer, productID uuid.UUID, quantity int) (*models.Cart, error) {
	return s.record(call{op: "update", customer: customer, productID: productID, quantity: quantity})
}

func (s *stubService) RemoveItem(_ context.Context, customer, productID uuid.UUID) (*models.Cart, error) {
	return s.record(call{op: "remove", customer: customer, productID: productID})
}

func (s *stubService) Validate(_ context.Context, customer uuid.UUID) (*models.Cart, error) {
	return s.record(call{op: "validate", customer: customer})
}

var _ handlers.CartService = (*stubService)(nil)

type harness struct {
	router   http.Handler
	store    sessions.Store
	svc      *stubService
	customer uuid.UUID
	cookies  []*http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		store: sessions.NewCookieStore(
			[]byte("test-auth-key-must-be-32-bytes!!"),
			[]byte("test-enc-key-must-be-32-bytes!!!"),
		),
		customer: uuid.New(),
	}

	cart := models.NewCart(h.customer)
	cart.AddItem(models.NewLineItem(uuid.New(), "Court Classic", "court.png", 2, decimal.RequireFromString("60")))
	h.svc = &stubService{cart: cart}

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		Routes(r, h.svc, auth.RequireAuth(h.store, logger.Discard()))
	})
	h.router = r

	// Log the customer in by minting a session cookie.
	w := httptest.NewRecorder()
	seed := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	session, err := h.store.Get(seed, auth.SessionName)
	require.NoError(t, err)
	session.Values[auth.SessionCustomerKey] = h.customer.String()
	require.NoError(t, session.Save(seed, w))
	h.cookies = w.Result().Cookies()
	return h
}

func (h *harness) do(method, path, body string, authenticated bool) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, http.NoBody)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		for _, c := range h.cookies {
			req.AddCookie(c)
		}
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func TestRoutes_Success(t *testing.T) {
	productID := uuid.New()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   call
	}{
		{"get cart", http.MethodGet, "/api/cart", "", call{op: "get"}},
		{"add item", http.MethodPost, "/api/cart/items", `{"product_id":"` + productID.String() + `","quantity":2}`,
			call{op: "add", productID: productID, quantity: 2}},
		{"update item", http.MethodPut, "/api/cart/items/" + productID.String(), `{"quantity":5}`,
			call{op: "update", productID: productID, quantity: 5}},
		{"remove item", http.MethodDelete, "/api/cart/items/" + productID.String(), "",
			call{op: "remove", productID: productID}},
		{"validate", http.MethodPost, "/api/cart/validate", "", call{op: "validate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			w := h.do(tt.method, tt.path, tt.body, true)

			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			want := tt.want
			want.customer = h.customer
			assert.Equal(t, []call{want}, h.svc.calls)

			var body handlers.CartResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, h.svc.cart.ID(), body.ID)
			assert.Equal(t, "120.00", body.TotalValue)
			require.Len(t, body.Items, 1)
			assert.Equal(t, "Court Classic", body.Items[0].Name)
		})
	}
}

func TestRoutes_Unauthenticated(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/cart", "", false)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"authentication required"}`, w.Body.String())
	assert.Empty(t, h.svc.calls)
}

func TestRoutes_BadRequests(t *testing.T) {
	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"malformed json", http.MethodPost, "/api/cart/items", `{"product_id":`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/api/cart/items", `{"product_id":"` + uuid.NewString() + `","qty":1}`, http.StatusBadRequest},
		{"missing product id", http.MethodPost, "/api/cart/items", `{"quantity":1}`, http.StatusUnprocessableEntity},
		{"product id not a uuid", http.MethodPost, "/api/cart/items", `{"product_id":"sneaker","quantity":1}`, http.StatusUnprocessableEntity},
		{"path id not a uuid", http.MethodPut, "/api/cart/items/sneaker", `{"quantity":1}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			w := h.do(tt.method, tt.path, tt.body, true)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
			assert.Empty(t, h.svc.calls)
		})
	}
}

func TestRoutes_DomainErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   errhttp.ErrorResponse
	}{
		{
			"selection rejected",
			cartdomain.NewViolationError(cartdomain.ErrInvalidSelection, []string{"Court Classic has only 1 units in stock, you tried to add 2"}),
			http.StatusUnprocessableEntity,
			errhttp.ErrorResponse{Error: "invalid product selection", Violations: []string{"Court Classic has only 1 units in stock, you tried to add 2"}},
		},
		{
			"unknown product",
			cartdomain.NewViolationError(cartdomain.ErrProductNotFound, []string{"product does not exist"}),
			http.StatusNotFound,
			errhttp.ErrorResponse{Error: "product not found", Violations: []string{"product does not exist"}},
		},
		{
			"item not in cart",
			cartdomain.ErrItemNotFound,
			http.StatusNotFound,
			errhttp.ErrorResponse{Error: "item not found in cart"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.svc.err = tt.err

			w := h.do(http.MethodPost, "/api/cart/items", `{"product_id":"`+uuid.NewString()+`","quantity":2}`, true)

			require.Equal(t, tt.status, w.Code)
			var got errhttp.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRoutes_ValidateReportsViolations(t *testing.T) {
	h := newHarness(t)
	h.svc.cart = models.NewCart(h.customer)
	h.svc.err = cartdomain.NewViolationError(cartdomain.ErrInvalidCart, []string{"cart has no items", "cart total must be greater than 0"})

	w := h.do(http.MethodPost, "/api/cart/validate", "", true)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t,
		`{"error":"invalid cart","violations":["cart has no items","cart total must be greater than 0"]}`,
		w.Body.String(),
	)
}
