package validator_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yoursneaker/storefront/pkg/httpx"
	"github.com/yoursneaker/storefront/pkg/validator"
)

type addItemReq struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"`
	Note      string `json:"note,omitempty" validate:"max=5"`
}

func TestFieldErrors(t *testing.T) {
	tests := []struct {
		name string
		in   addItemReq
		want map[string]string
	}{
		{"valid", addItemReq{ProductID: "550e8400-e29b-41d4-a716-446655440000"}, map[string]string{}},
		{"missing product", addItemReq{}, map[string]string{"product_id": "is required"}},
		{"bad uuid", addItemReq{ProductID: "abc"}, map[string]string{"product_id": "must be a valid UUID"}},
		{
			"long note",
			addItemReq{ProductID: "550e8400-e29b-41d4-a716-446655440000", Note: "gift wrap"},
			map[string]string{"note": "must have at most 5 characters"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, validator.FieldErrors(validator.Validate(&tt.in)))
		})
	}
}

func TestFieldErrors_OtherError(t *testing.T) {
	assert.Empty(t, validator.FieldErrors(errors.New("boom")))
}

func decodeRequest(body string) (*httptest.ResponseRecorder, *addItemReq, bool) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/cart/items", strings.NewReader(body))
	req, ok := validator.DecodeJSON[addItemReq](w, r)
	return w, req, ok
}

func TestDecodeJSON_Valid(t *testing.T) {
	_, req, ok := decodeRequest(`{"product_id":"550e8400-e29b-41d4-a716-446655440000","quantity":2}`)

	require.True(t, ok)
	assert.Equal(t, 2, req.Quantity)
}

func TestDecodeJSON_Rejects(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"malformed", `{"product_id":`, http.StatusBadRequest},
		{"unknown field", `{"product_id":"550e8400-e29b-41d4-a716-446655440000","price":1}`, http.StatusBadRequest},
		{"wrong type", `{"product_id":"550e8400-e29b-41d4-a716-446655440000","quantity":"two"}`, http.StatusBadRequest},
		{"invalid field", `{"product_id":"nope","quantity":1}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _, ok := decodeRequest(tt.body)
			require.False(t, ok)
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestDecodeJSON_FieldsBody(t *testing.T) {
	w, _, _ := decodeRequest(`{"quantity":1}`)

	var body validator.FieldsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validation failed", body.Error)
	assert.Equal(t, map[string]string{"product_id": "is required"}, body.Fields)
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"product_id":"`+strings.Repeat("a", 64)+`"}`))
	h := httpx.RequestBodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		validator.DecodeJSON[addItemReq](w, r)
	}))

	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
