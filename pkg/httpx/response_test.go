package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yoursneaker/storefront/pkg/httpx"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   any
		want   string
	}{
		{"cart view", http.StatusOK, map[string]any{"total_value": "59.97", "items": []string{}}, `{"total_value":"59.97","items":[]}`},
		{"nil slice encodes null", http.StatusOK, struct {
			Errors []string `json:"errors"`
		}{}, `{"errors":null}`},
		{"error status keeps body", http.StatusConflict, map[string]string{"error": "cart already exists"}, `{"error":"cart already exists"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			httpx.JSON(w, tt.status, tt.body)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))
			assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
			assert.JSONEq(t, tt.want, w.Body.String())
		})
	}
}

func TestJSON_UnencodableBodyKeepsStatus(t *testing.T) {
	w := httptest.NewRecorder()

	httpx.JSON(w, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJSONError(t *testing.T) {
	w := httptest.NewRecorder()

	httpx.JSONError(w, http.StatusBadRequest, "invalid product id")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"invalid product id"}`, w.Body.String())
}
