// Package errhttp turns cart errors into HTTP responses.
package errhttp

import (
	"errors"
	"net/http"

	"github.com/yoursneaker/storefront/pkg/auth"
	"github.com/yoursneaker/storefront/pkg/httpx"
	cartdomain "github.com/yoursneaker/storefront/services/cart/domain"
)

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error      string   `json:"error" example:"invalid product selection"`
	Violations []string `json:"violations,omitempty"`
}

// WriteError writes err with the status it maps to. Messages of unmapped
// errors are not sent to the client.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	resp := ErrorResponse{Error: err.Error()}

	var ve *cartdomain.ViolationError
	if errors.As(err, &ve) {
		resp.Error = ve.Err.Error()
		resp.Violations = ve.Violations
	}
	if status == http.StatusInternalServerError {
		resp = ErrorResponse{Error: http.StatusText(status)}
	}

	httpx.JSON(w, status, resp)
}

// StatusOf maps err to an HTTP status using errors.Is, so wrapped errors match.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, auth.ErrNoCustomer):
		return http.StatusUnauthorized
	case errors.Is(err, cartdomain.ErrCartNotFound),
		errors.Is(err, cartdomain.ErrItemNotFound),
		errors.Is(err, cartdomain.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, cartdomain.ErrCartAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, cartdomain.ErrInvalidSelection),
		errors.Is(err, cartdomain.ErrInvalidCart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
