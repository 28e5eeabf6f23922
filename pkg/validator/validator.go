// Package validator checks the shape of HTTP request bodies with
// go-playground/validator. Business rules live in the domain, not here.
package validator

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yoursneaker/storefront/pkg/httpx"
)

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names so errors match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// FieldsResponse is the 422 body for a request that failed shape validation.
type FieldsResponse struct {
	Error  string            `json:"error" example:"validation failed"`
	Fields map[string]string `json:"fields"`
}

// Validate runs the struct's validate tags.
func Validate(s any) error {
	return validate.Struct(s)
}

// FieldErrors maps each failing field to a readable message. It returns an
// empty map for errors that are not validation errors.
func FieldErrors(err error) map[string]string {
	out := make(map[string]string)
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return out
	}
	for _, fe := range ve {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s characters", fe.Param())
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}

// DecodeJSON decodes the body into T and validates it. On failure it writes
// 400 for malformed JSON, 413 for an oversized body or 422 for invalid
// fields, and returns false.
func DecodeJSON[T any](w http.ResponseWriter, r *http.Request) (*T, bool) {
	var req T
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpx.JSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return nil, false
		}
		httpx.JSONError(w, http.StatusBadRequest, "invalid JSON body")
		return nil, false
	}

	if err := Validate(&req); err != nil {
		httpx.JSON(w, http.StatusUnprocessableEntity, FieldsResponse{
			Error:  "validation failed",
			Fields: FieldErrors(err),
		})
		return nil, false
	}
	return &req, true
}
