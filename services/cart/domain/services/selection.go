// Package services contains stateless domain services for the cart bounded context.
// They operate on domain types only and have no infrastructure dependencies.
package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yoursneaker/storefront/services/cart/domain/models"
)

// Product is the catalog's view of a sellable product, as needed by the cart.
type Product struct {
	ID    uuid.UUID
	Name  string
	Image string
	Value decimal.Decimal
	Stock int
}

// ValidateSelection checks a product/quantity pair before it reaches a cart.
// A nil product means the catalog did not return one. All checks run and
// every violation is returned.
func ValidateSelection(product *Product, quantity int) []string {
	if product == nil {
		return []string{"product does not exist"}
	}

	var violations []string
	if quantity < 1 {
		violations = append(violations, fmt.Sprintf("you must choose at least one unit of %s", product.Name))
	}
	if quantity > product.Stock {
		violations = append(violations, fmt.Sprintf(
			"%s has only %d units in stock, you tried to add %d",
			product.Name, product.Stock, quantity,
		))
	}
	return violations
}

// PriceScale is the number of decimal places a unit price is kept with.
// It matches the numeric(12,2) columns the cart is stored in.
const PriceScale = 2

// NewLineItemFromProduct copies the catalog data the cart keeps into a
// detached line item. The price is rounded to PriceScale so a cart totals
// the same before and after it is stored.
func NewLineItemFromProduct(product *Product, quantity int) *models.LineItem {
	return models.NewLineItem(product.ID, product.Name, product.Image, quantity, product.Value.Round(PriceScale))
}
