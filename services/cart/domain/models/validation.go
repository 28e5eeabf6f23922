package models

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidationError is a single broken business rule.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidationResult is the list of broken rules produced by Cart.IsValid.
type ValidationResult struct {
	Errors []ValidationError
}

// IsValid reports whether no rule was broken.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

// Messages returns the human-readable message of every broken rule, in order.
func (r ValidationResult) Messages() []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Message)
	}
	return out
}

// rule pairs a failure predicate with the message reported when it holds.
type rule[T any] struct {
	field   string
	fails   func(T) bool
	message func(T) string
}

func constMessage[T any](msg string) func(T) string {
	return func(T) string { return msg }
}

var cartRules = []rule[*Cart]{
	{
		field:   "customer_id",
		fails:   func(c *Cart) bool { return c.customerID == uuid.Nil },
		message: constMessage[*Cart]("customer not found"),
	},
	{
		field:   "items",
		fails:   func(c *Cart) bool { return len(c.items) == 0 },
		message: constMessage[*Cart]("cart has no items"),
	},
	{
		field:   "total_value",
		fails:   func(c *Cart) bool { return !c.totalValue.IsPositive() },
		message: constMessage[*Cart]("cart total must be greater than 0"),
	},
}

var itemRules = []rule[LineItem]{
	{
		field:   "product_id",
		fails:   func(i LineItem) bool { return i.ProductID == uuid.Nil },
		message: constMessage[LineItem]("invalid product id"),
	},
	{
		field: "quantity",
		fails: func(i LineItem) bool { return i.Quantity < 1 },
		message: func(i LineItem) string {
			return fmt.Sprintf("minimum quantity of %s is 1", itemLabel(i))
		},
	},
	{
		field: "unit_value",
		fails: func(i LineItem) bool { return !i.UnitValue.IsPositive() },
		message: func(i LineItem) string {
			return fmt.Sprintf("price of %s must be greater than 0", itemLabel(i))
		},
	},
}

// evaluate runs every rule against v; it never stops at the first failure.
func evaluate[T any](rules []rule[T], v T, prefix string) []ValidationError {
	var errs []ValidationError
	for _, r := range rules {
		if r.fails(v) {
			errs = append(errs, ValidationError{Field: prefix + r.field, Message: r.message(v)})
		}
	}
	return errs
}

func validateCart(c *Cart) []ValidationError {
	return evaluate(cartRules, c, "")
}

func validateItem(i LineItem) []ValidationError {
	return evaluate(itemRules, i, "items["+i.ProductID.String()+"].")
}

func itemLabel(i LineItem) string {
	if i.Name != "" {
		return i.Name
	}
	return i.ProductID.String()
}
