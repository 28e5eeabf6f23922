package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart is the aggregate root for the cart bounded context.
// Items are only reachable through Cart methods, and totalValue is
// recomputed after every mutation so it always equals the sum of subtotals.
type Cart struct {
	id         uuid.UUID
	customerID uuid.UUID
	items      []LineItem // unique by ProductID
	totalValue decimal.Decimal

	// validation is the snapshot of the last IsValid call. Never persisted.
	validation ValidationResult
}

// NewCart returns an empty cart with a generated ID.
func NewCart(customerID uuid.UUID) *Cart {
	return &Cart{
		id:         uuid.New(),
		customerID: customerID,
		items:      []LineItem{},
		totalValue: decimal.Zero,
	}
}

// RehydrateCart rebuilds a stored cart. Items are stamped with id and the
// total is recomputed from them; a stored total is never trusted.
func RehydrateCart(id, customerID uuid.UUID, items []LineItem) *Cart {
	c := &Cart{
		id:         id,
		customerID: customerID,
		items:      make([]LineItem, 0, len(items)),
	}
	for _, item := range items {
		item.attach(id)
		c.items = append(c.items, item)
	}
	c.recomputeTotal()
	return c
}

// ID returns the cart identifier.
func (c *Cart) ID() uuid.UUID { return c.id }

// CustomerID returns the owning customer.
func (c *Cart) CustomerID() uuid.UUID { return c.customerID }

// TotalValue returns the sum of all item subtotals.
func (c *Cart) TotalValue() decimal.Decimal { return c.totalValue }

// Len returns the number of distinct products in the cart.
func (c *Cart) Len() int { return len(c.items) }

// Items returns a copy of the items in cart order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

// ItemExists reports whether a stored item shares item's product.
func (c *Cart) ItemExists(item *LineItem) bool {
	return c.indexOf(item.ProductID) >= 0
}

// FindItemByProductID returns a copy of the stored item for productID.
func (c *Cart) FindItemByProductID(productID uuid.UUID) (LineItem, bool) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return LineItem{}, false
	}
	return c.items[idx], true
}

// AddItem attaches item to the cart. When the product is already present the
// incoming quantity is added to the stored item, which keeps its position
// and unit price; the incoming item is discarded.
func (c *Cart) AddItem(item *LineItem) {
	item.attach(c.id)

	if idx := c.indexOf(item.ProductID); idx >= 0 {
		c.items[idx].addUnits(item.Quantity)
	} else {
		c.items = append(c.items, *item)
	}

	c.recomputeTotal()
}

// UpdateItem replaces the stored item for item's product with item, in place.
// If the product is not in the cart, item is appended without merging.
func (c *Cart) UpdateItem(item *LineItem) {
	item.attach(c.id)

	if idx := c.indexOf(item.ProductID); idx >= 0 {
		c.items[idx] = *item
	} else {
		c.items = append(c.items, *item)
	}

	c.recomputeTotal()
}

// UpdateQuantity sets item's quantity and then replaces it like UpdateItem.
// Non-positive quantities are accepted here and reported by IsValid.
func (c *Cart) UpdateQuantity(item *LineItem, quantity int) {
	item.UpdateQuantity(quantity)
	c.UpdateItem(item)
}

// RemoveItem drops the stored item for item's product. Absent products are a no-op.
func (c *Cart) RemoveItem(item *LineItem) {
	if idx := c.indexOf(item.ProductID); idx >= 0 {
		c.items = append(c.items[:idx], c.items[idx+1:]...)
	}

	c.recomputeTotal()
}

// IsValid runs every item rule and every cart rule, stores the combined
// result (see ValidationResult) and reports whether it is empty.
func (c *Cart) IsValid() bool {
	var errs []ValidationError
	for _, item := range c.items {
		errs = append(errs, validateItem(item)...)
	}
	errs = append(errs, validateCart(c)...)

	c.validation = ValidationResult{Errors: errs}
	return c.validation.IsValid()
}

// ValidationResult returns the snapshot taken by the last IsValid call.
func (c *Cart) ValidationResult() ValidationResult {
	return c.validation
}

func (c *Cart) recomputeTotal() {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	c.totalValue = total
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
