package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineItem is one product entry within a cart.
// Name and Image are display data copied from the catalog; they carry no rules.
type LineItem struct {
	CartID    uuid.UUID // set by Cart.AddItem / Cart.UpdateItem, never by callers
	ProductID uuid.UUID
	Name      string
	Image     string
	Quantity  int
	UnitValue decimal.Decimal
}

// NewLineItem builds a detached line item. Range checks on quantity and
// price are left to the validation rules.
func NewLineItem(productID uuid.UUID, name, image string, quantity int, unitValue decimal.Decimal) *LineItem {
	return &LineItem{
		ProductID: productID,
		Name:      name,
		Image:     image,
		Quantity:  quantity,
		UnitValue: unitValue,
	}
}

// Subtotal returns Quantity * UnitValue.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitValue.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// UpdateQuantity overwrites the quantity.
func (i *LineItem) UpdateQuantity(quantity int) {
	i.Quantity = quantity
}

func (i *LineItem) attach(cartID uuid.UUID) {
	i.CartID = cartID
}

func (i *LineItem) addUnits(quantity int) {
	i.Quantity += quantity
}
