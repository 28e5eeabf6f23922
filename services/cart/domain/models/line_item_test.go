package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestNewLineItem(t *testing.T) {
	pid := uuid.New()
	item := NewLineItem(pid, "Court Classic", "court.png", 3, dec("49.90"))

	if item.CartID != uuid.Nil {
		t.Fatalf("expected detached item, got CartID %v", item.CartID)
	}
	if item.ProductID != pid {
		t.Fatalf("expected ProductID %v, got %v", pid, item.ProductID)
	}
	if item.Name != "Court Classic" || item.Image != "court.png" {
		t.Fatalf("unexpected display fields: %+v", item)
	}
}

func TestLineItem_Subtotal(t *testing.T) {
	tests := []struct {
		name     string
		quantity int
		unit     string
		want     string
	}{
		{"single unit", 1, "10.00", "10.00"},
		{"several units", 3, "19.99", "59.97"},
		{"zero quantity", 0, "10.00", "0"},
		{"zero price", 4, "0", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := LineItem{Quantity: tt.quantity, UnitValue: dec(tt.unit)}
			if got := item.Subtotal(); !got.Equal(dec(tt.want)) {
				t.Fatalf("Subtotal() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestLineItem_UpdateQuantity(t *testing.T) {
	item := NewLineItem(uuid.New(), "", "", 1, dec("2"))
	item.UpdateQuantity(-3)
	if item.Quantity != -3 {
		t.Fatalf("expected quantity -3, got %d", item.Quantity)
	}
}
