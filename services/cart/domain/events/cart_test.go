package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yoursneaker/storefront/services/cart/domain/events"
)

func TestCartUpdatedEvent_JSONFieldNames(t *testing.T) {
	evt := events.CartUpdatedEvent{
		EventID:    uuid.New(),
		Version:    1,
		CartID:     uuid.New(),
		CustomerID: uuid.New(),
		ItemCount:  2,
		TotalValue: "59.97",
		OccurredAt: time.Now().UTC(),
	}

	data, err := json.Marshal(evt)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}

	for _, field := range []string{"event_id", "version", "cart_id", "customer_id", "item_count", "total_value", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
	if raw["total_value"] != "59.97" {
		t.Errorf("total_value must stay a decimal string, got %v", raw["total_value"])
	}
}

func TestCartDeletedEvent_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(events.CartDeletedEvent{EventID: uuid.New(), Version: 1, CartID: uuid.New()})
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	for _, field := range []string{"event_id", "version", "cart_id", "customer_id", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}

func TestTopics(t *testing.T) {
	if events.TopicCartUpdated != "cart.updated" {
		t.Errorf("unexpected topic %q", events.TopicCartUpdated)
	}
	if events.TopicCartDeleted != "cart.deleted" {
		t.Errorf("unexpected topic %q", events.TopicCartDeleted)
	}
}
