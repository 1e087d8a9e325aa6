package kafka

import "time"

// Event types
const (
	EventTypeProductCreated   = "product.created"
	EventTypeInventoryChanged = "inventory.changed"
	EventTypeInventoryDeleted = "inventory.deleted"
	EventTypeSaleRecorded     = "sale.recorded"
)

// Kafka topics
const (
	TopicStockEvents = "stockpilot-stock-events"
	TopicSales       = "stockpilot-sales"
)

// ProductCreatedEvent announces a new catalog entry.
type ProductCreatedEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	OrgID      string    `json:"org_id"`
	ProductID  string    `json:"product_id"`
	Name       string    `json:"name"`
	ItemNumber string    `json:"item_number"`
	Timestamp  time.Time `json:"timestamp"`
}

// InventoryChangedEvent announces a create, lot-level update, or delete of
// an inventory item.
type InventoryChangedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrgID     string    `json:"org_id"`
	ItemID    string    `json:"item_id"`
	SKU       string    `json:"sku"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// SaleRecordedEvent arrives from the point-of-sale feed; consuming it bumps
// an item's totalSales counter.
type SaleRecordedEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrgID     string    `json:"org_id"`
	ItemID    string    `json:"item_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
