package models

import "time"

// Entity names carried in events
const (
	EntityWarehouse    = "warehouse"
	EntitySupplier     = "supplier"
	EntityProduct      = "product"
	EntityInventoryLot = "inventory_lot"
	EntityOrder        = "order"
)

// Event types
const (
	EventTypeEntityCreated = "ENTITY_CREATED"
	EventTypeEntityUpdated = "ENTITY_UPDATED"
	EventTypeEntityDeleted = "ENTITY_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// EntityEvent is published after a successful single-row write
type EntityEvent struct {
	BaseEvent
	Entity   string `json:"entity"`
	EntityID string `json:"entity_id"`
}
