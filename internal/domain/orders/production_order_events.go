package orders

import (
	"time"

	"github.com/mrp/backend/internal/domain/shared"
)

// Event types for the production order aggregate
const (
	EventTypeOrderCreated   = "orders.order.created"
	EventTypeOrderConfirmed = "orders.order.confirmed"
	EventTypeOrderCompleted = "orders.order.completed"
	EventTypeOrderCancelled = "orders.order.cancelled"
)

// OrderCreatedEvent is published when an order is created
type OrderCreatedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string    `json:"order_number"`
	Type        OrderType `json:"order_type"`
}

// NewOrderCreatedEvent creates a new OrderCreatedEvent
func NewOrderCreatedEvent(o *ProductionOrder) *OrderCreatedEvent {
	return &OrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCreated, "ProductionOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		Type:            o.Type,
	}
}

// OrderConfirmedEvent is published when an order becomes planning-eligible
type OrderConfirmedEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string     `json:"order_number"`
	RequiredDate *time.Time `json:"required_date,omitempty"`
	LineCount    int        `json:"line_count"`
}

// NewOrderConfirmedEvent creates a new OrderConfirmedEvent
func NewOrderConfirmedEvent(o *ProductionOrder) *OrderConfirmedEvent {
	return &OrderConfirmedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderConfirmed, "ProductionOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		RequiredDate:    o.RequiredDate,
		LineCount:       len(o.Lines),
	}
}

// OrderCompletedEvent is published when an order is completed
type OrderCompletedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string `json:"order_number"`
}

// NewOrderCompletedEvent creates a new OrderCompletedEvent
func NewOrderCompletedEvent(o *ProductionOrder) *OrderCompletedEvent {
	return &OrderCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCompleted, "ProductionOrder", o.ID),
		OrderNumber:     o.OrderNumber,
	}
}

// OrderCancelledEvent is published when an order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderNumber  string `json:"order_number"`
	CancelReason string `json:"cancel_reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *ProductionOrder) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, "ProductionOrder", o.ID),
		OrderNumber:     o.OrderNumber,
		CancelReason:    o.CancelReason,
	}
}
