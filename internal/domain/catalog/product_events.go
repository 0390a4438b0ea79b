package catalog

import (
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Event types for the product aggregate
const (
	EventTypeProductCreated      = "catalog.product.created"
	EventTypeProductUpdated      = "catalog.product.updated"
	EventTypeProductStockChanged = "catalog.product.stock_changed"
)

// ProductCreatedEvent is published when a product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	Code string      `json:"code"`
	Name string      `json:"name"`
	Kind ProductKind `json:"kind"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, "Product", p.ID),
		Code:            p.Code,
		Name:            p.Name,
		Kind:            p.Kind,
	}
}

// ProductUpdatedEvent is published when product master data changes
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	Code string `json:"code"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, "Product", p.ID),
		Code:            p.Code,
	}
}

// ProductStockChangedEvent is published when the stock-on-hand level changes
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	Code        string          `json:"code"`
	StockOnHand decimal.Decimal `json:"stock_on_hand"`
}

// NewProductStockChangedEvent creates a new ProductStockChangedEvent
func NewProductStockChangedEvent(p *Product) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockChanged, "Product", p.ID),
		Code:            p.Code,
		StockOnHand:     p.StockOnHand,
	}
}
