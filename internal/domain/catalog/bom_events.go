package catalog

import (
	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
)

// Event types for the bill-of-materials aggregate
const (
	EventTypeBOMCreated     = "catalog.bom.created"
	EventTypeBOMActivated   = "catalog.bom.activated"
	EventTypeBOMDeactivated = "catalog.bom.deactivated"
)

// BOMCreatedEvent is published when a BOM version is created
type BOMCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	VersionLabel string    `json:"version_label"`
}

// NewBOMCreatedEvent creates a new BOMCreatedEvent
func NewBOMCreatedEvent(b *BillOfMaterials) *BOMCreatedEvent {
	return &BOMCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBOMCreated, "BillOfMaterials", b.ID),
		ProductID:       b.ProductID,
		VersionLabel:    b.VersionLabel,
	}
}

// BOMActivatedEvent is published when a BOM version becomes the active one
type BOMActivatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	VersionLabel string    `json:"version_label"`
}

// NewBOMActivatedEvent creates a new BOMActivatedEvent
func NewBOMActivatedEvent(b *BillOfMaterials) *BOMActivatedEvent {
	return &BOMActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBOMActivated, "BillOfMaterials", b.ID),
		ProductID:       b.ProductID,
		VersionLabel:    b.VersionLabel,
	}
}

// BOMDeactivatedEvent is published when a BOM version is deactivated
type BOMDeactivatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID `json:"product_id"`
	VersionLabel string    `json:"version_label"`
}

// NewBOMDeactivatedEvent creates a new BOMDeactivatedEvent
func NewBOMDeactivatedEvent(b *BillOfMaterials) *BOMDeactivatedEvent {
	return &BOMDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBOMDeactivated, "BillOfMaterials", b.ID),
		ProductID:       b.ProductID,
		VersionLabel:    b.VersionLabel,
	}
}
