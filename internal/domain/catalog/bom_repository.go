package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
)

// BOMRepository defines the persistence contract for bills of materials
type BOMRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BillOfMaterials, error)
	// FindActiveByProduct returns the active BOM for a product, or
	// shared.ErrNotFound when the product has none. If the single-active
	// invariant has been violated in storage, the most recently created
	// active version wins.
	FindActiveByProduct(ctx context.Context, productID uuid.UUID) (*BillOfMaterials, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]BillOfMaterials, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]BillOfMaterials, error)
	Save(ctx context.Context, bom *BillOfMaterials) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// DeactivateOthers deactivates every active BOM of the product except the
	// given one; used when activating a version to keep the invariant.
	DeactivateOthers(ctx context.Context, productID, keepID uuid.UUID) error
}
