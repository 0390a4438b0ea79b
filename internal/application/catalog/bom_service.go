package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BOMService handles bill of materials operations. Activating a version
// deactivates every other version of the same product, so at most one BOM
// per product drives the requirements calculation.
type BOMService struct {
	bomRepo        catalog.BOMRepository
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewBOMService creates a new BOMService
func NewBOMService(bomRepo catalog.BOMRepository, productRepo catalog.ProductRepository) *BOMService {
	return &BOMService{
		bomRepo:     bomRepo,
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BOMService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new BOM with its component lines
func (s *BOMService) Create(ctx context.Context, req CreateBOMRequest) (*BOMResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Owning product not found")
		}
		return nil, err
	}

	bom, err := catalog.NewBillOfMaterials(product.ID, req.Name, req.Version)
	if err != nil {
		return nil, err
	}

	for _, lineReq := range req.Lines {
		component, err := s.productRepo.FindByID(ctx, lineReq.ComponentProductID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_COMPONENT", "Component product not found")
			}
			return nil, err
		}

		line, err := bom.AddLine(component.ID, lineReq.QuantityPerUnit, component.Unit)
		if err != nil {
			return nil, err
		}
		if lineReq.IsOptional {
			line.SetOptional(true)
		}
	}

	if req.Activate {
		if err := bom.Activate(); err != nil {
			return nil, err
		}
	}

	if err := s.bomRepo.Save(ctx, bom); err != nil {
		return nil, err
	}

	if req.Activate {
		if err := s.bomRepo.DeactivateOthers(ctx, bom.ProductID, bom.ID); err != nil {
			return nil, err
		}
	}

	s.publishDomainEvents(ctx, bom)

	response := ToBOMResponse(bom)
	return &response, nil
}

// GetByID retrieves a BOM with its lines
func (s *BOMService) GetByID(ctx context.Context, bomID uuid.UUID) (*BOMResponse, error) {
	bom, err := s.bomRepo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	response := ToBOMResponse(bom)
	return &response, nil
}

// ListByProduct retrieves all BOM versions of a product
func (s *BOMService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]BOMResponse, error) {
	boms, err := s.bomRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return ToBOMResponses(boms), nil
}

// GetActiveByProduct retrieves the product's active BOM
func (s *BOMService) GetActiveByProduct(ctx context.Context, productID uuid.UUID) (*BOMResponse, error) {
	bom, err := s.bomRepo.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToBOMResponse(bom)
	return &response, nil
}

// AddLine appends a component line to a BOM
func (s *BOMService) AddLine(ctx context.Context, bomID uuid.UUID, req BOMLineRequest) (*BOMResponse, error) {
	bom, err := s.bomRepo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	component, err := s.productRepo.FindByID(ctx, req.ComponentProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INVALID_COMPONENT", "Component product not found")
		}
		return nil, err
	}

	line, err := bom.AddLine(component.ID, req.QuantityPerUnit, component.Unit)
	if err != nil {
		return nil, err
	}
	if req.IsOptional {
		line.SetOptional(true)
	}

	if err := s.bomRepo.Save(ctx, bom); err != nil {
		return nil, err
	}

	response := ToBOMResponse(bom)
	return &response, nil
}

// UpdateLineQuantity updates a line's per-unit quantity
func (s *BOMService) UpdateLineQuantity(ctx context.Context, bomID, lineID uuid.UUID, quantityPerUnit decimal.Decimal) (*BOMResponse, error) {
	bom, err := s.bomRepo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if err := bom.UpdateLineQuantity(lineID, quantityPerUnit); err != nil {
		return nil, err
	}

	if err := s.bomRepo.Save(ctx, bom); err != nil {
		return nil, err
	}

	response := ToBOMResponse(bom)
	return &response, nil
}

// RemoveLine removes a component line from a BOM
func (s *BOMService) RemoveLine(ctx context.Context, bomID, lineID uuid.UUID) (*BOMResponse, error) {
	bom, err := s.bomRepo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if err := bom.RemoveLine(lineID); err != nil {
		return nil, err
	}

	if err := s.bomRepo.Save(ctx, bom); err != nil {
		return nil, err
	}

	response := ToBOMResponse(bom)
	return &response, nil
}

// Activate makes this BOM the product's active version
func (s *BOMService) Activate(ctx context.Context, bomID uuid.UUID) (*BOMResponse, error) {
	bom, err := s.bomRepo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if err := bom.Activate(); err != nil {
		return nil, err
	}

	if err := s.bomRepo.Save(ctx, bom); err != nil {
		return nil, err
	}

	if err := s.bomRepo.DeactivateOthers(ctx, bom.ProductID, bom.ID); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, bom)

	response := ToBOMResponse(bom)
	return &response, nil
}

// Deactivate deactivates a BOM, leaving the product without an active version
func (s *BOMService) Deactivate(ctx context.Context, bomID uuid.UUID) (*BOMResponse, error) {
	bom, err := s.bomRepo.FindByID(ctx, bomID)
	if err != nil {
		return nil, err
	}

	if err := bom.Deactivate(); err != nil {
		return nil, err
	}

	if err := s.bomRepo.Save(ctx, bom); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, bom)

	response := ToBOMResponse(bom)
	return &response, nil
}

// Delete deletes a BOM version
func (s *BOMService) Delete(ctx context.Context, bomID uuid.UUID) error {
	if _, err := s.bomRepo.FindByID(ctx, bomID); err != nil {
		return err
	}
	return s.bomRepo.Delete(ctx, bomID)
}

func (s *BOMService) publishDomainEvents(ctx context.Context, bom *catalog.BillOfMaterials) {
	if s.eventPublisher == nil {
		return
	}
	events := bom.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	bom.ClearDomainEvents()
}
