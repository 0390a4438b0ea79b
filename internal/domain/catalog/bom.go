package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BOMLine is a single component position within a bill of materials
type BOMLine struct {
	ID                 uuid.UUID
	BOMID              uuid.UUID `gorm:"column:bom_id;type:uuid;not null;index"`
	ComponentProductID uuid.UUID
	QuantityPerUnit    decimal.Decimal // Component quantity needed per unit of the parent
	Unit               string
	Position           int
	IsOptional         bool // Optional lines contribute no demand during explosion
	Notes              string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// NewBOMLine creates a new BOM line
func NewBOMLine(bomID, componentProductID uuid.UUID, quantityPerUnit decimal.Decimal, unit string, position int) (*BOMLine, error) {
	if componentProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPONENT", "Component product ID cannot be empty")
	}
	if quantityPerUnit.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit must be positive")
	}
	if unit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}

	now := time.Now()
	return &BOMLine{
		ID:                 uuid.New(),
		BOMID:              bomID,
		ComponentProductID: componentProductID,
		QuantityPerUnit:    quantityPerUnit,
		Unit:               unit,
		Position:           position,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

// UpdateQuantity updates the per-unit component quantity
func (l *BOMLine) UpdateQuantity(quantityPerUnit decimal.Decimal) error {
	if quantityPerUnit.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity per unit must be positive")
	}

	l.QuantityPerUnit = quantityPerUnit
	l.UpdatedAt = time.Now()

	return nil
}

// SetOptional marks or unmarks the line as optional
func (l *BOMLine) SetOptional(optional bool) {
	l.IsOptional = optional
	l.UpdatedAt = time.Now()
}

// BillOfMaterials defines which components, in which quantities, build one
// unit of its owning product. A product may carry several BOM versions but
// at most one may be active; the active version is the one the requirements
// calculation follows.
type BillOfMaterials struct {
	shared.BaseAggregateRoot
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Name         string    `gorm:"type:varchar(200);not null"`
	Description  string    `gorm:"type:text"`
	VersionLabel string    `gorm:"type:varchar(50);not null;default:'1.0'"`
	IsActive     bool      `gorm:"not null;default:false;index"`
	Lines        []BOMLine `gorm:"foreignKey:BOMID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (BillOfMaterials) TableName() string {
	return "boms"
}

// NewBillOfMaterials creates a new, inactive bill of materials
func NewBillOfMaterials(productID uuid.UUID, name, versionLabel string) (*BillOfMaterials, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Owning product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "BOM name cannot be empty")
	}
	if versionLabel == "" {
		versionLabel = "1.0"
	}
	if len(versionLabel) > 50 {
		return nil, shared.NewDomainError("INVALID_VERSION", "Version label cannot exceed 50 characters")
	}

	bom := &BillOfMaterials{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ProductID:         productID,
		Name:              name,
		VersionLabel:      versionLabel,
		Lines:             make([]BOMLine, 0),
	}

	bom.AddDomainEvent(NewBOMCreatedEvent(bom))

	return bom, nil
}

// AddLine appends a component line.
// A line may never reference the owning product itself; deeper cycles across
// several BOM levels are caught by the explosion engine.
func (b *BillOfMaterials) AddLine(componentProductID uuid.UUID, quantityPerUnit decimal.Decimal, unit string) (*BOMLine, error) {
	if componentProductID == b.ProductID {
		return nil, shared.NewDomainError("SELF_REFERENCE", "BOM line cannot reference the owning product")
	}
	for _, line := range b.Lines {
		if line.ComponentProductID == componentProductID {
			return nil, shared.NewDomainError("DUPLICATE_COMPONENT", "Component already present in BOM, update its quantity instead")
		}
	}

	line, err := NewBOMLine(b.ID, componentProductID, quantityPerUnit, unit, len(b.Lines)+1)
	if err != nil {
		return nil, err
	}

	b.Lines = append(b.Lines, *line)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	return line, nil
}

// UpdateLineQuantity updates the quantity of an existing line
func (b *BillOfMaterials) UpdateLineQuantity(lineID uuid.UUID, quantityPerUnit decimal.Decimal) error {
	for idx := range b.Lines {
		if b.Lines[idx].ID == lineID {
			if err := b.Lines[idx].UpdateQuantity(quantityPerUnit); err != nil {
				return err
			}
			b.UpdatedAt = time.Now()
			b.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "BOM line not found")
}

// SetLineOptional marks or unmarks a line as optional
func (b *BillOfMaterials) SetLineOptional(lineID uuid.UUID, optional bool) error {
	for idx := range b.Lines {
		if b.Lines[idx].ID == lineID {
			b.Lines[idx].SetOptional(optional)
			b.UpdatedAt = time.Now()
			b.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "BOM line not found")
}

// RemoveLine removes a component line
func (b *BillOfMaterials) RemoveLine(lineID uuid.UUID) error {
	for idx, line := range b.Lines {
		if line.ID == lineID {
			b.Lines = append(b.Lines[:idx], b.Lines[idx+1:]...)
			b.UpdatedAt = time.Now()
			b.IncrementVersion()
			return nil
		}
	}

	return shared.NewDomainError("LINE_NOT_FOUND", "BOM line not found")
}

// Activate marks this BOM version as the active one.
// Deactivating any sibling version is coordinated by the application service,
// which owns the one-active-BOM-per-product invariant.
func (b *BillOfMaterials) Activate() error {
	if b.IsActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "BOM is already active")
	}
	if len(b.Lines) == 0 {
		return shared.NewDomainError("NO_LINES", "Cannot activate a BOM without lines")
	}

	b.IsActive = true
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBOMActivatedEvent(b))

	return nil
}

// Deactivate marks this BOM version as inactive
func (b *BillOfMaterials) Deactivate() error {
	if !b.IsActive {
		return shared.NewDomainError("ALREADY_INACTIVE", "BOM is already inactive")
	}

	b.IsActive = false
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBOMDeactivatedEvent(b))

	return nil
}

// RequiredLines returns the non-optional lines in position order
func (b *BillOfMaterials) RequiredLines() []BOMLine {
	lines := make([]BOMLine, 0, len(b.Lines))
	for _, line := range b.Lines {
		if !line.IsOptional {
			lines = append(lines, line)
		}
	}
	return lines
}

// LineCount returns the number of lines in the BOM
func (b *BillOfMaterials) LineCount() int {
	return len(b.Lines)
}

// GetLine returns a line by its ID
func (b *BillOfMaterials) GetLine(lineID uuid.UUID) *BOMLine {
	for idx := range b.Lines {
		if b.Lines[idx].ID == lineID {
			return &b.Lines[idx]
		}
	}
	return nil
}
