package catalog

import (
	"strings"
	"time"

	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductKind classifies a product within the manufacturing structure
type ProductKind string

const (
	// ProductKindAssembly is a final good sold to customers
	ProductKindAssembly ProductKind = "assembly"
	// ProductKindSubAssembly is an intermediate component that may carry its own BOM
	ProductKindSubAssembly ProductKind = "subassembly"
	// ProductKindMaterial is a purchasable raw material
	ProductKindMaterial ProductKind = "material"
	// ProductKindService is a bought-in service (e.g. surface treatment)
	ProductKindService ProductKind = "service"
)

// IsValid checks if the kind is a known ProductKind
func (k ProductKind) IsValid() bool {
	switch k {
	case ProductKindAssembly, ProductKindSubAssembly, ProductKindMaterial, ProductKindService:
		return true
	}
	return false
}

// String returns the string representation of ProductKind
func (k ProductKind) String() string {
	return string(k)
}

// Product represents a product/SKU in the catalog.
// It is the aggregate root for product-related operations and carries the
// stock and supply parameters the requirements calculation reads.
type Product struct {
	shared.BaseAggregateRoot
	Code         string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string          `gorm:"type:varchar(200);not null"`
	Description  string          `gorm:"type:text"`
	Kind         ProductKind     `gorm:"type:varchar(20);not null;default:'material';index"`
	Unit         string          `gorm:"type:varchar(20);not null"` // Base unit (e.g. "pcs", "kg", "m")
	Price        decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StockOnHand  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MinimumStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Safety stock reserved from netting
	LeadTimeDays int             `gorm:"not null;default:0"`                    // Calendar days between ordering and availability
	Active       bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name, unit string, kind ProductKind) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError("INVALID_KIND", "Unknown product kind: "+string(kind))
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		Kind:              kind,
		Unit:              unit,
		Price:             decimal.Zero,
		StockOnHand:       decimal.Zero,
		MinimumStock:      decimal.Zero,
		Active:            true,
	}

	product.AddDomainEvent(NewProductCreatedEvent(product))

	return product, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetKind changes the product classification.
// Demoting an assembly that still owns active BOMs is checked at the
// application layer where BOM access is available.
func (p *Product) SetKind(kind ProductKind) error {
	if !kind.IsValid() {
		return shared.NewDomainError("INVALID_KIND", "Unknown product kind: "+string(kind))
	}

	p.Kind = kind
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductUpdatedEvent(p))

	return nil
}

// SetPrice sets the unit price
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStockOnHand sets the current stock level
func (p *Product) SetStockOnHand(qty decimal.Decimal) error {
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Stock on hand cannot be negative")
	}

	p.StockOnHand = qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	p.AddDomainEvent(NewProductStockChangedEvent(p))

	return nil
}

// SetMinimumStock sets the safety stock level
func (p *Product) SetMinimumStock(qty decimal.Decimal) error {
	if qty.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}

	p.MinimumStock = qty
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetLeadTimeDays sets the procurement lead time in calendar days
func (p *Product) SetLeadTimeDays(days int) error {
	if days < 0 {
		return shared.NewDomainError("INVALID_LEAD_TIME", "Lead time cannot be negative")
	}

	p.LeadTimeDays = days
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Activate marks the product as active
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	}

	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate marks the product as inactive
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	}

	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsAssembly returns true for final goods, the only kind whose order demand
// is exploded through the BOM graph
func (p *Product) IsAssembly() bool {
	return p.Kind == ProductKindAssembly
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

// validateUnit validates the unit
func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
