package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code         string           `json:"code" binding:"required,min=1,max=50"`
	Name         string           `json:"name" binding:"required,min=1,max=200"`
	Description  string           `json:"description" binding:"max=2000"`
	Kind         string           `json:"kind" binding:"required"`
	Unit         string           `json:"unit" binding:"required,min=1,max=20"`
	Price        *decimal.Decimal `json:"price"`
	StockOnHand  *decimal.Decimal `json:"stock_on_hand"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	LeadTimeDays *int             `json:"lead_time_days"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Description  *string          `json:"description" binding:"omitempty,max=2000"`
	Kind         *string          `json:"kind"`
	Price        *decimal.Decimal `json:"price"`
	StockOnHand  *decimal.Decimal `json:"stock_on_hand"`
	MinimumStock *decimal.Decimal `json:"minimum_stock"`
	LeadTimeDays *int             `json:"lead_time_days"`
}

// ProductListFilter holds list query parameters
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Kind     string `form:"kind"`
	Active   *bool  `form:"active"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Kind         string          `json:"kind"`
	Unit         string          `json:"unit"`
	Price        decimal.Decimal `json:"price"`
	StockOnHand  decimal.Decimal `json:"stock_on_hand"`
	MinimumStock decimal.Decimal `json:"minimum_stock"`
	LeadTimeDays int             `json:"lead_time_days"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:           product.ID,
		Code:         product.Code,
		Name:         product.Name,
		Description:  product.Description,
		Kind:         string(product.Kind),
		Unit:         product.Unit,
		Price:        product.Price,
		StockOnHand:  product.StockOnHand,
		MinimumStock: product.MinimumStock,
		LeadTimeDays: product.LeadTimeDays,
		Active:       product.Active,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
		Version:      product.GetVersion(),
	}
}

// ToProductResponses converts domain products to responses
func ToProductResponses(products []catalog.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// CreateBOMRequest represents a request to create a bill of materials
type CreateBOMRequest struct {
	ProductID uuid.UUID        `json:"product_id" binding:"required"`
	Name      string           `json:"name" binding:"required,min=1,max=200"`
	Version   string           `json:"version" binding:"max=50"`
	Activate  bool             `json:"activate"`
	Lines     []BOMLineRequest `json:"lines" binding:"dive"`
}

// BOMLineRequest represents one component line in a BOM request
type BOMLineRequest struct {
	ComponentProductID uuid.UUID       `json:"component_product_id" binding:"required"`
	QuantityPerUnit    decimal.Decimal `json:"quantity_per_unit" binding:"required"`
	IsOptional         bool            `json:"is_optional"`
}

// BOMLineResponse represents one component line in API responses
type BOMLineResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ComponentProductID uuid.UUID       `json:"component_product_id"`
	QuantityPerUnit    decimal.Decimal `json:"quantity_per_unit"`
	Unit               string          `json:"unit"`
	IsOptional         bool            `json:"is_optional"`
	Position           int             `json:"position"`
}

// BOMResponse represents a bill of materials in API responses
type BOMResponse struct {
	ID        uuid.UUID         `json:"id"`
	ProductID uuid.UUID         `json:"product_id"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	IsActive  bool              `json:"is_active"`
	Lines     []BOMLineResponse `json:"lines"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ToBOMResponse converts a domain BOM to a response
func ToBOMResponse(bom *catalog.BillOfMaterials) BOMResponse {
	lines := make([]BOMLineResponse, len(bom.Lines))
	for i, line := range bom.Lines {
		lines[i] = BOMLineResponse{
			ID:                 line.ID,
			ComponentProductID: line.ComponentProductID,
			QuantityPerUnit:    line.QuantityPerUnit,
			Unit:               line.Unit,
			IsOptional:         line.IsOptional,
			Position:           line.Position,
		}
	}

	return BOMResponse{
		ID:        bom.ID,
		ProductID: bom.ProductID,
		Name:      bom.Name,
		Version:   bom.VersionLabel,
		IsActive:  bom.IsActive,
		Lines:     lines,
		CreatedAt: bom.CreatedAt,
		UpdatedAt: bom.UpdatedAt,
	}
}

// ToBOMResponses converts domain BOMs to responses
func ToBOMResponses(boms []catalog.BillOfMaterials) []BOMResponse {
	responses := make([]BOMResponse, len(boms))
	for i := range boms {
		responses[i] = ToBOMResponse(&boms[i])
	}
	return responses
}
