package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBOMRepository implements BOMRepository using GORM
type GormBOMRepository struct {
	db *gorm.DB
}

// NewGormBOMRepository creates a new GormBOMRepository
func NewGormBOMRepository(db *gorm.DB) *GormBOMRepository {
	return &GormBOMRepository{db: db}
}

// FindByID finds a BOM by its ID, including its lines
func (r *GormBOMRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.BillOfMaterials, error) {
	var bom catalog.BillOfMaterials
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&bom, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// FindActiveByProduct finds the active BOM for a product. If more than one
// active version exists in storage, the most recently created one wins.
func (r *GormBOMRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) (*catalog.BillOfMaterials, error) {
	var bom catalog.BillOfMaterials
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("product_id = ? AND is_active = ?", productID, true).
		Order("created_at DESC").
		First(&bom).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bom, nil
}

// FindByProduct finds all BOM versions for a product, newest first
func (r *GormBOMRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.BillOfMaterials, error) {
	var boms []catalog.BillOfMaterials
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&boms).Error; err != nil {
		return nil, err
	}
	return boms, nil
}

// FindAll finds all BOMs matching the filter
func (r *GormBOMRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.BillOfMaterials, error) {
	var boms []catalog.BillOfMaterials
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.BillOfMaterials{}), filter)

	if err := query.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Find(&boms).Error; err != nil {
		return nil, err
	}
	return boms, nil
}

// Save creates or updates a BOM together with its lines. Lines removed from
// the aggregate are deleted so the stored line set mirrors the in-memory one.
func (r *GormBOMRepository) Save(ctx context.Context, bom *catalog.BillOfMaterials) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(bom).Error; err != nil {
			return err
		}

		if bom.ID != uuid.Nil {
			currentLineIDs := make([]uuid.UUID, len(bom.Lines))
			for i, line := range bom.Lines {
				currentLineIDs[i] = line.ID
			}

			if len(currentLineIDs) > 0 {
				if err := tx.Where("bom_id = ? AND id NOT IN ?", bom.ID, currentLineIDs).
					Delete(&catalog.BOMLine{}).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Where("bom_id = ?", bom.ID).
					Delete(&catalog.BOMLine{}).Error; err != nil {
					return err
				}
			}

			for i := range bom.Lines {
				bom.Lines[i].BOMID = bom.ID
				if err := tx.Save(&bom.Lines[i]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Delete deletes a BOM
func (r *GormBOMRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.BillOfMaterials{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts BOMs matching the filter
func (r *GormBOMRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&catalog.BillOfMaterials{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DeactivateOthers deactivates every active BOM of the product except keepID
func (r *GormBOMRepository) DeactivateOthers(ctx context.Context, productID, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&catalog.BillOfMaterials{}).
		Where("product_id = ? AND id <> ? AND is_active = ?", productID, keepID, true).
		Update("is_active", false).Error
}

// applyFilter applies filter options to the query
func (r *GormBOMRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	sortField := ValidateSortField(filter.OrderBy, BOMSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormBOMRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR version_label ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "is_active":
			query = query.Where("is_active = ?", value)
		}
	}

	return query
}

// Ensure GormBOMRepository implements BOMRepository
var _ catalog.BOMRepository = (*GormBOMRepository)(nil)
