package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/mrp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductionOrderRepository implements ProductionOrderRepository using GORM
type GormProductionOrderRepository struct {
	db *gorm.DB
}

// NewGormProductionOrderRepository creates a new GormProductionOrderRepository
func NewGormProductionOrderRepository(db *gorm.DB) *GormProductionOrderRepository {
	return &GormProductionOrderRepository{db: db}
}

// FindByID finds a production order by its ID, including its lines
func (r *GormProductionOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*orders.ProductionOrder, error) {
	var order orders.ProductionOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByOrderNumber finds a production order by its order number
func (r *GormProductionOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*orders.ProductionOrder, error) {
	var order orders.ProductionOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindByIDsWithStatuses returns the subset of the given orders whose status
// is in statuses, loaded with their lines
func (r *GormProductionOrderRepository) FindByIDsWithStatuses(ctx context.Context, ids []uuid.UUID, statuses []orders.OrderStatus) ([]orders.ProductionOrder, error) {
	if len(ids) == 0 || len(statuses) == 0 {
		return []orders.ProductionOrder{}, nil
	}

	var result []orders.ProductionOrder
	if err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id IN ? AND status IN ?", ids, statuses).
		Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// FindAll finds all production orders matching the filter
func (r *GormProductionOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]orders.ProductionOrder, error) {
	var result []orders.ProductionOrder
	query := r.applyFilter(r.db.WithContext(ctx).Model(&orders.ProductionOrder{}), filter)

	if err := query.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).Find(&result).Error; err != nil {
		return nil, err
	}
	return result, nil
}

// Save creates or updates a production order together with its lines
func (r *GormProductionOrderRepository) Save(ctx context.Context, order *orders.ProductionOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(order).Error; err != nil {
			return err
		}

		if order.ID != uuid.Nil {
			currentLineIDs := make([]uuid.UUID, len(order.Lines))
			for i, line := range order.Lines {
				currentLineIDs[i] = line.ID
			}

			if len(currentLineIDs) > 0 {
				if err := tx.Where("order_id = ? AND id NOT IN ?", order.ID, currentLineIDs).
					Delete(&orders.OrderLine{}).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Where("order_id = ?", order.ID).
					Delete(&orders.OrderLine{}).Error; err != nil {
					return err
				}
			}

			for i := range order.Lines {
				order.Lines[i].OrderID = order.ID
				if err := tx.Save(&order.Lines[i]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// Delete deletes a production order
func (r *GormProductionOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&orders.ProductionOrder{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts production orders matching the filter
func (r *GormProductionOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&orders.ProductionOrder{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByOrderNumber checks if an order with the given number exists
func (r *GormProductionOrderRepository) ExistsByOrderNumber(ctx context.Context, orderNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&orders.ProductionOrder{}).
		Where("order_number = ?", orderNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormProductionOrderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	sortField := ValidateSortField(filter.OrderBy, OrderSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductionOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR customer_name ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "customer_name":
			query = query.Where("customer_name = ?", value)
		case "required_before":
			query = query.Where("required_date <= ?", value)
		case "required_after":
			query = query.Where("required_date >= ?", value)
		}
	}

	return query
}

// Ensure GormProductionOrderRepository implements ProductionOrderRepository
var _ orders.ProductionOrderRepository = (*GormProductionOrderRepository)(nil)
