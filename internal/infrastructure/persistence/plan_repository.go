package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/planning"
	"github.com/mrp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPlanRepository implements PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID, including its source order links and lines
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*planning.RequirementPlan, error) {
	var plan planning.RequirementPlan
	if err := r.db.WithContext(ctx).
		Preload("SourceOrderIDs").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_id ASC")
		}).
		First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindByReferenceNumber finds a plan by its reference number
func (r *GormPlanRepository) FindByReferenceNumber(ctx context.Context, referenceNumber string) (*planning.RequirementPlan, error) {
	var plan planning.RequirementPlan
	if err := r.db.WithContext(ctx).
		Preload("SourceOrderIDs").
		Preload("Lines", func(db *gorm.DB) *gorm.DB {
			return db.Order("product_id ASC")
		}).
		Where("reference_number = ?", referenceNumber).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindAll finds all plans matching the filter. Lines are not loaded; list
// views only need the headers and link counts.
func (r *GormPlanRepository) FindAll(ctx context.Context, filter shared.Filter) ([]planning.RequirementPlan, error) {
	var plans []planning.RequirementPlan
	query := r.applyFilter(r.db.WithContext(ctx).Model(&planning.RequirementPlan{}), filter)

	if err := query.Preload("SourceOrderIDs").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

// Save creates or updates a plan header together with its source order links
func (r *GormPlanRepository) Save(ctx context.Context, plan *planning.RequirementPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "SourceOrderIDs").Save(plan).Error; err != nil {
			return err
		}

		if plan.ID != uuid.Nil {
			currentLinkIDs := make([]uuid.UUID, len(plan.SourceOrderIDs))
			for i, link := range plan.SourceOrderIDs {
				currentLinkIDs[i] = link.ID
			}

			if len(currentLinkIDs) > 0 {
				if err := tx.Where("plan_id = ? AND id NOT IN ?", plan.ID, currentLinkIDs).
					Delete(&planning.PlanSourceOrder{}).Error; err != nil {
					return err
				}
			} else {
				if err := tx.Where("plan_id = ?", plan.ID).
					Delete(&planning.PlanSourceOrder{}).Error; err != nil {
					return err
				}
			}

			for i := range plan.SourceOrderIDs {
				plan.SourceOrderIDs[i].PlanID = plan.ID
				if err := tx.Save(&plan.SourceOrderIDs[i]).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// SaveCalculated persists the outcome of a calculation run: the plan header
// and the full replacement of its requirement lines. Old lines are deleted
// and new ones inserted in the same transaction so readers never observe a
// partial line set.
func (r *GormPlanRepository) SaveCalculated(ctx context.Context, plan *planning.RequirementPlan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Lines", "SourceOrderIDs").Save(plan).Error; err != nil {
			return err
		}

		if err := tx.Where("plan_id = ?", plan.ID).
			Delete(&planning.RequirementLine{}).Error; err != nil {
			return err
		}

		for i := range plan.Lines {
			plan.Lines[i].PlanID = plan.ID
			if err := tx.Create(&plan.Lines[i]).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// Delete deletes a plan
func (r *GormPlanRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&planning.RequirementPlan{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts plans matching the filter
func (r *GormPlanRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&planning.RequirementPlan{})
	query = r.applyFilterWithoutPagination(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByReferenceNumber checks if a plan with the given reference exists
func (r *GormPlanRepository) ExistsByReferenceNumber(ctx context.Context, referenceNumber string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&planning.RequirementPlan{}).
		Where("reference_number = ?", referenceNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyFilter applies filter options to the query
func (r *GormPlanRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	sortField := ValidateSortField(filter.OrderBy, PlanSortFields, "created_at")
	sortOrder := ValidateSortOrder(filter.OrderDir)
	query = query.Order(sortField + " " + sortOrder)

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormPlanRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	// Apply search
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("reference_number ILIKE ? OR notes ILIKE ?", searchPattern, searchPattern)
	}

	// Apply additional filters
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "window_start_after":
			query = query.Where("planning_window_start >= ?", value)
		case "window_end_before":
			query = query.Where("planning_window_end <= ?", value)
		}
	}

	return query
}

// Ensure GormPlanRepository implements PlanRepository
var _ planning.PlanRepository = (*GormPlanRepository)(nil)
