package main

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/identity"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/mrp/backend/internal/infrastructure/config"
	"github.com/mrp/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedProduct struct {
	code         string
	name         string
	unit         string
	kind         catalog.ProductKind
	stockOnHand  int64
	minimumStock int64
	leadTimeDays int
}

type seedBOMLine struct {
	componentCode string
	quantity      int64
	optional      bool
}

// seedDemoData inserts a small bicycle factory data set: a finished bike,
// its subassemblies and materials, an active BOM per assembly, one confirmed
// order and two users. Existing codes are skipped so the command can be
// re-run safely.
func seedDemoData(cfg *config.DatabaseConfig, log *zap.Logger) error {
	db, err := persistence.NewDatabase(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	productRepo := persistence.NewGormProductRepository(db.DB)
	bomRepo := persistence.NewGormBOMRepository(db.DB)
	orderRepo := persistence.NewGormProductionOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	products := []seedProduct{
		{"BIKE-CITY", "City bike", "pcs", catalog.ProductKindAssembly, 0, 0, 3},
		{"FRAME-STD", "Standard frame", "pcs", catalog.ProductKindSubAssembly, 5, 2, 7},
		{"WHEEL-26", "26 inch wheel", "pcs", catalog.ProductKindSubAssembly, 8, 4, 5},
		{"TUBE-STEEL", "Steel tube", "m", catalog.ProductKindMaterial, 40, 10, 10},
		{"SPOKE-STD", "Standard spoke", "pcs", catalog.ProductKindMaterial, 500, 100, 14},
		{"RIM-26", "26 inch rim", "pcs", catalog.ProductKindMaterial, 10, 0, 21},
		{"TIRE-26", "26 inch tire", "pcs", catalog.ProductKindMaterial, 20, 8, 7},
		{"SADDLE-STD", "Standard saddle", "pcs", catalog.ProductKindMaterial, 15, 5, 7},
		{"PAINT-SVC", "Frame painting", "pcs", catalog.ProductKindService, 0, 0, 2},
	}

	productIDs := make(map[string]uuid.UUID)
	for _, sp := range products {
		existing, err := productRepo.FindByCode(ctx, sp.code)
		if err == nil {
			productIDs[sp.code] = existing.ID
			continue
		}

		product, err := catalog.NewProduct(sp.code, sp.name, sp.unit, sp.kind)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", sp.code, err)
		}
		if err := product.SetStockOnHand(decimal.NewFromInt(sp.stockOnHand)); err != nil {
			return err
		}
		if err := product.SetMinimumStock(decimal.NewFromInt(sp.minimumStock)); err != nil {
			return err
		}
		if err := product.SetLeadTimeDays(sp.leadTimeDays); err != nil {
			return err
		}
		if err := productRepo.Save(ctx, product); err != nil {
			return fmt.Errorf("save product %s: %w", sp.code, err)
		}
		productIDs[sp.code] = product.ID
		log.Info("Seeded product", zap.String("code", sp.code))
	}

	boms := map[string][]seedBOMLine{
		"BIKE-CITY": {
			{"FRAME-STD", 1, false},
			{"WHEEL-26", 2, false},
			{"SADDLE-STD", 1, false},
			{"PAINT-SVC", 1, true},
		},
		"FRAME-STD": {
			{"TUBE-STEEL", 4, false},
		},
		"WHEEL-26": {
			{"SPOKE-STD", 36, false},
			{"RIM-26", 1, false},
			{"TIRE-26", 1, false},
		},
	}

	for parentCode, lines := range boms {
		parentID := productIDs[parentCode]
		if _, err := bomRepo.FindActiveByProduct(ctx, parentID); err == nil {
			continue
		}

		bom, err := catalog.NewBillOfMaterials(parentID, parentCode+" structure", "1.0")
		if err != nil {
			return fmt.Errorf("seed BOM for %s: %w", parentCode, err)
		}
		for _, sl := range lines {
			line, err := bom.AddLine(productIDs[sl.componentCode], decimal.NewFromInt(sl.quantity), "pcs")
			if err != nil {
				return fmt.Errorf("seed BOM line %s -> %s: %w", parentCode, sl.componentCode, err)
			}
			if sl.optional {
				if err := bom.SetLineOptional(line.ID, true); err != nil {
					return err
				}
			}
		}
		if err := bom.Activate(); err != nil {
			return err
		}
		if err := bomRepo.Save(ctx, bom); err != nil {
			return fmt.Errorf("save BOM for %s: %w", parentCode, err)
		}
		log.Info("Seeded BOM", zap.String("product", parentCode))
	}

	if exists, err := orderRepo.ExistsByOrderNumber(ctx, "ORD-2026-001"); err != nil {
		return err
	} else if !exists {
		order, err := orders.NewProductionOrder("ORD-2026-001", orders.OrderTypeProduction, "Velo Retail GmbH")
		if err != nil {
			return err
		}
		if _, err := order.AddLine(productIDs["BIKE-CITY"], decimal.NewFromInt(10)); err != nil {
			return err
		}
		requiredDate := time.Now().AddDate(0, 1, 0)
		if err := order.SetRequiredDate(&requiredDate); err != nil {
			return err
		}
		if err := order.Submit(); err != nil {
			return err
		}
		if err := order.Confirm(); err != nil {
			return err
		}
		if err := orderRepo.Save(ctx, order); err != nil {
			return err
		}
		log.Info("Seeded order", zap.String("order_number", order.OrderNumber))
	}

	users := []struct {
		email    string
		password string
		name     string
		role     identity.UserRole
	}{
		{"admin@example.com", "admin-change-me", "Administrator", identity.RoleAdmin},
		{"planner@example.com", "planner-change-me", "Demo Planner", identity.RolePlanner},
	}

	for _, su := range users {
		if exists, err := userRepo.ExistsByEmail(ctx, su.email); err != nil {
			return err
		} else if exists {
			continue
		}

		user, err := identity.NewUser(su.email, su.password, su.role)
		if err != nil {
			return fmt.Errorf("seed user %s: %w", su.email, err)
		}
		if err := user.SetFullName(su.name); err != nil {
			return err
		}
		if err := userRepo.Save(ctx, user); err != nil {
			return err
		}
		log.Info("Seeded user", zap.String("email", su.email), zap.String("role", string(su.role)))
	}

	return nil
}
