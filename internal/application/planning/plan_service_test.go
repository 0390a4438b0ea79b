package planning

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/orders"
	"github.com/mrp/backend/internal/domain/planning"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// In-memory fakes
// ============================================================================

type memProducts struct{ items map[uuid.UUID]*catalog.Product }

func (m *memProducts) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := m.items[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}
func (m *memProducts) FindByCode(_ context.Context, code string) (*catalog.Product, error) {
	for _, p := range m.items {
		if p.Code == code {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (m *memProducts) FindByIDs(_ context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	result := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := m.items[id]; ok {
			result = append(result, *p)
		}
	}
	return result, nil
}
func (m *memProducts) FindAll(context.Context, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}
func (m *memProducts) FindByKind(context.Context, catalog.ProductKind, shared.Filter) ([]catalog.Product, error) {
	return nil, nil
}
func (m *memProducts) Save(_ context.Context, p *catalog.Product) error {
	m.items[p.ID] = p
	return nil
}
func (m *memProducts) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}
func (m *memProducts) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(m.items)), nil
}
func (m *memProducts) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := m.FindByCode(context.Background(), code)
	return err == nil, nil
}

type memBOMs struct{ byProduct map[uuid.UUID]*catalog.BillOfMaterials }

func (m *memBOMs) FindByID(_ context.Context, id uuid.UUID) (*catalog.BillOfMaterials, error) {
	for _, b := range m.byProduct {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (m *memBOMs) FindActiveByProduct(_ context.Context, productID uuid.UUID) (*catalog.BillOfMaterials, error) {
	if b, ok := m.byProduct[productID]; ok && b.IsActive {
		return b, nil
	}
	return nil, shared.ErrNotFound
}
func (m *memBOMs) FindByProduct(_ context.Context, productID uuid.UUID) ([]catalog.BillOfMaterials, error) {
	if b, ok := m.byProduct[productID]; ok {
		return []catalog.BillOfMaterials{*b}, nil
	}
	return nil, nil
}
func (m *memBOMs) FindAll(context.Context, shared.Filter) ([]catalog.BillOfMaterials, error) {
	return nil, nil
}
func (m *memBOMs) Save(_ context.Context, b *catalog.BillOfMaterials) error {
	m.byProduct[b.ProductID] = b
	return nil
}
func (m *memBOMs) Delete(context.Context, uuid.UUID) error { return nil }
func (m *memBOMs) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(m.byProduct)), nil
}
func (m *memBOMs) DeactivateOthers(context.Context, uuid.UUID, uuid.UUID) error { return nil }

type memOrders struct{ items map[uuid.UUID]*orders.ProductionOrder }

func (m *memOrders) FindByID(_ context.Context, id uuid.UUID) (*orders.ProductionOrder, error) {
	if o, ok := m.items[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}
func (m *memOrders) FindByOrderNumber(_ context.Context, orderNumber string) (*orders.ProductionOrder, error) {
	for _, o := range m.items {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (m *memOrders) FindByIDsWithStatuses(_ context.Context, ids []uuid.UUID, statuses []orders.OrderStatus) ([]orders.ProductionOrder, error) {
	result := make([]orders.ProductionOrder, 0, len(ids))
	for _, id := range ids {
		o, ok := m.items[id]
		if !ok {
			continue
		}
		for _, status := range statuses {
			if o.Status == status {
				result = append(result, *o)
				break
			}
		}
	}
	return result, nil
}
func (m *memOrders) FindAll(context.Context, shared.Filter) ([]orders.ProductionOrder, error) {
	return nil, nil
}
func (m *memOrders) Save(_ context.Context, o *orders.ProductionOrder) error {
	m.items[o.ID] = o
	return nil
}
func (m *memOrders) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}
func (m *memOrders) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(m.items)), nil
}
func (m *memOrders) ExistsByOrderNumber(_ context.Context, orderNumber string) (bool, error) {
	_, err := m.FindByOrderNumber(context.Background(), orderNumber)
	return err == nil, nil
}

type memPlans struct{ items map[uuid.UUID]*planning.RequirementPlan }

func (m *memPlans) FindByID(_ context.Context, id uuid.UUID) (*planning.RequirementPlan, error) {
	if p, ok := m.items[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}
func (m *memPlans) FindByReferenceNumber(_ context.Context, ref string) (*planning.RequirementPlan, error) {
	for _, p := range m.items {
		if p.ReferenceNumber == ref {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}
func (m *memPlans) FindAll(context.Context, shared.Filter) ([]planning.RequirementPlan, error) {
	result := make([]planning.RequirementPlan, 0, len(m.items))
	for _, p := range m.items {
		result = append(result, *p)
	}
	return result, nil
}
func (m *memPlans) Save(_ context.Context, p *planning.RequirementPlan) error {
	m.items[p.ID] = p
	return nil
}
func (m *memPlans) SaveCalculated(_ context.Context, p *planning.RequirementPlan) error {
	m.items[p.ID] = p
	return nil
}
func (m *memPlans) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}
func (m *memPlans) Count(context.Context, shared.Filter) (int64, error) {
	return int64(len(m.items)), nil
}
func (m *memPlans) ExistsByReferenceNumber(_ context.Context, ref string) (bool, error) {
	_, err := m.FindByReferenceNumber(context.Background(), ref)
	return err == nil, nil
}

type memRepos struct {
	plans    *memPlans
	products *memProducts
	boms     *memBOMs
	orders   *memOrders
}

func (r *memRepos) Plans() planning.PlanRepository           { return r.plans }
func (r *memRepos) Products() catalog.ProductRepository      { return r.products }
func (r *memRepos) BOMs() catalog.BOMRepository              { return r.boms }
func (r *memRepos) Orders() orders.ProductionOrderRepository { return r.orders }

type stubScope struct{ repos *memRepos }

func (s *stubScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

type stubLocker struct{ busy bool }

func (l *stubLocker) Acquire(context.Context, uuid.UUID) (func(), error) {
	if l.busy {
		return nil, ErrCalculationInProgress
	}
	return func() {}, nil
}

// ============================================================================
// Fixture
// ============================================================================

type fixture struct {
	repos   *memRepos
	service *PlanService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repos := &memRepos{
		plans:    &memPlans{items: make(map[uuid.UUID]*planning.RequirementPlan)},
		products: &memProducts{items: make(map[uuid.UUID]*catalog.Product)},
		boms:     &memBOMs{byProduct: make(map[uuid.UUID]*catalog.BillOfMaterials)},
		orders:   &memOrders{items: make(map[uuid.UUID]*orders.ProductionOrder)},
	}
	service := NewPlanService(repos.plans, repos.orders, &stubScope{repos: repos}, &stubLocker{}, nil)
	return &fixture{repos: repos, service: service}
}

func (f *fixture) addProduct(t *testing.T, code string, kind catalog.ProductKind, stock, minStock int64, leadTimeDays int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, "Product "+code, "pcs", kind)
	require.NoError(t, err)
	require.NoError(t, product.SetStockOnHand(decimal.NewFromInt(stock)))
	require.NoError(t, product.SetMinimumStock(decimal.NewFromInt(minStock)))
	require.NoError(t, product.SetLeadTimeDays(leadTimeDays))
	f.repos.products.items[product.ID] = product
	return product
}

func (f *fixture) addActiveBOM(t *testing.T, productID uuid.UUID, components map[uuid.UUID]int64) {
	t.Helper()
	bom, err := catalog.NewBillOfMaterials(productID, "BOM", "v1")
	require.NoError(t, err)
	for componentID, qty := range components {
		_, err := bom.AddLine(componentID, decimal.NewFromInt(qty), "pcs")
		require.NoError(t, err)
	}
	require.NoError(t, bom.Activate())
	f.repos.boms.byProduct[productID] = bom
}

func (f *fixture) addConfirmedOrder(t *testing.T, number string, productID uuid.UUID, qty int64, requiredDate *time.Time) *orders.ProductionOrder {
	t.Helper()
	order, err := orders.NewProductionOrder(number, orders.OrderTypeProduction, "ACME")
	require.NoError(t, err)
	_, err = order.AddLine(productID, decimal.NewFromInt(qty))
	require.NoError(t, err)
	require.NoError(t, order.SetRequiredDate(requiredDate))
	require.NoError(t, order.Submit())
	require.NoError(t, order.Confirm())
	f.repos.orders.items[order.ID] = order
	return order
}

func (f *fixture) addPlan(t *testing.T, ref string, orderIDs ...uuid.UUID) *planning.RequirementPlan {
	t.Helper()
	plan, err := planning.NewRequirementPlan(ref, true, true)
	require.NoError(t, err)
	plan.ClearDomainEvents()
	for _, id := range orderIDs {
		require.NoError(t, plan.LinkOrder(id))
	}
	f.repos.plans.items[plan.ID] = plan
	return plan
}

func testDate(t *testing.T, value string) *time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	require.NoError(t, err)
	return &d
}

// ============================================================================
// Tests
// ============================================================================

func TestPlanService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates plan with linked orders", func(t *testing.T) {
		f := newFixture(t)
		product := f.addProduct(t, "ASM-1", catalog.ProductKindAssembly, 0, 0, 0)
		order := f.addConfirmedOrder(t, "ORD-001", product.ID, 5, nil)

		resp, err := f.service.Create(ctx, CreatePlanRequest{
			ReferenceNumber: "MRP-2024-001",
			OrderIDs:        []uuid.UUID{order.ID},
		})

		require.NoError(t, err)
		assert.Equal(t, "MRP-2024-001", resp.ReferenceNumber)
		assert.Equal(t, "DRAFT", resp.Status)
		assert.True(t, resp.ConsiderStock)
		assert.True(t, resp.ConsiderMinStock)
		assert.Equal(t, []uuid.UUID{order.ID}, resp.OrderIDs)
	})

	t.Run("rejects duplicate reference number", func(t *testing.T) {
		f := newFixture(t)
		f.addPlan(t, "MRP-2024-001")

		_, err := f.service.Create(ctx, CreatePlanRequest{ReferenceNumber: "MRP-2024-001"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
	})

	t.Run("rejects unknown source order", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Create(ctx, CreatePlanRequest{
			ReferenceNumber: "MRP-2024-002",
			OrderIDs:        []uuid.UUID{uuid.New()},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_ORDER", domainErr.Code)
	})
}

func TestPlanService_Calculate(t *testing.T) {
	ctx := context.Background()

	t.Run("nets exploded demand against stock", func(t *testing.T) {
		f := newFixture(t)

		assembly := f.addProduct(t, "ASM-1", catalog.ProductKindAssembly, 0, 0, 0)
		material := f.addProduct(t, "MAT-1", catalog.ProductKindMaterial, 12, 5, 5)
		f.addActiveBOM(t, assembly.ID, map[uuid.UUID]int64{material.ID: 1})

		order := f.addConfirmedOrder(t, "ORD-001", assembly.ID, 10, testDate(t, "2024-06-01"))
		plan := f.addPlan(t, "MRP-2024-001", order.ID)

		resp, err := f.service.Calculate(ctx, plan.ID)
		require.NoError(t, err)

		assert.Equal(t, "CALCULATED", resp.Status)
		require.Len(t, resp.Lines, 1)

		line := resp.Lines[0]
		assert.Equal(t, material.ID, line.ProductID)
		assert.Equal(t, "10", line.RequiredQuantity.String())
		assert.Equal(t, "7", line.AvailableQuantity.String())
		assert.Equal(t, "3", line.QuantityToProcure.String())
		assert.False(t, line.IsAvailable)
		require.NotNil(t, line.PlannedOrderDate)
		assert.Equal(t, *testDate(t, "2024-05-27"), *line.PlannedOrderDate)
	})

	t.Run("recalculation replaces the previous line set", func(t *testing.T) {
		f := newFixture(t)

		assembly := f.addProduct(t, "ASM-1", catalog.ProductKindAssembly, 0, 0, 0)
		material := f.addProduct(t, "MAT-1", catalog.ProductKindMaterial, 0, 0, 0)
		f.addActiveBOM(t, assembly.ID, map[uuid.UUID]int64{material.ID: 2})

		order := f.addConfirmedOrder(t, "ORD-001", assembly.ID, 3, nil)
		plan := f.addPlan(t, "MRP-2024-001", order.ID)

		first, err := f.service.Calculate(ctx, plan.ID)
		require.NoError(t, err)
		require.Len(t, first.Lines, 1)
		assert.Equal(t, "6", first.Lines[0].QuantityToProcure.String())

		// stock arrives between runs
		require.NoError(t, material.SetStockOnHand(decimal.NewFromInt(4)))

		second, err := f.service.Calculate(ctx, plan.ID)
		require.NoError(t, err)
		require.Len(t, second.Lines, 1)
		assert.Equal(t, "2", second.Lines[0].QuantityToProcure.String())
		assert.NotEqual(t, first.Lines[0].ID, second.Lines[0].ID)
	})

	t.Run("repeated runs with unchanged inputs produce identical lines", func(t *testing.T) {
		f := newFixture(t)

		assembly := f.addProduct(t, "ASM-1", catalog.ProductKindAssembly, 0, 0, 0)
		steel := f.addProduct(t, "MAT-STEEL", catalog.ProductKindMaterial, 4, 2, 7)
		bolts := f.addProduct(t, "MAT-BOLT", catalog.ProductKindMaterial, 100, 0, 2)
		f.addActiveBOM(t, assembly.ID, map[uuid.UUID]int64{steel.ID: 3, bolts.ID: 8})

		order := f.addConfirmedOrder(t, "ORD-001", assembly.ID, 5, testDate(t, "2024-07-15"))
		plan := f.addPlan(t, "MRP-2024-001", order.ID)

		first, err := f.service.Calculate(ctx, plan.ID)
		require.NoError(t, err)
		second, err := f.service.Calculate(ctx, plan.ID)
		require.NoError(t, err)

		require.Equal(t, len(first.Lines), len(second.Lines))
		for i := range first.Lines {
			prev, next := first.Lines[i], second.Lines[i]
			assert.Equal(t, prev.ProductID, next.ProductID)
			assert.True(t, prev.RequiredQuantity.Equal(next.RequiredQuantity),
				"required quantity drifted at line %d", i)
			assert.True(t, prev.AvailableQuantity.Equal(next.AvailableQuantity),
				"available quantity drifted at line %d", i)
			assert.True(t, prev.QuantityToProcure.Equal(next.QuantityToProcure),
				"procurement quantity drifted at line %d", i)
			assert.Equal(t, prev.IsAvailable, next.IsAvailable)
			assert.Equal(t, prev.RequirementDate, next.RequirementDate)
			assert.Equal(t, prev.PlannedOrderDate, next.PlannedOrderDate)
		}
	})

	t.Run("fails when plan does not exist", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Calculate(ctx, uuid.New())
		assert.ErrorIs(t, err, planning.ErrPlanNotFound)
	})

	t.Run("fails when no linked order is eligible", func(t *testing.T) {
		f := newFixture(t)

		product := f.addProduct(t, "ASM-1", catalog.ProductKindAssembly, 0, 0, 0)
		order := f.addConfirmedOrder(t, "ORD-001", product.ID, 1, nil)
		require.NoError(t, order.Cancel("customer withdrew"))
		plan := f.addPlan(t, "MRP-2024-001", order.ID)

		_, err := f.service.Calculate(ctx, plan.ID)
		assert.ErrorIs(t, err, planning.ErrNoEligibleOrders)
	})

	t.Run("fails on a closed plan", func(t *testing.T) {
		f := newFixture(t)
		plan := f.addPlan(t, "MRP-2024-001")
		require.NoError(t, plan.Cancel())

		_, err := f.service.Calculate(ctx, plan.ID)
		assert.ErrorIs(t, err, planning.ErrPlanClosed)
	})

	t.Run("maps cyclic BOM to a domain error", func(t *testing.T) {
		f := newFixture(t)

		a := f.addProduct(t, "ASM-A", catalog.ProductKindAssembly, 0, 0, 0)
		b := f.addProduct(t, "SUB-B", catalog.ProductKindSubAssembly, 0, 0, 0)
		f.addActiveBOM(t, a.ID, map[uuid.UUID]int64{b.ID: 1})
		f.addActiveBOM(t, b.ID, map[uuid.UUID]int64{a.ID: 1})

		order := f.addConfirmedOrder(t, "ORD-001", a.ID, 1, nil)
		plan := f.addPlan(t, "MRP-2024-001", order.ID)

		_, err := f.service.Calculate(ctx, plan.ID)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CYCLIC_BOM", domainErr.Code)

		// the failed run must not have touched the plan
		stored, findErr := f.repos.plans.FindByID(ctx, plan.ID)
		require.NoError(t, findErr)
		assert.Equal(t, planning.PlanStatusDraft, stored.Status)
	})

	t.Run("rejects concurrent calculation of the same plan", func(t *testing.T) {
		f := newFixture(t)
		plan := f.addPlan(t, "MRP-2024-001")
		f.service.locker = &stubLocker{busy: true}

		_, err := f.service.Calculate(ctx, plan.ID)
		assert.ErrorIs(t, err, ErrCalculationInProgress)
	})

	t.Run("non-assembly order lines become direct demand", func(t *testing.T) {
		f := newFixture(t)

		material := f.addProduct(t, "MAT-1", catalog.ProductKindMaterial, 2, 0, 0)
		order := f.addConfirmedOrder(t, "ORD-001", material.ID, 5, nil)
		plan := f.addPlan(t, "MRP-2024-001", order.ID)

		resp, err := f.service.Calculate(ctx, plan.ID)
		require.NoError(t, err)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, "3", resp.Lines[0].QuantityToProcure.String())
	})
}

func TestPlanService_Lifecycle(t *testing.T) {
	ctx := context.Background()

	t.Run("processing and completion after calculation", func(t *testing.T) {
		f := newFixture(t)

		material := f.addProduct(t, "MAT-1", catalog.ProductKindMaterial, 0, 0, 0)
		order := f.addConfirmedOrder(t, "ORD-001", material.ID, 1, nil)
		plan := f.addPlan(t, "MRP-2024-001", order.ID)

		_, err := f.service.Calculate(ctx, plan.ID)
		require.NoError(t, err)

		resp, err := f.service.StartProcessing(ctx, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, "PROCESSING", resp.Status)

		resp, err = f.service.Complete(ctx, plan.ID)
		require.NoError(t, err)
		assert.Equal(t, "COMPLETED", resp.Status)
	})

	t.Run("updates are rejected on a closed plan", func(t *testing.T) {
		f := newFixture(t)
		plan := f.addPlan(t, "MRP-2024-001")

		_, err := f.service.Cancel(ctx, plan.ID)
		require.NoError(t, err)

		considerStock := false
		_, err = f.service.Update(ctx, plan.ID, UpdatePlanRequest{ConsiderStock: &considerStock})
		assert.ErrorIs(t, err, planning.ErrPlanClosed)
	})
}
