package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Mocks
// ============================================================================

// MockProductRepository is a mock implementation of ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByKind(ctx context.Context, kind catalog.ProductKind, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, kind, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockBOMRepository is a mock implementation of BOMRepository
type MockBOMRepository struct {
	mock.Mock
}

func (m *MockBOMRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.BillOfMaterials, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BillOfMaterials), args.Error(1)
}

func (m *MockBOMRepository) FindActiveByProduct(ctx context.Context, productID uuid.UUID) (*catalog.BillOfMaterials, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.BillOfMaterials), args.Error(1)
}

func (m *MockBOMRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.BillOfMaterials, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.BillOfMaterials), args.Error(1)
}

func (m *MockBOMRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.BillOfMaterials, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.BillOfMaterials), args.Error(1)
}

func (m *MockBOMRepository) Save(ctx context.Context, bom *catalog.BillOfMaterials) error {
	args := m.Called(ctx, bom)
	return args.Error(0)
}

func (m *MockBOMRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBOMRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBOMRepository) DeactivateOthers(ctx context.Context, productID, keepID uuid.UUID) error {
	args := m.Called(ctx, productID, keepID)
	return args.Error(0)
}

// ============================================================================
// Helpers
// ============================================================================

func newTestProduct(t *testing.T, code string, kind catalog.ProductKind) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, "Product "+code, "pcs", kind)
	require.NoError(t, err)
	return product
}

// ============================================================================
// Tests
// ============================================================================

func TestBOMService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates BOM with component lines", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		bomRepo := new(MockBOMRepository)
		service := NewBOMService(bomRepo, productRepo)

		owner := newTestProduct(t, "ASM-1", catalog.ProductKindAssembly)
		component := newTestProduct(t, "MAT-1", catalog.ProductKindMaterial)

		productRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
		productRepo.On("FindByID", ctx, component.ID).Return(component, nil)
		bomRepo.On("Save", ctx, mock.AnythingOfType("*catalog.BillOfMaterials")).Return(nil)

		resp, err := service.Create(ctx, CreateBOMRequest{
			ProductID: owner.ID,
			Name:      "Main structure",
			Version:   "1.0",
			Lines: []BOMLineRequest{
				{ComponentProductID: component.ID, QuantityPerUnit: decimal.NewFromInt(4)},
			},
		})

		require.NoError(t, err)
		assert.Equal(t, owner.ID, resp.ProductID)
		assert.False(t, resp.IsActive)
		require.Len(t, resp.Lines, 1)
		assert.Equal(t, component.ID, resp.Lines[0].ComponentProductID)
		assert.Equal(t, "pcs", resp.Lines[0].Unit)
		bomRepo.AssertExpectations(t)
	})

	t.Run("activation on create deactivates sibling versions", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		bomRepo := new(MockBOMRepository)
		service := NewBOMService(bomRepo, productRepo)

		owner := newTestProduct(t, "ASM-1", catalog.ProductKindAssembly)
		component := newTestProduct(t, "MAT-1", catalog.ProductKindMaterial)

		productRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
		productRepo.On("FindByID", ctx, component.ID).Return(component, nil)
		bomRepo.On("Save", ctx, mock.AnythingOfType("*catalog.BillOfMaterials")).Return(nil)
		bomRepo.On("DeactivateOthers", ctx, owner.ID, mock.AnythingOfType("uuid.UUID")).Return(nil)

		resp, err := service.Create(ctx, CreateBOMRequest{
			ProductID: owner.ID,
			Name:      "Main structure",
			Activate:  true,
			Lines: []BOMLineRequest{
				{ComponentProductID: component.ID, QuantityPerUnit: decimal.NewFromInt(1)},
			},
		})

		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		bomRepo.AssertCalled(t, "DeactivateOthers", ctx, owner.ID, mock.AnythingOfType("uuid.UUID"))
	})

	t.Run("rejects unknown owning product", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		bomRepo := new(MockBOMRepository)
		service := NewBOMService(bomRepo, productRepo)

		productID := uuid.New()
		productRepo.On("FindByID", ctx, productID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateBOMRequest{ProductID: productID, Name: "Orphan"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PRODUCT", domainErr.Code)
	})

	t.Run("rejects unknown component product", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		bomRepo := new(MockBOMRepository)
		service := NewBOMService(bomRepo, productRepo)

		owner := newTestProduct(t, "ASM-1", catalog.ProductKindAssembly)
		componentID := uuid.New()

		productRepo.On("FindByID", ctx, owner.ID).Return(owner, nil)
		productRepo.On("FindByID", ctx, componentID).Return(nil, shared.ErrNotFound)

		_, err := service.Create(ctx, CreateBOMRequest{
			ProductID: owner.ID,
			Name:      "Main structure",
			Lines: []BOMLineRequest{
				{ComponentProductID: componentID, QuantityPerUnit: decimal.NewFromInt(1)},
			},
		})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_COMPONENT", domainErr.Code)
	})
}

func TestBOMService_Activate(t *testing.T) {
	ctx := context.Background()

	t.Run("activates and deactivates siblings", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		bomRepo := new(MockBOMRepository)
		service := NewBOMService(bomRepo, productRepo)

		owner := newTestProduct(t, "ASM-1", catalog.ProductKindAssembly)
		bom, err := catalog.NewBillOfMaterials(owner.ID, "Main structure", "2.0")
		require.NoError(t, err)
		_, err = bom.AddLine(uuid.New(), decimal.NewFromInt(2), "pcs")
		require.NoError(t, err)

		bomRepo.On("FindByID", ctx, bom.ID).Return(bom, nil)
		bomRepo.On("Save", ctx, bom).Return(nil)
		bomRepo.On("DeactivateOthers", ctx, owner.ID, bom.ID).Return(nil)

		resp, err := service.Activate(ctx, bom.ID)

		require.NoError(t, err)
		assert.True(t, resp.IsActive)
		bomRepo.AssertExpectations(t)
	})

	t.Run("refuses to activate an empty BOM", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		bomRepo := new(MockBOMRepository)
		service := NewBOMService(bomRepo, productRepo)

		bom, err := catalog.NewBillOfMaterials(uuid.New(), "Empty", "1.0")
		require.NoError(t, err)

		bomRepo.On("FindByID", ctx, bom.ID).Return(bom, nil)

		_, err = service.Activate(ctx, bom.ID)
		require.Error(t, err)
		bomRepo.AssertNotCalled(t, "DeactivateOthers", mock.Anything, mock.Anything, mock.Anything)
	})
}
