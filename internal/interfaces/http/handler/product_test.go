package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/mrp/backend/internal/application/catalog"
	"github.com/mrp/backend/internal/domain/catalog"
	"github.com/mrp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository implements catalog.ProductRepository for testing
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
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByKind(ctx context.Context, kind catalog.ProductKind, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, kind, filter)
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

// MockBOMRepository implements catalog.BOMRepository for testing
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

// Test setup helpers

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupProductHandler(productRepo *MockProductRepository, bomRepo *MockBOMRepository) *ProductHandler {
	productService := catalogapp.NewProductService(productRepo, bomRepo)
	return NewProductHandler(productService)
}

func createTestProduct() *catalog.Product {
	product, _ := catalog.NewProduct("ASM-001", "Test Assembly", "pcs", catalog.ProductKindAssembly)
	return product
}

// Tests

func TestProductHandler_Create_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	productRepo.On("ExistsByCode", mock.Anything, "ASM-001").Return(false, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	reqBody := catalogapp.CreateProductRequest{
		Code: "ASM-001",
		Name: "Test Assembly",
		Kind: "assembly",
		Unit: "pcs",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Create_DuplicateCode(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	productRepo.On("ExistsByCode", mock.Anything, "ASM-001").Return(true, nil)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	reqBody := catalogapp.CreateProductRequest{
		Code: "ASM-001",
		Name: "Test Assembly",
		Kind: "assembly",
		Unit: "pcs",
	}
	body, _ := json.Marshal(reqBody)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Create_InvalidJSON(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	router := setupTestRouter()
	router.POST("/products", handler.Create)

	req := httptest.NewRequest(http.MethodPost, "/products", bytes.NewBufferString("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_GetByID_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	productID := uuid.New()
	product := createTestProduct()
	product.ID = productID

	productRepo.On("FindByID", mock.Anything, productID).Return(product, nil)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_GetByID_NotFound(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	productID := uuid.New()

	productRepo.On("FindByID", mock.Anything, productID).Return(nil, shared.ErrNotFound)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_GetByID_InvalidID(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	router := setupTestRouter()
	router.GET("/products/:id", handler.GetByID)

	req := httptest.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_List_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	products := []catalog.Product{*createTestProduct()}

	productRepo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(products, nil)
	productRepo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	router := setupTestRouter()
	router.GET("/products", handler.List)

	req := httptest.NewRequest(http.MethodGet, "/products?page=1&page_size=20", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Meta    struct {
			Total int64 `json:"total"`
		} `json:"meta"`
	}
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(1), resp.Meta.Total)
	productRepo.AssertExpectations(t)
}

func TestProductHandler_Delete_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	productID := uuid.New()
	product := createTestProduct()
	product.ID = productID

	productRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	bomRepo.On("FindByProduct", mock.Anything, productID).Return([]catalog.BillOfMaterials{}, nil)
	productRepo.On("Delete", mock.Anything, productID).Return(nil)

	router := setupTestRouter()
	router.DELETE("/products/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	productRepo.AssertExpectations(t)
	bomRepo.AssertExpectations(t)
}

func TestProductHandler_Delete_InUse(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	productID := uuid.New()
	product := createTestProduct()
	product.ID = productID

	bom, _ := catalog.NewBillOfMaterials(productID, "Main BOM", "v1")

	productRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	bomRepo.On("FindByProduct", mock.Anything, productID).Return([]catalog.BillOfMaterials{*bom}, nil)

	router := setupTestRouter()
	router.DELETE("/products/:id", handler.Delete)

	req := httptest.NewRequest(http.MethodDelete, "/products/"+productID.String(), nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	productRepo.AssertExpectations(t)
	bomRepo.AssertExpectations(t)
}

func TestProductHandler_Activate_Success(t *testing.T) {
	productRepo := new(MockProductRepository)
	bomRepo := new(MockBOMRepository)
	handler := setupProductHandler(productRepo, bomRepo)

	productID := uuid.New()
	product := createTestProduct()
	product.ID = productID
	product.Active = false

	productRepo.On("FindByID", mock.Anything, productID).Return(product, nil)
	productRepo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := setupTestRouter()
	router.POST("/products/:id/activate", handler.Activate)

	req := httptest.NewRequest(http.MethodPost, "/products/"+productID.String()+"/activate", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	productRepo.AssertExpectations(t)
}
