package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(c *gin.Context) {
	c.Status(http.StatusOK)
}

func serve(t *testing.T, engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestRouter_VersionedPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	plans := NewDomainGroup("planning", "/planning")
	plans.GET("/plans", okHandler)

	r := NewRouter(engine, WithAPIVersion("v2"))
	r.Register(plans).Setup()

	assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v2/planning/plans").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, engine, http.MethodGet, "/api/v1/planning/plans").Code)
}

func TestRouter_DefaultVersionIsV1(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	catalog := NewDomainGroup("catalog", "/catalog")
	catalog.GET("/products", okHandler)

	NewRouter(engine).Register(catalog).Setup()

	assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/catalog/products").Code)
}

func TestRouter_UseAppliesOnlyToAPIGroup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/health", okHandler)

	guard := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}

	orders := NewDomainGroup("orders", "/orders")
	orders.GET("", okHandler)

	r := NewRouter(engine)
	r.Use(guard)
	r.Register(orders).Setup()

	// API routes pass through the middleware
	assert.Equal(t, http.StatusUnauthorized, serve(t, engine, http.MethodGet, "/api/v1/orders").Code)
	// Engine-level routes do not
	assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/health").Code)
}

func TestDomainGroup_AllMethods(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	boms := NewDomainGroup("catalog", "/catalog")
	boms.GET("/boms/:id", okHandler)
	boms.POST("/boms", okHandler)
	boms.PUT("/boms/:id", okHandler)
	boms.PATCH("/boms/:id", okHandler)
	boms.DELETE("/boms/:id", okHandler)

	NewRouter(engine).Register(boms).Setup()

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		assert.Equal(t, http.StatusOK, serve(t, engine, method, "/api/v1/catalog/boms/7").Code, method)
	}
	assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodPost, "/api/v1/catalog/boms").Code)
}

func TestDomainGroup_GroupMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	var sawUsers, sawPlans bool
	users := NewDomainGroup("identity", "/identity")
	users.Use(func(c *gin.Context) {
		sawUsers = true
		c.Next()
	})
	users.GET("/users", okHandler)

	plans := NewDomainGroup("planning", "/planning")
	plans.GET("/plans", func(c *gin.Context) {
		sawPlans = true
		c.Status(http.StatusOK)
	})

	NewRouter(engine).Register(users).Register(plans).Setup()

	serve(t, engine, http.MethodGet, "/api/v1/identity/users")
	assert.True(t, sawUsers)

	sawUsers = false
	serve(t, engine, http.MethodGet, "/api/v1/planning/plans")
	assert.True(t, sawPlans)
	// The identity group's middleware must not leak into planning
	assert.False(t, sawUsers)
}

func TestDomainGroup_PerRouteHandlerChain(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	deny := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusForbidden)
	}

	products := NewDomainGroup("catalog", "/catalog")
	products.GET("/products", okHandler)
	products.DELETE("/products/:id", deny, okHandler)

	NewRouter(engine).Register(products).Setup()

	assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/catalog/products").Code)
	assert.Equal(t, http.StatusForbidden, serve(t, engine, http.MethodDelete, "/api/v1/catalog/products/1").Code)
}

func TestDomainGroup_Subgroups(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	planning := NewDomainGroup("planning", "/planning")
	runs := planning.Group("runs", "/plans/:id")
	runs.POST("/calculate", okHandler)

	NewRouter(engine).Register(planning).Setup()

	w := serve(t, engine, http.MethodPost, "/api/v1/planning/plans/42/calculate")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RegisterChains(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	a := NewDomainGroup("a", "/a")
	a.GET("", okHandler)
	b := NewDomainGroup("b", "/b")
	b.GET("", okHandler)

	r := NewRouter(engine).Register(a).Register(b)
	require.NotNil(t, r)
	r.Setup()

	assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/a").Code)
	assert.Equal(t, http.StatusOK, serve(t, engine, http.MethodGet, "/api/v1/b").Code)
}

func TestDomainGroup_Name(t *testing.T) {
	assert.Equal(t, "catalog", NewDomainGroup("catalog", "/catalog").Name())
}
